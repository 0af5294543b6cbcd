package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddlewares allows the single frontend origin to call the API with
// credentials. An origin of "*" reflects whatever the browser sends.
func CORSMiddlewares(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := origin
		if origin == "*" {
			allowed = c.GetHeader("Origin")
		}
		if allowed != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowed)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
