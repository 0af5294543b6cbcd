package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/utils"
)

// AdminOnly must run after AuthMiddleware. It checks the stored account, so
// an admin demoted or deleted after login loses access at once.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(CtxUser)
		user, ok := value.(models.User)
		if !exists || !ok {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
