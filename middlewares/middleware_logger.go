package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/beartracks/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" && c.Query("token") == "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := utils.InfoLogger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if userID := c.GetString(CtxUserID); userID != "" {
			entry = entry.WithField("user_id", userID)
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// SlipLoggerMiddleware records pickup slip downloads.
func SlipLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimID := c.Param("claim_id")
		utils.InfoLogger.Printf("Generating pickup slip for claim ID: %s", claimID)

		c.Next()

		if c.Writer.Status() == 200 {
			utils.InfoLogger.Printf("Pickup slip generated for claim ID: %s", claimID)
		} else {
			utils.ErrorLogger.Printf("Failed to generate pickup slip for claim ID: %s (status %d)", claimID, c.Writer.Status())
		}
	}
}
