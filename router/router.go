package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/config"
	"github.com/yeremiapane/beartracks/controllers"
	"github.com/yeremiapane/beartracks/hub"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/services"
)

func SetupRouter(svc *services.Services, h *hub.Hub, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Throttle(cfg.RateLimitPerSecond))

	userCtrl := controllers.NewUserController(svc)
	itemCtrl := controllers.NewItemController(svc)
	claimCtrl := controllers.NewClaimController(svc)
	notificationCtrl := controllers.NewNotificationController(svc)
	socketCtrl := controllers.NewSocketController(svc, h, cfg.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	signupLimiter := middlewares.NewRateLimiter(10, time.Minute)
	r.POST("/register", signupLimiter.RateLimit(), userCtrl.Register)
	r.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	r.GET("/items", itemCtrl.BrowseItems)
	r.GET("/items/recent", itemCtrl.RecentItems)
	r.GET("/items/:item_id", itemCtrl.GetItem)
	r.GET("/meta", itemCtrl.GetMeta)
	r.GET("/stats", itemCtrl.GetStats)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(svc.Users))
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		auth.POST("/items", itemCtrl.SubmitItem)
		auth.POST("/items/:item_id/claims", claimCtrl.SubmitClaim)
		auth.GET("/claims/mine", claimCtrl.MyClaims)

		auth.GET("/notifications", notificationCtrl.GetNotifications)
		auth.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
		auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)
		auth.POST("/notifications/read-all", notificationCtrl.MarkAllRead)
		auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

		auth.GET("/ws/notifications", socketCtrl.NotificationSocket)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(svc.Users), middlewares.AdminOnly())
	{
		admin.GET("/items", itemCtrl.GetAllItems)
		admin.PATCH("/items/:item_id/approve", itemCtrl.ApproveItem)
		admin.DELETE("/items/:item_id", itemCtrl.DeleteItem)

		admin.GET("/claims", claimCtrl.GetAllClaims)
		admin.GET("/claims/pending", claimCtrl.GetPendingClaims)
		admin.POST("/claims/:claim_id/approve", claimCtrl.ApproveClaim)
		admin.POST("/claims/:claim_id/deny", claimCtrl.DenyClaim)
		admin.GET("/claims/:claim_id/slip", middlewares.SlipLoggerMiddleware(), claimCtrl.PickupSlip)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)
	}

	return r
}
