package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

// NotificationController only ever touches the caller's own notifications.
type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(svc *services.Services) *NotificationController {
	return &NotificationController{Notifications: svc.Notifications}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)
	utils.RespondJSON(c, http.StatusOK, "Your notifications", nc.Notifications.ForUser(userID))
}

func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)
	utils.RespondJSON(c, http.StatusOK, "Unread notifications", gin.H{
		"unread": nc.Notifications.UnreadCount(userID),
	})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)
	if err := nc.Notifications.MarkRead(c.Param("notif_id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", nil)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)
	if err := nc.Notifications.MarkAllRead(userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)
	if err := nc.Notifications.Delete(c.Param("notif_id"), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", nil)
}
