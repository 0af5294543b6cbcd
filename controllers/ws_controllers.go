package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/beartracks/hub"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

type SocketController struct {
	Hub           *hub.Hub
	Notifications *services.NotificationService
	upgrader      websocket.Upgrader
}

// NewSocketController accepts upgrades from origin, or from anywhere when
// origin is "*".
func NewSocketController(svc *services.Services, h *hub.Hub, origin string) *SocketController {
	return &SocketController{
		Hub:           h,
		Notifications: svc.Notifications,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				got := r.Header.Get("Origin")
				return origin == "*" || got == "" || got == origin
			},
		},
	}
}

// NotificationSocket streams the caller's notification events. The current
// unread count is sent first.
func (sc *SocketController) NotificationSocket(c *gin.Context) {
	userID := c.GetString(middlewares.CtxUserID)

	conn, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for user %s: %v", userID, err)
		return
	}

	err = conn.WriteJSON(hub.Message{
		Event: services.EventUnreadCount,
		Data:  services.UnreadCountEvent{UserID: userID, Unread: sc.Notifications.UnreadCount(userID)},
	})
	if err != nil {
		conn.Close()
		return
	}

	sc.Hub.Serve(conn, userID)
}
