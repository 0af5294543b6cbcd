package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/beartracks/hub"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/services"
)

func unreadCount(t *testing.T, app *testApp, token string) int {
	t.Helper()
	w, env := app.do(t, http.MethodGet, "/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Unread int `json:"unread"`
	}
	decodeData(t, env, &resp)
	return resp.Unread
}

func TestNotificationEndpoints(t *testing.T) {
	app := setupRouterForTest(t)
	aliceToken, aliceID := app.register(t, "alice@school.edu", "Alice", "9th Grade")
	bobToken, bobID := app.register(t, "bob@school.edu", "Bob", "9th Grade")

	first, err := app.svc.Notifications.Create(models.Notification{UserID: aliceID, Type: models.NotificationClaimDenied, Title: "a", Message: "a"})
	require.NoError(t, err)
	_, err = app.svc.Notifications.Create(models.Notification{UserID: aliceID, Type: models.NotificationClaimDenied, Title: "b", Message: "b"})
	require.NoError(t, err)
	bobs, err := app.svc.Notifications.Create(models.Notification{UserID: bobID, Type: models.NotificationClaimDenied, Title: "c", Message: "c"})
	require.NoError(t, err)

	assert.Equal(t, 2, unreadCount(t, app, aliceToken))

	w, _ := app.do(t, http.MethodPatch, "/notifications/"+first.ID+"/read", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, unreadCount(t, app, aliceToken))

	// someone else's notification looks like a missing one
	w, _ = app.do(t, http.MethodPatch, "/notifications/"+bobs.ID+"/read", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.do(t, http.MethodDelete, "/notifications/"+bobs.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodPost, "/notifications/read-all", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, unreadCount(t, app, aliceToken))
	assert.Equal(t, 1, unreadCount(t, app, bobToken))

	w, _ = app.do(t, http.MethodDelete, "/notifications/"+first.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env := app.do(t, http.MethodGet, "/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []models.Notification
	decodeData(t, env, &notes)
	assert.Len(t, notes, 1)
}

func TestNotificationSocket(t *testing.T) {
	app := setupRouterForTest(t)
	finderToken, finderID := app.register(t, "f@school.edu", "Finder", "12th Grade")
	ownerToken, _ := app.register(t, "o@school.edu", "Owner", "9th Grade")
	item := app.submitItem(t, finderToken, "Blue Backpack")

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + finderToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var msg hub.Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, services.EventUnreadCount, msg.Event)

	require.Eventually(t, func() bool {
		subs := app.hub.Subscribers()
		return len(subs) == 1 && subs[0] == finderID
	}, time.Second, 5*time.Millisecond)

	w, _ := app.do(t, http.MethodPost, "/items/"+item.ID+"/claims", ownerToken, map[string]string{
		"message": "mine", "contactInfo": "o@school.edu",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, services.EventNotificationCreated, msg.Event)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.NotificationClaimSubmitted, data["type"])
	assert.Equal(t, finderID, data["userId"])
}

func TestNotificationSocketRequiresToken(t *testing.T) {
	app := setupRouterForTest(t)
	w, _ := app.do(t, http.MethodGet, "/ws/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
