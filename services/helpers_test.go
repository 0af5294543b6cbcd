package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store/storetest"
)

type publishedEvent struct {
	UserID string
	Event  string
	Data   interface{}
}

type recordingHub struct {
	mu          sync.Mutex
	events      []publishedEvent
	subscribers []string
}

func (h *recordingHub) Publish(userID, event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{UserID: userID, Event: event, Data: data})
}

func (h *recordingHub) Subscribers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.subscribers...)
}

func (h *recordingHub) Events() []publishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]publishedEvent(nil), h.events...)
}

func newTestServices(t *testing.T) (*Services, *recordingHub) {
	t.Helper()
	hub := &recordingHub{}
	return New(storetest.New(t), hub), hub
}

func mustSignup(t *testing.T, svc *Services, email, name, grade string) models.User {
	t.Helper()
	user, err := svc.Users.Signup(SignupInput{
		Email:      email,
		Password:   "password123",
		Name:       name,
		GradeLevel: grade,
	})
	require.NoError(t, err)
	return user
}

func mustSubmitItem(t *testing.T, svc *Services, submitter models.User, title string) models.FoundItem {
	t.Helper()
	item, err := svc.Items.Submit(submitter.ID, ItemInput{
		Title:     title,
		Category:  "Bags & Backpacks",
		Location:  "Gym",
		DateFound: "2024-10-28",
	})
	require.NoError(t, err)
	return item
}

func notificationsOfType(ns []models.Notification, typ string) []models.Notification {
	var out []models.Notification
	for _, n := range ns {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
