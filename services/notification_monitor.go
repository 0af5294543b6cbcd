package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/beartracks/utils"
)

// SubscriberPublisher is a Publisher that also knows who is listening.
type SubscriberPublisher interface {
	Publisher
	Subscribers() []string
}

// UnreadCountEvent is pushed when a subscriber's unread count changes.
type UnreadCountEvent struct {
	UserID string `json:"userId"`
	Unread int    `json:"unread"`
}

// NotificationMonitor polls the store for every connected user and pushes
// their unread count when it changes. It picks up notifications written by
// other processes sharing the store, which never reach this process's hub.
type NotificationMonitor struct {
	Notifications *NotificationService
	Hub           SubscriberPublisher
	StopChan      chan struct{}
	Interval      time.Duration

	mu       sync.Mutex
	lastSeen map[string]int
	stopOnce sync.Once
}

func NewNotificationMonitor(ns *NotificationService, hub SubscriberPublisher) *NotificationMonitor {
	return &NotificationMonitor{
		Notifications: ns,
		Hub:           hub,
		StopChan:      make(chan struct{}),
		Interval:      3 * time.Second,
		lastSeen:      make(map[string]int),
	}
}

func (nm *NotificationMonitor) Start() {
	go func() {
		ticker := time.NewTicker(nm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				nm.CheckChanges()
			case <-nm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Notification monitor started (every %s)", nm.Interval)
}

func (nm *NotificationMonitor) Stop() {
	nm.stopOnce.Do(func() { close(nm.StopChan) })
}

// CheckChanges runs one poll and returns how many users were notified.
func (nm *NotificationMonitor) CheckChanges() int {
	subscribers := nm.Hub.Subscribers()
	counts := nm.Notifications.UnreadCounts(subscribers)

	nm.mu.Lock()
	defer nm.mu.Unlock()

	pushed := 0
	for userID, unread := range counts {
		if last, ok := nm.lastSeen[userID]; ok && last == unread {
			continue
		}
		nm.lastSeen[userID] = unread
		nm.Hub.Publish(userID, EventUnreadCount, UnreadCountEvent{UserID: userID, Unread: unread})
		pushed++
	}

	// forget users who disconnected so they get a fresh count on reconnect
	for userID := range nm.lastSeen {
		if _, ok := counts[userID]; !ok {
			delete(nm.lastSeen, userID)
		}
	}
	return pushed
}
