package services

import (
	"sort"
	"sync"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
)

// Events published to a notification's recipient.
const (
	EventNotificationCreated = "notification_created"
	EventUnreadCount         = "unread_count"
)

type NotificationService struct {
	store store.Store
	mu    *sync.Mutex
	pub   Publisher
}

// Create stores n, filling in id, timestamp and read flag.
func (ns *NotificationService) Create(n models.Notification) (models.Notification, error) {
	ns.mu.Lock()
	created, err := ns.appendLocked(n)
	ns.mu.Unlock()
	if err != nil {
		return models.Notification{}, err
	}
	ns.publish(created...)
	return created[0], nil
}

// appendLocked stores notifications in one write. Callers hold mu and publish
// the result after unlocking.
func (ns *NotificationService) appendLocked(batch ...models.Notification) ([]models.Notification, error) {
	created := make([]models.Notification, 0, len(batch))
	for _, n := range batch {
		if n.ID == "" {
			n.ID = newID()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now()
		}
		n.Read = false
		created = append(created, n)
	}
	if err := ns.store.SaveNotifications(append(ns.store.GetNotifications(), created...)); err != nil {
		return nil, err
	}
	return created, nil
}

func (ns *NotificationService) publish(batch ...models.Notification) {
	for _, n := range batch {
		ns.pub.Publish(n.UserID, EventNotificationCreated, n)
	}
}

// ForUser returns userID's notifications, newest first.
func (ns *NotificationService) ForUser(userID string) []models.Notification {
	result := make([]models.Notification, 0)
	for _, n := range ns.store.GetNotifications() {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (ns *NotificationService) UnreadCount(userID string) int {
	count := 0
	for _, n := range ns.store.GetNotifications() {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}

// UnreadCounts counts unread notifications for each of userIDs in one read.
func (ns *NotificationService) UnreadCounts(userIDs []string) map[string]int {
	counts := make(map[string]int, len(userIDs))
	for _, id := range userIDs {
		counts[id] = 0
	}
	for _, n := range ns.store.GetNotifications() {
		if _, ok := counts[n.UserID]; ok && !n.Read {
			counts[n.UserID]++
		}
	}
	return counts
}

// MarkRead sets the read flag on one of userID's notifications. Marking an
// already read notification is a no-op.
func (ns *NotificationService) MarkRead(id, userID string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	all := ns.store.GetNotifications()
	for i := range all {
		if all[i].ID != id || all[i].UserID != userID {
			continue
		}
		if all[i].Read {
			return nil
		}
		all[i].Read = true
		return ns.store.SaveNotifications(all)
	}
	return ErrNotificationNotFound
}

// MarkAllRead marks every notification of userID as read.
func (ns *NotificationService) MarkAllRead(userID string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	all := ns.store.GetNotifications()
	changed := false
	for i := range all {
		if all[i].UserID == userID && !all[i].Read {
			all[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return ns.store.SaveNotifications(all)
}

// Delete removes one of userID's notifications.
func (ns *NotificationService) Delete(id, userID string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	all := ns.store.GetNotifications()
	kept := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if n.ID == id && n.UserID == userID {
			continue
		}
		kept = append(kept, n)
	}
	if len(kept) == len(all) {
		return ErrNotificationNotFound
	}
	return ns.store.SaveNotifications(kept)
}
