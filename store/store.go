// Package store is the local key-value store behind the registry: four JSON
// collections (users, items, claims, notifications) and the current-user
// pointer. Collections are always read and written whole.
package store

import (
	"github.com/yeremiapane/beartracks/models"
)

const (
	KeyUsers         = "bearTracks_users"
	KeyItems         = "bearTracks_items"
	KeyClaims        = "bearTracks_claims"
	KeyNotifications = "bearTracks_notifications"
	KeyCurrentUser   = "bearTracks_currentUser"
)

// Store is the accessor every component receives. Getters never fail: a
// missing or undecodable collection reads as empty.
type Store interface {
	GetUsers() []models.User
	SaveUsers(users []models.User) error
	GetItems() []models.FoundItem
	SaveItems(items []models.FoundItem) error
	GetClaims() []models.ClaimRequest
	SaveClaims(claims []models.ClaimRequest) error
	GetNotifications() []models.Notification
	SaveNotifications(notifications []models.Notification) error

	SetCurrentUser(id string) error
	GetCurrentUser() *models.User
	ClearCurrentUser() error
}

// Snapshot is the export format: every collection, without the pointer.
type Snapshot struct {
	Users         []models.User         `json:"users"`
	Items         []models.FoundItem    `json:"items"`
	Claims        []models.ClaimRequest `json:"claims"`
	Notifications []models.Notification `json:"notifications"`
}

func Export(s Store) Snapshot {
	return Snapshot{
		Users:         s.GetUsers(),
		Items:         s.GetItems(),
		Claims:        s.GetClaims(),
		Notifications: s.GetNotifications(),
	}
}

// Import overwrites all four collections with the snapshot.
func Import(s Store, snap Snapshot) error {
	if err := s.SaveUsers(nonNil(snap.Users)); err != nil {
		return err
	}
	if err := s.SaveItems(nonNil(snap.Items)); err != nil {
		return err
	}
	if err := s.SaveClaims(nonNil(snap.Claims)); err != nil {
		return err
	}
	return s.SaveNotifications(nonNil(snap.Notifications))
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
