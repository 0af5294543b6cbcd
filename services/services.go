// Package services implements the registry's operations. Every mutation loads
// a whole collection from the store, transforms it in memory and writes it
// back; the last writer wins.
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/beartracks/store"
)

// Publisher receives an event for one user after a mutation. hub.Hub
// implements it.
type Publisher interface {
	Publish(userID string, event string, data interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{}) {}

// Services bundles the registry services around one store.
type Services struct {
	Store         store.Store
	Users         *UserService
	Items         *ItemService
	Claims        *ClaimService
	Notifications *NotificationService
	Slips         *PickupSlipService
}

// New wires the services together. pub may be nil.
func New(st store.Store, pub Publisher) *Services {
	if pub == nil {
		pub = noopPublisher{}
	}

	// one lock for every read-modify-write in this process
	mu := &sync.Mutex{}

	notifications := &NotificationService{store: st, mu: mu, pub: pub}
	users := &UserService{store: st, mu: mu}
	items := &ItemService{store: st, mu: mu}
	claims := &ClaimService{store: st, mu: mu, notifications: notifications}

	return &Services{
		Store:         st,
		Users:         users,
		Items:         items,
		Claims:        claims,
		Notifications: notifications,
		Slips:         &PickupSlipService{store: st},
	}
}

var now = func() time.Time { return time.Now().UTC() }

func newID() string {
	return uuid.NewString()
}
