// Package session tracks who is logged in on this device. The identity
// survives restarts through the store's current-user pointer and lasts until
// Logout or until the stored user disappears.
package session

import (
	"errors"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/store"
)

var (
	ErrUnauthenticated = errors.New("please log in first")
	ErrForbidden       = errors.New("admin access required")
)

type Session struct {
	store store.Store
	user  *models.User
}

// New restores the session from the stored pointer.
func New(st store.Store) *Session {
	return &Session{store: st, user: st.GetCurrentUser()}
}

// Login records user as the current user. Credentials are checked by the
// caller (services.UserService.Login).
func (s *Session) Login(user models.User) error {
	if err := s.store.SetCurrentUser(user.ID); err != nil {
		return err
	}
	s.user = &user
	return nil
}

func (s *Session) Logout() error {
	s.user = nil
	return s.store.ClearCurrentUser()
}

func (s *Session) User() *models.User {
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.user != nil
}

// RequireUser returns the current user or ErrUnauthenticated.
func (s *Session) RequireUser() (models.User, error) {
	if s.user == nil {
		return models.User{}, ErrUnauthenticated
	}
	return *s.user, nil
}

// RequireAdmin gates admin-only operations.
func (s *Session) RequireAdmin() (models.User, error) {
	user, err := s.RequireUser()
	if err != nil {
		return models.User{}, err
	}
	if !user.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	return user, nil
}
