package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps each key as one row of kv_entries.
type GormStore struct {
	DB *gorm.DB
	mu sync.RWMutex
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) GetUsers() []models.User {
	return load[models.User](s, KeyUsers)
}

func (s *GormStore) SaveUsers(users []models.User) error {
	return s.saveJSON(KeyUsers, nonNil(users))
}

func (s *GormStore) GetItems() []models.FoundItem {
	items := load[models.FoundItem](s, KeyItems)
	for i := range items {
		if items[i].Photos == nil {
			items[i].Photos = []string{}
		}
	}
	return items
}

func (s *GormStore) SaveItems(items []models.FoundItem) error {
	return s.saveJSON(KeyItems, nonNil(items))
}

func (s *GormStore) GetClaims() []models.ClaimRequest {
	return load[models.ClaimRequest](s, KeyClaims)
}

func (s *GormStore) SaveClaims(claims []models.ClaimRequest) error {
	return s.saveJSON(KeyClaims, nonNil(claims))
}

func (s *GormStore) GetNotifications() []models.Notification {
	return load[models.Notification](s, KeyNotifications)
}

func (s *GormStore) SaveNotifications(notifications []models.Notification) error {
	return s.saveJSON(KeyNotifications, nonNil(notifications))
}

func (s *GormStore) SetCurrentUser(id string) error {
	return s.put(KeyCurrentUser, id)
}

// GetCurrentUser resolves the pointer against the users collection. A
// pointer to a deleted user reads as logged out.
func (s *GormStore) GetCurrentUser() *models.User {
	id, ok := s.get(KeyCurrentUser)
	if !ok || id == "" {
		return nil
	}
	for _, u := range s.GetUsers() {
		if u.ID == id {
			user := u
			return &user
		}
	}
	return nil
}

func (s *GormStore) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.DB.Where("kv_key = ?", KeyCurrentUser).Delete(&models.KVEntry{}).Error
}

func (s *GormStore) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry models.KVEntry
	err := s.DB.Where("kv_key = ?", key).Take(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error reading %s: %v", key, err)
		}
		return "", false
	}
	return entry.Value, true
}

func (s *GormStore) put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStore) saveJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.put(key, string(data))
}

func load[T any](s *GormStore, key string) []T {
	raw, ok := s.get(key)
	if !ok {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		utils.InfoLogger.Warnf("Ignoring unreadable %s: %v", key, err)
		return []T{}
	}
	return nonNil(out)
}
