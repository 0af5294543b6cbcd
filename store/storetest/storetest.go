// Package storetest opens throwaway stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/yeremiapane/beartracks/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a store on a private in-memory sqlite database.
func New(t testing.TB) *store.GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// keep one connection open so the in-memory database survives
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	st, err := store.NewGormStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}
