package models

import "time"

// KVEntry is one key of the local store. Collections are stored whole, as a
// JSON array in Value.
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;type:varchar(100);primaryKey"`
	Value     string    `gorm:"column:kv_value;type:longtext;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }
