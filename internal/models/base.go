package models

import (
	"time"

	"dompet/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for owner-scoped tables. Hard deletes are
// used throughout: a deleted transaction must no longer count towards its
// wallet, and soft-deleted rows would leak into raw aggregate queries.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
