package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is an owner-scoped record. OwnerID is immutable after creation; only
// the owner may read, update, or delete the note.
type Note struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:200"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	OwnerID   uuid.UUID `json:"owner" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
