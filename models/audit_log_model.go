package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Action     string    `gorm:"size:64;not null" json:"action"`
	EntityType string    `gorm:"size:32;not null" json:"entity_type"`
	EntityID   string    `gorm:"size:64;not null" json:"entity_id"`
	Actor      string    `gorm:"size:255;not null" json:"actor"`
	Metadata   *string   `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
