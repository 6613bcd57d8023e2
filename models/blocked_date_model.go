package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockedDate removes a whole calendar day from slot generation,
// independent of the weekday rules. Existence of a row blocks the day.
type BlockedDate struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date string    `gorm:"size:10;not null;unique" json:"date"` // "YYYY-MM-DD"

	CreatedAt time.Time `json:"created_at"`
}
