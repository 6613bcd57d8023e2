package models

import (
	"time"

	"github.com/google/uuid"
)

// Donation is an entry in the public transparency ledger. Unrelated to
// the booking state machine; curated by the admin.
type Donation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Amount        int       `gorm:"not null" json:"amount"` // whole rupees
	Date          string    `gorm:"size:10;not null" json:"date"`
	Note          *string   `gorm:"type:text" json:"note,omitempty"`
	Donated       bool      `gorm:"not null;default:false" json:"donated"`
	ProofURL      *string   `gorm:"size:512" json:"proof_url,omitempty"`
	ReceiptNumber *string   `gorm:"size:12;unique" json:"receipt_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
