package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingTypeStrategy = "strategy"
	BookingTypeQuick    = "quick"
)

const (
	BookingPendingPayment = "pending_payment"
	BookingConfirmed      = "confirmed"
	BookingCancelled      = "cancelled"
	BookingCompleted      = "completed"
	BookingRefunded       = "refunded"
)

// AllowedTransitions is the closed transition table for booking statuses.
// Any status write outside this table is a bug.
var AllowedTransitions = map[string][]string{
	BookingPendingPayment: {BookingConfirmed, BookingCancelled},
	BookingConfirmed:      {BookingCompleted, BookingRefunded},
	BookingCancelled:      {},
	BookingCompleted:      {},
	BookingRefunded:       {},
}

func CanTransition(from, to string) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID             uuid.UUID `gorm:"not null;index" json:"user_id"`
	BookingType        string    `gorm:"size:20;not null" json:"booking_type"`
	SlotStart          time.Time `gorm:"not null;index" json:"slot_start"`
	SlotEnd            time.Time `gorm:"not null" json:"slot_end"`
	Timezone           string    `gorm:"size:64;not null" json:"timezone"`
	RecordingRequested bool      `gorm:"not null;default:false" json:"recording_requested"`
	Price              int       `gorm:"not null" json:"price"` // whole rupees
	TestMode           bool      `gorm:"not null;default:false" json:"test_mode"`
	Status             string    `gorm:"size:20;not null;default:'pending_payment';index" json:"status"`
	CalendarEventID    *string   `gorm:"size:255" json:"calendar_event_id,omitempty"`
	MeetLink           *string   `gorm:"size:512" json:"meet_link,omitempty"`
	Notes              *string   `gorm:"type:text" json:"notes,omitempty"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
