package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentCreated    = "created"
	PaymentAuthorized = "authorized"
	PaymentCaptured   = "captured"
	PaymentRefunded   = "refunded"
	PaymentFailed     = "failed"
)

// Payment records one external payment attempt. RazorpayPaymentID is the
// idempotency key: redelivery of the same id updates the row in place.
type Payment struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID         uuid.UUID  `gorm:"not null;index" json:"booking_id"`
	RazorpayPaymentID string     `gorm:"size:255;not null;unique" json:"razorpay_payment_id"`
	RazorpayOrderID   *string    `gorm:"size:255" json:"razorpay_order_id,omitempty"`
	RazorpayLinkID    *string    `gorm:"size:255" json:"razorpay_link_id,omitempty"`
	Amount            int        `gorm:"not null" json:"amount"` // whole rupees
	Currency          string     `gorm:"size:3;not null" json:"currency"`
	Status            string     `gorm:"size:20;not null" json:"status"`
	CapturedAt        *time.Time `json:"captured_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty"`
	RawPayload        string     `gorm:"type:jsonb" json:"-"` // full provider payload for audit

	Booking Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
