package services

import (
	"log"
	"time"

	"github.com/anmolmalik/talk_sessions/calendar"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/notifications"
	"github.com/anmolmalik/talk_sessions/websocket"
	"github.com/google/uuid"
)

// PaymentOutcome is one authenticated payment notification, whether it
// arrived via webhook or via the redirect callback. Delivery may repeat
// in any order; everything downstream is idempotent.
type PaymentOutcome struct {
	BookingID         uuid.UUID
	RazorpayPaymentID string
	RazorpayOrderID   *string
	RazorpayLinkID    *string
	Amount            int
	Currency          string
	Status            string
	CapturedAt        *time.Time
	RawPayload        string
}

// RecordPaymentOutcome upserts the payment row keyed by the external
// payment id, then advances the booking: failed outcomes cancel a
// still-pending booking, captured outcomes run the confirmation sequence.
func RecordPaymentOutcome(out PaymentOutcome) error {
	var payment models.Payment
	err := database.DB.Where("razorpay_payment_id = ?", out.RazorpayPaymentID).First(&payment).Error
	if err != nil {
		payment = models.Payment{
			BookingID:         out.BookingID,
			RazorpayPaymentID: out.RazorpayPaymentID,
			RazorpayOrderID:   out.RazorpayOrderID,
			RazorpayLinkID:    out.RazorpayLinkID,
			Amount:            out.Amount,
			Currency:          out.Currency,
			Status:            out.Status,
			CapturedAt:        out.CapturedAt,
			RawPayload:        out.RawPayload,
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			return err
		}
	} else {
		payment.Status = out.Status
		if out.CapturedAt != nil {
			payment.CapturedAt = out.CapturedAt
		}
		if out.RazorpayLinkID != nil {
			payment.RazorpayLinkID = out.RazorpayLinkID
		}
		payment.RawPayload = out.RawPayload
		if err := database.DB.Save(&payment).Error; err != nil {
			return err
		}
	}

	switch out.Status {
	case models.PaymentFailed:
		return cancelPendingBooking(out.BookingID)
	case models.PaymentCaptured:
		return ConfirmBooking(out.BookingID)
	default:
		// created/authorized notifications only update the payment row
		return nil
	}
}

func cancelPendingBooking(bookingID uuid.UUID) error {
	res := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingPendingPayment).
		Update("status", models.BookingCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("Booking %s cancelled after failed payment", bookingID)
		notifyBooking("booking.cancelled", bookingID)
	}
	return nil
}

// ConfirmBooking runs the post-payment confirmation sequence at most once
// per booking. The conditional update is the sole gate: only the request
// that wins the pending_payment -> confirmed transition creates the
// calendar event and sends the email. Calendar and email failures are
// logged and swallowed; the booking stays confirmed regardless.
func ConfirmBooking(bookingID uuid.UUID) error {
	res := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, models.BookingPendingPayment).
		Update("status", models.BookingConfirmed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// duplicate delivery, confirmation already ran
		return nil
	}

	var booking models.Booking
	if err := database.DB.Preload("User").First(&booking, "id = ?", bookingID).Error; err != nil {
		return err
	}

	var meetLink, calendarLink string
	event, err := calendar.CreateEvent(&booking)
	if err != nil {
		log.Printf("🔥 Failed to create calendar event for booking %s: %v", bookingID, err)
	} else {
		updates := map[string]interface{}{"calendar_event_id": event.EventID}
		if event.MeetLink != "" {
			updates["meet_link"] = event.MeetLink
			meetLink = event.MeetLink
		}
		calendarLink = event.HTMLLink
		if err := database.DB.Model(&models.Booking{}).Where("id = ?", bookingID).Updates(updates).Error; err != nil {
			log.Printf("🔥 Failed to store calendar details for booking %s: %v", bookingID, err)
		}
	}

	go notifications.SendBookingConfirmation(booking, meetLink, calendarLink)

	log.Printf("✅ Booking %s confirmed", bookingID)
	notifyBooking("booking.confirmed", bookingID)
	return nil
}

// DeriveBookingStatus reconciles a possibly-stale booking status against
// the payment rows already on file. A pending booking with a captured
// payment reads as confirmed even if the confirmation write has not
// landed yet; a failed payment reads as cancelled.
func DeriveBookingStatus(current string, paymentStatuses []string) string {
	if current != models.BookingPendingPayment {
		return current
	}
	for _, s := range paymentStatuses {
		if s == models.PaymentCaptured {
			return models.BookingConfirmed
		}
	}
	for _, s := range paymentStatuses {
		if s == models.PaymentFailed {
			return models.BookingCancelled
		}
	}
	return current
}

func notifyBooking(eventType string, bookingID uuid.UUID) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return
	}
	websocket.NotifyBooking(eventType, &booking)
}
