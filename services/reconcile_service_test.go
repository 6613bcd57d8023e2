package services

import (
	"testing"

	"github.com/anmolmalik/talk_sessions/models"
)

func TestDeriveBookingStatusPendingWithCapturedPayment(t *testing.T) {
	got := DeriveBookingStatus(models.BookingPendingPayment, []string{models.PaymentCaptured})
	if got != models.BookingConfirmed {
		t.Fatalf("pending + captured should read confirmed, got %s", got)
	}
}

func TestDeriveBookingStatusCapturedBeatsFailed(t *testing.T) {
	// A retry that eventually captures outranks earlier failures.
	got := DeriveBookingStatus(models.BookingPendingPayment,
		[]string{models.PaymentFailed, models.PaymentCaptured})
	if got != models.BookingConfirmed {
		t.Fatalf("captured should win over failed, got %s", got)
	}
}

func TestDeriveBookingStatusFailedOnly(t *testing.T) {
	got := DeriveBookingStatus(models.BookingPendingPayment, []string{models.PaymentFailed})
	if got != models.BookingCancelled {
		t.Fatalf("pending + failed should read cancelled, got %s", got)
	}
}

func TestDeriveBookingStatusPendingUnchanged(t *testing.T) {
	got := DeriveBookingStatus(models.BookingPendingPayment,
		[]string{models.PaymentCreated, models.PaymentAuthorized})
	if got != models.BookingPendingPayment {
		t.Fatalf("created/authorized payments should not move the booking, got %s", got)
	}
	if got := DeriveBookingStatus(models.BookingPendingPayment, nil); got != models.BookingPendingPayment {
		t.Fatalf("no payments should leave the booking pending, got %s", got)
	}
}

func TestDeriveBookingStatusNonPendingUntouched(t *testing.T) {
	// Payments never override a booking that already moved on.
	for _, status := range []string{
		models.BookingConfirmed,
		models.BookingCancelled,
		models.BookingCompleted,
		models.BookingRefunded,
	} {
		got := DeriveBookingStatus(status, []string{models.PaymentFailed})
		if got != status {
			t.Errorf("status %s should be untouched by payments, got %s", status, got)
		}
	}
}
