package models

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{BookingPendingPayment, BookingConfirmed},
		{BookingPendingPayment, BookingCancelled},
		{BookingConfirmed, BookingCompleted},
		{BookingConfirmed, BookingRefunded},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to string }{
		{BookingPendingPayment, BookingCompleted},
		{BookingPendingPayment, BookingRefunded},
		{BookingConfirmed, BookingCancelled},
		{BookingConfirmed, BookingPendingPayment},
		{BookingCancelled, BookingConfirmed},
		{BookingCompleted, BookingRefunded},
		{BookingRefunded, BookingConfirmed},
		{BookingConfirmed, BookingConfirmed},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be forbidden", tc.from, tc.to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range []string{BookingCancelled, BookingCompleted, BookingRefunded} {
		if len(AllowedTransitions[status]) != 0 {
			t.Errorf("%s is terminal and should allow no transitions", status)
		}
	}
}

func TestUnknownStatusCannotTransition(t *testing.T) {
	if CanTransition("unattended", BookingConfirmed) {
		t.Error("unknown statuses must not transition anywhere")
	}
}
