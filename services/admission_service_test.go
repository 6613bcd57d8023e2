package services

import (
	"errors"
	"testing"

	"github.com/anmolmalik/talk_sessions/models"
)

func testSettings() GlobalSettings {
	return GlobalSettings{
		BufferMinutes:       10,
		MaxSessionsPerDay:   2,
		MaxSessionsPerMonth: 10,
		Timezone:            "Asia/Kolkata",
	}
}

func openRule() *models.AvailabilityRule {
	return &models.AvailabilityRule{
		DayOfWeek: 1,
		Enabled:   true,
		Ranges:    []models.TimeRange{{StartHour: 10, EndHour: 18}},
	}
}

func TestCheckAdmissionAccepts(t *testing.T) {
	err := checkAdmission(false, openRule(), bookingTallies{}, testSettings())
	if err != nil {
		t.Fatalf("clean request rejected: %v", err)
	}
}

func TestCheckAdmissionBlockedDateWinsFirst(t *testing.T) {
	// Blocked date outranks every other failure.
	tallies := bookingTallies{userActiveInMonth: 1, activeOnDay: 5, activeInMonth: 50}
	err := checkAdmission(true, nil, tallies, testSettings())
	if !errors.Is(err, ErrDateBlocked) {
		t.Fatalf("expected ErrDateBlocked, got %v", err)
	}
}

func TestCheckAdmissionDayUnavailable(t *testing.T) {
	cfg := testSettings()

	if err := checkAdmission(false, nil, bookingTallies{}, cfg); !errors.Is(err, ErrDayUnavailable) {
		t.Errorf("missing rule: expected ErrDayUnavailable, got %v", err)
	}

	disabled := openRule()
	disabled.Enabled = false
	if err := checkAdmission(false, disabled, bookingTallies{}, cfg); !errors.Is(err, ErrDayUnavailable) {
		t.Errorf("disabled rule: expected ErrDayUnavailable, got %v", err)
	}

	empty := openRule()
	empty.Ranges = nil
	if err := checkAdmission(false, empty, bookingTallies{}, cfg); !errors.Is(err, ErrDayUnavailable) {
		t.Errorf("empty ranges: expected ErrDayUnavailable, got %v", err)
	}
}

func TestCheckAdmissionPerUserMonthlyLimit(t *testing.T) {
	err := checkAdmission(false, openRule(), bookingTallies{userActiveInMonth: 1}, testSettings())
	if !errors.Is(err, ErrMonthlyUserLimit) {
		t.Fatalf("expected ErrMonthlyUserLimit, got %v", err)
	}
}

func TestCheckAdmissionGlobalCaps(t *testing.T) {
	cfg := testSettings()

	err := checkAdmission(false, openRule(), bookingTallies{activeOnDay: 2}, cfg)
	if !errors.Is(err, ErrDailyCapReached) {
		t.Errorf("expected ErrDailyCapReached at the cap, got %v", err)
	}

	err = checkAdmission(false, openRule(), bookingTallies{activeOnDay: 1}, cfg)
	if err != nil {
		t.Errorf("one under the daily cap should pass, got %v", err)
	}

	err = checkAdmission(false, openRule(), bookingTallies{activeInMonth: 10}, cfg)
	if !errors.Is(err, ErrMonthlyCapReached) {
		t.Errorf("expected ErrMonthlyCapReached at the cap, got %v", err)
	}
}

func TestCheckAdmissionZeroCapMeansUnlimited(t *testing.T) {
	cfg := testSettings()
	cfg.MaxSessionsPerDay = 0
	cfg.MaxSessionsPerMonth = 0

	err := checkAdmission(false, openRule(), bookingTallies{activeOnDay: 100, activeInMonth: 100}, cfg)
	if err != nil {
		t.Fatalf("zero caps should not limit, got %v", err)
	}
}

func TestComputePrice(t *testing.T) {
	cases := []struct {
		bookingType string
		recording   bool
		testMode    bool
		want        int
	}{
		{models.BookingTypeStrategy, false, false, 500},
		{models.BookingTypeStrategy, true, false, 700},
		{models.BookingTypeQuick, false, false, 250},
		{models.BookingTypeQuick, true, false, 450},
		{models.BookingTypeStrategy, true, true, 1},
		{models.BookingTypeQuick, false, true, 1},
	}
	for _, tc := range cases {
		got := ComputePrice(tc.bookingType, tc.recording, tc.testMode)
		if got != tc.want {
			t.Errorf("ComputePrice(%s, recording=%v, testMode=%v) = %d, want %d",
				tc.bookingType, tc.recording, tc.testMode, got, tc.want)
		}
	}
}

func TestSessionMinutes(t *testing.T) {
	if got := SessionMinutes(models.BookingTypeStrategy); got != 45 {
		t.Errorf("strategy sessions should be 45 minutes, got %d", got)
	}
	if got := SessionMinutes(models.BookingTypeQuick); got != 10 {
		t.Errorf("quick sessions should be 10 minutes, got %d", got)
	}
}
