package services

import (
	"testing"
	"time"

	"github.com/anmolmalik/talk_sessions/models"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func TestGenerateSlotsFullDay(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc) // a Monday

	ranges := []models.TimeRange{{StartHour: 10, EndHour: 18}}
	slots := GenerateSlots(day, ranges, 45, 10, nil)

	// 10:00-18:00 with a 55-minute step fits starts at 10:00 ... 16:25.
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}

	first := slots[0]
	if first.Start.Hour() != 10 || first.Start.Minute() != 0 {
		t.Errorf("first slot should start 10:00, got %s", first.Start.Format("15:04"))
	}
	if got := first.End.Sub(first.Start); got != 45*time.Minute {
		t.Errorf("slot duration should be 45m, got %v", got)
	}

	for i := 1; i < len(slots); i++ {
		gap := slots[i].Start.Sub(slots[i-1].End)
		if gap != 10*time.Minute {
			t.Errorf("slot %d should start 10m after previous end, gap was %v", i, gap)
		}
	}

	last := slots[len(slots)-1]
	rangeEnd := time.Date(2026, 3, 2, 18, 0, 0, 0, loc)
	if last.End.After(rangeEnd) {
		t.Errorf("last slot %s overruns the range end", last.End.Format("15:04"))
	}
}

func TestGenerateSlotsPartialSlotDropped(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	// 10:00-10:40 cannot fit a 45-minute session at all.
	ranges := []models.TimeRange{{StartHour: 10, EndHour: 10, EndMinute: 40}}
	slots := GenerateSlots(day, ranges, 45, 10, nil)
	if len(slots) != 0 {
		t.Fatalf("expected no slots in a 40-minute window, got %d", len(slots))
	}

	// 10:00-10:45 fits exactly one.
	ranges = []models.TimeRange{{StartHour: 10, EndHour: 10, EndMinute: 45}}
	slots = GenerateSlots(day, ranges, 45, 10, nil)
	if len(slots) != 1 {
		t.Fatalf("expected exactly one slot in a 45-minute window, got %d", len(slots))
	}
}

func TestGenerateSlotsExcludesBusy(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	ranges := []models.TimeRange{{StartHour: 10, EndHour: 13}}

	busy := []Interval{{
		Start: time.Date(2026, 3, 2, 10, 30, 0, 0, loc),
		End:   time.Date(2026, 3, 2, 11, 30, 0, 0, loc),
	}}

	slots := GenerateSlots(day, ranges, 45, 10, busy)
	for _, s := range slots {
		if s.Start.Before(busy[0].End) && s.End.After(busy[0].Start) {
			t.Errorf("slot %s-%s overlaps busy window",
				s.Start.Format("15:04"), s.End.Format("15:04"))
		}
	}

	// The 10:00 and 10:55 candidates both touch the busy window.
	full := GenerateSlots(day, ranges, 45, 10, nil)
	if len(slots) != len(full)-2 {
		t.Errorf("expected 2 candidates removed by busy window, full=%d filtered=%d", len(full), len(slots))
	}
}

func TestGenerateSlotsBackToBackBusyAllowed(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	ranges := []models.TimeRange{{StartHour: 10, EndHour: 11}}

	// Busy block ends exactly when the 10:00 slot would... start after
	// it: touching endpoints do not count as overlap.
	busy := []Interval{{
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 3, 2, 10, 0, 0, 0, loc),
	}}
	slots := GenerateSlots(day, ranges, 45, 10, busy)
	if len(slots) != 1 {
		t.Fatalf("expected the 10:00 slot to survive a busy block ending at 10:00, got %d slots", len(slots))
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	ranges := []models.TimeRange{{StartHour: 10, EndHour: 18}}

	a := GenerateSlots(day, ranges, 10, 10, nil)
	b := GenerateSlots(day, ranges, 10, 10, nil)
	if len(a) != len(b) {
		t.Fatalf("same inputs produced %d vs %d slots", len(a), len(b))
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestGenerateSlotsZeroDuration(t *testing.T) {
	loc := kolkata(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	ranges := []models.TimeRange{{StartHour: 10, EndHour: 18}}

	if got := GenerateSlots(day, ranges, 0, 10, nil); len(got) != 0 {
		t.Fatalf("zero-minute sessions should produce no slots, got %d", len(got))
	}
}

func TestValidateRanges(t *testing.T) {
	valid := []models.TimeRange{
		{StartHour: 10, EndHour: 18},
		{StartHour: 9, StartMinute: 30, EndHour: 12, EndMinute: 15},
	}
	if err := ValidateRanges(valid); err != nil {
		t.Fatalf("valid ranges rejected: %v", err)
	}

	cases := []struct {
		name string
		r    models.TimeRange
	}{
		{"hour too large", models.TimeRange{StartHour: 10, EndHour: 24}},
		{"negative hour", models.TimeRange{StartHour: -1, EndHour: 12}},
		{"minute too large", models.TimeRange{StartHour: 10, StartMinute: 60, EndHour: 12}},
		{"start equals end", models.TimeRange{StartHour: 10, EndHour: 10}},
		{"start after end", models.TimeRange{StartHour: 14, EndHour: 10}},
	}
	for _, tc := range cases {
		if err := ValidateRanges([]models.TimeRange{tc.r}); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}

	if err := ValidateRanges(nil); err != nil {
		t.Errorf("empty range list should be valid (disabled day), got %v", err)
	}
}
