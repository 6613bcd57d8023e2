package jobs

import (
	"testing"
	"time"
)

func TestReminderWindowBounds(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	lower, upper := reminderWindow(now)

	if want := now.Add(60 * time.Minute); !lower.Equal(want) {
		t.Errorf("window should open 60m out, got %s", lower.Format(time.Kitchen))
	}
	if want := now.Add(65 * time.Minute); !upper.Equal(want) {
		t.Errorf("window should close 65m out, got %s", upper.Format(time.Kitchen))
	}
	if upper.Sub(lower) != 5*time.Minute {
		t.Errorf("window width should match the cron cadence, got %v", upper.Sub(lower))
	}
}

func TestReminderWindowsTile(t *testing.T) {
	// Consecutive 5-minute runs must cover the timeline without a gap:
	// each run's upper bound is the next run's lower bound.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, upper := reminderWindow(now)
	nextLower, _ := reminderWindow(now.Add(5 * time.Minute))
	if !upper.Equal(nextLower) {
		t.Fatalf("runs should tile, got gap between %s and %s",
			upper.Format(time.Kitchen), nextLower.Format(time.Kitchen))
	}
}

func TestReminderWindowSelection(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	lower, upper := reminderWindow(now)

	inWindow := func(slotStart time.Time) bool {
		// BETWEEN semantics: inclusive on both bounds.
		return !slotStart.Before(lower) && !slotStart.After(upper)
	}

	cases := []struct {
		name      string
		slotStart time.Time
		want      bool
	}{
		{"59 minutes out", now.Add(59 * time.Minute), false},
		{"exactly 60 minutes out", now.Add(60 * time.Minute), true},
		{"62 minutes out", now.Add(62 * time.Minute), true},
		{"exactly 65 minutes out", now.Add(65 * time.Minute), true},
		{"66 minutes out", now.Add(66 * time.Minute), false},
		{"already started", now.Add(-10 * time.Minute), false},
	}
	for _, tc := range cases {
		if got := inWindow(tc.slotStart); got != tc.want {
			t.Errorf("%s: in window = %v, want %v", tc.name, got, tc.want)
		}
	}
}
