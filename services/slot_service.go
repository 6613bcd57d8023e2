package services

import (
	"fmt"
	"time"

	"github.com/anmolmalik/talk_sessions/models"
)

// Slot is a candidate bookable start/end pair.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval is an externally-known busy time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// GenerateSlots walks each configured range for the day in steps of
// sessionMinutes+bufferMinutes and emits every candidate that fits the
// range and misses every busy interval. Pure: same inputs, same output.
// day must be midnight in the target timezone.
func GenerateSlots(day time.Time, ranges []models.TimeRange, sessionMinutes, bufferMinutes int, busy []Interval) []Slot {
	slots := []Slot{}
	if sessionMinutes <= 0 {
		return slots
	}

	session := time.Duration(sessionMinutes) * time.Minute
	step := time.Duration(sessionMinutes+bufferMinutes) * time.Minute
	loc := day.Location()

	for _, r := range ranges {
		cursor := time.Date(day.Year(), day.Month(), day.Day(), r.StartHour, r.StartMinute, 0, 0, loc)
		rangeEnd := time.Date(day.Year(), day.Month(), day.Day(), r.EndHour, r.EndMinute, 0, 0, loc)

		for !cursor.Add(session).After(rangeEnd) {
			candidate := Slot{Start: cursor, End: cursor.Add(session)}
			if !overlapsAny(candidate, busy) {
				slots = append(slots, candidate)
			}
			cursor = cursor.Add(step)
		}
	}

	return slots
}

// ValidateRanges rejects malformed weekday windows before they are
// persisted: clock fields in range and start strictly before end.
func ValidateRanges(ranges []models.TimeRange) error {
	for _, r := range ranges {
		if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 {
			return fmt.Errorf("hour out of range in %02d:%02d-%02d:%02d", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
		}
		if r.StartMinute < 0 || r.StartMinute > 59 || r.EndMinute < 0 || r.EndMinute > 59 {
			return fmt.Errorf("minute out of range in %02d:%02d-%02d:%02d", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
		}
		start := r.StartHour*60 + r.StartMinute
		end := r.EndHour*60 + r.EndMinute
		if start >= end {
			return fmt.Errorf("range %02d:%02d-%02d:%02d does not start before it ends", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
		}
	}
	return nil
}

func overlapsAny(s Slot, busy []Interval) bool {
	for _, b := range busy {
		if s.Start.Before(b.End) && s.End.After(b.Start) {
			return true
		}
	}
	return false
}
