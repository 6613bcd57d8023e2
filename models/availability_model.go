package models

import "github.com/google/uuid"

// TimeRange is one open window within a weekday, e.g. 10:00-18:00.
type TimeRange struct {
	StartHour   int `json:"start_hour"`
	StartMinute int `json:"start_minute"`
	EndHour     int `json:"end_hour"`
	EndMinute   int `json:"end_minute"`
}

// AvailabilityRule holds the open windows for one weekday (0=Sunday).
// Ranges may overlap in storage; the slot generator treats overlaps
// idempotently.
type AvailabilityRule struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DayOfWeek int         `gorm:"not null;uniqueIndex" json:"day_of_week"`
	Enabled   bool        `gorm:"not null;default:true" json:"enabled"`
	Ranges    []TimeRange `gorm:"serializer:json" json:"ranges"`
}
