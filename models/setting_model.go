package models

import "time"

// Setting is one global key/value row. The typed view over these rows
// lives in services.GlobalSettings.
type Setting struct {
	Key   string `gorm:"size:64;primary_key" json:"key"`
	Value string `gorm:"type:jsonb;not null" json:"value"`

	UpdatedAt time.Time `json:"updated_at"`
}
