package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
)

// GlobalSettings is the typed view over the key/value settings rows.
// Loaded once and cached; every admin update invalidates the cache.
type GlobalSettings struct {
	BufferMinutes       int    `json:"bufferMinutes"`
	MaxSessionsPerDay   int    `json:"maxSessionsPerDay"`
	MaxSessionsPerMonth int    `json:"maxSessionsPerMonth"`
	Timezone            string `json:"timezone"`
	TestModeEnabled     bool   `json:"testModeEnabled"`
}

var settingKeys = []string{
	"bufferMinutes",
	"maxSessionsPerDay",
	"maxSessionsPerMonth",
	"timezone",
	"testModeEnabled",
}

var (
	settingsMu     sync.RWMutex
	cachedSettings *GlobalSettings
)

func LoadGlobalSettings() (GlobalSettings, error) {
	settingsMu.RLock()
	if cachedSettings != nil {
		cfg := *cachedSettings
		settingsMu.RUnlock()
		return cfg, nil
	}
	settingsMu.RUnlock()

	var rows []models.Setting
	if err := database.DB.Find(&rows).Error; err != nil {
		return GlobalSettings{}, err
	}

	values := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		values[row.Key] = json.RawMessage(row.Value)
	}
	for _, key := range settingKeys {
		if _, ok := values[key]; !ok {
			return GlobalSettings{}, fmt.Errorf("missing required setting %q", key)
		}
	}

	blob, err := json.Marshal(values)
	if err != nil {
		return GlobalSettings{}, err
	}

	var cfg GlobalSettings
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return GlobalSettings{}, fmt.Errorf("malformed settings: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return GlobalSettings{}, fmt.Errorf("invalid timezone setting %q: %w", cfg.Timezone, err)
	}

	settingsMu.Lock()
	cachedSettings = &cfg
	settingsMu.Unlock()
	return cfg, nil
}

// Location resolves the configured timezone. LoadGlobalSettings already
// validated it, so the error path only covers a stale cache.
func (s GlobalSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func InvalidateSettings() {
	settingsMu.Lock()
	cachedSettings = nil
	settingsMu.Unlock()
}

func IsKnownSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// UpdateGlobalSetting upserts one settings row and drops the cache.
func UpdateGlobalSetting(key string, value interface{}) error {
	if !IsKnownSettingKey(key) {
		return fmt.Errorf("unknown setting key %q", key)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var existing models.Setting
	err = database.DB.Where("key = ?", key).First(&existing).Error
	if err == nil {
		existing.Value = string(encoded)
		err = database.DB.Save(&existing).Error
	} else {
		err = database.DB.Create(&models.Setting{Key: key, Value: string(encoded)}).Error
	}
	if err != nil {
		return err
	}

	InvalidateSettings()
	return nil
}
