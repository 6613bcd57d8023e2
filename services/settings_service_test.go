package services

import "testing"

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := GlobalSettings{Timezone: "Not/AZone"}
	if got := cfg.Location(); got.String() != "UTC" {
		t.Fatalf("invalid timezone should fall back to UTC, got %s", got)
	}

	cfg.Timezone = "Asia/Kolkata"
	if got := cfg.Location(); got.String() != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata, got %s", got)
	}
}

func TestIsKnownSettingKey(t *testing.T) {
	for _, key := range []string{"bufferMinutes", "maxSessionsPerDay", "maxSessionsPerMonth", "timezone", "testModeEnabled"} {
		if !IsKnownSettingKey(key) {
			t.Errorf("%q should be a known setting key", key)
		}
	}
	if IsKnownSettingKey("sessionPrice") {
		t.Error("unknown keys must be rejected")
	}
}
