package handlers

import (
	"log"
	"time"

	"github.com/anmolmalik/talk_sessions/calendar"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/services"
	"github.com/gofiber/fiber/v2"
)

// GetAvailability computes the bookable slots for one date: weekday rule
// minus blocked dates minus calendar busy windows. A failed calendar
// lookup degrades to "no external conflicts known" instead of failing.
func GetAvailability(c *fiber.Ctx) error {
	dateStr := c.Query("date")
	if dateStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing date"})
	}

	cfg, err := services.LoadGlobalSettings()
	if err != nil {
		log.Printf("🔥 Failed to load settings: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Settings unavailable"})
	}

	loc := cfg.Location()
	day, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	var blockedCount int64
	if err := database.DB.Model(&models.BlockedDate{}).Where("date = ?", dateStr).Count(&blockedCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if blockedCount > 0 {
		return c.JSON(fiber.Map{"slots": []services.Slot{}})
	}

	var rule models.AvailabilityRule
	if err := database.DB.Where("day_of_week = ?", int(day.Weekday())).First(&rule).Error; err != nil {
		return c.JSON(fiber.Map{"slots": []services.Slot{}})
	}
	if !rule.Enabled || len(rule.Ranges) == 0 {
		return c.JSON(fiber.Map{"slots": []services.Slot{}})
	}

	sessionMinutes := c.QueryInt("duration", 0)
	if sessionMinutes <= 0 {
		sessionMinutes = services.SessionMinutes(c.Query("type", models.BookingTypeStrategy))
	}

	source := "google"
	var busy []services.Interval
	if !calendar.Configured() {
		source = "mock"
	} else {
		periods, err := calendar.FetchBusy(day, day.AddDate(0, 0, 1))
		if err != nil {
			log.Printf("🔥 Calendar free/busy lookup failed, assuming no conflicts: %v", err)
		} else {
			for _, p := range periods {
				busy = append(busy, services.Interval{Start: p.Start, End: p.End})
			}
		}
	}

	slots := services.GenerateSlots(day, rule.Ranges, sessionMinutes, cfg.BufferMinutes, busy)
	if source == "mock" && len(slots) > 6 {
		slots = slots[:6]
	}

	return c.JSON(fiber.Map{"slots": slots, "source": source})
}
