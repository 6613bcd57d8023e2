package services

import (
	"errors"
	"time"

	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
)

const (
	StrategySessionMinutes = 45
	QuickSessionMinutes    = 10

	strategyBasePrice  = 500
	quickBasePrice     = 250
	recordingSurcharge = 200
	testModePrice      = 1
)

var (
	ErrInvalidBookingType = errors.New("invalid booking type")
	ErrDateBlocked        = errors.New("this date is not available for bookings")
	ErrDayUnavailable     = errors.New("no sessions are offered on this day")
	ErrMonthlyUserLimit   = errors.New("you already have an active session this month")
	ErrDailyCapReached    = errors.New("daily booking limit reached, please pick another date")
	ErrMonthlyCapReached  = errors.New("monthly booking limit reached, please try next month")
)

type AdmissionRequest struct {
	Name        string
	Email       string
	Phone       string
	SlotStart   time.Time
	SlotEnd     time.Time
	Recording   bool
	BookingType string
	Notes       string
}

// SessionMinutes returns the fixed duration for a booking type.
func SessionMinutes(bookingType string) int {
	if bookingType == models.BookingTypeQuick {
		return QuickSessionMinutes
	}
	return StrategySessionMinutes
}

// ComputePrice applies the two fixed tiers plus the recording surcharge.
// Test mode collapses everything to a nominal amount so live payment
// links can be exercised without real charges.
func ComputePrice(bookingType string, recording, testMode bool) int {
	if testMode {
		return testModePrice
	}
	base := strategyBasePrice
	if bookingType == models.BookingTypeQuick {
		base = quickBasePrice
	}
	if recording {
		base += recordingSurcharge
	}
	return base
}

// bookingTallies are the pre-fetched counts the admission rules run over.
type bookingTallies struct {
	userActiveInMonth int64
	activeOnDay       int64
	activeInMonth     int64
}

// checkAdmission applies the business rules in order, first failure wins.
// The global day/month caps count pending_payment+confirmed while the
// per-user monthly rule counts confirmed+completed; the mismatch is
// long-standing observed behaviour and is kept on purpose.
func checkAdmission(blocked bool, rule *models.AvailabilityRule, tallies bookingTallies, cfg GlobalSettings) error {
	if blocked {
		return ErrDateBlocked
	}
	if rule == nil || !rule.Enabled || len(rule.Ranges) == 0 {
		return ErrDayUnavailable
	}
	if tallies.userActiveInMonth > 0 {
		return ErrMonthlyUserLimit
	}
	if cfg.MaxSessionsPerDay > 0 && tallies.activeOnDay >= int64(cfg.MaxSessionsPerDay) {
		return ErrDailyCapReached
	}
	if cfg.MaxSessionsPerMonth > 0 && tallies.activeInMonth >= int64(cfg.MaxSessionsPerMonth) {
		return ErrMonthlyCapReached
	}
	return nil
}

// AdmitBooking resolves the customer, validates the requested slot and
// persists a pending_payment booking. The user upsert happens before any
// validation and is not rolled back on rejection; a rejected attempt
// still leaves the customer record behind. Known product behaviour.
func AdmitBooking(req AdmissionRequest) (*models.Booking, error) {
	if req.BookingType != models.BookingTypeStrategy && req.BookingType != models.BookingTypeQuick {
		return nil, ErrInvalidBookingType
	}

	cfg, err := LoadGlobalSettings()
	if err != nil {
		return nil, err
	}

	user, err := upsertCustomer(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	localStart := req.SlotStart.In(loc)
	dateStr := localStart.Format("2006-01-02")

	var blockedCount int64
	if err := database.DB.Model(&models.BlockedDate{}).Where("date = ?", dateStr).Count(&blockedCount).Error; err != nil {
		return nil, err
	}

	var rule models.AvailabilityRule
	rulePtr := &rule
	if err := database.DB.Where("day_of_week = ?", int(localStart.Weekday())).First(&rule).Error; err != nil {
		rulePtr = nil
	}

	dayStart := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(localStart.Year(), localStart.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var tallies bookingTallies
	err = database.DB.Model(&models.Booking{}).
		Where("user_id = ? AND status IN ? AND slot_start >= ? AND slot_start < ?",
			user.ID, []string{models.BookingConfirmed, models.BookingCompleted}, monthStart, monthEnd).
		Count(&tallies.userActiveInMonth).Error
	if err != nil {
		return nil, err
	}

	activeStatuses := []string{models.BookingPendingPayment, models.BookingConfirmed}
	err = database.DB.Model(&models.Booking{}).
		Where("status IN ? AND slot_start >= ? AND slot_start < ?", activeStatuses, dayStart, dayEnd).
		Count(&tallies.activeOnDay).Error
	if err != nil {
		return nil, err
	}
	err = database.DB.Model(&models.Booking{}).
		Where("status IN ? AND slot_start >= ? AND slot_start < ?", activeStatuses, monthStart, monthEnd).
		Count(&tallies.activeInMonth).Error
	if err != nil {
		return nil, err
	}

	if err := checkAdmission(blockedCount > 0, rulePtr, tallies, cfg); err != nil {
		return nil, err
	}

	booking := models.Booking{
		UserID:             user.ID,
		BookingType:        req.BookingType,
		SlotStart:          req.SlotStart,
		SlotEnd:            req.SlotEnd,
		Timezone:           cfg.Timezone,
		RecordingRequested: req.Recording,
		Price:              ComputePrice(req.BookingType, req.Recording, cfg.TestModeEnabled),
		TestMode:           cfg.TestModeEnabled,
		Status:             models.BookingPendingPayment,
	}
	if req.Notes != "" {
		booking.Notes = &req.Notes
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		return nil, err
	}

	booking.User = *user
	return &booking, nil
}

func upsertCustomer(name, email, phone string) (*models.User, error) {
	var user models.User
	err := database.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		user = models.User{Name: name, Email: email, Role: "customer"}
		if phone != "" {
			user.Phone = &phone
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	changed := false
	if name != "" && user.Name != name {
		user.Name = name
		changed = true
	}
	if phone != "" && (user.Phone == nil || *user.Phone != phone) {
		user.Phone = &phone
		changed = true
	}
	if changed {
		if err := database.DB.Save(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}
