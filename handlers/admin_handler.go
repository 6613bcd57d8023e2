package handlers

import (
	"encoding/json"
	"log"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/middleware"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/services"
	"github.com/anmolmalik/talk_sessions/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const adminSessionTTL = 48 * time.Hour

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin checks the configured admin credentials and sets the signed
// session cookie. ADMIN_PASSWORD_HASH (bcrypt) wins over the plaintext
// ADMIN_PASSWORD fallback when both are set.
func AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	passwordHash := config.Config("ADMIN_PASSWORD_HASH")
	passwordPlain := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || (passwordHash == "" && passwordPlain == "") {
		log.Printf("🔥 Admin login attempted but admin credentials are not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Admin login not configured"})
	}

	ok := req.Email == adminEmail
	if ok {
		if passwordHash != "" {
			ok = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) == nil
		} else {
			ok = req.Password == passwordPlain
		}
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": adminEmail,
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(adminSessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.Config("ADMIN_SESSION_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Expires:  now.Add(adminSessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	log.Printf("✅ Admin %s logged in", adminEmail)
	return c.JSON(fiber.Map{"status": "ok"})
}

func AdminLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"status": "ok"})
}

func adminActor(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "unknown"
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "unknown"
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "unknown"
	}
	return email
}

func writeAudit(c *fiber.Ctx, action, entityType, entityID string, metadata interface{}) {
	entry := models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      adminActor(c),
	}
	if metadata != nil {
		if blob, err := json.Marshal(metadata); err == nil {
			s := string(blob)
			entry.Metadata = &s
		}
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("🔥 Failed to write audit log for %s %s: %v", action, entityID, err)
	}
}

// AdminGetBookings lists all bookings, newest first, with the customer
// preloaded. Optional ?status= filter.
func AdminGetBookings(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled completed refunded"`
}

// UpdateBookingStatus applies a manual status change, restricted to the
// transition table. Every change is audit-logged and pushed to the admin
// live feed.
func UpdateBookingStatus(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if !models.CanTransition(booking.Status, req.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot move booking from " + booking.Status + " to " + req.Status,
		})
	}

	previous := booking.Status
	booking.Status = req.Status
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	writeAudit(c, "booking.status_changed", "booking", booking.ID.String(),
		fiber.Map{"from": previous, "to": req.Status})
	websocket.NotifyBooking("booking."+req.Status, &booking)

	log.Printf("✅ Booking %s moved %s -> %s by admin", booking.ID, previous, req.Status)
	return c.JSON(fiber.Map{"booking": booking})
}

func AdminGetPayments(c *fiber.Ctx) error {
	var paymentRows []models.Payment
	if err := database.DB.Preload("Booking").Preload("Booking.User").
		Order("created_at DESC").Find(&paymentRows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"payments": paymentRows})
}

// GetDashboardStats summarizes bookings and captured revenue for the
// admin landing page.
func GetDashboardStats(c *fiber.Ctx) error {
	stats := fiber.Map{}

	counts := map[string]string{
		"total_bookings":     "",
		"pending_bookings":   models.BookingPendingPayment,
		"confirmed_bookings": models.BookingConfirmed,
		"completed_bookings": models.BookingCompleted,
		"cancelled_bookings": models.BookingCancelled,
	}
	for label, status := range counts {
		var n int64
		query := database.DB.Model(&models.Booking{})
		if status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Count(&n).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		stats[label] = n
	}

	var totalRevenue int64
	if err := database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCaptured).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	stats["total_revenue"] = totalRevenue

	return c.JSON(stats)
}

func GetAvailabilityRules(c *fiber.Ctx) error {
	var rules []models.AvailabilityRule
	if err := database.DB.Order("day_of_week ASC").Find(&rules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

type UpdateAvailabilityRuleRequest struct {
	Enabled bool               `json:"enabled"`
	Ranges  []models.TimeRange `json:"ranges"`
}

// UpdateAvailabilityRule upserts the rule for one weekday (0=Sunday).
func UpdateAvailabilityRule(c *fiber.Ctx) error {
	day, err := c.ParamsInt("day")
	if err != nil || day < 0 || day > 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Day must be 0-6"})
	}

	var req UpdateAvailabilityRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := services.ValidateRanges(req.Ranges); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var rule models.AvailabilityRule
	err = database.DB.Where("day_of_week = ?", day).First(&rule).Error
	if err != nil {
		rule = models.AvailabilityRule{DayOfWeek: day, Enabled: req.Enabled, Ranges: req.Ranges}
		err = database.DB.Create(&rule).Error
	} else {
		rule.Enabled = req.Enabled
		rule.Ranges = req.Ranges
		err = database.DB.Save(&rule).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	writeAudit(c, "availability.rule_updated", "availability_rule", rule.ID.String(), req)
	return c.JSON(fiber.Map{"rule": rule})
}

func GetBlockedDates(c *fiber.Ctx) error {
	var dates []models.BlockedDate
	if err := database.DB.Order("date ASC").Find(&dates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"blocked_dates": dates})
}

type BlockedDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// AddBlockedDate blocks a whole day. Adding an already blocked date is a
// no-op; the set of blocked dates is what matters.
func AddBlockedDate(c *fiber.Ctx) error {
	var req BlockedDateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Date must be YYYY-MM-DD"})
	}

	var existing int64
	if err := database.DB.Model(&models.BlockedDate{}).Where("date = ?", req.Date).Count(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if existing == 0 {
		if err := database.DB.Create(&models.BlockedDate{Date: req.Date}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
		}
		writeAudit(c, "availability.date_blocked", "blocked_date", req.Date, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"date": req.Date})
}

// RemoveBlockedDate unblocks a day. Removing a date that was never
// blocked succeeds silently.
func RemoveBlockedDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Date must be YYYY-MM-DD"})
	}

	res := database.DB.Where("date = ?", date).Delete(&models.BlockedDate{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if res.RowsAffected > 0 {
		writeAudit(c, "availability.date_unblocked", "blocked_date", date, nil)
	}
	return c.JSON(fiber.Map{"date": date})
}

func GetGlobalSettings(c *fiber.Ctx) error {
	cfg, err := services.LoadGlobalSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Settings unavailable"})
	}
	return c.JSON(cfg)
}

type UpdateSettingRequest struct {
	Key   string      `json:"key" validate:"required"`
	Value interface{} `json:"value"`
}

func UpdateGlobalSetting(c *fiber.Ctx) error {
	var req UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := services.UpdateGlobalSetting(req.Key, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	writeAudit(c, "settings.updated", "setting", req.Key, fiber.Map{"value": req.Value})
	log.Printf("✅ Setting %s updated", req.Key)
	return c.JSON(fiber.Map{"status": "ok"})
}

func GetAuditLogs(c *fiber.Ctx) error {
	var logs []models.AuditLog
	if err := database.DB.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"audit_logs": logs})
}
