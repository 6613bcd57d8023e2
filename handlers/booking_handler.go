package handlers

import (
	"errors"
	"log"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/payments"
	"github.com/anmolmalik/talk_sessions/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type CreateBookingRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	SlotStart   string `json:"slot_start" validate:"required"`
	SlotEnd     string `json:"slot_end" validate:"required"`
	Recording   bool   `json:"recording"`
	BookingType string `json:"booking_type" validate:"required,oneof=strategy quick"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// CreateBooking admits a booking request and hands back a hosted payment
// page. The booking sits in pending_payment until the provider tells us
// otherwise; nothing here touches the calendar or sends mail.
func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slotStart, err := time.Parse(time.RFC3339, req.SlotStart)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot_start, expected RFC3339"})
	}
	slotEnd, err := time.Parse(time.RFC3339, req.SlotEnd)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot_end, expected RFC3339"})
	}
	if !slotEnd.After(slotStart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "slot_end must be after slot_start"})
	}

	booking, err := services.AdmitBooking(services.AdmissionRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		SlotStart:   slotStart,
		SlotEnd:     slotEnd,
		Recording:   req.Recording,
		BookingType: req.BookingType,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidBookingType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrDateBlocked),
			errors.Is(err, services.ErrDayUnavailable),
			errors.Is(err, services.ErrMonthlyUserLimit),
			errors.Is(err, services.ErrDailyCapReached),
			errors.Is(err, services.ErrMonthlyCapReached):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("🔥 Failed to admit booking: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create booking"})
	}

	callbackURL := config.Config("PUBLIC_BASE_URL") + "/confirmation?booking=" + booking.ID.String()
	link, err := payments.CreatePaymentLink(booking, callbackURL)
	if err != nil {
		log.Printf("🔥 Failed to create payment link for booking %s: %v", booking.ID, err)
		if errors.Is(err, payments.ErrCredentialsMissing) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment provider not configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated"})
	}

	log.Printf("✅ Booking %s created, awaiting payment", booking.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking_id":  booking.ID,
		"price":       booking.Price,
		"payment_url": link.ShortURL,
	})
}

// GetBookingStatus reports where a booking stands. The status is
// reconciled against recorded payments so a customer polling right after
// paying sees confirmed even if a webhook is still in flight.
func GetBookingStatus(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Query("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid bookingId"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.JSON(fiber.Map{"status": "not_found"})
	}

	var paymentStatuses []string
	database.DB.Model(&models.Payment{}).
		Where("booking_id = ?", bookingID).
		Pluck("status", &paymentStatuses)

	resp := fiber.Map{
		"status":       services.DeriveBookingStatus(booking.Status, paymentStatuses),
		"booking_type": booking.BookingType,
		"slot_start":   booking.SlotStart,
		"slot_end":     booking.SlotEnd,
		"recording":    booking.RecordingRequested,
	}
	if booking.MeetLink != nil {
		resp["meet_link"] = *booking.MeetLink
	}
	return c.JSON(resp)
}

const (
	strategyBaseCapacity = 5
	quickBaseCapacity    = 7
)

// GetRemainingSlots exposes the scarcity counters shown on the booking
// page. The capacity floats with confirmed bookings, so the remaining
// figures stay at their base values; the counters are a marketing
// surface, not an enforcement point (AdmitBooking enforces the caps).
func GetRemainingSlots(c *fiber.Ctx) error {
	var strategyConfirmed, quickConfirmed int64
	if err := database.DB.Model(&models.Booking{}).
		Where("booking_type = ? AND status = ?", models.BookingTypeStrategy, models.BookingConfirmed).
		Count(&strategyConfirmed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if err := database.DB.Model(&models.Booking{}).
		Where("booking_type = ? AND status = ?", models.BookingTypeQuick, models.BookingConfirmed).
		Count(&quickConfirmed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	strategyRemaining := (strategyBaseCapacity + strategyConfirmed) - strategyConfirmed
	quickRemaining := (quickBaseCapacity + quickConfirmed) - quickConfirmed

	return c.JSON(fiber.Map{
		"strategy": strategyRemaining,
		"quick":    quickRemaining,
	})
}
