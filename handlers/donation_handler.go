package handlers

import (
	"log"

	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListDonations is the public transparency ledger, newest first.
func ListDonations(c *fiber.Ctx) error {
	var donations []models.Donation
	if err := database.DB.Order("date DESC, created_at DESC").Find(&donations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"donations": donations})
}

type AddDonationRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

func AddDonation(c *fiber.Ctx) error {
	var req AddDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	donation := models.Donation{Amount: req.Amount, Date: req.Date}
	if req.Note != "" {
		donation.Note = &req.Note
	}
	if err := database.DB.Create(&donation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	writeAudit(c, "donation.added", "donation", donation.ID.String(), req)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"donation": donation})
}

type MarkDonatedRequest struct {
	ProofURL string `json:"proof_url" validate:"omitempty,url"`
}

// MarkDonationDonated flips a ledger entry to donated. When the admin
// supplies no proof URL a receipt PDF is generated in the background and
// becomes the proof once uploaded.
func MarkDonationDonated(c *fiber.Ctx) error {
	donationID, err := uuid.Parse(c.Params("donationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid donation id"})
	}

	var req MarkDonatedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	var donation models.Donation
	if err := database.DB.First(&donation, "id = ?", donationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Donation not found"})
	}

	donation.Donated = true
	if req.ProofURL != "" {
		donation.ProofURL = &req.ProofURL
	}
	if err := database.DB.Save(&donation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	if req.ProofURL == "" {
		go services.GenerateDonationReceipt(donation)
	}

	writeAudit(c, "donation.marked_donated", "donation", donation.ID.String(),
		fiber.Map{"proof_url": req.ProofURL})
	log.Printf("✅ Donation %s marked donated", donation.ID)
	return c.JSON(fiber.Map{"donation": donation})
}
