package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/payments"
	"github.com/anmolmalik/talk_sessions/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID            string          `json:"id"`
				OrderID       string          `json:"order_id"`
				PaymentLinkID string          `json:"payment_link_id"`
				Amount        int             `json:"amount"` // paise
				Currency      string          `json:"currency"`
				Status        string          `json:"status"`
				CreatedAt     int64           `json:"created_at"`
				Notes         json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		PaymentLink struct {
			Entity struct {
				ReferenceID string `json:"reference_id"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// decodeNotes tolerates Razorpay's habit of sending notes as an empty
// array instead of an object when none were set.
func decodeNotes(raw json.RawMessage) map[string]string {
	notes := map[string]string{}
	if len(raw) == 0 {
		return notes
	}
	if err := json.Unmarshal(raw, &notes); err != nil {
		return map[string]string{}
	}
	return notes
}

// resolveBookingID correlates a payment notification back to a booking:
// the notes we attached at link creation first, the payment link
// reference_id as fallback.
func resolveBookingID(notes map[string]string, referenceID string) string {
	if id := notes["booking_id"]; id != "" {
		return id
	}
	return referenceID
}

// mapProviderStatus folds Razorpay payment states onto our payment rows.
func mapProviderStatus(providerStatus string) string {
	switch providerStatus {
	case "captured":
		return models.PaymentCaptured
	case "failed":
		return models.PaymentFailed
	case "authorized":
		return models.PaymentAuthorized
	case "refunded":
		return models.PaymentRefunded
	default:
		return models.PaymentCreated
	}
}

// HandlePaymentWebhook ingests Razorpay webhooks. The signature is
// checked over the raw request body before anything is parsed. Events
// that are not payment events, or that cannot be correlated to a known
// booking, are acknowledged and dropped so the provider stops retrying.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := config.Config("RAZORPAY_WEBHOOK_SECRET")
	signature := c.Get("X-Razorpay-Signature")
	if secret == "" || signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing webhook signature"})
	}

	body := c.Body()
	if !payments.VerifyWebhookSignature(body, signature, secret) {
		log.Printf("⚠️ Webhook rejected: bad signature")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Malformed payload"})
	}

	if !strings.HasPrefix(payload.Event, "payment") {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	entity := payload.Payload.Payment.Entity
	if entity.ID == "" {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	notes := decodeNotes(entity.Notes)
	rawBookingID := resolveBookingID(notes, payload.Payload.PaymentLink.Entity.ReferenceID)
	bookingID, err := uuid.Parse(rawBookingID)
	if err != nil {
		log.Printf("⚠️ Webhook for payment %s has no usable booking reference", entity.ID)
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		log.Printf("⚠️ Webhook references unknown booking %s", bookingID)
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	status := mapProviderStatus(entity.Status)
	outcome := services.PaymentOutcome{
		BookingID:         bookingID,
		RazorpayPaymentID: entity.ID,
		Amount:            entity.Amount / 100,
		Currency:          entity.Currency,
		Status:            status,
		RawPayload:        string(body),
	}
	if entity.OrderID != "" {
		outcome.RazorpayOrderID = &entity.OrderID
	}
	if entity.PaymentLinkID != "" {
		outcome.RazorpayLinkID = &entity.PaymentLinkID
	}
	if status == models.PaymentCaptured && entity.CreatedAt > 0 {
		capturedAt := time.Unix(entity.CreatedAt, 0)
		outcome.CapturedAt = &capturedAt
	}

	if err := services.RecordPaymentOutcome(outcome); err != nil {
		log.Printf("🔥 Failed to record payment %s: %v", entity.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// resolveCallbackStatus decides which link status to trust. A valid
// signature authenticates the query parameters, so their status stands.
// Without one, the provider's fetched state is authoritative and the
// query string is ignored entirely: the fallback only ever accepts a
// paid link for the expected booking reference.
func resolveCallbackStatus(signatureOK bool, queryStatus string, fetched *payments.PaymentLinkStatus, referenceID string) (string, bool) {
	if signatureOK {
		return queryStatus, true
	}
	if fetched != nil && fetched.Status == "paid" && fetched.ReferenceID == referenceID {
		return "paid", true
	}
	return "", false
}

// HandlePaymentConfirm processes the GET redirect Razorpay sends the
// customer back on after paying. The callback signature is verified
// first; if it does not check out, the payment link state is fetched
// from the provider as the authoritative fallback before rejecting.
func HandlePaymentConfirm(c *fiber.Ctx) error {
	bookingParam := c.Query("booking")
	paymentID := c.Query("razorpay_payment_id")
	linkID := c.Query("razorpay_payment_link_id")
	referenceID := c.Query("razorpay_payment_link_reference_id")
	linkStatus := c.Query("razorpay_payment_link_status")
	signature := c.Query("razorpay_signature")

	if bookingParam == "" {
		bookingParam = referenceID
	}
	if referenceID == "" {
		referenceID = bookingParam
	}
	if paymentID == "" || linkID == "" || referenceID == "" || linkStatus == "" || signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing payment callback parameters"})
	}

	secret := config.Config("RAZORPAY_KEY_SECRET")
	if secret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment provider not configured"})
	}

	signatureOK := payments.VerifyCallbackSignature(linkID, paymentID, referenceID, linkStatus, signature, secret)
	var fetched *payments.PaymentLinkStatus
	if !signatureOK {
		log.Printf("⚠️ Callback signature mismatch for payment %s, verifying against provider", paymentID)
		var err error
		fetched, err = payments.FetchPaymentLink(linkID)
		if err != nil {
			log.Printf("🔥 Razorpay payment link verify failed: %v", err)
		}
	}
	linkStatus, valid := resolveCallbackStatus(signatureOK, linkStatus, fetched, referenceID)
	if !valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Payment could not be verified"})
	}

	bookingID, err := uuid.Parse(bookingParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking reference"})
	}
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	status := models.PaymentFailed
	var capturedAt *time.Time
	if linkStatus == "paid" {
		status = models.PaymentCaptured
		now := time.Now()
		capturedAt = &now
	}

	raw, _ := json.Marshal(fiber.Map{
		"source":                             "callback",
		"razorpay_payment_id":                paymentID,
		"razorpay_payment_link_id":           linkID,
		"razorpay_payment_link_reference_id": referenceID,
		"razorpay_payment_link_status":       linkStatus,
	})

	outcome := services.PaymentOutcome{
		BookingID:         bookingID,
		RazorpayPaymentID: paymentID,
		RazorpayLinkID:    &linkID,
		Amount:            booking.Price,
		Currency:          "INR",
		Status:            status,
		CapturedAt:        capturedAt,
		RawPayload:        string(raw),
	}
	if err := services.RecordPaymentOutcome(outcome); err != nil {
		log.Printf("🔥 Failed to record callback payment %s: %v", paymentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment"})
	}

	return c.JSON(fiber.Map{"status": status, "booking_id": bookingID})
}
