package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/models"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

var ErrCredentialsMissing = errors.New("razorpay credentials missing")

type PaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

type paymentLinkRequest struct {
	Amount         int               `json:"amount"` // paise
	Currency       string            `json:"currency"`
	AcceptPartial  bool              `json:"accept_partial"`
	Description    string            `json:"description"`
	Customer       map[string]string `json:"customer"`
	ReferenceID    string            `json:"reference_id"`
	CallbackURL    string            `json:"callback_url"`
	CallbackMethod string            `json:"callback_method"`
	Notes          map[string]string `json:"notes"`
}

func credentials() (string, string, error) {
	keyID := config.Config("RAZORPAY_KEY_ID")
	keySecret := config.Config("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return "", "", ErrCredentialsMissing
	}
	return keyID, keySecret, nil
}

// CreatePaymentLink asks Razorpay for a hosted payment page for the
// booking. The booking id rides along as reference_id and in the notes so
// webhooks and redirects can correlate the payment back to the booking.
func CreatePaymentLink(booking *models.Booking, callbackURL string) (*PaymentLink, error) {
	keyID, keySecret, err := credentials()
	if err != nil {
		return nil, err
	}

	recording := "false"
	if booking.RecordingRequested {
		recording = "true"
	}

	payload := paymentLinkRequest{
		Amount:         booking.Price * 100,
		Currency:       "INR",
		AcceptPartial:  false,
		Description:    "1-on-1 Session",
		Customer:       map[string]string{"name": booking.User.Name, "email": booking.User.Email},
		ReferenceID:    booking.ID.String(),
		CallbackURL:    callbackURL,
		CallbackMethod: "get",
		Notes: map[string]string{
			"booking_id":        booking.ID.String(),
			"slot_start":        booking.SlotStart.Format(time.RFC3339),
			"slot_end":          booking.SlotEnd.Format(time.RFC3339),
			"recording_enabled": recording,
			"user_email":        booking.User.Email,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment link payload: %v", err)
	}

	req, err := http.NewRequest("POST", razorpayBaseURL+"/payment_links", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment link request: %v", err)
	}
	req.SetBasicAuth(keyID, keySecret)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send payment link request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment link response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Razorpay API error: %s", string(respBody))
		return nil, fmt.Errorf("razorpay returned status %d", resp.StatusCode)
	}

	var link PaymentLink
	if err := json.Unmarshal(respBody, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment link response: %v", err)
	}
	return &link, nil
}

type PaymentLinkStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ReferenceID string `json:"reference_id"`
}

// FetchPaymentLink pulls the authoritative state of a payment link from
// Razorpay. Used as the fallback when a redirect arrives with a bad
// signature.
func FetchPaymentLink(linkID string) (*PaymentLinkStatus, error) {
	keyID, keySecret, err := credentials()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", razorpayBaseURL+"/payment_links/"+linkID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(keyID, keySecret)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay payment link fetch returned status %d", resp.StatusCode)
	}

	var link PaymentLinkStatus
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, err
	}
	return &link, nil
}