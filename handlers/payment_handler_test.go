package handlers

import (
	"encoding/json"
	"testing"

	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/payments"
)

func TestDecodeNotes(t *testing.T) {
	notes := decodeNotes(json.RawMessage(`{"booking_id":"abc","user_email":"x@y.z"}`))
	if notes["booking_id"] != "abc" {
		t.Errorf("expected booking_id abc, got %q", notes["booking_id"])
	}

	// Razorpay sends [] when no notes were attached.
	if got := decodeNotes(json.RawMessage(`[]`)); len(got) != 0 {
		t.Errorf("empty-array notes should decode to an empty map, got %v", got)
	}
	if got := decodeNotes(nil); len(got) != 0 {
		t.Errorf("missing notes should decode to an empty map, got %v", got)
	}
}

func TestResolveBookingID(t *testing.T) {
	notes := map[string]string{"booking_id": "from-notes"}
	if got := resolveBookingID(notes, "from-reference"); got != "from-notes" {
		t.Errorf("notes should win, got %q", got)
	}
	if got := resolveBookingID(map[string]string{}, "from-reference"); got != "from-reference" {
		t.Errorf("reference_id fallback expected, got %q", got)
	}
	if got := resolveBookingID(map[string]string{}, ""); got != "" {
		t.Errorf("no correlation should yield empty, got %q", got)
	}
}

func TestMapProviderStatus(t *testing.T) {
	cases := map[string]string{
		"captured":   models.PaymentCaptured,
		"failed":     models.PaymentFailed,
		"authorized": models.PaymentAuthorized,
		"refunded":   models.PaymentRefunded,
		"created":    models.PaymentCreated,
		"something":  models.PaymentCreated,
	}
	for provider, want := range cases {
		if got := mapProviderStatus(provider); got != want {
			t.Errorf("mapProviderStatus(%q) = %q, want %q", provider, got, want)
		}
	}
}

func TestResolveCallbackStatusSignedQueryTrusted(t *testing.T) {
	status, ok := resolveCallbackStatus(true, "paid", nil, "ref-1")
	if !ok || status != "paid" {
		t.Fatalf("signed paid callback should stand, got (%q, %v)", status, ok)
	}

	status, ok = resolveCallbackStatus(true, "expired", nil, "ref-1")
	if !ok || status != "expired" {
		t.Fatalf("signed expired callback should stand, got (%q, %v)", status, ok)
	}
}

func TestResolveCallbackStatusFallbackIgnoresQueryStatus(t *testing.T) {
	fetched := &payments.PaymentLinkStatus{ID: "plink_1", Status: "paid", ReferenceID: "ref-1"}

	// An unsigned request claiming "expired" against a link the provider
	// says is paid must not turn into a failed payment.
	status, ok := resolveCallbackStatus(false, "expired", fetched, "ref-1")
	if !ok {
		t.Fatal("provider-confirmed paid link should be accepted")
	}
	if status != "paid" {
		t.Fatalf("fallback must use the provider's state, got %q", status)
	}
}

func TestResolveCallbackStatusFallbackRejections(t *testing.T) {
	cases := []struct {
		name    string
		fetched *payments.PaymentLinkStatus
	}{
		{"fetch failed", nil},
		{"link not paid", &payments.PaymentLinkStatus{ID: "plink_1", Status: "expired", ReferenceID: "ref-1"}},
		{"wrong reference", &payments.PaymentLinkStatus{ID: "plink_1", Status: "paid", ReferenceID: "other-booking"}},
	}
	for _, tc := range cases {
		if _, ok := resolveCallbackStatus(false, "paid", tc.fetched, "ref-1"); ok {
			t.Errorf("%s: unsigned callback should be rejected", tc.name)
		}
	}
}

func TestWebhookPayloadDecoding(t *testing.T) {
	body := `{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_123",
					"order_id": "order_456",
					"payment_link_id": "plink_789",
					"amount": 50000,
					"currency": "INR",
					"status": "captured",
					"created_at": 1772323200,
					"notes": {"booking_id": "7b8e3a60-0000-0000-0000-000000000001"}
				}
			},
			"payment_link": {
				"entity": {"reference_id": "7b8e3a60-0000-0000-0000-000000000001"}
			}
		}
	}`

	var payload webhookPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("failed to decode webhook payload: %v", err)
	}

	entity := payload.Payload.Payment.Entity
	if entity.ID != "pay_123" {
		t.Errorf("payment id = %q", entity.ID)
	}
	if entity.Amount/100 != 500 {
		t.Errorf("amount should convert to 500 rupees, got %d", entity.Amount/100)
	}
	notes := decodeNotes(entity.Notes)
	if resolveBookingID(notes, payload.Payload.PaymentLink.Entity.ReferenceID) != "7b8e3a60-0000-0000-0000-000000000001" {
		t.Error("booking id not resolved from notes")
	}
}
