package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := `{"event":"payment.captured","payload":{}}`
	secret := "whsec_test_123"

	if !VerifyWebhookSignature([]byte(body), sign(body, secret), secret) {
		t.Fatal("valid signature rejected")
	}
	if VerifyWebhookSignature([]byte(body), sign(body, "wrong_secret"), secret) {
		t.Error("signature made with the wrong secret accepted")
	}
	if VerifyWebhookSignature([]byte(body+" "), sign(body, secret), secret) {
		t.Error("signature accepted for a tampered body")
	}
	if VerifyWebhookSignature([]byte(body), "", secret) {
		t.Error("empty signature accepted")
	}
	if VerifyWebhookSignature([]byte(body), sign(body, secret), "") {
		t.Error("verification with empty secret accepted")
	}
}

func TestVerifyCallbackSignature(t *testing.T) {
	secret := "key_secret_456"
	linkID := "plink_abc"
	paymentID := "pay_def"
	referenceID := "7b8e3a60-0000-0000-0000-000000000001"
	status := "paid"

	payload := linkID + "|" + paymentID + "|" + referenceID + "|" + status
	good := sign(payload, secret)

	if !VerifyCallbackSignature(linkID, paymentID, referenceID, status, good, secret) {
		t.Fatal("valid callback signature rejected")
	}
	if VerifyCallbackSignature(linkID, paymentID, referenceID, "expired", good, secret) {
		t.Error("signature accepted after status substitution")
	}
	if VerifyCallbackSignature(linkID, paymentID, "other-booking", status, good, secret) {
		t.Error("signature accepted after reference substitution")
	}
}
