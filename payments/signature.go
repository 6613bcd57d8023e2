package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// VerifyWebhookSignature checks the HMAC-SHA256 of the raw webhook body
// against the X-Razorpay-Signature header. Constant-time compare.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyCallbackSignature checks the signature Razorpay appends to the
// redirect URL, computed over link id, payment id, reference id and
// status joined by pipes.
func VerifyCallbackSignature(linkID, paymentID, referenceID, status, signature, secret string) bool {
	payload := fmt.Sprintf("%s|%s|%s|%s", linkID, paymentID, referenceID, status)
	return VerifyWebhookSignature([]byte(payload), signature, secret)
}
