package utils

import (
	"math/rand"
	"time"

	"github.com/anmolmalik/talk_sessions/models"
	"gorm.io/gorm"
)

const receiptNumberLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReceiptNumber produces a short code unique across the donation
// ledger, used on generated receipts.
func GenerateReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptNumberLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := string(b)

		var donation models.Donation
		err := tx.Where("receipt_number = ?", code).First(&donation).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
