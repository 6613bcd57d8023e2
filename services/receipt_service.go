package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anmolmalik/talk_sessions/configs"
	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// GenerateDonationReceipt renders a receipt PDF for a ledger entry,
// uploads it and stores the resulting URL as the donation's proof link.
// Called when the admin marks a donation done without supplying a proof
// URL of their own.
func GenerateDonationReceipt(donation models.Donation) {
	receiptNumber, err := utils.GenerateReceiptNumber(database.DB)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt number: %v", err)
		return
	}

	htmlData, err := renderReceiptHTML(donation, receiptNumber)
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, donation.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	updates := map[string]interface{}{
		"proof_url":      uploadURL,
		"receipt_number": receiptNumber,
	}
	if err := database.DB.Model(&models.Donation{}).Where("id = ?", donation.ID).Updates(updates).Error; err != nil {
		log.Printf("🔥 Failed to store receipt for donation %s: %v", donation.ID, err)
		return
	}
	log.Printf("✅ Generated receipt %s for donation %s", receiptNumber, donation.ID)
}

func renderReceiptHTML(donation models.Donation, receiptNumber string) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	note := ""
	if donation.Note != nil {
		note = *donation.Note
	}
	data := struct {
		ReceiptNumber string
		Amount        int
		Date          string
		Note          string
		IssuedOn      string
	}{
		ReceiptNumber: receiptNumber,
		Amount:        donation.Amount,
		Date:          donation.Date,
		Note:          note,
		IssuedOn:      time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, donationID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", donationID, uuid.New().String()),
		Folder:       "donation_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
