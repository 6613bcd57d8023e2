package notifications

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anmolmalik/talk_sessions/calendar"
	config "github.com/anmolmalik/talk_sessions/configs"
)

const gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

type GmailService struct {
	SenderEmail string
	SenderName  string
	BccEmail    string
}

var EmailClient *GmailService

func InitEmailService() {
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if senderEmail == "" || !calendar.Configured() {
		log.Println("⚠️ Email service not configured. Missing sender address or Google credentials.")
		EmailClient = nil
		return
	}

	EmailClient = &GmailService{
		SenderEmail: senderEmail,
		SenderName:  senderName,
		BccEmail:    config.Config("ADMIN_EMAIL"),
	}
	log.Println("✅ Email service initialized successfully.")
}

// buildMIME assembles a multipart/alternative message (plain + HTML) with
// an optional blind copy.
func buildMIME(from, to, bcc, subject, textContent, htmlContent string) string {
	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())

	lines := []string{
		"From: " + from,
		"To: " + to,
	}
	if bcc != "" {
		lines = append(lines, "Bcc: "+bcc)
	}
	lines = append(lines,
		"Subject: "+subject,
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary),
		"",
		"--"+boundary,
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		textContent,
		"",
		"--"+boundary,
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlContent,
		"",
		"--"+boundary+"--",
	)
	return strings.Join(lines, "\r\n")
}

func (s *GmailService) send(toEmail, toName, subject, htmlContent, textContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	accessToken, err := calendar.GetAccessToken()
	if err != nil {
		return fmt.Errorf("failed to get access token: %v", err)
	}

	from := s.SenderEmail
	if s.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.SenderName, s.SenderEmail)
	}
	to := toEmail
	if toName != "" {
		to = fmt.Sprintf("%s <%s>", toName, toEmail)
	}

	raw := buildMIME(from, to, s.BccEmail, subject, textContent, htmlContent)
	encoded := base64.URLEncoding.EncodeToString([]byte(raw))

	body, err := json.Marshal(map[string]string{"raw": encoded})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", gmailSendURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func SendEmail(toName, toEmail, subject, htmlContent, textContent string) {
	if EmailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	if err := EmailClient.send(toEmail, toName, subject, htmlContent, textContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	log.Printf("✅ Email sent successfully to %s", toEmail)
}
