package notifications

import (
	"strings"
	"testing"

	"github.com/anmolmalik/talk_sessions/models"
)

func TestSessionLabel(t *testing.T) {
	if got := sessionLabel(models.BookingTypeQuick); got != "Quick 10-min" {
		t.Errorf("quick label = %q", got)
	}
	if got := sessionLabel(models.BookingTypeStrategy); got != "Strategy 45-min" {
		t.Errorf("strategy label = %q", got)
	}
}

func TestBuildMIME(t *testing.T) {
	msg := buildMIME("Anmol <a@b.c>", "Visitor <v@b.c>", "admin@b.c",
		"Your Session is Confirmed!", "plain body", "<p>html body</p>")

	for _, want := range []string{
		"From: Anmol <a@b.c>",
		"To: Visitor <v@b.c>",
		"Bcc: admin@b.c",
		"Subject: Your Session is Confirmed!",
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		`Content-Type: text/html; charset="UTF-8"`,
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	if strings.Contains(buildMIME("a@b.c", "v@b.c", "", "s", "t", "h"), "Bcc:") {
		t.Error("Bcc header should be omitted when no bcc address is set")
	}

	// Gmail requires CRLF line endings in the raw message.
	if !strings.Contains(msg, "\r\n") {
		t.Error("message should use CRLF line endings")
	}
}
