package notifications

import (
	"fmt"
	"time"

	"github.com/anmolmalik/talk_sessions/models"
)

func sessionLabel(bookingType string) string {
	if bookingType == models.BookingTypeQuick {
		return "Quick 10-min"
	}
	return "Strategy 45-min"
}

func formatSlot(slotStart time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return slotStart.In(loc).Format("Monday, January 2, 2006 at 3:04 PM MST")
}

// SendBookingConfirmation mails the customer after a captured payment.
// Blocking; callers run it on a goroutine.
func SendBookingConfirmation(booking models.Booking, meetLink, calendarLink string) {
	label := sessionLabel(booking.BookingType)
	when := formatSlot(booking.SlotStart, booking.Timezone)

	subject := "Your Session is Confirmed!"

	meetHTML := ""
	meetText := ""
	if meetLink != "" {
		meetHTML = fmt.Sprintf(`<p><a href="%s" style="display:inline-block;background:#4f46e5;color:white;padding:12px 24px;text-decoration:none;border-radius:8px;font-weight:600;">Join Google Meet</a></p><p style="color:#6b7280;font-size:14px;">Or copy this link: <a href="%s">%s</a></p>`, meetLink, meetLink, meetLink)
		meetText = fmt.Sprintf("\nJoin link: %s\n", meetLink)
	}
	calendarHTML := ""
	if calendarLink != "" {
		calendarHTML = fmt.Sprintf(`<p><a href="%s" style="color:#4f46e5;font-size:14px;">View in Google Calendar</a></p>`, calendarLink)
	}

	html := fmt.Sprintf(`<h1>Booking Confirmed!</h1>
<p>Hi %s,</p>
<p>Your <strong>%s Session</strong> has been booked and paid for.</p>
<table>
<tr><td>Session Type:</td><td><strong>%s</strong></td></tr>
<tr><td>Date &amp; Time:</td><td><strong>%s</strong></td></tr>
<tr><td>Amount Paid:</td><td><strong>₹%d</strong></td></tr>
</table>
%s%s
<p><strong>Reminder:</strong> You'll receive a calendar invite shortly. Please accept it to get reminders.</p>
<p>Looking forward to our session!</p>`,
		booking.User.Name, label, label, when, booking.Price, meetHTML, calendarHTML)

	text := fmt.Sprintf(`Booking Confirmed!

Hi %s,

Your %s Session has been booked and paid for.

Session Type: %s
Date & Time: %s
Amount Paid: Rs. %d
%s
You'll receive a calendar invite shortly. Please accept it to get reminders.

Looking forward to our session!`,
		booking.User.Name, label, label, when, booking.Price, meetText)

	SendEmail(booking.User.Name, booking.User.Email, subject, html, text)
}

// SendSessionReminder mails the customer an hour before a confirmed
// session starts.
func SendSessionReminder(booking models.Booking) {
	when := booking.SlotStart
	if loc, err := time.LoadLocation(booking.Timezone); err == nil {
		when = when.In(loc)
	}

	meetLine := ""
	meetHTML := ""
	if booking.MeetLink != nil {
		meetLine = fmt.Sprintf("\nMeeting link: %s\n", *booking.MeetLink)
		meetHTML = fmt.Sprintf(`<p><b>Meeting Link:</b> <a href="%s">Join Session</a></p>`, *booking.MeetLink)
	}

	subject := "Reminder: Your Session Starts in 1 Hour!"
	html := fmt.Sprintf(`<h1>Session Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that your session is scheduled to start in one hour at %s.</p>%s`,
		booking.User.Name, when.Format(time.Kitchen), meetHTML)
	text := fmt.Sprintf("Session Reminder\n\nHi %s,\n\nYour session starts in one hour at %s.%s",
		booking.User.Name, when.Format(time.Kitchen), meetLine)

	SendEmail(booking.User.Name, booking.User.Email, subject, html, text)
}
