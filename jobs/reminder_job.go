package jobs

import (
	"log"
	"time"

	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
	"github.com/anmolmalik/talk_sessions/notifications"
)

const (
	reminderLeadTime    = 60 * time.Minute
	reminderWindowWidth = 5 * time.Minute
)

// reminderWindow is the slot-start range a run covers: bookings starting
// 60-65 minutes from now. The width matches the cron cadence so
// consecutive runs tile the timeline and each booking is caught exactly
// once.
func reminderWindow(now time.Time) (time.Time, time.Time) {
	lower := now.Add(reminderLeadTime)
	return lower, lower.Add(reminderWindowWidth)
}

// SendSessionReminders mails every confirmed booking starting in the
// next 60-65 minutes.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	lowerBound, upperBound := reminderWindow(time.Now())

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("User").
		Where("status = ? AND slot_start BETWEEN ? AND ?", models.BookingConfirmed, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)
		go notifications.SendSessionReminder(booking)
	}
}
