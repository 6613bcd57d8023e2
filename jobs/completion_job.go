package jobs

import (
	"log"
	"time"

	"github.com/anmolmalik/talk_sessions/database"
	"github.com/anmolmalik/talk_sessions/models"
)

// CompleteFinishedSessions moves confirmed bookings whose slot ended at
// least an hour ago to completed, the same transition an admin would
// apply by hand.
func CompleteFinishedSessions() {
	log.Println("Running job: CompleteFinishedSessions...")

	cutoff := time.Now().Add(-1 * time.Hour)

	var finishedBookings []models.Booking
	err := database.DB.
		Where("status = ? AND slot_end <= ?", models.BookingConfirmed, cutoff).
		Find(&finishedBookings).Error
	if err != nil {
		log.Printf("Error checking for finished sessions: %v", err)
		return
	}

	if len(finishedBookings) == 0 {
		return
	}

	completed := 0
	for _, booking := range finishedBookings {
		if !models.CanTransition(booking.Status, models.BookingCompleted) {
			continue
		}
		booking.Status = models.BookingCompleted
		if err := database.DB.Save(&booking).Error; err != nil {
			log.Printf("Error completing booking %s: %v", booking.ID, err)
			continue
		}
		completed++
	}

	log.Printf("Marked %d of %d finished booking(s) as completed.", completed, len(finishedBookings))
}
