package routes

import (
	"github.com/anmolmalik/talk_sessions/handlers"
	"github.com/gofiber/fiber/v2"
)

// PublicRoutes are the unauthenticated visitor endpoints: availability,
// booking creation and polling, and the donation ledger.
func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/availability", handlers.GetAvailability)
	api.Post("/bookings", handlers.CreateBooking)
	api.Get("/bookings/status", handlers.GetBookingStatus)
	api.Get("/bookings/remaining", handlers.GetRemainingSlots)

	api.Get("/donations", handlers.ListDonations)
}
