package routes

import (
	"github.com/anmolmalik/talk_sessions/handlers"
	"github.com/anmolmalik/talk_sessions/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/admin/login", handlers.AdminLogin)

	admin := api.Group("/admin", middleware.AdminProtected(), middleware.AdminRequired())
	admin.Post("/logout", handlers.AdminLogout)
	admin.Get("/stats", handlers.GetDashboardStats)

	admin.Get("/bookings", handlers.AdminGetBookings)
	admin.Patch("/bookings/:bookingId/status", handlers.UpdateBookingStatus)
	admin.Get("/payments", handlers.AdminGetPayments)

	admin.Get("/availability/rules", handlers.GetAvailabilityRules)
	admin.Put("/availability/rules/:day", handlers.UpdateAvailabilityRule)
	admin.Get("/availability/blocked", handlers.GetBlockedDates)
	admin.Post("/availability/blocked", handlers.AddBlockedDate)
	admin.Delete("/availability/blocked/:date", handlers.RemoveBlockedDate)

	admin.Get("/settings", handlers.GetGlobalSettings)
	admin.Put("/settings", handlers.UpdateGlobalSetting)
	admin.Get("/audit-logs", handlers.GetAuditLogs)

	admin.Post("/donations", handlers.AddDonation)
	admin.Patch("/donations/:donationId/donated", handlers.MarkDonationDonated)

	admin.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	admin.Get("/ws", websocket.New(handlers.ServeAdminWS))
}
