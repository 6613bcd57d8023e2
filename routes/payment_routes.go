package routes

import (
	"github.com/anmolmalik/talk_sessions/handlers"
	"github.com/gofiber/fiber/v2"
)

// PaymentRoutes are the provider-facing endpoints. Both authenticate by
// signature, not session: the webhook comes from Razorpay's servers and
// the confirm redirect from the customer's browser.
func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)
	api.Get("/payments/confirm", handlers.HandlePaymentConfirm)
}
