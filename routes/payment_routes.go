package routes

import (
	"github.com/dwisetyo88/bimbel_online/handlers"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// gateway callback, authenticated by the gateway's own signature scheme
	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)
}
