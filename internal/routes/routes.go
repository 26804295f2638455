package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/bellavista/concierge-backend/internal/handlers"
	"github.com/bellavista/concierge-backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	app *fiber.App,
	whatsapp *handlers.WhatsAppHandler,
	menu *handlers.MenuHandler,
	booking *handlers.BookingHandler,
	health *handlers.HealthHandler,
) {
	app.Get("/health", health.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// WhatsApp webhook - signature validation can be disabled for ngrok
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
		log.Println("WhatsApp webhook validation DISABLED for development")
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsapp.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin")
	admin.Post("/menu", menu.HandleIngest)
	admin.Get("/bookings", booking.ListBookings)
	admin.Get("/conversations", booking.ListConversations)
}
