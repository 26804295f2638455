package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bellavista/concierge-backend/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	orchestrator  *services.Orchestrator
	twilioService *services.TwilioService
	fallbackPhone string
}

// NewWhatsAppHandler creates a new WhatsApp handler. twilioService may
// be nil in development; replies are then only logged.
func NewWhatsAppHandler(orchestrator *services.Orchestrator, twilioService *services.TwilioService, fallbackPhone string) *WhatsAppHandler {
	return &WhatsAppHandler{
		orchestrator:  orchestrator,
		twilioService: twilioService,
		fallbackPhone: fallbackPhone,
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // WhatsApp number (whatsapp:+352...)
	To         string `form:"To"`
	Body       string `form:"Body"`
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks arrive on the same URL with no body text.
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	phone := strings.TrimPrefix(payload.From, "whatsapp:")
	log.Printf("WhatsApp message from %s: %s", phone, payload.Body)

	result, err := h.orchestrator.HandleTurn(c.UserContext(), phone, payload.Body)
	reply := ""
	if err != nil {
		log.Printf("Error processing turn for %s: %v", phone, err)
		reply = "Sorry, something went wrong. Please call " + h.fallbackPhone
	} else {
		reply = result.Reply
	}

	if h.twilioService != nil && reply != "" {
		if err := h.twilioService.SendWhatsAppMessage(phone, reply); err != nil {
			log.Printf("Failed to send WhatsApp response to %s: %v", phone, err)
		}
	} else {
		log.Printf("Response (not sent - Twilio not configured): %s", reply)
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the JSON turn interface used in development
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test turns without Twilio, returning the
// reply plus debug metadata.
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}
	if payload.From == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "from and message are required",
		})
	}

	result, err := h.orchestrator.HandleTurn(c.UserContext(), payload.From, payload.Message)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reply":          result.Reply,
		"intent":         result.Intent,
		"booking_draft":  result.Draft,
		"menu_available": result.MenuAvailable,
	})
}
