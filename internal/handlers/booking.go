package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellavista/concierge-backend/internal/storage"
)

// BookingHandler serves the read-only reporting endpoints
type BookingHandler struct {
	store storage.Store
}

func NewBookingHandler(store storage.Store) *BookingHandler {
	return &BookingHandler{store: store}
}

// ListBookings returns all bookings, newest first. An optional ?date=
// query filters on the free-form date token.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		bookings, err := h.store.GetBookingsForDate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"count": len(bookings), "bookings": bookings})
	}

	bookings, err := h.store.GetBookings()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"count": len(bookings), "bookings": bookings})
}

// ListConversations returns recent conversation turns for reporting.
func (h *BookingHandler) ListConversations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	logs, err := h.store.GetRecentConversations(limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"count": len(logs), "conversations": logs})
}
