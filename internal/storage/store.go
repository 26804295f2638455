package storage

import (
	"github.com/bellavista/concierge-backend/internal/models"
)

// Store defines the persistence operations the conversation engine
// needs. Implementations must make CommitSession atomic per session:
// a partially applied update is never visible to a later LoadSession.
type Store interface {
	// Session operations. LoadSession creates a fresh default state
	// when none exists; absence is not an error.
	LoadSession(phone string) (*models.ConversationState, error)
	CommitSession(state *models.ConversationState) error

	// Booking operations. Bookings are immutable once created and
	// references are assigned monotonically.
	CreateBooking(req *models.BookingRequest) (*models.Booking, error)
	GetBookings() ([]*models.Booking, error)
	GetBookingsForDate(date string) ([]*models.Booking, error)

	// Conversation log operations (reporting surface).
	AppendConversation(entry *models.ConversationLog) error
	GetRecentConversations(limit int) ([]*models.ConversationLog, error)
}
