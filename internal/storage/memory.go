package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bellavista/concierge-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development
type MemoryStore struct {
	sessions      map[string]*models.ConversationState
	bookings      []*models.Booking
	conversations []*models.ConversationLog

	// Mutexes for thread safety
	sessionMu sync.RWMutex
	bookingMu sync.RWMutex
	convMu    sync.RWMutex

	bookingCounter int
	historyLimit   int
}

// NewMemoryStore creates a new in-memory store. historyLimit bounds the
// conversation history kept per session at commit time.
func NewMemoryStore(historyLimit int) *MemoryStore {
	if historyLimit <= 0 {
		historyLimit = 40
	}
	return &MemoryStore{
		sessions:     make(map[string]*models.ConversationState),
		historyLimit: historyLimit,
	}
}

// LoadSession returns a deep copy of the stored state, or a fresh
// default state for an unknown phone number.
func (m *MemoryStore) LoadSession(phone string) (*models.ConversationState, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	state, exists := m.sessions[phone]
	if !exists {
		return models.NewConversationState(phone), nil
	}
	return state.Clone(), nil
}

// CommitSession stores a deep copy of the state, truncating history to
// the configured bound. The swap is atomic under the session mutex.
func (m *MemoryStore) CommitSession(state *models.ConversationState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("invalid session state")
	}
	committed := state.Clone()
	committed.TruncateHistory(m.historyLimit)

	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()
	m.sessions[state.SessionID] = committed
	return nil
}

// CreateBooking assigns the next reference and stores the record.
func (m *MemoryStore) CreateBooking(req *models.BookingRequest) (*models.Booking, error) {
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("invalid party size")
	}

	m.bookingMu.Lock()
	defer m.bookingMu.Unlock()

	m.bookingCounter++
	booking := &models.Booking{
		ID:        uint(m.bookingCounter),
		Reference: fmt.Sprintf("BV%03d", m.bookingCounter),
		Phone:     req.Phone,
		Name:      req.Name,
		PartySize: req.PartySize,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.BookingStatusConfirmed,
		CreatedAt: time.Now(),
	}
	m.bookings = append(m.bookings, booking)
	return booking, nil
}

// GetBookings returns all bookings, newest first.
func (m *MemoryStore) GetBookings() ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	out := make([]*models.Booking, 0, len(m.bookings))
	for i := len(m.bookings) - 1; i >= 0; i-- {
		out = append(out, m.bookings[i])
	}
	return out, nil
}

// GetBookingsForDate returns bookings whose free-form date contains the
// given token, ordered by time.
func (m *MemoryStore) GetBookingsForDate(date string) ([]*models.Booking, error) {
	m.bookingMu.RLock()
	defer m.bookingMu.RUnlock()

	needle := strings.ToLower(date)
	var out []*models.Booking
	for _, b := range m.bookings {
		if strings.Contains(strings.ToLower(b.Date), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemoryStore) AppendConversation(entry *models.ConversationLog) error {
	m.convMu.Lock()
	defer m.convMu.Unlock()

	entry.ID = uint(len(m.conversations) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.conversations = append(m.conversations, entry)
	return nil
}

// GetRecentConversations returns up to limit entries, newest first.
func (m *MemoryStore) GetRecentConversations(limit int) ([]*models.ConversationLog, error) {
	m.convMu.RLock()
	defer m.convMu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	var out []*models.ConversationLog
	for i := len(m.conversations) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.conversations[i])
	}
	return out, nil
}
