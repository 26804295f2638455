package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bellavista/concierge-backend/internal/models"
)

// DatabaseStore persists sessions, bookings and conversation logs via
// GORM. Conversation state is serialized as JSON into a single row per
// phone number, so each commit is one atomic row write.
type DatabaseStore struct {
	db           *gorm.DB
	historyLimit int
}

// NewDatabaseStore creates a store backed by the given database.
func NewDatabaseStore(db *gorm.DB, historyLimit int) *DatabaseStore {
	if historyLimit <= 0 {
		historyLimit = 40
	}
	return &DatabaseStore{db: db, historyLimit: historyLimit}
}

func (s *DatabaseStore) LoadSession(phone string) (*models.ConversationState, error) {
	var record models.SessionRecord
	err := s.db.Where("phone_number = ?", phone).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewConversationState(phone), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", phone, err)
	}

	var state models.ConversationState
	if err := json.Unmarshal([]byte(record.State), &state); err != nil {
		// A corrupt row must not wedge the session forever.
		return models.NewConversationState(phone), nil
	}
	if state.Phase == "" {
		state.Phase = models.PhaseIdle
	}
	state.SessionID = phone
	return &state, nil
}

func (s *DatabaseStore) CommitSession(state *models.ConversationState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("invalid session state")
	}
	committed := state.Clone()
	committed.TruncateHistory(s.historyLimit)

	data, err := json.Marshal(committed)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	var record models.SessionRecord
	err = s.db.Where("phone_number = ?", state.SessionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.SessionRecord{PhoneNumber: state.SessionID}
	} else if err != nil {
		return fmt.Errorf("commit session %s: %w", state.SessionID, err)
	}

	record.State = string(data)
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("commit session %s: %w", state.SessionID, err)
	}
	return nil
}

// CreateBooking inserts the record and derives the monotonic reference
// from the row id, in one transaction.
func (s *DatabaseStore) CreateBooking(req *models.BookingRequest) (*models.Booking, error) {
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("invalid party size")
	}

	booking := &models.Booking{
		Phone:     req.Phone,
		Name:      req.Name,
		PartySize: req.PartySize,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.BookingStatusConfirmed,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		booking.Reference = fmt.Sprintf("BV%03d", booking.ID)
		return tx.Model(booking).Update("reference", booking.Reference).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

func (s *DatabaseStore) GetBookings() ([]*models.Booking, error) {
	var bookings []*models.Booking
	if err := s.db.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *DatabaseStore) GetBookingsForDate(date string) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.
		Where("LOWER(date) LIKE ?", "%"+strings.ToLower(date)+"%").
		Order("time ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *DatabaseStore) AppendConversation(entry *models.ConversationLog) error {
	return s.db.Create(entry).Error
}

func (s *DatabaseStore) GetRecentConversations(limit int) ([]*models.ConversationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []*models.ConversationLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
