package models

import "time"

// Intent classifies the purpose of a single user message.
type Intent string

const (
	IntentBooking     Intent = "booking"
	IntentMenuInquiry Intent = "menu_inquiry"
	IntentInfoInquiry Intent = "info_inquiry"
	IntentGeneralChat Intent = "general_chat"
)

// Phase tracks where a session is in the booking cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCollecting Phase = "collecting"
	PhaseCompleted  Phase = "completed"
)

// History roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Booking draft field names, in the order the agent asks for them
const (
	FieldPartySize = "party_size"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldName      = "name"
)

// RequiredBookingFields is the fixed priority order for slot filling.
var RequiredBookingFields = []string{FieldPartySize, FieldDate, FieldTime, FieldName}

// HistoryEntry is one message in a conversation, user or agent.
type HistoryEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingDraft holds the partially collected reservation details.
// Zero values mean "not provided yet".
type BookingDraft struct {
	Name      string `json:"name,omitempty"`
	PartySize int    `json:"party_size,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
}

// Merge copies non-empty fields from other into the draft. Already-set
// fields are overwritten only by a non-empty extraction, never cleared.
func (d *BookingDraft) Merge(other BookingDraft) {
	if other.Name != "" {
		d.Name = other.Name
	}
	if other.PartySize > 0 {
		d.PartySize = other.PartySize
	}
	if other.Date != "" {
		d.Date = other.Date
	}
	if other.Time != "" {
		d.Time = other.Time
	}
}

// Missing returns the names of required fields not yet collected,
// in ask order.
func (d *BookingDraft) Missing() []string {
	var missing []string
	for _, field := range RequiredBookingFields {
		switch field {
		case FieldPartySize:
			if d.PartySize <= 0 {
				missing = append(missing, field)
			}
		case FieldDate:
			if d.Date == "" {
				missing = append(missing, field)
			}
		case FieldTime:
			if d.Time == "" {
				missing = append(missing, field)
			}
		case FieldName:
			if d.Name == "" {
				missing = append(missing, field)
			}
		}
	}
	return missing
}

// Complete reports whether all required fields are present.
func (d *BookingDraft) Complete() bool {
	return len(d.Missing()) == 0
}

// Empty reports whether no field has been collected yet.
func (d *BookingDraft) Empty() bool {
	return d.Name == "" && d.PartySize <= 0 && d.Date == "" && d.Time == ""
}

// ConversationState is the full per-session dialogue state, keyed by the
// customer's phone number.
type ConversationState struct {
	SessionID     string         `json:"session_id"`
	History       []HistoryEntry `json:"history"`
	CurrentIntent Intent         `json:"current_intent,omitempty"`
	Draft         BookingDraft   `json:"booking_draft"`
	Phase         Phase          `json:"phase"`
}

// NewConversationState returns the default state for a first-time caller.
func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		Phase:     PhaseIdle,
	}
}

// AppendHistory adds one entry to the conversation history.
func (s *ConversationState) AppendHistory(role, text string) {
	s.History = append(s.History, HistoryEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

// TruncateHistory keeps only the most recent max entries, evicting the
// oldest first. Other fields are untouched.
func (s *ConversationState) TruncateHistory(max int) {
	if max > 0 && len(s.History) > max {
		s.History = append([]HistoryEntry(nil), s.History[len(s.History)-max:]...)
	}
}

// Clone returns a deep copy so stored state cannot be mutated through
// a previously returned pointer.
func (s *ConversationState) Clone() *ConversationState {
	clone := *s
	clone.History = append([]HistoryEntry(nil), s.History...)
	return &clone
}
