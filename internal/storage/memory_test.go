package storage

import (
	"fmt"
	"testing"

	"github.com/bellavista/concierge-backend/internal/models"
)

func TestMemoryStoreSessionRoundTrip(t *testing.T) {
	store := NewMemoryStore(40)
	const phone = "+352621111111"

	// Unknown phone numbers get a fresh default state.
	state, err := store.LoadSession(phone)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if state.SessionID != phone || state.Phase != models.PhaseIdle || len(state.History) != 0 {
		t.Fatalf("fresh state = %+v", state)
	}

	state.AppendHistory(models.RoleUser, "book a table")
	state.AppendHistory(models.RoleAgent, "How many people will be dining with us?")
	state.Phase = models.PhaseCollecting
	state.Draft.PartySize = 4
	state.CurrentIntent = models.IntentBooking
	if err := store.CommitSession(state); err != nil {
		t.Fatalf("CommitSession: %v", err)
	}

	loaded, err := store.LoadSession(phone)
	if err != nil {
		t.Fatalf("LoadSession after commit: %v", err)
	}
	if loaded.Phase != models.PhaseCollecting || loaded.Draft.PartySize != 4 {
		t.Fatalf("round-trip lost fields: %+v", loaded)
	}
	if len(loaded.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(loaded.History))
	}

	// Mutating a loaded copy must not leak into the store.
	loaded.Draft.PartySize = 99
	loaded.History[0].Text = "tampered"
	again, _ := store.LoadSession(phone)
	if again.Draft.PartySize != 4 || again.History[0].Text != "book a table" {
		t.Fatalf("stored state mutated through a returned copy: %+v", again)
	}
}

func TestMemoryStoreCommitValidation(t *testing.T) {
	store := NewMemoryStore(40)
	if err := store.CommitSession(nil); err == nil {
		t.Fatal("committed a nil state")
	}
	if err := store.CommitSession(&models.ConversationState{}); err == nil {
		t.Fatal("committed a state with no session id")
	}
}

func TestMemoryStoreHistoryTruncation(t *testing.T) {
	store := NewMemoryStore(5)
	state := models.NewConversationState("+352622222222")
	for i := 0; i < 12; i++ {
		state.AppendHistory(models.RoleUser, fmt.Sprintf("message %d", i))
	}
	if err := store.CommitSession(state); err != nil {
		t.Fatalf("CommitSession: %v", err)
	}

	loaded, _ := store.LoadSession(state.SessionID)
	if len(loaded.History) != 5 {
		t.Fatalf("history length = %d, want 5", len(loaded.History))
	}
	if loaded.History[4].Text != "message 11" {
		t.Fatalf("truncation dropped the newest entries: %q", loaded.History[4].Text)
	}
	if loaded.History[0].Text != "message 7" {
		t.Fatalf("truncation kept the wrong window: %q", loaded.History[0].Text)
	}
}

func TestMemoryStoreBookings(t *testing.T) {
	store := NewMemoryStore(40)

	for i := 1; i <= 3; i++ {
		b, err := store.CreateBooking(&models.BookingRequest{
			Phone:     fmt.Sprintf("+%d", i),
			Name:      fmt.Sprintf("Guest %d", i),
			PartySize: i + 1,
			Date:      "tomorrow",
			Time:      "8pm",
		})
		if err != nil {
			t.Fatalf("CreateBooking %d: %v", i, err)
		}
		want := fmt.Sprintf("BV%03d", i)
		if b.Reference != want {
			t.Fatalf("reference = %q, want %q", b.Reference, want)
		}
		if b.Status != models.BookingStatusConfirmed {
			t.Fatalf("status = %q", b.Status)
		}
	}

	if _, err := store.CreateBooking(&models.BookingRequest{Phone: "+0", PartySize: 0}); err == nil {
		t.Fatal("created a booking with zero party size")
	}

	bookings, err := store.GetBookings()
	if err != nil {
		t.Fatalf("GetBookings: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("got %d bookings", len(bookings))
	}
	// Newest first.
	if bookings[0].Reference != "BV003" || bookings[2].Reference != "BV001" {
		t.Fatalf("ordering wrong: %q .. %q", bookings[0].Reference, bookings[2].Reference)
	}
}

func TestMemoryStoreBookingsForDate(t *testing.T) {
	store := NewMemoryStore(40)
	_, _ = store.CreateBooking(&models.BookingRequest{Phone: "+1", Name: "A", PartySize: 2, Date: "Friday", Time: "7pm"})
	_, _ = store.CreateBooking(&models.BookingRequest{Phone: "+2", Name: "B", PartySize: 2, Date: "saturday", Time: "8pm"})

	matches, err := store.GetBookingsForDate("friday")
	if err != nil {
		t.Fatalf("GetBookingsForDate: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "A" {
		t.Fatalf("matches = %+v", matches)
	}

	none, _ := store.GetBookingsForDate("sunday")
	if len(none) != 0 {
		t.Fatalf("unexpected matches: %+v", none)
	}
}

func TestMemoryStoreConversationLog(t *testing.T) {
	store := NewMemoryStore(40)
	for i := 0; i < 4; i++ {
		err := store.AppendConversation(&models.ConversationLog{
			Phone:    "+352623333333",
			Message:  fmt.Sprintf("question %d", i),
			Response: fmt.Sprintf("answer %d", i),
		})
		if err != nil {
			t.Fatalf("AppendConversation %d: %v", i, err)
		}
	}

	logs, err := store.GetRecentConversations(2)
	if err != nil {
		t.Fatalf("GetRecentConversations: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d entries, want 2", len(logs))
	}
	if logs[0].Message != "question 3" || logs[1].Message != "question 2" {
		t.Fatalf("ordering wrong: %q, %q", logs[0].Message, logs[1].Message)
	}
}
