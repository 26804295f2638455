package services

import (
	"context"
	"strings"
	"testing"

	"github.com/bellavista/concierge-backend/internal/models"
	"github.com/bellavista/concierge-backend/internal/nlu"
	"github.com/bellavista/concierge-backend/internal/rag"
	"github.com/bellavista/concierge-backend/internal/storage"
)

func newTestOrchestrator(store storage.Store, retriever *rag.Retriever) *Orchestrator {
	dialogue := newTestDialogue(store, retriever, nil)
	return NewOrchestrator(store, nlu.NewKeywordClassifier(), dialogue, retriever)
}

func TestHandleTurnBookingConversation(t *testing.T) {
	store := storage.NewMemoryStore(40)
	o := newTestOrchestrator(store, newTestRetriever())
	ctx := context.Background()
	const phone = "+352621000001"

	res, err := o.HandleTurn(ctx, phone, "Hi, I'd like to book a table for 4 people tomorrow at 7:30 PM")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if res.Intent != models.IntentBooking {
		t.Fatalf("turn 1 intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "name for the reservation") {
		t.Fatalf("turn 1 reply = %q", res.Reply)
	}

	// The bare name classifies as chat but continues the booking.
	res, err = o.HandleTurn(ctx, phone, "John Smith")
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if !strings.Contains(res.Reply, "Booking confirmed! Reference: BV001") {
		t.Fatalf("turn 2 reply = %q", res.Reply)
	}
	if !res.Draft.Empty() {
		t.Fatalf("draft not cleared after confirmation: %+v", res.Draft)
	}

	// Committed state survives a reload.
	state, err := store.LoadSession(phone)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if state.Phase != models.PhaseIdle || !state.Draft.Empty() {
		t.Fatalf("persisted state: phase=%q draft=%+v", state.Phase, state.Draft)
	}
	if len(state.History) != 4 {
		t.Fatalf("history length = %d, want 4 (2 user + 2 agent)", len(state.History))
	}

	bookings, _ := store.GetBookings()
	if len(bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(bookings))
	}
}

func TestHandleTurnDigressionKeepsDraft(t *testing.T) {
	store := storage.NewMemoryStore(40)
	o := newTestOrchestrator(store, newTestRetriever())
	ctx := context.Background()
	const phone = "+352621000002"

	if _, err := o.HandleTurn(ctx, phone, "I want to reserve a table for 6 people"); err != nil {
		t.Fatalf("turn 1: %v", err)
	}

	// An info question mid-booking is answered without touching the draft.
	res, err := o.HandleTurn(ctx, phone, "what are your hours?")
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if res.Intent != models.IntentInfoInquiry {
		t.Fatalf("turn 2 intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "open") {
		t.Fatalf("turn 2 reply = %q", res.Reply)
	}
	if res.Draft.PartySize != 6 {
		t.Fatalf("digression dropped the draft: %+v", res.Draft)
	}

	state, _ := store.LoadSession(phone)
	if state.Phase != models.PhaseCollecting {
		t.Fatalf("digression left phase %q, want collecting", state.Phase)
	}

	// Booking resumes where it left off.
	res, err = o.HandleTurn(ctx, phone, "tomorrow at 8pm")
	if err != nil {
		t.Fatalf("turn 3: %v", err)
	}
	if !strings.Contains(res.Reply, "name for the reservation") {
		t.Fatalf("turn 3 reply = %q", res.Reply)
	}

	res, err = o.HandleTurn(ctx, phone, "Anna Keller")
	if err != nil {
		t.Fatalf("turn 4: %v", err)
	}
	if !strings.Contains(res.Reply, "Booking confirmed!") {
		t.Fatalf("turn 4 reply = %q", res.Reply)
	}
}

func TestHandleTurnMenuAvailability(t *testing.T) {
	store := storage.NewMemoryStore(40)
	retriever := newTestRetriever()
	o := newTestOrchestrator(store, retriever)
	ctx := context.Background()

	res, err := o.HandleTurn(ctx, "+352621000003", "do you have vegan dishes?")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if res.Intent != models.IntentMenuInquiry {
		t.Fatalf("intent = %q", res.Intent)
	}
	if res.MenuAvailable {
		t.Fatal("menu reported available before ingestion")
	}

	if _, err := retriever.Ingest(ctx, "Vegan Buddha Bowl with quinoa, roasted vegetables and tahini."); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	res, err = o.HandleTurn(ctx, "+352621000003", "do you have vegan dishes?")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if !res.MenuAvailable {
		t.Fatal("menu reported unavailable after ingestion")
	}
	if !strings.Contains(res.Reply, "Buddha Bowl") {
		t.Fatalf("reply = %q", res.Reply)
	}
}

func TestHandleTurnCancelledContextCommitsNothing(t *testing.T) {
	store := storage.NewMemoryStore(40)
	o := newTestOrchestrator(store, newTestRetriever())
	const phone = "+352621000004"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.HandleTurn(ctx, phone, "book a table for 4"); err == nil {
		t.Fatal("cancelled turn returned no error")
	}

	state, _ := store.LoadSession(phone)
	if len(state.History) != 0 || state.Phase != models.PhaseIdle {
		t.Fatalf("cancelled turn committed state: %+v", state)
	}
}

func TestHandleTurnSessionsAreIndependent(t *testing.T) {
	store := storage.NewMemoryStore(40)
	o := newTestOrchestrator(store, newTestRetriever())
	ctx := context.Background()

	if _, err := o.HandleTurn(ctx, "+1111", "book a table for 2"); err != nil {
		t.Fatalf("session A: %v", err)
	}
	res, err := o.HandleTurn(ctx, "+2222", "book a table for 9")
	if err != nil {
		t.Fatalf("session B: %v", err)
	}
	if res.Draft.PartySize != 9 {
		t.Fatalf("session B draft = %+v", res.Draft)
	}

	a, _ := store.LoadSession("+1111")
	b, _ := store.LoadSession("+2222")
	if a.Draft.PartySize != 2 || b.Draft.PartySize != 9 {
		t.Fatalf("sessions bled into each other: A=%+v B=%+v", a.Draft, b.Draft)
	}
}

func TestHandleTurnLogsConversation(t *testing.T) {
	store := storage.NewMemoryStore(40)
	o := newTestOrchestrator(store, newTestRetriever())

	res, err := o.HandleTurn(context.Background(), "+352621000005", "where are you located?")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}

	logs, err := store.GetRecentConversations(10)
	if err != nil {
		t.Fatalf("GetRecentConversations: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d log entries, want 1", len(logs))
	}
	if logs[0].Message != "where are you located?" || logs[0].Response != res.Reply {
		t.Fatalf("log entry = %+v", logs[0])
	}
}

func TestHandleTurnHistoryTruncation(t *testing.T) {
	store := storage.NewMemoryStore(6)
	o := newTestOrchestrator(store, newTestRetriever())
	ctx := context.Background()
	const phone = "+352621000006"

	for i := 0; i < 10; i++ {
		if _, err := o.HandleTurn(ctx, phone, "what are your hours?"); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}

	state, _ := store.LoadSession(phone)
	if len(state.History) != 6 {
		t.Fatalf("history length = %d, want the configured bound 6", len(state.History))
	}
	// The newest entries survive.
	last := state.History[len(state.History)-1]
	if last.Role != models.RoleAgent {
		t.Fatalf("last history entry role = %q", last.Role)
	}
}
