package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/bellavista/concierge-backend/internal/models"
	"github.com/bellavista/concierge-backend/internal/nlu"
	"github.com/bellavista/concierge-backend/internal/rag"
	"github.com/bellavista/concierge-backend/internal/storage"
)

// TurnResult is what a completed turn returns to the transport layer.
type TurnResult struct {
	Reply         string              `json:"reply"`
	Intent        models.Intent       `json:"intent"`
	Draft         models.BookingDraft `json:"booking_draft"`
	MenuAvailable bool                `json:"menu_available"`
}

// Orchestrator is the single entry point for a conversation turn. It
// serializes turns per session, runs classification and dispatch, and
// commits the updated state. A turn always produces a reply; no handler
// failure escapes this boundary.
type Orchestrator struct {
	store      storage.Store
	classifier nlu.Classifier
	dialogue   *DialogueService
	retriever  *rag.Retriever

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	persistenceDegraded atomic.Bool
}

func NewOrchestrator(
	store storage.Store,
	classifier nlu.Classifier,
	dialogue *DialogueService,
	retriever *rag.Retriever,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		classifier: classifier,
		dialogue:   dialogue,
		retriever:  retriever,
		locks:      make(map[string]*sync.Mutex),
	}
}

// HandleTurn processes one message for one session. Turns for the same
// session run strictly one at a time; different sessions run in
// parallel. A cancelled context commits nothing — only a turn that
// reaches its commit step has happened.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := o.store.LoadSession(sessionID)
	if err != nil {
		// Load failures fall back to a fresh state; the previous
		// committed state is still on disk for the next attempt.
		log.Printf("Failed to load session %s: %v", sessionID, err)
		o.persistenceDegraded.Store(true)
		state = models.NewConversationState(sessionID)
	}

	state.AppendHistory(models.RoleUser, message)

	intent := o.classifier.Classify(message)
	state.CurrentIntent = intent

	reply, menuAvailable := o.dispatch(ctx, state, intent, message)
	state.AppendHistory(models.RoleAgent, reply)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := o.store.CommitSession(state); err != nil {
		log.Printf("Failed to commit session %s: %v", sessionID, err)
		o.persistenceDegraded.Store(true)
	} else {
		o.persistenceDegraded.Store(false)
	}

	if err := o.store.AppendConversation(&models.ConversationLog{
		Phone:    sessionID,
		Message:  message,
		Response: reply,
	}); err != nil {
		log.Printf("Failed to log conversation for %s: %v", sessionID, err)
	}

	return &TurnResult{
		Reply:         reply,
		Intent:        intent,
		Draft:         state.Draft,
		MenuAvailable: menuAvailable,
	}, nil
}

// dispatch routes the turn to its intent handler. The switch is
// exhaustive over the closed intent set; a panic inside a handler is
// converted into a degraded reply so the turn still commits.
func (o *Orchestrator) dispatch(ctx context.Context, state *models.ConversationState, intent models.Intent, message string) (reply string, menuAvailable bool) {
	menuAvailable = o.retriever.Ingested()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Handler panic for session %s: %v", state.SessionID, r)
			reply = "Sorry, something went wrong on our side. Please try again in a moment."
		}
	}()

	switch intent {
	case models.IntentBooking:
		reply = o.dialogue.HandleBooking(state, message)
	case models.IntentMenuInquiry:
		reply, menuAvailable = o.dialogue.HandleMenuInquiry(ctx, message)
	case models.IntentInfoInquiry:
		reply = o.dialogue.HandleInfoInquiry(message)
	case models.IntentGeneralChat:
		// Mid-collection, a chat-classified turn that carries a booking
		// field (typically the bare name) continues the booking flow.
		if o.dialogue.BookingContinuation(state, message) {
			reply = o.dialogue.HandleBooking(state, message)
		} else {
			reply = o.dialogue.HandleGeneralChat(ctx, state, message)
		}
	default:
		reply = "I'm not sure how to help with that, but I can take a reservation or answer menu questions!"
	}
	return reply, menuAvailable
}

// PersistenceDegraded reports whether the last commit attempt failed.
func (o *Orchestrator) PersistenceDegraded() bool {
	return o.persistenceDegraded.Load()
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[sessionID] = lock
	}
	return lock
}
