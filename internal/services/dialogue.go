package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bellavista/concierge-backend/internal/ai"
	"github.com/bellavista/concierge-backend/internal/config"
	"github.com/bellavista/concierge-backend/internal/models"
	"github.com/bellavista/concierge-backend/internal/nlu"
	"github.com/bellavista/concierge-backend/internal/rag"
	"github.com/bellavista/concierge-backend/internal/storage"
)

// DialogueService is the state machine behind every turn: it applies
// extraction results to the booking draft, decides the next question,
// and answers menu/info/chat intents without disturbing a booking in
// progress.
type DialogueService struct {
	store      storage.Store
	extractor  nlu.Extractor
	retriever  *rag.Retriever
	provider   ai.Provider
	restaurant config.Restaurant
	topK       int
	genTimeout time.Duration
}

func NewDialogueService(
	store storage.Store,
	extractor nlu.Extractor,
	retriever *rag.Retriever,
	provider ai.Provider,
	restaurant config.Restaurant,
	topK int,
	genTimeout time.Duration,
) *DialogueService {
	if topK <= 0 {
		topK = 3
	}
	if genTimeout <= 0 {
		genTimeout = 10 * time.Second
	}
	return &DialogueService{
		store:      store,
		extractor:  extractor,
		retriever:  retriever,
		provider:   provider,
		restaurant: restaurant,
		topK:       topK,
		genTimeout: genTimeout,
	}
}

// HandleBooking advances the slot-filling flow by one turn. It merges
// whatever the extractor found, asks for the first missing field in
// fixed priority order, and creates the booking once everything is
// present and within capacity.
func (d *DialogueService) HandleBooking(state *models.ConversationState, message string) string {
	if state.Phase == models.PhaseCollecting && isCancellation(message) {
		state.Draft = models.BookingDraft{}
		state.Phase = models.PhaseIdle
		return "No problem, I've cancelled that reservation request. Let me know if you'd like to book another time!"
	}

	extracted := d.extractor.Extract(message)
	state.Draft.Merge(extracted)
	state.Phase = models.PhaseCollecting

	missing := state.Draft.Missing()
	if len(missing) > 0 {
		return askFor(missing[0])
	}

	if state.Draft.PartySize > d.restaurant.MaxGuests {
		requested := state.Draft.PartySize
		// Keep the rest of the draft so the guest only re-supplies the size.
		state.Draft.PartySize = 0
		return fmt.Sprintf(
			"I'm sorry, we can seat groups of up to %d guests and %d is beyond our capacity. How many people should I book for instead?",
			d.restaurant.MaxGuests, requested)
	}

	booking, err := d.store.CreateBooking(&models.BookingRequest{
		Phone:     state.SessionID,
		Name:      state.Draft.Name,
		PartySize: state.Draft.PartySize,
		Date:      state.Draft.Date,
		Time:      state.Draft.Time,
	})
	if err != nil {
		log.Printf("Failed to create booking for %s: %v", state.SessionID, err)
		return "Sorry, I had trouble creating the booking. Please try again."
	}

	state.Draft = models.BookingDraft{}
	state.Phase = models.PhaseIdle

	return fmt.Sprintf(
		"Perfect! Booking confirmed! Reference: %s. Table for %d people on %s at %s under %s.",
		booking.Reference, booking.PartySize, booking.Date, booking.Time, booking.Name)
}

// BookingContinuation reports whether a chat-classified utterance should
// be fed back into the booking flow: collection is in progress and the
// extractor can read a field out of it.
func (d *DialogueService) BookingContinuation(state *models.ConversationState, message string) bool {
	if state.Phase != models.PhaseCollecting {
		return false
	}
	if isCancellation(message) {
		return true
	}
	draft := d.extractor.Extract(message)
	return !draft.Empty()
}

// HandleMenuInquiry answers from retrieved menu passages. Retrieval
// failures degrade to an apology; they never surface to the caller.
func (d *DialogueService) HandleMenuInquiry(ctx context.Context, query string) (reply string, available bool) {
	results, err := d.retriever.Query(ctx, query, d.topK)
	if err != nil || len(results) == 0 {
		if err != nil {
			log.Printf("Menu retrieval unavailable: %v", err)
		}
		return "I'm sorry, I can't check the menu right now. Please ask me again in a little while, or call us at " +
			d.restaurant.Phone + ".", false
	}

	var b strings.Builder
	b.WriteString("Here's what I found on our menu:\n")
	for _, r := range results {
		b.WriteString("\n- ")
		b.WriteString(strings.TrimSpace(r.Chunk.Text))
	}
	b.WriteString("\n\nWould you like to make a reservation?")
	return b.String(), true
}

// HandleInfoInquiry formats a reply straight from the restaurant
// config, picking the facts the question asked about.
func (d *DialogueService) HandleInfoInquiry(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hour") || strings.Contains(lower, "open") || strings.Contains(lower, "clos"):
		return fmt.Sprintf("We're open %s. Would you like to book a table?", d.restaurant.Hours)
	case strings.Contains(lower, "where") || strings.Contains(lower, "location") || strings.Contains(lower, "address") || strings.Contains(lower, "park"):
		return fmt.Sprintf("You can find us at %s. Need a reservation?", d.restaurant.Location)
	case strings.Contains(lower, "phone") || strings.Contains(lower, "call"):
		return fmt.Sprintf("You can reach us at %s. I can also take a reservation right here!", d.restaurant.Phone)
	default:
		return fmt.Sprintf("%s — %s. Located at %s, phone %s. Would you like to book a table?",
			d.restaurant.Name, d.restaurant.Hours, d.restaurant.Location, d.restaurant.Phone)
	}
}

// HandleGeneralChat asks the generation backend for a conversational
// reply with a bounded timeout, substituting a canned reply when the
// backend is slow or down.
func (d *DialogueService) HandleGeneralChat(ctx context.Context, state *models.ConversationState, message string) string {
	fallback := fmt.Sprintf(
		"Hi! I'm here to help with any questions about %s. Would you like to make a reservation or hear about our menu?",
		d.restaurant.Name)

	if d.provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, d.genTimeout)
	defer cancel()

	reply, err := d.provider.Chat(ctx, d.chatMessages(state, message))
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			log.Printf("Generation backend unavailable: %v", err)
		}
		return fallback
	}
	return strings.TrimSpace(reply)
}

// chatMessages builds the persona prompt plus recent history.
func (d *DialogueService) chatMessages(state *models.ConversationState, message string) []ai.Message {
	persona := fmt.Sprintf(
		"You are Maria, a friendly staff member at %s.\n"+
			"Hours: %s\nLocation: %s\nPhone: %s\n\n"+
			"Respond warmly and naturally in one or two sentences. "+
			"Guide the guest towards making a reservation or asking about the menu when appropriate.",
		d.restaurant.Name, d.restaurant.Hours, d.restaurant.Location, d.restaurant.Phone)

	msgs := []ai.Message{{Role: "system", Content: persona}}
	// Replay a short tail of history; the new message is already the
	// last history entry when called from the orchestrator.
	const window = 6
	start := len(state.History) - window
	if start < 0 {
		start = 0
	}
	for _, h := range state.History[start:] {
		role := "user"
		if h.Role == models.RoleAgent {
			role = "assistant"
		}
		msgs = append(msgs, ai.Message{Role: role, Content: h.Text})
	}
	if len(state.History) == 0 {
		msgs = append(msgs, ai.Message{Role: "user", Content: message})
	}
	return msgs
}

func askFor(field string) string {
	switch field {
	case models.FieldPartySize:
		return "How many people will be dining with us?"
	case models.FieldDate:
		return "What date would you prefer?"
	case models.FieldTime:
		return "What time works best for you?"
	case models.FieldName:
		return "Great! Just need a name for the reservation."
	default:
		return "Let me help you with that booking."
	}
}

func isCancellation(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	return lower == "cancel" || lower == "never mind" || lower == "nevermind" ||
		strings.HasPrefix(lower, "cancel ")
}
