package nlu

import (
	"strings"
	"unicode"

	"github.com/bellavista/concierge-backend/internal/models"
)

// Classifier maps an utterance to one of the closed intent set. The
// keyword implementation can be swapped for a statistical one without
// touching any caller.
type Classifier interface {
	Classify(text string) models.Intent
}

// KeywordClassifier classifies by priority-ordered keyword sets matched
// on token boundaries.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default rule-based classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var bookingKeywords = tokenSet(
	"book", "booking", "reserve", "reservation", "table",
)

var menuKeywords = tokenSet(
	"menu", "food", "dish", "dishes", "dessert", "desserts",
	"price", "prices", "cost", "vegan", "vegetarian",
	"allergen", "allergens", "gluten", "spicy",
	"pasta", "pizza", "wine", "eat", "drink", "specials",
)

var infoKeywords = tokenSet(
	"hours", "open", "close", "closed", "closing",
	"location", "address", "where", "phone", "parking",
)

// Classify is deterministic and case-insensitive. Booking keywords win
// over menu keywords, which win over info keywords; anything else is
// general chat.
func (c *KeywordClassifier) Classify(text string) models.Intent {
	tokens := tokenize(text)
	switch {
	case containsAny(tokens, bookingKeywords):
		return models.IntentBooking
	case containsAny(tokens, menuKeywords):
		return models.IntentMenuInquiry
	case containsAny(tokens, infoKeywords):
		return models.IntentInfoInquiry
	default:
		return models.IntentGeneralChat
	}
}

// tokenize lowercases and splits on anything that is not a letter,
// digit or apostrophe, so keyword matches stay on word boundaries.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func containsAny(tokens []string, set map[string]struct{}) bool {
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

func tokenSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
