package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bellavista/concierge-backend/internal/models"
)

// Extractor recognizes booking fields in free text. Absence of a field
// is not an error; recognizers simply report ok=false.
type Extractor interface {
	Extract(text string) models.BookingDraft
}

// PatternExtractor implements field extraction with independent pattern
// recognizers per field.
type PatternExtractor struct{}

// NewPatternExtractor creates the default rule-based extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Structured template form: "Name: John" / "Party size: 4" / ...
var (
	templateNameRe  = regexp.MustCompile(`(?i)name:\s*([^\n\r*]+)`)
	templatePartyRe = regexp.MustCompile(`(?i)party\s+size:\s*(\d{1,2})`)
	templateDateRe  = regexp.MustCompile(`(?i)date:\s*([^\n\r*]+)`)
	templateTimeRe  = regexp.MustCompile(`(?i)time:\s*([^\n\r*]+)`)
)

var partySizeRes = []*regexp.Regexp{
	regexp.MustCompile(`\bparty\s+of\s+(\d{1,2})\b`),
	regexp.MustCompile(`\btable\s+for\s+(\d{1,2})\b`),
	regexp.MustCompile(`\b(?:for\s+)?(\d{1,2})\s*(?:people|person|persons|pax|guests?|diners?)\b`),
}

var bareNumberRe = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)

var dateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(today|tomorrow|tonight)\b`),
	regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`),
	regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2})\b`),
}

var timeRes = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(?:am|pm)?\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*(?:am|pm)\b`),
	regexp.MustCompile(`\b(noon|midnight)\b`),
}

var ampmRe = regexp.MustCompile(`\b(?:am|pm)\b`)

// Words that rule an utterance out as a bare name.
var nameBlockWords = tokenSet(
	"book", "booking", "reserve", "reservation", "table",
	"party", "people", "guests", "guest",
	"today", "tomorrow", "tonight",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
)

var ackPhrases = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "okay": {}, "thanks": {},
	"thank you": {}, "hello": {}, "hi": {}, "hey": {}, "sure": {},
	"please": {}, "bye": {}, "goodbye": {},
}

// Extract runs all recognizers over the utterance and returns the fields
// found. The structured template form is checked first; the name
// heuristic only fires when no other recognizer matched.
func (e *PatternExtractor) Extract(text string) models.BookingDraft {
	if draft, ok := e.extractTemplate(text); ok {
		return draft
	}

	var draft models.BookingDraft
	if n, ok := e.PartySize(text); ok {
		draft.PartySize = n
	}
	if d, ok := e.Date(text); ok {
		draft.Date = d
	}
	if t, ok := e.Time(text); ok {
		draft.Time = t
	}

	if draft.Empty() {
		// A bare number with no other content reads as a party size.
		if m := bareNumberRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				draft.PartySize = n
				return draft
			}
		}
		if name, ok := e.Name(text); ok {
			draft.Name = name
		}
	}
	return draft
}

// extractTemplate parses the copy-and-fill reservation form. Any matched
// field wins over free-form patterns for the same message.
func (e *PatternExtractor) extractTemplate(text string) (models.BookingDraft, bool) {
	var draft models.BookingDraft
	if m := templateNameRe.FindStringSubmatch(text); m != nil {
		draft.Name = strings.TrimSpace(m[1])
	}
	if m := templatePartyRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			draft.PartySize = n
		}
	}
	if m := templateDateRe.FindStringSubmatch(text); m != nil {
		draft.Date = strings.TrimSpace(m[1])
	}
	if m := templateTimeRe.FindStringSubmatch(text); m != nil {
		draft.Time = strings.TrimSpace(m[1])
	}
	return draft, !draft.Empty()
}

// PartySize recognizes a guest count near a cue word.
func (e *PatternExtractor) PartySize(text string) (int, bool) {
	lower := strings.ToLower(text)
	for _, re := range partySizeRes {
		if m := re.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// Date recognizes relative days, weekday names and month-day patterns.
// The value is kept as a free-form token; no calendar resolution here.
func (e *PatternExtractor) Date(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, re := range dateRes {
		if m := re.FindStringSubmatch(lower); m != nil {
			if len(m) == 3 {
				return m[1] + " " + m[2], true
			}
			return m[0], true
		}
	}
	return "", false
}

// Time recognizes 12- and 24-hour clock expressions.
func (e *PatternExtractor) Time(text string) (string, bool) {
	lower := strings.ToLower(text)
	if m := timeRes[0].FindStringSubmatch(lower); m != nil {
		value := m[1] + ":" + m[2]
		if suffix := ampmRe.FindString(lower); suffix != "" {
			value += " " + suffix
		}
		return value, true
	}
	for _, re := range timeRes[1:] {
		if m := re.FindString(lower); m != "" {
			return strings.Join(strings.Fields(m), ""), true
		}
	}
	return "", false
}

// Name is the last-resort recognizer: a short utterance with no digits,
// no booking vocabulary and no acknowledgement phrase is taken as the
// reservation name. Callers must only invoke it when no other field
// matched the same utterance.
func (e *PatternExtractor) Name(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 {
		return "", false
	}
	if strings.ContainsAny(trimmed, "0123456789") {
		return "", false
	}
	tokens := tokenize(trimmed)
	if len(tokens) == 0 || len(tokens) > 4 {
		return "", false
	}
	if _, ok := ackPhrases[strings.ToLower(trimmed)]; ok {
		return "", false
	}
	for _, tok := range tokens {
		if _, blocked := nameBlockWords[tok]; blocked {
			return "", false
		}
		if _, ack := ackPhrases[tok]; ack && len(tokens) == 1 {
			return "", false
		}
	}
	return trimmed, true
}
