package nlu

import (
	"testing"

	"github.com/bellavista/concierge-backend/internal/models"
)

func TestExtractPartySize(t *testing.T) {
	e := NewPatternExtractor()

	cases := []struct {
		text string
		want int
	}{
		{"a table for 4 people", 4},
		{"party of 6", 6},
		{"table for 2", 2},
		{"we are 5 guests", 5},
		{"just 1 person tonight", 1},
		{"for 8 pax please", 8},
	}
	for _, tc := range cases {
		got, ok := e.PartySize(tc.text)
		if !ok || got != tc.want {
			t.Errorf("PartySize(%q) = %d, %v; want %d, true", tc.text, got, ok, tc.want)
		}
	}

	if _, ok := e.PartySize("see you at 7pm"); ok {
		t.Error("PartySize matched a clock time")
	}
}

func TestExtractBareNumber(t *testing.T) {
	e := NewPatternExtractor()

	draft := e.Extract("4")
	if draft.PartySize != 4 {
		t.Fatalf("bare number: got party size %d, want 4", draft.PartySize)
	}
	if draft.Name != "" || draft.Date != "" || draft.Time != "" {
		t.Fatalf("bare number set extra fields: %+v", draft)
	}
}

func TestExtractDate(t *testing.T) {
	e := NewPatternExtractor()

	cases := []struct {
		text string
		want string
	}{
		{"book for tomorrow please", "tomorrow"},
		{"we're coming tonight", "tonight"},
		{"next Friday works", "friday"},
		{"december 24th at some point", "december 24"},
		{"come on 24 december", "24 december"},
		{"on 15/09 if possible", "15/09"},
	}
	for _, tc := range cases {
		got, ok := e.Date(tc.text)
		if !ok || got != tc.want {
			t.Errorf("Date(%q) = %q, %v; want %q, true", tc.text, got, ok, tc.want)
		}
	}
}

func TestExtractTime(t *testing.T) {
	e := NewPatternExtractor()

	cases := []struct {
		text string
		want string
	}{
		{"at 7:30 pm tomorrow", "7:30 pm"},
		{"19:00 works for us", "19:00"},
		{"around 8pm", "8pm"},
		{"say 8 pm", "8pm"},
		{"noon would be lovely", "noon"},
	}
	for _, tc := range cases {
		got, ok := e.Time(tc.text)
		if !ok || got != tc.want {
			t.Errorf("Time(%q) = %q, %v; want %q, true", tc.text, got, ok, tc.want)
		}
	}
}

func TestExtractCombined(t *testing.T) {
	e := NewPatternExtractor()

	draft := e.Extract("I'd like to book a table for 4 people tomorrow at 7:30 pm")
	want := models.BookingDraft{PartySize: 4, Date: "tomorrow", Time: "7:30 pm"}
	if draft != want {
		t.Fatalf("Extract = %+v, want %+v", draft, want)
	}
}

func TestExtractName(t *testing.T) {
	e := NewPatternExtractor()

	draft := e.Extract("John Smith")
	if draft.Name != "John Smith" {
		t.Fatalf("bare name: got %+v, want Name=John Smith", draft)
	}

	// The name heuristic must not fire when another field matched.
	draft = e.Extract("John Smith, table for 4")
	if draft.Name != "" {
		t.Fatalf("name fired alongside party size: %+v", draft)
	}
	if draft.PartySize != 4 {
		t.Fatalf("party size lost: %+v", draft)
	}

	for _, text := range []string{"ok", "thanks", "hello", "yes", "hi", "tomorrow", "book", "x"} {
		if d := e.Extract(text); d.Name != "" {
			t.Errorf("Extract(%q) produced name %q", text, d.Name)
		}
	}
}

func TestExtractTemplateForm(t *testing.T) {
	e := NewPatternExtractor()

	draft := e.Extract("Name: Anna Keller\nParty size: 6\nDate: Saturday\nTime: 8pm")
	want := models.BookingDraft{Name: "Anna Keller", PartySize: 6, Date: "Saturday", Time: "8pm"}
	if draft != want {
		t.Fatalf("template form: got %+v, want %+v", draft, want)
	}

	// A partly filled form still yields what it has.
	draft = e.Extract("Name: Marco\nDate: tomorrow")
	if draft.Name != "Marco" || draft.Date != "tomorrow" {
		t.Fatalf("partial template form: got %+v", draft)
	}
	if draft.PartySize != 0 || draft.Time != "" {
		t.Fatalf("partial template form invented fields: %+v", draft)
	}
}

func TestExtractNothing(t *testing.T) {
	e := NewPatternExtractor()

	draft := e.Extract("what a lovely evening it has been out here in town")
	if !draft.Empty() {
		t.Fatalf("noise produced fields: %+v", draft)
	}
}
