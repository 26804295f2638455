package ai

import "context"

// Message is one chat turn sent to the generation backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the narrow capability interface to the text-generation
// backend. The orchestration core consumes it and never implements it.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
