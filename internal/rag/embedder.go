package rag

import "context"

// Embedder converts text into a fixed-dimension numeric vector.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	// Prepare is called once per ingestion with the full chunk corpus,
	// before any Embed call for that corpus.
	Prepare(corpus []string) error
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
	// Ping reports whether the backend can currently serve embeddings.
	Ping(ctx context.Context) error
}

// EmbedderFactory builds a fresh embedder for one ingestion, so an
// index snapshot and its vocabulary swap together.
type EmbedderFactory func() Embedder
