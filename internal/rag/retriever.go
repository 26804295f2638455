package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrUnavailable signals that retrieval cannot answer: either nothing
// has been ingested yet or the embedding backend is unreachable.
// Callers use it to distinguish "no content" from "nothing relevant".
var ErrUnavailable = errors.New("menu retrieval unavailable")

// Retriever owns the ingestion pipeline and similarity search over the
// restaurant's menu document.
type Retriever struct {
	chunker     Chunker
	newEmbedder EmbedderFactory
	topK        int

	mu      sync.RWMutex
	current *index // nil until the first successful ingestion
}

func NewRetriever(chunker Chunker, factory EmbedderFactory, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{
		chunker:     chunker,
		newEmbedder: factory,
		topK:        topK,
	}
}

// Ingest chunks and embeds the extracted document text, then replaces
// the index in one swap: queries see either the previous index or the
// new one, never a partial write. Returns the number of chunks stored.
func (r *Retriever) Ingest(ctx context.Context, text string) (int, error) {
	documentID := uuid.NewString()
	chunks := r.chunker.Chunk(documentID, text)
	if len(chunks) == 0 {
		return 0, errors.New("document contains no text")
	}

	corpus := make([]string, len(chunks))
	for i, c := range chunks {
		corpus[i] = c.Text
	}

	embedder := r.newEmbedder()
	if err := embedder.Prepare(corpus); err != nil {
		return 0, fmt.Errorf("prepare embedder: %w", err)
	}

	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		vec, err := embedder.Embed(ctx, c.Text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = vec
	}

	next := &index{chunks: chunks, vectors: vectors, embedder: embedder}
	r.mu.Lock()
	r.current = next
	r.mu.Unlock()

	return len(chunks), nil
}

// Query embeds the query with the current index's embedder and returns
// up to topK chunks by descending similarity.
func (r *Retriever) Query(ctx context.Context, query string, topK int) ([]ScoredChunk, error) {
	r.mu.RLock()
	ix := r.current
	r.mu.RUnlock()
	if ix == nil {
		return nil, ErrUnavailable
	}
	if topK <= 0 {
		topK = r.topK
	}
	vector, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ix.search(vector, topK), nil
}

// Ingested reports whether a menu document has been indexed.
func (r *Retriever) Ingested() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current != nil
}

// ChunkCount returns the size of the current index.
func (r *Retriever) ChunkCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return 0
	}
	return len(r.current.chunks)
}

// BackendReachable probes the embedding backend for the health surface.
func (r *Retriever) BackendReachable(ctx context.Context) bool {
	return r.newEmbedder().Ping(ctx) == nil
}
