package rag

import (
	"math"
	"sort"

	"github.com/bellavista/concierge-backend/internal/models"
)

// ScoredChunk is a retrieved chunk with its cosine similarity score.
type ScoredChunk struct {
	Chunk models.MenuChunk `json:"chunk"`
	Score float64          `json:"score"`
}

// index is an immutable snapshot of one ingestion: the chunks, their
// vectors and the embedder whose vocabulary produced them. Snapshots
// are swapped wholesale, never mutated.
type index struct {
	chunks   []models.MenuChunk
	vectors  [][]float64
	embedder Embedder
}

// search returns the topK chunks by descending cosine similarity,
// ties broken by ascending chunk position.
func (ix *index) search(vector []float64, topK int) []ScoredChunk {
	if topK <= 0 {
		topK = 3
	}
	scored := make([]ScoredChunk, len(ix.chunks))
	for i := range ix.chunks {
		scored[i] = ScoredChunk{Chunk: ix.chunks[i], Score: cosine(ix.vectors[i], vector)}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Position < scored[j].Chunk.Position
	})
	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
