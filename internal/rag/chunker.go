package rag

import (
	"strconv"
	"strings"

	"github.com/bellavista/concierge-backend/internal/models"
)

// Chunker splits extracted document text into retrieval units.
type Chunker interface {
	Chunk(documentID, text string) []models.MenuChunk
}

// WordChunker produces fixed-size word windows with a configurable
// overlap, so adjacent chunks repeat the tail of the previous one.
type WordChunker struct {
	size    int // words per chunk
	overlap int // words shared with the previous chunk
}

func NewWordChunker(size, overlap int) *WordChunker {
	if size <= 0 {
		size = 60
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	return &WordChunker{size: size, overlap: overlap}
}

// Chunk returns a contiguous, position-ordered partition of the text.
func (c *WordChunker) Chunk(documentID, text string) []models.MenuChunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []models.MenuChunk
	position := 0
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, models.MenuChunk{
			ChunkID:    documentID + ":" + strconv.Itoa(position),
			DocumentID: documentID,
			Text:       strings.Join(words[start:end], " "),
			Position:   position,
		})
		if end == len(words) {
			break
		}
		position++
	}
	return chunks
}
