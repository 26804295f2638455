package models

// MenuChunk is one overlapping segment of the ingested menu document,
// the unit of embedding and retrieval. Embeddings live in the vector
// index only and are not persisted with the chunk.
type MenuChunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"source_document_id"`
	Text       string `json:"text"`
	Position   int    `json:"position"` // ordinal within the source document
}
