package models

import (
	"fmt"
	"time"
)

// Document represents a unit of legal knowledge added to the knowledge base
type Document struct {
	ID        string    `json:"doc_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Source    string    `json:"source"` // URL or "Manual"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a bounded slice of a document's content, embedded and indexed independently
type Chunk struct {
	ChunkID     string `json:"chunk_id"`
	DocID       string `json:"doc_id"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	Text        string `json:"text"`
}

// ChunkIDFor derives the stable chunk identifier from a document id and ordinal index
func ChunkIDFor(docID string, index int) string {
	return fmt.Sprintf("%s_%d", docID, index)
}

// RetrievedDocument is a query-time search result, not persisted
type RetrievedDocument struct {
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	Category       string  `json:"category"`
	Title          string  `json:"title"`
	RelevanceScore float64 `json:"relevance_score"` // 1 - cosine distance
}
