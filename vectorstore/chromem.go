// Package vectorstore persists chunk embeddings and serves similarity search.
package vectorstore

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"direitofacil-backend/models"
)

// Store is the vector store contract consumed by the RAG services
type Store interface {
	Add(ctx context.Context, id string, embedding []float32, text string, metadata map[string]string) error
	Search(ctx context.Context, embedding []float32, topK int, category string) ([]models.RetrievedDocument, error)
	Count() int
	Health() error
}

// Config holds chromem settings
type Config struct {
	Path       string // directory for persistent storage
	Collection string
}

// ChromemStore implements Store on an embedded chromem-go database.
// The collection uses cosine space; relevance reported to callers is
// 1 - cosine distance.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	logger     *zap.Logger
}

// NewChromemStore opens (or creates) the persistent collection at cfg.Path
func NewChromemStore(cfg Config, logger *zap.Logger) (*ChromemStore, error) {
	if cfg.Path == "" {
		return nil, errors.New("vector store path is required")
	}
	if cfg.Collection == "" {
		return nil, errors.New("vector store collection name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("opening chromem DB at %s: %w", cfg.Path, err)
	}

	// Embeddings are computed upstream (with caching); the collection must
	// never fall back to its own embedding function.
	noEmbed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embeddings must be supplied by the caller")
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, map[string]string{"hnsw:space": "cosine"}, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("opening collection %s: %w", cfg.Collection, err)
	}

	return &ChromemStore{db: db, collection: collection, logger: logger}, nil
}

// Add persists one chunk embedding with its text and metadata
func (s *ChromemStore) Add(ctx context.Context, id string, embedding []float32, text string, metadata map[string]string) error {
	err := s.collection.AddDocument(ctx, chromem.Document{
		ID:        id,
		Metadata:  metadata,
		Embedding: embedding,
		Content:   text,
	})
	if err != nil {
		return fmt.Errorf("adding document %s: %w", id, err)
	}
	return nil
}

// Search returns up to topK documents ranked by cosine distance, optionally
// filtered by category. An empty store or a filter matching nothing yields an
// empty result, not an error.
func (s *ChromemStore) Search(ctx context.Context, embedding []float32, topK int, category string) ([]models.RetrievedDocument, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	// chromem requires nResults <= document count
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	var where map[string]string
	if category != "" {
		where = map[string]string{"category": category}
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	docs := make([]models.RetrievedDocument, 0, len(results))
	for i, r := range results {
		distance := 1 - float64(r.Similarity)
		docs = append(docs, models.RetrievedDocument{
			Content:        r.Content,
			Source:         metadataOr(r.Metadata, "source", "Fonte não especificada"),
			Category:       metadataOr(r.Metadata, "category", "Geral"),
			Title:          metadataOr(r.Metadata, "title", fmt.Sprintf("Documento %d", i+1)),
			RelevanceScore: 1 - distance,
		})
	}

	s.logger.Debug("vector search completed",
		zap.Int("top_k", topK),
		zap.String("category", category),
		zap.Int("results", len(docs)),
	)

	return docs, nil
}

// Count returns the number of stored chunk embeddings
func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// Health verifies the collection is reachable
func (s *ChromemStore) Health() error {
	if s.collection == nil {
		return errors.New("collection not initialized")
	}
	_ = s.collection.Count()
	return nil
}

func metadataOr(m map[string]string, key, fallback string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return fallback
}
