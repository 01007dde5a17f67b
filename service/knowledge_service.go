package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"direitofacil-backend/models"
	"direitofacil-backend/storage"
	"direitofacil-backend/vectorstore"
)

// ContentExtractor fetches document text from an external URL
type ContentExtractor interface {
	ExtractContent(ctx context.Context, url string) (string, error)
}

var (
	ErrEmptyDocument  = errors.New("document content is empty")
	ErrMissingTitle   = errors.New("document title is required")
	ErrMissingContent = errors.New("either content or source_url must be provided")
)

// KnowledgeService ingests documents into the knowledge base: scrape when
// needed, chunk, embed, index, archive.
type KnowledgeService struct {
	embedder     Embedder
	store        vectorstore.Store
	extractor    ContentExtractor
	archive      storage.DocumentArchive
	logger       *zap.Logger
	chunkSize    int
	chunkOverlap int
}

// KnowledgeServiceOption is a functional option for KnowledgeService
type KnowledgeServiceOption func(*KnowledgeService)

// KnowledgeWithEmbedder sets the embedding provider
func KnowledgeWithEmbedder(e Embedder) KnowledgeServiceOption {
	return func(s *KnowledgeService) { s.embedder = e }
}

// KnowledgeWithStore sets the vector store
func KnowledgeWithStore(store vectorstore.Store) KnowledgeServiceOption {
	return func(s *KnowledgeService) { s.store = store }
}

// KnowledgeWithExtractor sets the URL content extractor
func KnowledgeWithExtractor(e ContentExtractor) KnowledgeServiceOption {
	return func(s *KnowledgeService) { s.extractor = e }
}

// KnowledgeWithArchive sets the raw-document archive
func KnowledgeWithArchive(a storage.DocumentArchive) KnowledgeServiceOption {
	return func(s *KnowledgeService) { s.archive = a }
}

// KnowledgeWithLogger sets the logger
func KnowledgeWithLogger(logger *zap.Logger) KnowledgeServiceOption {
	return func(s *KnowledgeService) { s.logger = logger }
}

// KnowledgeWithChunking sets chunk size and overlap
func KnowledgeWithChunking(size, overlap int) KnowledgeServiceOption {
	return func(s *KnowledgeService) {
		s.chunkSize = size
		s.chunkOverlap = overlap
	}
}

// NewKnowledgeService creates a new knowledge service
func NewKnowledgeService(opts ...KnowledgeServiceOption) *KnowledgeService {
	s := &KnowledgeService{
		logger:       zap.NewNop(),
		chunkSize:    6000,
		chunkOverlap: 200,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddDocumentRequest represents a document to ingest. When Content is empty,
// it is extracted from SourceURL.
type AddDocumentRequest struct {
	Title     string
	Content   string
	Category  string
	SourceURL string
}

// AddDocumentResult reports the outcome of one ingestion
type AddDocumentResult struct {
	DocID      string `json:"doc_id"`
	ChunkCount int    `json:"chunks_created"`
}

// AddDocument ingests one document. All embeddings are staged before the
// first store write, so a provider failure never leaves a partial document.
func (s *KnowledgeService) AddDocument(ctx context.Context, req AddDocumentRequest) (*AddDocumentResult, error) {
	if s.embedder == nil {
		return nil, errors.New("embedder not set")
	}
	if s.store == nil {
		return nil, errors.New("vector store not set")
	}
	if req.Title == "" {
		return nil, ErrMissingTitle
	}

	content := req.Content
	if content == "" {
		if req.SourceURL == "" {
			return nil, ErrMissingContent
		}
		if s.extractor == nil {
			return nil, errors.New("content extractor not set")
		}
		extracted, err := s.extractor.ExtractContent(ctx, req.SourceURL)
		if err != nil {
			return nil, err
		}
		content = extracted
	}

	source := req.SourceURL
	if source == "" {
		source = "Manual"
	}

	doc := models.Document{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Category:  req.Category,
		Source:    source,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	texts := SplitText(content, s.chunkSize, s.chunkOverlap)
	if len(texts) == 0 {
		return nil, ErrEmptyDocument
	}

	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{
			ChunkID:     models.ChunkIDFor(doc.ID, i),
			DocID:       doc.ID,
			ChunkIndex:  i,
			TotalChunks: len(texts),
			Text:        text,
		}
	}

	// Stage every embedding before touching the store
	embeddings := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.GetEmbedding(ctx, chunk.Text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(chunks), err)
		}
		embeddings[i] = vec
	}

	createdAt := doc.CreatedAt.Format(time.RFC3339)
	for i, chunk := range chunks {
		title := doc.Title
		if chunk.TotalChunks > 1 {
			title = fmt.Sprintf("%s (parte %d/%d)", doc.Title, chunk.ChunkIndex+1, chunk.TotalChunks)
		}
		metadata := map[string]string{
			"title":        title,
			"category":     doc.Category,
			"source":       doc.Source,
			"doc_id":       chunk.DocID,
			"chunk_id":     chunk.ChunkID,
			"chunk_index":  strconv.Itoa(chunk.ChunkIndex),
			"total_chunks": strconv.Itoa(chunk.TotalChunks),
			"created_at":   createdAt,
		}
		if err := s.store.Add(ctx, chunk.ChunkID, embeddings[i], chunk.Text, metadata); err != nil {
			// Re-ingesting the document converges: the store upserts by id
			return nil, fmt.Errorf("storing chunk %s: %w", chunk.ChunkID, err)
		}
	}

	s.archiveContent(ctx, doc.ID, content)

	s.logger.Info("document ingested",
		zap.String("doc_id", doc.ID),
		zap.String("title", doc.Title),
		zap.String("category", doc.Category),
		zap.Int("chunks", len(texts)),
	)

	return &AddDocumentResult{DocID: doc.ID, ChunkCount: len(texts)}, nil
}

// archiveContent stores the raw document for audit. Best effort: the chunks
// are already indexed, so archive failures only get logged.
func (s *KnowledgeService) archiveContent(ctx context.Context, docID, content string) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Save(ctx, docID, []byte(content)); err != nil {
		s.logger.Warn("failed to archive document", zap.String("doc_id", docID), zap.Error(err))
	}
}

// RawDocument returns the archived raw content of an ingested document
func (s *KnowledgeService) RawDocument(ctx context.Context, docID string) ([]byte, error) {
	if s.archive == nil {
		return nil, errors.New("document archive not configured")
	}
	return s.archive.Load(ctx, docID)
}
