package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"direitofacil-backend/models"
	"direitofacil-backend/vectorstore"
)

// Embedder produces query/document embeddings, typically via the cache
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChatProvider generates one completion from a system and a user message
type ChatProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// QueryLogger records answered questions and serves a user's history.
// Insert failures must not fail the query.
type QueryLogger interface {
	Insert(ctx context.Context, entry *models.QueryLog) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error)
}

var (
	ErrNoDocumentsFound = errors.New("no documents matched the question")
	ErrEmbeddingFailed  = errors.New("failed to generate embedding")
	ErrGenerationFailed = errors.New("failed to generate answer")
)

// availableCategories is the closed list served by the categories endpoint
var availableCategories = []string{
	"Direito do Consumidor",
	"Direito Civil - Contratos",
	"Direito Trabalhista",
	"Direito de Família",
	"Registros Civís",
	"Pequenas Causas",
	"Direito Previdenciário",
}

// categoryDisclaimerTags maps knowledge-base categories to disclaimer tags.
// Unmapped categories fall back to the general disclaimer.
var categoryDisclaimerTags = map[string]string{
	"Direito do Consumidor":  "consumidor",
	"Direito Trabalhista":    "trabalhista",
	"Direito de Família":     "familia",
	"Direito Previdenciário": "previdenciario",
}

// RAGService orchestrates the ask flow: embed, retrieve, prompt, generate,
// validate, score. It keeps no state across queries.
type RAGService struct {
	embedder         Embedder
	store            vectorstore.Store
	chat             ChatProvider
	validator        *ResponseValidator
	queryLogs        QueryLogger
	logger           *zap.Logger
	topK             int
	maxContextDocs   int
	maxConfidence    float64
	enableValidation bool
}

// RAGServiceOption is a functional option for RAGService
type RAGServiceOption func(*RAGService)

// RAGWithEmbedder sets the embedding provider (usually the embedding cache)
func RAGWithEmbedder(e Embedder) RAGServiceOption {
	return func(s *RAGService) { s.embedder = e }
}

// RAGWithStore sets the vector store
func RAGWithStore(store vectorstore.Store) RAGServiceOption {
	return func(s *RAGService) { s.store = store }
}

// RAGWithChatProvider sets the language model provider
func RAGWithChatProvider(chat ChatProvider) RAGServiceOption {
	return func(s *RAGService) { s.chat = chat }
}

// RAGWithValidator sets the response validator
func RAGWithValidator(v *ResponseValidator) RAGServiceOption {
	return func(s *RAGService) { s.validator = v }
}

// RAGWithQueryLogger sets the query logging collaborator
func RAGWithQueryLogger(q QueryLogger) RAGServiceOption {
	return func(s *RAGService) { s.queryLogs = q }
}

// RAGWithLogger sets the logger
func RAGWithLogger(logger *zap.Logger) RAGServiceOption {
	return func(s *RAGService) { s.logger = logger }
}

// RAGWithRetrievalSettings sets top-K and the context-document cap
func RAGWithRetrievalSettings(topK, maxContextDocs int) RAGServiceOption {
	return func(s *RAGService) {
		s.topK = topK
		s.maxContextDocs = maxContextDocs
	}
}

// RAGWithScoringSettings sets the confidence ceiling and validation toggle
func RAGWithScoringSettings(maxConfidence float64, enableValidation bool) RAGServiceOption {
	return func(s *RAGService) {
		s.maxConfidence = maxConfidence
		s.enableValidation = enableValidation
	}
}

// NewRAGService creates a new RAG service
func NewRAGService(opts ...RAGServiceOption) *RAGService {
	s := &RAGService{
		logger:           zap.NewNop(),
		topK:             5,
		maxContextDocs:   3,
		maxConfidence:    95.0,
		enableValidation: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AskRequest represents one legal question
type AskRequest struct {
	Question               string
	Category               string
	UserContext            string
	AdditionalInstructions string
	Complexity             models.ComplexityLevel
	UserID                 *uuid.UUID
}

// AnswerQuestion runs the full ask flow and returns the structured answer.
// An empty retrieval result returns ErrNoDocumentsFound; the language model
// is never called with zero sources.
func (s *RAGService) AnswerQuestion(ctx context.Context, req AskRequest) (*models.LegalResponse, error) {
	if s.embedder == nil {
		return nil, errors.New("embedder not set")
	}
	if s.store == nil {
		return nil, errors.New("vector store not set")
	}
	if s.chat == nil {
		return nil, errors.New("chat provider not set")
	}

	embedding, err := s.embedder.GetEmbedding(ctx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	docs, err := s.store.Search(ctx, embedding, s.topK, req.Category)
	if err != nil {
		return nil, fmt.Errorf("searching knowledge base: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocumentsFound
	}

	// Retrieval may over-fetch; only maxContextDocs go to the model
	if len(docs) > s.maxContextDocs {
		docs = docs[:s.maxContextDocs]
	}

	sources := make([]models.SourceInfo, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, models.SourceInfo{
			Title:          doc.Title,
			Source:         doc.Source,
			RelevanceScore: doc.RelevanceScore,
		})
	}

	complexity := req.Complexity
	if !complexity.Valid() {
		complexity = models.ComplexitySimple
	}

	systemPrompt := BuildSystemPrompt(complexity)
	userPrompt := BuildUserPrompt(req.Question, BuildSourcesContext(docs), req.UserContext, req.AdditionalInstructions)

	answer, err := s.chat.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	confidence := s.initialConfidence(docs)

	if s.enableValidation && s.validator != nil {
		adjusted, details := s.validator.ValidateAndScore(answer, sources, confidence)
		s.logger.Debug("response validated",
			zap.Bool("is_valid", details.IsValid),
			zap.String("message", details.ValidationMessage),
			zap.Int("cited_sources", details.CitedSourcesCount),
			zap.Strings("hallucination_indicators", details.HallucinationIndicators),
			zap.Float64("original_confidence", details.OriginalConfidence),
			zap.Float64("adjusted_confidence", details.AdjustedConfidence),
		)
		confidence = adjusted
	}

	category := predominantCategory(docs)

	response := &models.LegalResponse{
		Answer:          answer,
		Sources:         sources,
		ConfidenceScore: confidence,
		Category:        category,
		Disclaimer:      GetDisclaimer(categoryDisclaimerTags[category]),
		Timestamp:       time.Now(),
	}

	s.logQuery(ctx, req, response)

	return response, nil
}

// initialConfidence is the capped average relevance of the forwarded documents
func (s *RAGService) initialConfidence(docs []models.RetrievedDocument) float64 {
	total := 0.0
	for _, doc := range docs {
		total += doc.RelevanceScore
	}
	confidence := total / float64(len(docs)) * 100
	if confidence > s.maxConfidence {
		confidence = s.maxConfidence
	}
	return confidence
}

// predominantCategory picks the plurality category of the forwarded
// documents; ties break to the first category encountered in rank order.
func predominantCategory(docs []models.RetrievedDocument) string {
	counts := make(map[string]int, len(docs))
	best := ""
	bestCount := 0
	for _, doc := range docs {
		counts[doc.Category]++
		if counts[doc.Category] > bestCount {
			best = doc.Category
			bestCount = counts[doc.Category]
		}
	}
	return best
}

// logQuery hands the answered question to the query logging collaborator.
// Logging failures must not affect the already-computed response.
func (s *RAGService) logQuery(ctx context.Context, req AskRequest, resp *models.LegalResponse) {
	if s.queryLogs == nil {
		return
	}
	entry := &models.QueryLog{
		UserID:          req.UserID,
		Question:        req.Question,
		Category:        resp.Category,
		Answer:          resp.Answer,
		ConfidenceScore: resp.ConfidenceScore,
	}
	if err := s.queryLogs.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to log query", zap.Error(err))
	}
}

// QueryHistory returns the user's most recent answered questions, newest
// first. Out-of-range limits fall back to 20.
func (s *RAGService) QueryHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error) {
	if s.queryLogs == nil {
		return nil, errors.New("query logger not set")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.queryLogs.ListByUser(ctx, userID, limit)
}

// AvailableCategories returns the categories served by the knowledge base
func (s *RAGService) AvailableCategories() []string {
	out := make([]string, len(availableCategories))
	copy(out, availableCategories)
	return out
}

// KnowledgeBaseSize returns the number of indexed chunks
func (s *RAGService) KnowledgeBaseSize() int {
	if s.store == nil {
		return 0
	}
	return s.store.Count()
}

// HealthCheck verifies the vector store is reachable
func (s *RAGService) HealthCheck() string {
	if s.store == nil || s.store.Health() != nil {
		return "error"
	}
	return "ok"
}
