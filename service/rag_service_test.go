package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"direitofacil-backend/models"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) GetEmbedding(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

type fakeStore struct {
	docs      []models.RetrievedDocument
	searchErr error
	added     []string
	category  string
	topK      int
}

func (f *fakeStore) Add(_ context.Context, id string, _ []float32, _ string, _ map[string]string) error {
	f.added = append(f.added, id)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ []float32, topK int, category string) ([]models.RetrievedDocument, error) {
	f.topK = topK
	f.category = category
	return f.docs, f.searchErr
}

func (f *fakeStore) Count() int { return len(f.docs) }

func (f *fakeStore) Health() error { return nil }

type fakeChat struct {
	answer       string
	err          error
	called       bool
	systemPrompt string
	userPrompt   string
}

func (f *fakeChat) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.called = true
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	return f.answer, f.err
}

type fakeQueryLogger struct {
	entries   []*models.QueryLog
	err       error
	listLimit int
}

func (f *fakeQueryLogger) Insert(_ context.Context, entry *models.QueryLog) error {
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeQueryLogger) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.listLimit = limit
	var out []*models.QueryLog
	for _, entry := range f.entries {
		if entry.UserID != nil && *entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func retrievedDocs() []models.RetrievedDocument {
	return []models.RetrievedDocument{
		{Title: "CDC Art. 49", Content: "direito de arrependimento", Source: "CDC", Category: "Direito do Consumidor", RelevanceScore: 0.95},
		{Title: "CDC Art. 35", Content: "oferta não cumprida", Source: "CDC", Category: "Direito do Consumidor", RelevanceScore: 0.87},
		{Title: "CLT Art. 477", Content: "verbas rescisórias", Source: "CLT", Category: "Direito Trabalhista", RelevanceScore: 0.82},
	}
}

func newTestRAGService(store *fakeStore, chat *fakeChat, opts ...RAGServiceOption) *RAGService {
	base := []RAGServiceOption{
		RAGWithEmbedder(&fakeEmbedder{vec: []float32{0.1, 0.2}}),
		RAGWithStore(store),
		RAGWithChatProvider(chat),
	}
	return NewRAGService(append(base, opts...)...)
}

func TestAnswerQuestionHappyPath(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	chat := &fakeChat{answer: "Segundo a fonte CDC, você tem 7 dias."}
	logs := &fakeQueryLogger{}

	svc := newTestRAGService(store, chat,
		RAGWithQueryLogger(logs),
		RAGWithScoringSettings(95.0, false),
	)

	resp, err := svc.AnswerQuestion(context.Background(), AskRequest{
		Question: "Posso devolver uma compra online?",
		Category: "Direito do Consumidor",
	})
	require.NoError(t, err)

	assert.Equal(t, "Segundo a fonte CDC, você tem 7 dias.", resp.Answer)
	assert.Len(t, resp.Sources, 3)
	assert.Equal(t, "Direito do Consumidor", store.category)
	assert.Equal(t, 5, store.topK)

	// avg(0.95, 0.87, 0.82) * 100
	assert.InDelta(t, 88.0, resp.ConfidenceScore, 0.001)

	// Plurality vote over retrieved categories
	assert.Equal(t, "Direito do Consumidor", resp.Category)
	assert.Equal(t, GetDisclaimer("consumidor"), resp.Disclaimer)
	assert.False(t, resp.Timestamp.IsZero())

	require.Len(t, logs.entries, 1)
	assert.Equal(t, "Posso devolver uma compra online?", logs.entries[0].Question)
}

func TestAnswerQuestionEmptyRetrievalSkipsModel(t *testing.T) {
	store := &fakeStore{docs: nil}
	chat := &fakeChat{answer: "nunca deveria ser chamado"}

	svc := newTestRAGService(store, chat)

	_, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "tema inexistente"})
	require.ErrorIs(t, err, ErrNoDocumentsFound)
	assert.False(t, chat.called)
}

func TestAnswerQuestionEmbeddingError(t *testing.T) {
	svc := NewRAGService(
		RAGWithEmbedder(&fakeEmbedder{err: errors.New("api down")}),
		RAGWithStore(&fakeStore{}),
		RAGWithChatProvider(&fakeChat{}),
	)

	_, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "pergunta"})
	require.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestAnswerQuestionGenerationError(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	chat := &fakeChat{err: errors.New("model overloaded")}

	svc := newTestRAGService(store, chat)

	_, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "pergunta"})
	require.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAnswerQuestionCapsContextDocuments(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	chat := &fakeChat{answer: "resposta"}

	svc := newTestRAGService(store, chat,
		RAGWithRetrievalSettings(5, 2),
		RAGWithScoringSettings(95.0, false),
	)

	resp, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "pergunta"})
	require.NoError(t, err)

	assert.Len(t, resp.Sources, 2)
	assert.Contains(t, chat.userPrompt, "CDC Art. 49")
	assert.NotContains(t, chat.userPrompt, "CLT Art. 477")
}

func TestAnswerQuestionValidationAdjustsConfidence(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	// Ungrounded answer with no cited-sources section
	chat := &fakeChat{answer: "O prazo é de 15 dias úteis em qualquer situação."}

	svc := newTestRAGService(store, chat,
		RAGWithValidator(NewResponseValidator(true, 95.0, nil)),
		RAGWithScoringSettings(95.0, true),
	)

	resp, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "pergunta"})
	require.NoError(t, err)

	// Strict mode halves, missing citations take another 20%
	assert.InDelta(t, 88.0*0.5*0.8, resp.ConfidenceScore, 0.001)
}

func TestAnswerQuestionQueryLogFailureDoesNotFail(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	chat := &fakeChat{answer: "Segundo a fonte, sim."}
	logs := &fakeQueryLogger{err: errors.New("db down")}

	svc := newTestRAGService(store, chat, RAGWithQueryLogger(logs))

	_, err := svc.AnswerQuestion(context.Background(), AskRequest{Question: "pergunta"})
	require.NoError(t, err)
}

func TestQueryHistoryReturnsOwnEntries(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	logs := &fakeQueryLogger{entries: []*models.QueryLog{
		{UserID: &userID, Question: "prazo de devolução?"},
		{UserID: &otherID, Question: "aviso prévio?"},
		{UserID: nil, Question: "pergunta anônima"},
	}}

	svc := NewRAGService(RAGWithQueryLogger(logs))

	history, err := svc.QueryHistory(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "prazo de devolução?", history[0].Question)
	assert.Equal(t, 10, logs.listLimit)
}

func TestQueryHistoryClampsLimit(t *testing.T) {
	logs := &fakeQueryLogger{}
	svc := NewRAGService(RAGWithQueryLogger(logs))

	_, err := svc.QueryHistory(context.Background(), uuid.New(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, logs.listLimit)

	_, err = svc.QueryHistory(context.Background(), uuid.New(), 500)
	require.NoError(t, err)
	assert.Equal(t, 20, logs.listLimit)
}

func TestQueryHistoryWithoutLoggerFails(t *testing.T) {
	svc := NewRAGService()
	_, err := svc.QueryHistory(context.Background(), uuid.New(), 10)
	assert.Error(t, err)
}

func TestAnswerQuestionUnknownComplexityFallsBack(t *testing.T) {
	store := &fakeStore{docs: retrievedDocs()}
	chat := &fakeChat{answer: "resposta"}

	svc := newTestRAGService(store, chat, RAGWithScoringSettings(95.0, false))

	_, err := svc.AnswerQuestion(context.Background(), AskRequest{
		Question:   "pergunta",
		Complexity: "juridiques",
	})
	require.NoError(t, err)
	assert.Equal(t, BuildSystemPrompt(models.ComplexitySimple), chat.systemPrompt)
}

func TestPredominantCategoryTieBreaksToFirst(t *testing.T) {
	docs := []models.RetrievedDocument{
		{Category: "Direito Trabalhista", RelevanceScore: 0.9},
		{Category: "Direito do Consumidor", RelevanceScore: 0.8},
	}
	assert.Equal(t, "Direito Trabalhista", predominantCategory(docs))
}

func TestAvailableCategoriesIsACopy(t *testing.T) {
	svc := NewRAGService()
	cats := svc.AvailableCategories()
	require.NotEmpty(t, cats)

	cats[0] = "mutated"
	assert.NotEqual(t, "mutated", svc.AvailableCategories()[0])
}

func TestHealthCheck(t *testing.T) {
	svc := NewRAGService(RAGWithStore(&fakeStore{}))
	assert.Equal(t, "ok", svc.HealthCheck())

	assert.Equal(t, "error", NewRAGService().HealthCheck())
}
