package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore captures every Add for inspection
type recordingStore struct {
	fakeStore
	chunks []addedChunk
	addErr error
}

type addedChunk struct {
	id       string
	text     string
	metadata map[string]string
}

func (r *recordingStore) Add(_ context.Context, id string, _ []float32, text string, metadata map[string]string) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.chunks = append(r.chunks, addedChunk{id: id, text: text, metadata: metadata})
	return nil
}

type fakeExtractor struct {
	content string
	err     error
	url     string
}

func (f *fakeExtractor) ExtractContent(_ context.Context, url string) (string, error) {
	f.url = url
	return f.content, f.err
}

type memoryArchive struct {
	saved   map[string][]byte
	saveErr error
}

func (m *memoryArchive) Save(_ context.Context, docID string, content []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[docID] = content
	return docID + ".txt", nil
}

func (m *memoryArchive) Load(_ context.Context, docID string) ([]byte, error) {
	content, ok := m.saved[docID]
	if !ok {
		return nil, errors.New("not archived")
	}
	return content, nil
}

func newTestKnowledgeService(store *recordingStore, opts ...KnowledgeServiceOption) *KnowledgeService {
	base := []KnowledgeServiceOption{
		KnowledgeWithEmbedder(&fakeEmbedder{vec: []float32{0.1, 0.2}}),
		KnowledgeWithStore(store),
	}
	return NewKnowledgeService(append(base, opts...)...)
}

func TestAddDocumentSingleChunk(t *testing.T) {
	store := &recordingStore{}
	svc := newTestKnowledgeService(store)

	result, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:    "CDC Art. 49",
		Content:  "O consumidor pode desistir do contrato em 7 dias.",
		Category: "Direito do Consumidor",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunkCount)
	require.Len(t, store.chunks, 1)

	chunk := store.chunks[0]
	assert.Equal(t, result.DocID+"_0", chunk.id)
	assert.Equal(t, "CDC Art. 49", chunk.metadata["title"])
	assert.Equal(t, "Direito do Consumidor", chunk.metadata["category"])
	assert.Equal(t, "Manual", chunk.metadata["source"])
	assert.Equal(t, "0", chunk.metadata["chunk_index"])
	assert.Equal(t, "1", chunk.metadata["total_chunks"])
}

func TestAddDocumentMultiChunkTitles(t *testing.T) {
	store := &recordingStore{}
	svc := newTestKnowledgeService(store, KnowledgeWithChunking(1000, 100))

	result, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:   "CLT Consolidada",
		Content: strings.Repeat("texto legal extenso ", 200),
	})
	require.NoError(t, err)
	require.Greater(t, result.ChunkCount, 1)

	for _, chunk := range store.chunks {
		assert.Contains(t, chunk.metadata["title"], "(parte")
		assert.Equal(t, result.DocID, chunk.metadata["doc_id"])
		assert.Equal(t, chunk.id, chunk.metadata["chunk_id"])
	}
	assert.Contains(t, store.chunks[0].metadata["title"], "CLT Consolidada (parte 1/")
}

func TestAddDocumentValidation(t *testing.T) {
	svc := newTestKnowledgeService(&recordingStore{})
	ctx := context.Background()

	_, err := svc.AddDocument(ctx, AddDocumentRequest{Content: "texto"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = svc.AddDocument(ctx, AddDocumentRequest{Title: "Doc"})
	assert.ErrorIs(t, err, ErrMissingContent)

	_, err = svc.AddDocument(ctx, AddDocumentRequest{Title: "Doc", Content: "   \n  "})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestAddDocumentScrapesWhenContentEmpty(t *testing.T) {
	store := &recordingStore{}
	extractor := &fakeExtractor{content: "Conteúdo extraído da página sobre direito trabalhista."}
	svc := newTestKnowledgeService(store, KnowledgeWithExtractor(extractor))

	result, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:     "Página do planalto",
		SourceURL: "https://www.planalto.gov.br/lei",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.planalto.gov.br/lei", extractor.url)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, "https://www.planalto.gov.br/lei", store.chunks[0].metadata["source"])
}

func TestAddDocumentExtractionErrorPropagates(t *testing.T) {
	extractor := &fakeExtractor{err: &ExtractionError{URL: "https://x", Reason: "HTTP status 404"}}
	svc := newTestKnowledgeService(&recordingStore{}, KnowledgeWithExtractor(extractor))

	_, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:     "Doc",
		SourceURL: "https://x",
	})

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "HTTP status 404", extractionErr.Reason)
}

func TestAddDocumentEmbeddingFailureWritesNothing(t *testing.T) {
	store := &recordingStore{}
	svc := NewKnowledgeService(
		KnowledgeWithEmbedder(&fakeEmbedder{err: errors.New("quota exceeded")}),
		KnowledgeWithStore(store),
	)

	_, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:   "Doc",
		Content: "conteúdo qualquer",
	})
	require.Error(t, err)
	assert.Empty(t, store.chunks)
}

func TestAddDocumentArchivesRawContent(t *testing.T) {
	store := &recordingStore{}
	archive := &memoryArchive{}
	svc := newTestKnowledgeService(store, KnowledgeWithArchive(archive))

	result, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:   "Doc",
		Content: "conteúdo original completo",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("conteúdo original completo"), archive.saved[result.DocID])

	raw, err := svc.RawDocument(context.Background(), result.DocID)
	require.NoError(t, err)
	assert.Equal(t, "conteúdo original completo", string(raw))
}

func TestAddDocumentArchiveFailureIsBestEffort(t *testing.T) {
	store := &recordingStore{}
	archive := &memoryArchive{saveErr: errors.New("bucket gone")}
	svc := newTestKnowledgeService(store, KnowledgeWithArchive(archive))

	_, err := svc.AddDocument(context.Background(), AddDocumentRequest{
		Title:   "Doc",
		Content: "conteúdo",
	})
	require.NoError(t, err)
	assert.Len(t, store.chunks, 1)
}
