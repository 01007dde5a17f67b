package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"direitofacil-backend/config"
	"direitofacil-backend/llm"
	"direitofacil-backend/logging"
	"direitofacil-backend/service"
	"direitofacil-backend/storage"
	"direitofacil-backend/vectorstore"

	"go.uber.org/zap"
)

// Bulk-loads a directory of legal documents into the knowledge base.
// Layout: <dir>/<category>/<title>.txt — the subdirectory name becomes
// the document category, the file name (without extension) the title.
func main() {
	dir := flag.String("dir", "./corpus", "directory of .txt/.md documents to ingest")
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	store, err := vectorstore.NewChromemStore(vectorstore.Config{
		Path:       cfg.ChromaPath,
		Collection: cfg.ChromaCollectionName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize vector store", zap.Error(err))
	}

	llmClient, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIAPIKey,
		ChatModel:      cfg.LLMModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	if err != nil {
		logger.Fatal("Failed to initialize OpenAI client", zap.Error(err))
	}

	archive, err := storage.NewArchiveFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize document archive", zap.Error(err))
	}

	embedder := service.NewEmbeddingCache(llmClient, cfg.EnableEmbeddingCache, cfg.EmbeddingCacheSize)

	knowledgeService := service.NewKnowledgeService(
		service.KnowledgeWithEmbedder(embedder),
		service.KnowledgeWithStore(store),
		service.KnowledgeWithArchive(archive),
		service.KnowledgeWithLogger(logger),
		service.KnowledgeWithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
	)

	ctx := context.Background()
	ingested, failed := 0, 0

	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Failed to read file", zap.String("path", path), zap.Error(err))
			failed++
			return nil
		}

		title := strings.TrimSuffix(d.Name(), ext)
		category := categoryFor(*dir, path)

		result, err := knowledgeService.AddDocument(ctx, service.AddDocumentRequest{
			Title:    title,
			Content:  string(content),
			Category: category,
		})
		if err != nil {
			logger.Error("Failed to ingest document",
				zap.String("path", path),
				zap.Error(err))
			failed++
			return nil
		}

		logger.Info("Ingested document",
			zap.String("title", title),
			zap.String("category", category),
			zap.String("doc_id", result.DocID),
			zap.Int("chunks", result.ChunkCount))
		ingested++
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to walk corpus directory", zap.Error(err))
	}

	logger.Info("Ingestion complete",
		zap.Int("ingested", ingested),
		zap.Int("failed", failed),
		zap.Int("total_chunks", knowledgeBaseSize(store)))
}

// categoryFor derives the category from the first subdirectory under root
func categoryFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

func knowledgeBaseSize(store vectorstore.Store) int {
	return store.Count()
}
