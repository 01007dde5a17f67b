package main

import (
	"context"
	"log"
	"net/http"

	"direitofacil-backend/config"
	"direitofacil-backend/handlers"
	"direitofacil-backend/llm"
	"direitofacil-backend/logging"
	"direitofacil-backend/middleware"
	"direitofacil-backend/repository"
	"direitofacil-backend/service"
	"direitofacil-backend/storage"
	"direitofacil-backend/vectorstore"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := initPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize Postgres", zap.Error(err))
	}
	defer db.Close()

	// Initialize document archive
	archive, err := storage.NewArchiveFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize document archive", zap.Error(err))
	}

	// Initialize vector store
	store, err := vectorstore.NewChromemStore(vectorstore.Config{
		Path:       cfg.ChromaPath,
		Collection: cfg.ChromaCollectionName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize vector store", zap.Error(err))
	}

	// Initialize OpenAI client
	llmClient, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIAPIKey,
		ChatModel:      cfg.LLMModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Temperature:    cfg.LLMTemperature,
		TopP:           cfg.LLMTopP,
		MaxTokens:      cfg.LLMMaxTokens,
	})
	if err != nil {
		logger.Fatal("Failed to initialize OpenAI client", zap.Error(err))
	}

	embedder := service.NewEmbeddingCache(llmClient, cfg.EnableEmbeddingCache, cfg.EmbeddingCacheSize)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	queryLogRepo := repository.NewQueryLogRepository(db)

	// Initialize services
	validator := service.NewResponseValidator(cfg.StrictSourceValidation, cfg.MaxConfidenceScore, logger)
	scraper := service.NewWebScraperService(cfg.ScraperTimeout, logger)

	ragService := service.NewRAGService(
		service.RAGWithEmbedder(embedder),
		service.RAGWithStore(store),
		service.RAGWithChatProvider(llmClient),
		service.RAGWithValidator(validator),
		service.RAGWithQueryLogger(queryLogRepo),
		service.RAGWithLogger(logger),
		service.RAGWithRetrievalSettings(cfg.TopKDocuments, cfg.MaxContextDocuments),
		service.RAGWithScoringSettings(cfg.MaxConfidenceScore, cfg.EnableResponseValidation),
	)

	knowledgeService := service.NewKnowledgeService(
		service.KnowledgeWithEmbedder(embedder),
		service.KnowledgeWithStore(store),
		service.KnowledgeWithExtractor(scraper),
		service.KnowledgeWithArchive(archive),
		service.KnowledgeWithLogger(logger),
		service.KnowledgeWithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
	)

	userService := service.NewUserService(service.WithUserRepository(userRepo))

	authService, err := service.NewAuthService(cfg.SecretKey, service.WithTokenTTL(cfg.AccessTokenExpiry))
	if err != nil {
		logger.Fatal("Failed to initialize auth service", zap.Error(err))
	}

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(ragService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService, ragService)
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := ragService.HealthCheck()
		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":      status,
			"chunk_count": ragService.KnowledgeBaseSize(),
		})
	})

	// Auth endpoints
	r.POST("/auth/login", authHandler.Login)

	// User endpoints
	r.POST("/users", userHandler.CreateUser)
	users := r.Group("/users", middleware.Auth(authService))
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
	}

	// API routes
	api := r.Group("/api")
	{
		// Question endpoints
		api.POST("/questions", rateLimiter.Middleware(), middleware.OptionalAuth(authService), questionHandler.AskQuestion)
		api.GET("/questions/history", middleware.Auth(authService), questionHandler.GetHistory)
		api.GET("/categories", questionHandler.GetCategories)

		// Knowledge base endpoints
		knowledge := api.Group("/knowledge", middleware.Auth(authService))
		{
			knowledge.POST("/documents", knowledgeHandler.AddDocument)
			knowledge.GET("/documents/:id/raw", knowledgeHandler.GetRawDocument)
			knowledge.GET("/stats", knowledgeHandler.GetStats)
		}
	}

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func initPostgres(cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
