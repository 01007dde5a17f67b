package handlers

import (
	"errors"
	"net/http"

	"direitofacil-backend/service"
	"direitofacil-backend/storage"

	"github.com/gin-gonic/gin"
)

// KnowledgeHandler handles HTTP requests for the knowledge base
type KnowledgeHandler struct {
	knowledgeService *service.KnowledgeService
	ragService       *service.RAGService
}

// NewKnowledgeHandler creates a new knowledge handler
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService, ragService *service.RAGService) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
		ragService:       ragService,
	}
}

// AddDocumentRequest represents the request body for ingesting a document
type AddDocumentRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	SourceURL string `json:"source_url"`
}

// AddDocument handles POST /api/knowledge/documents
func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	serviceReq := service.AddDocumentRequest{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		SourceURL: req.SourceURL,
	}

	result, err := h.knowledgeService.AddDocument(c.Request.Context(), serviceReq)
	if err != nil {
		var extractionErr *service.ExtractionError
		switch {
		case errors.As(err, &extractionErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EXTRACTION_FAILED",
					"message": extractionErr.Error(),
				},
			})
		case errors.Is(err, service.ErrMissingContent), errors.Is(err, service.ErrEmptyDocument):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_DOCUMENT",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INGESTION_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetRawDocument handles GET /api/knowledge/documents/:id/raw
func (h *KnowledgeHandler) GetRawDocument(c *gin.Context) {
	docID := c.Param("id")

	content, err := h.knowledgeService.RawDocument(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, storage.ErrNotArchived) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DOCUMENT_NOT_FOUND",
					"message": "No archived content for this document",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// GetStats handles GET /api/knowledge/stats
func (h *KnowledgeHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"chunk_count": h.ragService.KnowledgeBaseSize(),
			"status":      h.ragService.HealthCheck(),
		},
	})
}
