package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"direitofacil-backend/models"
	"direitofacil-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuestionHandler handles HTTP requests for legal questions
type QuestionHandler struct {
	ragService *service.RAGService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(ragService *service.RAGService) *QuestionHandler {
	return &QuestionHandler{ragService: ragService}
}

// AskQuestionRequest represents the request body for asking a question
type AskQuestionRequest struct {
	Question               string `json:"question" binding:"required"`
	Category               string `json:"category"`
	UserContext            string `json:"user_context"`
	AdditionalInstructions string `json:"additional_instructions"`
	Complexity             string `json:"complexity"`
}

// AskQuestion handles POST /api/questions
func (h *QuestionHandler) AskQuestion(c *gin.Context) {
	var req AskQuestionRequest
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

	complexity := models.ComplexitySimple
	if req.Complexity != "" {
		complexity = models.ComplexityLevel(req.Complexity)
		if !complexity.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_COMPLEXITY",
					"message": "complexity must be one of: simple, intermediate, detailed, technical",
				},
			})
			return
		}
	}

	serviceReq := service.AskRequest{
		Question:               req.Question,
		Category:               req.Category,
		UserContext:            req.UserContext,
		AdditionalInstructions: req.AdditionalInstructions,
		Complexity:             complexity,
	}

	if userID, ok := authenticatedUserID(c); ok {
		serviceReq.UserID = &userID
	}

	response, err := h.ragService.AnswerQuestion(c.Request.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, service.ErrNoDocumentsFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_DOCUMENTS_FOUND",
					"message": "Não encontrei informações sobre este tema na base de conhecimento.",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUESTION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// GetHistory handles GET /api/questions/history
func (h *QuestionHandler) GetHistory(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Authentication required",
			},
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.ragService.QueryHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HISTORY_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"queries": logs,
		},
	})
}

// GetCategories handles GET /api/categories
func (h *QuestionHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"categories": h.ragService.AvailableCategories(),
		},
	})
}

// authenticatedUserID reads the user id set by the auth middleware, if any
func authenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
