package models

import (
	"time"

	"github.com/google/uuid"
)

// QueryLog records one answered question for later analysis
type QueryLog struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Question        string     `json:"question"`
	Category        string     `json:"category"`
	Answer          string     `json:"answer"`
	ConfidenceScore float64    `json:"confidence_score"`
	CreatedAt       time.Time  `json:"created_at"`
}
