package repository

import (
	"context"

	"direitofacil-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryLogRepository handles database operations for query logs
type QueryLogRepository struct {
	db *pgxpool.Pool
}

// NewQueryLogRepository creates a new query log repository
func NewQueryLogRepository(db *pgxpool.Pool) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

// Insert records an answered question
func (r *QueryLogRepository) Insert(ctx context.Context, entry *models.QueryLog) error {
	query := `
		INSERT INTO query_logs (user_id, question, category, answer, confidence_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		entry.UserID,
		entry.Question,
		entry.Category,
		entry.Answer,
		entry.ConfidenceScore,
	).Scan(&entry.ID, &entry.CreatedAt)

	return err
}

// ListByUser retrieves recent query logs for a user
func (r *QueryLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.QueryLog, error) {
	query := `
		SELECT id, user_id, question, category, answer, confidence_score, created_at
		FROM query_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.QueryLog
	for rows.Next() {
		entry := &models.QueryLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Question,
			&entry.Category,
			&entry.Answer,
			&entry.ConfidenceScore,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
