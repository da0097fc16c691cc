package postgres

import (
	"context"
	"database/sql"
	"time"

	"conversationscheduler/internal/domain"
)

type conversationRepository struct {
	DB *sql.DB
}

func NewConversationRepository(db *sql.DB) domain.ConversationRepository {
	return &conversationRepository{DB: db}
}

func (r *conversationRepository) Create(ctx context.Context, c *domain.ScheduledConversation) error {
	query := `
		INSERT INTO scheduled_conversations (user_id, scheduled_at, confidence, reason, strategy, is_completed, is_cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.UserID, c.ScheduledAt, c.Confidence, c.Reason, c.Strategy, c.IsCompleted, c.IsCancelled, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
}

const conversationColumns = `id, user_id, scheduled_at, confidence, reason, strategy, is_completed, is_cancelled, created_at, updated_at`

func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ScheduledConversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM scheduled_conversations
		WHERE user_id = $1 AND is_cancelled = FALSE
		ORDER BY scheduled_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConversations(rows)
}

func (r *conversationRepository) ListByUserWithinWindow(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduledConversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM scheduled_conversations
		WHERE user_id = $1 AND is_cancelled = FALSE
		  AND scheduled_at >= $2 AND scheduled_at <= $3
		ORDER BY scheduled_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanConversations(rows)
}

func scanConversations(rows *sql.Rows) ([]*domain.ScheduledConversation, error) {
	var convs []*domain.ScheduledConversation
	for rows.Next() {
		c := &domain.ScheduledConversation{}
		err := rows.Scan(
			&c.ID, &c.UserID, &c.ScheduledAt, &c.Confidence, &c.Reason, &c.Strategy,
			&c.IsCompleted, &c.IsCancelled, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}
