package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(client *Client) *AuditRepository {
	return &AuditRepository{db: client.DB}
}

// Insert appends an audit entry. The table is append-only; there are no
// update or delete paths.
func (r *AuditRepository) Insert(ctx context.Context, e *models.AuditLogEntry) error {
	query := `INSERT INTO audit_logs (actor_type, actor_id, category, message)
		VALUES ($1, $2, $3, $4)
		RETURNING log_id, created_at`

	err := r.db.QueryRowContext(ctx, query, e.ActorType, e.ActorID, e.Category, e.Message).
		Scan(&e.LogID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	query := `SELECT log_id, actor_type, actor_id, category, message, created_at
		FROM audit_logs ORDER BY log_id DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		e := &models.AuditLogEntry{}
		if err := rows.Scan(&e.LogID, &e.ActorType, &e.ActorID, &e.Category, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
