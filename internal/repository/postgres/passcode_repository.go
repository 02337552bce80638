package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

type PasscodeRepository struct {
	db *sql.DB
}

func NewPasscodeRepository(client *Client) *PasscodeRepository {
	return &PasscodeRepository{db: client.DB}
}

func (r *PasscodeRepository) Create(ctx context.Context, p *models.Passcode) error {
	query := `INSERT INTO passcodes (user_type, user_id, passcode, used)
		VALUES ($1, $2, $3, FALSE)
		RETURNING passcode_id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.UserType, p.UserID, p.Code).
		Scan(&p.PasscodeID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create passcode: %w", err)
	}
	return nil
}

// LatestUnused returns the account's most recent unused passcode. Newest row
// wins; older unused rows are dead once a newer one exists.
func (r *PasscodeRepository) LatestUnused(ctx context.Context, userType string, userID int64) (*models.Passcode, error) {
	query := `SELECT passcode_id, user_type, user_id, passcode, used, created_at
		FROM passcodes
		WHERE user_type = $1 AND user_id = $2 AND used = FALSE
		ORDER BY passcode_id DESC LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userType, userID))
}

// LatestUnusedMatching returns the most recent unused passcode whose code
// equals the submitted value exactly.
func (r *PasscodeRepository) LatestUnusedMatching(ctx context.Context, userType string, userID int64, code string) (*models.Passcode, error) {
	query := `SELECT passcode_id, user_type, user_id, passcode, used, created_at
		FROM passcodes
		WHERE user_type = $1 AND user_id = $2 AND passcode = $3 AND used = FALSE
		ORDER BY passcode_id DESC LIMIT 1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, userType, userID, code))
}

func (r *PasscodeRepository) MarkUsed(ctx context.Context, passcodeID int64) error {
	query := `UPDATE passcodes SET used = TRUE WHERE passcode_id = $1`
	result, err := r.db.ExecContext(ctx, query, passcodeID)
	if err != nil {
		return fmt.Errorf("failed to mark passcode used: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PasscodeRepository) scanOne(row *sql.Row) (*models.Passcode, error) {
	p := &models.Passcode{}
	err := row.Scan(&p.PasscodeID, &p.UserType, &p.UserID, &p.Code, &p.Used, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
