package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

type WorkerRepository struct {
	db *sql.DB
}

func NewWorkerRepository(client *Client) *WorkerRepository {
	return &WorkerRepository{db: client.DB}
}

func (r *WorkerRepository) Create(ctx context.Context, w *models.Worker) error {
	query := `INSERT INTO workers
		(worker_ext_id, worker_surname, worker_firstname, worker_othernames,
		 worker_home_gps_address, worker_home_location, worker_position, worker_scope,
		 worker_flagged, worker_was_first, worker_phone_number, worker_email,
		 worker_pin, password, creator_user_type, creator_id, branch_id, bureau_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING worker_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		w.ExtID, w.Surname, w.Firstname, w.Othernames,
		w.HomeGPSAddress, w.HomeLocation, w.Position, w.Scope,
		w.Flagged, w.WasFirst, w.PhoneNumber, w.Email,
		w.PINHash, w.PasswordHash, w.CreatorUserType, w.CreatorID, w.BranchID, w.BureauID).
		Scan(&w.WorkerID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (r *WorkerRepository) GetByExtID(ctx context.Context, extID string) (*models.Worker, error) {
	query := `SELECT worker_id, worker_ext_id, worker_surname, worker_firstname,
		worker_othernames, worker_home_gps_address, worker_home_location,
		worker_position, worker_scope, worker_flagged, worker_was_first,
		worker_phone_number, worker_email, worker_pin, password,
		creator_user_type, creator_id, branch_id, bureau_id, created_at, updated_at
		FROM workers WHERE worker_ext_id = $1`

	w := &models.Worker{}
	err := r.db.QueryRowContext(ctx, query, extID).Scan(
		&w.WorkerID, &w.ExtID, &w.Surname, &w.Firstname, &w.Othernames,
		&w.HomeGPSAddress, &w.HomeLocation, &w.Position, &w.Scope,
		&w.Flagged, &w.WasFirst, &w.PhoneNumber, &w.Email, &w.PINHash, &w.PasswordHash,
		&w.CreatorUserType, &w.CreatorID, &w.BranchID, &w.BureauID,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *WorkerRepository) Update(ctx context.Context, w *models.Worker) error {
	query := `UPDATE workers SET
		worker_surname = $1, worker_firstname = $2, worker_othernames = $3,
		worker_home_gps_address = $4, worker_home_location = $5, worker_position = $6,
		worker_phone_number = $7, worker_email = $8, worker_flagged = $9, updated_at = now()
		WHERE worker_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		w.Surname, w.Firstname, w.Othernames, w.HomeGPSAddress, w.HomeLocation,
		w.Position, w.PhoneNumber, w.Email, w.Flagged, w.WorkerID)
	if err != nil {
		return fmt.Errorf("failed to update worker: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
