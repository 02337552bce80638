package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

const rateColumns = `rate_id, rate_ext_id, currency_from_id, currency_from_abbreviation,
	currency_to_id, currency_to_abbreviation, rate, creator_admin_id, created_at, updated_at`

type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(client *Client) *RateRepository {
	return &RateRepository{db: client.DB}
}

func (r *RateRepository) Create(ctx context.Context, rate *models.Rate) error {
	query := `INSERT INTO rates
		(rate_ext_id, currency_from_id, currency_from_abbreviation,
		 currency_to_id, currency_to_abbreviation, rate, creator_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING rate_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		rate.ExtID, rate.CurrencyFromID, rate.CurrencyFromAbbr,
		rate.CurrencyToID, rate.CurrencyToAbbr, rate.Value, rate.CreatorAdminID).
		Scan(&rate.RateID, &rate.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rate: %w", err)
	}
	return nil
}

// GetByExtID looks a rate up by its direction key (FROMABBR+TOABBR).
func (r *RateRepository) GetByExtID(ctx context.Context, extID string) (*models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates WHERE rate_ext_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, extID))
}

func (r *RateRepository) GetByID(ctx context.Context, rateID int64) (*models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates WHERE rate_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, rateID))
}

func (r *RateRepository) UpdateValue(ctx context.Context, rateID int64, value string) error {
	query := `UPDATE rates SET rate = $1, updated_at = now() WHERE rate_id = $2`
	result, err := r.db.ExecContext(ctx, query, value, rateID)
	if err != nil {
		return fmt.Errorf("failed to update rate: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RateRepository) List(ctx context.Context, limit, offset int) ([]*models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates ORDER BY rate_id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

// Search matches the keyword against the rate key and the names of both
// currencies involved.
func (r *RateRepository) Search(ctx context.Context, keyword string) ([]*models.Rate, error) {
	query := `SELECT ` + rateColumns + ` FROM rates
		WHERE rate_ext_id ILIKE $1
		   OR currency_from_id IN (SELECT currency_id FROM currencies WHERE currency_full_name ILIKE $1)
		   OR currency_to_id IN (SELECT currency_id FROM currencies WHERE currency_full_name ILIKE $1)
		ORDER BY rate_id DESC`

	rows, err := r.db.QueryContext(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

func (r *RateRepository) scanOne(row *sql.Row) (*models.Rate, error) {
	rate := &models.Rate{}
	err := row.Scan(&rate.RateID, &rate.ExtID, &rate.CurrencyFromID, &rate.CurrencyFromAbbr,
		&rate.CurrencyToID, &rate.CurrencyToAbbr, &rate.Value, &rate.CreatorAdminID,
		&rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rate, nil
}

func (r *RateRepository) scanRows(rows *sql.Rows) ([]*models.Rate, error) {
	defer rows.Close()
	var rates []*models.Rate
	for rows.Next() {
		rate := &models.Rate{}
		if err := rows.Scan(&rate.RateID, &rate.ExtID, &rate.CurrencyFromID, &rate.CurrencyFromAbbr,
			&rate.CurrencyToID, &rate.CurrencyToAbbr, &rate.Value, &rate.CreatorAdminID,
			&rate.CreatedAt, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
