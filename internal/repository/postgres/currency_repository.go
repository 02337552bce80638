package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

const currencyColumns = `currency_id, currency_full_name, currency_abbreviation,
	currency_symbol, currency_flagged, creator_admin_id, created_at, updated_at`

type CurrencyRepository struct {
	db *sql.DB
}

func NewCurrencyRepository(client *Client) *CurrencyRepository {
	return &CurrencyRepository{db: client.DB}
}

func (r *CurrencyRepository) Create(ctx context.Context, c *models.Currency) error {
	query := `INSERT INTO currencies
		(currency_full_name, currency_abbreviation, currency_symbol, currency_flagged, creator_admin_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING currency_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.FullName, c.Abbreviation, c.Symbol, c.Flagged, c.CreatorAdminID).
		Scan(&c.CurrencyID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

func (r *CurrencyRepository) GetByID(ctx context.Context, currencyID int64) (*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, currencyID))
}

func (r *CurrencyRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_abbreviation = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, abbreviation))
}

func (r *CurrencyRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM currencies WHERE currency_abbreviation = $1`
	if err := r.db.QueryRowContext(ctx, query, abbreviation).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *CurrencyRepository) List(ctx context.Context) ([]*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY currency_full_name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

// Search matches the keyword against currency names and abbreviations.
func (r *CurrencyRepository) Search(ctx context.Context, keyword string) ([]*models.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies
		WHERE currency_full_name ILIKE $1 OR currency_abbreviation ILIKE $1
		ORDER BY currency_full_name ASC`

	rows, err := r.db.QueryContext(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRows(rows)
}

func (r *CurrencyRepository) Update(ctx context.Context, c *models.Currency) error {
	query := `UPDATE currencies SET
		currency_full_name = $1, currency_abbreviation = $2, currency_symbol = $3,
		currency_flagged = $4, updated_at = now()
		WHERE currency_id = $5`

	result, err := r.db.ExecContext(ctx, query,
		c.FullName, c.Abbreviation, c.Symbol, c.Flagged, c.CurrencyID)
	if err != nil {
		return fmt.Errorf("failed to update currency: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CurrencyRepository) scanOne(row *sql.Row) (*models.Currency, error) {
	c := &models.Currency{}
	err := row.Scan(&c.CurrencyID, &c.FullName, &c.Abbreviation, &c.Symbol,
		&c.Flagged, &c.CreatorAdminID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *CurrencyRepository) scanRows(rows *sql.Rows) ([]*models.Currency, error) {
	defer rows.Close()
	var currencies []*models.Currency
	for rows.Next() {
		c := &models.Currency{}
		if err := rows.Scan(&c.CurrencyID, &c.FullName, &c.Abbreviation, &c.Symbol,
			&c.Flagged, &c.CreatorAdminID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}
