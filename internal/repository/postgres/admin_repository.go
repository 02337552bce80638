package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

const adminColumns = `admin_id, admin_surname, admin_firstname, admin_othernames,
	admin_phone_number, admin_email, admin_pin, password, admin_scope,
	admin_flagged, creator_admin_id, created_at, updated_at`

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(client *Client) *AdminRepository {
	return &AdminRepository{db: client.DB}
}

func scanAdmin(row *sql.Row) (*models.Administrator, error) {
	a := &models.Administrator{}
	err := row.Scan(&a.AdminID, &a.Surname, &a.Firstname, &a.Othernames,
		&a.PhoneNumber, &a.Email, &a.PINHash, &a.PasswordHash, &a.Scope,
		&a.Flagged, &a.CreatorAdminID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *AdminRepository) Create(ctx context.Context, a *models.Administrator) error {
	query := `INSERT INTO administrators
		(admin_surname, admin_firstname, admin_othernames, admin_phone_number,
		 admin_email, admin_pin, password, admin_scope, admin_flagged, creator_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING admin_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.Surname, a.Firstname, a.Othernames, a.PhoneNumber, a.Email,
		a.PINHash, a.PasswordHash, a.Scope, a.Flagged, a.CreatorAdminID).
		Scan(&a.AdminID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create administrator: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetByID(ctx context.Context, adminID int64) (*models.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators WHERE admin_id = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, adminID))
}

func (r *AdminRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators WHERE admin_phone_number = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, query, phoneNumber))
}

// PhoneInUse reports whether another administrator (excluding excludeID)
// already holds the phone number. Pass excludeID=0 for creation checks.
func (r *AdminRepository) PhoneInUse(ctx context.Context, phoneNumber string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM administrators WHERE admin_phone_number = $1 AND admin_id <> $2`
	if err := r.db.QueryRowContext(ctx, query, phoneNumber, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *AdminRepository) EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM administrators WHERE admin_email = $1 AND admin_id <> $2`
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *AdminRepository) List(ctx context.Context, limit, offset int) ([]*models.Administrator, error) {
	query := `SELECT ` + adminColumns + ` FROM administrators
		ORDER BY admin_id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var admins []*models.Administrator
	for rows.Next() {
		a := &models.Administrator{}
		if err := rows.Scan(&a.AdminID, &a.Surname, &a.Firstname, &a.Othernames,
			&a.PhoneNumber, &a.Email, &a.PINHash, &a.PasswordHash, &a.Scope,
			&a.Flagged, &a.CreatorAdminID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) Update(ctx context.Context, a *models.Administrator) error {
	query := `UPDATE administrators SET
		admin_surname = $1, admin_firstname = $2, admin_othernames = $3,
		admin_phone_number = $4, admin_email = $5, admin_scope = $6,
		admin_flagged = $7, updated_at = now()
		WHERE admin_id = $8`

	result, err := r.db.ExecContext(ctx, query,
		a.Surname, a.Firstname, a.Othernames, a.PhoneNumber, a.Email,
		a.Scope, a.Flagged, a.AdminID)
	if err != nil {
		return fmt.Errorf("failed to update administrator: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, adminID int64, passwordHash string) error {
	query := `UPDATE administrators SET password = $1, updated_at = now() WHERE admin_id = $2`
	result, err := r.db.ExecContext(ctx, query, passwordHash, adminID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
