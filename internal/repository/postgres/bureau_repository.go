package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kadankyi1/amforex/internal/models"
)

const bureauColumns = `bureau_id, bureau_name, bureau_hq_gps_address, bureau_hq_location,
	bureau_tin, bureau_license_no, bureau_registration_num, bureau_phone_1, bureau_phone_2,
	bureau_email_1, bureau_email_2, bureau_flagged, creator_admin_id, created_at, updated_at`

const branchColumns = `branch_id, branch_ext_id, branch_name, branch_gps_address,
	branch_location, branch_phone_1, branch_phone_2, branch_email_1, branch_email_2,
	creator_user_type, creator_id, branch_flagged, branch_is_hq, bureau_id,
	created_at, updated_at`

type BureauRepository struct {
	db *sql.DB
}

func NewBureauRepository(client *Client) *BureauRepository {
	return &BureauRepository{db: client.DB}
}

func (r *BureauRepository) Create(ctx context.Context, b *models.Bureau) error {
	query := `INSERT INTO bureaus
		(bureau_name, bureau_hq_gps_address, bureau_hq_location, bureau_tin,
		 bureau_license_no, bureau_registration_num, bureau_phone_1, bureau_phone_2,
		 bureau_email_1, bureau_email_2, bureau_flagged, creator_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING bureau_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.Name, b.HQGPSAddress, b.HQLocation, b.TIN, b.LicenseNo, b.RegistrationNum,
		b.Phone1, b.Phone2, b.Email1, b.Email2, b.Flagged, b.CreatorAdminID).
		Scan(&b.BureauID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bureau: %w", err)
	}
	return nil
}

func (r *BureauRepository) GetByID(ctx context.Context, bureauID int64) (*models.Bureau, error) {
	query := `SELECT ` + bureauColumns + ` FROM bureaus WHERE bureau_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, bureauID))
}

func (r *BureauRepository) GetByTIN(ctx context.Context, tin string) (*models.Bureau, error) {
	query := `SELECT ` + bureauColumns + ` FROM bureaus WHERE bureau_tin = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tin))
}

func (r *BureauRepository) Update(ctx context.Context, b *models.Bureau) error {
	query := `UPDATE bureaus SET
		bureau_name = $1, bureau_hq_gps_address = $2, bureau_hq_location = $3,
		bureau_license_no = $4, bureau_registration_num = $5, bureau_phone_1 = $6,
		bureau_phone_2 = $7, bureau_email_1 = $8, bureau_email_2 = $9,
		bureau_flagged = $10, updated_at = now()
		WHERE bureau_id = $11`

	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.HQGPSAddress, b.HQLocation, b.LicenseNo, b.RegistrationNum,
		b.Phone1, b.Phone2, b.Email1, b.Email2, b.Flagged, b.BureauID)
	if err != nil {
		return fmt.Errorf("failed to update bureau: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns bureaus with their branch counts, newest first.
func (r *BureauRepository) List(ctx context.Context, limit, offset int) ([]*models.Bureau, error) {
	query := `SELECT ` + bureauColumns + `,
		(SELECT COUNT(*) FROM branches WHERE branches.bureau_id = bureaus.bureau_id) AS num_of_branches
		FROM bureaus ORDER BY bureau_id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRowsWithCount(rows)
}

func (r *BureauRepository) Search(ctx context.Context, keyword string) ([]*models.Bureau, error) {
	query := `SELECT ` + bureauColumns + `,
		(SELECT COUNT(*) FROM branches WHERE branches.bureau_id = bureaus.bureau_id) AS num_of_branches
		FROM bureaus
		WHERE bureau_name ILIKE $1 OR bureau_tin ILIKE $1 OR bureau_hq_location ILIKE $1
		ORDER BY bureau_id DESC`

	rows, err := r.db.QueryContext(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.scanRowsWithCount(rows)
}

func (r *BureauRepository) CountBranches(ctx context.Context, bureauID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM branches WHERE bureau_id = $1`
	if err := r.db.QueryRowContext(ctx, query, bureauID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *BureauRepository) CreateBranch(ctx context.Context, b *models.Branch) error {
	query := `INSERT INTO branches
		(branch_ext_id, branch_name, branch_gps_address, branch_location,
		 branch_phone_1, branch_phone_2, branch_email_1, branch_email_2,
		 creator_user_type, creator_id, branch_flagged, branch_is_hq, bureau_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING branch_id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.ExtID, b.Name, b.GPSAddress, b.Location, b.Phone1, b.Phone2,
		b.Email1, b.Email2, b.CreatorUserType, b.CreatorID, b.Flagged, b.IsHQ, b.BureauID).
		Scan(&b.BranchID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *BureauRepository) GetBranchByExtID(ctx context.Context, extID string) (*models.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE branch_ext_id = $1`

	b := &models.Branch{}
	err := r.db.QueryRowContext(ctx, query, extID).Scan(
		&b.BranchID, &b.ExtID, &b.Name, &b.GPSAddress, &b.Location,
		&b.Phone1, &b.Phone2, &b.Email1, &b.Email2,
		&b.CreatorUserType, &b.CreatorID, &b.Flagged, &b.IsHQ, &b.BureauID,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *BureauRepository) UpdateBranch(ctx context.Context, b *models.Branch) error {
	query := `UPDATE branches SET
		branch_name = $1, branch_gps_address = $2, branch_location = $3,
		branch_phone_1 = $4, branch_phone_2 = $5, branch_email_1 = $6,
		branch_email_2 = $7, branch_flagged = $8, updated_at = now()
		WHERE branch_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.GPSAddress, b.Location, b.Phone1, b.Phone2,
		b.Email1, b.Email2, b.Flagged, b.BranchID)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BureauRepository) scanOne(row *sql.Row) (*models.Bureau, error) {
	b := &models.Bureau{}
	err := row.Scan(&b.BureauID, &b.Name, &b.HQGPSAddress, &b.HQLocation,
		&b.TIN, &b.LicenseNo, &b.RegistrationNum, &b.Phone1, &b.Phone2,
		&b.Email1, &b.Email2, &b.Flagged, &b.CreatorAdminID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *BureauRepository) scanRowsWithCount(rows *sql.Rows) ([]*models.Bureau, error) {
	defer rows.Close()
	var bureaus []*models.Bureau
	for rows.Next() {
		b := &models.Bureau{}
		if err := rows.Scan(&b.BureauID, &b.Name, &b.HQGPSAddress, &b.HQLocation,
			&b.TIN, &b.LicenseNo, &b.RegistrationNum, &b.Phone1, &b.Phone2,
			&b.Email1, &b.Email2, &b.Flagged, &b.CreatorAdminID, &b.CreatedAt,
			&b.UpdatedAt, &b.NumBranches); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		bureaus = append(bureaus, b)
	}
	return bureaus, rows.Err()
}
