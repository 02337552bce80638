package models

import "time"

// Bureau is a licensed forex bureau. TIN is the upsert key for add-bureau.
type Bureau struct {
	BureauID        int64      `db:"bureau_id" json:"bureau_id"`
	Name            string     `db:"bureau_name" json:"bureau_name"`
	HQGPSAddress    string     `db:"bureau_hq_gps_address" json:"bureau_hq_gps_address"`
	HQLocation      string     `db:"bureau_hq_location" json:"bureau_hq_location"`
	TIN             string     `db:"bureau_tin" json:"bureau_tin"`
	LicenseNo       string     `db:"bureau_license_no" json:"bureau_license_no"`
	RegistrationNum string     `db:"bureau_registration_num" json:"bureau_registration_num"`
	Phone1          string     `db:"bureau_phone_1" json:"bureau_phone_1"`
	Phone2          string     `db:"bureau_phone_2" json:"bureau_phone_2"`
	Email1          string     `db:"bureau_email_1" json:"bureau_email_1"`
	Email2          string     `db:"bureau_email_2" json:"bureau_email_2"`
	Flagged         bool       `db:"bureau_flagged" json:"bureau_flagged"`
	CreatorAdminID  int64      `db:"creator_admin_id" json:"creator_admin_id"`
	NumBranches     int        `db:"-" json:"num_of_branches"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// Branch is a bureau location. The head office branch is created together
// with the bureau; ExtID derives from (gps address, tin, phone).
type Branch struct {
	BranchID        int64      `db:"branch_id" json:"branch_id"`
	ExtID           string     `db:"branch_ext_id" json:"branch_ext_id"`
	Name            string     `db:"branch_name" json:"branch_name"`
	GPSAddress      string     `db:"branch_gps_address" json:"branch_gps_address"`
	Location        string     `db:"branch_location" json:"branch_location"`
	Phone1          string     `db:"branch_phone_1" json:"branch_phone_1"`
	Phone2          string     `db:"branch_phone_2" json:"branch_phone_2"`
	Email1          string     `db:"branch_email_1" json:"branch_email_1"`
	Email2          string     `db:"branch_email_2" json:"branch_email_2"`
	CreatorUserType string     `db:"creator_user_type" json:"creator_user_type"`
	CreatorID       int64      `db:"creator_id" json:"creator_id"`
	Flagged         bool       `db:"branch_flagged" json:"branch_flagged"`
	IsHQ            bool       `db:"branch_is_hq" json:"branch_is_hq"`
	BureauID        int64      `db:"bureau_id" json:"bureau_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
