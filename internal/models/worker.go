package models

import "time"

// Worker is a bureau employee account. The first worker of a bureau is
// created together with the bureau and marked WasFirst.
type Worker struct {
	WorkerID        int64      `db:"worker_id" json:"worker_id"`
	ExtID           string     `db:"worker_ext_id" json:"worker_ext_id"`
	Surname         string     `db:"worker_surname" json:"worker_surname"`
	Firstname       string     `db:"worker_firstname" json:"worker_firstname"`
	Othernames      string     `db:"worker_othernames" json:"worker_othernames"`
	HomeGPSAddress  string     `db:"worker_home_gps_address" json:"worker_home_gps_address"`
	HomeLocation    string     `db:"worker_home_location" json:"worker_home_location"`
	Position        string     `db:"worker_position" json:"worker_position"`
	Scope           string     `db:"worker_scope" json:"worker_scope"`
	Flagged         bool       `db:"worker_flagged" json:"worker_flagged"`
	WasFirst        bool       `db:"worker_was_first" json:"worker_was_first"`
	PhoneNumber     string     `db:"worker_phone_number" json:"worker_phone_number"`
	Email           string     `db:"worker_email" json:"worker_email"`
	PINHash         string     `db:"worker_pin" json:"-"`
	PasswordHash    string     `db:"password" json:"-"`
	CreatorUserType string     `db:"creator_user_type" json:"creator_user_type"`
	CreatorID       int64      `db:"creator_id" json:"creator_id"`
	BranchID        int64      `db:"branch_id" json:"branch_id"`
	BureauID        int64      `db:"bureau_id" json:"bureau_id"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
