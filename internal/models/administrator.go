package models

import "time"

// Administrator is a back-office account. The PIN and password are stored
// as bcrypt hashes; Scope is the space-delimited capability string as
// persisted (use scope.Parse to work with it).
type Administrator struct {
	AdminID        int64      `db:"admin_id" json:"admin_id"`
	Surname        string     `db:"admin_surname" json:"admin_surname"`
	Firstname      string     `db:"admin_firstname" json:"admin_firstname"`
	Othernames     string     `db:"admin_othernames" json:"admin_othernames"`
	PhoneNumber    string     `db:"admin_phone_number" json:"admin_phone_number"`
	Email          string     `db:"admin_email" json:"admin_email"`
	PINHash        string     `db:"admin_pin" json:"-"`
	PasswordHash   string     `db:"password" json:"-"`
	Scope          string     `db:"admin_scope" json:"admin_scope"`
	Flagged        bool       `db:"admin_flagged" json:"admin_flagged"`
	CreatorAdminID int64      `db:"creator_admin_id" json:"creator_admin_id"`
	CreatorName    string     `db:"-" json:"creator_name,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
