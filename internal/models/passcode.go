package models

import "time"

// Passcode is a one-time numeric code for second-factor login confirmation.
// Rows are never deleted; verification only flips Used. The trusted row for
// an account is always the most recently created unused one.
type Passcode struct {
	PasscodeID int64     `db:"passcode_id" json:"passcode_id"`
	UserType   string    `db:"user_type" json:"user_type"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Code       string    `db:"passcode" json:"-"`
	Used       bool      `db:"used" json:"used"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
