package models

import "time"

type Currency struct {
	CurrencyID     int64      `db:"currency_id" json:"currency_id"`
	FullName       string     `db:"currency_full_name" json:"currency_full_name"`
	Abbreviation   string     `db:"currency_abbreviation" json:"currency_abbreviation"`
	Symbol         string     `db:"currency_symbol" json:"currency_symbol"`
	Flagged        bool       `db:"currency_flagged" json:"currency_flagged"`
	CreatorAdminID int64      `db:"creator_admin_id" json:"creator_admin_id"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
