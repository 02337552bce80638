package models

import "time"

// Rate is a directed exchange rate between two currencies. ExtID is the
// concatenation of the two currency abbreviations (e.g. "USDGHS") and is
// the upsert key for add-rate.
type Rate struct {
	RateID           int64      `db:"rate_id" json:"rate_id"`
	ExtID            string     `db:"rate_ext_id" json:"rate_ext_id"`
	CurrencyFromID   int64      `db:"currency_from_id" json:"currency_from_id"`
	CurrencyFromAbbr string     `db:"currency_from_abbreviation" json:"currency_from_abbreviation"`
	CurrencyToID     int64      `db:"currency_to_id" json:"currency_to_id"`
	CurrencyToAbbr   string     `db:"currency_to_abbreviation" json:"currency_to_abbreviation"`
	Value            string     `db:"rate" json:"rate"`
	CreatorAdminID   int64      `db:"creator_admin_id" json:"creator_admin_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
