package models

import "time"

// AuditLogEntry is an immutable record of a sensitive operation. ActorID is
// free text: most call sites pass the numeric account id, the login path
// passes the submitted phone number before the account is known.
type AuditLogEntry struct {
	LogID     int64     `db:"log_id" json:"log_id"`
	ActorType string    `db:"actor_type" json:"actor_type"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	Category  string    `db:"category" json:"category"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
