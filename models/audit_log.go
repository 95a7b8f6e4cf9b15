package models

import "time"

// AuditStatus marks the outcome recorded on an audit entry.
type AuditStatus string

const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditFailed  AuditStatus = "FAILED"
)

// AuditLogEntry is one append-only security/business event record.
// Writing an entry never fails the operation it describes.
type AuditLogEntry struct {
	// ID is the internal row identifier.
	ID int64 `json:"-"`

	// UserID references the acting user when known; nil for anonymous
	// events such as failed logins for unknown accounts.
	UserID *int64 `json:"user_id,omitempty"`

	// Username is the acting username, or "anonymous".
	Username string `json:"username"`

	// Action is the action code (see audit.Action values).
	Action string `json:"action"`

	// Details is free-text context for the event.
	Details string `json:"details"`

	// IPAddress is the origin marker of the event.
	IPAddress string `json:"ip_address"`

	// Timestamp is when the event was recorded.
	Timestamp time.Time `json:"timestamp"`

	// Status is SUCCESS or FAILED.
	Status AuditStatus `json:"status"`
}

// TableName returns the name of the database table
// associated with the AuditLogEntry model.
func (a AuditLogEntry) TableName() string {
	return "audit_logs"
}
