package models

import "time"

// User represents an account identity used for authentication.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Username is the unique, case-sensitive account name.
	Username string `json:"username"`

	// Email is the unique contact address used as an alternative login.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a hash, never plaintext.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// LastLogin is the timestamp of the most recent successful
	// authentication. Zero if the user has never logged in.
	LastLogin time.Time `json:"last_login,omitempty"`

	// IsActive marks whether the account may authenticate at all.
	IsActive bool `json:"is_active"`

	// FailedAttempts counts consecutive failed logins. Reset to zero on
	// any successful authentication or when a lockout window expires.
	FailedAttempts int `json:"-"`

	// LockedUntil is the end of the current lockout window.
	// Zero when the account is not locked.
	LockedUntil time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
