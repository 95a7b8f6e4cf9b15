package store

import (
	"context"

	"github.com/MuhaUsman/SecureVault/models"
	"github.com/shopspring/decimal"
)

// UserRepository owns the users table and the authentication-time lockout
// bookkeeping stored on it.
type UserRepository interface {
	// CreateUser registers a new account and its wallet (balance 0.00
	// under a fresh key) in one atomic unit. Duplicate checks happen
	// inside the same unit to avoid races.
	CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)

	// Authenticate verifies credentials against a username or email.
	// Wrong passwords increment the durable failed-attempt counter and
	// open a lockout window at the threshold, in the same atomic unit as
	// the read; success resets the counters and stamps last_login.
	Authenticate(ctx context.Context, usernameOrEmail, password string) (models.User, error)

	// UserExists reports whether the username is registered.
	UserExists(ctx context.Context, username string) (bool, error)

	// UsernameByID resolves a user ID to its username.
	UsernameByID(ctx context.Context, userID int64) (string, error)
}

// LedgerRepository owns wallets and transactions: every balance mutation is
// paired with its immutable transaction row in one atomic unit of work.
type LedgerRepository interface {
	// Balance returns the decrypted wallet balance, lazily creating the
	// wallet at 0.00 if the user has none yet.
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)

	// CreateTransaction applies one CREDIT or DEBIT: reads the balance,
	// computes the new one, writes the encrypted transaction row and the
	// wallet update together, and returns the transaction ID.
	CreateTransaction(ctx context.Context, userID int64, typ models.TransactionType, amount decimal.Decimal, recipientUsername, source, description string) (string, error)

	// Transactions lists the user's history most-recent-first. Rows that
	// fail to decrypt are skipped, not surfaced.
	Transactions(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, error)
}

// AuditRepository owns the append-only audit_logs table.
type AuditRepository interface {
	Insert(ctx context.Context, entry models.AuditLogEntry) error
	List(ctx context.Context, limit int, userID *int64) ([]models.AuditLogEntry, error)
}

// FileRepository owns the uploaded_files metadata table.
type FileRepository interface {
	SaveFile(ctx context.Context, userID int64, filename, fileType string, fileSize int64, fileHash string) (int64, error)
	FilesByUser(ctx context.Context, userID int64) ([]models.StoredFile, error)
}
