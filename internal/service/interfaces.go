package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/MuhaUsman/SecureVault/models"
)

// AccountService owns the authentication lifecycle: registration, login with
// rate limiting, and logout. Every outcome is audited.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Login(ctx context.Context, usernameOrEmail, password string) (models.User, string, error)
	Logout(ctx context.Context)

	// RemainingAttempts reports how many failed logins the username has
	// left before the in-process lockout opens.
	RemainingAttempts(username string) int

	// PasswordStrength scores a candidate password for interactive
	// feedback during registration.
	PasswordStrength(password string) (int, []string)
}

// LedgerService owns money movement and history for the logged-in user.
// All methods require a valid session and resolve the acting user from it.
type LedgerService interface {
	Deposit(ctx context.Context, amount, source, description string) (string, decimal.Decimal, error)
	Transfer(ctx context.Context, recipientUsername, amount, purpose string) (string, decimal.Decimal, error)
	Balance(ctx context.Context) (decimal.Decimal, error)
	History(ctx context.Context, limit, offset int) ([]models.Transaction, error)

	UploadFile(ctx context.Context, content []byte, filename string) (string, error)
	Files(ctx context.Context) ([]models.StoredFile, error)
}
