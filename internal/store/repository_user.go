package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

// userRepository is the SQLite-backed implementation of [UserRepository].
// It handles account creation (with the paired wallet row) and
// authentication, including the durable failed-attempt/lockout bookkeeping.
type userRepository struct {
	logger *logger.Logger
	db     *DB
	crypto crypto.Service

	maxAttempts     int
	lockoutDuration time.Duration

	// now is the time source for lockout arithmetic, overridable in tests.
	now func() time.Time
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection, crypto service, and security settings.
func NewUserRepository(db *DB, cryptoSvc crypto.Service, cfg config.Security, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:              db,
		crypto:          cryptoSvc,
		maxAttempts:     cfg.MaxLoginAttempts,
		lockoutDuration: cfg.LockoutDuration,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateUser persists a new user and its wallet in one atomic unit.
//
// The duplicate check runs inside the same transaction as the inserts so a
// concurrent registration cannot slip between check and insert; the UNIQUE
// constraints remain as the backstop. The wallet starts at "0.00"
// encrypted under a freshly generated key that never leaves this wallet's
// row.
//
// Error handling:
//   - existing username → [ErrDuplicateUsername]
//   - existing email → [ErrDuplicateEmail]
//   - lock wait expiry → [ErrStorageBusy]
//   - anything else → wrapped low-level error
func (r *userRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: cannot begin transaction")
		if isBusyErr(err) {
			return 0, ErrStorageBusy
		}
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	// check duplicates inside the same atomic unit as the insert
	var existingUsername, existingEmail string
	err = tx.QueryRowContext(ctx, findDuplicateIdentity, username, email).Scan(&existingUsername, &existingEmail)
	switch {
	case err == nil:
		if existingUsername == username {
			return 0, ErrDuplicateUsername
		}
		return 0, ErrDuplicateEmail
	case errors.Is(err, sql.ErrNoRows):
		// identity is free
	default:
		r.logger.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: duplicate check failed")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	res, err := tx.ExecContext(ctx, createUser, username, email, passwordHash)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: user insert failed")
		if isUniqueViolation(err) {
			// lost the race against a concurrent registration
			if strings.Contains(err.Error(), "users.email") {
				return 0, ErrDuplicateEmail
			}
			return 0, ErrDuplicateUsername
		}
		if isBusyErr(err) {
			return 0, ErrStorageBusy
		}
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	// create the wallet in the same unit: balance 0.00 under a fresh key
	key, err := r.crypto.GenerateKey()
	if err != nil {
		return 0, fmt.Errorf("generate wallet key: %w", err)
	}
	encryptedBalance, err := r.crypto.Encrypt("0.00", key)
	if err != nil {
		return 0, fmt.Errorf("encrypt initial balance: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createWallet, userID, encryptedBalance, base64.StdEncoding.EncodeToString(key)); err != nil {
		r.logger.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: wallet insert failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return userID, nil
}

// Authenticate looks up the account by username or email and verifies the
// password.
//
// Security behavior:
//   - unknown identity and wrong password both return
//     [ErrInvalidCredentials] (no enumeration);
//   - a disabled account returns [ErrAccountInactive];
//   - an open lockout window returns [*AccountLockedError] with the unlock
//     time, regardless of password correctness;
//   - a wrong password increments failed_attempts in the same atomic unit
//     as the read, opening a lockout window at the configured threshold;
//     an expired window resets the counter before counting the new failure;
//   - success resets the counters and stamps last_login.
func (r *userRepository) Authenticate(ctx context.Context, usernameOrEmail, password string) (models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "*userRepository.Authenticate").Msg("error: cannot begin transaction")
		if isBusyErr(err) {
			return models.User{}, ErrStorageBusy
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var (
		user        models.User
		lastLogin   sql.NullTime
		lockedUntil sql.NullTime
	)
	row := tx.QueryRowContext(ctx, findUserByIdentity, usernameOrEmail, usernameOrEmail)
	err = row.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &lastLogin, &user.IsActive, &user.FailedAttempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// same error as a wrong password
			return models.User{}, ErrInvalidCredentials
		}
		r.logger.Err(err).Str("func", "*userRepository.Authenticate").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	if lockedUntil.Valid {
		user.LockedUntil = lockedUntil.Time
	}

	if !user.IsActive {
		return models.User{}, ErrAccountInactive
	}

	now := r.now()
	locked := lockedUntil.Valid && now.Before(lockedUntil.Time)
	if locked {
		return models.User{}, &AccountLockedError{Until: lockedUntil.Time}
	}

	if !r.crypto.VerifyPassword(password, user.PasswordHash) {
		attempts := user.FailedAttempts
		if lockedUntil.Valid && !now.Before(lockedUntil.Time) {
			// expired window: the counter restarts at this failure
			attempts = 0
		}
		attempts++

		var newLock any
		if attempts >= r.maxAttempts {
			newLock = now.Add(r.lockoutDuration)
		}
		if _, err := tx.ExecContext(ctx, recordFailedAttempt, attempts, newLock, user.UserID); err != nil {
			r.logger.Err(err).Str("func", "*userRepository.Authenticate").Msg("error: recording failed attempt")
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return models.User{}, ErrInvalidCredentials
	}

	if _, err := tx.ExecContext(ctx, recordSuccessfulLogin, user.UserID); err != nil {
		r.logger.Err(err).Str("func", "*userRepository.Authenticate").Msg("error: recording successful login")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	user.FailedAttempts = 0
	user.LockedUntil = time.Time{}
	user.LastLogin = now
	return user, nil
}

// UserExists reports whether the username is registered.
func (r *userRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, userExists, username).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if isBusyErr(err) {
			return false, ErrStorageBusy
		}
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return true, nil
}

// UsernameByID resolves a user ID to its username. Returns
// [ErrNoUserWasFound] for an unknown ID.
func (r *userRepository) UsernameByID(ctx context.Context, userID int64) (string, error) {
	var username string
	err := r.db.QueryRowContext(ctx, usernameByID, userID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoUserWasFound
		}
		if isBusyErr(err) {
			return "", ErrStorageBusy
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return username, nil
}
