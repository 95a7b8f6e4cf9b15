package store

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDuplicateUsername is returned when registration fails because the
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail is returned when registration fails because the
	// email address is already taken.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials is returned uniformly both when the identity
	// does not exist and when the password is wrong, preventing account
	// enumeration. Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountInactive is returned when the account exists but has been
	// disabled.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrNoUserWasFound is returned when a lookup expected to match a user
	// produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrInsufficientFunds is returned when a DEBIT exceeds the current
	// wallet balance. The balance is left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidTransactionType is returned for any transaction type other
	// than CREDIT or DEBIT.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrStorageBusy is returned when the database is locked longer than
	// the bounded wait allows. The operation is retriable.
	ErrStorageBusy = errors.New("storage busy, retry")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

// AccountLockedError is returned by Authenticate while the account's
// lockout window is open. Until carries the unlock time so callers can show
// it without learning anything else about the account.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked until %s", e.Until.Format("15:04:05"))
}
