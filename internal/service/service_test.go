package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuhaUsman/SecureVault/internal/audit"
	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/session"
	"github.com/MuhaUsman/SecureVault/internal/validators"
	"github.com/MuhaUsman/SecureVault/models"
)

// fakeUserRepo scripts the outcomes of the durable user store.
type fakeUserRepo struct {
	createID  int64
	createErr error
	created   []string

	authUser  models.User
	authErr   error
	authCalls int

	existing map[string]bool
}

func (f *fakeUserRepo) CreateUser(_ context.Context, username, _, _ string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, username)
	return f.createID, nil
}

func (f *fakeUserRepo) Authenticate(_ context.Context, _, _ string) (models.User, error) {
	f.authCalls++
	if f.authErr != nil {
		return models.User{}, f.authErr
	}
	return f.authUser, nil
}

func (f *fakeUserRepo) UserExists(_ context.Context, username string) (bool, error) {
	return f.existing[username], nil
}

func (f *fakeUserRepo) UsernameByID(_ context.Context, _ int64) (string, error) {
	return f.authUser.Username, nil
}

// fakeLedgerRepo applies transactions to an in-memory balance so service
// tests can assert the running balance without a database.
type fakeLedgerRepo struct {
	balance   decimal.Decimal
	createErr error
	nextID    string

	transactions []models.Transaction
}

func (f *fakeLedgerRepo) Balance(_ context.Context, _ int64) (decimal.Decimal, error) {
	return f.balance, nil
}

func (f *fakeLedgerRepo) CreateTransaction(_ context.Context, userID int64, typ models.TransactionType, amount decimal.Decimal, recipient, source, description string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	switch typ {
	case models.Credit:
		f.balance = f.balance.Add(amount)
	case models.Debit:
		f.balance = f.balance.Sub(amount)
	}
	f.transactions = append(f.transactions, models.Transaction{
		TransactionID:     f.nextID,
		UserID:            userID,
		Type:              typ,
		Amount:            amount,
		RecipientUsername: recipient,
		Source:            source,
		Description:       description,
		BalanceAfter:      f.balance,
	})
	return f.nextID, nil
}

func (f *fakeLedgerRepo) Transactions(_ context.Context, _ int64, limit, offset int) ([]models.Transaction, error) {
	if offset >= len(f.transactions) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.transactions) {
		end = len(f.transactions)
	}
	return f.transactions[offset:end], nil
}

type fakeFileRepo struct {
	saved []models.StoredFile
}

func (f *fakeFileRepo) SaveFile(_ context.Context, userID int64, filename, fileType string, fileSize int64, fileHash string) (int64, error) {
	f.saved = append(f.saved, models.StoredFile{
		UserID:   userID,
		Filename: filename,
		FileType: fileType,
		FileSize: fileSize,
		FileHash: fileHash,
	})
	return int64(len(f.saved)), nil
}

func (f *fakeFileRepo) FilesByUser(_ context.Context, _ int64) ([]models.StoredFile, error) {
	return f.saved, nil
}

type fakeAuditRepo struct {
	entries []models.AuditLogEntry
}

func (f *fakeAuditRepo) Insert(_ context.Context, entry models.AuditLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ int, _ *int64) ([]models.AuditLogEntry, error) {
	return f.entries, nil
}

// hasEntry reports whether an audit entry with the given action and status
// was recorded.
func (f *fakeAuditRepo) hasEntry(action string, status models.AuditStatus) bool {
	for _, e := range f.entries {
		if e.Action == action && e.Status == status {
			return true
		}
	}
	return false
}

func testPolicy() config.Policy {
	return config.Policy{
		PasswordMinLength:     8,
		CommonPasswords:       []string{"password", "password123"},
		UsernameMinLength:     3,
		UsernameMaxLength:     20,
		EmailMaxLength:        100,
		DescriptionMaxLength:  100,
		PurposeMaxLength:      50,
		SourceMaxLength:       100,
		MinAmount:             "0.01",
		MaxAmount:             "1000000.00",
		MaxFileSizeMB:         5,
		AllowedFileExtensions: []string{".pdf", ".jpg", ".png", ".txt"},
	}
}

type testEnv struct {
	users   *fakeUserRepo
	ledger  *fakeLedgerRepo
	files   *fakeFileRepo
	audits  *fakeAuditRepo
	session *session.Manager

	accounts AccountService
	ledgers  LedgerService
}

func newTestEnv(t *testing.T, sessionTimeout time.Duration) *testEnv {
	t.Helper()

	cryptoSvc := crypto.NewService(bcrypt.MinCost)
	validator := validators.NewValidator(testPolicy())
	sessions := session.NewManager(cryptoSvc, sessionTimeout, 15*time.Minute, 5)
	audits := &fakeAuditRepo{}
	auditor := audit.NewAuditor(audits, logger.Nop())

	users := &fakeUserRepo{existing: map[string]bool{}}
	ledger := &fakeLedgerRepo{}
	files := &fakeFileRepo{}

	return &testEnv{
		users:    users,
		ledger:   ledger,
		files:    files,
		audits:   audits,
		session:  sessions,
		accounts: NewAccountService(users, cryptoSvc, validator, sessions, auditor, logger.Nop()),
		ledgers:  NewLedgerService(ledger, users, files, cryptoSvc, validator, sessions, auditor, logger.Nop()),
	}
}

// login opens a session for the given user directly through the manager.
func (e *testEnv) login(t *testing.T, username string, userID int64) {
	t.Helper()
	if _, err := e.session.CreateSession(username, userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
