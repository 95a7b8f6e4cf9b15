package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

// newLiveDB opens a real SQLite database in a temp directory and applies
// the migrations. Unlike the sqlmock tests this exercises the actual DSN,
// including the immediate-exclusive write lock.
func newLiveDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.DB{
		Path:        filepath.Join(t.TempDir(), "vault.db"),
		BusyTimeout: 30 * time.Second,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createLiveUser(t *testing.T, db *DB, cryptoSvc crypto.Service, username, email string) int64 {
	t.Helper()

	hash, err := cryptoSvc.HashPassword("Secret@123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users := NewUserRepository(db, cryptoSvc, config.Security{
		MaxLoginAttempts: 5,
		LockoutDuration:  15 * time.Minute,
	}, logger.Nop())
	userID, err := users.CreateUser(context.Background(), username, email, hash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return userID
}

func TestCreateTransaction_ConcurrentCreditsLoseNoUpdates(t *testing.T) {
	ctx := context.Background()
	db := newLiveDB(t)
	cryptoSvc := crypto.NewService(bcrypt.MinCost)
	l := logger.Nop()

	userID := createLiveUser(t, db, cryptoSvc, "alice", "alice@example.com")

	repo := NewLedgerRepository(db, cryptoSvc, l)

	const writers = 20
	one := decimal.RequireFromString("1.00")

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CreateTransaction(ctx, userID, models.Credit, one, "", "", ""); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent credit failed: %v", err)
	}

	balance, err := repo.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.New(writers, 0); !balance.Equal(want) {
		t.Errorf("lost update: want balance %s, got %s", want.StringFixed(2), balance.StringFixed(2))
	}

	transactions, err := repo.Transactions(ctx, userID, writers*2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != writers {
		t.Errorf("want %d transaction rows, got %d", writers, len(transactions))
	}
	for _, tr := range transactions {
		if !tr.Amount.Equal(one) {
			t.Errorf("transaction %s: want amount 1.00, got %s", tr.TransactionID, tr.Amount.StringFixed(2))
		}
	}
}

func TestCreateTransaction_LiveDebitBelowZeroRejected(t *testing.T) {
	ctx := context.Background()
	db := newLiveDB(t)
	cryptoSvc := crypto.NewService(bcrypt.MinCost)
	l := logger.Nop()

	userID := createLiveUser(t, db, cryptoSvc, "bob", "bob@example.com")

	repo := NewLedgerRepository(db, cryptoSvc, l)
	if _, err := repo.CreateTransaction(ctx, userID, models.Credit, decimal.RequireFromString("70.00"), "", "Bank Transfer", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := repo.CreateTransaction(ctx, userID, models.Debit, decimal.RequireFromString("1000.00"), "", "", "")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	balance, err := repo.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.StringFixed(2) != "70.00" {
		t.Errorf("failed debit must leave balance unchanged, got %s", balance.StringFixed(2))
	}
}
