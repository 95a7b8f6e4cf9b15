package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/models"
)

func newTestAuditRepo(t *testing.T) (*auditRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &auditRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestAuditInsert_FullEntry(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	userID := int64(7)
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(int64(7), "john", "Successful login", "session opened", "10.0.0.5", "SUCCESS").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), models.AuditLogEntry{
		UserID:    &userID,
		Username:  "john",
		Action:    "Successful login",
		Details:   "session opened",
		IPAddress: "10.0.0.5",
		Status:    models.AuditSuccess,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAuditInsert_AnonymousDefaults(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	// nil user, empty username/ip/status fall back to the documented defaults
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(nil, "anonymous", "Failed login attempt", "invalid credentials", "127.0.0.1", "SUCCESS").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Insert(context.Background(), models.AuditLogEntry{
		Action:  "Failed login attempt",
		Details: "invalid credentials",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func auditColumns() []string {
	return []string{"id", "user_id", "username", "action", "details", "ip_address", "timestamp", "status"}
}

func TestAuditList_All(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, username").
		WillReturnRows(sqlmock.NewRows(auditColumns()).
			AddRow(2, 7, "john", "User logout", "session closed", "127.0.0.1", time.Now(), "SUCCESS").
			AddRow(1, nil, "anonymous", "Failed login attempt", "invalid credentials", "127.0.0.1", time.Now(), "FAILED"))

	entries, err := repo.List(context.Background(), 50, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID == nil || *entries[0].UserID != 7 {
		t.Error("first entry must carry user ID 7")
	}
	if entries[1].UserID != nil {
		t.Error("anonymous entry must have nil user ID")
	}
	if entries[1].Status != models.AuditFailed {
		t.Errorf("want FAILED, got %s", entries[1].Status)
	}
}

func TestAuditList_FilteredByUser(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, username").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(auditColumns()).
			AddRow(1, 7, "john", "Successful login", "session opened", "127.0.0.1", time.Now(), "SUCCESS"))

	userID := int64(7)
	entries, err := repo.List(context.Background(), 50, &userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
