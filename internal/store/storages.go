package store

import (
	"context"
	"fmt"

	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
)

// Storages aggregates every repository over one shared database handle.
// It is constructed once at startup and passed by dependency injection
// into the components that need durable access.
type Storages struct {
	Users  UserRepository
	Ledger LedgerRepository
	Audit  AuditRepository
	Files  FileRepository

	db *DB
}

// NewStorages opens the configured database, applies migrations, and wires
// all repositories.
func NewStorages(ctx context.Context, cfg config.StructuredConfig, cryptoSvc crypto.Service, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Storages{
		Users:  NewUserRepository(db, cryptoSvc, cfg.Security, log),
		Ledger: NewLedgerRepository(db, cryptoSvc, log),
		Audit:  NewAuditRepository(db, log),
		Files:  NewFileRepository(db, log),
		db:     db,
	}, nil
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
