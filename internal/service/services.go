package service

import (
	"github.com/MuhaUsman/SecureVault/internal/audit"
	"github.com/MuhaUsman/SecureVault/internal/config"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/session"
	"github.com/MuhaUsman/SecureVault/internal/store"
	"github.com/MuhaUsman/SecureVault/internal/validators"
)

type Services struct {
	AccountService AccountService
	LedgerService  LedgerService

	Auditor  *audit.Auditor
	Sessions *session.Manager
}

func NewServices(storages *store.Storages, cryptoSvc crypto.Service, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	validator := validators.NewValidator(cfg.Policy)
	sessions := session.NewManager(cryptoSvc, cfg.Security.SessionTimeout, cfg.Security.LockoutDuration, cfg.Security.MaxLoginAttempts)
	auditor := audit.NewAuditor(storages.Audit, logger)

	return &Services{
		AccountService: NewAccountService(storages.Users, cryptoSvc, validator, sessions, auditor, logger),
		LedgerService:  NewLedgerService(storages.Ledger, storages.Users, storages.Files, cryptoSvc, validator, sessions, auditor, logger),
		Auditor:        auditor,
		Sessions:       sessions,
	}
}
