// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MuhaUsman/SecureVault/internal/audit"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/session"
	"github.com/MuhaUsman/SecureVault/internal/store"
	"github.com/MuhaUsman/SecureVault/internal/validators"
	"github.com/MuhaUsman/SecureVault/models"
)

// defaultDepositSource labels a CREDIT whose caller did not name the
// origin of funds.
const defaultDepositSource = "Bank Transfer"

// ledgerService is the concrete implementation of LedgerService. Every
// method resolves the acting user from the session manager; an expired or
// absent session stops the operation before any storage access.
type ledgerService struct {
	ledger    store.LedgerRepository
	users     store.UserRepository
	files     store.FileRepository
	crypto    crypto.Service
	validator *validators.Validator
	sessions  *session.Manager
	auditor   *audit.Auditor

	logger *logger.Logger
}

// NewLedgerService constructs a LedgerService over the given collaborators.
func NewLedgerService(ledger store.LedgerRepository, users store.UserRepository, files store.FileRepository, cryptoSvc crypto.Service, validator *validators.Validator, sessions *session.Manager, auditor *audit.Auditor, logger *logger.Logger) LedgerService {
	return &ledgerService{
		ledger:    ledger,
		users:     users,
		files:     files,
		crypto:    cryptoSvc,
		validator: validator,
		sessions:  sessions,
		auditor:   auditor,
		logger:    logger,
	}
}

// requireSession resolves the acting user from the session manager.
// A session that crossed the inactivity window is destroyed, audited as a
// timeout, and reported as ErrSessionExpired; a session that was never
// opened is ErrNotAuthenticated. A valid session gets its activity stamped.
func (l *ledgerService) requireSession(ctx context.Context) (string, int64, error) {
	username, userID, ok := l.sessions.Current()
	if !ok {
		return "", 0, ErrNotAuthenticated
	}

	if !l.sessions.IsSessionValid() {
		l.auditor.Log(ctx, &userID, username, audit.ActionSessionTimeout, "session expired due to inactivity", models.AuditFailed)
		return "", 0, ErrSessionExpired
	}

	l.sessions.UpdateActivity()
	return username, userID, nil
}

// Deposit applies a CREDIT of amount to the logged-in user's wallet and
// returns the new transaction's ID together with the resulting balance.
func (l *ledgerService) Deposit(ctx context.Context, amount, source, description string) (string, decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	username, userID, err := l.requireSession(ctx)
	if err != nil {
		return "", decimal.Zero, err
	}

	parsed, err := l.validator.ValidateAmount(amount)
	if err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("deposit: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}
	if err := l.validator.ValidateDescription(description); err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("deposit: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}

	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultDepositSource
	}
	if err := l.validator.ValidateSource(source); err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("deposit: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}

	txnID, err := l.ledger.CreateTransaction(ctx, userID, models.Credit, parsed, "", source, description)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("deposit failed")
		l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("deposit failed: %v", err), models.AuditFailed)
		return "", decimal.Zero, fmt.Errorf("deposit failed: %w", err)
	}

	balance, err := l.ledger.Balance(ctx, userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("balance read after deposit failed")
		return txnID, decimal.Zero, fmt.Errorf("balance read after deposit failed: %w", err)
	}

	l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("CREDIT %s (%s)", parsed.StringFixed(2), txnID), models.AuditSuccess)
	return txnID, balance, nil
}

// Transfer applies a DEBIT from the logged-in user's wallet addressed to
// recipientUsername and returns the transaction ID and resulting balance.
// The recipient must exist and must not be the sender.
func (l *ledgerService) Transfer(ctx context.Context, recipientUsername, amount, purpose string) (string, decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	username, userID, err := l.requireSession(ctx)
	if err != nil {
		return "", decimal.Zero, err
	}

	if err := l.validator.ValidateUsername(recipientUsername); err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("transfer: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}
	parsed, err := l.validator.ValidateAmount(amount)
	if err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("transfer: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}
	if err := l.validator.ValidatePurpose(purpose); err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("transfer: %v", err), models.AuditFailed)
		return "", decimal.Zero, err
	}

	if strings.EqualFold(recipientUsername, username) {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, "transfer: recipient is sender", models.AuditFailed)
		return "", decimal.Zero, ErrSelfTransfer
	}

	exists, err := l.users.UserExists(ctx, recipientUsername)
	if err != nil {
		log.Err(err).Str("recipient", recipientUsername).Msg("recipient lookup failed")
		return "", decimal.Zero, fmt.Errorf("recipient lookup failed: %w", err)
	}
	if !exists {
		l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("transfer to unknown user %q", recipientUsername), models.AuditFailed)
		return "", decimal.Zero, ErrRecipientNotFound
	}

	txnID, err := l.ledger.CreateTransaction(ctx, userID, models.Debit, parsed, recipientUsername, "", purpose)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("transfer of %s rejected: insufficient funds", parsed.StringFixed(2)), models.AuditFailed)
			return "", decimal.Zero, err
		}
		log.Err(err).Int64("userID", userID).Msg("transfer failed")
		l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("transfer failed: %v", err), models.AuditFailed)
		return "", decimal.Zero, fmt.Errorf("transfer failed: %w", err)
	}

	balance, err := l.ledger.Balance(ctx, userID)
	if err != nil {
		log.Err(err).Int64("userID", userID).Msg("balance read after transfer failed")
		return txnID, decimal.Zero, fmt.Errorf("balance read after transfer failed: %w", err)
	}

	l.auditor.Log(ctx, &userID, username, audit.ActionTransactionCreate, fmt.Sprintf("DEBIT %s to %s (%s)", parsed.StringFixed(2), recipientUsername, txnID), models.AuditSuccess)
	return txnID, balance, nil
}

// Balance returns the logged-in user's current balance.
func (l *ledgerService) Balance(ctx context.Context) (decimal.Decimal, error) {
	_, userID, err := l.requireSession(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return l.ledger.Balance(ctx, userID)
}

// History lists the logged-in user's transactions most-recent-first.
func (l *ledgerService) History(ctx context.Context, limit, offset int) ([]models.Transaction, error) {
	_, userID, err := l.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	return l.ledger.Transactions(ctx, userID, limit, offset)
}

// UploadFile validates and records a supporting document for the logged-in
// user. The client-supplied name is discarded in favour of a generated one;
// the stored name is returned.
func (l *ledgerService) UploadFile(ctx context.Context, content []byte, filename string) (string, error) {
	log := logger.FromContext(ctx)

	username, userID, err := l.requireSession(ctx)
	if err != nil {
		return "", err
	}

	if err := l.validator.ValidateFileUpload(content, filename); err != nil {
		l.auditor.Log(ctx, &userID, username, audit.ActionValidationFailed, fmt.Sprintf("file upload: %v", err), models.AuditFailed)
		return "", err
	}

	storedName := validators.SanitizeFilename(filename)
	fileHash := l.crypto.HashFileContent(content)
	fileType := strings.ToLower(filepath.Ext(filename))

	if _, err := l.files.SaveFile(ctx, userID, storedName, fileType, int64(len(content)), fileHash); err != nil {
		log.Err(err).Int64("userID", userID).Msg("file metadata save failed")
		return "", fmt.Errorf("file metadata save failed: %w", err)
	}

	l.auditor.Log(ctx, &userID, username, audit.ActionFileUpload, fmt.Sprintf("stored %s (%d bytes)", storedName, len(content)), models.AuditSuccess)
	return storedName, nil
}

// Files lists the logged-in user's uploaded file records.
func (l *ledgerService) Files(ctx context.Context) ([]models.StoredFile, error) {
	_, userID, err := l.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	return l.files.FilesByUser(ctx, userID)
}
