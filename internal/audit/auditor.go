// Package audit records security and business events on a best-effort
// basis. A failed audit write never propagates to the operation it
// describes and can never roll it back.
package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/store"
	"github.com/MuhaUsman/SecureVault/models"
)

// Auditor appends audit entries through an [store.AuditRepository],
// absorbing every storage failure.
type Auditor struct {
	repo   store.AuditRepository
	logger *logger.Logger
}

// NewAuditor constructs an Auditor over the given repository.
func NewAuditor(repo store.AuditRepository, logger *logger.Logger) *Auditor {
	return &Auditor{
		repo:   repo,
		logger: logger,
	}
}

// Log appends one audit entry. Any storage failure is caught, logged at
// debug level and discarded, so the method has no error return.
func (a *Auditor) Log(ctx context.Context, userID *int64, username, action, details string, status models.AuditStatus) {
	entry := models.AuditLogEntry{
		UserID:   userID,
		Username: username,
		Action:   action,
		Details:  details,
		Status:   status,
	}

	if err := a.repo.Insert(ctx, entry); err != nil {
		// swallowed: audit failures must never abort the primary operation
		a.logger.Debug().Err(err).Str("action", action).Msg("audit write dropped")
	}
}

// Logs returns recorded entries most-recent-first, optionally filtered to
// one user. Unlike Log, read failures are surfaced.
func (a *Auditor) Logs(ctx context.Context, limit int, userID *int64) ([]models.AuditLogEntry, error) {
	return a.repo.List(ctx, limit, userID)
}

// OperationID returns a time-ordered unique identifier for correlating the
// audit entries of one multi-step flow.
func (a *Auditor) OperationID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
