// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhaUsman/SecureVault/internal/audit"
	"github.com/MuhaUsman/SecureVault/internal/crypto"
	"github.com/MuhaUsman/SecureVault/internal/logger"
	"github.com/MuhaUsman/SecureVault/internal/session"
	"github.com/MuhaUsman/SecureVault/internal/store"
	"github.com/MuhaUsman/SecureVault/internal/validators"
	"github.com/MuhaUsman/SecureVault/models"
)

// accountService is the concrete implementation of AccountService.
// It composes input validation, password hashing, the durable user store,
// the in-process session manager, and the auditor into the registration and
// login flows.
type accountService struct {
	users     store.UserRepository
	crypto    crypto.Service
	validator *validators.Validator
	sessions  *session.Manager
	auditor   *audit.Auditor

	logger *logger.Logger
}

// NewAccountService constructs an AccountService over the given
// collaborators. The returned service is safe for concurrent use.
func NewAccountService(users store.UserRepository, cryptoSvc crypto.Service, validator *validators.Validator, sessions *session.Manager, auditor *audit.Auditor, logger *logger.Logger) AccountService {
	return &accountService{
		users:     users,
		crypto:    cryptoSvc,
		validator: validator,
		sessions:  sessions,
		auditor:   auditor,
		logger:    logger,
	}
}

// Register creates a new account after validating every field.
//
// Validation failures and duplicate identities are audited as failed
// registrations before the error is returned. On success the new user ID is
// returned and the registration is audited.
func (a *accountService) Register(ctx context.Context, username, email, password string) (int64, error) {
	// op correlates the audit row of this attempt with the log lines
	op := a.auditor.OperationID()
	log := logger.FromContext(ctx)

	if err := a.validator.ValidateUsername(username); err != nil {
		a.auditor.Log(ctx, nil, username, audit.ActionValidationFailed, fmt.Sprintf("registration: %v (op %s)", err, op), models.AuditFailed)
		return 0, err
	}
	if err := a.validator.ValidateEmail(email); err != nil {
		a.auditor.Log(ctx, nil, username, audit.ActionValidationFailed, fmt.Sprintf("registration: %v (op %s)", err, op), models.AuditFailed)
		return 0, err
	}
	if err := a.validator.ValidatePassword(password); err != nil {
		a.auditor.Log(ctx, nil, username, audit.ActionValidationFailed, fmt.Sprintf("registration: %v (op %s)", err, op), models.AuditFailed)
		return 0, err
	}

	passwordHash, err := a.crypto.HashPassword(password)
	if err != nil {
		log.Err(err).Str("op", op).Str("username", username).Msg("password hashing failed")
		return 0, fmt.Errorf("password hashing failed: %w", err)
	}

	userID, err := a.users.CreateUser(ctx, username, email, passwordHash)
	if err != nil {
		log.Err(err).Str("op", op).Str("username", username).Msg("user creation ended with error")
		a.auditor.Log(ctx, nil, username, audit.ActionRegister, fmt.Sprintf("registration failed: %v (op %s)", err, op), models.AuditFailed)
		return 0, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.auditor.Log(ctx, &userID, username, audit.ActionRegister, fmt.Sprintf("new account created (op %s)", op), models.AuditSuccess)
	return userID, nil
}

// Login authenticates a user by username or email and opens a session.
//
// The in-process lockout window is consulted before storage is hit, so a
// locked identity never reaches the password check. Failed attempts are
// mirrored into the session manager's counters; reaching the threshold is
// audited as an account lock. On success the session token is returned
// together with the authenticated user.
func (a *accountService) Login(ctx context.Context, usernameOrEmail, password string) (models.User, string, error) {
	log := logger.FromContext(ctx)

	if usernameOrEmail == "" || password == "" {
		return models.User{}, "", ErrInvalidDataProvided
	}

	if locked, until := a.sessions.IsAccountLocked(usernameOrEmail); locked {
		a.auditor.Log(ctx, nil, usernameOrEmail, audit.ActionLoginFailed, "attempt while account locked", models.AuditFailed)
		return models.User{}, "", &store.AccountLockedError{Until: until}
	}

	user, err := a.users.Authenticate(ctx, usernameOrEmail, password)
	if err != nil {
		var lockedErr *store.AccountLockedError
		switch {
		case errors.As(err, &lockedErr):
			a.sessions.RecordLoginAttempt(usernameOrEmail, false)
			a.auditor.Log(ctx, nil, usernameOrEmail, audit.ActionAccountLocked, lockedErr.Error(), models.AuditFailed)
		case errors.Is(err, store.ErrInvalidCredentials):
			a.sessions.RecordLoginAttempt(usernameOrEmail, false)
			a.auditor.Log(ctx, nil, usernameOrEmail, audit.ActionLoginFailed, "invalid credentials", models.AuditFailed)
		default:
			log.Err(err).Str("identity", usernameOrEmail).Msg("authentication failed")
			a.auditor.Log(ctx, nil, usernameOrEmail, audit.ActionLoginFailed, fmt.Sprintf("authentication error: %v", err), models.AuditFailed)
		}
		return models.User{}, "", err
	}

	a.sessions.RecordLoginAttempt(user.Username, true)

	token, err := a.sessions.CreateSession(user.Username, user.UserID)
	if err != nil {
		log.Err(err).Str("username", user.Username).Msg("session creation failed")
		return models.User{}, "", fmt.Errorf("session creation failed: %w", err)
	}

	a.auditor.Log(ctx, &user.UserID, user.Username, audit.ActionLoginSuccess, "session opened", models.AuditSuccess)
	return user, token, nil
}

// Logout destroys the current session, if any, and audits the event.
func (a *accountService) Logout(ctx context.Context) {
	username, userID, ok := a.sessions.Current()
	a.sessions.DestroySession()

	if ok {
		a.auditor.Log(ctx, &userID, username, audit.ActionLogout, "session closed", models.AuditSuccess)
	}
}

// RemainingAttempts reports the failed logins left before lockout.
func (a *accountService) RemainingAttempts(username string) int {
	return a.sessions.GetRemainingAttempts(username)
}

// PasswordStrength scores a candidate password for interactive feedback.
func (a *accountService) PasswordStrength(password string) (int, []string) {
	return a.validator.PasswordStrength(password)
}
