// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// SecureVault core. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, an
// optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage holds the durable store settings (database location,
	// bounded-wait timeout).
	Storage Storage `envPrefix:"STORAGE_"`

	// Security holds authentication hardening settings: bcrypt work
	// factor, session timeout, and lockout parameters.
	Security Security `envPrefix:"SECURITY_"`

	// Policy holds input validation policy: password requirements,
	// length bounds, amount bounds, and file-upload limits.
	Policy Policy `envPrefix:"POLICY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration of the durable store.
type Storage struct {
	// DB holds the SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite database backend.
type DB struct {
	// Path is the filesystem location of the database file
	// (e.g. "data/secure_vault.db"). The containing directory is created
	// on first open if it does not exist.
	// Env: STORAGE_DB_PATH
	Path string `env:"PATH"`

	// BusyTimeout bounds how long a database operation waits on a locked
	// database before surfacing a retriable busy error.
	// Env: STORAGE_DB_BUSY_TIMEOUT
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT"`
}

// Security holds authentication hardening parameters.
type Security struct {
	// BcryptCost is the bcrypt work factor used when hashing passwords.
	// Env: SECURITY_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// SessionTimeout is the inactivity window after which a session is
	// destroyed (e.g. "10m").
	// Env: SECURITY_SESSION_TIMEOUT
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT"`

	// MaxLoginAttempts is the number of consecutive failed logins after
	// which the account is locked.
	// Env: SECURITY_MAX_LOGIN_ATTEMPTS
	MaxLoginAttempts int `env:"MAX_LOGIN_ATTEMPTS"`

	// LockoutDuration is how long the account stays locked once
	// MaxLoginAttempts is reached (e.g. "15m").
	// Env: SECURITY_LOCKOUT_DURATION
	LockoutDuration time.Duration `env:"LOCKOUT_DURATION"`
}

// Policy holds the input validation policy applied to all untrusted input
// before it reaches storage.
type Policy struct {
	// PasswordMinLength is the minimum accepted password length.
	// Env: POLICY_PASSWORD_MIN_LENGTH
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH"`

	// CommonPasswords is the case-insensitive denylist of passwords
	// rejected regardless of composition.
	// Env: POLICY_COMMON_PASSWORDS (comma-separated)
	CommonPasswords []string `env:"COMMON_PASSWORDS"`

	// UsernameMinLength / UsernameMaxLength bound the username length.
	UsernameMinLength int `env:"USERNAME_MIN_LENGTH"`
	UsernameMaxLength int `env:"USERNAME_MAX_LENGTH"`

	// EmailMaxLength bounds the email address length.
	// Env: POLICY_EMAIL_MAX_LENGTH
	EmailMaxLength int `env:"EMAIL_MAX_LENGTH"`

	// DescriptionMaxLength bounds transaction descriptions.
	// Env: POLICY_DESCRIPTION_MAX_LENGTH
	DescriptionMaxLength int `env:"DESCRIPTION_MAX_LENGTH"`

	// PurposeMaxLength bounds short purpose labels.
	// Env: POLICY_PURPOSE_MAX_LENGTH
	PurposeMaxLength int `env:"PURPOSE_MAX_LENGTH"`

	// SourceMaxLength bounds deposit source labels.
	// Env: POLICY_SOURCE_MAX_LENGTH
	SourceMaxLength int `env:"SOURCE_MAX_LENGTH"`

	// MinAmount and MaxAmount bound monetary amounts, inclusive, given as
	// canonical two-decimal strings (e.g. "0.01", "1000000.00").
	MinAmount string `env:"MIN_AMOUNT"`
	MaxAmount string `env:"MAX_AMOUNT"`

	// MaxFileSizeMB bounds uploaded file size in megabytes.
	// Env: POLICY_MAX_FILE_SIZE_MB
	MaxFileSizeMB int `env:"MAX_FILE_SIZE_MB"`

	// AllowedFileExtensions is the upload extension allow-list
	// (lower-case, dot-prefixed).
	// Env: POLICY_ALLOWED_FILE_EXTENSIONS (comma-separated)
	AllowedFileExtensions []string `env:"ALLOWED_FILE_EXTENSIONS"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// validate enforces the minimal invariants on top of which the core
// operates. It is called by the builder after all sources are merged.
func (c *StructuredConfig) validate() error {
	if c.Storage.DB.Path == "" {
		return ErrInvalidStorageConfigs
	}
	if c.Security.BcryptCost < minBcryptCost {
		return ErrInvalidSecurityConfigs
	}
	if c.Security.SessionTimeout <= 0 || c.Security.LockoutDuration <= 0 || c.Security.MaxLoginAttempts <= 0 {
		return ErrInvalidSecurityConfigs
	}
	if c.Policy.PasswordMinLength <= 0 || c.Policy.UsernameMinLength <= 0 ||
		c.Policy.UsernameMaxLength < c.Policy.UsernameMinLength {
		return ErrInvalidPolicyConfigs
	}
	return nil
}

// minBcryptCost is the lowest acceptable bcrypt work factor; anything
// weaker undermines the brute-force design envelope.
const minBcryptCost = 12
