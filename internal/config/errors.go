package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid durable store settings
	// (for example, an empty database path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSecurityConfigs indicates invalid security settings
	// (for example, a bcrypt cost below the accepted minimum or a
	// non-positive lockout window).
	ErrInvalidSecurityConfigs = errors.New("invalid security configuration")
	// ErrInvalidPolicyConfigs indicates invalid validation policy settings
	// (for example, inverted username length bounds).
	ErrInvalidPolicyConfigs = errors.New("invalid policy configuration")
)
