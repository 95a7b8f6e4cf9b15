package config

import "time"

// defaultConfig returns the built-in configuration applied with the lowest
// priority. The values mirror the documented defaults: bcrypt cost 12,
// 10-minute session timeout, 5 login attempts, 15-minute lockout, amounts
// between 0.01 and 1,000,000.00.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				Path:        "data/secure_vault.db",
				BusyTimeout: 30 * time.Second,
			},
		},
		Security: Security{
			BcryptCost:       12,
			SessionTimeout:   10 * time.Minute,
			MaxLoginAttempts: 5,
			LockoutDuration:  15 * time.Minute,
		},
		Policy: Policy{
			PasswordMinLength: 8,
			CommonPasswords: []string{
				"password", "123456", "123456789", "qwerty", "abc123",
				"password123", "admin", "letmein", "welcome", "monkey",
				"1234567890", "password1", "123123", "admin123",
			},
			UsernameMinLength:    3,
			UsernameMaxLength:    20,
			EmailMaxLength:       100,
			DescriptionMaxLength: 100,
			PurposeMaxLength:     50,
			SourceMaxLength:      100,
			MinAmount:            "0.01",
			MaxAmount:            "1000000.00",
			MaxFileSizeMB:        5,
			AllowedFileExtensions: []string{
				".pdf", ".jpg", ".png", ".txt",
			},
		},
	}
}
