package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path
//	-c/-config json file path with configs
//	-bcrypt-cost bcrypt work factor
//	-session-timeout session inactivity window (e.g., "10m")
//	-max-login-attempts failed logins before lockout
//	-lockout-duration lockout window length (e.g., "15m")
//	-busy-timeout database bounded-wait timeout (e.g., "30s")
func ParseFlags() *StructuredConfig {
	var databasePath string
	var jsonConfigPath string
	var bcryptCost int
	var sessionTimeout time.Duration
	var maxLoginAttempts int
	var lockoutDuration time.Duration
	var busyTimeout time.Duration

	flag.StringVar(&databasePath, "d", "", "Database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor")
	flag.DurationVar(&sessionTimeout, "session-timeout", 0, "Session timeout (e.g., 10m)")
	flag.IntVar(&maxLoginAttempts, "max-login-attempts", 0, "Failed logins before lockout")
	flag.DurationVar(&lockoutDuration, "lockout-duration", 0, "Lockout duration (e.g., 15m)")
	flag.DurationVar(&busyTimeout, "busy-timeout", 0, "Database busy timeout (e.g., 30s)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				Path:        databasePath,
				BusyTimeout: busyTimeout,
			},
		},
		Security: Security{
			BcryptCost:       bcryptCost,
			SessionTimeout:   sessionTimeout,
			MaxLoginAttempts: maxLoginAttempts,
			LockoutDuration:  lockoutDuration,
		},
		JSONFilePath: jsonConfigPath,
	}
}
