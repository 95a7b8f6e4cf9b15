package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// TestBuild_DefaultsAlone verifies that the built-in defaults alone form a
// valid configuration.
func TestBuild_DefaultsAlone(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.Security.SessionTimeout)
	assert.Equal(t, 5, cfg.Security.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Security.LockoutDuration)
	assert.Equal(t, "0.01", cfg.Policy.MinAmount)
	assert.Equal(t, "1000000.00", cfg.Policy.MaxAmount)
	assert.NotEmpty(t, cfg.Policy.CommonPasswords)
	assert.Contains(t, cfg.Policy.AllowedFileExtensions, ".pdf")
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_HigherPrioritySourceWins verifies that a value set by an
// earlier source is not overwritten by the defaults merged in later.
func TestBuild_HigherPrioritySourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Security: Security{BcryptCost: 14},
		Storage:  Storage{DB: DB{Path: "override.db"}},
	})
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Security.BcryptCost)
	assert.Equal(t, "override.db", cfg.Storage.DB.Path)
	// untouched fields still come from defaults
	assert.Equal(t, 5, cfg.Security.MaxLoginAttempts)
}

// TestBuild_RejectsWeakBcryptCost verifies the validation floor on the
// bcrypt work factor.
func TestBuild_RejectsWeakBcryptCost(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Storage:  Storage{DB: DB{Path: "vault.db"}},
		Security: Security{BcryptCost: 10, SessionTimeout: time.Minute, MaxLoginAttempts: 5, LockoutDuration: time.Minute},
		Policy:   Policy{PasswordMinLength: 8, UsernameMinLength: 3, UsernameMaxLength: 20},
	})

	_, err := b.build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSecurityConfigs)
}

func TestValidate(t *testing.T) {
	base := func() *StructuredConfig { return defaultConfig() }

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("missing db path", func(t *testing.T) {
		cfg := base()
		cfg.Storage.DB.Path = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})

	t.Run("zero session timeout", func(t *testing.T) {
		cfg := base()
		cfg.Security.SessionTimeout = 0
		assert.ErrorIs(t, cfg.validate(), ErrInvalidSecurityConfigs)
	})

	t.Run("username bounds inverted", func(t *testing.T) {
		cfg := base()
		cfg.Policy.UsernameMinLength = 30
		assert.ErrorIs(t, cfg.validate(), ErrInvalidPolicyConfigs)
	})
}

// TestParseJSON verifies JSON loading including human-readable durations.
func TestParseJSON(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"storage": map[string]any{
			"db": map[string]any{"path": "json.db", "busy_timeout": "45s"},
		},
		"security": map[string]any{
			"bcrypt_cost":     13,
			"session_timeout": "20m",
		},
	})

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "json.db", cfg.Storage.DB.Path)
	assert.Equal(t, 45*time.Second, cfg.Storage.DB.BusyTimeout)
	assert.Equal(t, 13, cfg.Security.BcryptCost)
	assert.Equal(t, 20*time.Minute, cfg.Security.SessionTimeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("does-not-exist.json")
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"1h30m"`), &d))
	assert.Equal(t, 90*time.Minute, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, time.Duration(d))

	require.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
}

// TestParseEnv verifies that environment variables reach the nested
// sections through their prefixes.
func TestParseEnv(t *testing.T) {
	t.Setenv("SECURITY_BCRYPT_COST", "13")
	t.Setenv("STORAGE_DB_PATH", "env.db")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, 13, cfg.Security.BcryptCost)
	assert.Equal(t, "env.db", cfg.Storage.DB.Path)
}
