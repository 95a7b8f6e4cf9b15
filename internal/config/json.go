package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration parsing. It exists so the JSON file can use
// human-readable durations ("10m") without changing the main config type.
type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			Path        string   `json:"path"`
			BusyTimeout Duration `json:"busy_timeout"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Security struct {
		BcryptCost       int      `json:"bcrypt_cost"`
		SessionTimeout   Duration `json:"session_timeout"`
		MaxLoginAttempts int      `json:"max_login_attempts"`
		LockoutDuration  Duration `json:"lockout_duration"`
	} `json:"security,omitempty"`

	Policy struct {
		PasswordMinLength     int      `json:"password_min_length"`
		CommonPasswords       []string `json:"common_passwords"`
		UsernameMinLength     int      `json:"username_min_length"`
		UsernameMaxLength     int      `json:"username_max_length"`
		EmailMaxLength        int      `json:"email_max_length"`
		DescriptionMaxLength  int      `json:"description_max_length"`
		PurposeMaxLength      int      `json:"purpose_max_length"`
		SourceMaxLength       int      `json:"source_max_length"`
		MinAmount             string   `json:"min_amount"`
		MaxAmount             string   `json:"max_amount"`
		MaxFileSizeMB         int      `json:"max_file_size_mb"`
		AllowedFileExtensions []string `json:"allowed_file_extensions"`
	} `json:"policy,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			DB: DB{
				Path:        jsonCfg.Storage.DB.Path,
				BusyTimeout: time.Duration(jsonCfg.Storage.DB.BusyTimeout),
			},
		},
		Security: Security{
			BcryptCost:       jsonCfg.Security.BcryptCost,
			SessionTimeout:   time.Duration(jsonCfg.Security.SessionTimeout),
			MaxLoginAttempts: jsonCfg.Security.MaxLoginAttempts,
			LockoutDuration:  time.Duration(jsonCfg.Security.LockoutDuration),
		},
		Policy: Policy{
			PasswordMinLength:     jsonCfg.Policy.PasswordMinLength,
			CommonPasswords:       jsonCfg.Policy.CommonPasswords,
			UsernameMinLength:     jsonCfg.Policy.UsernameMinLength,
			UsernameMaxLength:     jsonCfg.Policy.UsernameMaxLength,
			EmailMaxLength:        jsonCfg.Policy.EmailMaxLength,
			DescriptionMaxLength:  jsonCfg.Policy.DescriptionMaxLength,
			PurposeMaxLength:      jsonCfg.Policy.PurposeMaxLength,
			SourceMaxLength:       jsonCfg.Policy.SourceMaxLength,
			MinAmount:             jsonCfg.Policy.MinAmount,
			MaxAmount:             jsonCfg.Policy.MaxAmount,
			MaxFileSizeMB:         jsonCfg.Policy.MaxFileSizeMB,
			AllowedFileExtensions: jsonCfg.Policy.AllowedFileExtensions,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
