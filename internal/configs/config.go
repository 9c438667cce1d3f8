package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStoreName is the store file used when nothing else names one.
const DefaultStoreName = "store.tempo"

// UserConfig is the optional per-user configuration loaded from config.toml.
type UserConfig struct {
	// Store is the default store path, used when neither the --store flag
	// nor TEMPOKEY_STORE names one.
	Store string `toml:"store"`

	// Audit toggles the access log written beside the store.
	// Absent means enabled.
	Audit *bool `toml:"audit"`
}

// AuditEnabled reports whether the access log should be written.
func (c *UserConfig) AuditEnabled() bool {
	if c.Audit == nil {
		return true
	}
	return *c.Audit
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields an empty config, not an error.
func LoadUserConfig() (*UserConfig, error) {
	configPath := filepath.Join(UserTempokeySettings.UserConfigsPath, "config.toml")

	config := &UserConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	configPath := filepath.Join(UserTempokeySettings.UserConfigsPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// SetDefaultStore records path as the default store in the user config.
func SetDefaultStore(path string) error {
	config, err := LoadUserConfig()
	if err != nil {
		return fmt.Errorf("failed to load user config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve store path: %w", err)
	}

	config.Store = absPath
	if err := SaveUserConfig(config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}
