package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTempConfigDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	oldUserConfigsPath := UserTempokeySettings.UserConfigsPath
	UserTempokeySettings.UserConfigsPath = tempDir
	t.Cleanup(func() {
		UserTempokeySettings.UserConfigsPath = oldUserConfigsPath
	})
	return tempDir
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	withTempConfigDir(t)

	auditOff := false
	config := &UserConfig{
		Store: "/vaults/work.tempo",
		Audit: &auditOff,
	}

	err := SaveUserConfig(config)
	if err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loadedConfig, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if loadedConfig.Store != config.Store {
		t.Errorf("Expected Store %q, got %q", config.Store, loadedConfig.Store)
	}

	if loadedConfig.Audit == nil || *loadedConfig.Audit != false {
		t.Errorf("Expected Audit false, got %v", loadedConfig.Audit)
	}
}

func TestLoadUserConfigNonExistent(t *testing.T) {
	withTempConfigDir(t)

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if config == nil {
		t.Fatal("Expected config to not be nil")
	}

	if config.Store != "" {
		t.Errorf("Expected empty store path, got %q", config.Store)
	}

	if !config.AuditEnabled() {
		t.Error("Audit should default to enabled")
	}
}

func TestLoadUserConfigMalformed(t *testing.T) {
	tempDir := withTempConfigDir(t)

	configPath := filepath.Join(tempDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("store = [unclosed"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadUserConfig(); err == nil {
		t.Fatal("Expected error for malformed config, got nil")
	}
}

func TestAuditEnabled(t *testing.T) {
	on := true
	off := false

	tests := []struct {
		name     string
		audit    *bool
		expected bool
	}{
		{"Absent", nil, true},
		{"ExplicitTrue", &on, true},
		{"ExplicitFalse", &off, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := &UserConfig{Audit: tc.audit}
			if config.AuditEnabled() != tc.expected {
				t.Errorf("AuditEnabled() = %v, expected %v", config.AuditEnabled(), tc.expected)
			}
		})
	}
}

func TestSetDefaultStore(t *testing.T) {
	withTempConfigDir(t)

	if err := SetDefaultStore("work.tempo"); err != nil {
		t.Fatalf("SetDefaultStore failed: %v", err)
	}

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if config.Store == "" {
		t.Fatal("SetDefaultStore did not record the store path")
	}
	if !filepath.IsAbs(config.Store) {
		t.Errorf("Expected absolute path, got %q", config.Store)
	}
	if !strings.HasSuffix(config.Store, "work.tempo") {
		t.Errorf("Expected path ending in work.tempo, got %q", config.Store)
	}
}

func TestSetDefaultStore_PreservesAuditToggle(t *testing.T) {
	withTempConfigDir(t)

	auditOff := false
	if err := SaveUserConfig(&UserConfig{Audit: &auditOff}); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	if err := SetDefaultStore("work.tempo"); err != nil {
		t.Fatalf("SetDefaultStore failed: %v", err)
	}

	config, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if config.AuditEnabled() {
		t.Error("SetDefaultStore must not reset the audit toggle")
	}
}
