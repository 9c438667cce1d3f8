package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/tempokey/tempokey/internal/configs"
)

func TestInitCommand_CreatesStore(t *testing.T) {
	storePath := setupTestEnvironment(t)

	output, err := runTempokey(t, "init")
	if err != nil {
		t.Fatalf("init failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Store created at") {
		t.Errorf("output missing success message: %s", output)
	}
	if _, err := os.Stat(storePath); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestInitCommand_RefusesExistingStore(t *testing.T) {
	setupTestEnvironment(t)

	if _, err := runTempokey(t, "init"); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	output, err := runTempokey(t, "init")
	if err != nil {
		t.Fatalf("second init should report and exit clean, got: %v", err)
	}
	if !strings.Contains(output, "already exists") {
		t.Errorf("output missing already-exists message: %s", output)
	}
}

func TestInitCommand_SaveDefaultRecordsPath(t *testing.T) {
	storePath := setupTestEnvironment(t)

	output, err := runTempokey(t, "init", "--save-default")
	if err != nil {
		t.Fatalf("init failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Recorded as the default store") {
		t.Errorf("output missing save-default message: %s", output)
	}

	config, err := configs.LoadUserConfig()
	if err != nil {
		t.Fatalf("loading user config failed: %v", err)
	}
	if config.Store != storePath {
		t.Errorf("recorded store = %q, want %q", config.Store, storePath)
	}
}
