package store_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/tempokey/tempokey/test/integration/shared"
)

// TestStoreLifecycleIntegration drives the credential commands end to end
// against a real encrypted store file: create it, fill it, read it back,
// rotate and remove entries, and inspect the access log it leaves behind.
func TestStoreLifecycleIntegration(t *testing.T) {
	t.Run("initialize new store", testInitializeNewStore)
	t.Run("reinitialize is refused", testReinitializeRefused)
	t.Run("add get rotate remove", testAddGetRotateRemove)
	t.Run("generated key secret", testGeneratedKeySecret)
	t.Run("wrong passphrase is rejected", testWrongPassphraseRejected)
	t.Run("access log trails operations", testAccessLogTrailsOperations)
}

func testInitializeNewStore(t *testing.T) {
	storePath := shared.SetupTestEnvironment(t)

	output, err := shared.RunCLI(t, "init")
	if err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Store created at") {
		t.Errorf("Expected creation message, got: %s", output)
	}
	if _, err := os.Stat(storePath); err != nil {
		t.Errorf("Store file missing after init: %v", err)
	}
}

func testReinitializeRefused(t *testing.T) {
	shared.SetupTestEnvironment(t)

	if output, err := shared.RunCLI(t, "init"); err != nil {
		t.Fatalf("First init failed: %v\nOutput: %s", err, output)
	}

	output, err := shared.RunCLI(t, "init")
	if err != nil {
		t.Fatalf("Second init should report gracefully, got error: %v", err)
	}
	if !strings.Contains(output, "already exists") {
		t.Errorf("Expected existing-store message, got: %s", output)
	}
}

func testAddGetRotateRemove(t *testing.T) {
	shared.SetupTestEnvironment(t)

	if output, err := shared.RunCLI(t, "init"); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	var output string
	var err error
	shared.WithStdin(t, "hunter2\n", func() {
		output, err = shared.RunCLI(t, "add", "prod-db", "--type", "password", "--tag", "env:prod")
	})
	if err != nil {
		t.Fatalf("add failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Stored") || !strings.Contains(output, "prod-db") {
		t.Errorf("Expected stored confirmation, got: %s", output)
	}

	output, err = shared.RunCLI(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"prod-db", "password", "env:prod"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected listing to mention %q, got: %s", want, output)
		}
	}

	output, err = shared.RunCLI(t, "get", "prod-db")
	if err != nil {
		t.Fatalf("get failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "hunter2") {
		t.Errorf("Expected secret value in output, got: %s", output)
	}

	shared.WithStdin(t, "n3w-secret\n", func() {
		output, err = shared.RunCLI(t, "rotate", "prod-db")
	})
	if err != nil {
		t.Fatalf("rotate failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Rotated secret for") {
		t.Errorf("Expected rotation confirmation, got: %s", output)
	}

	output, err = shared.RunCLI(t, "get", "prod-db")
	if err != nil {
		t.Fatalf("get after rotate failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "n3w-secret") {
		t.Errorf("Expected rotated value, got: %s", output)
	}
	if strings.Contains(output, "hunter2") {
		t.Errorf("Old value still returned after rotation: %s", output)
	}

	output, err = shared.RunCLI(t, "remove", "prod-db")
	if err != nil {
		t.Fatalf("remove failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Removed") {
		t.Errorf("Expected removal confirmation, got: %s", output)
	}

	output, err = shared.RunCLI(t, "get", "prod-db")
	if err != nil {
		t.Fatalf("get of removed credential should report gracefully, got error: %v", err)
	}
	if !strings.Contains(output, "credential not found") {
		t.Errorf("Expected not-found message, got: %s", output)
	}
}

func testGeneratedKeySecret(t *testing.T) {
	shared.SetupTestEnvironment(t)

	if output, err := shared.RunCLI(t, "init"); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	var output string
	var err error
	shared.WithStdin(t, "", func() {
		output, err = shared.RunCLI(t, "add", "api-key", "--type", "key")
	})
	if err != nil {
		t.Fatalf("add failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "generated") {
		t.Errorf("Expected generation notice, got: %s", output)
	}

	output, err = shared.RunCLI(t, "get", "api-key")
	if err != nil {
		t.Fatalf("get failed: %v\nOutput: %s", err, output)
	}
	secret := strings.TrimSpace(output)
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(secret) {
		t.Errorf("Expected 32 hex-encoded random bytes, got: %q", secret)
	}
}

func testWrongPassphraseRejected(t *testing.T) {
	shared.SetupTestEnvironment(t)

	if output, err := shared.RunCLI(t, "init"); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	var output string
	var err error
	shared.WithStdin(t, "hunter2\n", func() {
		output, err = shared.RunCLI(t, "add", "prod-db")
	})
	if err != nil {
		t.Fatalf("add failed: %v\nOutput: %s", err, output)
	}

	t.Setenv("TEMPOKEY_PASSPHRASE", "not-the-passphrase")

	output, err = shared.RunCLI(t, "list")
	if err != nil {
		t.Fatalf("list with wrong passphrase should report gracefully, got error: %v", err)
	}
	if !strings.Contains(output, "Could not decrypt the store") {
		t.Errorf("Expected decryption failure message, got: %s", output)
	}
	if strings.Contains(output, "prod-db") {
		t.Errorf("Credential labels leaked despite wrong passphrase: %s", output)
	}
}

func testAccessLogTrailsOperations(t *testing.T) {
	shared.SetupTestEnvironment(t)

	if output, err := shared.RunCLI(t, "init"); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}

	var output string
	var err error
	shared.WithStdin(t, "hunter2\n", func() {
		output, err = shared.RunCLI(t, "add", "prod-db")
	})
	if err != nil {
		t.Fatalf("add failed: %v\nOutput: %s", err, output)
	}
	if output, err = shared.RunCLI(t, "get", "prod-db"); err != nil {
		t.Fatalf("get failed: %v\nOutput: %s", err, output)
	}

	output, err = shared.RunCLI(t, "log")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	for _, want := range []string{"add", "get", "testuser", "prod-db"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log to mention %q, got: %s", want, output)
		}
	}
	if strings.Contains(output, "hunter2") {
		t.Errorf("Secret value leaked into the access log: %s", output)
	}

	output, err = shared.RunCLI(t, "log", "--op", "get")
	if err != nil {
		t.Fatalf("filtered log failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "get") {
		t.Errorf("Expected get entry in filtered log, got: %s", output)
	}
	if strings.Contains(output, "add") {
		t.Errorf("Expected add entries filtered out, got: %s", output)
	}
}
