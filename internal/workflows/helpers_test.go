package workflows

import (
	"path/filepath"
	"testing"

	"github.com/tempokey/tempokey/internal/configs"
	"github.com/tempokey/tempokey/internal/crypto"
	"github.com/tempokey/tempokey/internal/vault"
)

const testPassphrase = "workflow-test-passphrase"

// testPass returns a fresh passphrase secret. Workflows never destroy
// the passphrase they are handed, but each call gets its own buffer so
// tests cannot alias each other.
func testPass() *crypto.Secret {
	return crypto.NewSecret([]byte(testPassphrase))
}

// withSettings points the resolved store settings at a path inside a
// fresh temp dir, restoring the previous settings when the test ends.
// No store file exists yet; seedStore creates one.
func withSettings(t *testing.T) string {
	t.Helper()

	storePath := filepath.Join(t.TempDir(), "test.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	t.Cleanup(func() {
		configs.StoreTempokeySettings = originalSettings
	})

	return storePath
}

// seedStore creates a store at the resolved settings path and hands it
// to populate before closing, so tests can set up credentials and
// policies with a single key derivation.
func seedStore(t *testing.T, populate func(*vault.Store)) {
	t.Helper()

	store, err := vault.Init(configs.StoreTempokeySettings.StorePath, testPass())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	if populate != nil {
		populate(store)
	}
}

// reopenStore opens the seeded store for verification. The caller must
// Close it.
func reopenStore(t *testing.T) *vault.Store {
	t.Helper()

	store, err := vault.Open(configs.StoreTempokeySettings.StorePath, testPass())
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	return store
}
