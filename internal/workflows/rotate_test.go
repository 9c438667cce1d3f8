package workflows

import (
	"bytes"
	"context"
	"errors"
	"testing"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

func TestRotate_ReplacesSecret(t *testing.T) {
	withSettings(t)
	var credID string
	seedStore(t, func(store *vault.Store) {
		cred := store.NewCredential("db-password", vault.SecretPassword, []byte("old-value"))
		cred.UsageCounter = 4
		credID = cred.ID
		if err := store.AddCredential(cred); err != nil {
			t.Fatalf("seeding failed: %v", err)
		}
	})

	result, err := Rotate(context.Background(), RotateOptions{
		Ref:        "db-password",
		Secret:     []byte("new-value"),
		Passphrase: testPass(),
	})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if result.Generated {
		t.Error("Generated = true for a supplied secret")
	}
	if result.ID != credID {
		t.Errorf("ID = %q, want %q", result.ID, credID)
	}

	store := reopenStore(t)
	defer store.Close()
	cred, _ := store.GetCredential(credID)
	if !bytes.Equal(cred.Secret.Data, []byte("new-value")) {
		t.Error("stored secret was not replaced")
	}
	if cred.UsageCounter != 4 {
		t.Errorf("usage counter = %d after rotation, want 4", cred.UsageCounter)
	}
}

func TestRotate_GeneratesSecretWhenNoneSupplied(t *testing.T) {
	withSettings(t)
	var credID string
	seedStore(t, func(store *vault.Store) {
		cred := store.NewCredential("api-key", vault.SecretKey, []byte("short"))
		credID = cred.ID
		if err := store.AddCredential(cred); err != nil {
			t.Fatalf("seeding failed: %v", err)
		}
	})

	result, err := Rotate(context.Background(), RotateOptions{Ref: "api-key", Passphrase: testPass()})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if !result.Generated {
		t.Error("Generated = false, want true")
	}
	if result.SecretType != vault.SecretKey {
		t.Errorf("SecretType = %q, want key", result.SecretType)
	}

	store := reopenStore(t)
	defer store.Close()
	cred, _ := store.GetCredential(credID)
	if len(cred.Secret.Data) != generatedSecretLen {
		t.Errorf("generated secret is %d bytes, want %d", len(cred.Secret.Data), generatedSecretLen)
	}
	if bytes.Equal(cred.Secret.Data, []byte("short")) {
		t.Error("secret unchanged after rotation")
	}
}

func TestRotate_NotFound(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	_, err := Rotate(context.Background(), RotateOptions{Ref: "ghost", Passphrase: testPass()})
	if !errors.Is(err, terrors.ErrCredentialNotFound) {
		t.Errorf("error = %v, want ErrCredentialNotFound", err)
	}
}
