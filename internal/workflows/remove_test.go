package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/tempokey/tempokey/internal/audit"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

func TestRemove_DeletesCredential(t *testing.T) {
	withSettings(t)
	seedStore(t, func(store *vault.Store) {
		for _, label := range []string{"keep", "drop"} {
			cred := store.NewCredential(label, vault.SecretPassword, []byte(label))
			if err := store.AddCredential(cred); err != nil {
				t.Fatalf("seeding failed: %v", err)
			}
		}
	})

	result, err := Remove(context.Background(), RemoveOptions{Ref: "drop", Passphrase: testPass()})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if result.Label != "drop" {
		t.Errorf("Label = %q, want drop", result.Label)
	}

	store := reopenStore(t)
	defer store.Close()
	if _, err := store.FindCredential("drop"); !errors.Is(err, terrors.ErrCredentialNotFound) {
		t.Error("removed credential still resolves")
	}
	if _, err := store.FindCredential("keep"); err != nil {
		t.Errorf("unrelated credential went missing: %v", err)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("reading access log failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "remove" || entries[0].Label != "drop" {
		t.Errorf("access log = %+v, want a single remove entry", entries)
	}
}

func TestRemove_NotFound(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	_, err := Remove(context.Background(), RemoveOptions{Ref: "ghost", Passphrase: testPass()})
	if !errors.Is(err, terrors.ErrCredentialNotFound) {
		t.Errorf("error = %v, want ErrCredentialNotFound", err)
	}
}
