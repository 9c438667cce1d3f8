package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tempokey/tempokey/internal/audit"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

func TestAdd_StoresCredential(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	result, err := Add(context.Background(), AddOptions{
		Label:      "api-key",
		SecretType: vault.SecretToken,
		Secret:     []byte("tok-12345"),
		Tags:       []string{"ci", "prod"},
		Passphrase: testPass(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if result.Label != "api-key" || result.SecretType != vault.SecretToken {
		t.Errorf("result = %+v, want label api-key type token", result)
	}
	if result.Generated {
		t.Error("Generated = true for a supplied secret")
	}
	if result.ID == "" {
		t.Error("result has no credential id")
	}

	store := reopenStore(t)
	defer store.Close()
	cred, err := store.FindCredential("api-key")
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	if !bytes.Equal(cred.Secret.Data, []byte("tok-12345")) {
		t.Error("stored secret does not match the supplied value")
	}
	if len(cred.Tags) != 2 || cred.Tags[0] != "ci" {
		t.Errorf("tags = %v, want [ci prod]", cred.Tags)
	}
	if cred.PolicyID != nil {
		t.Errorf("PolicyID = %v, want nil", *cred.PolicyID)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("reading access log failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Operation != "add" || entries[0].Label != "api-key" {
		t.Errorf("access log = %+v, want a single add entry for api-key", entries)
	}
	if entries[0].SecretType != "token" {
		t.Errorf("logged secret type = %q, want token", entries[0].SecretType)
	}
}

func TestAdd_GeneratesSecretWhenNoneSupplied(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	result, err := Add(context.Background(), AddOptions{
		Label:      "generated",
		SecretType: vault.SecretKey,
		Passphrase: testPass(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !result.Generated {
		t.Error("Generated = false, want true")
	}

	store := reopenStore(t)
	defer store.Close()
	cred, err := store.FindCredential("generated")
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	if len(cred.Secret.Data) != generatedSecretLen {
		t.Errorf("generated secret is %d bytes, want %d", len(cred.Secret.Data), generatedSecretLen)
	}
}

func TestAdd_RejectsDuplicateLabel(t *testing.T) {
	withSettings(t)
	seedStore(t, func(store *vault.Store) {
		cred := store.NewCredential("api-key", vault.SecretPassword, []byte("first"))
		if err := store.AddCredential(cred); err != nil {
			t.Fatalf("seeding failed: %v", err)
		}
	})

	_, err := Add(context.Background(), AddOptions{
		Label:      "api-key",
		SecretType: vault.SecretPassword,
		Secret:     []byte("second"),
		Passphrase: testPass(),
	})
	if !errors.Is(err, terrors.ErrCredentialExists) {
		t.Errorf("error = %v, want ErrCredentialExists", err)
	}
}

func TestAdd_RejectsEmptyLabel(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	_, err := Add(context.Background(), AddOptions{Passphrase: testPass()})
	if err == nil {
		t.Error("expected an error for an empty label")
	}
}

func TestAdd_AttachesPolicyDocument(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	policyPath := filepath.Join(t.TempDir(), "policy.json")
	doc := `{"id": "deploy-window", "hooks": [{"type": "onlyFor", "duration_secs": 3600}]}`
	if err := os.WriteFile(policyPath, []byte(doc), 0600); err != nil {
		t.Fatalf("writing policy document failed: %v", err)
	}

	result, err := Add(context.Background(), AddOptions{
		Label:      "deploy-token",
		SecretType: vault.SecretToken,
		Secret:     []byte("tok-deploy"),
		PolicyFile: policyPath,
		Passphrase: testPass(),
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if result.PolicyID != "deploy-window" {
		t.Errorf("PolicyID = %q, want deploy-window", result.PolicyID)
	}

	store := reopenStore(t)
	defer store.Close()
	cred, err := store.FindCredential("deploy-token")
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	if cred.PolicyID == nil || *cred.PolicyID != "deploy-window" {
		t.Error("credential does not reference the attached policy")
	}
	if _, ok := store.GetPolicy("deploy-window"); !ok {
		t.Error("attached policy was not stored")
	}
}

func TestAdd_RejectsMalformedPolicyDocument(t *testing.T) {
	withSettings(t)
	seedStore(t, nil)

	policyPath := filepath.Join(t.TempDir(), "policy.json")
	if err := os.WriteFile(policyPath, []byte("{{{ not a document"), 0600); err != nil {
		t.Fatalf("writing policy document failed: %v", err)
	}

	_, err := Add(context.Background(), AddOptions{
		Label:      "broken",
		SecretType: vault.SecretPassword,
		Secret:     []byte("x"),
		PolicyFile: policyPath,
		Passphrase: testPass(),
	})
	if !errors.Is(err, terrors.ErrInvalidPolicyDocument) {
		t.Errorf("error = %v, want ErrInvalidPolicyDocument", err)
	}

	store := reopenStore(t)
	defer store.Close()
	if got := len(store.ListCredentials()); got != 0 {
		t.Errorf("store has %d credentials after a failed add, want 0", got)
	}
}
