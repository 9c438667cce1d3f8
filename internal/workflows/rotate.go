package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	"github.com/tempokey/tempokey/internal/vault"
)

// RotateOptions configures the rotate workflow.
type RotateOptions struct {
	// Ref is the credential id or label to rotate.
	Ref string

	// Secret is the replacement secret material. Nil means a random value
	// is generated.
	Secret []byte

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	// ID is the rotated credential's id.
	ID string

	// Label is the rotated credential's label.
	Label string

	// SecretType is the kind of secret the credential holds. Rotation
	// replaces the value, never the type.
	SecretType vault.SecretType

	// Generated reports whether the new value was generated rather than
	// supplied.
	Generated bool
}

// Rotate replaces a credential's secret value. The superseded bytes are
// wiped from memory once the new value is durable on disk. The usage
// counter is untouched; rotation is not a use.
//
// Returns ErrCredentialNotFound if the reference resolves to nothing.
func Rotate(ctx context.Context, opts RotateOptions) (*RotateResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cred, err := store.FindCredential(opts.Ref)
	if err != nil {
		return nil, err
	}

	return rotateInStore(store, cred, opts.Secret)
}

// rotateInStore replaces the secret of a resolved credential in an
// already open store. Shared with the interactive browser.
func rotateInStore(store *vault.Store, cred *vault.Credential, secret []byte) (*RotateResult, error) {
	data, generated, err := secretOrGenerated(secret)
	if err != nil {
		return nil, err
	}

	if err := store.RotateCredential(cred.ID, data); err != nil {
		return nil, fmt.Errorf("rotating credential: %w", err)
	}

	auditEntry := audit.NewEntry("rotate")
	auditEntry.Credential = cred.ID
	auditEntry.Label = cred.Label
	auditEntry.SecretType = string(cred.Secret.Type)
	audit.Log(auditEntry)

	return &RotateResult{
		ID:         cred.ID,
		Label:      cred.Label,
		SecretType: cred.Secret.Type,
		Generated:  generated,
	}, nil
}
