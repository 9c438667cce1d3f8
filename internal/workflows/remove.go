package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	"github.com/tempokey/tempokey/internal/vault"
)

// RemoveOptions configures the remove workflow.
type RemoveOptions struct {
	// Ref is the credential id or label to remove.
	Ref string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	// ID is the removed credential's id.
	ID string

	// Label is the removed credential's label.
	Label string
}

// Remove deletes a credential by id or label. The secret bytes are wiped
// from memory once the deletion is durable on disk.
//
// Returns ErrCredentialNotFound if the reference resolves to nothing.
func Remove(ctx context.Context, opts RemoveOptions) (*RemoveResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cred, err := store.FindCredential(opts.Ref)
	if err != nil {
		return nil, err
	}

	return removeFromStore(store, cred)
}

// removeFromStore deletes a resolved credential from an already open
// store. Shared with the interactive browser.
func removeFromStore(store *vault.Store, cred *vault.Credential) (*RemoveResult, error) {
	result := &RemoveResult{ID: cred.ID, Label: cred.Label}

	if err := store.RemoveCredential(cred.ID); err != nil {
		return nil, fmt.Errorf("removing credential: %w", err)
	}

	auditEntry := audit.NewEntry("remove")
	auditEntry.Credential = result.ID
	auditEntry.Label = result.Label
	audit.Log(auditEntry)

	return result, nil
}
