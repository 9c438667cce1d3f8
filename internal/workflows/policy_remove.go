package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
)

// PolicyRemoveOptions configures the policy remove workflow.
type PolicyRemoveOptions struct {
	// ID is the policy to remove.
	ID string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// PolicyRemoveResult contains the outcome of a policy remove operation.
type PolicyRemoveResult struct {
	// ID is the removed policy id.
	ID string

	// Referencing lists the labels of credentials that still reference
	// the removed policy. Their access becomes unrestricted until the
	// reference is replaced.
	Referencing []string
}

// PolicyRemove deletes a policy. Credentials that reference it keep the
// dangling reference; the result names them so the caller can warn that
// they are now unrestricted.
//
// Returns ErrPolicyNotFound if no policy has the given id.
func PolicyRemove(ctx context.Context, opts PolicyRemoveOptions) (*PolicyRemoveResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	var referencing []string
	for _, cred := range store.ListCredentials() {
		if cred.PolicyID != nil && *cred.PolicyID == opts.ID {
			referencing = append(referencing, cred.Label)
		}
	}

	if err := store.RemovePolicy(opts.ID); err != nil {
		return nil, fmt.Errorf("removing policy: %w", err)
	}

	auditEntry := audit.NewEntry("policy-remove")
	auditEntry.Policy = opts.ID
	audit.Log(auditEntry)

	return &PolicyRemoveResult{ID: opts.ID, Referencing: referencing}, nil
}
