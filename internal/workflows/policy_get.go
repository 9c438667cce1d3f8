package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
)

// PolicyGetOptions configures the policy get workflow.
type PolicyGetOptions struct {
	// ID is the policy to export.
	ID string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// PolicyGetResult contains the outcome of a policy get operation.
type PolicyGetResult struct {
	// ID is the policy id.
	ID string

	// Document is the canonical JSON rendering, indented for display. It
	// parses back with policy add.
	Document []byte
}

// PolicyGet exports a stored policy as its canonical JSON document.
//
// Returns ErrPolicyNotFound if no policy has the given id.
func PolicyGet(ctx context.Context, opts PolicyGetOptions) (*PolicyGetResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	p, ok := store.GetPolicy(opts.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", terrors.ErrPolicyNotFound, opts.ID)
	}

	document, err := policy.ExportPolicy(p)
	if err != nil {
		return nil, err
	}

	return &PolicyGetResult{ID: p.ID, Document: document}, nil
}
