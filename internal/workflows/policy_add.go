package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
	"github.com/tempokey/tempokey/internal/utils"
)

// PolicyAddOptions configures the policy add workflow.
type PolicyAddOptions struct {
	// DocumentPath is the JSON or TOML policy document to load.
	DocumentPath string

	// ID overrides the document's policy id when set.
	ID string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// PolicyAddResult contains the outcome of a policy add operation.
type PolicyAddResult struct {
	// ID is the stored policy id.
	ID string

	// Version is the stored policy version.
	Version uint32

	// HookCount is the number of hooks the policy carries.
	HookCount int

	// Replaced reports whether an existing policy with the same id was
	// overwritten.
	Replaced bool
}

// PolicyAdd loads a policy document and stores it, overwriting any
// existing policy with the same id. The document is parsed before the
// store is opened, so a malformed file fails without the key derivation
// cost.
//
// Returns ErrInvalidPolicyDocument if the file cannot be parsed or the
// id is not usable.
func PolicyAdd(ctx context.Context, opts PolicyAddOptions) (*PolicyAddResult, error) {
	p, err := loadPolicyDocument(opts.DocumentPath, opts.ID)
	if err != nil {
		return nil, err
	}

	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	_, replaced := store.GetPolicy(p.ID)

	if err := store.AddPolicy(p); err != nil {
		return nil, fmt.Errorf("saving policy: %w", err)
	}

	auditEntry := audit.NewEntry("policy-add")
	auditEntry.Policy = p.ID
	audit.Log(auditEntry)

	return &PolicyAddResult{
		ID:        p.ID,
		Version:   p.Version,
		HookCount: len(p.Hooks),
		Replaced:  replaced,
	}, nil
}

// loadPolicyDocument reads and parses a policy document, applying an id
// override when one is given.
func loadPolicyDocument(path, override string) (*policy.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy document: %w", err)
	}

	p, err := policy.ParsePolicy(data)
	if err != nil {
		return nil, err
	}

	if override != "" {
		p.ID = override
	}
	if !utils.IsValidPolicyID(p.ID) {
		return nil, fmt.Errorf("%w: policy id %q may use letters, digits, hyphens, and underscores", terrors.ErrInvalidPolicyDocument, p.ID)
	}
	return p, nil
}
