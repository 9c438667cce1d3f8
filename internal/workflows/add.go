package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	// Label is the human-readable name for the new credential.
	Label string

	// SecretType is the kind of secret: password, key, or token.
	SecretType vault.SecretType

	// Secret is the secret material. Nil means a random value is generated.
	Secret []byte

	// Tags annotate the credential for listing and search.
	Tags []string

	// PolicyFile is a path to a JSON or TOML policy document. The policy is
	// stored and the new credential references it.
	PolicyFile string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	// ID is the generated credential id.
	ID string

	// Label is the credential label.
	Label string

	// SecretType is the kind of secret stored.
	SecretType vault.SecretType

	// Generated reports whether the secret value was generated rather
	// than supplied.
	Generated bool

	// PolicyID is the attached policy id, empty when none was attached.
	PolicyID string
}

// Add stores a new credential. When no secret bytes are supplied a random
// value is generated. A policy document given via PolicyFile is stored
// alongside and referenced by the credential.
//
// Returns ErrCredentialExists if the label already resolves to a
// credential. Returns ErrInvalidPolicyDocument if the policy file cannot
// be parsed.
func Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	if opts.Label == "" {
		return nil, fmt.Errorf("credential label must not be empty")
	}

	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if existing, err := store.FindCredential(opts.Label); err == nil {
		return nil, fmt.Errorf("%w: %s (id %s)", terrors.ErrCredentialExists, opts.Label, existing.ID)
	} else if !errors.Is(err, terrors.ErrCredentialNotFound) {
		return nil, err
	}

	var policyID *string
	if opts.PolicyFile != "" {
		p, err := loadPolicyDocument(opts.PolicyFile, "")
		if err != nil {
			return nil, err
		}
		if err := store.AddPolicy(p); err != nil {
			return nil, fmt.Errorf("saving policy %s: %w", p.ID, err)
		}
		policyID = &p.ID
	}

	return addToStore(store, opts.Label, opts.SecretType, opts.Secret, opts.Tags, policyID)
}

// addToStore creates and persists a credential in an already open store.
// Shared with the interactive browser.
func addToStore(store *vault.Store, label string, secretType vault.SecretType, secret []byte, tags []string, policyID *string) (*AddResult, error) {
	data, generated, err := secretOrGenerated(secret)
	if err != nil {
		return nil, err
	}

	cred := store.NewCredential(label, secretType, data)
	if len(tags) > 0 {
		cred.Tags = tags
	}
	cred.PolicyID = policyID

	if err := store.AddCredential(cred); err != nil {
		return nil, fmt.Errorf("saving credential: %w", err)
	}

	auditEntry := audit.NewEntry("add")
	auditEntry.Credential = cred.ID
	auditEntry.Label = cred.Label
	auditEntry.SecretType = string(secretType)
	if policyID != nil {
		auditEntry.Policy = *policyID
	}
	audit.Log(auditEntry)

	result := &AddResult{
		ID:         cred.ID,
		Label:      cred.Label,
		SecretType: secretType,
		Generated:  generated,
	}
	if policyID != nil {
		result.PolicyID = *policyID
	}
	return result, nil
}
