package workflows

import (
	"fmt"
	"time"

	"github.com/tempokey/tempokey/internal/configs"
	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
	"github.com/tempokey/tempokey/internal/vault"
)

// generatedSecretLen is the size of auto-generated secret values.
const generatedSecretLen = 32

// openStore opens the store resolved for this invocation. The caller owns
// the returned store and must Close it.
func openStore(passphrase *crypto.Secret) (*vault.Store, error) {
	storePath := configs.StoreTempokeySettings.StorePath
	if storePath == "" {
		return nil, terrors.ErrStoreNotFound
	}
	return vault.Open(storePath, passphrase)
}

// secretOrGenerated returns the provided secret bytes, or a fresh random
// value when none were provided. The second return reports generation.
func secretOrGenerated(data []byte) ([]byte, bool, error) {
	if len(data) > 0 {
		return data, false, nil
	}
	generated, err := crypto.GenerateRandomBytes(generatedSecretLen)
	if err != nil {
		return nil, false, fmt.Errorf("generating secret value: %w", err)
	}
	return generated, true, nil
}

// accessCheck is the outcome of applying a credential's policy reference.
type accessCheck struct {
	policyID string             // referenced policy id, if any
	missing  bool               // reference dangles; access is unrestricted
	eval     *policy.Evaluation // verdict, when a policy was evaluated
}

// checkAccess evaluates the credential's policy, if any, at the given
// time. A credential without a policy, or whose policy has been removed
// from the store, is unrestricted.
func checkAccess(s *vault.Store, cred *vault.Credential, now time.Time) accessCheck {
	if cred.PolicyID == nil {
		return accessCheck{}
	}

	check := accessCheck{policyID: *cred.PolicyID}
	p, ok := s.GetPolicy(*cred.PolicyID)
	if !ok {
		check.missing = true
		return check
	}

	created, lastUsed := cred.CreatedAt, cred.UpdatedAt
	eval := p.Evaluate(policy.Context{
		Now:        now,
		CreatedAt:  &created,
		LastUsedAt: &lastUsed,
		UsageCount: cred.UsageCounter,
	})
	check.eval = &eval
	return check
}

// denied reports whether the check evaluated to anything but accept.
func (c accessCheck) denied() bool {
	return c.eval != nil && c.eval.Verdict != policy.VerdictAccept
}

// CredentialSummary is the metadata of one credential, carrying no secret
// material. Summaries stay valid after the store is closed.
type CredentialSummary struct {
	ID         string
	Label      string
	SecretType vault.SecretType
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	PolicyID   string
	UsageCount uint64
}

// summarize copies a credential's metadata into a CredentialSummary.
func summarize(cred *vault.Credential) CredentialSummary {
	summary := CredentialSummary{
		ID:         cred.ID,
		Label:      cred.Label,
		SecretType: cred.Secret.Type,
		Tags:       cred.Tags,
		CreatedAt:  cred.CreatedAt,
		UpdatedAt:  cred.UpdatedAt,
		UsageCount: cred.UsageCounter,
	}
	if cred.PolicyID != nil {
		summary.PolicyID = *cred.PolicyID
	}
	return summary
}
