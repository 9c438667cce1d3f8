package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	"github.com/tempokey/tempokey/internal/policy"
	"github.com/tempokey/tempokey/internal/vault"
)

// GetOptions configures the get workflow.
type GetOptions struct {
	// Ref is the credential id or label to fetch.
	Ref string

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// GetResult contains the outcome of one gated credential access. The
// browser's Reveal and ClipboardContent produce the same shape.
type GetResult struct {
	// ID is the resolved credential id.
	ID string

	// Label is the resolved credential label.
	Label string

	// SecretType is the kind of secret the credential holds.
	SecretType vault.SecretType

	// Secret is the rendered secret value: passwords as text, keys and
	// tokens hex-encoded. Empty when access was denied.
	Secret string

	// Denied reports whether the credential's policy rejected the access.
	Denied bool

	// PolicyID is the referenced policy, when the credential has one.
	PolicyID string

	// PolicyMissing reports a dangling policy reference. Access proceeds
	// unrestricted, but the caller may want to surface it.
	PolicyMissing bool

	// Evaluation is the policy verdict, when a policy was evaluated.
	Evaluation *policy.Evaluation

	// UsageCount is the credential's usage counter after this access.
	// Unchanged on denial.
	UsageCount uint64
}

// Get resolves a credential by id or label, applies its policy, and on
// accept renders the secret and records the use.
//
// A denial is not an error: the result carries Denied along with the
// Evaluation, and the usage counter stays untouched.
//
// Returns ErrCredentialNotFound if the reference resolves to nothing.
func Get(ctx context.Context, opts GetOptions) (*GetResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	cred, err := store.FindCredential(opts.Ref)
	if err != nil {
		return nil, err
	}

	return accessCredential(store, cred, "get")
}

// accessCredential applies the policy gate to cred and, when access is
// granted, renders the secret and increments the usage counter. The op
// names the access log entry; get, reveal, and copy all funnel through
// here so the gate cannot drift between them.
func accessCredential(store *vault.Store, cred *vault.Credential, op string) (*GetResult, error) {
	result := &GetResult{
		ID:         cred.ID,
		Label:      cred.Label,
		SecretType: cred.Secret.Type,
		UsageCount: cred.UsageCounter,
	}

	check := checkAccess(store, cred, store.Now())
	result.PolicyID = check.policyID
	result.PolicyMissing = check.missing
	result.Evaluation = check.eval

	auditEntry := audit.NewEntry(op)
	auditEntry.Credential = cred.ID
	auditEntry.Label = cred.Label
	auditEntry.Policy = check.policyID

	if check.denied() {
		result.Denied = true
		auditEntry.Verdict = string(check.eval.Verdict)
		auditEntry.Reason = check.eval.Reason
		audit.Log(auditEntry)
		return result, nil
	}

	result.Secret = cred.DisplaySecret()

	if err := store.IncrementUsage(cred.ID); err != nil {
		return nil, fmt.Errorf("recording credential use: %w", err)
	}
	result.UsageCount = cred.UsageCounter

	if check.eval != nil {
		auditEntry.Verdict = string(check.eval.Verdict)
	}
	if check.missing {
		auditEntry.Reason = "policy missing"
	}
	audit.Log(auditEntry)

	return result, nil
}
