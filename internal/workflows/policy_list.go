package workflows

import (
	"context"

	"github.com/tempokey/tempokey/internal/crypto"
)

// PolicyListOptions configures the policy list workflow.
type PolicyListOptions struct {
	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// PolicySummary is the listing view of one stored policy.
type PolicySummary struct {
	ID          string
	Version     uint32
	HookCount   int
	Enabled     bool
	SingleUse   bool
	MaxAttempts *uint32
}

// PolicyListResult contains the outcome of a policy list operation.
type PolicyListResult struct {
	// Policies are summaries of every stored policy, sorted by id.
	Policies []PolicySummary
}

// PolicyList summarizes the stored policies.
func PolicyList(ctx context.Context, opts PolicyListOptions) (*PolicyListResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	policies := store.ListPolicies()
	summaries := make([]PolicySummary, 0, len(policies))
	for _, p := range policies {
		summary := PolicySummary{
			ID:        p.ID,
			Version:   p.Version,
			HookCount: len(p.Hooks),
			Enabled:   p.Enabled,
			SingleUse: p.SingleUse,
		}
		if p.MaxAttempts != nil {
			max := *p.MaxAttempts
			summary.MaxAttempts = &max
		}
		summaries = append(summaries, summary)
	}

	return &PolicyListResult{Policies: summaries}, nil
}
