package workflows

import (
	"context"

	"github.com/tempokey/tempokey/internal/crypto"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// Credentials are summaries of every stored credential, sorted by
	// label. No secret material is included.
	Credentials []CredentialSummary
}

// List summarizes the stored credentials. Listing is a pure read: no
// usage counters move and nothing is written to the access log.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	creds := store.ListCredentials()
	summaries := make([]CredentialSummary, 0, len(creds))
	for _, cred := range creds {
		summaries = append(summaries, summarize(cred))
	}

	return &ListResult{Credentials: summaries}, nil
}
