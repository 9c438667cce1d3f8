package workflows

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

// Browser is an interactive session over an open store. Unlike the
// one-shot workflows it keeps the store open across commands, maintains
// a filtered view of the credential list, and applies the same policy
// gate as Get when a secret is revealed or copied.
//
// A Browser is not safe for concurrent use; the browse command drives it
// from a single prompt loop.
type Browser struct {
	store  *vault.Store
	filter string
}

// NewBrowser opens the resolved store for an interactive session. Close
// must be called when the session ends.
func NewBrowser(passphrase *crypto.Secret) (*Browser, error) {
	store, err := openStore(passphrase)
	if err != nil {
		return nil, err
	}
	return &Browser{store: store}, nil
}

// Close wipes the decrypted store from memory. The browser must not be
// used afterwards.
func (b *Browser) Close() {
	b.store.Close()
}

// StorePath reports the file backing the session.
func (b *Browser) StorePath() string {
	return b.store.Path()
}

// SetFilter installs a case-insensitive substring filter over credential
// labels. An empty query shows everything.
func (b *Browser) SetFilter(query string) {
	b.filter = strings.TrimSpace(query)
}

// Filter reports the active filter query.
func (b *Browser) Filter() string {
	return b.filter
}

// visibleCredentials lists the credentials matching the active filter,
// sorted by label.
func (b *Browser) visibleCredentials() []*vault.Credential {
	creds := b.store.ListCredentials()
	if b.filter == "" {
		return creds
	}

	query := strings.ToLower(b.filter)
	var visible []*vault.Credential
	for _, cred := range creds {
		if strings.Contains(strings.ToLower(cred.Label), query) {
			visible = append(visible, cred)
		}
	}
	return visible
}

// Visible summarizes the credentials matching the active filter, sorted
// by label. Positions in this listing are the numbers Resolve accepts.
func (b *Browser) Visible() []CredentialSummary {
	creds := b.visibleCredentials()
	summaries := make([]CredentialSummary, 0, len(creds))
	for _, cred := range creds {
		summaries = append(summaries, summarize(cred))
	}
	return summaries
}

// Resolve finds a credential by listing number, id, or label. Numbers
// are 1-based positions in the current Visible listing.
func (b *Browser) Resolve(ref string) (*vault.Credential, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		visible := b.visibleCredentials()
		if n < 1 || n > len(visible) {
			return nil, fmt.Errorf("%w: no entry %d in the current listing", terrors.ErrCredentialNotFound, n)
		}
		return visible[n-1], nil
	}
	return b.store.FindCredential(ref)
}

// Reveal returns the rendered secret for ref, applying the credential's
// policy and recording the use. A denial comes back in the result, not
// as an error.
func (b *Browser) Reveal(ref string) (*GetResult, error) {
	cred, err := b.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return accessCredential(b.store, cred, "reveal")
}

// ClipboardContent returns the secret rendered for the clipboard, under
// the same gate and accounting as Reveal. The caller owns the actual
// clipboard write.
func (b *Browser) ClipboardContent(ref string) (*GetResult, error) {
	cred, err := b.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return accessCredential(b.store, cred, "copy")
}

// Add creates a credential from inside the session. Empty secret bytes
// mean a random value is generated.
func (b *Browser) Add(label string, secretType vault.SecretType, secret []byte) (*AddResult, error) {
	if label == "" {
		return nil, fmt.Errorf("credential label must not be empty")
	}

	if existing, err := b.store.FindCredential(label); err == nil {
		return nil, fmt.Errorf("%w: %s (id %s)", terrors.ErrCredentialExists, label, existing.ID)
	} else if !errors.Is(err, terrors.ErrCredentialNotFound) {
		return nil, err
	}

	return addToStore(b.store, label, secretType, secret, nil, nil)
}

// Rotate replaces the secret of the referenced credential. Empty secret
// bytes mean a random value is generated.
func (b *Browser) Rotate(ref string, secret []byte) (*RotateResult, error) {
	cred, err := b.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return rotateInStore(b.store, cred, secret)
}

// Remove deletes the referenced credential. The browse command confirms
// with the user before calling this.
func (b *Browser) Remove(ref string) (*RemoveResult, error) {
	cred, err := b.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return removeFromStore(b.store, cred)
}
