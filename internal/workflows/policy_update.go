package workflows

import (
	"context"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
)

// PolicyUpdateOptions configures the policy update workflow. Nil fields
// are left untouched; the cmd layer sets only the flags the user passed.
type PolicyUpdateOptions struct {
	// ID is the policy to update.
	ID string

	// Enabled enables or disables the policy when set.
	Enabled *bool

	// ClockSkewSecs replaces the advisory clock skew when set.
	ClockSkewSecs *uint64

	// Timezone replaces the advisory timezone when set.
	Timezone *string

	// MaxAttempts replaces the attempt ceiling when set.
	MaxAttempts *uint32

	// SingleUse sets or clears the single-use restriction when set.
	SingleUse *bool

	// Passphrase unlocks the store. The caller prompts for it.
	Passphrase *crypto.Secret
}

// PolicyUpdateResult contains the outcome of a policy update operation.
type PolicyUpdateResult struct {
	// ID is the policy id.
	ID string

	// Updated reports whether any field changed. The version increments
	// only then.
	Updated bool

	// Version is the policy version after the update.
	Version uint32
}

// PolicyUpdate applies the set fields to a stored policy and bumps its
// version once. With no fields set, nothing is written and the version
// stays put.
//
// Returns ErrPolicyNotFound if no policy has the given id.
func PolicyUpdate(ctx context.Context, opts PolicyUpdateOptions) (*PolicyUpdateResult, error) {
	store, err := openStore(opts.Passphrase)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	current, ok := store.GetPolicy(opts.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", terrors.ErrPolicyNotFound, opts.ID)
	}

	// Work on a copy so a failed save leaves the stored policy intact.
	// The hooks slice is shared; updates never touch hooks.
	updated := *current
	p := &updated
	changed := false

	if opts.Enabled != nil {
		p.Enabled = *opts.Enabled
		changed = true
	}
	if opts.ClockSkewSecs != nil {
		p.ClockSkewSecs = *opts.ClockSkewSecs
		changed = true
	}
	if opts.Timezone != nil {
		p.Timezone = opts.Timezone
		changed = true
	}
	if opts.MaxAttempts != nil {
		p.MaxAttempts = opts.MaxAttempts
		changed = true
	}
	if opts.SingleUse != nil {
		p.SingleUse = *opts.SingleUse
		changed = true
	}

	if !changed {
		return &PolicyUpdateResult{ID: p.ID, Updated: false, Version: p.Version}, nil
	}

	p.Version++
	if err := store.AddPolicy(p); err != nil {
		return nil, fmt.Errorf("saving policy: %w", err)
	}

	auditEntry := audit.NewEntry("policy-update")
	auditEntry.Policy = p.ID
	audit.Log(auditEntry)

	return &PolicyUpdateResult{ID: p.ID, Updated: true, Version: p.Version}, nil
}
