package workflows

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/juju/clock"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
)

// EvalOptions configures the eval workflow.
type EvalOptions struct {
	// PolicyFile is the path of the JSON or TOML policy document to
	// evaluate.
	PolicyFile string

	// At is the evaluation time in RFC 3339 form. Empty means now.
	At string

	// CreatedAt anchors onlyFor hooks, in RFC 3339 form. Empty means the
	// evaluation time, as if the credential had just been created.
	CreatedAt string

	// UsageCount is the prior usage count to evaluate against.
	UsageCount uint64
}

// EvalResult contains the outcome of an eval operation.
type EvalResult struct {
	// PolicyID is the id of the evaluated policy.
	PolicyID string

	// At is the instant the policy was evaluated against, in UTC.
	At time.Time

	// Evaluation is the verdict.
	Evaluation policy.Evaluation
}

// Eval evaluates a policy document against a synthetic context without
// opening any store. It reads no secrets, writes nothing, and leaves no
// access log entry, so it is safe to run against production documents.
//
// Returns ErrInvalidPolicyDocument if the file cannot be parsed.
// Returns ErrInvalidTimeFormat if a time flag is not RFC 3339.
func Eval(ctx context.Context, opts EvalOptions) (*EvalResult, error) {
	data, err := os.ReadFile(opts.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("reading policy document: %w", err)
	}

	p, err := policy.ParsePolicy(data)
	if err != nil {
		return nil, err
	}

	at := clock.WallClock.Now().UTC()
	if opts.At != "" {
		parsed, err := time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return nil, fmt.Errorf("%w: --time must be RFC 3339, like 2026-01-02T15:04:05Z", terrors.ErrInvalidTimeFormat)
		}
		at = parsed.UTC()
	}

	created := at
	if opts.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, opts.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: --created must be RFC 3339, like 2026-01-02T15:04:05Z", terrors.ErrInvalidTimeFormat)
		}
		created = parsed.UTC()
	}

	eval := p.Evaluate(policy.Context{
		Now:        at,
		CreatedAt:  &created,
		UsageCount: opts.UsageCount,
	})

	return &EvalResult{
		PolicyID:   p.ID,
		At:         at,
		Evaluation: eval,
	}, nil
}
