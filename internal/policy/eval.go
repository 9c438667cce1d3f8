package policy

import (
	"strconv"
	"time"
)

// Verdict is the outcome of evaluating a policy.
type Verdict string

const (
	VerdictAccept          Verdict = "accept"
	VerdictReject          Verdict = "reject"
	VerdictExpired         Verdict = "expired"
	VerdictNotYetValid     Verdict = "not_yet_valid"
	VerdictPolicyViolation Verdict = "policy_violation"
)

// Context carries the facts a policy is evaluated against. It is built
// fresh per evaluation and never persisted. CreatedAt anchors OnlyFor
// hooks; when it is nil those hooks fail closed.
type Context struct {
	Now        time.Time
	CreatedAt  *time.Time
	LastUsedAt *time.Time
	UsageCount uint64
}

// Evaluation is the result of one policy evaluation. MatchedHooks holds
// the indices of hooks that passed before any failure; on accept it lists
// every hook. Details carries the failure reason and the index of the
// first failing hook.
type Evaluation struct {
	Verdict      Verdict           `json:"verdict"`
	Reason       string            `json:"reason,omitempty"`
	MatchedHooks []int             `json:"matched_hooks"`
	Details      map[string]string `json:"details,omitempty"`
}

// Evaluate checks the policy against ctx and returns a verdict. It is a
// pure function: no store access, no clock access, no mutation.
//
// Checks run in a fixed order and short-circuit: disabled, single-use,
// max attempts, then each hook in declared order. Hooks combine with AND
// semantics, so the first failing hook decides the verdict: an expired
// OnlyBefore or OnlyFor yields Expired, a premature OnlyAfter yields
// NotYetValid, and a missed OnlyWithin window yields PolicyViolation.
func (p *Policy) Evaluate(ctx Context) Evaluation {
	matched := []int{}
	details := map[string]string{}

	// A disabled policy constrains nothing.
	if !p.Enabled {
		details["reason"] = "Policy disabled"
		return Evaluation{
			Verdict:      VerdictAccept,
			Reason:       "Policy disabled",
			MatchedHooks: matched,
			Details:      details,
		}
	}

	if p.SingleUse && ctx.UsageCount > 0 {
		details["reason"] = "Single use policy violation"
		return Evaluation{
			Verdict:      VerdictReject,
			Reason:       "Single use policy violation",
			MatchedHooks: matched,
			Details:      details,
		}
	}

	if p.MaxAttempts != nil && ctx.UsageCount >= uint64(*p.MaxAttempts) {
		details["reason"] = "Max attempts exceeded"
		return Evaluation{
			Verdict:      VerdictReject,
			Reason:       "Max attempts exceeded",
			MatchedHooks: matched,
			Details:      details,
		}
	}

	for i, hook := range p.Hooks {
		passed := false
		switch hook.Kind {
		case HookOnlyBefore:
			// Any period shape other than an instant never passes.
			passed = hook.Period.Kind == PeriodInstant && ctx.Now.Before(hook.Period.Value)
		case HookOnlyAfter:
			passed = hook.Period.Kind == PeriodInstant && ctx.Now.After(hook.Period.Value)
		case HookOnlyWithin:
			passed = hook.Period.Kind == PeriodRange &&
				!ctx.Now.Before(hook.Period.Start) && !ctx.Now.After(hook.Period.End)
		case HookOnlyFor:
			// Without a creation anchor the hook cannot be enforced;
			// fail closed rather than grant unbounded access.
			if ctx.CreatedAt != nil {
				deadline := ctx.CreatedAt.Add(time.Duration(hook.DurationSecs) * time.Second)
				passed = !ctx.Now.After(deadline)
			}
		}

		if !passed {
			var reason string
			var verdict Verdict
			switch hook.Kind {
			case HookOnlyBefore:
				reason = "Expired (After allowed time)"
				verdict = VerdictExpired
			case HookOnlyAfter:
				reason = "NotYetValid (Before allowed time)"
				verdict = VerdictNotYetValid
			case HookOnlyWithin:
				reason = "Outside allowed window"
				verdict = VerdictPolicyViolation
			case HookOnlyFor:
				reason = "Expired (Duration elapsed)"
				verdict = VerdictExpired
			default:
				reason = "Unsupported hook"
				verdict = VerdictPolicyViolation
			}

			details["failed_hook_index"] = strconv.Itoa(i)
			details["reason"] = reason
			return Evaluation{
				Verdict:      verdict,
				Reason:       reason,
				MatchedHooks: matched,
				Details:      details,
			}
		}

		matched = append(matched, i)
	}

	return Evaluation{
		Verdict:      VerdictAccept,
		MatchedHooks: matched,
		Details:      details,
	}
}
