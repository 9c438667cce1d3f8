package policy

import "time"

// Defaults applied by New and by the document codec when a field is absent.
const (
	DefaultTimezone      = "UTC"
	DefaultClockSkewSecs = 60
)

// PeriodKind discriminates the shape of a Period.
type PeriodKind string

const (
	PeriodInstant  PeriodKind = "instant"
	PeriodRange    PeriodKind = "range"
	PeriodDuration PeriodKind = "duration"
)

// HookKind discriminates the kind of a Hook.
type HookKind string

const (
	HookOnlyBefore HookKind = "onlyBefore"
	HookOnlyAfter  HookKind = "onlyAfter"
	HookOnlyWithin HookKind = "onlyWithin"
	HookOnlyFor    HookKind = "onlyFor"
)

// Period is a tagged time shape. Only the fields belonging to Kind are
// meaningful; the rest stay zero.
type Period struct {
	Kind    PeriodKind
	Value   time.Time // instant
	Start   time.Time // range
	End     time.Time // range
	Seconds uint64    // duration
}

// Instant builds a point-in-time period.
func Instant(value time.Time) Period {
	return Period{Kind: PeriodInstant, Value: value}
}

// Range builds a closed interval period.
func Range(start, end time.Time) Period {
	return Period{Kind: PeriodRange, Start: start, End: end}
}

// Duration builds a duration period. No hook currently matches this shape;
// it exists so documents that carry it still parse and round-trip.
func Duration(seconds uint64) Period {
	return Period{Kind: PeriodDuration, Seconds: seconds}
}

// Hook is one access constraint in a policy. Before, after, and within
// hooks carry a Period; for hooks carry a duration in seconds anchored to
// the credential's creation time.
type Hook struct {
	Kind         HookKind
	Period       Period
	DurationSecs uint64
}

// OnlyBefore builds a hook that passes while now precedes the period's instant.
func OnlyBefore(p Period) Hook {
	return Hook{Kind: HookOnlyBefore, Period: p}
}

// OnlyAfter builds a hook that passes once now has passed the period's instant.
func OnlyAfter(p Period) Hook {
	return Hook{Kind: HookOnlyAfter, Period: p}
}

// OnlyWithin builds a hook that passes while now is inside the period's range.
func OnlyWithin(p Period) Hook {
	return Hook{Kind: HookOnlyWithin, Period: p}
}

// OnlyFor builds a hook that passes until the given number of seconds has
// elapsed since the credential was created.
func OnlyFor(durationSecs uint64) Hook {
	return Hook{Kind: HookOnlyFor, DurationSecs: durationSecs}
}

// Policy is an ordered set of access constraints stored by id. Hook order
// is significant: evaluation walks hooks in declared order and reports the
// first failure.
type Policy struct {
	ID            string  `json:"id"`
	Hooks         []Hook  `json:"hooks"`
	Timezone      *string `json:"timezone"`
	ClockSkewSecs uint64  `json:"clock_skew_secs"`
	MaxAttempts   *uint32 `json:"max_attempts"`
	SingleUse     bool    `json:"single_use"`
	Enabled       bool    `json:"enabled"`
	Version       uint32  `json:"version"`
}

// New returns a policy with the given id and default settings: UTC
// timezone, 60 second advisory skew, unlimited attempts, multi-use,
// enabled, version 1.
func New(id string) *Policy {
	tz := DefaultTimezone
	return &Policy{
		ID:            id,
		Hooks:         []Hook{},
		Timezone:      &tz,
		ClockSkewSecs: DefaultClockSkewSecs,
		SingleUse:     false,
		Enabled:       true,
		Version:       1,
	}
}

// AddHook appends a hook and returns the policy for chaining.
func (p *Policy) AddHook(h Hook) *Policy {
	p.Hooks = append(p.Hooks, h)
	return p
}
