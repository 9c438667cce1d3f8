// Package policy implements time- and usage-based access policies.
//
// A policy is an ordered list of hooks evaluated with AND semantics: every
// hook must pass for access to be granted, and evaluation stops at the
// first failing hook. Policies also carry usage constraints (single-use,
// max attempts) that are checked before any hook runs.
//
// # Hooks and Periods
//
// Hooks constrain when access is allowed:
//
//	OnlyBefore(Instant)  // valid until a point in time
//	OnlyAfter(Instant)   // valid from a point in time
//	OnlyWithin(Range)    // valid inside a closed interval
//	OnlyFor(seconds)     // valid for a duration after creation
//
// Each hook accepts exactly one period shape. Handing a hook the wrong
// shape (say, OnlyBefore with a Range) is a defined failure at evaluation
// time, not a parse error: the hook simply never passes.
//
// # Evaluation
//
// Evaluate is a pure function over a policy and a context (current time,
// optional creation time, usage count). It returns a verdict, the indices
// of hooks that passed before any failure, and a details map with the
// failure reason. A non-accept verdict is a normal result, not an error.
//
// Evaluation never consults the wall clock itself; callers supply the
// current time in the context, which keeps the engine deterministic and
// testable.
//
// # Interchange Format
//
// Policies round-trip through a tagged-union document format. Import
// accepts JSON or TOML (JSON is tried first); export is canonical JSON.
// Variant discriminators live in a "type" field with camelCase names
// (onlyBefore, instant, ...); other fields use snake_case
// (duration_secs, clock_skew_secs).
//
// The timezone and clock_skew_secs fields are carried and round-tripped
// but not applied by evaluation. They are advisory: reserved for
// zone-aware and skew-tolerant comparison without breaking the stored
// format when that lands.
package policy
