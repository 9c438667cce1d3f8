package policy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	terrors "github.com/tempokey/tempokey/internal/errors"
)

// Document shapes for the interchange format. The same structs back both
// serializations: json tags drive the canonical JSON form, toml tags the
// TOML import. Pointer fields distinguish absent from zero so defaults
// can be applied after decoding.

type periodDoc struct {
	Type    string     `json:"type" toml:"type"`
	Value   *time.Time `json:"value,omitempty" toml:"value"`
	Start   *time.Time `json:"start,omitempty" toml:"start"`
	End     *time.Time `json:"end,omitempty" toml:"end"`
	Seconds *uint64    `json:"seconds,omitempty" toml:"seconds"`
}

type hookDoc struct {
	Type         string     `json:"type" toml:"type"`
	Period       *periodDoc `json:"period,omitempty" toml:"period"`
	DurationSecs *uint64    `json:"duration_secs,omitempty" toml:"duration_secs"`
}

type policyDoc struct {
	ID            string    `json:"id" toml:"id"`
	Hooks         []hookDoc `json:"hooks" toml:"hooks"`
	Timezone      *string   `json:"timezone" toml:"timezone"`
	ClockSkewSecs *uint64   `json:"clock_skew_secs" toml:"clock_skew_secs"`
	MaxAttempts   *uint32   `json:"max_attempts" toml:"max_attempts"`
	SingleUse     *bool     `json:"single_use" toml:"single_use"`
	Enabled       *bool     `json:"enabled,omitempty" toml:"enabled"`
	Version       *uint32   `json:"version" toml:"version"`
}

func (d *periodDoc) toPeriod() (Period, error) {
	switch PeriodKind(d.Type) {
	case PeriodInstant:
		if d.Value == nil {
			return Period{}, fmt.Errorf("instant period requires a value")
		}
		return Instant(*d.Value), nil
	case PeriodRange:
		if d.Start == nil || d.End == nil {
			return Period{}, fmt.Errorf("range period requires start and end")
		}
		return Range(*d.Start, *d.End), nil
	case PeriodDuration:
		if d.Seconds == nil {
			return Period{}, fmt.Errorf("duration period requires seconds")
		}
		return Duration(*d.Seconds), nil
	default:
		return Period{}, fmt.Errorf("unknown period type %q", d.Type)
	}
}

func (d *hookDoc) toHook() (Hook, error) {
	switch HookKind(d.Type) {
	case HookOnlyBefore, HookOnlyAfter, HookOnlyWithin:
		if d.Period == nil {
			return Hook{}, fmt.Errorf("%s hook requires a period", d.Type)
		}
		p, err := d.Period.toPeriod()
		if err != nil {
			return Hook{}, fmt.Errorf("%s hook: %v", d.Type, err)
		}
		return Hook{Kind: HookKind(d.Type), Period: p}, nil
	case HookOnlyFor:
		if d.DurationSecs == nil {
			return Hook{}, fmt.Errorf("onlyFor hook requires duration_secs")
		}
		return OnlyFor(*d.DurationSecs), nil
	default:
		return Hook{}, fmt.Errorf("unknown hook type %q", d.Type)
	}
}

func (d *policyDoc) toPolicy() (*Policy, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("policy id is required")
	}

	p := New(d.ID)
	p.Timezone = d.Timezone
	if d.ClockSkewSecs != nil {
		p.ClockSkewSecs = *d.ClockSkewSecs
	}
	p.MaxAttempts = d.MaxAttempts
	if d.SingleUse != nil {
		p.SingleUse = *d.SingleUse
	}
	if d.Enabled != nil {
		p.Enabled = *d.Enabled
	}
	if d.Version != nil {
		p.Version = *d.Version
	}

	for _, hd := range d.Hooks {
		h, err := hd.toHook()
		if err != nil {
			return nil, err
		}
		p.AddHook(h)
	}
	return p, nil
}

func (pd Period) toDoc() periodDoc {
	switch pd.Kind {
	case PeriodInstant:
		v := pd.Value
		return periodDoc{Type: string(pd.Kind), Value: &v}
	case PeriodRange:
		s, e := pd.Start, pd.End
		return periodDoc{Type: string(pd.Kind), Start: &s, End: &e}
	default:
		secs := pd.Seconds
		return periodDoc{Type: string(pd.Kind), Seconds: &secs}
	}
}

// MarshalJSON encodes the period in tagged-union form.
func (pd Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(pd.toDoc())
}

// UnmarshalJSON decodes the tagged-union form.
func (pd *Period) UnmarshalJSON(data []byte) error {
	var doc periodDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p, err := doc.toPeriod()
	if err != nil {
		return err
	}
	*pd = p
	return nil
}

// MarshalJSON encodes the hook in tagged-union form.
func (h Hook) MarshalJSON() ([]byte, error) {
	if h.Kind == HookOnlyFor {
		secs := h.DurationSecs
		return json.Marshal(hookDoc{Type: string(h.Kind), DurationSecs: &secs})
	}
	p := h.Period.toDoc()
	return json.Marshal(hookDoc{Type: string(h.Kind), Period: &p})
}

// UnmarshalJSON decodes the tagged-union form.
func (h *Hook) UnmarshalJSON(data []byte) error {
	var doc hookDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	parsed, err := doc.toHook()
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// UnmarshalJSON decodes a policy, applying constructor defaults for
// absent fields. Documents written before the enabled field existed stay
// enabled rather than silently deactivating.
func (p *Policy) UnmarshalJSON(data []byte) error {
	var doc policyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	parsed, err := doc.toPolicy()
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// ParsePolicy parses an interchange document as JSON first, then as TOML.
// Both failures are reported together so the caller can see why neither
// format matched.
func ParsePolicy(data []byte) (*Policy, error) {
	var doc policyDoc
	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr != nil {
		doc = policyDoc{}
		if tomlErr := toml.Unmarshal(data, &doc); tomlErr != nil {
			return nil, fmt.Errorf("%w: JSON: %v; TOML: %v", terrors.ErrInvalidPolicyDocument, jsonErr, tomlErr)
		}
	}

	p, err := doc.toPolicy()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", terrors.ErrInvalidPolicyDocument, err)
	}
	return p, nil
}

// ExportPolicy renders the canonical JSON form, indented for humans.
func ExportPolicy(p *Policy) ([]byte, error) {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy %s: %w", p.ID, err)
	}
	return out, nil
}
