package audit

import "time"

// Filter selects and orders entries for display.
type Filter struct {
	Op      string     // Keep only entries with this operation name.
	Since   *time.Time // Keep only entries at or after this instant.
	Until   *time.Time // Keep only entries at or before this instant.
	Reverse bool       // Newest first instead of log order.
	Limit   int        // Keep at most this many of the newest entries. Zero keeps all.
}

// FilterEntries applies f to entries in log order.
// Entries whose timestamp does not parse are dropped whenever a time
// bound is set; without time bounds they pass through untouched.
func FilterEntries(entries []Entry, f Filter) []Entry {
	var kept []Entry
	for _, entry := range entries {
		if f.Op != "" && entry.Operation != f.Op {
			continue
		}
		if f.Since != nil || f.Until != nil {
			ts, err := time.Parse(time.RFC3339Nano, entry.Timestamp)
			if err != nil {
				continue
			}
			if f.Since != nil && ts.Before(*f.Since) {
				continue
			}
			if f.Until != nil && ts.After(*f.Until) {
				continue
			}
		}
		kept = append(kept, entry)
	}

	if f.Reverse {
		for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
			kept[i], kept[j] = kept[j], kept[i]
		}
	}

	if f.Limit > 0 && len(kept) > f.Limit {
		if f.Reverse {
			kept = kept[:f.Limit]
		} else {
			kept = kept[len(kept)-f.Limit:]
		}
	}

	return kept
}
