package workflows

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tempokey/tempokey/internal/audit"
	terrors "github.com/tempokey/tempokey/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Op keeps only entries for one operation name.
	Op string

	// Since keeps only entries on or after this date (YYYY-MM-DD format).
	Since string

	// Until keeps only entries on or before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered access log entries.
	Entries []audit.Entry

	// TotalBeforeFilter is the count of entries before filtering.
	TotalBeforeFilter int
}

// Log reads and filters the access log. The log is a plaintext sidecar
// of the store, so no passphrase is needed.
//
// Returns ErrLogNotFound if no access log exists yet.
// Returns ErrInvalidTimeFormat if a date filter cannot be parsed.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	logPath := audit.LogPath()
	if logPath == "" {
		return nil, terrors.ErrLogNotFound
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return nil, terrors.ErrLogNotFound
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading access log: %w", err)
	}

	filter := audit.Filter{
		Op:      opts.Op,
		Reverse: opts.Reverse,
		Limit:   opts.Limit,
	}

	if opts.Since != "" {
		since, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since must be YYYY-MM-DD", terrors.ErrInvalidTimeFormat)
		}
		filter.Since = &since
	}

	if opts.Until != "" {
		until, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until must be YYYY-MM-DD", terrors.ErrInvalidTimeFormat)
		}
		// Include the entire day.
		end := until.Add(24*time.Hour - time.Nanosecond)
		filter.Until = &end
	}

	return &LogResult{
		Entries:           audit.FilterEntries(entries, filter),
		TotalBeforeFilter: len(entries),
	}, nil
}

// FormatDate formats an access log timestamp as YYYY-MM-DD.
func FormatDate(ts string) string {
	t, err := parseLogTimestamp(ts)
	if err != nil {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format("2006-01-02")
}

// FormatDateTime formats an access log timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(ts string) string {
	t, err := parseLogTimestamp(ts)
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

func parseLogTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}

// FormatDetails renders the operation-specific tail of a log entry for
// the default multi-line listing.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case "get", "reveal", "copy":
		subject := e.Label
		if subject == "" {
			subject = e.Credential
		}
		if e.Verdict != "" && e.Verdict != "accept" {
			return fmt.Sprintf("%s denied: %s", subject, e.Reason)
		}
		return subject
	case "add":
		if e.SecretType != "" {
			return fmt.Sprintf("%s (%s)", e.Label, e.SecretType)
		}
		return e.Label
	case "remove", "rotate":
		if e.Label != "" {
			return e.Label
		}
		return e.Credential
	case "policy-add", "policy-remove", "policy-update":
		return e.Policy
	default:
		return ""
	}
}

// FormatDetailsOneline renders the operation-specific tail of a log
// entry for the compact one-line listing.
func FormatDetailsOneline(e audit.Entry) string {
	switch e.Operation {
	case "get", "reveal", "copy":
		subject := e.Label
		if subject == "" {
			subject = e.Credential
		}
		if e.Verdict != "" && e.Verdict != "accept" {
			return fmt.Sprintf("%s (denied)", subject)
		}
		return subject
	case "add", "remove", "rotate":
		if e.Label != "" {
			return e.Label
		}
		return e.Credential
	case "policy-add", "policy-remove", "policy-update":
		return e.Policy
	default:
		return ""
	}
}
