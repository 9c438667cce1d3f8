package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tempokey/tempokey/internal/configs"
	"github.com/tempokey/tempokey/internal/utils"
)

// timestampFormat is RFC3339 with microseconds, always UTC.
const timestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single access log entry.
type Entry struct {
	Timestamp string `json:"ts"`             // RFC3339 with microseconds.
	User      string `json:"user,omitempty"` // OS username performing the operation.
	Host      string `json:"host,omitempty"` // Machine the operation ran on.
	Operation string `json:"op"`             // Operation name.

	// Optional fields depending on operation.
	Credential string `json:"credential,omitempty"`  // Credential id.
	Label      string `json:"label,omitempty"`       // Credential label.
	Policy     string `json:"policy,omitempty"`      // Policy id behind the verdict.
	Verdict    string `json:"verdict,omitempty"`     // Outcome of the policy evaluation.
	Reason     string `json:"reason,omitempty"`      // Why the verdict came out that way.
	SecretType string `json:"secret_type,omitempty"` // For add/rotate.
}

// NewEntry returns an entry for op with the invoking user and host filled in.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op}

	if username, err := utils.GetUsername(); err == nil {
		entry.User = username
	}
	if hostname, err := utils.GetHostname(); err == nil {
		entry.Host = hostname
	}

	return entry
}

// Log appends an entry to the access log beside the store.
// If logging fails, it is silently dropped; no operation should fail
// just because its log line could not be written.
func Log(entry Entry) {
	if !configs.StoreTempokeySettings.AuditEnabled {
		return
	}

	logPath := LogPath()
	if logPath == "" {
		// No store resolved for this invocation, skip logging.
		return
	}

	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(timestampFormat)
	}

	// The log names credentials and verdicts, never secret material,
	// but it still gets owner-only permissions like the store itself.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the access log, a sidecar of the store file.
// Returns empty string if no store is resolved for this invocation.
func LogPath() string {
	storePath := configs.StoreTempokeySettings.StorePath
	if storePath == "" {
		return ""
	}
	return storePath + ".audit.jsonl"
}

// ReadEntries reads all entries from the access log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into access log entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
