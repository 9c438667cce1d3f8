package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tempokey/tempokey/internal/configs"
)

func TestLog_CreatesFile(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	entry := Entry{
		Operation:  "get",
		Credential: "cred-1",
		Verdict:    "accept",
	}
	Log(entry)

	logPath := storePath + ".audit.jsonl"
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("Access log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	Log(Entry{Operation: "add", Credential: "cred-1"})
	Log(Entry{Operation: "get", Credential: "cred-1"})
	Log(Entry{Operation: "remove", Credential: "cred-1"})

	data, err := os.ReadFile(storePath + ".audit.jsonl")
	if err != nil {
		t.Fatalf("Failed to read access log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLog_ValidJSON(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	entry := Entry{
		Operation:  "get",
		Credential: "cred-1",
		Label:      "github-deploy",
		Policy:     "deploy-window",
		Verdict:    "expired",
		Reason:     "Expired (After allowed time)",
	}
	Log(entry)

	data, err := os.ReadFile(storePath + ".audit.jsonl")
	if err != nil {
		t.Fatalf("Failed to read access log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.Operation != "get" {
		t.Errorf("Expected operation get, got %s", parsed.Operation)
	}
	if parsed.Verdict != "expired" {
		t.Errorf("Expected verdict expired, got %s", parsed.Verdict)
	}
	if parsed.Policy != "deploy-window" {
		t.Errorf("Expected policy deploy-window, got %s", parsed.Policy)
	}
}

func TestLog_TimestampFormat(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	// Log an entry without timestamp (should be auto-set).
	Log(Entry{Operation: "get"})

	data, err := os.ReadFile(storePath + ".audit.jsonl")
	if err != nil {
		t.Fatalf("Failed to read access log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	// Check timestamp format: 2006-01-02T15:04:05.000000Z.
	if parsed.Timestamp == "" {
		t.Errorf("Timestamp should be auto-set")
	}
	if !strings.HasSuffix(parsed.Timestamp, "Z") {
		t.Errorf("Timestamp should end with Z, got %s", parsed.Timestamp)
	}
	if !strings.Contains(parsed.Timestamp, ".") {
		t.Errorf("Timestamp should contain microseconds, got %s", parsed.Timestamp)
	}
	if _, err := time.Parse(time.RFC3339Nano, parsed.Timestamp); err != nil {
		t.Errorf("Timestamp should parse as RFC3339: %v", err)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	// An init entry has no credential or verdict.
	Log(Entry{Operation: "init"})

	data, err := os.ReadFile(storePath + ".audit.jsonl")
	if err != nil {
		t.Fatalf("Failed to read access log: %v", err)
	}

	line := strings.TrimSpace(string(data))

	if strings.Contains(line, `"credential"`) {
		t.Errorf("Empty credential field should be omitted")
	}
	if strings.Contains(line, `"verdict"`) {
		t.Errorf("Empty verdict field should be omitted")
	}
	if strings.Contains(line, `"policy"`) {
		t.Errorf("Empty policy field should be omitted")
	}
}

func TestLog_NoStorePath(t *testing.T) {
	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    "",
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	// Log should not panic or error.
	Log(Entry{Operation: "get"}) // Should silently do nothing.
}

func TestLog_Disabled(t *testing.T) {
	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "store.tempo")

	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    storePath,
		AuditEnabled: false,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	Log(Entry{Operation: "get", Credential: "cred-1"})

	if _, err := os.Stat(storePath + ".audit.jsonl"); !os.IsNotExist(err) {
		t.Errorf("Disabled audit must not write a log file")
	}
}

func TestNewEntry(t *testing.T) {
	entry := NewEntry("rotate")

	if entry.Operation != "rotate" {
		t.Errorf("Expected operation rotate, got %s", entry.Operation)
	}
	if entry.User == "" {
		t.Errorf("Expected user to be filled in")
	}
	if entry.Host == "" {
		t.Errorf("Expected host to be filled in")
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2025-03-15T10:30:00.123456Z","op":"get","credential":"cred-1","verdict":"accept"}
{"ts":"2025-03-15T10:35:00.456789Z","op":"get","credential":"cred-2","verdict":"expired"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Credential != "cred-1" {
		t.Errorf("Expected first credential cred-1, got %s", entries[0].Credential)
	}
	if entries[1].Verdict != "expired" {
		t.Errorf("Expected second verdict expired, got %s", entries[1].Verdict)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2025-03-15T10:30:00.123456Z","op":"get"}
this is not valid json
{"ts":"2025-03-15T10:35:00.456789Z","op":"add"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}

func TestLogPath_WithStore(t *testing.T) {
	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    "/vaults/work.tempo",
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	path := LogPath()
	expected := "/vaults/work.tempo.audit.jsonl"
	if path != expected {
		t.Errorf("Expected %s, got %s", expected, path)
	}
}

func TestLogPath_NoStore(t *testing.T) {
	originalSettings := configs.StoreTempokeySettings
	configs.StoreTempokeySettings = &configs.StoreSettings{
		StorePath:    "",
		AuditEnabled: true,
	}
	defer func() {
		configs.StoreTempokeySettings = originalSettings
	}()

	path := LogPath()
	if path != "" {
		t.Errorf("Expected empty path, got %s", path)
	}
}
