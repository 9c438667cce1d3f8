package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEvalDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing policy document failed: %v", err)
	}
	return path
}

func TestEvalCommand_AcceptsInsideWindow(t *testing.T) {
	setupTestEnvironment(t)
	doc := writeEvalDocument(t, "window.json", `{
  "id": "office-hours",
  "hooks": [
    {"type": "onlyWithin", "period": {"type": "range", "start": "2026-03-15T09:00:00Z", "end": "2026-03-15T17:00:00Z"}}
  ]
}`)

	output, err := runTempokey(t, "eval", doc, "--time", "2026-03-15T12:00:00Z")
	if err != nil {
		t.Fatalf("eval failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "office-hours") {
		t.Errorf("output missing policy id: %s", output)
	}
	if !strings.Contains(output, "accept") {
		t.Errorf("output missing accept verdict: %s", output)
	}
	if !strings.Contains(output, "Hooks matched: 1") {
		t.Errorf("output missing hook count: %s", output)
	}
}

func TestEvalCommand_ReportsRejection(t *testing.T) {
	setupTestEnvironment(t)
	doc := writeEvalDocument(t, "before.json", `{
  "id": "pre-launch",
  "hooks": [
    {"type": "onlyBefore", "period": {"type": "instant", "value": "2026-01-01T00:00:00Z"}}
  ]
}`)

	output, err := runTempokey(t, "eval", doc, "--time", "2026-06-01T00:00:00Z")
	if err != nil {
		t.Fatalf("eval failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "expired") {
		t.Errorf("output missing expired verdict: %s", output)
	}
	if !strings.Contains(output, "Expired (After allowed time)") {
		t.Errorf("output missing reason: %s", output)
	}
}

func TestEvalCommand_JSONOutput(t *testing.T) {
	setupTestEnvironment(t)
	doc := writeEvalDocument(t, "single.json", `{"id": "one-shot", "single_use": true}`)

	output, err := runTempokey(t, "eval", doc, "--usage", "1", "--json")
	if err != nil {
		t.Fatalf("eval failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, `"verdict": "reject"`) {
		t.Errorf("JSON output missing reject verdict: %s", output)
	}
	if !strings.Contains(output, "Single use policy violation") {
		t.Errorf("JSON output missing reason: %s", output)
	}
}

func TestEvalCommand_RejectsBadTimeFlag(t *testing.T) {
	setupTestEnvironment(t)
	doc := writeEvalDocument(t, "empty.json", `{"id": "nothing"}`)

	output, err := runTempokey(t, "eval", doc, "--time", "yesterday")
	if err != nil {
		t.Fatalf("bad time flag should report and exit clean, got: %v", err)
	}
	if !strings.Contains(output, "--time must be RFC 3339") {
		t.Errorf("output missing time format hint: %s", output)
	}
}
