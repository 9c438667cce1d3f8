package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetCommand_RoundTripsSecret(t *testing.T) {
	setupTestEnvironment(t)

	if _, err := runTempokey(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	var output string
	var err error
	withStdin(t, "hunter2\n", func() {
		output, err = runTempokey(t, "add", "prod-db")
	})
	if err != nil {
		t.Fatalf("add failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Stored") {
		t.Errorf("add output missing confirmation: %s", output)
	}

	output, err = runTempokey(t, "get", "prod-db")
	if err != nil {
		t.Fatalf("get failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "hunter2") {
		t.Errorf("get output missing secret: %s", output)
	}
}

func TestGetCommand_ReportsDenial(t *testing.T) {
	setupTestEnvironment(t)

	if _, err := runTempokey(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	doc := filepath.Join(t.TempDir(), "one-shot.json")
	if err := os.WriteFile(doc, []byte(`{"id": "one-shot", "single_use": true}`), 0600); err != nil {
		t.Fatalf("writing policy document failed: %v", err)
	}

	var output string
	var err error
	withStdin(t, "0000\n", func() {
		output, err = runTempokey(t, "add", "launch-code", "--policy", doc)
	})
	if err != nil {
		t.Fatalf("add failed: %v\noutput: %s", err, output)
	}

	output, err = runTempokey(t, "get", "launch-code")
	if err != nil {
		t.Fatalf("first get failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "0000") {
		t.Errorf("first get missing secret: %s", output)
	}

	output, err = runTempokey(t, "get", "launch-code")
	if err != nil {
		t.Fatalf("denied get should report and exit clean, got: %v", err)
	}
	if !strings.Contains(output, "ACCESS DENIED") {
		t.Errorf("output missing denial banner: %s", output)
	}
	if !strings.Contains(output, "Single use policy violation") {
		t.Errorf("output missing denial reason: %s", output)
	}
	if strings.Contains(output, "0000") {
		t.Errorf("denied get leaked the secret: %s", output)
	}
}

func TestGetCommand_UnknownCredential(t *testing.T) {
	setupTestEnvironment(t)

	if _, err := runTempokey(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	output, err := runTempokey(t, "get", "ghost")
	if err != nil {
		t.Fatalf("unknown credential should report and exit clean, got: %v", err)
	}
	if !strings.Contains(output, "credential not found") {
		t.Errorf("output missing not-found message: %s", output)
	}
}

func TestListCommand_EmptyStore(t *testing.T) {
	setupTestEnvironment(t)

	if _, err := runTempokey(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	output, err := runTempokey(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "No credentials stored") {
		t.Errorf("output missing empty-store message: %s", output)
	}
}
