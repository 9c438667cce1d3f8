// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and running commands against a temporary store.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/tempokey/tempokey/internal/configs"
	logger "github.com/tempokey/tempokey/internal/logging"
)

// testPassphrase unlocks every store created through the test environment.
const testPassphrase = "integration-test-passphrase"

// setupTestEnvironment points the CLI at a temporary store and user config
// and injects the passphrase through the environment, so commands run
// without a terminal. Returns the store path.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	storePath := filepath.Join(tempDir, "test.tempo")

	originalUserSettings := configs.UserTempokeySettings
	originalStoreSettings := configs.StoreTempokeySettings

	configs.UserTempokeySettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempDir, "config"),
		UserDataPath:    filepath.Join(tempDir, "data"),
		Username:        "testuser",
	}

	t.Setenv("TEMPOKEY_STORE", storePath)
	t.Setenv("TEMPOKEY_PASSPHRASE", testPassphrase)

	t.Cleanup(func() {
		configs.UserTempokeySettings = originalUserSettings
		configs.StoreTempokeySettings = originalStoreSettings
		ResetGlobalState()
	})

	return storePath
}

// runTempokey executes the CLI with the given arguments, capturing output.
func runTempokey(t *testing.T, args ...string) (string, error) {
	t.Helper()

	SetLogger(logger.Logger{})
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// withStdin replaces os.Stdin with a pipe carrying content for the
// duration of fn, simulating piped input such as a secret value.
func withStdin(t *testing.T, content string, fn func()) {
	t.Helper()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}

	originalStdin := os.Stdin
	os.Stdin = reader
	defer func() {
		os.Stdin = originalStdin
		reader.Close()
	}()

	if _, err := writer.WriteString(content); err != nil {
		t.Fatalf("Failed to write stdin content: %v", err)
	}
	writer.Close()

	fn()
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}
