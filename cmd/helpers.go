package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/utils"
	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
// Uses the global debug flag from the root command.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// promptPassphrase collects the store passphrase. The TEMPOKEY_PASSPHRASE
// environment variable wins so scripts and CI never need a terminal; after
// that the prompt goes to stdin when it is a terminal, or to /dev/tty when
// stdin carries piped data such as a secret value.
//
// With confirm set the passphrase is read twice and both reads must match.
// Returns ErrPassphraseMismatch when they do not.
func promptPassphrase(confirm bool) (*crypto.Secret, error) {
	if env := os.Getenv("TEMPOKEY_PASSPHRASE"); env != "" {
		Logger.Debugf("Using passphrase from TEMPOKEY_PASSPHRASE")
		return crypto.NewSecret([]byte(env)), nil
	}

	read, err := passphraseReader()
	if err != nil {
		return nil, err
	}

	passphrase, err := read("Enter passphrase: ")
	if err != nil {
		return nil, err
	}

	if confirm {
		again, err := read("Confirm passphrase: ")
		if err != nil {
			crypto.Wipe(passphrase)
			return nil, err
		}
		if !bytes.Equal(passphrase, again) {
			crypto.Wipe(passphrase)
			crypto.Wipe(again)
			return nil, terrors.ErrPassphraseMismatch
		}
		crypto.Wipe(again)
	}

	return crypto.NewSecret(passphrase), nil
}

// passphraseReader picks the hidden-input reader for this invocation.
func passphraseReader() (func(string) ([]byte, error), error) {
	if utils.IsTerminal() {
		return utils.ReadPassphrase, nil
	}
	if utils.IsTTYAvailable() {
		return utils.ReadPassphraseFromTTY, nil
	}
	return nil, fmt.Errorf("cannot prompt for passphrase: no terminal available (set TEMPOKEY_PASSPHRASE for scripted use)")
}

// readSecretValue collects secret material for add and rotate. On a
// terminal the value is read without echo; empty input means the caller
// should generate one. When stdin is a pipe the whole of it is the secret,
// minus one trailing newline.
func readSecretValue() ([]byte, error) {
	if utils.IsTerminal() {
		return utils.ReadPassphrase("Secret value (leave empty to generate): ")
	}

	Logger.Debugf("Reading secret value from stdin pipe")
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	return data, nil
}

// formatDenial renders a policy denial for display. Shared between get
// and browse so a rejection always looks the same.
func formatDenial(eval *policy.Evaluation, policyID string) string {
	msg := ui.Error.Sprint("✗") + " ACCESS DENIED\n" +
		"Reason: " + eval.Reason
	if policyID != "" {
		msg += "\nPolicy ID: " + policyID
	}
	if details := formatEvaluationDetails(eval); details != "" {
		msg += "\nDetails:\n" + details
	}
	return msg
}

// formatEvaluationDetails renders the evaluation detail map as indented
// key-value lines, sorted for stable output.
func formatEvaluationDetails(eval *policy.Evaluation) string {
	if len(eval.Details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(eval.Details))
	for k := range eval.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "\n"
		}
		out += "  - " + k + ": " + eval.Details[k]
	}
	return out
}

// formatStoreError renders the failures every store-opening command
// shares: a missing store file and a failed decryption.
func formatStoreError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrStoreNotFound):
		return ui.Error.Sprint("✗") + " No store found\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey init") + " to create one, or point " + ui.Flag.Sprint("--store") + " at an existing file"

	case errors.Is(err, terrors.ErrDecryptionFailed):
		return ui.Error.Sprint("✗") + " Could not decrypt the store\n" +
			ui.Info.Sprint("→") + " Wrong passphrase, or the store file has been tampered with"

	case errors.Is(err, terrors.ErrStoreCorrupted), errors.Is(err, terrors.ErrStoreTruncated):
		return ui.Error.Sprint("✗") + " The store file is damaged: " + err.Error()

	case errors.Is(err, terrors.ErrUnsupportedVersion):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " The store was written by a newer version of tempokey"

	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}
}

// isExpectedStoreError reports whether err is a store failure the user
// can fix themselves, as opposed to a bug worth a non-zero exit.
func isExpectedStoreError(err error) bool {
	switch {
	case errors.Is(err, terrors.ErrStoreNotFound),
		errors.Is(err, terrors.ErrDecryptionFailed),
		errors.Is(err, terrors.ErrStoreCorrupted),
		errors.Is(err, terrors.ErrStoreTruncated),
		errors.Is(err, terrors.ErrUnsupportedVersion):
		return true
	default:
		return false
	}
}
