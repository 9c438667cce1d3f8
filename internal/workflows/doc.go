// Package workflows provides high-level orchestration for tempokey commands.
//
// Workflows coordinate multiple operations across packages (configs, vault,
// policy, audit) to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, prompts, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Collects passphrases and secret values from the terminal
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Opening and closing the encrypted store
//   - Validating references and documents
//   - Applying the policy gate to secret access
//   - Recording access log entries
//
// Passphrases and secret values arrive through the Options structs as
// collected bytes, never as prompts issued from this package. That keeps
// every workflow runnable in tests without a terminal.
//
// # Available Workflows
//
// Each command has a corresponding workflow:
//
//   - Init: creates a new encrypted store
//   - Add: stores a new credential, optionally attaching a policy
//   - Get: resolves a credential and applies its policy before revealing it
//   - List: summarizes stored credentials without touching secret material
//   - Remove: deletes a credential
//   - Rotate: replaces a credential's secret value
//   - Eval: evaluates a policy document file without opening any store
//   - Log: reads and filters the access log
//   - PolicyAdd, PolicyGet, PolicyList, PolicyRemove, PolicyUpdate
//
// The interactive browser is the exception to the one-shot shape: a
// Browser keeps the store open across a whole session and exposes the
// same gated operations as methods.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Get(ctx, opts)
//	if errors.Is(err, terrors.ErrDecryptionFailed) {
//	    // Wrong passphrase or tampered store.
//	}
//
// A policy denial is not an error. Get and the browser's Reveal return a
// result with Denied set and the Evaluation attached, and the caller
// decides how to present it.
package workflows
