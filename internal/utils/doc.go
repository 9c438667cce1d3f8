// Package utils provides shared utility functions for the Tempokey application.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # String Utilities
//
// Functions for string validation:
//   - IsValidPolicyID: validates policy identifiers
//
// # Terminal Utilities
//
// Functions for terminal detection and interaction:
//   - ReadPassphrase: prompts for a passphrase without echoing it
//   - ReadPassphraseFromTTY: same, from /dev/tty when stdin carries data
//   - IsTerminal: checks if stdin is a terminal
//   - WriteToTTY, ClearScreen, WaitForEnterFromTTY: reveal-and-clear flow
package utils
