// Package audit provides the access log for Tempokey stores.
//
// Every operation that touches a credential (get, add, rotate, remove,
// reveal or copy from the browser) is recorded, including denied access
// attempts with the policy verdict and reason. This answers "what asked
// for this secret, and when" without ever decrypting the store.
//
// # Log Format
//
// The log is stored as JSON Lines (one JSON object per line) in a sidecar
// next to the store file:
//
//	<store>.audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - OS username and hostname
//   - Operation name
//   - Operation-specific details (credential id and label, policy id,
//     verdict and reason)
//
// Secret material never appears in the log at any verbosity.
//
// # Usage
//
// Create an entry with user info pre-populated:
//
//	entry := audit.NewEntry("get")
//	entry.Credential = cred.ID
//	entry.Verdict = string(eval.Verdict)
//	audit.Log(entry)
//
// # Failure Handling
//
// Access logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. It can also be switched
// off entirely with audit = false in the user config.
//
// # Reading Logs
//
// Use ReadEntries() to parse the log and FilterEntries() to narrow it for
// display. Malformed entries are silently skipped to handle partial writes.
package audit
