// Package errors provides typed error values for the tempokey application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Store errors: store file state on disk (ErrStoreNotFound, ErrStoreCorrupted)
//   - Crypto errors: decryption failures (ErrDecryptionFailed)
//   - Credential errors: credential lookup and creation (ErrCredentialNotFound)
//   - Policy errors: policy lookup and parsing (ErrInvalidPolicyDocument)
//   - Input errors: bad user-supplied values (ErrInvalidTimeFormat)
//
// # Usage
//
// Return errors from internal packages:
//
//	if _, err := os.Stat(path); err == nil {
//	    return nil, errors.ErrStoreExists
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.GetCredential(ctx, opts)
//	if errors.Is(err, terrors.ErrDecryptionFailed) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("looking up %s: %w", name, errors.ErrCredentialNotFound)
//
// A policy denial is deliberately not an error: evaluation returns a verdict,
// and callers branch on it. Only operational failures travel this package.
package errors
