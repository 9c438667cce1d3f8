package errors

import "errors"

// Store state errors indicate issues with the store file on disk.
var (
	// ErrStoreExists indicates a store file already exists at the target path.
	ErrStoreExists = errors.New("store already exists")

	// ErrStoreNotFound indicates no store file exists at the target path.
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreTruncated indicates the store file is shorter than its framing declares.
	ErrStoreTruncated = errors.New("store file is truncated")

	// ErrStoreCorrupted indicates the store file framing or payload is malformed.
	ErrStoreCorrupted = errors.New("store file is corrupted")

	// ErrUnsupportedVersion indicates the store was written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported store version")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryptionFailed indicates the container could not be decrypted. Wrong
	// passphrase and tampered ciphertext are deliberately indistinguishable.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Credential errors indicate issues with credential operations.
var (
	// ErrCredentialNotFound indicates the specified credential could not be found.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialExists indicates a credential with this label already exists.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrInvalidSecretType indicates the secret type is not one of password, key, or token.
	ErrInvalidSecretType = errors.New("invalid secret type")
)

// Policy errors indicate issues with policy documents and references.
var (
	// ErrPolicyNotFound indicates the specified policy could not be found.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrInvalidPolicyDocument indicates the policy document could not be parsed as JSON or TOML.
	ErrInvalidPolicyDocument = errors.New("invalid policy document")
)

// Input errors indicate invalid user-supplied values.
var (
	// ErrPassphraseMismatch indicates the confirmation passphrase did not match.
	ErrPassphraseMismatch = errors.New("passphrases do not match")

	// ErrInvalidTimeFormat indicates a time flag could not be parsed.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrLogNotFound indicates no access log exists for the store yet.
	ErrLogNotFound = errors.New("access log not found")
)
