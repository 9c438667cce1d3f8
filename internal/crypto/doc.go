// Package crypto provides the cryptographic primitives for tempokey.
//
// This package handles passphrase-based key derivation and authenticated
// encryption of the store payload. No other package touches the ciphers
// directly.
//
// # Encryption Architecture
//
// The store is protected by a single passphrase:
//
//  1. Argon2id stretches the passphrase and a random 16-byte salt into a
//     256-bit master key
//  2. XChaCha20-Poly1305 encrypts the serialized store under that key with
//     a random 24-byte nonce prepended to the ciphertext
//  3. The container header travels as associated data, so header tampering
//     fails authentication even though the header itself is plaintext
//
// Re-encrypting the same payload produces different output (fresh nonce
// per call, non-deterministic encryption). Key derivation is deterministic
// for a fixed passphrase and salt, which is what makes reopening the store
// possible.
//
// # Failure Behavior
//
// Decrypt reports every failure as the same generic error. A wrong
// passphrase, a flipped ciphertext bit, and a modified header are
// indistinguishable to the caller. Nothing in this package distinguishes
// them internally either; the AEAD tag check is the only verdict.
//
// # Memory Hygiene
//
// Secret and MasterKey hold their bytes behind an explicit Destroy method
// that overwrites the buffer. Go's runtime may have copied the bytes
// before Destroy runs, so this shortens exposure rather than guaranteeing
// erasure.
package crypto
