// Package vault implements the encrypted credential store.
//
// A store is a single file holding credentials and policies, sealed under
// a key derived from the owner's passphrase. The whole payload is
// encrypted as one unit; there is no per-credential encryption and no
// partial read.
//
// # Container Layout
//
// The file format (all integers little-endian):
//
//	[0..4)    u32  header length L
//	[4..4+L)  header: u32 version || u32 salt length || salt
//	[4+L..)   nonce (24 bytes) || ciphertext || tag (16 bytes)
//
// The header stays plaintext so the salt can be read before the key
// exists, but its raw bytes are bound into the AEAD tag as associated
// data. Flipping any header bit fails decryption exactly like flipping a
// payload bit; the two are never verified separately.
//
// # Persistence Model
//
// Every mutating call (add, remove, rotate, increment) saves the whole
// store before returning. Saves go to a temp file in the store's
// directory, are fsynced, and atomically renamed over the target, so a
// crash mid-save leaves the previous store intact. When a save fails the
// in-memory change is rolled back and the error returned; success means
// durable.
//
// The store is single-owner: one process, one goroutine. Opening the same
// file from two processes risks lost updates on save.
//
// # Time
//
// All timestamps (creation, update) come from the store's clock, which
// defaults to the wall clock and can be replaced for tests.
package vault
