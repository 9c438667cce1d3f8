package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	terrors "github.com/tempokey/tempokey/internal/errors"
)

const (
	// SaltSize is the length in bytes of the key derivation salt.
	SaltSize = 16

	// NonceSize is the length in bytes of the XChaCha20-Poly1305 nonce.
	NonceSize = chacha20poly1305.NonceSizeX

	// KeySize is the length in bytes of the derived master key.
	KeySize = chacha20poly1305.KeySize
)

// Argon2id cost parameters. Changing these changes the key derived from an
// existing salt, so they are fixed for the lifetime of format version 1.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
)

// Secret holds sensitive bytes such as a passphrase or a decrypted value.
type Secret struct {
	data []byte
}

// NewSecret wraps data in a Secret. The Secret takes ownership of the
// slice; callers must not reuse it after Destroy.
func NewSecret(data []byte) *Secret {
	return &Secret{data: data}
}

// Bytes exposes the underlying buffer without copying.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Len reports the length of the underlying buffer.
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Destroy overwrites the underlying buffer with zeros and drops it.
// Safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	Wipe(s.data)
	s.data = nil
}

// MasterKey is a derived 256-bit encryption key. One master key belongs to
// one open store and is destroyed when the store closes.
type MasterKey struct {
	key []byte
}

// DeriveKey stretches a passphrase into a master key using Argon2id.
// A nil or empty salt means a fresh random salt is generated. The salt
// actually used is returned so callers can persist it.
func DeriveKey(passphrase *Secret, salt []byte) (*MasterKey, []byte, error) {
	if passphrase == nil {
		return nil, nil, fmt.Errorf("passphrase must not be nil")
	}

	if len(salt) == 0 {
		fresh, err := GenerateRandomBytes(SaltSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		salt = fresh
	}

	key := argon2.IDKey(passphrase.Bytes(), salt, argonTime, argonMemory, argonThreads, KeySize)
	return &MasterKey{key: key}, salt, nil
}

// Encrypt seals plaintext under the master key with a fresh random nonce.
// The returned blob is nonce || ciphertext+tag. The associated data is
// authenticated but not encrypted; Decrypt must receive the same bytes.
func (k *MasterKey) Encrypt(plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(k.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the ciphertext to the nonce slice, yielding the
	// nonce-prefixed blob in one allocation.
	return aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Decrypt opens a blob produced by Encrypt. All failures, including short
// input, a wrong key, or tampered ciphertext or associated data, return
// the same generic error.
func (k *MasterKey) Decrypt(blob, aad []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, terrors.ErrDecryptionFailed
	}

	aead, err := chacha20poly1305.NewX(k.key)
	if err != nil {
		return nil, terrors.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], aad)
	if err != nil {
		return nil, terrors.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Destroy overwrites the key material with zeros. Safe to call more than once.
func (k *MasterKey) Destroy() {
	if k == nil {
		return
	}
	Wipe(k.key)
	k.key = nil
}

// GenerateRandomBytes returns n bytes from the system CSPRNG.
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// Wipe overwrites b in place with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
