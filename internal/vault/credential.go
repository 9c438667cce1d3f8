package vault

import (
	"fmt"
	"strings"
	"time"

	terrors "github.com/tempokey/tempokey/internal/errors"
)

// SecretType classifies what a credential's bytes are.
type SecretType string

const (
	SecretPassword SecretType = "password"
	SecretKey      SecretType = "key"
	SecretToken    SecretType = "token"
)

// ParseSecretType maps user input onto a SecretType, case-insensitively.
func ParseSecretType(s string) (SecretType, error) {
	switch SecretType(strings.ToLower(strings.TrimSpace(s))) {
	case SecretPassword:
		return SecretPassword, nil
	case SecretKey:
		return SecretKey, nil
	case SecretToken:
		return SecretToken, nil
	default:
		return "", fmt.Errorf("%w: %q (expected password, key, or token)", terrors.ErrInvalidSecretType, s)
	}
}

// CredentialSecret is the typed secret material of a credential.
type CredentialSecret struct {
	Type SecretType `json:"type"`
	Data []byte     `json:"data"`
}

// Credential is one stored secret with its metadata. The id is immutable
// after creation; PolicyID is a weak reference into the store's policy
// map and may point at a policy that no longer exists.
type Credential struct {
	ID           string           `json:"id"`
	Label        string           `json:"label"`
	Tags         []string         `json:"tags"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	PolicyID     *string          `json:"policy_id"`
	Secret       CredentialSecret `json:"secret"`
	UsageCounter uint64           `json:"usage_counter"`
}

// DisplaySecret renders the secret for output: passwords as text,
// keys and tokens hex-encoded.
func (c *Credential) DisplaySecret() string {
	if c.Secret.Type == SecretPassword {
		return string(c.Secret.Data)
	}
	return fmt.Sprintf("%x", c.Secret.Data)
}
