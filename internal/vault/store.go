package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"

	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
)

// storePayload is the JSON structure sealed inside the container.
type storePayload struct {
	Credentials map[string]*Credential    `json:"credentials"`
	Policies    map[string]*policy.Policy `json:"policies"`
}

// Store is an open credential store bound to one file and one master key.
// It is not safe for concurrent use.
type Store struct {
	path        string
	key         *crypto.MasterKey
	salt        []byte
	credentials map[string]*Credential
	policies    map[string]*policy.Policy
	clock       clock.Clock
}

// Option adjusts a store at construction time.
type Option func(*Store)

// WithClock replaces the wall clock, letting tests control timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Init creates a new empty store at path. It fails if a file already
// exists there. The store is written to disk before Init returns.
func Init(path string, passphrase *crypto.Secret, opts ...Option) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", terrors.ErrStoreExists, path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check store path %s: %w", path, err)
	}

	key, salt, err := crypto.DeriveKey(passphrase, nil)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:        path,
		key:         key,
		salt:        salt,
		credentials: map[string]*Credential{},
		policies:    map[string]*policy.Policy{},
		clock:       clock.WallClock,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Save(); err != nil {
		key.Destroy()
		return nil, err
	}
	return s, nil
}

// Open reads the store at path and decrypts it with the given passphrase.
// The error distinguishes a missing file, a truncated file, an unknown
// format version, and a corrupt payload; a wrong passphrase and a
// tampered file are deliberately the same failure.
func Open(path string, passphrase *crypto.Secret, opts ...Option) (*Store, error) {
	headerBytes, encrypted, err := readContainer(path)
	if err != nil {
		return nil, err
	}

	version, salt, err := parseHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: version %d", terrors.ErrUnsupportedVersion, version)
	}

	key, _, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	payload, err := key.Decrypt(encrypted, headerBytes)
	if err != nil {
		key.Destroy()
		return nil, err
	}
	defer crypto.Wipe(payload)

	var decoded storePayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		key.Destroy()
		return nil, fmt.Errorf("%w: %v", terrors.ErrStoreCorrupted, err)
	}

	s := &Store{
		path:        path,
		key:         key,
		salt:        salt,
		credentials: decoded.Credentials,
		policies:    decoded.Policies,
		clock:       clock.WallClock,
	}
	if s.credentials == nil {
		s.credentials = map[string]*Credential{}
	}
	if s.policies == nil {
		s.policies = map[string]*policy.Policy{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save serializes the full store, encrypts it, and atomically replaces
// the store file. The in-memory maps and the file are identical after
// every successful Save.
//
// TODO: add a file lock so two processes saving the same store cannot
// silently drop each other's writes.
func (s *Store) Save() error {
	header := encodeHeader(formatVersion, s.salt)

	payload, err := json.Marshal(storePayload{Credentials: s.credentials, Policies: s.policies})
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	defer crypto.Wipe(payload)

	encrypted, err := s.key.Encrypt(payload, header)
	if err != nil {
		return fmt.Errorf("failed to encrypt store: %w", err)
	}

	return writeContainer(s.path, header, encrypted)
}

// Close wipes the master key and all decrypted secret material. The
// store must not be used afterwards.
func (s *Store) Close() {
	for _, cred := range s.credentials {
		crypto.Wipe(cred.Secret.Data)
	}
	s.credentials = nil
	s.policies = nil
	s.key.Destroy()
}

// Path reports the store file location.
func (s *Store) Path() string {
	return s.path
}

// Now reads the store clock in UTC. Evaluation contexts should use this
// so verdicts and stored timestamps agree on the time source.
func (s *Store) Now() time.Time {
	return s.clock.Now().UTC()
}

// NewCredential builds a credential stamped by the store clock, with a
// fresh id, equal creation and update times, zero usage, and no policy.
// It is not persisted until AddCredential.
func (s *Store) NewCredential(label string, secretType SecretType, data []byte) *Credential {
	now := s.Now()
	return &Credential{
		ID:           uuid.NewString(),
		Label:        label,
		Tags:         []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Secret:       CredentialSecret{Type: secretType, Data: data},
		UsageCounter: 0,
	}
}

// AddCredential inserts the credential and persists. Inserting an id that
// already exists overwrites it. On save failure the previous in-memory
// state is restored.
func (s *Store) AddCredential(cred *Credential) error {
	prev, existed := s.credentials[cred.ID]
	s.credentials[cred.ID] = cred
	if err := s.Save(); err != nil {
		if existed {
			s.credentials[cred.ID] = prev
		} else {
			delete(s.credentials, cred.ID)
		}
		return err
	}
	return nil
}

// GetCredential looks up a credential by exact id.
func (s *Store) GetCredential(id string) (*Credential, bool) {
	cred, ok := s.credentials[id]
	return cred, ok
}

// FindCredential resolves a reference that may be an id or a label. Id
// matches win; a label shared by several credentials is an error rather
// than a silent pick.
func (s *Store) FindCredential(ref string) (*Credential, error) {
	if cred, ok := s.credentials[ref]; ok {
		return cred, nil
	}

	var matches []*Credential
	for _, cred := range s.credentials {
		if cred.Label == ref {
			matches = append(matches, cred)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", terrors.ErrCredentialNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("label %q matches %d credentials, use the id", ref, len(matches))
	}
}

// ListCredentials returns all credentials sorted by label, then id.
func (s *Store) ListCredentials() []*Credential {
	creds := make([]*Credential, 0, len(s.credentials))
	for _, cred := range s.credentials {
		creds = append(creds, cred)
	}
	sort.Slice(creds, func(i, j int) bool {
		if creds[i].Label != creds[j].Label {
			return creds[i].Label < creds[j].Label
		}
		return creds[i].ID < creds[j].ID
	})
	return creds
}

// RemoveCredential deletes a credential by id and persists.
func (s *Store) RemoveCredential(id string) error {
	prev, ok := s.credentials[id]
	if !ok {
		return fmt.Errorf("%w: %s", terrors.ErrCredentialNotFound, id)
	}
	delete(s.credentials, id)
	if err := s.Save(); err != nil {
		s.credentials[id] = prev
		return err
	}
	crypto.Wipe(prev.Secret.Data)
	return nil
}

// IncrementUsage bumps a credential's usage counter and refreshes its
// update timestamp, then persists. Reading a secret does not do this;
// recording the use is the caller's explicit follow-up.
func (s *Store) IncrementUsage(id string) error {
	cred, ok := s.credentials[id]
	if !ok {
		return fmt.Errorf("%w: %s", terrors.ErrCredentialNotFound, id)
	}
	prevCount, prevUpdated := cred.UsageCounter, cred.UpdatedAt
	cred.UsageCounter++
	cred.UpdatedAt = s.Now()
	if err := s.Save(); err != nil {
		cred.UsageCounter, cred.UpdatedAt = prevCount, prevUpdated
		return err
	}
	return nil
}

// RotateCredential replaces a credential's secret bytes and refreshes its
// update timestamp, then persists. The superseded bytes are wiped once
// the new state is durable.
func (s *Store) RotateCredential(id string, newData []byte) error {
	cred, ok := s.credentials[id]
	if !ok {
		return fmt.Errorf("%w: %s", terrors.ErrCredentialNotFound, id)
	}
	oldData, prevUpdated := cred.Secret.Data, cred.UpdatedAt
	cred.Secret.Data = newData
	cred.UpdatedAt = s.Now()
	if err := s.Save(); err != nil {
		cred.Secret.Data, cred.UpdatedAt = oldData, prevUpdated
		return err
	}
	crypto.Wipe(oldData)
	return nil
}

// AddPolicy inserts the policy by id and persists. An existing policy
// with the same id is overwritten.
func (s *Store) AddPolicy(p *policy.Policy) error {
	prev, existed := s.policies[p.ID]
	s.policies[p.ID] = p
	if err := s.Save(); err != nil {
		if existed {
			s.policies[p.ID] = prev
		} else {
			delete(s.policies, p.ID)
		}
		return err
	}
	return nil
}

// GetPolicy looks up a policy by id.
func (s *Store) GetPolicy(id string) (*policy.Policy, bool) {
	p, ok := s.policies[id]
	return p, ok
}

// ListPolicies returns all policies sorted by id.
func (s *Store) ListPolicies() []*policy.Policy {
	policies := make([]*policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].ID < policies[j].ID
	})
	return policies
}

// RemovePolicy deletes a policy by id and persists. Credentials that
// referenced it keep their dangling reference, which reads as "policy
// missing" at access time.
func (s *Store) RemovePolicy(id string) error {
	prev, ok := s.policies[id]
	if !ok {
		return fmt.Errorf("%w: %s", terrors.ErrPolicyNotFound, id)
	}
	delete(s.policies, id)
	if err := s.Save(); err != nil {
		s.policies[id] = prev
		return err
	}
	return nil
}
