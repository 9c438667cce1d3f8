package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tempokey/tempokey/internal/audit"
	"github.com/tempokey/tempokey/internal/configs"
	"github.com/tempokey/tempokey/internal/crypto"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/vault"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Passphrase protects the new store. The caller prompts and confirms it.
	Passphrase *crypto.Secret

	// SaveDefault records the store path in the user config when true, so
	// later invocations find it without --store.
	SaveDefault bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// StorePath is where the store file was created.
	StorePath string

	// DefaultSaved reports whether the path was recorded as the default store.
	DefaultSaved bool
}

// Init creates a new encrypted store at the resolved store path.
//
// The store is written to disk before Init returns, so a passphrase typo
// noticed later means deleting the file and starting over.
//
// Returns ErrStoreExists if a file already exists at the path.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	storePath := configs.StoreTempokeySettings.StorePath
	if storePath == "" {
		return nil, fmt.Errorf("no store path resolved: %w", terrors.ErrStoreNotFound)
	}

	if dir := filepath.Dir(storePath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	store, err := vault.Init(storePath, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	store.Close()

	result := &InitResult{StorePath: storePath}

	if opts.SaveDefault {
		if err := configs.SetDefaultStore(storePath); err != nil {
			return nil, fmt.Errorf("saving default store path: %w", err)
		}
		result.DefaultSaved = true
	}

	auditEntry := audit.NewEntry("init")
	audit.Log(auditEntry)

	return result, nil
}
