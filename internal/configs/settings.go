package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tempokey/tempokey/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

type StoreSettings struct {
	StorePath    string
	AuditEnabled bool
}

var (
	UserTempokeySettings  *UserSettings
	StoreTempokeySettings *StoreSettings
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")

	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// This is independent of which store is in use, so it is ok to init here
	UserTempokeySettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "tempokey"),
		UserDataPath:    filepath.Join(dataDir, "tempokey"),
		Username:        username,
	}
	StoreTempokeySettings = &StoreSettings{
		StorePath:    "",
		AuditEnabled: true,
	}
}

// InitStoreSettings resolves which store file this invocation operates on.
// The --store flag wins over the TEMPOKEY_STORE environment variable, which
// wins over the user config, which falls back to store.tempo in the working
// directory.
func InitStoreSettings(storeFlag string) error {
	config, err := LoadUserConfig()
	if err != nil {
		return fmt.Errorf("error loading user config: %w", err)
	}

	path := storeFlag
	if path == "" {
		path = os.Getenv("TEMPOKEY_STORE")
	}
	if path == "" {
		path = config.Store
	}
	if path == "" {
		path = DefaultStoreName
	}

	StoreTempokeySettings = &StoreSettings{
		StorePath:    path,
		AuditEnabled: config.AuditEnabled(),
	}

	return nil
}
