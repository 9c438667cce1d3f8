// Package configs manages user configuration and per-invocation settings
// for Tempokey.
//
// # User Configuration
//
// The user config is an optional TOML file at <user config dir>/tempokey/config.toml:
//
//	store = "/home/me/.local/share/tempokey/store.tempo"
//	audit = true
//
// It stores:
//   - Default store path, used when no flag or environment variable names one
//   - Access-log toggle (audit), enabled unless set to false
//
// # Store Resolution
//
// Every command operates on exactly one store file. The path is resolved
// once per invocation, in this order:
//
//  1. The --store flag
//  2. The TEMPOKEY_STORE environment variable
//  3. The store key in the user config
//  4. store.tempo in the working directory
//
// # Settings
//
// Global settings are initialized at startup:
//   - UserTempokeySettings: the XDG config and data paths plus the username
//   - StoreTempokeySettings: the resolved store path and audit toggle
//
// Call InitStoreSettings() before accessing StoreTempokeySettings. The root
// command does this in its PersistentPreRun.
package configs
