package cmd

import (
	"github.com/tempokey/tempokey/internal/configs"
	logger "github.com/tempokey/tempokey/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	storeFlag string
	verbose   bool
	debug     bool
	Logger    logger.Logger

	RootCmd = &cobra.Command{
		Use:   "tempokey",
		Short: "Tempokey - A CLI for storing secrets behind time and usage policies.",
		Long: `Tempokey keeps credentials in a single passphrase-encrypted store file
and gates access to them with policies: time windows, expiry dates,
single-use, and attempt limits.

The store file is resolved from the --store flag, the TEMPOKEY_STORE
environment variable, or the default recorded in the user config, in
that order. The passphrase is prompted for, or read from the
TEMPOKEY_PASSPHRASE environment variable for scripted use.

Run 'tempokey help <command>' for more details on a specific command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing with verbose=%t, debug=%t", verbose, debug)

			if err := configs.InitStoreSettings(storeFlag); err != nil {
				return Logger.ErrorfAndReturn("failed to resolve store settings: %v", err)
			}
			Logger.Debugf("Resolved store path: %s", configs.StoreTempokeySettings.StorePath)
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&storeFlag, "store", "s", "", "path to the store file")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	storeFlag = ""
	verbose = false
	debug = false
	resetInitCommandState()
	resetAddCommandState()
	resetGetCommandState()
	resetEvalCommandState()
	resetLogCommandState()
	resetPolicyAddCommandState()
	resetPolicyUpdateCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed markers cobra records during flag
// parsing, so repeated Execute calls in tests see a fresh command tree.
func resetCobraFlagState(c *cobra.Command) {
	c.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
