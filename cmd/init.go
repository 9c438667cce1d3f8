package cmd

import (
	"context"
	"errors"
	"fmt"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

var saveDefault bool

func init() {
	initCmd.Flags().BoolVar(&saveDefault, "save-default", false, "record this store as the default in the user config")

	RootCmd.AddCommand(initCmd)
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	saveDefault = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new encrypted store",
	Long: `Creates a new encrypted store file at the resolved store path.

The passphrase is prompted for twice and protects everything in the
store. There is no recovery: a lost passphrase means a lost store.

Examples:
  tempokey init                             # Create store.tempo here
  tempokey init --store ~/vault.tempo       # Create at a chosen path
  tempokey init --save-default              # Also record it as the default`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		passphrase, err := promptPassphrase(true)
		if err != nil {
			if errors.Is(err, terrors.ErrPassphraseMismatch) {
				fmt.Println(ui.Error.Sprint("✗") + " Passphrases do not match")
				return nil
			}
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Creating store...", verbose)
		defer cleanup()

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			Passphrase:  passphrase,
			SaveDefault: saveDefault,
		})
		if err != nil {
			spinner.FinalMSG = formatInitError(err)
			if isInitUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Store created at %s", result.StorePath)
		finalMessage := ui.Success.Sprint("✓") + " Store created at " + ui.Path.Sprint(result.StorePath)
		if result.DefaultSaved {
			finalMessage += "\n" + ui.Info.Sprint("→") + " Recorded as the default store"
		}
		finalMessage += "\n" + ui.Info.Sprint("→") + " Add your first credential with " + ui.Code.Sprint("tempokey add <label>")
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatInitError formats an init error for display to the user.
func formatInitError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrStoreExists):
		return ui.Error.Sprint("✗") + " A store already exists at this path\n" +
			ui.Info.Sprint("→") + " Pass " + ui.Flag.Sprint("--store") + " to create one somewhere else"

	default:
		return ui.Error.Sprint("✗") + " Failed to create store: " + err.Error()
	}
}

// isInitUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isInitUnexpectedError(err error) bool {
	return !errors.Is(err, terrors.ErrStoreExists)
}
