package cmd

import (
	"context"
	"errors"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <ref>",
	Short: "Delete a credential",
	Long: `Deletes a credential by id or label.

The credential's secret is gone for good; any policy it referenced stays
in the store for other credentials.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Removing credential...", verbose)
		defer cleanup()

		result, err := workflows.Remove(context.Background(), workflows.RemoveOptions{
			Ref:        args[0],
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatRemoveError(err)
			if isRemoveUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Removed credential %s (%s)", result.Label, result.ID)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(result.Label)
		return nil
	},
}

// formatRemoveError formats a remove error for display to the user.
func formatRemoveError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrCredentialNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isRemoveUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isRemoveUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrCredentialNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
