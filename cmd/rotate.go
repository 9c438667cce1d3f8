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
	RootCmd.AddCommand(rotateCmd)
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <ref>",
	Short: "Replace a credential's secret",
	Long: `Replaces the secret of a credential, keeping its id, label, tags,
policy reference, and usage history.

The new value is prompted for without echo. Leave it empty to have a
random value generated, or pipe one in:

  openssl rand -hex 32 | tempokey rotate api-key`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")

		secret, err := readSecretValue()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read secret value: %v", err)
		}

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Rotating secret...", verbose)
		defer cleanup()

		result, err := workflows.Rotate(context.Background(), workflows.RotateOptions{
			Ref:        args[0],
			Secret:     secret,
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatRotateError(err)
			if isRotateUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Rotated secret for %s (%s)", result.Label, result.ID)
		finalMessage := ui.Success.Sprint("✓") + " Rotated secret for " + ui.Highlight.Sprint(result.Label)
		if result.Generated {
			finalMessage += "\n" + ui.Info.Sprint("→") + " New value was generated. Show it with " + ui.Code.Sprint("tempokey get "+result.Label)
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatRotateError formats a rotate error for display to the user.
func formatRotateError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrCredentialNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isRotateUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isRotateUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrCredentialNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
