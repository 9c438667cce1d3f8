package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

var getCopy bool

func init() {
	getCmd.Flags().BoolVarP(&getCopy, "copy", "c", false, "copy the secret to the clipboard instead of printing it")

	RootCmd.AddCommand(getCmd)
}

// resetGetCommandState resets the get command's global state for testing.
func resetGetCommandState() {
	getCopy = false
}

var getCmd = &cobra.Command{
	Use:   "get <ref>",
	Short: "Retrieve a credential's secret",
	Long: `Retrieves a credential by id or label and prints its secret.

If the credential references a policy, the policy is evaluated first and
a denial is reported instead of the secret. Every access attempt, granted
or denied, lands in the access log.

Examples:
  tempokey get prod-db
  tempokey get prod-db --copy     # Clipboard instead of stdout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting get command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		result, err := workflows.Get(context.Background(), workflows.GetOptions{
			Ref:        args[0],
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatGetError(err)
			if isGetUnexpectedError(err) {
				return err
			}
			return nil
		}

		if result.Denied {
			Logger.Infof("Access to %s denied: %s", result.Label, result.Evaluation.Reason)
			spinner.FinalMSG = formatDenial(result.Evaluation, result.PolicyID)
			return nil
		}

		if result.PolicyMissing {
			Logger.Warnf("Credential %s references missing policy %s; access is unrestricted", result.Label, result.PolicyID)
		}
		Logger.Infof("Access to %s granted, usage count now %d", result.Label, result.UsageCount)

		if getCopy {
			if err := clipboard.WriteAll(result.Secret); err != nil {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to copy to clipboard: " + err.Error()
				return err
			}
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Secret for " + ui.Highlight.Sprint(result.Label) + " copied to clipboard"
			return nil
		}

		// The secret goes to stdout bare so it can be piped.
		spinner.FinalMSG = ""
		fmt.Println(result.Secret)
		return nil
	},
}

// formatGetError formats a get error for display to the user.
func formatGetError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrCredentialNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isGetUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isGetUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrCredentialNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
