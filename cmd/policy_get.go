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

func init() {
	policyCmd.AddCommand(policyGetCmd)
}

var policyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Export a stored policy as JSON",
	Long: `Prints a stored policy as a canonical JSON document.

The output parses back with 'tempokey policy add', so it doubles as a
way to copy policies between stores:

  tempokey policy get deploy-window > deploy-window.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting policy get command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		result, err := workflows.PolicyGet(context.Background(), workflows.PolicyGetOptions{
			ID:         args[0],
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatPolicyGetError(err)
			if isPolicyGetUnexpectedError(err) {
				return err
			}
			return nil
		}

		// The document goes to stdout bare so it can be redirected.
		spinner.FinalMSG = ""
		fmt.Println(string(result.Document))
		return nil
	},
}

// formatPolicyGetError formats a policy get error for display to the user.
func formatPolicyGetError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrPolicyNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey policy list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isPolicyGetUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isPolicyGetUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrPolicyNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
