package cmd

import (
	"context"
	"errors"
	"strings"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	policyCmd.AddCommand(policyRemoveCmd)
}

var policyRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a stored policy",
	Long: `Deletes a policy by id.

Credentials referencing the policy are not touched. Their references
dangle, which leaves them unrestricted until the policy id is stored
again, so the command lists every credential that was still referencing
the removed policy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting policy remove command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Removing policy...", verbose)
		defer cleanup()

		result, err := workflows.PolicyRemove(context.Background(), workflows.PolicyRemoveOptions{
			ID:         args[0],
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatPolicyRemoveError(err)
			if isPolicyRemoveUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Removed policy %s", result.ID)
		finalMessage := ui.Success.Sprint("✓") + " Removed policy " + ui.Highlight.Sprint(result.ID)
		if len(result.Referencing) > 0 {
			finalMessage += "\n" + ui.Warning.Sprint("⚠") + " Still referenced by: " + strings.Join(result.Referencing, ", ") + "\n" +
				ui.Info.Sprint("→") + " These credentials are now unrestricted"
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatPolicyRemoveError formats a policy remove error for display to the user.
func formatPolicyRemoveError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrPolicyNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey policy list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isPolicyRemoveUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isPolicyRemoveUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrPolicyNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
