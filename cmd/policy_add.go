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

var policyAddID string

func init() {
	policyAddCmd.Flags().StringVar(&policyAddID, "id", "", "store the policy under this id instead of the document's")

	policyCmd.AddCommand(policyAddCmd)
}

// resetPolicyAddCommandState resets the policy add command's global state for testing.
func resetPolicyAddCommandState() {
	policyAddID = ""
}

var policyAddCmd = &cobra.Command{
	Use:   "add <policy-file>",
	Short: "Store a policy from a document",
	Long: `Parses a JSON or TOML policy document and stores it under its id.

Storing a document under an id that already exists replaces the stored
policy; credentials referencing the id pick up the new rules on their
next access.

Examples:
  tempokey policy add deploy-window.json
  tempokey policy add window.toml --id staging-window`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting policy add command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Storing policy...", verbose)
		defer cleanup()

		result, err := workflows.PolicyAdd(context.Background(), workflows.PolicyAddOptions{
			DocumentPath: args[0],
			ID:           policyAddID,
			Passphrase:   passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatPolicyAddError(err)
			if isPolicyAddUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Policy %s stored at version %d", result.ID, result.Version)
		verb := "Stored"
		if result.Replaced {
			verb = "Replaced"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " " + verb + " policy " + ui.Highlight.Sprint(result.ID) + " " +
			ui.Muted.Sprintf("version %d, %s", result.Version, pluralHooks(result.HookCount))
		return nil
	},
}

func pluralHooks(n int) string {
	if n == 1 {
		return "1 hook"
	}
	return fmt.Sprintf("%d hooks", n)
}

// formatPolicyAddError formats a policy add error for display to the user.
func formatPolicyAddError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrInvalidPolicyDocument):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return formatStoreError(err)
	}
}

// isPolicyAddUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isPolicyAddUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrInvalidPolicyDocument) {
		return false
	}
	return !isExpectedStoreError(err)
}
