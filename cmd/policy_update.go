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

var (
	policyUpdateEnable      bool
	policyUpdateDisable     bool
	policyUpdateSingleUse   bool
	policyUpdateMultiUse    bool
	policyUpdateSkew        uint64
	policyUpdateTimezone    string
	policyUpdateMaxAttempts uint32
)

func init() {
	policyUpdateCmd.Flags().BoolVar(&policyUpdateEnable, "enable", false, "enable the policy")
	policyUpdateCmd.Flags().BoolVar(&policyUpdateDisable, "disable", false, "disable the policy")
	policyUpdateCmd.Flags().BoolVar(&policyUpdateSingleUse, "single-use", false, "make the policy single-use")
	policyUpdateCmd.Flags().BoolVar(&policyUpdateMultiUse, "multi-use", false, "make the policy multi-use")
	policyUpdateCmd.Flags().Uint64Var(&policyUpdateSkew, "skew", 0, "set the advisory clock skew in seconds")
	policyUpdateCmd.Flags().StringVar(&policyUpdateTimezone, "timezone", "", "set the display timezone")
	policyUpdateCmd.Flags().Uint32Var(&policyUpdateMaxAttempts, "max-attempts", 0, "set the attempt limit")

	policyCmd.AddCommand(policyUpdateCmd)
}

// resetPolicyUpdateCommandState resets the policy update command's global state for testing.
func resetPolicyUpdateCommandState() {
	policyUpdateEnable = false
	policyUpdateDisable = false
	policyUpdateSingleUse = false
	policyUpdateMultiUse = false
	policyUpdateSkew = 0
	policyUpdateTimezone = ""
	policyUpdateMaxAttempts = 0
}

var policyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change settings of a stored policy",
	Long: `Changes the settings of a stored policy in place. Hooks are not
editable here; replace the whole document with 'tempokey policy add'
for that.

Only the flags given are applied. Any change bumps the policy version
once, so credentials referencing it pick up the new rules atomically.

Examples:
  tempokey policy update deploy-window --disable
  tempokey policy update one-shot --multi-use --max-attempts 3
  tempokey policy update deploy-window --skew 120 --timezone Pacific/Auckland`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting policy update command")

		if policyUpdateEnable && policyUpdateDisable {
			return fmt.Errorf("--enable and --disable are mutually exclusive")
		}
		if policyUpdateSingleUse && policyUpdateMultiUse {
			return fmt.Errorf("--single-use and --multi-use are mutually exclusive")
		}

		opts := workflows.PolicyUpdateOptions{ID: args[0]}
		if policyUpdateEnable || policyUpdateDisable {
			enabled := policyUpdateEnable
			opts.Enabled = &enabled
		}
		if policyUpdateSingleUse || policyUpdateMultiUse {
			single := policyUpdateSingleUse
			opts.SingleUse = &single
		}
		if cmd.Flags().Changed("skew") {
			opts.ClockSkewSecs = &policyUpdateSkew
		}
		if cmd.Flags().Changed("timezone") {
			opts.Timezone = &policyUpdateTimezone
		}
		if cmd.Flags().Changed("max-attempts") {
			opts.MaxAttempts = &policyUpdateMaxAttempts
		}

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Updating policy...", verbose)
		defer cleanup()

		opts.Passphrase = passphrase
		result, err := workflows.PolicyUpdate(context.Background(), opts)
		if err != nil {
			spinner.FinalMSG = formatPolicyUpdateError(err)
			if isPolicyUpdateUnexpectedError(err) {
				return err
			}
			return nil
		}

		if !result.Updated {
			Logger.Infof("Policy %s left unchanged", result.ID)
			spinner.FinalMSG = "No changes requested."
			return nil
		}

		Logger.Infof("Policy %s updated to version %d", result.ID, result.Version)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Updated policy " + ui.Highlight.Sprint(result.ID) + " " +
			ui.Muted.Sprintf("now version %d", result.Version)
		return nil
	},
}

// formatPolicyUpdateError formats a policy update error for display to the user.
func formatPolicyUpdateError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrPolicyNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("tempokey policy list") + " to see what is stored"

	default:
		return formatStoreError(err)
	}
}

// isPolicyUpdateUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isPolicyUpdateUnexpectedError(err error) bool {
	if errors.Is(err, terrors.ErrPolicyNotFound) {
		return false
	}
	return !isExpectedStoreError(err)
}
