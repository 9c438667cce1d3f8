package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	policyCmd.AddCommand(policyListCmd)
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting policy list command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		result, err := workflows.PolicyList(context.Background(), workflows.PolicyListOptions{Passphrase: passphrase})
		if err != nil {
			spinner.FinalMSG = formatStoreError(err)
			if !isExpectedStoreError(err) {
				return err
			}
			return nil
		}

		spinner.FinalMSG = ""
		if len(result.Policies) == 0 {
			fmt.Println("No policies stored.")
			fmt.Println(ui.Info.Sprint("→") + " Add one with " + ui.Code.Sprint("tempokey policy add <file>"))
			return nil
		}

		Logger.Debugf("Listing %d policies", len(result.Policies))
		fmt.Printf("%-20s  %3s  %5s  %-8s  %-10s  %s\n", "ID", "VER", "HOOKS", "ENABLED", "USE", "MAX ATTEMPTS")
		for _, p := range result.Policies {
			enabled := "yes"
			if !p.Enabled {
				enabled = "no"
			}
			use := "multi"
			if p.SingleUse {
				use = "single"
			}
			max := "-"
			if p.MaxAttempts != nil {
				max = strconv.FormatUint(uint64(*p.MaxAttempts), 10)
			}
			fmt.Printf("%-20s  %3d  %5d  %-8s  %-10s  %s\n", p.ID, p.Version, p.HookCount, enabled, use, max)
		}
		return nil
	},
}
