package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Long: `Lists the credentials in the store with their metadata.

Listing shows no secret material, does not evaluate policies, and leaves
no access log entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		result, err := workflows.List(context.Background(), workflows.ListOptions{Passphrase: passphrase})
		if err != nil {
			spinner.FinalMSG = formatStoreError(err)
			if !isExpectedStoreError(err) {
				return err
			}
			return nil
		}

		spinner.FinalMSG = ""
		if len(result.Credentials) == 0 {
			fmt.Println("No credentials stored.")
			fmt.Println(ui.Info.Sprint("→") + " Add one with " + ui.Code.Sprint("tempokey add <label>"))
			return nil
		}

		Logger.Debugf("Listing %d credentials", len(result.Credentials))
		fmt.Printf("%-24s  %-8s  %-16s  %5s  %s\n", "LABEL", "TYPE", "POLICY", "USED", "CREATED")
		for _, cred := range result.Credentials {
			policyID := cred.PolicyID
			if policyID == "" {
				policyID = "-"
			}
			line := fmt.Sprintf("%-24s  %-8s  %-16s  %5d  %s",
				cred.Label, cred.SecretType, policyID, cred.UsageCount, cred.CreatedAt.Format("2006-01-02"))
			if len(cred.Tags) > 0 {
				line += "  " + ui.Muted.Sprint(strings.Join(cred.Tags, ","))
			}
			fmt.Println(line)
		}
		return nil
	},
}
