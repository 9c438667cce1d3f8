package cmd

import (
	"context"
	"errors"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/vault"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	addType   string
	addTags   []string
	addPolicy string
)

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "password", "secret type: password, key, or token")
	addCmd.Flags().StringArrayVar(&addTags, "tag", nil, "tag the credential (repeatable)")
	addCmd.Flags().StringVar(&addPolicy, "policy", "", "attach the policy from this JSON or TOML document")

	RootCmd.AddCommand(addCmd)
}

// resetAddCommandState resets the add command's global state for testing.
func resetAddCommandState() {
	addType = "password"
	addTags = nil
	addPolicy = ""
}

var addCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Store a new credential",
	Long: `Stores a new credential under the given label.

The secret value is prompted for without echo. Leave it empty to have a
random value generated. A secret can also be piped in, in which case the
passphrase prompt moves to the terminal:

  openssl rand -hex 32 | tempokey add api-key --type key

Examples:
  tempokey add prod-db
  tempokey add deploy-token --type token --tag ci --tag deploy
  tempokey add launch-code --policy one-shot.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting add command")
		label := args[0]

		secretType, err := vault.ParseSecretType(addType)
		if err != nil {
			Logger.Debugf("Rejected secret type %q", addType)
			return err
		}

		secret, err := readSecretValue()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read secret value: %v", err)
		}

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Storing credential...", verbose)
		defer cleanup()

		result, err := workflows.Add(context.Background(), workflows.AddOptions{
			Label:      label,
			SecretType: secretType,
			Secret:     secret,
			Tags:       addTags,
			PolicyFile: addPolicy,
			Passphrase: passphrase,
		})
		if err != nil {
			spinner.FinalMSG = formatAddError(err)
			if isAddUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Credential %s stored with id %s", result.Label, result.ID)
		finalMessage := ui.Success.Sprint("✓") + " Stored " + ui.Highlight.Sprint(result.Label) + " " + ui.Muted.Sprintf("%s, id %s", result.SecretType, result.ID)
		if result.Generated {
			finalMessage += "\n" + ui.Info.Sprint("→") + " Secret value was generated. Show it with " + ui.Code.Sprint("tempokey get "+result.Label)
		}
		if result.PolicyID != "" {
			finalMessage += "\n" + ui.Info.Sprint("→") + " Access is governed by policy " + ui.Highlight.Sprint(result.PolicyID)
		}
		spinner.FinalMSG = finalMessage
		return nil
	},
}

// formatAddError formats an add error for display to the user.
func formatAddError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrCredentialExists):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Use " + ui.Code.Sprint("tempokey rotate") + " to replace its secret"

	case errors.Is(err, terrors.ErrInvalidPolicyDocument):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return formatStoreError(err)
	}
}

// isAddUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isAddUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, terrors.ErrCredentialExists),
		errors.Is(err, terrors.ErrInvalidPolicyDocument):
		return false
	default:
		return !isExpectedStoreError(err)
	}
}
