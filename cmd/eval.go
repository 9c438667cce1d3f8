package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/policy"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	evalTime    string
	evalCreated string
	evalUsage   uint64
	evalJSON    bool
)

func init() {
	evalCmd.Flags().StringVar(&evalTime, "time", "", "evaluate at this RFC 3339 instant instead of now")
	evalCmd.Flags().StringVar(&evalCreated, "created", "", "anchor onlyFor hooks at this RFC 3339 instant")
	evalCmd.Flags().Uint64Var(&evalUsage, "usage", 0, "evaluate against this prior usage count")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "output the evaluation as JSON")

	RootCmd.AddCommand(evalCmd)
}

// resetEvalCommandState resets the eval command's global state for testing.
func resetEvalCommandState() {
	evalTime = ""
	evalCreated = ""
	evalUsage = 0
	evalJSON = false
}

var evalCmd = &cobra.Command{
	Use:   "eval <policy-file>",
	Short: "Dry-run a policy document",
	Long: `Evaluates a policy document against a synthetic context and reports
the verdict.

Eval opens no store, needs no passphrase, and leaves no access log
entry, so policies can be tested before they guard anything.

Examples:
  tempokey eval deploy-window.json
  tempokey eval deploy-window.json --time 2026-03-15T09:30:00Z
  tempokey eval one-shot.toml --usage 1
  tempokey eval grace.json --created 2026-01-01T00:00:00Z --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting eval command")

		spinner, cleanup := startSpinner("Evaluating policy...", verbose)
		defer cleanup()

		result, err := workflows.Eval(context.Background(), workflows.EvalOptions{
			PolicyFile: args[0],
			At:         evalTime,
			CreatedAt:  evalCreated,
			UsageCount: evalUsage,
		})
		if err != nil {
			spinner.FinalMSG = formatEvalError(err)
			if isEvalUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Debugf("Policy %s evaluated to %s", result.PolicyID, result.Evaluation.Verdict)
		spinner.FinalMSG = ""

		if evalJSON {
			data, err := json.MarshalIndent(result.Evaluation, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal evaluation to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println("Policy: " + ui.Highlight.Sprint(result.PolicyID))
		fmt.Println("Evaluated at: " + result.At.Format("2006-01-02 15:04:05") + " UTC")
		eval := result.Evaluation
		if eval.Verdict == policy.VerdictAccept {
			line := ui.Success.Sprint("✓") + " accept"
			if eval.Reason != "" {
				line += " " + ui.Muted.Sprint(eval.Reason)
			}
			fmt.Println(line)
			fmt.Printf("Hooks matched: %d\n", len(eval.MatchedHooks))
			return nil
		}

		fmt.Println(ui.Error.Sprint("✗") + " " + string(eval.Verdict))
		fmt.Println("Reason: " + eval.Reason)
		if details := formatEvaluationDetails(&eval); details != "" {
			fmt.Println("Details:")
			fmt.Println(details)
		}
		return nil
	},
}

// formatEvalError formats an eval error for display to the user.
func formatEvalError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrInvalidPolicyDocument):
		return ui.Error.Sprint("✗") + " " + err.Error()

	case errors.Is(err, terrors.ErrInvalidTimeFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to evaluate policy: " + err.Error()
	}
}

// isEvalUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isEvalUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, terrors.ErrInvalidPolicyDocument),
		errors.Is(err, terrors.ErrInvalidTimeFormat):
		return false
	default:
		return true
	}
}
