package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tempokey/tempokey/internal/audit"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit   int
	logReverse bool
	logOp      string
	logSince   string
	logUntil   string
	logOneline bool
	logJSON    bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOp, "op", "", "filter by operation name")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	RootCmd.AddCommand(logCmd)
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOp = ""
	logSince = ""
	logUntil = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the access log",
	Long: `Displays the access log kept beside the store file.

The log records every operation that touched the store, including denied
accesses with the policy verdict behind them. It holds metadata only,
never secret material, and reading it needs no passphrase.

Examples:
  tempokey log                       # View full log
  tempokey log -n 10                 # Last 10 entries
  tempokey log --reverse             # Most recent first
  tempokey log --op get              # Only credential reads
  tempokey log --since 2026-01-01    # Filter by date
  tempokey log --json                # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	spinner, cleanup := startSpinner("Loading access log...", verbose)
	defer cleanup()

	opts := workflows.LogOptions{
		Limit:   logLimit,
		Reverse: logReverse,
		Op:      logOp,
		Since:   logSince,
		Until:   logUntil,
	}

	result, err := workflows.Log(context.Background(), opts)
	if err != nil {
		spinner.FinalMSG = formatLogError(err)
		if isLogUnexpectedError(err) {
			return err
		}
		return nil
	}

	Logger.Debugf("Parsed %d entries from access log", result.TotalBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		spinner.FinalMSG = ""
		if result.TotalBeforeFilter == 0 {
			fmt.Println("No access log entries found.")
		} else {
			fmt.Println("No access log entries found matching the filters.")
		}
		return nil
	}

	// Output.
	spinner.FinalMSG = ""
	if logJSON {
		if err := outputLogJSON(result.Entries); err != nil {
			return err
		}
		return nil
	}

	if logOneline {
		outputLogOneline(result.Entries)
		return nil
	}

	outputLogDefault(result.Entries)
	return nil
}

// formatLogError formats a log error for display to the user.
func formatLogError(err error) string {
	switch {
	case errors.Is(err, terrors.ErrLogNotFound):
		return ui.Info.Sprint("ℹ") + " No access log found. Operations will be logged after running any store command.\n"

	case errors.Is(err, terrors.ErrInvalidTimeFormat):
		return ui.Error.Sprint("✗") + " " + err.Error()

	default:
		return ui.Error.Sprint("✗") + " Failed to read access log: " + err.Error()
	}
}

// isLogUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isLogUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, terrors.ErrLogNotFound),
		errors.Is(err, terrors.ErrInvalidTimeFormat):
		return false
	default:
		return true
	}
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogOneline(entries []audit.Entry) {
	for _, e := range entries {
		date := workflows.FormatDate(e.Timestamp)
		details := workflows.FormatDetailsOneline(e)
		fmt.Printf("%s %s %s %s\n", date, e.User, e.Operation, details)
	}
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		fmt.Printf("%-19s  %-12s  %-13s  %s\n", datetime, e.User, e.Operation, details)
	}
}
