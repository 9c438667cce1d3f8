package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/chzyer/readline"
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	terrors "github.com/tempokey/tempokey/internal/errors"
	"github.com/tempokey/tempokey/internal/ui"
	"github.com/tempokey/tempokey/internal/utils"
	"github.com/tempokey/tempokey/internal/vault"
	"github.com/tempokey/tempokey/internal/workflows"
	"github.com/spf13/cobra"
)

const browsePrompt = "tempokey> "

func init() {
	RootCmd.AddCommand(browseCmd)
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the store interactively",
	Long: `Opens the store once and starts an interactive session over it.

The session keeps the store unlocked, so the passphrase is entered a
single time. Revealing or copying a secret applies the same policy gate
as 'tempokey get' and lands in the access log the same way. Revealed
secrets are shown on the terminal and scrubbed from it afterwards.

Type 'help' inside the session for the available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting browse command")

		passphrase, err := promptPassphrase(false)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}
		defer passphrase.Destroy()

		spinner, cleanup := startSpinner("Unlocking store...", verbose)
		defer cleanup()

		browser, err := workflows.NewBrowser(passphrase)
		if err != nil {
			spinner.FinalMSG = formatStoreError(err)
			if !isExpectedStoreError(err) {
				return err
			}
			return nil
		}
		defer browser.Close()

		// Stop spinner before handing the terminal to the prompt loop.
		spinner.Stop()

		fmt.Println()
		myFigure := figure.NewColorFigure("Tempokey", "alligator2", "green", true)
		myFigure.Print()
		fmt.Println()

		fmt.Printf("%s Browsing %s\n", color.GreenString("✓"), color.YellowString(browser.StorePath()))
		fmt.Printf("%s Type %s for commands, %s to leave\n\n", color.CyanString("→"), color.YellowString("help"), color.YellowString("quit"))

		return runBrowseLoop(browser)
	},
}

// runBrowseLoop drives the interactive session until quit or EOF.
func runBrowseLoop(browser *workflows.Browser) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("copy"),
		readline.PcItem("add"),
		readline.PcItem("rotate"),
		readline.PcItem("remove"),
		readline.PcItem("filter"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)

	// No HistoryFile: session commands name credentials and must not
	// outlive the session on disk.
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          browsePrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete:    completer,
	})
	if err != nil {
		return fmt.Errorf("failed to start interactive prompt: %w", err)
	}
	defer rl.Close()

	printBrowseListing(browser)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list", "ls":
			printBrowseListing(browser)

		case "show", "reveal":
			if len(fields) < 2 {
				fmt.Println("Usage: show <number|label>")
				continue
			}
			browseReveal(browser, fields[1])

		case "copy", "cp":
			if len(fields) < 2 {
				fmt.Println("Usage: copy <number|label>")
				continue
			}
			browseCopy(browser, fields[1])

		case "add":
			if len(fields) < 2 || len(fields) > 3 {
				fmt.Println("Usage: add <label> [password|key|token]")
				continue
			}
			browseAdd(browser, rl, fields[1:])

		case "rotate":
			if len(fields) < 2 {
				fmt.Println("Usage: rotate <number|label>")
				continue
			}
			browseRotate(browser, rl, fields[1])

		case "remove", "rm", "delete":
			if len(fields) < 2 {
				fmt.Println("Usage: remove <number|label>")
				continue
			}
			browseRemove(browser, rl, fields[1])

		case "filter":
			browser.SetFilter(strings.Join(fields[1:], " "))
			printBrowseListing(browser)

		case "help", "?":
			printBrowseHelp()

		case "quit", "exit", "q":
			return nil

		default:
			fmt.Printf("Unknown command %q. Type 'help' for commands.\n", fields[0])
		}
	}
}

func printBrowseHelp() {
	fmt.Println(`Commands:
  list                      List credentials (filtered view)
  show <number|label>       Reveal a secret, then scrub it from the screen
  copy <number|label>       Copy a secret to the clipboard
  add <label> [type]        Store a new credential
  rotate <number|label>     Replace a credential's secret
  remove <number|label>     Delete a credential
  filter <text>             Show only labels containing text; bare 'filter' clears
  quit                      Leave the session

Numbers refer to positions in the current listing.`)
}

func printBrowseListing(browser *workflows.Browser) {
	if q := browser.Filter(); q != "" {
		fmt.Println("Filter: " + ui.Highlight.Sprint(q) + " " + ui.Muted.Sprint("bare 'filter' clears"))
	}

	visible := browser.Visible()
	if len(visible) == 0 {
		if browser.Filter() != "" {
			fmt.Println("No credentials match the filter.")
		} else {
			fmt.Println("No credentials stored. Add one with: add <label>")
		}
		return
	}

	for i, cred := range visible {
		line := fmt.Sprintf("%3d. %-24s  %-8s", i+1, cred.Label, cred.SecretType)
		if cred.PolicyID != "" {
			line += "  " + ui.Muted.Sprint("policy "+cred.PolicyID)
		}
		fmt.Println(line)
	}
}

// browseReveal shows a secret on the terminal and scrubs it afterwards.
func browseReveal(browser *workflows.Browser, ref string) {
	result, err := browser.Reveal(ref)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}
	if result.Denied {
		fmt.Println(formatDenial(result.Evaluation, result.PolicyID))
		return
	}
	if result.PolicyMissing {
		Logger.Warnf("Credential %s references missing policy %s; access is unrestricted", result.Label, result.PolicyID)
	}

	if !utils.IsTTYAvailable() {
		// No terminal to scrub, print and move on.
		fmt.Println(result.Secret)
		return
	}

	content := fmt.Sprintf("\n  %s %s\n\n  %s\n\n  Press Enter to hide...",
		result.Label, ui.Muted.Sprint(string(result.SecretType)), result.Secret)
	if err := utils.WriteToTTY(content); err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
		return
	}
	if err := utils.WaitForEnterFromTTY(); err != nil {
		Logger.Warnf("Failed waiting for Enter: %v", err)
	}
	if err := utils.ClearScreen(); err != nil {
		Logger.Warnf("Failed to clear screen: %v", err)
	}
}

// browseCopy puts a secret on the clipboard without showing it.
func browseCopy(browser *workflows.Browser, ref string) {
	result, err := browser.ClipboardContent(ref)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}
	if result.Denied {
		fmt.Println(formatDenial(result.Evaluation, result.PolicyID))
		return
	}

	if err := clipboard.WriteAll(result.Secret); err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " Failed to copy to clipboard: " + err.Error())
		return
	}
	fmt.Println(ui.Success.Sprint("✓") + " Secret for " + ui.Highlight.Sprint(result.Label) + " copied to clipboard")
}

func browseAdd(browser *workflows.Browser, rl *readline.Instance, args []string) {
	label := args[0]
	secretType := vault.SecretPassword
	if len(args) == 2 {
		parsed, err := vault.ParseSecretType(args[1])
		if err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
			return
		}
		secretType = parsed
	}

	secret, err := rl.ReadPassword("Secret value (leave empty to generate): ")
	if err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " Failed to read secret value: " + err.Error())
		return
	}

	result, err := browser.Add(label, secretType, secret)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}

	msg := ui.Success.Sprint("✓") + " Stored " + ui.Highlight.Sprint(result.Label)
	if result.Generated {
		msg += " " + ui.Muted.Sprint("secret generated")
	}
	fmt.Println(msg)
	printBrowseListing(browser)
}

func browseRotate(browser *workflows.Browser, rl *readline.Instance, ref string) {
	secret, err := rl.ReadPassword("New secret value (leave empty to generate): ")
	if err != nil {
		fmt.Println(ui.Error.Sprint("✗") + " Failed to read secret value: " + err.Error())
		return
	}

	result, err := browser.Rotate(ref, secret)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}

	msg := ui.Success.Sprint("✓") + " Rotated secret for " + ui.Highlight.Sprint(result.Label)
	if result.Generated {
		msg += " " + ui.Muted.Sprint("new value generated")
	}
	fmt.Println(msg)
}

func browseRemove(browser *workflows.Browser, rl *readline.Instance, ref string) {
	cred, err := browser.Resolve(ref)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}

	if !confirmLine(rl, "Delete "+ui.Highlight.Sprint(cred.Label)+"? (y/N): ") {
		fmt.Println("Cancelled.")
		return
	}

	result, err := browser.Remove(cred.ID)
	if err != nil {
		fmt.Println(formatBrowseError(err))
		return
	}
	fmt.Println(ui.Success.Sprint("✓") + " Removed " + ui.Highlight.Sprint(result.Label))
	printBrowseListing(browser)
}

// confirmLine asks a yes/no question on the session prompt. Anything but
// an explicit yes counts as no.
func confirmLine(rl *readline.Instance, prompt string) bool {
	rl.SetPrompt(prompt)
	defer rl.SetPrompt(browsePrompt)

	line, err := rl.Readline()
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// formatBrowseError renders session command failures inline without
// ending the session.
func formatBrowseError(err error) string {
	msg := ui.Error.Sprint("✗") + " " + err.Error()
	if errors.Is(err, terrors.ErrCredentialNotFound) {
		msg += "\n" + ui.Info.Sprint("→") + " Type " + ui.Code.Sprint("list") + " to see what is stored"
	}
	return msg
}
