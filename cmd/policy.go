package cmd

import (
	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage access policies",
	Long: `Provides adding, inspecting, updating, and removing of the access
policies stored alongside credentials.

A policy is a JSON or TOML document with ordered hooks such as
onlyBefore, onlyAfter, onlyWithin, and onlyFor, plus single-use and
attempt-limit settings. Credentials reference policies by id.`,
}

func init() {
	RootCmd.AddCommand(policyCmd)
}
