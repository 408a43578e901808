package main

import (
	"os"

	"github.com/aretw0/wellplan/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <protocol>",
	Short: "Check a protocol without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, _ := cmd.Flags().GetStringArray("set")
		withGraph, _ := cmd.Flags().GetBool("graph")
		return cli.Validate(args[0], overrides, withGraph, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("graph", false, "Print the protocol as a Mermaid flowchart")
	validateCmd.Flags().StringArray("set", nil, "Override a protocol value before validating")
}
