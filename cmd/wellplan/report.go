package main

import (
	"os"

	"github.com/aretw0/wellplan/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Print the reagent and consumable report of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		style, _ := cmd.Flags().GetString("style")

		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		return cli.Report(cmd.Context(), p.Store, args[0], cli.ReportFormat(format), style, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("format", "f", string(cli.FormatMarkdown), "Output format: markdown, raw or json")
	reportCmd.Flags().String("style", "", "Glamour style for markdown (dark, light, notty); detected when empty")
}
