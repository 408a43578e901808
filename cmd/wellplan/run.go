package main

import (
	"os"

	"github.com/aretw0/wellplan/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <protocol>",
	Short: "Run a protocol",
	Long: `Runs a protocol file, printing every hardware command and prompting the operator when a tip
rack must be reloaded or the protocol asks for a checkpoint. The run is saved after each step;
an interrupted or paused run continues with --resume --run-id <id>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{
			ProtocolPath: args[0],
			Store:        storeOptions(cmd),
		}
		opts.Overrides, _ = cmd.Flags().GetStringArray("set")
		opts.Simulate, _ = cmd.Flags().GetBool("simulate")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.RunID, _ = cmd.Flags().GetString("run-id")
		opts.Resume, _ = cmd.Flags().GetBool("resume")
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.DriversPath, _ = cmd.Flags().GetString("drivers")
		opts.StrictDriver, _ = cmd.Flags().GetBool("strict-drivers")

		return cli.Execute(cmd.Context(), opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("simulate", false, "Dry run: skip delays and auto-confirm operator prompts")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON commands out, answers in)")
	runCmd.Flags().String("run-id", "", "Identifier of the run (generated when empty)")
	runCmd.Flags().Bool("resume", false, "Resume the stored run given by --run-id")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics and run snapshots on this address, e.g. :9090")
	runCmd.Flags().String("drivers", "", "Driver file mapping command types to executables that move the robot")
	runCmd.Flags().Bool("strict-drivers", false, "Fail commands that have no driver instead of skipping them")
	runCmd.Flags().StringArray("set", nil, "Override a protocol value, e.g. --set reagents.0.total_volume=1400")
}
