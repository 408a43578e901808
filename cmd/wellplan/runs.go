package main

import (
	"fmt"
	"os"

	"github.com/aretw0/wellplan/internal/cli"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
}

var runsListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		ids, err := p.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}
		for _, id := range ids {
			state, err := p.Store.Load(cmd.Context(), id)
			if err != nil {
				fmt.Printf("%s\t(unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\tstep %d\t%s\n", id, state.Protocol, state.Status, state.Step,
				state.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print a stored run snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		protocol, _ := cmd.Flags().GetString("protocol")

		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		return cli.Inspect(cmd.Context(), p.Store, args[0], protocol, os.Stdout)
	},
}

var runsRemoveCmd = &cobra.Command{
	Use:     "rm <run-id>...",
	Aliases: []string{"delete"},
	Short:   "Delete stored runs",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		for _, id := range args {
			if err := p.Store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete run %s: %w", id, err)
			}
			fmt.Printf("Deleted run %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsInspectCmd, runsRemoveCmd)

	runsInspectCmd.Flags().String("protocol", "", "Protocol file; prints the run progress as a Mermaid graph")
}
