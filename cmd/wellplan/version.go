package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wellplan"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wellplan",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wellplan version %s\n", strings.TrimSpace(wellplan.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
