package main

import (
	"fmt"
	"os"

	"github.com/aretw0/wellplan/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wellplan",
	Short: "Wellplan plans reagent and tip usage for liquid-handling protocols",
	Long: `Wellplan runs liquid-handling protocols step by step. It tracks how much liquid is left in
every reservoir well, rolls over to the next well when one runs low, counts tips and asks the
operator to reload racks, and checkpoints each run so it can be resumed or reviewed later.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	env := cli.StoreOptionsFromEnv()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle traces")
	rootCmd.PersistentFlags().String("store", env.Kind, "Run store: file, redis or memory (env "+cli.EnvStore+")")
	rootCmd.PersistentFlags().String("store-dir", env.Dir, "Directory of the file store (env "+cli.EnvStoreDir+")")
	rootCmd.PersistentFlags().String("redis-addr", env.RedisAddr, "Address of the redis store (env "+cli.EnvRedisAddr+")")
	rootCmd.PersistentFlags().Duration("redis-ttl", 0, "Expire stored runs after this long (redis only, 0 keeps them)")
}

// storeOptions reads the persistent store flags.
func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	kind, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("store-dir")
	addr, _ := cmd.Flags().GetString("redis-addr")
	ttl, _ := cmd.Flags().GetDuration("redis-ttl")
	return cli.StoreOptions{Kind: kind, Dir: dir, RedisAddr: addr, TTL: ttl}
}

// openStore opens the store selected by the persistent flags.
func openStore(cmd *cobra.Command) (*cli.Persistence, error) {
	return cli.OpenStore(storeOptions(cmd))
}
