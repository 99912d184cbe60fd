// Package main provides the rescore CLI: batch scoring of recorded
// measurement files against the configured profiles.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "rescore",
		Short: "Score recorded swing measurements offline",
		Long: `Rescore runs batches of recorded swing measurements through the scoring
engine, using the same configuration file as the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SWING_CONFIG"), "Path to a YAML config file")

	rootCmd.AddCommand(
		newScoreCmd(&configPath),
		newProfilesCmd(&configPath),
	)
	return rootCmd
}
