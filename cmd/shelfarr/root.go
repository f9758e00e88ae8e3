package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shelfarr",
	Short: "Media library import and organization",
	Long: `shelfarr - media library import and organization

Watches download clients, imports finished downloads into organized
library folders, and reconciles what is already on disk with the
catalog. Supports music, TV, movie, and book libraries.

Run 'shelfarr serve' to start the daemon, or use 'scan', 'import', and
'status' for one-shot operations against the same database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: auto-discover)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("shelfarr {{.Version}}\n")
}
