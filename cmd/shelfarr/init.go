package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Long: `Write an example config file.

Without a path, writes to the default location
($XDG_CONFIG_HOME/shelfarr/config.toml). Refuses to overwrite an
existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; edit it or pass a different path", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\nEdit the root_folders entries, then run 'shelfarr serve'.\n", path)
	return nil
}
