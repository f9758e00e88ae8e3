package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/probe"
)

var importCmd = &cobra.Command{
	Use:   "import [download_id]",
	Short: "Import downloaded content into the library",
	Long: `Import downloaded content into the library.

Modes:
  Tracked:  shelfarr import <download_id>
  Manual:   shelfarr import --path <dir> --root <root_folder_id>

Manual mode identifies a music folder from its tags and folder name and
imports it into the given root folder.

Examples:
  shelfarr import 42
  shelfarr import --path "/downloads/Artist - Album (2020)" --root 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportCmd,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("path", "", "Source directory for a manual import")
	importCmd.Flags().Int64("root", 0, "Target root folder ID for a manual import")
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	srcPath, _ := cmd.Flags().GetString("path")
	rootID, _ := cmd.Flags().GetInt64("root")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	bus := events.NewBus(events.NewEventLog(a.db), a.log)
	defer bus.Close()

	imp := importer.New(a.db, probe.FileProber{}, bus, importer.Config{
		ProbeTimeout: a.cfg.Import.ProbeTimeout.Duration,
		PathMappings: a.pathMappings(),
		OnProgress: func(p importer.Progress) {
			fmt.Printf("%s: %d found, %d imported, %d skipped\n",
				p.Phase, p.FilesFound, p.FilesImported, p.FilesSkipped)
		},
	}, a.log)
	ctx := context.Background()

	if srcPath != "" {
		if rootID == 0 {
			return fmt.Errorf("--path requires --root <root_folder_id>")
		}
		result, err := imp.ImportPath(ctx, srcPath, rootID)
		if err != nil {
			return err
		}
		printImportResult(result)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("either provide a download ID or use --path <dir> --root <id>")
	}
	downloadID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid download ID: %s", args[0])
	}

	result, err := imp.Import(ctx, downloadID)
	if err != nil {
		return err
	}
	printImportResult(result)
	return nil
}

func printImportResult(r *importer.Result) {
	fmt.Printf("imported %d, skipped %d\n", r.FilesImported, r.FilesSkipped)
	for _, e := range r.Errors {
		fmt.Printf("  ! %s\n", e)
	}
}
