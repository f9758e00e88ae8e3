package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/probe"
	"github.com/vmunix/shelfarr/internal/scanner"
	"github.com/vmunix/shelfarr/internal/server"
)

var scanCmd = &cobra.Command{
	Use:   "scan [root_folder_id]",
	Short: "Scan root folders and reconcile files with the catalog",
	Long: `Scan root folders and reconcile files with the catalog.

Without arguments, scans every accessible root folder. With an ID,
scans just that one.

Examples:
  shelfarr scan        # scan everything
  shelfarr scan 2      # scan root folder 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	bus := events.NewBus(events.NewEventLog(a.db), a.log)
	defer bus.Close()

	providers := server.CachedProviders(a.db, a.providers(), a.cfg.Metadata.CacheTTL.Duration, a.log)
	scn := scanner.New(a.db, probe.FileProber{}, providers, nil, a.log)
	coord := scanner.NewCoordinator(a.db, scn, bus, a.log)
	ctx := context.Background()

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid root folder ID: %s", args[0])
		}
		result, err := coord.ScanRootFolder(ctx, id)
		if err != nil {
			return err
		}
		printScanResult(id, result)
		return nil
	}

	results, err := coord.ScanAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("root folder %d: error: %v\n", r.RootFolderID, r.Err)
			continue
		}
		printScanResult(r.RootFolderID, r.Result)
	}
	return nil
}

func printScanResult(id int64, r *scanner.Result) {
	fmt.Printf("root folder %d: %d seen, %d added, %d updated\n",
		id, r.FilesSeen, r.FilesAdded, r.FilesUpdated)
	for _, e := range r.Errors {
		fmt.Printf("  ! %s\n", e)
	}
}
