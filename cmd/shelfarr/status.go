package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/library"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show root folders, file counts, and download queue",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	lib := library.NewStore(a.db)
	roots, err := lib.ListRootFolders()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH\tTYPE\tSCAN\tFILES")
	for _, r := range roots {
		n, err := lib.CountFiles(r.ID)
		if err != nil {
			return err
		}
		state := string(r.ScanStatus)
		if !r.Accessible {
			state = "inaccessible"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", r.ID, r.Path, r.MediaType, state, n)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	downloads := download.NewStore(a.db)
	statuses := []download.Status{
		download.StatusDownloading,
		download.StatusCompleted,
		download.StatusImporting,
		download.StatusImported,
		download.StatusFailed,
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nDownloads:")
	for _, s := range statuses {
		list, err := downloads.ListByStatus(s)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", s, len(list))
	}
	return nil
}
