package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon",
	Long: `Run the daemon.

Registers the configured root folders, scans them periodically, and
imports downloads as they complete. Stops cleanly on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	roots := make([]server.RootFolder, len(a.cfg.RootFolders))
	for i, r := range a.cfg.RootFolders {
		roots[i] = server.RootFolder{Path: r.Path, MediaType: library.MediaType(r.MediaType)}
	}

	runner := server.NewRunner(a.db, server.Config{
		ScanInterval:     a.cfg.Scan.Interval.Duration,
		ProbeTimeout:     a.cfg.Import.ProbeTimeout.Duration,
		MetadataCacheTTL: a.cfg.Metadata.CacheTTL.Duration,
		PathMappings:     a.pathMappings(),
		RootFolders:      roots,
		Providers:        a.providers(),
	}, a.log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Info("shelfarr starting", "version", version, "db", a.cfg.Database.Path)
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.log.Info("shelfarr stopped")
	return nil
}
