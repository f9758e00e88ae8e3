// Package server wires the daemon's long-running components together:
// the periodic library scan loop and the completed-download watcher.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/shelfarr/internal/download"
	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/metadata"
	"github.com/vmunix/shelfarr/internal/probe"
	"github.com/vmunix/shelfarr/internal/scanner"
)

// RootFolder declares one configured library root.
type RootFolder struct {
	Path      string
	MediaType library.MediaType
}

// Config for the daemon runner.
type Config struct {
	ScanInterval     time.Duration // periodic full rescan; 0 means hourly
	PollInterval     time.Duration // completed-download check; 0 means every 15s
	ProbeTimeout     time.Duration
	MetadataCacheTTL time.Duration
	PathMappings     []importer.PathMapping
	RootFolders      []RootFolder

	// Providers are the external metadata lookups, keyed by media type.
	// Each gets wrapped with the sqlite response cache before the scanner
	// sees it. Missing entries mean unknown content goes straight to
	// needs-review.
	Providers map[library.MediaType]metadata.Provider
}

// Runner owns the background loops.
type Runner struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// NewRunner creates a runner. Interval zero values get defaults.
func NewRunner(db *sql.DB, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = time.Hour
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	return &Runner{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Run starts the loops and blocks until the context is canceled or a
// component fails. Configured root folders are synced into the store
// before anything else starts.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.syncRootFolders(); err != nil {
		return err
	}

	eventLog := events.NewEventLog(r.db)
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer bus.Close()

	imp := importer.New(r.db, probe.FileProber{}, bus, importer.Config{
		ProbeTimeout: r.config.ProbeTimeout,
		PathMappings: r.config.PathMappings,
	}, r.logger.With("component", "importer"))

	providers := CachedProviders(r.db, r.config.Providers, r.config.MetadataCacheTTL, r.logger.With("component", "metadata"))
	scn := scanner.New(r.db, probe.FileProber{}, providers, nil, r.logger.With("component", "scanner"))
	coord := scanner.NewCoordinator(r.db, scn, bus, r.logger.With("component", "coordinator"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.scanLoop(ctx, coord) })
	g.Go(func() error { return r.watchDownloads(ctx, imp) })
	return g.Wait()
}

// CachedProviders wraps every configured provider with the shared sqlite
// response cache so repeated scan cycles don't hammer the upstream
// services.
func CachedProviders(db *sql.DB, providers map[library.MediaType]metadata.Provider, ttl time.Duration, log *slog.Logger) map[library.MediaType]metadata.Provider {
	if len(providers) == 0 {
		return nil
	}
	cache := metadata.NewCache(db)
	wrapped := make(map[library.MediaType]metadata.Provider, len(providers))
	for mt, p := range providers {
		wrapped[mt] = metadata.NewCachedProvider(p, cache, ttl, log)
	}
	return wrapped
}

// syncRootFolders reconciles the configured roots with the store: missing
// ones are added, and accessibility is refreshed for all of them.
func (r *Runner) syncRootFolders() error {
	lib := library.NewStore(r.db)

	existing, err := lib.ListRootFolders()
	if err != nil {
		return fmt.Errorf("list root folders: %w", err)
	}
	byPath := make(map[string]*library.RootFolder, len(existing))
	for _, root := range existing {
		byPath[root.Path] = root
	}

	for _, cfg := range r.config.RootFolders {
		root, ok := byPath[cfg.Path]
		if !ok {
			root = &library.RootFolder{Path: cfg.Path, MediaType: cfg.MediaType, Accessible: true}
			if err := lib.AddRootFolder(root); err != nil {
				return fmt.Errorf("add root folder %s: %w", cfg.Path, err)
			}
			byPath[cfg.Path] = root
			r.logger.Info("registered root folder", "path", cfg.Path, "media_type", cfg.MediaType)
		}
	}

	for _, root := range byPath {
		_, err := os.Stat(root.Path)
		accessible := err == nil
		if accessible != root.Accessible {
			if err := lib.SetAccessible(root.ID, accessible); err != nil {
				return fmt.Errorf("set accessible %s: %w", root.Path, err)
			}
			r.logger.Warn("root folder accessibility changed", "path", root.Path, "accessible", accessible)
		}
	}
	return nil
}

// scanLoop runs a full scan at startup and then on every tick.
func (r *Runner) scanLoop(ctx context.Context, coord *scanner.Coordinator) error {
	r.scanAll(ctx, coord)

	ticker := time.NewTicker(r.config.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.scanAll(ctx, coord)
		}
	}
}

func (r *Runner) scanAll(ctx context.Context, coord *scanner.Coordinator) {
	results, err := coord.ScanAll(ctx)
	if err != nil {
		r.logger.Error("scan all", "error", err)
		return
	}
	for _, res := range results {
		if res.Err != nil {
			r.logger.Error("scan root folder", "root_folder_id", res.RootFolderID, "error", res.Err)
		}
	}
}

// watchDownloads polls for completed downloads and imports them. Imports
// that fail past the probe mark the download failed; an unreachable source
// path leaves it completed so it is retried once the mount comes back.
func (r *Runner) watchDownloads(ctx context.Context, imp *importer.Importer) error {
	store := download.NewStore(r.db)

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			completed, err := store.ListByStatus(download.StatusCompleted)
			if err != nil {
				r.logger.Error("list completed downloads", "error", err)
				continue
			}
			for _, d := range completed {
				result, err := imp.Import(ctx, d.ID)
				if err != nil {
					r.logger.Error("import download", "download_id", d.ID, "release", d.ReleaseName, "error", err)
					continue
				}
				r.logger.Info("imported download", "download_id", d.ID,
					"imported", result.FilesImported, "skipped", result.FilesSkipped)
			}
		}
	}
}
