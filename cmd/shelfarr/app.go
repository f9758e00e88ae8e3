package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/importer"
	"github.com/vmunix/shelfarr/internal/library"
	"github.com/vmunix/shelfarr/internal/metadata"
)

// app bundles the loaded config and open database every command needs.
type app struct {
	cfg *config.Config
	db  *sql.DB
	log *slog.Logger
}

func openApp() (*app, error) {
	path := configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, fmt.Errorf("%w\n\nRun 'shelfarr init' to create one", err)
		}
		path = discovered
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config %s:\n%w", path, err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := library.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	return &app{cfg: cfg, db: db, log: logger}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}

// providers builds the external metadata lookups declared in config,
// keyed by media type. Returns nil when none are configured.
func (a *app) providers() map[library.MediaType]metadata.Provider {
	if len(a.cfg.Metadata.Providers) == 0 {
		return nil
	}
	providers := make(map[library.MediaType]metadata.Provider, len(a.cfg.Metadata.Providers))
	for _, p := range a.cfg.Metadata.Providers {
		providers[library.MediaType(p.MediaType)] = metadata.NewHTTPProvider(p.URL, p.APIKey)
	}
	return providers
}

// pathMappings converts the config form to the importer's.
func (a *app) pathMappings() []importer.PathMapping {
	mappings := make([]importer.PathMapping, len(a.cfg.Import.PathMappings))
	for i, m := range a.cfg.Import.PathMappings {
		mappings[i] = importer.PathMapping{RemotePrefix: m.Remote, LocalPrefix: m.Local}
	}
	return mappings
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
