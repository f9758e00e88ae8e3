package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spf13/cobra"

	"github.com/vmunix/shelfarr/internal/config"
	"github.com/vmunix/shelfarr/internal/library"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	rootDir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
path = "` + filepath.Join(dir, "shelfarr.db") + `"

[[root_folders]]
path = "` + rootDir + `"
media_type = "music"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOpenApp(t *testing.T) {
	configPath = writeTestConfig(t)
	t.Cleanup(func() { configPath = "" })

	a, err := openApp()
	require.NoError(t, err)
	defer a.Close()

	assert.Len(t, a.cfg.RootFolders, 1)
	assert.NotNil(t, a.db)
}

func TestOpenApp_BadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	t.Cleanup(func() { configPath = "" })
	require.NoError(t, os.WriteFile(configPath, []byte(`[log`), 0644))

	_, err := openApp()
	assert.Error(t, err)
}

func TestStatusCommand_EmptyLibrary(t *testing.T) {
	configPath = writeTestConfig(t)
	t.Cleanup(func() { configPath = "" })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runStatusCmd(cmd, nil))
	assert.Contains(t, out.String(), "PATH")
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, runInitCmd(nil, []string{path}))

	err := runInitCmd(nil, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAppProviders(t *testing.T) {
	a := &app{cfg: &config.Config{}}
	assert.Nil(t, a.providers())

	a.cfg.Metadata.Providers = []config.MetadataProvider{
		{MediaType: "music", URL: "https://mb.example.org"},
		{MediaType: "movies", URL: "https://tmdb.example.org", APIKey: "k"},
	}
	providers := a.providers()
	require.Len(t, providers, 2)
	assert.NotNil(t, providers[library.MediaTypeMusic])
	assert.NotNil(t, providers[library.MediaTypeMovies])
}
