package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{
		RootFolders: []RootFolder{{Path: t.TempDir(), MediaType: "music"}},
	}
	cfg.applyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, validConfig(t).Validate())
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.Log.Level = "verbose"

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "log.level")
}

func TestValidate_NoRootFolders(t *testing.T) {
	cfg := validConfig(t)
	cfg.RootFolders = nil

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "at least one root folder")
}

func TestValidate_BadMediaType(t *testing.T) {
	cfg := validConfig(t)
	cfg.RootFolders[0].MediaType = "vinyl"

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "media_type")
}

func TestValidate_MissingDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.RootFolders[0].Path = filepath.Join(t.TempDir(), "does-not-exist")

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "does not exist")
}

func TestValidate_DuplicateRoot(t *testing.T) {
	cfg := validConfig(t)
	cfg.RootFolders = append(cfg.RootFolders, cfg.RootFolders[0])

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "configured twice")
}

func TestValidate_PathMappings(t *testing.T) {
	cfg := validConfig(t)
	cfg.Import.PathMappings = []PathMapping{{Remote: "/downloads"}}

	errs := cfg.Validate()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "path_mappings[0].local")
}

func TestValidate_NegativeDurations(t *testing.T) {
	cfg := validConfig(t)
	cfg.Import.ProbeTimeout = Duration{-time.Second}
	cfg.Scan.Interval = Duration{-time.Minute}

	errs := cfg.Validate()
	assert.Len(t, errs, 2)
}

func TestValidate_MetadataProviders(t *testing.T) {
	cfg := validConfig(t)
	cfg.Metadata.Providers = []MetadataProvider{
		{MediaType: "vinyl", URL: "http://a"},
		{MediaType: "music", URL: ""},
		{MediaType: "music", URL: "http://b"},
	}

	errs := cfg.Validate()
	assert.Len(t, errs, 3)
	assert.Contains(t, errs[0], "metadata.providers[0].media_type")
	assert.Contains(t, errs[1], "metadata.providers[1].url")
	assert.Contains(t, errs[2], "configured twice")
}
