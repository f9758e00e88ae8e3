// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log         LogConfig      `toml:"log"`
	Database    DatabaseConfig `toml:"database"`
	RootFolders []RootFolder   `toml:"root_folders"`
	Import      ImportConfig   `toml:"import"`
	Scan        ScanConfig     `toml:"scan"`
	Metadata    MetadataConfig `toml:"metadata"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RootFolder declares one library root and the media type it holds.
type RootFolder struct {
	Path      string `toml:"path"`
	MediaType string `toml:"media_type"`
}

// Duration decodes TOML strings like "5s" or "1h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ImportConfig struct {
	ProbeTimeout Duration      `toml:"probe_timeout"`
	PathMappings []PathMapping `toml:"path_mappings"`
}

// PathMapping translates a download client's path prefix to a local one,
// for clients running on another host or in a container.
type PathMapping struct {
	Remote string `toml:"remote"`
	Local  string `toml:"local"`
}

type ScanConfig struct {
	Interval Duration `toml:"interval"`
}

type MetadataConfig struct {
	CacheTTL  Duration           `toml:"cache_ttl"`
	Providers []MetadataProvider `toml:"providers"`
}

// MetadataProvider declares one external lookup service. At most one
// provider per media type; media types without one fall back to
// needs-review entities.
type MetadataProvider struct {
	MediaType string `toml:"media_type"`
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
}

// Load reads and parses the configuration file. Unresolved ${VAR}
// references and validation failures are aggregated into a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/shelfarr.db"
	}
	if c.Import.ProbeTimeout.Duration == 0 {
		c.Import.ProbeTimeout.Duration = 5 * time.Second
	}
	if c.Scan.Interval.Duration == 0 {
		c.Scan.Interval.Duration = time.Hour
	}
	if c.Metadata.CacheTTL.Duration == 0 {
		c.Metadata.CacheTTL.Duration = 24 * time.Hour
	}
}

// substituteEnvVars replaces ${VAR} references with environment variable
// values and reports the names that could not be resolved. Two shell-style
// forms are supported: ${VAR:-default} falls back to the default when VAR
// is unset or empty, and ${VAR:?message} makes the variable required with
// a custom error message.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	record := func(desc, name string) {
		if !seen[name] {
			seen[name] = true
			missing = append(missing, desc)
		}
	}

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			record(name+" ("+msg+")", name)
			return match
		}

		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		record(expr, expr)
		return match
	})
	return out, missing
}
