package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validMediaTypes = map[string]bool{
	"music": true, "tv": true, "movies": true, "books": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if len(c.RootFolders) == 0 {
		errs = append(errs, "root_folders: at least one root folder must be configured")
	}
	seen := make(map[string]bool)
	for i, r := range c.RootFolders {
		if r.Path == "" {
			errs = append(errs, fmt.Sprintf("root_folders[%d].path: required", i))
		} else if seen[r.Path] {
			errs = append(errs, fmt.Sprintf("root_folders[%d].path: %q configured twice", i, r.Path))
		} else {
			seen[r.Path] = true
		}
		if !validMediaTypes[r.MediaType] {
			errs = append(errs, fmt.Sprintf("root_folders[%d].media_type: must be one of music, tv, movies, books; got %q", i, r.MediaType))
		}
		// A typo here would silently scan nothing, so missing directories
		// are a hard error rather than a warning.
		if r.Path != "" {
			if _, err := os.Stat(r.Path); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("root_folders[%d].path: directory %q does not exist", i, r.Path))
			}
		}
	}

	if c.Import.ProbeTimeout.Duration < 0 {
		errs = append(errs, fmt.Sprintf("import.probe_timeout: must be positive, got %s", c.Import.ProbeTimeout))
	}
	for i, m := range c.Import.PathMappings {
		if m.Remote == "" {
			errs = append(errs, fmt.Sprintf("import.path_mappings[%d].remote: required", i))
		}
		if m.Local == "" {
			errs = append(errs, fmt.Sprintf("import.path_mappings[%d].local: required", i))
		}
	}

	if c.Scan.Interval.Duration < 0 {
		errs = append(errs, fmt.Sprintf("scan.interval: must be positive, got %s", c.Scan.Interval))
	}

	providers := make(map[string]bool)
	for i, p := range c.Metadata.Providers {
		if !validMediaTypes[p.MediaType] {
			errs = append(errs, fmt.Sprintf("metadata.providers[%d].media_type: must be one of music, tv, movies, books; got %q", i, p.MediaType))
		} else if providers[p.MediaType] {
			errs = append(errs, fmt.Sprintf("metadata.providers[%d].media_type: %q configured twice", i, p.MediaType))
		} else {
			providers[p.MediaType] = true
		}
		if p.URL == "" {
			errs = append(errs, fmt.Sprintf("metadata.providers[%d].url: required", i))
		}
	}

	return errs
}
