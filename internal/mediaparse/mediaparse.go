// Package mediaparse extracts media-identifying signals from file paths.
//
// All parsing here is best-effort string work: malformed input yields
// zero-valued fields, never an error. Embedded-tag extraction lives in the
// probe package; this package only sees paths.
package mediaparse

import (
	"path/filepath"
	"strings"
)

// Signals is the best-effort result of parsing a path or release name.
// Zero values mean "not present".
type Signals struct {
	Title         string
	Artist        string
	Album         string
	TrackNumber   int
	DiscNumber    int
	SeasonNumber  int
	EpisodeNumber int
	Year          int
	QualityHints  []string // raw tokens for the quality classifier
}

// Parse extracts whatever signals the path carries. It combines the episode
// grammar, track-number conventions, folder conventions, and quality hint
// scanning into one pass.
func Parse(path string) Signals {
	sig := Signals{}

	if season, episode, ok := ParseEpisode(path); ok {
		sig.SeasonNumber = season
		sig.EpisodeNumber = episode
	}

	if disc, track, title, ok := parseTrackName(path); ok {
		sig.DiscNumber = disc
		sig.TrackNumber = track
		sig.Title = title
	}

	if artist, album, year, ok := ParseAlbumFolder(path); ok {
		sig.Artist = artist
		sig.Album = album
		sig.Year = year
	}

	if sig.Year == 0 {
		sig.Year = parseYear(path)
	}

	// The extension is not a quality token; ".ts" as a container must not
	// read as a telesync source.
	sig.QualityHints = QualityHints(strings.TrimSuffix(path, filepath.Ext(path)))
	return sig
}
