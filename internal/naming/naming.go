// Package naming builds sanitized library paths for media files.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxNameLen is the longest segment we will produce. Most filesystems allow
// 255 bytes; 200 leaves room for extensions and suffixes.
const maxNameLen = 200

// unknownName replaces names that sanitize down to nothing.
const unknownName = "Unknown"

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// reservedNames are device names Windows refuses as filenames, with or
// without an extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Sanitize removes or replaces characters that are unsafe for filenames.
// It is idempotent and never returns an empty string.
func Sanitize(name string) string {
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")

	if name == "" {
		return unknownName
	}

	// CON.txt is as unusable as CON, so check the stem too.
	stem := name
	if idx := strings.IndexByte(stem, '.'); idx > 0 {
		stem = stem[:idx]
	}
	if reservedNames[strings.ToUpper(stem)] {
		name = "_" + name
	}

	if len(name) > maxNameLen {
		// Cut on a rune boundary so a multibyte name never truncates to
		// invalid UTF-8.
		cut := maxNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.Trim(name[:cut], " .")
		if name == "" {
			return unknownName
		}
	}

	return name
}

// ArtistFolder returns the folder name for an artist or author.
func ArtistFolder(name string) string {
	return Sanitize(name)
}

// AlbumFolder returns the folder name for an album. Years outside 1900-2099
// are treated as unknown and omitted.
func AlbumFolder(title string, year int) string {
	if year >= 1900 && year <= 2099 {
		return Sanitize(fmt.Sprintf("[%d] %s", year, title))
	}
	return Sanitize(title)
}

// TrackFileName returns the base name (without extension) for a track.
// Disc numbers above 1 are prefixed so multi-disc albums sort correctly.
func TrackFileName(discNumber, trackNumber int, title string) string {
	if discNumber > 1 {
		return Sanitize(fmt.Sprintf("%d-%02d - %s", discNumber, trackNumber, title))
	}
	return Sanitize(fmt.Sprintf("%02d - %s", trackNumber, title))
}

// BookFileName returns the base name (without extension) for a book.
func BookFileName(title string, year int) string {
	if year >= 1900 && year <= 2099 {
		return Sanitize(fmt.Sprintf("%s (%d)", title, year))
	}
	return Sanitize(title)
}

// EpisodeFileName returns the base name for an episode file.
func EpisodeFileName(showTitle string, season, episode int, title string) string {
	name := fmt.Sprintf("%s - S%02dE%02d", showTitle, season, episode)
	if title != "" {
		name += " - " + title
	}
	return Sanitize(name)
}

// NormalizeExt ensures an extension has exactly one leading dot.
func NormalizeExt(ext string) string {
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + strings.ToLower(ext)
}

// JoinPath concatenates sanitized segments into a relative path. Segments are
// assumed to already be sanitized; empty segments are skipped.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// TrackPath builds the full relative path for a track file.
func TrackPath(artist, albumTitle string, albumYear, disc, track int, title, ext string) string {
	return JoinPath(
		ArtistFolder(artist),
		AlbumFolder(albumTitle, albumYear),
		TrackFileName(disc, track, title)+NormalizeExt(ext),
	)
}

// BookPath builds the full relative path for a book file.
func BookPath(author, title string, year int, ext string) string {
	return JoinPath(
		ArtistFolder(author),
		BookFileName(title, year)+NormalizeExt(ext),
	)
}

// EpisodePath builds the full relative path for an episode file.
func EpisodePath(showTitle string, season, episode int, episodeTitle, ext string) string {
	return JoinPath(
		Sanitize(showTitle),
		fmt.Sprintf("Season %02d", season),
		EpisodeFileName(showTitle, season, episode, episodeTitle)+NormalizeExt(ext),
	)
}

// MoviePath builds the full relative path for a movie file.
func MoviePath(title string, year int, ext string) string {
	folder := Sanitize(title)
	if year >= 1900 && year <= 2099 {
		folder = Sanitize(fmt.Sprintf("%s (%d)", title, year))
	}
	return JoinPath(folder, folder+NormalizeExt(ext))
}
