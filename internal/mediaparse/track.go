package mediaparse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Track name conventions, in priority order. These mirror the patterns the
// naming engine can emit plus common hand-made layouts.
var trackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)-(\d{1,3}) - (.+)$`), // D-TT - Title
	regexp.MustCompile(`^(\d{1,3}) - (.+)$`),       // TT - Title
	regexp.MustCompile(`^(\d{1,3})\. (.+)$`),       // TT. Title
	regexp.MustCompile(`^(\d{1,3}) (.+)$`),         // TT Title
}

func parseTrackName(path string) (disc, track int, title string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	for i, re := range trackPatterns {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		if i == 0 {
			disc, _ = strconv.Atoi(m[1])
			track, _ = strconv.Atoi(m[2])
			title = strings.TrimSpace(m[3])
		} else {
			track, _ = strconv.Atoi(m[1])
			title = strings.TrimSpace(m[2])
		}
		return disc, track, title, true
	}
	return 0, 0, "", false
}

// albumFolderPattern matches "Artist - Album (Year)" and "Artist - Album".
var albumFolderPattern = regexp.MustCompile(`^(.+?) - (.+?)(?: \((\d{4})\))?$`)

// ParseAlbumFolder extracts artist/album/year from the file's parent folder
// (or grandparent when the parent looks like a disc folder).
func ParseAlbumFolder(path string) (artist, album string, year int, ok bool) {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return "", "", 0, false
	}

	// "CD1"/"Disc 2" folders sit between the album folder and the files.
	if discFolderPattern.MatchString(dir) {
		dir = filepath.Base(filepath.Dir(filepath.Dir(path)))
	}

	m := albumFolderPattern.FindStringSubmatch(dir)
	if m == nil {
		return "", "", 0, false
	}
	artist = strings.TrimSpace(m[1])
	album = strings.TrimSpace(m[2])
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return artist, album, year, true
}

var discFolderPattern = regexp.MustCompile(`(?i)^(cd|disc|disk)[ ._-]?(\d{1,2})$`)

// ParseDiscFolder reports the disc number when the file's parent folder is a
// disc folder like "CD1" or "Disc 2".
func ParseDiscFolder(path string) (int, bool) {
	dir := filepath.Base(filepath.Dir(path))
	m := discFolderPattern.FindStringSubmatch(dir)
	if m == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(m[2])
	return n, true
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

func parseYear(path string) int {
	if m := yearPattern.FindString(filepath.Base(path)); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}
