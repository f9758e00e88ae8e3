package naming

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParsedName holds the fields recovered from a track file name.
type ParsedName struct {
	DiscNumber  int // 0 if absent
	TrackNumber int
	Title       string
}

// Track name patterns, in priority order. The disc-prefixed form must be
// tried first or "2-03 - Foo" parses as track 2.
var trackNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)-(\d{1,3}) - (.+)$`), // D-TT - Title
	regexp.MustCompile(`^(\d{1,3}) - (.+)$`),       // TT - Title
	regexp.MustCompile(`^(\d{1,3})\. (.+)$`),       // TT. Title
	regexp.MustCompile(`^(\d{1,3}) (.+)$`),         // TT Title
}

// ParseFileName recovers disc/track/title from a file name produced by
// TrackFileName or from common hand-made conventions. Returns nil when no
// pattern matches.
func ParseFileName(name string) *ParsedName {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	for i, re := range trackNamePatterns {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		p := &ParsedName{}
		if i == 0 {
			p.DiscNumber, _ = strconv.Atoi(m[1])
			p.TrackNumber, _ = strconv.Atoi(m[2])
			p.Title = strings.TrimSpace(m[3])
		} else {
			p.TrackNumber, _ = strconv.Atoi(m[1])
			p.Title = strings.TrimSpace(m[2])
		}
		return p
	}
	return nil
}
