package mediaparse

import (
	"regexp"
	"strings"
)

// hintTokens are the raw tokens the quality classifier knows how to rank.
// Order matters: the classifier takes the first match per category, so the
// scan preserves the order tokens appear in this list, not in the name.
var hintTokens = []string{
	// resolution
	"2160p", "4k", "uhd", "1080p", "720p", "480p", "sd",
	// source
	"remux", "bluray", "blu-ray", "bdrip", "brrip",
	"web-dl", "webdl", "webrip", "web",
	"hdtv", "pdtv", "dvd", "cam", "ts", "telesync",
	// flags
	"proper", "repack",
}

var wordBoundary = regexp.MustCompile(`[^a-z0-9-]+`)

// QualityHints scans a name for known quality tokens. The returned slice is
// ordered by the fixed token priority above so that conflicting tokens (both
// "1080p" and "720p" in one name) resolve deterministically.
func QualityHints(name string) []string {
	lower := strings.ToLower(name)
	words := make(map[string]bool)
	for _, w := range wordBoundary.Split(lower, -1) {
		if w != "" {
			words[w] = true
		}
	}

	var hints []string
	for _, tok := range hintTokens {
		if words[tok] || (strings.Contains(tok, "-") && strings.Contains(lower, tok)) {
			hints = append(hints, tok)
		}
	}
	return hints
}
