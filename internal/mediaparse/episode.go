package mediaparse

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// Episode grammars, in priority order. The first pattern that matches wins;
// later patterns are not consulted, so a name like "S01E02 - 3x04" parses as
// season 1 episode 2.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._-]?E(\d{1,3})\b`),                       // S01E02, S01 E02, S01.E02
	regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,3})\b`),                               // 1x02
	regexp.MustCompile(`(?i)\bSeason[ ._]?(\d{1,2})[ ._]?Episode[ ._]?(\d{1,3})\b`), // Season 1 Episode 2
	regexp.MustCompile(`(?i)\bEp?(\d{1,3})\b`),                                      // E02, Ep02 (season unknown)
}

// ParseEpisode extracts season and episode numbers from a path. The last
// pattern has no season group; it reports season 0 with ok=true so callers
// can still use the episode number against a known season.
func ParseEpisode(path string) (season, episode int, ok bool) {
	name := filepath.Base(path)

	for i, re := range episodePatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if i == len(episodePatterns)-1 {
			episode, _ = strconv.Atoi(m[1])
			return 0, episode, true
		}
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode, true
	}
	return 0, 0, false
}

var seasonFolderPattern = regexp.MustCompile(`(?i)^(?:Season[ ._-]?|S)(\d{1,2})$`)

// ParseSeasonFolder reads a season number from a folder name like
// "Season 01" or "S2". Used to recover the season for episode grammars
// that only carry an episode number.
func ParseSeasonFolder(name string) (int, bool) {
	m := seasonFolderPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	season, _ := strconv.Atoi(m[1])
	return season, true
}

// multiEpisodePattern matches additional episodes in multi-episode files
// like S01E05E06.
var multiEpisodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,3})((?:[-E]\d{1,3})+)\b`)

var trailingEpisode = regexp.MustCompile(`\d{1,3}`)

// ParseMultiEpisode returns all episode numbers in a multi-episode name.
// Single-episode names return a one-element slice.
func ParseMultiEpisode(path string) (season int, episodes []int, ok bool) {
	name := filepath.Base(path)

	if m := multiEpisodePattern.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
		first, _ := strconv.Atoi(m[2])
		episodes = []int{first}
		for _, extra := range trailingEpisode.FindAllString(m[3], -1) {
			n, _ := strconv.Atoi(extra)
			episodes = append(episodes, n)
		}
		return season, episodes, true
	}

	s, e, found := ParseEpisode(path)
	if !found {
		return 0, nil, false
	}
	return s, []int{e}, true
}
