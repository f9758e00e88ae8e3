package mediaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		season  int
		episode int
		ok      bool
	}{
		{"standard", "The.Wire.S01E02.720p.mkv", 1, 2, true},
		{"lowercase", "the.wire.s01e02.mkv", 1, 2, true},
		{"spaced", "The Wire S01 E02.mkv", 1, 2, true},
		{"x format", "The Wire 1x02.mkv", 1, 2, true},
		{"verbose", "The Wire Season 1 Episode 2.mkv", 1, 2, true},
		{"three digit episode", "Show.S02E113.mkv", 2, 113, true},
		{"episode only", "Show Ep04.mkv", 0, 4, true},
		{"no match", "Some Movie (2020).mkv", 0, 0, false},
		{"empty", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e, ok := ParseEpisode(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.season, s)
			assert.Equal(t, tt.episode, e)
		})
	}
}

func TestParseEpisode_PriorityOrder(t *testing.T) {
	// When two grammars both match, the first in priority order wins.
	s, e, ok := ParseEpisode("Show.S01E02.also.3x04.mkv")
	assert.True(t, ok)
	assert.Equal(t, 1, s)
	assert.Equal(t, 2, e)
}

func TestParseMultiEpisode(t *testing.T) {
	s, eps, ok := ParseMultiEpisode("Show.S01E05E06.mkv")
	assert.True(t, ok)
	assert.Equal(t, 1, s)
	assert.Equal(t, []int{5, 6}, eps)

	s, eps, ok = ParseMultiEpisode("Show.S01E05.mkv")
	assert.True(t, ok)
	assert.Equal(t, 1, s)
	assert.Equal(t, []int{5}, eps)

	_, _, ok = ParseMultiEpisode("Movie (2020).mkv")
	assert.False(t, ok)
}

func TestParseSeasonFolder(t *testing.T) {
	tests := []struct {
		name   string
		season int
		ok     bool
	}{
		{"Season 01", 1, true},
		{"Season.2", 2, true},
		{"season_10", 10, true},
		{"S3", 3, true},
		{"Specials", 0, false},
		{"Show (2021)", 0, false},
	}
	for _, tt := range tests {
		s, ok := ParseSeasonFolder(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.season, s, tt.name)
	}
}

func TestParseAlbumFolder(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		artist string
		album  string
		year   int
		ok     bool
	}{
		{"with year", "Miles Davis - Kind of Blue (1959)/01 - So What.flac", "Miles Davis", "Kind of Blue", 1959, true},
		{"without year", "Miles Davis - Kind of Blue/01 - So What.flac", "Miles Davis", "Kind of Blue", 0, true},
		{"disc subfolder", "Artist - Album (2020)/CD1/01 - Song.flac", "Artist", "Album", 2020, true},
		{"no convention", "random/01 - Song.flac", "", "", 0, false},
		{"bare file", "01 - Song.flac", "", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, album, year, ok := ParseAlbumFolder(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.artist, artist)
			assert.Equal(t, tt.album, album)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestParseDiscFolder(t *testing.T) {
	n, ok := ParseDiscFolder("Album/CD2/01 - Song.flac")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = ParseDiscFolder("Album/Disc 1/01 - Song.flac")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = ParseDiscFolder("Album/01 - Song.flac")
	assert.False(t, ok)
}

func TestQualityHints(t *testing.T) {
	hints := QualityHints("Movie.2020.1080p.BluRay.x264-GROUP.mkv")
	assert.Contains(t, hints, "1080p")
	assert.Contains(t, hints, "bluray")

	hints = QualityHints("Show.S01E01.WEB-DL.720p.mkv")
	assert.Contains(t, hints, "web-dl")
	assert.Contains(t, hints, "720p")

	// Conflicting resolutions keep fixed priority order.
	hints = QualityHints("Movie.720p.1080p.mkv")
	assert.Less(t, indexOf(hints, "1080p"), indexOf(hints, "720p"))

	assert.Empty(t, QualityHints("01 - So What.flac"))
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestParse_Track(t *testing.T) {
	sig := Parse("Miles Davis - Kind of Blue (1959)/01 - So What.flac")
	assert.Equal(t, "Miles Davis", sig.Artist)
	assert.Equal(t, "Kind of Blue", sig.Album)
	assert.Equal(t, 1959, sig.Year)
	assert.Equal(t, 1, sig.TrackNumber)
	assert.Equal(t, "So What", sig.Title)
	assert.Equal(t, 0, sig.SeasonNumber)
}

func TestParse_Episode(t *testing.T) {
	sig := Parse("The Wire/Season 01/The.Wire.S01E03.1080p.WEB-DL.mkv")
	assert.Equal(t, 1, sig.SeasonNumber)
	assert.Equal(t, 3, sig.EpisodeNumber)
	assert.Contains(t, sig.QualityHints, "1080p")
}

func TestParse_ExtensionIsNotAQualityHint(t *testing.T) {
	// A .ts transport stream is a container, not a telesync tag.
	sig := Parse("Show/Season 01/Show.S01E01.720p.ts")
	assert.NotContains(t, sig.QualityHints, "ts")
	assert.Contains(t, sig.QualityHints, "720p")
}

func TestParse_Malformed(t *testing.T) {
	// Garbage in, zero values out. Never panics, never errors.
	for _, in := range []string{"", "///", "\x00\xff", "............"} {
		sig := Parse(in)
		assert.Equal(t, 0, sig.TrackNumber)
		assert.Equal(t, 0, sig.EpisodeNumber)
	}
}
