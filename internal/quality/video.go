package quality

// Video source and resolution tokens are detected in fixed priority order:
// the first token of each category found in the hint list wins, even when a
// "better" token appears later. Existing release names in the wild depend on
// this order, so it must not be reordered.

// resolutionTokens maps hint tokens to resolutions, in detection priority.
var resolutionTokens = []struct {
	Token      string
	Resolution int
}{
	{"2160p", 2160},
	{"4k", 2160},
	{"uhd", 2160},
	{"1080p", 1080},
	{"720p", 720},
	{"480p", 480},
	{"sd", 480},
}

// sourceTokens maps hint tokens to sources, in detection priority. REMUX is
// first: it always implies a BluRay source regardless of other tokens.
var sourceTokens = []struct {
	Token  string
	Source string
	Remux  bool
}{
	{"remux", "bluray", true},
	{"bluray", "bluray", false},
	{"blu-ray", "bluray", false},
	{"bdrip", "bluray", false},
	{"brrip", "bluray", false},
	{"web-dl", "web", false},
	{"webdl", "web", false},
	{"webrip", "web", false},
	{"web", "web", false},
	{"hdtv", "hdtv", false},
	{"pdtv", "hdtv", false},
	{"dvd", "dvd", false},
	{"cam", "cam", false},
	{"ts", "cam", false},
	{"telesync", "cam", false},
}

// sourceDefaultResolution infers resolution when only the source is known.
var sourceDefaultResolution = map[string]int{
	"bluray": 1080,
	"web":    720,
	"hdtv":   720,
	"dvd":    480,
}

// resolutionDefaultSource infers source when only the resolution is known.
var resolutionDefaultSource = map[int]string{
	2160: "web",
	1080: "web",
	720:  "hdtv",
	480:  "dvd",
}

// videoTable is the closed quality enumeration. Every rankable
// source/resolution pair has exactly one entry. New tokens must be added to
// the detection lists and the inference tables together.
var videoTable = []VideoQuality{
	{ID: 1, Name: "SDTV", Resolution: 480, Source: "hdtv"},
	{ID: 2, Name: "DVD", Resolution: 480, Source: "dvd"},
	{ID: 3, Name: "WEBDL-480p", Resolution: 480, Source: "web"},
	{ID: 4, Name: "Bluray-480p", Resolution: 480, Source: "bluray"},
	{ID: 5, Name: "HDTV-720p", Resolution: 720, Source: "hdtv"},
	{ID: 6, Name: "WEBDL-720p", Resolution: 720, Source: "web"},
	{ID: 7, Name: "Bluray-720p", Resolution: 720, Source: "bluray"},
	{ID: 8, Name: "HDTV-1080p", Resolution: 1080, Source: "hdtv"},
	{ID: 9, Name: "WEBDL-1080p", Resolution: 1080, Source: "web"},
	{ID: 10, Name: "Bluray-1080p", Resolution: 1080, Source: "bluray"},
	{ID: 11, Name: "HDTV-2160p", Resolution: 2160, Source: "hdtv"},
	{ID: 12, Name: "WEBDL-2160p", Resolution: 2160, Source: "web"},
	{ID: 13, Name: "Bluray-2160p", Resolution: 2160, Source: "bluray"},
}

// ClassifyVideo maps hint tokens to a video quality table entry. Returns nil
// when the hints cannot be ranked: either nothing was recognized, or the
// source is CAM/TS which is explicitly too low to rank.
func ClassifyVideo(s VideoSignals) *VideoQuality {
	hintSet := make(map[string]bool, len(s.Hints))
	for _, h := range s.Hints {
		hintSet[h] = true
	}

	resolution := 0
	for _, rt := range resolutionTokens {
		if hintSet[rt.Token] {
			resolution = rt.Resolution
			break
		}
	}

	source := ""
	isRemux := false
	for _, st := range sourceTokens {
		if hintSet[st.Token] {
			source = st.Source
			isRemux = st.Remux
			break
		}
	}

	if source == "cam" {
		return nil
	}
	if resolution == 0 && source == "" {
		return nil
	}

	// Fill the missing half from the inference tables.
	if resolution == 0 {
		resolution = sourceDefaultResolution[source]
	}
	if source == "" {
		source = resolutionDefaultSource[resolution]
	}

	for _, q := range videoTable {
		if q.Resolution == resolution && q.Source == source {
			out := q
			out.IsRemux = isRemux
			return &out
		}
	}
	return nil
}
