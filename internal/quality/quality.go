// Package quality maps parsed media signals to ranked quality labels.
//
// Classification is pure and table-driven: the same signals always produce
// the same label, and quality IDs form a closed enumeration per media type.
package quality

// AudioSignals are the probe-derived inputs to audio classification.
type AudioSignals struct {
	Codec      string // flac, alac, mp3, aac, ...
	Bitrate    int    // kbps, 0 if unknown
	SampleRate int    // Hz, 0 if unknown
	BitDepth   int    // bits, 0 if unknown
	Channels   int
}

// VideoSignals are the name-derived inputs to video classification.
type VideoSignals struct {
	Hints []string // ordered quality hint tokens from mediaparse
}

// VideoQuality is a single entry in the closed video quality table.
type VideoQuality struct {
	ID         int
	Name       string
	Resolution int    // 480, 720, 1080, 2160
	Source     string // bluray, web, hdtv, dvd
	IsRemux    bool
}
