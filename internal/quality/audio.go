package quality

import (
	"fmt"
	"strings"
)

// Audio quality labels, ranked.
const (
	AudioHiResLossless = "Hi-Res Lossless"
	AudioLossless      = "Lossless"
	AudioLowQuality    = "Low Quality"
	AudioUnknown       = "Unknown"
)

// losslessCodecs are codecs that preserve the source signal bit-for-bit.
var losslessCodecs = map[string]bool{
	"flac": true, "alac": true, "wav": true, "ape": true,
	"wavpack": true, "wv": true, "aiff": true,
}

// lossyBuckets are the bitrate buckets for lossy codecs, highest first.
// A file at or above the threshold gets the bucket's label.
var lossyBuckets = []struct {
	Threshold int
	Label     string
}{
	{320, "320kbps"},
	{256, "256kbps"},
	{192, "192kbps"},
	{128, "128kbps"},
}

// ClassifyAudio maps probe signals to an audio quality label.
func ClassifyAudio(s AudioSignals) string {
	codec := strings.ToLower(s.Codec)

	if losslessCodecs[codec] {
		if s.BitDepth > 16 || s.SampleRate > 48000 {
			return AudioHiResLossless
		}
		return AudioLossless
	}

	if codec == "" {
		return AudioUnknown
	}

	if s.Bitrate <= 0 {
		return AudioUnknown
	}
	for _, b := range lossyBuckets {
		if s.Bitrate >= b.Threshold {
			return b.Label
		}
	}
	return AudioLowQuality
}

// FormatMediaInfo renders a short human string for file listings.
func FormatMediaInfo(s AudioSignals) string {
	if s.Codec == "" {
		return ""
	}
	out := strings.ToUpper(s.Codec)
	if s.Bitrate > 0 {
		out += fmt.Sprintf(" %dkbps", s.Bitrate)
	}
	if s.SampleRate > 0 {
		out += fmt.Sprintf(" %.1fkHz", float64(s.SampleRate)/1000)
	}
	if s.BitDepth > 0 {
		out += fmt.Sprintf(" %dbit", s.BitDepth)
	}
	return out
}
