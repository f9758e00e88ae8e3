package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAudio(t *testing.T) {
	tests := []struct {
		name string
		in   AudioSignals
		want string
	}{
		{"flac", AudioSignals{Codec: "FLAC", BitDepth: 16, SampleRate: 44100}, AudioLossless},
		{"flac hires depth", AudioSignals{Codec: "FLAC", BitDepth: 24}, AudioHiResLossless},
		{"flac hires rate", AudioSignals{Codec: "flac", SampleRate: 96000}, AudioHiResLossless},
		{"alac", AudioSignals{Codec: "alac", BitDepth: 16}, AudioLossless},
		{"wav", AudioSignals{Codec: "wav"}, AudioLossless},
		{"ape", AudioSignals{Codec: "ape"}, AudioLossless},
		{"wavpack", AudioSignals{Codec: "wavpack"}, AudioLossless},
		{"mp3 320", AudioSignals{Codec: "mp3", Bitrate: 320}, "320kbps"},
		{"mp3 256", AudioSignals{Codec: "mp3", Bitrate: 256}, "256kbps"},
		{"mp3 somewhere between", AudioSignals{Codec: "mp3", Bitrate: 230}, "192kbps"},
		{"aac 128", AudioSignals{Codec: "aac", Bitrate: 128}, "128kbps"},
		{"mp3 low", AudioSignals{Codec: "mp3", Bitrate: 96}, AudioLowQuality},
		{"lossy no bitrate", AudioSignals{Codec: "mp3"}, AudioUnknown},
		{"no codec", AudioSignals{Bitrate: 320}, AudioUnknown},
		{"empty", AudioSignals{}, AudioUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAudio(tt.in))
		})
	}
}

func TestClassifyAudio_Pure(t *testing.T) {
	in := AudioSignals{Codec: "flac", BitDepth: 24}
	first := ClassifyAudio(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyAudio(in))
	}
}

func TestClassifyVideo(t *testing.T) {
	tests := []struct {
		name     string
		hints    []string
		wantName string
		wantNil  bool
	}{
		{"bluray 1080p", []string{"1080p", "bluray"}, "Bluray-1080p", false},
		{"webdl 720p", []string{"720p", "web-dl"}, "WEBDL-720p", false},
		{"hdtv 720p", []string{"720p", "hdtv"}, "HDTV-720p", false},
		{"2160p web", []string{"2160p", "webdl"}, "WEBDL-2160p", false},
		{"4k bluray", []string{"4k", "bluray"}, "Bluray-2160p", false},
		{"dvd", []string{"dvd"}, "DVD", false},
		{"cam", []string{"cam", "1080p"}, "", true},
		{"telesync", []string{"ts"}, "", true},
		{"nothing", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyVideo(VideoSignals{Hints: tt.hints})
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestClassifyVideo_Inference(t *testing.T) {
	// Source present, resolution absent: inferred from source.
	got := ClassifyVideo(VideoSignals{Hints: []string{"bluray"}})
	require.NotNil(t, got)
	assert.Equal(t, "Bluray-1080p", got.Name)

	got = ClassifyVideo(VideoSignals{Hints: []string{"hdtv"}})
	require.NotNil(t, got)
	assert.Equal(t, "HDTV-720p", got.Name)

	// Resolution present, source absent: inferred from resolution.
	got = ClassifyVideo(VideoSignals{Hints: []string{"1080p"}})
	require.NotNil(t, got)
	assert.Equal(t, "WEBDL-1080p", got.Name)

	got = ClassifyVideo(VideoSignals{Hints: []string{"720p"}})
	require.NotNil(t, got)
	assert.Equal(t, "HDTV-720p", got.Name)
}

func TestClassifyVideo_Remux(t *testing.T) {
	got := ClassifyVideo(VideoSignals{Hints: []string{"remux"}})
	require.NotNil(t, got)
	assert.True(t, got.IsRemux)
	assert.Equal(t, "bluray", got.Source)
	assert.Equal(t, "Bluray-1080p", got.Name)

	got = ClassifyVideo(VideoSignals{Hints: []string{"remux", "2160p"}})
	require.NotNil(t, got)
	assert.True(t, got.IsRemux)
	assert.Equal(t, "Bluray-2160p", got.Name)
}

func TestClassifyVideo_ConflictingTokens(t *testing.T) {
	// Both 1080p and 720p present: first in priority order wins.
	got := ClassifyVideo(VideoSignals{Hints: []string{"1080p", "720p", "bluray"}})
	require.NotNil(t, got)
	assert.Equal(t, "Bluray-1080p", got.Name)
}

func TestVideoTable_InferenceCoverage(t *testing.T) {
	// Every inferable pair must land on a table entry: tokens and inference
	// tables are maintained together.
	for src, res := range sourceDefaultResolution {
		found := false
		for _, q := range videoTable {
			if q.Source == src && q.Resolution == res {
				found = true
			}
		}
		assert.True(t, found, "no table entry for inferred %s/%d", src, res)
	}
	for res, src := range resolutionDefaultSource {
		found := false
		for _, q := range videoTable {
			if q.Source == src && q.Resolution == res {
				found = true
			}
		}
		assert.True(t, found, "no table entry for inferred %d/%s", res, src)
	}
}
