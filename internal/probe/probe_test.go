package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProber_NoTags(t *testing.T) {
	// A file with no recognizable tag structure degrades to no data.
	path := filepath.Join(t.TempDir(), "untagged.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))

	tags, err := FileProber{}.ReadTags(path)
	assert.NoError(t, err)
	assert.Nil(t, tags)
}

func TestFileProber_MissingFile(t *testing.T) {
	_, err := FileProber{}.ReadTags(filepath.Join(t.TempDir(), "missing.flac"))
	assert.Error(t, err)
}

func TestCodecFromFileType_Fallback(t *testing.T) {
	assert.Equal(t, "wav", codecFromFileType("", "/music/a.WAV"))
	assert.Equal(t, "", codecFromFileType("", "/music/noext"))
}
