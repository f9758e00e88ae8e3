package probe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildFLAC assembles a fLaC marker plus a STREAMINFO block carrying the
// given stream parameters.
func buildFLAC(sampleRate, channels, bitDepth int, totalSamples int64) []byte {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0x00, 0x00, 34}) // last block, STREAMINFO, length 34

	info := make([]byte, 34)
	info[10] = byte(sampleRate >> 12)
	info[11] = byte(sampleRate >> 4)
	info[12] = byte(sampleRate&0x0f)<<4 | byte(channels-1)<<1 | byte((bitDepth-1)>>4)
	info[13] = byte((bitDepth-1)&0x0f)<<4 | byte(totalSamples>>32)
	info[14] = byte(totalSamples >> 24)
	info[15] = byte(totalSamples >> 16)
	info[16] = byte(totalSamples >> 8)
	info[17] = byte(totalSamples)
	buf.Write(info)
	return buf.Bytes()
}

func TestReadFLACStreamInfo_HiRes(t *testing.T) {
	// 96kHz/24-bit stereo, one minute of audio in a 60MB file.
	data := buildFLAC(96000, 2, 24, 96000*60)

	tags := &Tags{Codec: "flac"}
	readFLACStreamInfo(bytes.NewReader(data), 60*1024*1024, tags)

	assert.Equal(t, 96000, tags.SampleRate)
	assert.Equal(t, 2, tags.Channels)
	assert.Equal(t, 24, tags.BitDepth)
	assert.Greater(t, tags.Bitrate, 0)
}

func TestReadFLACStreamInfo_CD(t *testing.T) {
	data := buildFLAC(44100, 2, 16, 44100*180)

	tags := &Tags{Codec: "flac"}
	readFLACStreamInfo(bytes.NewReader(data), 20*1024*1024, tags)

	assert.Equal(t, 44100, tags.SampleRate)
	assert.Equal(t, 16, tags.BitDepth)
}

func TestReadFLACStreamInfo_NotFLAC(t *testing.T) {
	tags := &Tags{Codec: "flac"}
	readFLACStreamInfo(bytes.NewReader([]byte("ID3 something else")), 1000, tags)
	assert.Zero(t, tags.SampleRate)
	assert.Zero(t, tags.BitDepth)
}

// buildMP3 assembles an ID3v2 header followed by one MPEG1 layer III frame
// header with the given bitrate/sample-rate table indexes.
func buildMP3(bitrateIdx, sampleRateIdx, channelMode byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 10}) // 10-byte tag body
	buf.Write(make([]byte, 10))
	buf.Write([]byte{
		0xff, 0xfb, // sync, MPEG1, layer III
		bitrateIdx<<4 | sampleRateIdx<<2,
		channelMode << 6,
	})
	return buf.Bytes()
}

func TestReadMP3FrameHeader_CBR(t *testing.T) {
	// Index 14 is 320kbps, index 0 is 44.1kHz, mode 1 is joint stereo.
	data := buildMP3(14, 0, 1)

	tags := &Tags{Codec: "mp3"}
	readMP3FrameHeader(bytes.NewReader(data), tags)

	assert.Equal(t, 320, tags.Bitrate)
	assert.Equal(t, 44100, tags.SampleRate)
	assert.Equal(t, 2, tags.Channels)
}

func TestReadMP3FrameHeader_Mono(t *testing.T) {
	data := buildMP3(9, 1, 3)

	tags := &Tags{Codec: "mp3"}
	readMP3FrameHeader(bytes.NewReader(data), tags)

	assert.Equal(t, 128, tags.Bitrate)
	assert.Equal(t, 48000, tags.SampleRate)
	assert.Equal(t, 1, tags.Channels)
}

func TestReadMP3FrameHeader_NoFrame(t *testing.T) {
	tags := &Tags{Codec: "mp3"}
	readMP3FrameHeader(bytes.NewReader(make([]byte, 64)), tags)
	assert.Zero(t, tags.Bitrate)
}
