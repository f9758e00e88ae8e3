package probe

import (
	"io"
)

// The tag library stops at textual metadata; stream parameters come from
// the container headers directly. Failures here leave the fields zero,
// mirroring a container that doesn't expose them.

// readStreamInfo fills Bitrate/SampleRate/Channels/BitDepth from the
// container when the codec is one we know how to read.
func readStreamInfo(r io.ReadSeeker, size int64, t *Tags) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return
	}
	switch t.Codec {
	case "flac":
		readFLACStreamInfo(r, size, t)
	case "mp3":
		readMP3FrameHeader(r, t)
	}
}

// readFLACStreamInfo parses the mandatory STREAMINFO metadata block that
// follows the fLaC marker. Sample rate, channels, bit depth, and total
// samples are bit-packed into its last 8 bytes; bitrate is derived from
// the file size and duration.
func readFLACStreamInfo(r io.Reader, size int64, t *Tags) {
	var marker [4]byte
	if _, err := io.ReadFull(r, marker[:]); err != nil || string(marker[:]) != "fLaC" {
		return
	}

	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil || hdr[0]&0x7f != 0 {
		return
	}
	length := int(hdr[1])<<16 | int(hdr[2])<<8 | int(hdr[3])
	if length < 34 {
		return
	}

	var info [34]byte
	if _, err := io.ReadFull(r, info[:]); err != nil {
		return
	}

	sampleRate := int(info[10])<<12 | int(info[11])<<4 | int(info[12])>>4
	if sampleRate == 0 {
		return
	}
	t.SampleRate = sampleRate
	t.Channels = int(info[12]>>1&0x07) + 1
	t.BitDepth = (int(info[12]&0x01)<<4 | int(info[13])>>4) + 1

	totalSamples := int64(info[13]&0x0f)<<32 |
		int64(info[14])<<24 | int64(info[15])<<16 | int64(info[16])<<8 | int64(info[17])
	if totalSamples > 0 {
		seconds := float64(totalSamples) / float64(sampleRate)
		t.Bitrate = int(float64(size) * 8 / seconds / 1000)
	}
}

var mp3BitrateKbps = map[byte][15]int{
	1: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}, // MPEG1 layer III
	2: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},     // MPEG2/2.5 layer III
}

var mp3SampleRates = map[byte][3]int{
	0: {11025, 12000, 8000}, // MPEG2.5
	2: {22050, 24000, 16000},
	3: {44100, 48000, 32000},
}

// readMP3FrameHeader finds the first audio frame, skipping a leading ID3v2
// block, and reads bitrate, sample rate, and channel mode from it. VBR
// files report their first frame's rate, which is close enough for the
// quality tiers this feeds.
func readMP3FrameHeader(r io.ReadSeeker, t *Tags) {
	var id3 [10]byte
	if _, err := io.ReadFull(r, id3[:]); err != nil {
		return
	}
	if string(id3[:3]) == "ID3" {
		// Syncsafe 28-bit tag size, not counting this header.
		size := int64(id3[6]&0x7f)<<21 | int64(id3[7]&0x7f)<<14 | int64(id3[8]&0x7f)<<7 | int64(id3[9]&0x7f)
		if _, err := r.Seek(10+size, io.SeekStart); err != nil {
			return
		}
	} else if _, err := r.Seek(0, io.SeekStart); err != nil {
		return
	}

	// Scan a bounded window for the frame sync. Padding bytes between the
	// tag and the first frame are common.
	buf := make([]byte, 4096)
	n, _ := io.ReadFull(r, buf)
	for i := 0; i+3 < n; i++ {
		if buf[i] != 0xff || buf[i+1]&0xe0 != 0xe0 {
			continue
		}
		version := buf[i+1] >> 3 & 0x03 // 0=2.5, 2=2, 3=1
		layer := buf[i+1] >> 1 & 0x03   // 1=III
		if version == 1 || layer != 1 {
			continue
		}

		bitrateIdx := buf[i+2] >> 4
		rateIdx := buf[i+2] >> 2 & 0x03
		if bitrateIdx == 0 || bitrateIdx == 0x0f || rateIdx == 3 {
			continue
		}

		table := mp3BitrateKbps[2]
		if version == 3 {
			table = mp3BitrateKbps[1]
		}
		t.Bitrate = table[bitrateIdx]
		t.SampleRate = mp3SampleRates[version][rateIdx]
		if buf[i+3]>>6 == 3 { // mono channel mode
			t.Channels = 1
		} else {
			t.Channels = 2
		}
		return
	}
}
