// Package audio inspects synthesized audio bytes.
package audio

import "bytes"

// Format is the MIME type of an audio payload.
type Format string

const (
	FormatMP3     Format = "audio/mpeg"
	FormatWAV     Format = "audio/wav"
	FormatUnknown Format = "application/octet-stream"
)

// Detect sniffs the container format of decoded audio bytes. The session
// endpoint returns MP3, but the payload is opaque per the API contract, so
// the result is advisory: it drives logging and the server's Content-Type
// header, never a rejection.
func Detect(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// ID3v2 tag or a bare MPEG frame sync
	if bytes.HasPrefix(data, []byte("ID3")) {
		return FormatMP3
	}
	if data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return FormatMP3
	}

	if bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WAVE")) {
		return FormatWAV
	}

	return FormatUnknown
}
