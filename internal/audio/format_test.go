package audio

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"id3 tagged mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), FormatMP3},
		{"bare mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x64}, FormatMP3},
		{"wav riff header", []byte("RIFF\x24\x08\x00\x00WAVEfmt "), FormatWAV},
		{"riff but not wave", []byte("RIFF\x24\x08\x00\x00AVI LIST"), FormatUnknown},
		{"plain text", []byte("hello world"), FormatUnknown},
		{"too short", []byte{0xFF}, FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Detect(tt.data)
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}
