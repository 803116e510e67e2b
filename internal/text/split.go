// Package text prepares input text for the speech endpoint: character
// sanitization and splitting into request-sized chunks at natural pauses.
package text

import (
	"regexp"
	"strings"
)

// chunkRegexPattern splits text at punctuation and symbols so chunk
// boundaries fall on natural pauses. The trailing alternative captures any
// remainder without punctuation.
const chunkRegexPattern = `.*?[.,!?:;\-—…(){}<>\[\]\n]|.+`

// sanitizeReplacer rewrites characters the endpoint mispronounces or
// rejects outright.
var sanitizeReplacer = strings.NewReplacer(
	"+", "plus",
	"&", "and",
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// Sanitize rewrites characters that the upstream service cannot speak.
func Sanitize(s string) string {
	return sanitizeReplacer.Replace(s)
}

// Splitter breaks text into chunks that fit within a per-request byte
// budget, preferring punctuation boundaries and falling back to word
// boundaries for oversized runs.
type Splitter struct {
	chunkPattern *regexp.Regexp
}

// NewSplitter creates a splitter with its pattern precompiled.
func NewSplitter() *Splitter {
	return &Splitter{
		chunkPattern: regexp.MustCompile(chunkRegexPattern),
	}
}

// Split partitions text into chunks of at most byteLimit bytes. Chunks end
// at punctuation where possible; a single run longer than the limit is
// split on whitespace instead. The concatenation of the returned chunks
// preserves the spoken content in order.
func (s *Splitter) Split(text string, byteLimit int) []string {
	var merged []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			merged = append(merged, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, chunk := range s.chunkPattern.FindAllString(text, -1) {
		chunkLen := len(chunk)

		if chunkLen > byteLimit {
			// Too long for one request even on its own: fall back to
			// accumulating whole words.
			for _, word := range strings.Fields(chunk) {
				wordLen := len(word)
				if currentLen+wordLen+1 > byteLimit {
					flush()
					current.WriteString(word)
					currentLen = wordLen
					continue
				}
				if current.Len() > 0 {
					current.WriteByte(' ')
					current.WriteString(word)
					currentLen += wordLen + 1
				} else {
					current.WriteString(word)
					currentLen = wordLen
				}
			}
			continue
		}

		if currentLen+chunkLen > byteLimit {
			flush()
		}
		current.WriteString(chunk)
		currentLen += chunkLen
	}

	flush()

	return merged
}
