// Package textproc provides the text primitives behind similarity
// scoring: chunk splitting and a TF-IDF vector space with cosine
// similarity.
package textproc

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinChunkLen is the minimum chunk length in characters.
const DefaultMinChunkLen = 30

// chunkDelimiters is the fixed priority order for picking a split
// delimiter. The first delimiter present in the text wins.
var chunkDelimiters = []string{".", "\n", ";"}

// SplitChunks splits normalised text into comparable sub-units.
// The text is split on every occurrence of the first delimiter found in
// priority order; if none occurs, the whole text is a single chunk.
// Fragments are whitespace-collapsed and those shorter than minLen are
// discarded. Pure function of its input.
func SplitChunks(text string, minLen int) []string {
	var raw []string
	for _, sep := range chunkDelimiters {
		if strings.Contains(text, sep) {
			raw = strings.Split(text, sep)
			break
		}
	}
	if raw == nil {
		raw = []string{text}
	}

	var chunks []string
	for _, part := range raw {
		t := CollapseWhitespace(part)
		if utf8.RuneCountInString(t) >= minLen {
			chunks = append(chunks, t)
		}
	}
	return chunks
}

// CollapseWhitespace trims the string and collapses internal runs of
// whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
