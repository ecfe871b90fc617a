// Package tags holds the closed genre vocabulary stories are labeled with.
// Tag extraction upstream is free-text, so anything outside this enumeration
// is discarded rather than parsed.
package tags

import "strings"

// NotAShortStory is the sentinel label used upstream to reject texts that
// turned out not to be short stories. It never appears on a scored story.
const NotAShortStory = "not a short story"

// Vocabulary is the full set of recognized labels.
var Vocabulary = []string{
	"mystery",
	"romance",
	"historical",
	"horror",
	"fantasy",
	"science fiction",
	"literary",
	"adventure",
	"humor",
	"allegorical",
	"satire",
	"tragedy",
	"comedy",
	"drama",
	NotAShortStory,
}

var vocabulary = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Vocabulary))
	for _, tag := range Vocabulary {
		m[tag] = struct{}{}
	}
	return m
}()

// Normalize lowercases and trims a raw label.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Valid reports whether the normalized label is in the vocabulary.
func Valid(tag string) bool {
	_, ok := vocabulary[Normalize(tag)]
	return ok
}

// Filter normalizes raw labels and drops any outside the vocabulary,
// preserving order.
func Filter(raw []string) []string {
	var valid []string
	for _, tag := range raw {
		if Valid(tag) {
			valid = append(valid, Normalize(tag))
		}
	}
	return valid
}
