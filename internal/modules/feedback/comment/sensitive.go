package comment

import (
	"strings"
	"unicode"
)

// defaultSensitiveWords is the built-in screen list. Matching is
// whole-word and case-insensitive: "skill" does not match "kill".
var defaultSensitiveWords = []string{
	"kill",
	"hurt",
	"violence",
	"suicide",
	"abuse",
	"hate",
	"attack",
	"threat",
	"die",
	"weapon",
}

// SensitiveMatcher flags comment bodies containing screened words so
// the client can render them blurred. Flagged comments still post and
// still appear in the feed.
type SensitiveMatcher struct {
	words map[string]struct{}
}

// NewSensitiveMatcher builds a matcher from words, falling back to the
// built-in list when words is empty.
func NewSensitiveMatcher(words []string) *SensitiveMatcher {
	if len(words) == 0 {
		words = defaultSensitiveWords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &SensitiveMatcher{words: set}
}

// Match reports whether text contains any screened word as a whole word.
func (m *SensitiveMatcher) Match(text string) bool {
	if len(m.words) == 0 || text == "" {
		return false
	}
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if _, ok := m.words[tok]; ok {
			return true
		}
	}
	return false
}
