// Package normalizer turns raw text into the normalized, position-tagged
// terms that the index structures and every query operation share.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
)

// Token is a normalized term together with its dense position. Positions
// count surviving terms only: stop-word and length filtering close the gaps,
// so "quick" and "fox" in "the quick the fox" are adjacent (0 and 1).
type Token struct {
	Term     string
	Position int
}

// Normalizer applies an index's normalization pipeline in fixed order:
// tokenize on any non-letter/non-digit rune, lowercase, drop stop words,
// drop tokens shorter than the minimum length, stem.
type Normalizer struct {
	stopWords      map[string]struct{}
	stemmer        Stemmer
	minTokenLength int
}

// New builds a Normalizer from index settings. A nil StopWords slice selects
// the default English list; an explicitly empty one disables removal.
func New(settings *config.IndexSettings) *Normalizer {
	minLength := settings.MinTokenLength
	if minLength < 1 {
		minLength = 1
	}
	return &Normalizer{
		stopWords:      buildStopWordSet(settings.StopWords),
		stemmer:        StemmerFor(settings.Stemmer),
		minTokenLength: minLength,
	}
}

// Normalize runs the full pipeline over raw text. Empty input yields an
// empty slice, never an error.
func (n *Normalizer) Normalize(text string) []Token {
	split := strings.FieldsFunc(text, func(r rune) bool {
		// Split on any character that is not a letter or a number
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]Token, 0, len(split))
	for _, raw := range split {
		term := strings.ToLower(raw)
		if _, stop := n.stopWords[term]; stop {
			continue
		}
		if len(term) < n.minTokenLength {
			continue
		}
		tokens = append(tokens, Token{Term: n.stemmer.Stem(term), Position: len(tokens)})
	}
	return tokens
}

// Terms returns just the normalized terms of Normalize, in order.
func (n *Normalizer) Terms(text string) []string {
	tokens := n.Normalize(text)
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = token.Term
	}
	return r
}
