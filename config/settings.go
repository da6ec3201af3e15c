// Package config provides configuration structures for the retrieval engine.
// It defines per-index settings and the server configuration file format.
package config

import (
	"strings"
)

// Stemmer algorithm names accepted in IndexSettings.Stemmer.
const (
	StemmerSnowball = "snowball"
	StemmerPorter2  = "porter2"
	StemmerNone     = "none"
)

// DefaultPNorm is the p value used by boolean searches that do not specify one.
const DefaultPNorm = 2.0

// IndexSettings contains all configuration options for a retrieval index.
// This covers the normalization pipeline (stop words, stemming, minimum
// token length), the optional phonetic term map, and query defaults.
//
// IMPORTANT: StopWords distinguishes nil from empty!
// A nil slice means "use the built-in English stop-word list"; an explicitly
// empty slice disables stop-word removal entirely. Persisted settings keep
// that distinction (JSON null vs []).
type IndexSettings struct {
	Name           string   `json:"name"`             // Unique name for the index
	StopWords      []string `json:"stop_words"`       // nil → default English list; empty → keep everything
	Stemmer        string   `json:"stemmer"`          // "snowball" (default), "porter2", or "none"
	MinTokenLength int      `json:"min_token_length"` // Tokens shorter than this are dropped before position assignment (default 1)
	Phonetic       bool     `json:"phonetic"`         // Maintain a soundex term map alongside the positional index
	DefaultPNorm   float64  `json:"default_p_norm"`   // p used when a boolean query omits one (default 2)
}

// Validate checks the settings for invalid values and returns a list of
// human-readable problems (empty when the settings are valid).
func (settings *IndexSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Index name cannot be empty or whitespace-only")
	}

	switch settings.Stemmer {
	case "", StemmerSnowball, StemmerPorter2, StemmerNone:
	default:
		problems = append(problems, "Unknown stemmer '"+settings.Stemmer+"' (must be 'snowball', 'porter2' or 'none')")
	}

	if settings.MinTokenLength < 0 {
		problems = append(problems, "min_token_length cannot be negative")
	}

	if settings.DefaultPNorm != 0 && settings.DefaultPNorm < 1 {
		problems = append(problems, "default_p_norm must be at least 1")
	}

	problems = append(problems, checkDuplicates("stop_words", settings.StopWords)...)

	return problems
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, values []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, value := range values {
		if seen[value] {
			errors = append(errors, "Duplicate entry '"+value+"' found in "+fieldName)
		}
		seen[value] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings.
// StopWords is deliberately left untouched: nil selects the default list at
// normalization time, while an explicitly empty slice disables removal.
func (settings *IndexSettings) ApplyDefaults() {
	if settings.Stemmer == "" {
		settings.Stemmer = StemmerSnowball
	}
	if settings.MinTokenLength == 0 {
		settings.MinTokenLength = 1
	}
	if settings.DefaultPNorm == 0 {
		settings.DefaultPNorm = DefaultPNorm
	}
}
