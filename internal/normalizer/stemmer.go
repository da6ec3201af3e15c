package normalizer

import (
	snowballeng "github.com/kljensen/snowball/english"
	"github.com/surgebase/porter2"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
)

// Stemmer reduces a normalized token to its root form. Implementations must
// be deterministic so that index-time and query-time terms meet on the same
// stem.
type Stemmer interface {
	Stem(token string) string
}

// SnowballStemmer applies the Snowball English (Porter2) algorithm. This is
// the default for new indexes.
type SnowballStemmer struct{}

// Stem implements Stemmer.
func (SnowballStemmer) Stem(token string) string {
	return snowballeng.Stem(token, false)
}

// Porter2Stemmer applies the surgebase porter2 implementation. It produces
// the same stem family as Snowball for most vocabulary but is kept as a
// separately selectable algorithm for indexes built against it.
type Porter2Stemmer struct{}

// Stem implements Stemmer.
func (Porter2Stemmer) Stem(token string) string {
	return porter2.Stem(token)
}

// NoopStemmer leaves tokens untouched.
type NoopStemmer struct{}

// Stem implements Stemmer.
func (NoopStemmer) Stem(token string) string {
	return token
}

// StemmerFor returns the stemmer selected by an IndexSettings.Stemmer value.
// Unknown or empty values fall back to Snowball, matching ApplyDefaults.
func StemmerFor(name string) Stemmer {
	switch name {
	case config.StemmerPorter2:
		return Porter2Stemmer{}
	case config.StemmerNone:
		return NoopStemmer{}
	default:
		return SnowballStemmer{}
	}
}
