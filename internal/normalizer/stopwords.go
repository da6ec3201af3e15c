package normalizer

import "strings"

// defaultStopWords is the built-in English stop-word list, derived from the
// classic NLTK set. Apostrophe forms ("don't", "you're") are omitted: the
// tokenizer splits on punctuation, so they can only ever surface as their
// fragments ("don", "t"), which are listed instead.
var defaultStopWords = map[string]struct{}{
	"i":          {},
	"me":         {},
	"my":         {},
	"myself":     {},
	"we":         {},
	"our":        {},
	"ours":       {},
	"ourselves":  {},
	"you":        {},
	"your":       {},
	"yours":      {},
	"yourself":   {},
	"yourselves": {},
	"he":         {},
	"him":        {},
	"his":        {},
	"himself":    {},
	"she":        {},
	"her":        {},
	"hers":       {},
	"herself":    {},
	"it":         {},
	"its":        {},
	"itself":     {},
	"they":       {},
	"them":       {},
	"their":      {},
	"theirs":     {},
	"themselves": {},
	"what":       {},
	"which":      {},
	"who":        {},
	"whom":       {},
	"this":       {},
	"that":       {},
	"these":      {},
	"those":      {},
	"am":         {},
	"is":         {},
	"are":        {},
	"was":        {},
	"were":       {},
	"be":         {},
	"been":       {},
	"being":      {},
	"have":       {},
	"has":        {},
	"had":        {},
	"having":     {},
	"do":         {},
	"does":       {},
	"did":        {},
	"doing":      {},
	"a":          {},
	"an":         {},
	"the":        {},
	"and":        {},
	"but":        {},
	"if":         {},
	"or":         {},
	"because":    {},
	"as":         {},
	"until":      {},
	"while":      {},
	"of":         {},
	"at":         {},
	"by":         {},
	"for":        {},
	"with":       {},
	"about":      {},
	"against":    {},
	"between":    {},
	"into":       {},
	"through":    {},
	"during":     {},
	"before":     {},
	"after":      {},
	"above":      {},
	"below":      {},
	"to":         {},
	"from":       {},
	"up":         {},
	"down":       {},
	"in":         {},
	"out":        {},
	"on":         {},
	"off":        {},
	"over":       {},
	"under":      {},
	"again":      {},
	"further":    {},
	"then":       {},
	"once":       {},
	"here":       {},
	"there":      {},
	"when":       {},
	"where":      {},
	"why":        {},
	"how":        {},
	"all":        {},
	"any":        {},
	"both":       {},
	"each":       {},
	"few":        {},
	"more":       {},
	"most":       {},
	"other":      {},
	"some":       {},
	"such":       {},
	"no":         {},
	"nor":        {},
	"not":        {},
	"only":       {},
	"own":        {},
	"same":       {},
	"so":         {},
	"than":       {},
	"too":        {},
	"very":       {},
	"s":          {},
	"t":          {},
	"can":        {},
	"will":       {},
	"just":       {},
	"don":        {},
	"should":     {},
	"now":        {},
	"d":          {},
	"ll":         {},
	"m":          {},
	"o":          {},
	"re":         {},
	"ve":         {},
	"y":          {},
	"ain":        {},
	"aren":       {},
	"couldn":     {},
	"didn":       {},
	"doesn":      {},
	"hadn":       {},
	"hasn":       {},
	"haven":      {},
	"isn":        {},
	"ma":         {},
	"mightn":     {},
	"mustn":      {},
	"needn":      {},
	"shan":       {},
	"shouldn":    {},
	"wasn":       {},
	"weren":      {},
	"won":        {},
	"wouldn":     {},
}

// buildStopWordSet returns the lookup set for the given configuration.
// A nil slice selects the default English list; an explicitly empty slice
// disables stop-word removal entirely.
func buildStopWordSet(words []string) map[string]struct{} {
	if words == nil {
		return defaultStopWords
	}
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[strings.ToLower(word)] = struct{}{}
	}
	return set
}
