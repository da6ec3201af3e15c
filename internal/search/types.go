package search

import "github.com/Dhruv27Mishra/go-retrieval-engine/model"

// leafTerms is the resolved normalization of one term leaf: the canonical
// term (ok is false when the pipeline dropped it) plus the canonical form of
// a proximity annotation's other term.
type leafTerms struct {
	term     string
	ok       bool
	nearTerm string
	nearOK   bool
}

// treeEvaluator carries the working state for one boolean tree evaluation:
// resolved leaf terms, the candidate document universe, and the distinct
// normalized query terms used for suggestion lookups.
type treeEvaluator struct {
	svc        *Service
	terms      map[*model.QueryNode]leafTerms
	queryTerms []string
	universe   []uint32
}
