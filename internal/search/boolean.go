package search

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
	"github.com/google/uuid"
)

// weightTolerance is the rounding slack accepted when explicit node weights
// are checked for summing to 1.
const weightTolerance = 1e-9

// BooleanSearch evaluates an extended boolean query and returns scored
// documents ordered by score descending, ties by external doc ID ascending.
// The query arrives as a tree or as its flat textual form; an explicit tree
// wins. Scores follow the p-norm model: an And node computes
// 1 − (Σ wᵢ(1−sᵢ)^p)^(1/p), an Or node (Σ wᵢ sᵢ^p)^(1/p), a Not node 1 − s.
// p = +Inf evaluates the exact limit, which is the strict min/max set
// semantics.
func (s *Service) BooleanSearch(query services.BooleanQuery) (services.BooleanResult, error) {
	startTime := time.Now()

	tree := query.Tree
	if tree == nil {
		if strings.TrimSpace(query.Query) == "" {
			return services.BooleanResult{}, errors.NewInvalidQueryError("boolean search needs a query string or tree")
		}
		parsed, err := ParseBooleanQuery(query.Query)
		if err != nil {
			return services.BooleanResult{}, err
		}
		tree = parsed
	}

	p := s.settings.DefaultPNorm
	if p == 0 {
		p = config.DefaultPNorm
	}
	if query.P != nil {
		p = *query.P
	}
	if math.IsNaN(p) || p < 1 {
		return services.BooleanResult{}, errors.NewInvalidQueryError("p must be at least 1")
	}

	if err := validateTree(tree); err != nil {
		return services.BooleanResult{}, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	s.rlockAll()
	defer s.runlockAll()

	eval := newTreeEvaluator(s, tree)
	suggestions := s.suggestionsFor(eval.queryTerms)

	hits := make([]services.ScoredHit, 0, len(eval.universe))
	for _, docID := range eval.universe {
		score := eval.score(tree, docID, p)
		if score == 0 && !query.IncludeZero {
			continue
		}
		hits = append(hits, services.ScoredHit{Document: s.documentStore.Docs[docID], Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Document.DocID < hits[j].Document.DocID
	})

	totalHits := len(hits)
	startIndex := (page - 1) * pageSize
	endIndex := startIndex + pageSize
	var paginatedHits []services.ScoredHit
	if startIndex < totalHits {
		if endIndex > totalHits {
			endIndex = totalHits
		}
		paginatedHits = hits[startIndex:endIndex]
	} else {
		paginatedHits = []services.ScoredHit{}
	}

	return services.BooleanResult{
		Hits:        paginatedHits,
		Total:       totalHits,
		Page:        page,
		PageSize:    pageSize,
		Took:        time.Since(startTime).Milliseconds(),
		QueryID:     uuid.New().String(),
		Suggestions: suggestions,
	}, nil
}

// validateTree checks the structural rules before any evaluation: known
// kinds, children where required, weights matching the children and summing
// to 1, proximity annotations with sane bounds.
func validateTree(node *model.QueryNode) error {
	if node == nil {
		return errors.NewInvalidQueryError("query tree node is nil")
	}
	switch node.Kind {
	case model.QueryNodeTerm:
		if strings.TrimSpace(node.Term) == "" {
			return errors.NewInvalidQueryError("term node has an empty term")
		}
		if len(node.Children) > 0 {
			return errors.NewInvalidQueryError("term node cannot have children")
		}
		if node.Near != nil {
			if strings.TrimSpace(node.Near.OtherTerm) == "" {
				return errors.NewInvalidQueryError("near annotation needs other_term")
			}
			if node.Near.MaxDistance < 0 {
				return errors.NewInvalidQueryError("near annotation max_distance cannot be negative")
			}
		}
		return nil
	case model.QueryNodeAnd, model.QueryNodeOr:
		if len(node.Children) == 0 {
			return errors.NewInvalidQueryError(fmt.Sprintf("%s node needs at least one child", node.Kind))
		}
		if len(node.Weights) > 0 {
			if len(node.Weights) != len(node.Children) {
				return errors.NewInvalidQueryError("weights must match the number of children")
			}
			sum := 0.0
			for _, w := range node.Weights {
				if math.IsNaN(w) || w < 0 {
					return errors.NewInvalidQueryError("weights must be non-negative")
				}
				sum += w
			}
			if math.Abs(sum-1) > weightTolerance {
				return errors.NewInvalidQueryError("weights must sum to 1")
			}
		}
		for _, child := range node.Children {
			if err := validateTree(child); err != nil {
				return err
			}
		}
		return nil
	case model.QueryNodeNot:
		if len(node.Children) != 1 {
			return errors.NewInvalidQueryError("not node needs exactly one child")
		}
		if len(node.Weights) > 0 {
			return errors.NewInvalidQueryError("not node cannot carry weights")
		}
		return validateTree(node.Children[0])
	default:
		return errors.NewInvalidQueryError(fmt.Sprintf("unknown operator %q", string(node.Kind)))
	}
}

// newTreeEvaluator resolves every leaf's terms through the index pipeline
// and fixes the candidate universe: the union of the positive leaves'
// document sets, widened to every indexed document as soon as the tree
// contains a negation (which documents without any query term can satisfy).
// Callers must hold the read locks.
func newTreeEvaluator(svc *Service, tree *model.QueryNode) *treeEvaluator {
	e := &treeEvaluator{
		svc:   svc,
		terms: make(map[*model.QueryNode]leafTerms),
	}
	hasNot := false
	seen := make(map[string]struct{})
	docSet := make(map[uint32]struct{})

	var walk func(node *model.QueryNode)
	walk = func(node *model.QueryNode) {
		switch node.Kind {
		case model.QueryNodeTerm:
			var resolved leafTerms
			resolved.term, resolved.ok = svc.normalizeTerm(node.Term)
			if node.Near != nil {
				resolved.nearTerm, resolved.nearOK = svc.normalizeTerm(node.Near.OtherTerm)
			}
			e.terms[node] = resolved

			if resolved.ok {
				if _, dup := seen[resolved.term]; !dup {
					seen[resolved.term] = struct{}{}
					e.queryTerms = append(e.queryTerms, resolved.term)
				}
				for _, entry := range svc.positionalIndex.Index[resolved.term] {
					docSet[entry.DocID] = struct{}{}
				}
			}
			if resolved.nearOK {
				if _, dup := seen[resolved.nearTerm]; !dup {
					seen[resolved.nearTerm] = struct{}{}
					e.queryTerms = append(e.queryTerms, resolved.nearTerm)
				}
			}
		case model.QueryNodeNot:
			hasNot = true
			walk(node.Children[0])
		default:
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	walk(tree)

	if hasNot {
		e.universe = make([]uint32, 0, len(svc.documentStore.Docs))
		for docID := range svc.documentStore.Docs {
			e.universe = append(e.universe, docID)
		}
	} else {
		e.universe = make([]uint32, 0, len(docSet))
		for docID := range docSet {
			e.universe = append(e.universe, docID)
		}
	}
	sort.Slice(e.universe, func(i, j int) bool { return e.universe[i] < e.universe[j] })

	return e
}

// score evaluates one node for one document. Every score lies in [0,1].
func (e *treeEvaluator) score(node *model.QueryNode, docID uint32, p float64) float64 {
	switch node.Kind {
	case model.QueryNodeTerm:
		return e.leafScore(node, docID)
	case model.QueryNodeNot:
		return 1 - e.score(node.Children[0], docID, p)
	case model.QueryNodeAnd:
		return e.combine(node, docID, p, true)
	case model.QueryNodeOr:
		return e.combine(node, docID, p, false)
	}
	return 0
}

// combine aggregates the child scores of an And/Or node under the p-norm
// model. With p = +Inf the exact limit applies: And is the minimum child
// score and Or the maximum, taken over the children with non-zero weight.
func (e *treeEvaluator) combine(node *model.QueryNode, docID uint32, p float64, isAnd bool) float64 {
	weights := node.Weights

	if math.IsInf(p, 1) {
		out := 0.0
		first := true
		for i, child := range node.Children {
			if len(weights) > 0 && weights[i] == 0 {
				continue
			}
			s := e.score(child, docID, p)
			if first {
				out = s
				first = false
			} else if isAnd && s < out {
				out = s
			} else if !isAnd && s > out {
				out = s
			}
		}
		return out
	}

	uniform := 1.0 / float64(len(node.Children))
	sum := 0.0
	for i, child := range node.Children {
		w := uniform
		if len(weights) > 0 {
			w = weights[i]
		}
		s := e.score(child, docID, p)
		if isAnd {
			sum += w * math.Pow(1-s, p)
		} else {
			sum += w * math.Pow(s, p)
		}
	}
	agg := math.Pow(sum, 1/p)
	if isAnd {
		return 1 - agg
	}
	return agg
}

// leafScore is 1 when the document contains the leaf term, 0 when it does
// not. A Near annotation replaces the binary score with the fraction of the
// leaf term's occurrences lying within the constraint of the other term.
func (e *treeEvaluator) leafScore(node *model.QueryNode, docID uint32) float64 {
	resolved := e.terms[node]
	if !resolved.ok {
		return 0
	}
	positions := positionsInDoc(e.svc.positionalIndex.Index[resolved.term], docID)
	if len(positions) == 0 {
		return 0
	}
	if node.Near == nil {
		return 1
	}
	if !resolved.nearOK || node.Near.MaxDistance == 0 {
		return 0
	}
	other := positionsInDoc(e.svc.positionalIndex.Index[resolved.nearTerm], docID)
	if len(other) == 0 {
		return 0
	}
	satisfied := countPositionsWithin(positions, other, node.Near.MaxDistance, node.Near.Ordered)
	return float64(satisfied) / float64(len(positions))
}

// countPositionsWithin counts the positions in pa that have some position
// in pb within the distance constraint, sharing one forward pointer across
// the sorted lists.
func countPositionsWithin(pa, pb []int, maxDistance int, ordered bool) int {
	count := 0

	if ordered {
		j := 0
		for _, p := range pa {
			for j < len(pb) && pb[j] <= p {
				j++
			}
			if j < len(pb) && pb[j]-p <= maxDistance {
				count++
			}
		}
		return count
	}

	j := 0
	for _, p := range pa {
		for j < len(pb) && pb[j] < p {
			j++
		}
		// pb[j] is the first position ≥ p; the nearest candidates are that
		// one (or its successor when it equals p) and pb[j-1].
		if j < len(pb) {
			q := pb[j]
			if q == p && j+1 < len(pb) {
				q = pb[j+1]
			}
			if q != p && q-p <= maxDistance {
				count++
				continue
			}
		}
		if j > 0 && p-pb[j-1] <= maxDistance {
			count++
		}
	}
	return count
}
