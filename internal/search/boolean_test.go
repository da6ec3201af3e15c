package search

import (
	stdErrors "errors"
	"math"
	"testing"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

func floatPtr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// setupBooleanCorpus indexes four single-line documents used across the
// boolean scoring tests.
func setupBooleanCorpus(t *testing.T) *Service {
	t.Helper()
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc-a", Text: "alpha beta"},
		model.Document{DocID: "doc-b", Text: "alpha"},
		model.Document{DocID: "doc-c", Text: "beta"},
		model.Document{DocID: "doc-d", Text: "gamma"},
	)
	return searchService
}

func docIDs(hits []services.ScoredHit) []string {
	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.Document.DocID
	}
	return ids
}

func assertHitOrder(t *testing.T, hits []services.ScoredHit, want []string) {
	t.Helper()
	got := docIDs(hits)
	if len(got) != len(want) {
		t.Fatalf("hits = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hits = %v, want %v", got, want)
		}
	}
}

func TestBooleanSearch_SoftAnd(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	// Default p = 2. A document holding one of two AND-ed terms scores
	// 1 − sqrt(0.5), not zero.
	result, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta"})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}

	assertHitOrder(t, result.Hits, []string{"doc-a", "doc-b", "doc-c"})
	if !almostEqual(result.Hits[0].Score, 1.0) {
		t.Errorf("full match score = %v, want 1.0", result.Hits[0].Score)
	}
	partial := 1 - math.Sqrt(0.5)
	for _, hit := range result.Hits[1:] {
		if !almostEqual(hit.Score, partial) {
			t.Errorf("partial match score = %v, want %v", hit.Score, partial)
		}
	}
}

func TestBooleanSearch_SoftOr(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	result, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta"})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}

	assertHitOrder(t, result.Hits, []string{"doc-a", "doc-b", "doc-c"})
	if !almostEqual(result.Hits[0].Score, 1.0) {
		t.Errorf("full match score = %v, want 1.0", result.Hits[0].Score)
	}
	partial := math.Sqrt(0.5)
	for _, hit := range result.Hits[1:] {
		if !almostEqual(hit.Score, partial) {
			t.Errorf("partial match score = %v, want %v", hit.Score, partial)
		}
	}
}

func TestBooleanSearch_LinearP(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	// p = 1 degenerates to the weighted average.
	result, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta", P: floatPtr(1)})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}

	assertHitOrder(t, result.Hits, []string{"doc-a", "doc-b", "doc-c"})
	if !almostEqual(result.Hits[1].Score, 0.5) {
		t.Errorf("partial match score = %v, want 0.5", result.Hits[1].Score)
	}
}

func TestBooleanSearch_StrictSemantics(t *testing.T) {
	searchService := setupBooleanCorpus(t)
	inf := math.Inf(1)

	// p = +Inf reproduces classic boolean set semantics.
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"and", "alpha AND beta", []string{"doc-a"}},
		{"or", "alpha OR beta", []string{"doc-a", "doc-b", "doc-c"}},
		{"and not", "alpha AND NOT beta", []string{"doc-b"}},
		{"implicit and with not", "alpha NOT beta", []string{"doc-b"}},
		{"bare not", "NOT alpha", []string{"doc-c", "doc-d"}},
		{"precedence", "alpha AND beta OR gamma", []string{"doc-a", "doc-d"}},
		{"double negation", "NOT NOT alpha", []string{"doc-a", "doc-b"}},
		{"bare term", "alpha", []string{"doc-a", "doc-b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := searchService.BooleanSearch(services.BooleanQuery{Query: tt.query, P: &inf})
			if err != nil {
				t.Fatalf("BooleanSearch(%q) error = %v", tt.query, err)
			}
			assertHitOrder(t, result.Hits, tt.want)
			for _, hit := range result.Hits {
				if !almostEqual(hit.Score, 1.0) {
					t.Errorf("strict-mode hit score = %v, want 1.0", hit.Score)
				}
			}
		})
	}
}

func TestBooleanSearch_ExplicitWeights(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	tree := &model.QueryNode{
		Kind: model.QueryNodeAnd,
		Children: []*model.QueryNode{
			{Kind: model.QueryNodeTerm, Term: "alpha"},
			{Kind: model.QueryNodeTerm, Term: "beta"},
		},
		Weights: []float64{0.9, 0.1},
	}
	result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: tree})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}

	// Missing the lightly weighted term costs little; missing the heavily
	// weighted term costs a lot.
	assertHitOrder(t, result.Hits, []string{"doc-a", "doc-b", "doc-c"})
	if want := 1 - math.Sqrt(0.1); !almostEqual(result.Hits[1].Score, want) {
		t.Errorf("doc-b score = %v, want %v", result.Hits[1].Score, want)
	}
	if want := 1 - math.Sqrt(0.9); !almostEqual(result.Hits[2].Score, want) {
		t.Errorf("doc-c score = %v, want %v", result.Hits[2].Score, want)
	}
}

func TestBooleanSearch_TreeWinsOverQuery(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	result, err := searchService.BooleanSearch(services.BooleanQuery{
		Query: "alpha",
		Tree:  &model.QueryNode{Kind: model.QueryNodeTerm, Term: "gamma"},
	})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, result.Hits, []string{"doc-d"})
}

func TestBooleanSearch_IncludeZeroScores(t *testing.T) {
	searchService := setupBooleanCorpus(t)
	inf := math.Inf(1)

	// Without IncludeZero only doc-a survives strict AND; with it the
	// whole candidate universe comes back, zero scores last.
	strict, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta", P: &inf})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, strict.Hits, []string{"doc-a"})

	withZeros, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta", P: &inf, IncludeZero: true})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, withZeros.Hits, []string{"doc-a", "doc-b", "doc-c"})
	if withZeros.Hits[1].Score != 0 || withZeros.Hits[2].Score != 0 {
		t.Errorf("zero-score hits = %v, %v, want 0, 0", withZeros.Hits[1].Score, withZeros.Hits[2].Score)
	}

	// IncludeZero widens nothing: documents with no query term stay out.
	for _, hit := range withZeros.Hits {
		if hit.Document.DocID == "doc-d" {
			t.Error("doc-d has no query term and must not appear")
		}
	}
}

func TestBooleanSearch_NotWidensUniverse(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	// A negation makes documents without any query term eligible.
	result, err := searchService.BooleanSearch(services.BooleanQuery{Query: "NOT alpha"})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, result.Hits, []string{"doc-c", "doc-d"})
	for _, hit := range result.Hits {
		if !almostEqual(hit.Score, 1.0) {
			t.Errorf("score = %v, want 1.0", hit.Score)
		}
	}
}

func TestBooleanSearch_NearAnnotation(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "n1", Text: "server crashed after reboot"},
		model.Document{DocID: "n2", Text: "crashed server"},
		model.Document{DocID: "n3", Text: "server fine crashed"},
		model.Document{DocID: "n4", Text: "server up server crashed"},
	)

	nearLeaf := func(maxDistance int, ordered bool) *model.QueryNode {
		return &model.QueryNode{
			Kind: model.QueryNodeTerm,
			Term: "server",
			Near: &model.NearSpec{OtherTerm: "crashed", MaxDistance: maxDistance, Ordered: ordered},
		}
	}

	t.Run("ordered fraction", func(t *testing.T) {
		result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: nearLeaf(1, true)})
		if err != nil {
			t.Fatalf("BooleanSearch() error = %v", err)
		}
		// n1: its single "server" is followed directly by "crashed" → 1.
		// n4: one of two "server" occurrences qualifies → 0.5.
		// n2 (wrong order) and n3 (distance 2) score zero.
		assertHitOrder(t, result.Hits, []string{"n1", "n4"})
		if !almostEqual(result.Hits[0].Score, 1.0) {
			t.Errorf("n1 score = %v, want 1.0", result.Hits[0].Score)
		}
		if !almostEqual(result.Hits[1].Score, 0.5) {
			t.Errorf("n4 score = %v, want 0.5", result.Hits[1].Score)
		}
	})

	t.Run("unordered counts both directions", func(t *testing.T) {
		result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: nearLeaf(1, false)})
		if err != nil {
			t.Fatalf("BooleanSearch() error = %v", err)
		}
		assertHitOrder(t, result.Hits, []string{"n1", "n2", "n4"})
	})

	t.Run("wider window reaches n3", func(t *testing.T) {
		result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: nearLeaf(2, false)})
		if err != nil {
			t.Fatalf("BooleanSearch() error = %v", err)
		}
		assertHitOrder(t, result.Hits, []string{"n1", "n2", "n3", "n4"})
	})

	t.Run("zero distance matches nothing", func(t *testing.T) {
		result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: nearLeaf(0, false)})
		if err != nil {
			t.Fatalf("BooleanSearch() error = %v", err)
		}
		if len(result.Hits) != 0 {
			t.Errorf("hits = %v, want none", docIDs(result.Hits))
		}
	})

	t.Run("absent other term scores zero", func(t *testing.T) {
		tree := &model.QueryNode{
			Kind: model.QueryNodeTerm,
			Term: "server",
			Near: &model.NearSpec{OtherTerm: "meltdown", MaxDistance: 3},
		}
		result, err := searchService.BooleanSearch(services.BooleanQuery{Tree: tree})
		if err != nil {
			t.Fatalf("BooleanSearch() error = %v", err)
		}
		if len(result.Hits) != 0 {
			t.Errorf("hits = %v, want none", docIDs(result.Hits))
		}
	})
}

func TestBooleanSearch_StemmedPipeline(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newPipelineSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc1", Text: "quick brown fox jumps"},
		model.Document{DocID: "doc2", Text: "quick brown dog sleeps"},
	)
	inf := math.Inf(1)

	// Query terms run through the same pipeline as the corpus, so inflected
	// forms meet in the middle.
	result, err := searchService.BooleanSearch(services.BooleanQuery{Query: "jumping AND foxes", P: &inf})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, result.Hits, []string{"doc1"})

	// A stop-word leaf normalizes to nothing and scores zero everywhere.
	dropped, err := searchService.BooleanSearch(services.BooleanQuery{Query: "the AND fox", P: &inf})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	if len(dropped.Hits) != 0 {
		t.Errorf("hits = %v, want none under strict AND with a dropped term", docIDs(dropped.Hits))
	}
}

func TestBooleanSearch_Pagination(t *testing.T) {
	searchService := setupBooleanCorpus(t)
	inf := math.Inf(1)

	page1, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", P: &inf, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, page1.Hits, []string{"doc-a", "doc-b"})
	if page1.Total != 3 {
		t.Errorf("Total = %d, want 3", page1.Total)
	}

	page2, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", P: &inf, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	assertHitOrder(t, page2.Hits, []string{"doc-c"})

	beyond, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", P: &inf, Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	if len(beyond.Hits) != 0 || beyond.Total != 3 {
		t.Errorf("page beyond end: hits = %v, total = %d; want empty hits, total 3", docIDs(beyond.Hits), beyond.Total)
	}

	defaults, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", P: &inf})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	if defaults.Page != 1 || defaults.PageSize != defaultPageSize {
		t.Errorf("default pagination = page %d size %d, want page 1 size %d", defaults.Page, defaults.PageSize, defaultPageSize)
	}
}

func TestBooleanSearch_ScoreBounds(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	queries := []string{
		"alpha",
		"alpha AND beta",
		"alpha OR beta",
		"alpha AND NOT beta",
		"NOT alpha OR beta AND gamma",
	}
	for _, p := range []float64{1, 2, 7.5, math.Inf(1)} {
		p := p
		for _, query := range queries {
			result, err := searchService.BooleanSearch(services.BooleanQuery{Query: query, P: &p, IncludeZero: true})
			if err != nil {
				t.Fatalf("BooleanSearch(%q, p=%v) error = %v", query, p, err)
			}
			for _, hit := range result.Hits {
				if hit.Score < 0 || hit.Score > 1 {
					t.Errorf("BooleanSearch(%q, p=%v): score %v for %s out of [0,1]", query, p, hit.Score, hit.Document.DocID)
				}
			}
		}
	}
}

func TestBooleanSearch_InfinityEnvelopes(t *testing.T) {
	searchService := setupBooleanCorpus(t)
	inf := math.Inf(1)

	// At p = +Inf an And node equals the minimum child score and an Or node
	// the maximum; finite p must stay on the right side of those envelopes
	// for pure term children.
	and2, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta", IncludeZero: true})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	andInf, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha AND beta", P: &inf, IncludeZero: true})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	orInf, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", P: &inf, IncludeZero: true})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}

	minScores := map[string]float64{}
	for _, hit := range andInf.Hits {
		minScores[hit.Document.DocID] = hit.Score
	}
	for _, hit := range and2.Hits {
		if hit.Score < minScores[hit.Document.DocID] {
			t.Errorf("finite-p And score %v below the min-child envelope %v for %s", hit.Score, minScores[hit.Document.DocID], hit.Document.DocID)
		}
	}

	maxScores := map[string]float64{}
	for _, hit := range orInf.Hits {
		maxScores[hit.Document.DocID] = hit.Score
	}
	or2, err := searchService.BooleanSearch(services.BooleanQuery{Query: "alpha OR beta", IncludeZero: true})
	if err != nil {
		t.Fatalf("BooleanSearch() error = %v", err)
	}
	for _, hit := range or2.Hits {
		if hit.Score > maxScores[hit.Document.DocID] {
			t.Errorf("finite-p Or score %v above the max-child envelope %v for %s", hit.Score, maxScores[hit.Document.DocID], hit.Document.DocID)
		}
	}
}

func TestBooleanSearch_InvalidQueries(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	leaf := func(term string) *model.QueryNode {
		return &model.QueryNode{Kind: model.QueryNodeTerm, Term: term}
	}

	tests := []struct {
		name  string
		query services.BooleanQuery
	}{
		{"empty", services.BooleanQuery{}},
		{"blank query string", services.BooleanQuery{Query: "   "}},
		{"weights not summing to 1", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeAnd, Children: []*model.QueryNode{leaf("alpha"), leaf("beta")}, Weights: []float64{0.5, 0.6},
		}}},
		{"weights length mismatch", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeOr, Children: []*model.QueryNode{leaf("alpha"), leaf("beta")}, Weights: []float64{1},
		}}},
		{"negative weight", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeAnd, Children: []*model.QueryNode{leaf("alpha"), leaf("beta")}, Weights: []float64{-0.5, 1.5},
		}}},
		{"unknown operator", services.BooleanQuery{Tree: &model.QueryNode{Kind: "xor", Children: []*model.QueryNode{leaf("alpha")}}}},
		{"and without children", services.BooleanQuery{Tree: &model.QueryNode{Kind: model.QueryNodeAnd}}},
		{"not with two children", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeNot, Children: []*model.QueryNode{leaf("alpha"), leaf("beta")},
		}}},
		{"not with weights", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeNot, Children: []*model.QueryNode{leaf("alpha")}, Weights: []float64{1},
		}}},
		{"empty term", services.BooleanQuery{Tree: leaf("  ")}},
		{"term with children", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeTerm, Term: "alpha", Children: []*model.QueryNode{leaf("beta")},
		}}},
		{"near without other term", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeTerm, Term: "alpha", Near: &model.NearSpec{MaxDistance: 2},
		}}},
		{"near negative distance", services.BooleanQuery{Tree: &model.QueryNode{
			Kind: model.QueryNodeTerm, Term: "alpha", Near: &model.NearSpec{OtherTerm: "beta", MaxDistance: -1},
		}}},
		{"p below 1", services.BooleanQuery{Query: "alpha", P: floatPtr(0.5)}},
		{"p NaN", services.BooleanQuery{Query: "alpha", P: floatPtr(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searchService.BooleanSearch(tt.query)
			if err == nil {
				t.Fatal("BooleanSearch(), wantErr, got nil")
			}
			if !stdErrors.Is(err, errors.ErrInvalidQuery) {
				t.Errorf("error = %v, want Is(ErrInvalidQuery)", err)
			}
		})
	}
}
