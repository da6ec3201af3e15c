package search

import (
	stdErrors "errors"
	"reflect"
	"testing"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

func TestPhraseSearch_TwoTerms(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newPipelineSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc1", Text: "quick brown fox jumps"},
		model.Document{DocID: "doc2", Text: "quick brown dog sleeps"},
	)

	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{"shared prefix pair", []string{"quick", "brown"}, []string{"doc1", "doc2"}},
		{"pair unique to doc1", []string{"brown", "fox"}, []string{"doc1"}},
		{"pair in neither", []string{"fox", "dog"}, []string{}},
		{"absent term", []string{"quick", "zebra"}, []string{}},
		{"case folded", []string{"Quick", "BROWN"}, []string{"doc1", "doc2"}},
		{"inflected form stems to match", []string{"fox", "jumping"}, []string{"doc1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := searchService.PhraseSearch(services.PhraseQuery{Terms: tt.terms})
			if err != nil {
				t.Fatalf("PhraseSearch(%v) error = %v", tt.terms, err)
			}
			if !reflect.DeepEqual(result.DocIDs, tt.want) {
				t.Errorf("PhraseSearch(%v) = %v, want %v", tt.terms, result.DocIDs, tt.want)
			}
			if result.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", result.Total, len(tt.want))
			}
		})
	}
}

func TestPhraseSearch_QueryString(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newPipelineSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc1", Text: "quick brown fox jumps"},
		model.Document{DocID: "doc2", Text: "quick brown dog sleeps"},
	)

	result, err := searchService.PhraseSearch(services.PhraseQuery{Query: "quick brown"})
	if err != nil {
		t.Fatalf("PhraseSearch() error = %v", err)
	}
	want := []string{"doc1", "doc2"}
	if !reflect.DeepEqual(result.DocIDs, want) {
		t.Errorf("PhraseSearch(query string) = %v, want %v", result.DocIDs, want)
	}
}

func TestPhraseSearch_StopWordsDropFromPhrase(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newPipelineSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc1", Text: "The quick brown fox jumps over the lazy dog"},
	)

	// "the" is removed by normalization, so the phrase collapses to the
	// surviving pair. "jumps over the lazy" likewise collapses to the
	// adjacent survivors "jump lazi".
	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{"leading stop word", []string{"the", "quick", "brown"}, []string{"doc1"}},
		{"interior stop words", []string{"jumps", "over", "the", "lazy"}, []string{"doc1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := searchService.PhraseSearch(services.PhraseQuery{Terms: tt.terms})
			if err != nil {
				t.Fatalf("PhraseSearch(%v) error = %v", tt.terms, err)
			}
			if !reflect.DeepEqual(result.DocIDs, tt.want) {
				t.Errorf("PhraseSearch(%v) = %v, want %v", tt.terms, result.DocIDs, tt.want)
			}
		})
	}
}

func TestPhraseSearch_LongPhraseNeedsAdjacency(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	// px1 contains the biwords (a,b) and (b,c) but never the phrase "a b c";
	// only the biword intersection would wrongly report it.
	addDocs(t, indexer,
		model.Document{DocID: "px1", Text: "x a b x b c x"},
		model.Document{DocID: "px2", Text: "a b c d"},
	)

	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{"three terms", []string{"a", "b", "c"}, []string{"px2"}},
		{"four terms", []string{"a", "b", "c", "d"}, []string{"px2"}},
		{"missing biword", []string{"b", "c", "d", "x"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := searchService.PhraseSearch(services.PhraseQuery{Terms: tt.terms})
			if err != nil {
				t.Fatalf("PhraseSearch(%v) error = %v", tt.terms, err)
			}
			if !reflect.DeepEqual(result.DocIDs, tt.want) {
				t.Errorf("PhraseSearch(%v) = %v, want %v", tt.terms, result.DocIDs, tt.want)
			}
		})
	}
}

func TestPhraseSearch_BiwordConsistency(t *testing.T) {
	// A two-term phrase must return exactly the documents listed for the
	// pair in the biword index.
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "doc-a", Text: "cold fusion power"},
		model.Document{DocID: "doc-b", Text: "cold fusion lab"},
		model.Document{DocID: "doc-c", Text: "fusion cold"},
	)

	result, err := searchService.PhraseSearch(services.PhraseQuery{Terms: []string{"cold", "fusion"}})
	if err != nil {
		t.Fatalf("PhraseSearch() error = %v", err)
	}
	want := []string{"doc-a", "doc-b"} // doc-c has the pair reversed only
	if !reflect.DeepEqual(result.DocIDs, want) {
		t.Errorf("PhraseSearch() = %v, want %v", result.DocIDs, want)
	}
}

func TestPhraseSearch_InvalidQueries(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newPipelineSettings())
	addDocs(t, indexer, model.Document{DocID: "doc1", Text: "quick brown fox"})

	tests := []struct {
		name  string
		query services.PhraseQuery
	}{
		{"no terms", services.PhraseQuery{}},
		{"single term", services.PhraseQuery{Terms: []string{"quick"}}},
		{"single word query string", services.PhraseQuery{Query: "quick"}},
		{"all stop words", services.PhraseQuery{Terms: []string{"the", "and"}}},
		{"one survivor", services.PhraseQuery{Terms: []string{"the", "quick"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searchService.PhraseSearch(tt.query)
			if err == nil {
				t.Fatalf("PhraseSearch(%+v), wantErr, got nil", tt.query)
			}
			if !stdErrors.Is(err, errors.ErrInvalidQuery) {
				t.Errorf("error = %v, want Is(ErrInvalidQuery)", err)
			}
		})
	}
}

func TestPhraseSearch_IncludePositions(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "pa", Text: "cold fusion power cold fusion"},
		model.Document{DocID: "pb", Text: "hot cold fusion"},
		model.Document{DocID: "pc", Text: "fusion cold"},
	)

	result, err := searchService.PhraseSearch(services.PhraseQuery{
		Terms:            []string{"cold", "fusion"},
		IncludePositions: true,
	})
	if err != nil {
		t.Fatalf("PhraseSearch() error = %v", err)
	}
	wantDocs := []string{"pa", "pb"}
	if !reflect.DeepEqual(result.DocIDs, wantDocs) {
		t.Errorf("DocIDs = %v, want %v", result.DocIDs, wantDocs)
	}
	wantPositions := map[string][]int{"pa": {0, 3}, "pb": {1}}
	if !reflect.DeepEqual(result.Positions, wantPositions) {
		t.Errorf("Positions = %v, want %v", result.Positions, wantPositions)
	}

	// Positions stay absent unless asked for.
	plain, err := searchService.PhraseSearch(services.PhraseQuery{Terms: []string{"cold", "fusion"}})
	if err != nil {
		t.Fatalf("PhraseSearch() error = %v", err)
	}
	if plain.Positions != nil {
		t.Errorf("Positions = %v without include_positions, want nil", plain.Positions)
	}
}

func TestPhraseSearch_IncludePositionsLongPhrase(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "pc", Text: "a cold fusion reactor cold fusion reactor"},
	)

	result, err := searchService.PhraseSearch(services.PhraseQuery{
		Terms:            []string{"cold", "fusion", "reactor"},
		IncludePositions: true,
	})
	if err != nil {
		t.Fatalf("PhraseSearch() error = %v", err)
	}
	wantPositions := map[string][]int{"pc": {1, 4}}
	if !reflect.DeepEqual(result.Positions, wantPositions) {
		t.Errorf("Positions = %v, want %v", result.Positions, wantPositions)
	}
}

func TestPhraseSearch_EmptyCorpus(t *testing.T) {
	searchService, _ := setupTestSearchService(t, newRawTermSettings())

	result, err := searchService.PhraseSearch(services.PhraseQuery{Terms: []string{"alpha", "beta"}})
	if err != nil {
		t.Fatalf("PhraseSearch() on empty corpus error = %v", err)
	}
	if result.Total != 0 || len(result.DocIDs) != 0 {
		t.Errorf("PhraseSearch() on empty corpus = %+v, want empty result", result)
	}
}
