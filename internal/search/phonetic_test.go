package search

import (
	stdErrors "errors"
	"reflect"
	"testing"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

func TestPhoneticSearch(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "p1", Text: "robert called twice"},
		model.Document{DocID: "p2", Text: "rupert replied"},
		model.Document{DocID: "p3", Text: "silence followed"},
	)

	result, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "Robert"})
	if err != nil {
		t.Fatalf("PhoneticSearch() error = %v", err)
	}

	if result.Code != "R163" {
		t.Errorf("Code = %q, want %q", result.Code, "R163")
	}
	wantHits := []services.PhoneticHit{
		{DocID: "p1", MatchedTerms: []string{"robert"}},
		{DocID: "p2", MatchedTerms: []string{"rupert"}},
	}
	if !reflect.DeepEqual(result.Hits, wantHits) {
		t.Errorf("Hits = %+v, want %+v", result.Hits, wantHits)
	}
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	if result.QueryID == "" {
		t.Error("QueryID is empty")
	}
}

func TestPhoneticSearch_SeveralTermsPerDocument(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "p1", Text: "robert met rupert"},
	)

	result, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "rupert"})
	if err != nil {
		t.Fatalf("PhoneticSearch() error = %v", err)
	}

	wantHits := []services.PhoneticHit{
		{DocID: "p1", MatchedTerms: []string{"robert", "rupert"}},
	}
	if !reflect.DeepEqual(result.Hits, wantHits) {
		t.Errorf("Hits = %+v, want %+v", result.Hits, wantHits)
	}
}

func TestPhoneticSearch_NoMatches(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "p1", Text: "robert called"},
	)

	result, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "Xylophone"})
	if err != nil {
		t.Fatalf("PhoneticSearch() error = %v", err)
	}
	if result.Code != "X415" {
		t.Errorf("Code = %q, want %q", result.Code, "X415")
	}
	if result.Total != 0 || len(result.Hits) != 0 {
		t.Errorf("Total = %d, Hits = %+v; want no matches", result.Total, result.Hits)
	}
}

func TestPhoneticSearch_NameWithoutLetters(t *testing.T) {
	searchService, indexer := setupTestSearchService(t, newRawTermSettings())
	addDocs(t, indexer,
		model.Document{DocID: "p1", Text: "robert called"},
	)

	// "123" encodes to the empty code, which matches nothing rather than
	// every unencodable term.
	result, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "123"})
	if err != nil {
		t.Fatalf("PhoneticSearch() error = %v", err)
	}
	if result.Code != "" {
		t.Errorf("Code = %q, want empty", result.Code)
	}
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
}

func TestPhoneticSearch_BlankName(t *testing.T) {
	searchService := setupBooleanCorpus(t)

	_, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "   "})
	if err == nil {
		t.Fatal("PhoneticSearch(), wantErr, got nil")
	}
	if !stdErrors.Is(err, errors.ErrInvalidQuery) {
		t.Errorf("error = %v, want Is(ErrInvalidQuery)", err)
	}
}

func TestPhoneticSearch_Disabled(t *testing.T) {
	settings := newRawTermSettings()
	settings.Phonetic = false
	searchService, indexer := setupTestSearchService(t, settings)
	addDocs(t, indexer,
		model.Document{DocID: "p1", Text: "robert called"},
	)

	_, err := searchService.PhoneticSearch(services.PhoneticQuery{Name: "robert"})
	if err == nil {
		t.Fatal("PhoneticSearch(), wantErr, got nil")
	}
	if !stdErrors.Is(err, errors.ErrInvalidQuery) {
		t.Errorf("error = %v, want Is(ErrInvalidQuery)", err)
	}
}
