package services

import (
	"context"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
)

// PhraseQuery asks for documents containing an exact consecutive phrase.
// Terms wins over Query when both are set; either way the index's own
// normalization pipeline splits and folds the input, and terms it drops
// (stop words, short tokens) are removed from the phrase. IncludePositions
// additionally reports where each match starts.
type PhraseQuery struct {
	Terms            []string `json:"terms,omitempty"`
	Query            string   `json:"query,omitempty"`
	IncludePositions bool     `json:"include_positions,omitempty"`
}

// ProximityQuery asks for documents where TermA and TermB occur within
// MaxDistance positions of each other. Ordered additionally requires TermA
// to precede TermB.
type ProximityQuery struct {
	TermA       string `json:"term_a"`
	TermB       string `json:"term_b"`
	MaxDistance int    `json:"max_distance"`
	Ordered     bool   `json:"ordered"`
}

// DocListResult is the response shape shared by phrase and proximity
// searches: matching external doc IDs in ascending order. Positions is only
// populated for phrase searches that asked for it; it maps each matching doc
// ID to the positions (post-normalization) where the phrase starts.
type DocListResult struct {
	DocIDs      []string            `json:"doc_ids"`
	Total       int                 `json:"total"`
	Took        int64               `json:"took"`     // milliseconds
	QueryID     string              `json:"query_id"` // unique UUID for this query
	Positions   map[string][]int    `json:"positions,omitempty"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// BooleanQuery evaluates an extended boolean tree, or its textual form
// ("information AND retrieval NOT boolean"). Tree wins over Query when both
// are set. A nil P selects the index's default p-norm; math.Inf(1) gives
// strict min/max set semantics.
type BooleanQuery struct {
	Query       string           `json:"query,omitempty"`
	Tree        *model.QueryNode `json:"tree,omitempty"`
	P           *float64         `json:"p,omitempty"`
	IncludeZero bool             `json:"include_zero_scores,omitempty"`
	Page        int              `json:"page,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

// ScoredHit is a single document in boolean search results.
type ScoredHit struct {
	Document model.Document `json:"document"`
	Score    float64        `json:"score"`
}

// BooleanResult carries scored hits ordered by score descending, ties by
// external doc ID ascending.
type BooleanResult struct {
	Hits        []ScoredHit         `json:"hits"`
	Total       int                 `json:"total"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	Took        int64               `json:"took"`
	QueryID     string              `json:"query_id"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// PhoneticQuery asks for documents containing any term that sounds like Name.
type PhoneticQuery struct {
	Name string `json:"name"`
}

// PhoneticHit pairs a document with the indexed terms whose soundex code
// matches the queried name.
type PhoneticHit struct {
	DocID        string   `json:"doc_id"`
	MatchedTerms []string `json:"matched_terms"`
}

// PhoneticResult is the response to a phonetic search.
type PhoneticResult struct {
	Code    string        `json:"code"`
	Hits    []PhoneticHit `json:"hits"`
	Total   int           `json:"total"`
	Took    int64         `json:"took"`
	QueryID string        `json:"query_id"`
}

// NamedBooleanQuery is a single named query within a multi-search request.
type NamedBooleanQuery struct {
	Name  string           `json:"name"`
	Query string           `json:"query,omitempty"`
	Tree  *model.QueryNode `json:"tree,omitempty"`
	P     *float64         `json:"p,omitempty"`
}

// MultiSearchQuery represents a request to execute multiple named boolean
// queries against the same index.
type MultiSearchQuery struct {
	Queries []NamedBooleanQuery `json:"queries"`
}

// MultiSearchResult represents the response from a multi-search operation.
type MultiSearchResult struct {
	Results          map[string]BooleanResult `json:"results"`
	TotalQueries     int                      `json:"total_queries"`
	ProcessingTimeMs float64                  `json:"processing_time_ms"`
}

// IndexStats summarizes the size of one index's structures.
type IndexStats struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	TermCount     int    `json:"term_count"`
	BiwordCount   int    `json:"biword_count"`
	PhoneticCount int    `json:"phonetic_count"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines the query operations against a published index
type Searcher interface {
	PhraseSearch(query PhraseQuery) (DocListResult, error)
	ProximitySearch(query ProximityQuery) (DocListResult, error)
	BooleanSearch(query BooleanQuery) (BooleanResult, error)
	PhoneticSearch(query PhoneticQuery) (PhoneticResult, error)
}

// MultiSearcher defines operations for running multiple queries in a single request
type MultiSearcher interface {
	MultiSearch(ctx context.Context, query MultiSearchQuery) (*MultiSearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error) // IndexAccessor combines Indexer and Searcher
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	RenameIndex(oldName, newName string) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

// IndexManagerWithRebuild extends IndexManager with a full rebuild for
// settings updates that change the normalization pipeline
type IndexManagerWithRebuild interface {
	IndexManager
	UpdateIndexSettingsWithRebuild(name string, settings config.IndexSettings) error
}

// IndexManagerWithAsyncRebuild extends IndexManager with async rebuild capabilities
type IndexManagerWithAsyncRebuild interface {
	IndexManager
	UpdateIndexSettingsWithAsyncRebuild(name string, settings config.IndexSettings) (string, error) // Returns job ID
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(indexName string, status *model.JobStatus) []*model.Job
}

type IndexAccessor interface {
	Indexer
	Searcher
	MultiSearcher
	Settings() config.IndexSettings
	Stats() IndexStats
}
