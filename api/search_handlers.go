package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// trackQuery records a query event for the analytics dashboard without
// blocking the response.
func (api *API) trackQuery(indexName, queryType, query string, resultCount int, took time.Duration) {
	if api.analytics == nil {
		return
	}
	event := model.QueryEvent{
		IndexName:    indexName,
		Query:        query,
		QueryType:    queryType,
		ResponseTime: took,
		ResultCount:  resultCount,
		Timestamp:    time.Now(),
	}
	go api.analytics.TrackQueryEvent(event)
}

// getSearchableIndex resolves the index name from the URL and maps lookup
// failures onto the error envelope. A nil accessor means the response has
// already been written.
func (api *API) getSearchableIndex(c *gin.Context) (services.IndexAccessor, string) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return nil, indexName
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return nil, indexName
		}
		SendInternalError(c, "get index", err)
		return nil, indexName
	}
	return indexAccessor, indexName
}

// PhraseSearchHandler handles exact phrase queries against an index.
// Request Body: services.PhraseQuery
func (api *API) PhraseSearchHandler(c *gin.Context) {
	startTime := time.Now()

	indexAccessor, indexName := api.getSearchableIndex(c)
	if indexAccessor == nil {
		return
	}

	var query services.PhraseQuery
	if result := ValidateJSONBinding(c, &query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := indexAccessor.PhraseSearch(query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	queryText := query.Query
	if len(query.Terms) > 0 {
		queryText = strings.Join(query.Terms, " ")
	}
	api.trackQuery(indexName, "phrase", queryText, result.Total, time.Since(startTime))

	c.JSON(http.StatusOK, result)
}

// ProximitySearchHandler handles queries for two terms within a positional
// window. Request Body: services.ProximityQuery
func (api *API) ProximitySearchHandler(c *gin.Context) {
	startTime := time.Now()

	indexAccessor, indexName := api.getSearchableIndex(c)
	if indexAccessor == nil {
		return
	}

	var query services.ProximityQuery
	if result := ValidateJSONBinding(c, &query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := indexAccessor.ProximitySearch(query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	queryText := fmt.Sprintf("%s NEAR/%d %s", query.TermA, query.MaxDistance, query.TermB)
	api.trackQuery(indexName, "proximity", queryText, result.Total, time.Since(startTime))

	c.JSON(http.StatusOK, result)
}

// BooleanSearchRequest mirrors services.BooleanQuery but accepts the string
// "inf" for p, which JSON numbers cannot express. Infinite p selects strict
// min/max set semantics instead of the p-norm soft scoring.
type BooleanSearchRequest struct {
	Query       string           `json:"query"`
	Tree        *model.QueryNode `json:"tree"`
	P           json.RawMessage  `json:"p"`
	IncludeZero bool             `json:"include_zero_scores"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"`
}

// parsePNorm interprets an optional p value that is either a JSON number or
// the string "inf"/"infinity" (case-insensitive).
func parsePNorm(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") {
			inf := math.Inf(1)
			return &inf, nil
		}
		return nil, fmt.Errorf("unrecognized p value %q (expected a number >= 1 or \"inf\")", s)
	}
	return nil, fmt.Errorf("p must be a number or the string \"inf\"")
}

// BooleanSearchHandler handles extended boolean queries, textual or as an
// explicit tree. Request Body: BooleanSearchRequest
func (api *API) BooleanSearchHandler(c *gin.Context) {
	startTime := time.Now()

	indexAccessor, indexName := api.getSearchableIndex(c)
	if indexAccessor == nil {
		return
	}

	var req BooleanSearchRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	p, err := parsePNorm(req.P)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
		return
	}

	query := services.BooleanQuery{
		Query:       req.Query,
		Tree:        req.Tree,
		P:           p,
		IncludeZero: req.IncludeZero,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	result, err := indexAccessor.BooleanSearch(query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	queryText := req.Query
	if queryText == "" {
		queryText = "[tree query]"
	}
	api.trackQuery(indexName, "boolean", queryText, result.Total, time.Since(startTime))

	c.JSON(http.StatusOK, result)
}

// PhoneticSearchHandler handles sounds-like queries against the phonetic
// structure. Request Body: services.PhoneticQuery
func (api *API) PhoneticSearchHandler(c *gin.Context) {
	startTime := time.Now()

	indexAccessor, indexName := api.getSearchableIndex(c)
	if indexAccessor == nil {
		return
	}

	var query services.PhoneticQuery
	if result := ValidateJSONBinding(c, &query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := indexAccessor.PhoneticSearch(query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	api.trackQuery(indexName, "phonetic", query.Name, result.Total, time.Since(startTime))

	c.JSON(http.StatusOK, result)
}

// NamedBooleanSearchRequest is one named sub-query of a multi-search
// request, with the same p handling as BooleanSearchRequest.
type NamedBooleanSearchRequest struct {
	Name  string           `json:"name"`
	Query string           `json:"query"`
	Tree  *model.QueryNode `json:"tree"`
	P     json.RawMessage  `json:"p"`
}

// MultiSearchRequest defines the structure for multi-search requests.
type MultiSearchRequest struct {
	Queries []NamedBooleanSearchRequest `json:"queries"`
}

// MultiSearchHandler executes multiple named boolean queries against the
// same index in a single request. Request Body: MultiSearchRequest
func (api *API) MultiSearchHandler(c *gin.Context) {
	indexAccessor, indexName := api.getSearchableIndex(c)
	if indexAccessor == nil {
		return
	}

	var req MultiSearchRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if len(req.Queries) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one query is required")
		return
	}

	seen := make(map[string]bool, len(req.Queries))
	queries := make([]services.NamedBooleanQuery, 0, len(req.Queries))
	for i, sub := range req.Queries {
		if strings.TrimSpace(sub.Name) == "" {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
				fmt.Sprintf("Query at index %d must have a name", i))
			return
		}
		if seen[sub.Name] {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
				"Duplicate query name '"+sub.Name+"'")
			return
		}
		seen[sub.Name] = true

		p, err := parsePNorm(sub.P)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery,
				"Query '"+sub.Name+"': "+err.Error())
			return
		}
		queries = append(queries, services.NamedBooleanQuery{
			Name:  sub.Name,
			Query: sub.Query,
			Tree:  sub.Tree,
			P:     p,
		})
	}

	result, err := indexAccessor.MultiSearch(c.Request.Context(), services.MultiSearchQuery{Queries: queries})
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidQuery) {
			SendInvalidQueryError(c, err)
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	for _, sub := range req.Queries {
		subResult, ok := result.Results[sub.Name]
		if !ok {
			continue
		}
		queryText := sub.Query
		if queryText == "" {
			queryText = "[tree query]"
		}
		api.trackQuery(indexName, "boolean", queryText, subResult.Total,
			time.Duration(subResult.Took)*time.Millisecond)
	}

	c.JSON(http.StatusOK, result)
}
