package search

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/errors"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

// MultiSearch executes multiple named boolean queries in parallel against
// the same index.
func (s *Service) MultiSearch(ctx context.Context, multiQuery services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	startTime := time.Now()

	if len(multiQuery.Queries) == 0 {
		return nil, errors.NewInvalidQueryError("at least one query is required")
	}

	type queryResult struct {
		name   string
		result services.BooleanResult
		err    error
	}

	resultChan := make(chan queryResult, len(multiQuery.Queries))

	seen := make(map[string]struct{}, len(multiQuery.Queries))
	for _, namedQuery := range multiQuery.Queries {
		if namedQuery.Name == "" {
			return nil, errors.NewInvalidQueryError("each query must have a non-empty name")
		}
		if _, dup := seen[namedQuery.Name]; dup {
			return nil, errors.NewInvalidQueryError(fmt.Sprintf("duplicate query name '%s'", namedQuery.Name))
		}
		seen[namedQuery.Name] = struct{}{}

		// Launch goroutine for each query
		go func(nq services.NamedBooleanQuery) {
			result, err := s.BooleanSearch(services.BooleanQuery{
				Query: nq.Query,
				Tree:  nq.Tree,
				P:     nq.P,
			})
			resultChan <- queryResult{name: nq.Name, result: result, err: err}
		}(namedQuery)
	}

	// Collect results from all goroutines
	results := make(map[string]services.BooleanResult)
	for i := 0; i < len(multiQuery.Queries); i++ {
		select {
		case qr := <-resultChan:
			if qr.err != nil {
				return nil, fmt.Errorf("error executing query '%s': %w", qr.name, qr.err)
			}
			results[qr.name] = qr.result
		case <-ctx.Done():
			return nil, fmt.Errorf("multi-search cancelled: %w", ctx.Err())
		}
	}

	processingTime := time.Since(startTime)

	return &services.MultiSearchResult{
		Results:          results,
		TotalQueries:     len(multiQuery.Queries),
		ProcessingTimeMs: float64(processingTime.Nanoseconds()) / 1e6,
	}, nil
}
