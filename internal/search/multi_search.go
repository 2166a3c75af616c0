package search

import (
	"context"
	"fmt"
	"time"

	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/services"
)

// MultiSearch executes multiple named search queries in parallel. Each query
// pins its own snapshot. The first failing query fails the whole request.
func (s *Service) MultiSearch(ctx context.Context, multiQuery services.MultiSearchQuery) (*services.MultiSearchResult, error) {
	startTime := time.Now()

	if len(multiQuery.Queries) == 0 {
		return nil, errors.NewValidationError("queries", "at least one query is required")
	}
	seen := make(map[string]bool, len(multiQuery.Queries))
	for _, nq := range multiQuery.Queries {
		if nq.Name == "" {
			return nil, errors.NewValidationError("queries", "each query must have a non-empty name")
		}
		if seen[nq.Name] {
			return nil, errors.NewValidationError("queries", fmt.Sprintf("duplicate query name '%s'", nq.Name))
		}
		seen[nq.Name] = true
	}

	type queryResult struct {
		name   string
		result services.Result
		err    error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	resultChan := make(chan queryResult, len(multiQuery.Queries))

	for _, namedQuery := range multiQuery.Queries {
		go func(nq services.NamedQuery) {
			result, err := s.Execute(ctx, nq.Query)
			resultChan <- queryResult{name: nq.Name, result: result, err: err}
		}(namedQuery)
	}

	results := make(map[string]services.Result, len(multiQuery.Queries))
	for range multiQuery.Queries {
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
