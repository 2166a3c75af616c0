package services

import (
	"context"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/filter"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// SortDirective is one query sort. Field "_geo" sorts by distance to Point.
type SortDirective struct {
	Field string          `json:"field"`
	Order string          `json:"order"`           // "asc" (default) or "desc"
	Point *model.GeoPoint `json:"point,omitempty"` // required when Field is "_geo"
}

// Query is one search request against an index.
type Query struct {
	Q string `json:"q"`
	// Filter is an already built filter tree. It is combined with
	// FilterExpression by AND when both are set.
	Filter           filter.Node        `json:"-"`
	FilterExpression *filter.Expression `json:"filter_expression,omitempty"`
	Sort             []SortDirective    `json:"sort,omitempty"`
	GeoBox           *model.BoundingBox `json:"geo_box,omitempty"`
	Vector           []float32          `json:"vector,omitempty"`
	VectorScope      bool               `json:"vector_scope,omitempty"` // restrict candidates to the ANN top-K
	Offset           int                `json:"offset"`
	Limit            int                `json:"limit"`
	TimeBudgetMs     int                `json:"time_budget_ms,omitempty"`    // overrides the index search cutoff
	MatchingStrategy string             `json:"matching_strategy,omitempty"` // overrides the index matching strategy
	// RetrieveDocuments fills Result.Hits with the stored documents.
	RetrieveDocuments bool `json:"retrieve_documents,omitempty"`
}

// Stage is the candidate universe size after one narrowing step.
type Stage struct {
	Name        string `json:"name"`
	Cardinality uint64 `json:"cardinality"`
}

// Hit is one returned document.
type Hit struct {
	ID       model.DocumentID `json:"id"`
	Document model.Document   `json:"document"`
}

// Result is a ranked page of document IDs.
type Result struct {
	IDs []model.DocumentID `json:"ids"`
	// Hits is only set when the query asked for documents.
	Hits []Hit `json:"hits,omitempty"`
	// Exhaustive is false when the time or operation budget ran out and the
	// tail of the page is not fully ranked.
	Exhaustive         bool     `json:"exhaustive"`
	EstimatedTotalHits uint64   `json:"estimated_total_hits"`
	QueryID            string   `json:"query_id"` // unique UUID for this search query
	ProcessingTimeMs   float64  `json:"processing_time_ms"`
	Stages             []Stage  `json:"stages"`
	RankingRules       []string `json:"ranking_rules"`           // criteria applied, in order
	DroppedWords       []string `json:"dropped_words,omitempty"` // words dropped by the matching strategy
}

// MultiSearchQuery represents a request to execute multiple named search queries
type MultiSearchQuery struct {
	Queries []NamedQuery `json:"queries"`
}

// NamedQuery represents a single named search query within a multi-search request
type NamedQuery struct {
	Name string `json:"name"`
	Query
}

// MultiSearchResult represents the response from a multi-search operation
type MultiSearchResult struct {
	Results          map[string]Result `json:"results"`
	TotalQueries     int               `json:"total_queries"`
	ProcessingTimeMs float64           `json:"processing_time_ms"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Execute(ctx context.Context, query Query) (Result, error)
}

// MultiSearcher defines operations for performing multiple queries in a single request
type MultiSearcher interface {
	MultiSearch(ctx context.Context, query MultiSearchQuery) (*MultiSearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error) // IndexAccessor combines Indexer and Searcher
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

// IndexAccessor is one open index.
type IndexAccessor interface {
	Indexer
	Searcher
	MultiSearcher
	Settings() config.IndexSettings
	Stats() IndexStats
}

// IndexStats describes the current snapshot of an index.
type IndexStats struct {
	Name          string `json:"name"`
	DocumentCount uint64 `json:"document_count"`
	Generation    uint64 `json:"generation"`
	ActiveReaders int64  `json:"active_readers"`
}
