// Package testing provides utilities and helpers for testing the ranking engine.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/engine"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/services"
)

// CreateTestEngine creates an engine persisting under a per-test temporary
// directory that is removed when the test ends.
func CreateTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	return engine.NewEngine(t.TempDir(), opts...)
}

// TestIndexSettings returns the settings used by CreateTestIndex.
func TestIndexSettings(indexName string) config.IndexSettings {
	return config.IndexSettings{
		Name:                 indexName,
		SearchableFields:     []string{"title", "content", "description"},
		FilterableFields:     []string{"category", "year", "status", "popularity"},
		SortableFields:       []string{"popularity"},
		MinWordSizeFor1Typo:  4,
		MinWordSizeFor2Typos: 7,
	}
}

// CreateTestIndex creates a test index with default settings
func CreateTestIndex(t *testing.T, eng *engine.Engine, indexName string) config.IndexSettings {
	t.Helper()
	settings := TestIndexSettings(indexName)
	err := eng.CreateIndex(settings)
	require.NoError(t, err, "Failed to create test index")
	return settings
}

// TestDocuments returns three movie documents.
func TestDocuments() []model.Document {
	return []model.Document{
		{
			"documentID":  "doc1",
			"title":       "The Matrix",
			"content":     "A computer programmer discovers reality is a simulation",
			"description": "Sci-fi action movie about virtual reality",
			"category":    "movie",
			"year":        1999.0,
			"status":      "published",
			"popularity":  9.5,
		},
		{
			"documentID":  "doc2",
			"title":       "Inception",
			"content":     "A thief enters people's dreams to steal secrets",
			"description": "Mind-bending thriller about dream manipulation",
			"category":    "movie",
			"year":        2010.0,
			"status":      "published",
			"popularity":  8.8,
		},
		{
			"documentID":  "doc3",
			"title":       "Interstellar",
			"content":     "Astronauts travel through a wormhole to save humanity",
			"description": "Space epic about time dilation and love",
			"category":    "movie",
			"year":        2014.0,
			"status":      "draft",
			"popularity":  9.2,
		},
	}
}

// AddTestDocuments adds TestDocuments to an index
func AddTestDocuments(t *testing.T, eng *engine.Engine, indexName string) []model.Document {
	t.Helper()
	indexAccessor, err := eng.GetIndex(indexName)
	require.NoError(t, err, "Failed to get index accessor")

	docs := TestDocuments()
	err = indexAccessor.AddDocuments(docs)
	require.NoError(t, err, "Failed to add test documents")
	return docs
}

// DocumentIDs returns the user-provided IDs of the hits, in ranking order.
func DocumentIDs(t *testing.T, result services.Result) []string {
	t.Helper()
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, ok := hit.Document.GetDocumentID()
		require.True(t, ok, "hit %d has no documentID", hit.ID)
		ids = append(ids, id)
	}
	return ids
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name         string
	Query        services.Query
	ExpectedIDs  []string // user-provided IDs in ranking order
	ValidateFunc func(t *testing.T, result services.Result)
}

// RunSearchTests runs a suite of search tests against an index. Documents
// are always retrieved so hits can be compared by their user-provided IDs.
func RunSearchTests(t *testing.T, indexAccessor services.IndexAccessor, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			query := tt.Query
			query.RetrieveDocuments = true
			if query.Limit == 0 {
				query.Limit = 20
			}
			result, err := indexAccessor.Execute(context.Background(), query)
			require.NoError(t, err, "Search should not fail")

			if tt.ExpectedIDs != nil {
				assert.Equal(t, tt.ExpectedIDs, DocumentIDs(t, result), "Ranked documents should match")
			}
			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, result)
			}
		})
	}
}
