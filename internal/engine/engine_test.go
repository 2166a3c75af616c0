package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/engine"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/filter"
	"github.com/gcbaptista/go-ranking-engine/internal/metrics"
	testutils "github.com/gcbaptista/go-ranking-engine/internal/testing"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/services"
)

func TestEngine_IndexLifecycle(t *testing.T) {
	eng := testutils.CreateTestEngine(t)

	testutils.CreateTestIndex(t, eng, "movies")
	testutils.CreateTestIndex(t, eng, "books")
	assert.Equal(t, []string{"books", "movies"}, eng.ListIndexes())

	err := eng.CreateIndex(testutils.TestIndexSettings("movies"))
	assert.ErrorIs(t, err, errors.ErrIndexAlreadyExists)

	settings, err := eng.GetIndexSettings("movies")
	require.NoError(t, err)
	assert.Equal(t, config.MatchingAll, settings.MatchingStrategy, "defaults should be applied")
	assert.Equal(t, config.DefaultRankingRules, settings.RankingRules)

	require.NoError(t, eng.DeleteIndex("books"))
	assert.Equal(t, []string{"movies"}, eng.ListIndexes())

	_, err = eng.GetIndex("books")
	assert.ErrorIs(t, err, errors.ErrIndexNotFound)
	assert.ErrorIs(t, eng.DeleteIndex("books"), errors.ErrIndexNotFound)
	_, err = eng.GetIndexSettings("books")
	assert.ErrorIs(t, err, errors.ErrIndexNotFound)
}

func TestEngine_CreateIndexRejectsInvalidSettings(t *testing.T) {
	eng := testutils.CreateTestEngine(t)

	tests := []struct {
		name     string
		settings config.IndexSettings
	}{
		{"empty name", config.IndexSettings{SearchableFields: []string{"title"}}},
		{"duplicate searchable field", config.IndexSettings{Name: "dup", SearchableFields: []string{"title", "title"}}},
		{"unknown ranking rule", config.IndexSettings{Name: "rules", RankingRules: []string{"popularity"}}},
		{"unknown matching strategy", config.IndexSettings{Name: "strategy", MatchingStrategy: "some"}},
		{"ratio out of range", config.IndexSettings{Name: "hybrid", Hybrid: config.HybridSettings{SemanticRatio: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eng.CreateIndex(tt.settings)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
		})
	}
	assert.Empty(t, eng.ListIndexes())
}

func TestEngine_AddSearchDelete(t *testing.T) {
	eng := testutils.CreateTestEngine(t)
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)

	testutils.RunSearchTests(t, idx, []testutils.SearchTestCase{
		{Name: "single word", Query: services.Query{Q: "matrix"}, ExpectedIDs: []string{"doc1"}},
		{Name: "typo", Query: services.Query{Q: "matrox"}, ExpectedIDs: []string{"doc1"}},
		{Name: "no match", Query: services.Query{Q: "zzzzzz"}, ExpectedIDs: []string{}},
		{
			Name:        "placeholder with filter",
			Query:       services.Query{Filter: filter.Eq("status", "published")},
			ExpectedIDs: []string{"doc1", "doc2"},
		},
		{
			Name:        "placeholder sorted",
			Query:       services.Query{Sort: []services.SortDirective{{Field: "popularity", Order: "desc"}}},
			ExpectedIDs: []string{"doc1", "doc3", "doc2"},
			ValidateFunc: func(t *testing.T, result services.Result) {
				assert.True(t, result.Exhaustive)
				assert.Equal(t, uint64(3), result.EstimatedTotalHits)
			},
		},
	})

	require.NoError(t, idx.DeleteDocument("doc1"))
	assert.ErrorIs(t, idx.DeleteDocument("doc1"), errors.ErrDocumentNotFound)

	testutils.RunSearchTests(t, idx, []testutils.SearchTestCase{
		{Name: "deleted document is gone", Query: services.Query{Q: "matrix"}, ExpectedIDs: []string{}},
	})

	require.NoError(t, idx.DeleteAllDocuments())
	assert.Equal(t, uint64(0), idx.Stats().DocumentCount)
}

func TestEngine_AddDocumentsReplacesByDocumentID(t *testing.T) {
	eng := testutils.CreateTestEngine(t)
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)

	err = idx.AddDocuments([]model.Document{{"documentID": "doc2", "title": "Tenet"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), idx.Stats().DocumentCount)

	testutils.RunSearchTests(t, idx, []testutils.SearchTestCase{
		{Name: "new version", Query: services.Query{Q: "tenet"}, ExpectedIDs: []string{"doc2"}},
		{Name: "old version", Query: services.Query{Q: "inception"}, ExpectedIDs: []string{}},
	})

	assert.ErrorIs(t, idx.AddDocuments(nil), errors.ErrInvalidInput)
}

func TestEngine_Stats(t *testing.T) {
	eng := testutils.CreateTestEngine(t)
	testutils.CreateTestIndex(t, eng, "movies")

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)
	assert.Equal(t, services.IndexStats{Name: "movies", Generation: 1}, idx.Stats())

	testutils.AddTestDocuments(t, eng, "movies")
	stats := idx.Stats()
	assert.Equal(t, uint64(3), stats.DocumentCount)
	assert.Equal(t, uint64(2), stats.Generation)
	assert.Equal(t, int64(0), stats.ActiveReaders)
}

func TestEngine_UpdateIndexSettings(t *testing.T) {
	eng := testutils.CreateTestEngine(t)
	settings := testutils.TestIndexSettings("movies")
	settings.SortableFields = nil
	require.NoError(t, eng.CreateIndex(settings))
	testutils.AddTestDocuments(t, eng, "movies")

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)

	sorted := services.Query{Limit: 10, Sort: []services.SortDirective{{Field: "popularity", Order: "asc"}}}
	_, err = idx.Execute(context.Background(), sorted)
	assert.ErrorIs(t, err, errors.ErrConfigurationConflict)

	settings.SortableFields = []string{"popularity"}
	require.NoError(t, eng.UpdateIndexSettings("movies", settings))

	result, err := idx.Execute(context.Background(), sorted)
	require.NoError(t, err)
	assert.Equal(t, []model.DocumentID{1, 2, 0}, result.IDs)

	renamed := settings
	renamed.Name = "films"
	assert.ErrorIs(t, eng.UpdateIndexSettings("movies", renamed), errors.ErrInvalidInput)
	assert.ErrorIs(t, eng.UpdateIndexSettings("books", settings), errors.ErrIndexNotFound)

	invalid := settings
	invalid.MaxTypos = config.Int(5)
	assert.ErrorIs(t, eng.UpdateIndexSettings("movies", invalid), errors.ErrInvalidInput)
}

func TestEngine_PersistAndReload(t *testing.T) {
	dir := t.TempDir()

	eng := engine.NewEngine(dir)
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")
	require.NoError(t, eng.PersistIndexData("movies"))
	assert.ErrorIs(t, eng.PersistIndexData("books"), errors.ErrIndexNotFound)

	assert.FileExists(t, filepath.Join(dir, "movies", "settings.gob.zst"))
	assert.FileExists(t, filepath.Join(dir, "movies", "document_store.gob.zst"))

	reloaded := engine.NewEngine(dir)
	assert.Equal(t, []string{"movies"}, reloaded.ListIndexes())

	idx, err := reloaded.GetIndex("movies")
	require.NoError(t, err)
	assert.Equal(t, testutils.TestIndexSettings("movies").SearchableFields, idx.Settings().SearchableFields)

	testutils.RunSearchTests(t, idx, []testutils.SearchTestCase{
		{Name: "reloaded", Query: services.Query{Q: "wormhole"}, ExpectedIDs: []string{"doc3"}},
	})

	require.NoError(t, reloaded.DeleteIndex("movies"))
	assert.NoDirExists(t, filepath.Join(dir, "movies"))
}

func TestEngine_ZeroMaxTyposSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	eng := engine.NewEngine(dir)
	settings := testutils.TestIndexSettings("strict")
	settings.MaxTypos = config.Int(0)
	require.NoError(t, eng.CreateIndex(settings))
	testutils.AddTestDocuments(t, eng, "strict")
	require.NoError(t, eng.PersistIndexData("strict"))

	cases := []testutils.SearchTestCase{
		{Name: "exact", Query: services.Query{Q: "matrix"}, ExpectedIDs: []string{"doc1"}},
		{Name: "typo rejected", Query: services.Query{Q: "matrox"}, ExpectedIDs: []string{}},
	}
	idx, err := eng.GetIndex("strict")
	require.NoError(t, err)
	testutils.RunSearchTests(t, idx, cases)

	reloaded, err := engine.NewEngine(dir).GetIndex("strict")
	require.NoError(t, err)
	assert.Equal(t, config.Int(0), reloaded.Settings().MaxTypos)
	testutils.RunSearchTests(t, reloaded, cases)
}

func TestEngine_ReloadSkipsBrokenIndexes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken", "settings.gob.zst"), []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray-file"), []byte("x"), 0644))

	eng := engine.NewEngine(dir)
	testutils.CreateTestIndex(t, eng, "movies")

	reloaded := engine.NewEngine(dir)
	assert.Equal(t, []string{"movies"}, reloaded.ListIndexes())
}

func TestEngine_MemoryOnly(t *testing.T) {
	eng := engine.NewEngine("")
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")

	require.NoError(t, eng.PersistIndexData("movies"))
	require.NoError(t, eng.DeleteIndex("movies"))
	assert.Empty(t, eng.ListIndexes())
}

func TestEngine_Metrics(t *testing.T) {
	m := metrics.New(nil)
	eng := testutils.CreateTestEngine(t, engine.WithMetrics(m))
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")

	published := m.SnapshotsPublished.WithLabelValues("movies")
	assert.Equal(t, 1.0, testutil.ToFloat64(published))

	require.NoError(t, eng.UpdateIndexSettings("movies", testutils.TestIndexSettings("movies")))
	assert.Equal(t, 2.0, testutil.ToFloat64(published))

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)
	_, err = idx.Execute(context.Background(), services.Query{Q: "matrix", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("movies", metrics.ResultHit)))
}

func TestEngine_MultiSearch(t *testing.T) {
	eng := testutils.CreateTestEngine(t)
	testutils.CreateTestIndex(t, eng, "movies")
	testutils.AddTestDocuments(t, eng, "movies")

	idx, err := eng.GetIndex("movies")
	require.NoError(t, err)

	result, err := idx.MultiSearch(context.Background(), services.MultiSearchQuery{Queries: []services.NamedQuery{
		{Name: "matrix", Query: services.Query{Q: "matrix", Limit: 5}},
		{Name: "dreams", Query: services.Query{Q: "dreams", Limit: 5}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalQueries)
	assert.Equal(t, []model.DocumentID{0}, result.Results["matrix"].IDs)
	assert.Equal(t, []model.DocumentID{1}, result.Results["dreams"].IDs)
}
