package candidates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	apperrors "github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/resolver"
	"github.com/gcbaptista/go-ranking-engine/internal/typoutil"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/store"
)

func snapshot(t *testing.T) *store.Snapshot {
	t.Helper()
	ds := store.NewDocumentStore()
	for id, title := range map[model.DocumentID]string{
		1: "quick brown fox",
		2: "brown wolf",
		3: "brown fox",
		4: "lonely wolf",
		5: "red cat",
		6: "blue dog",
	} {
		ds.Put(id, model.Document{"title": title})
	}
	settings := config.IndexSettings{Name: "animals", SearchableFields: []string{"title"}}
	settings.ApplyDefaults()
	snap, err := store.Build(&settings, ds, 1)
	require.NoError(t, err)
	return snap
}

func resolve(snap index.Snapshot, words ...string) []resolver.ResolvedWord {
	r := resolver.New(snap, typoutil.NewPolicy(5, 9, 0, nil), 0)
	out := make([]resolver.ResolvedWord, len(words))
	for i, w := range words {
		out[i] = r.ResolveTerm(resolver.Term{Text: w})
	}
	return out
}

func build(t *testing.T, snap index.Snapshot, strategy string, maxDrops int, words ...string) *Universe {
	t.Helper()
	u, err := Build(context.Background(), snap, Input{Words: resolve(snap, words...)}, Options{Strategy: strategy, MaxWordDrops: maxDrops})
	require.NoError(t, err)
	return u
}

func TestBuild_AllWordsRequired(t *testing.T) {
	snap := snapshot(t)

	u := build(t, snap, config.MatchingAll, 3, "brown", "fox")
	assert.Equal(t, []model.DocumentID{1, 3}, u.Docs.IDs())
	assert.Equal(t, []model.DocumentID{1, 2, 3}, u.WordDocs[0].IDs())
	assert.Empty(t, u.Dropped)
	assert.Equal(t, []Stage{{StageDocuments, 6}, {StageWords, 2}}, u.Stages)

	u = build(t, snap, config.MatchingAll, 3, "brown", "zebra")
	assert.True(t, u.Docs.IsEmpty())
}

func TestBuild_NoWordsMeansEveryDocument(t *testing.T) {
	snap := snapshot(t)
	u := build(t, snap, config.MatchingAll, 3)
	assert.Equal(t, uint64(6), u.Docs.Len())
}

func TestBuild_Fallback(t *testing.T) {
	snap := snapshot(t)

	tests := []struct {
		name     string
		words    []string
		maxDrops int
		want     []model.DocumentID
		dropped  []int
	}{
		{"nothing dropped when all match", []string{"brown", "fox"}, 3, []model.DocumentID{1, 3}, nil},
		{"unknown words go first", []string{"fox", "zebra", "quick"}, 3, []model.DocumentID{1}, []int{1}},
		{"largest posting set goes next", []string{"fox", "wolf", "brown"}, 3, []model.DocumentID{1, 3}, []int{2, 1}},
		{"drops are bounded", []string{"fox", "wolf", "brown"}, 1, nil, []int{2}},
		{"ties drop the later word", []string{"cat", "dog"}, 3, []model.DocumentID{5}, []int{1}},
		{"the last word is kept", []string{"zebra"}, 3, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := build(t, snap, config.MatchingFallback, tt.maxDrops, tt.words...)
			if tt.want == nil {
				assert.True(t, u.Docs.IsEmpty())
			} else {
				assert.Equal(t, tt.want, u.Docs.IDs())
			}
			assert.Equal(t, tt.dropped, u.Dropped)
		})
	}
}

func TestBuild_LastUnionsDropLevels(t *testing.T) {
	snap := snapshot(t)

	fallback := build(t, snap, config.MatchingFallback, 3, "wolf", "brown")
	assert.Equal(t, []model.DocumentID{2}, fallback.Docs.IDs())

	last := build(t, snap, config.MatchingLast, 3, "wolf", "brown")
	assert.Equal(t, []model.DocumentID{2, 4}, last.Docs.IDs())
	assert.Equal(t, []int{1}, last.Dropped)
}

func TestBuild_StagesNarrowMonotonically(t *testing.T) {
	snap := snapshot(t)
	filterSet := index.NewPostingSet(1, 2, 3, 5)
	geoSet := index.NewPostingSet(2, 3, 4)
	vectorSet := index.NewPostingSet(3, 6)

	u, err := Build(context.Background(), snap, Input{
		Words:  resolve(snap, "brown"),
		Filter: &filterSet,
		Geo:    &geoSet,
		Vector: &vectorSet,
	}, Options{Strategy: config.MatchingAll})
	require.NoError(t, err)

	assert.Equal(t, []model.DocumentID{3}, u.Docs.IDs())
	names := make([]string, len(u.Stages))
	for i, s := range u.Stages {
		names[i] = s.Name
		if i > 0 {
			assert.LessOrEqual(t, s.Cardinality, u.Stages[i-1].Cardinality)
		}
	}
	assert.Equal(t, []string{StageDocuments, StageWords, StageFilter, StageGeo, StageVector}, names)
}

type failingSnapshot struct{ *store.Snapshot }

func (failingSnapshot) PostingSet(model.WordID) (index.PostingSet, error) {
	return index.PostingSet{}, errors.New("page checksum mismatch")
}

func TestBuild_StorageFailure(t *testing.T) {
	snap := snapshot(t)
	_, err := Build(context.Background(), failingSnapshot{snap}, Input{Words: resolve(snap, "fox")}, Options{})
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
