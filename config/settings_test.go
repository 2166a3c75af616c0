package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRankingRule(t *testing.T) {
	tests := []struct {
		raw     string
		want    RankingRule
		wantErr bool
	}{
		{raw: "words", want: RankingRule{Name: RuleWords}},
		{raw: " exactness ", want: RankingRule{Name: RuleExactness}},
		{raw: "vector", want: RankingRule{Name: RuleVector}},
		{raw: "price:asc", want: RankingRule{Custom: &RankingCriterion{Field: "price", Order: "asc"}}},
		{raw: "rating:DESC", want: RankingRule{Custom: &RankingCriterion{Field: "rating", Order: "desc"}}},
		{raw: "price:up", wantErr: true},
		{raw: "popularity", wantErr: true},
		{raw: ":asc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRankingRule(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateFieldNames(t *testing.T) {
	tests := []struct {
		name           string
		settings       IndexSettings
		expectedErrors int
	}{
		{
			name: "custom ranking rules can reference any field",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "content"},
				FilterableFields: []string{"category", "year"},
				RankingRules:     []string{"words", "popularity:desc", "rating:asc"},
			},
			expectedErrors: 0,
		},
		{
			name: "invalid ranking order fails",
			settings: IndexSettings{
				Name:         "test_index",
				RankingRules: []string{"popularity:invalid"},
			},
			expectedErrors: 1,
		},
		{
			name: "duplicate searchable field",
			settings: IndexSettings{
				Name:             "test_index",
				SearchableFields: []string{"title", "title"},
			},
			expectedErrors: 1,
		},
		{
			name: "whitespace field name",
			settings: IndexSettings{
				Name:             "test_index",
				FilterableFields: []string{"  "},
			},
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.settings.ValidateFieldNames()
			assert.Len(t, errs, tt.expectedErrors, "errors: %v", errs)
		})
	}
}

func TestValidate_OptionsAndHybrid(t *testing.T) {
	s := IndexSettings{
		Name:             "products",
		MatchingStrategy: "sometimes",
		MaxTypos:         Int(3),
		Hybrid:           HybridSettings{Policy: "magic", SemanticRatio: 1.5, Dimensions: 3},
	}
	errs := s.Validate()
	assert.Len(t, errs, 5, "errors: %v", errs)

	ok := IndexSettings{Name: "products", Hybrid: HybridSettings{Dimensions: 3, VectorField: "embedding"}}
	ok.ApplyDefaults()
	assert.Empty(t, ok.Validate())
}

func TestApplyDefaults(t *testing.T) {
	s := IndexSettings{Name: "movies"}
	s.ApplyDefaults()

	assert.Equal(t, 5, s.MinWordSizeFor1Typo)
	assert.Equal(t, 9, s.MinWordSizeFor2Typos)
	assert.Equal(t, Int(2), s.MaxTypos)
	assert.Equal(t, MatchingAll, s.MatchingStrategy)
	assert.Equal(t, DefaultRankingRules, s.RankingRules)
	assert.Equal(t, HybridKeywordFirst, s.Hybrid.Policy)
	assert.NotNil(t, s.SearchableFields)

	disabled := IndexSettings{Name: "codes", DisableTypoTolerance: true}
	disabled.ApplyDefaults()
	assert.Equal(t, Int(0), disabled.MaxTypos)

	inverted := IndexSettings{Name: "x", MinWordSizeFor1Typo: 6, MinWordSizeFor2Typos: 4}
	inverted.ApplyDefaults()
	assert.Equal(t, 7, inverted.MinWordSizeFor2Typos)
}

func TestMaxTypos_ExplicitZero(t *testing.T) {
	tests := []struct {
		name     string
		settings IndexSettings
		want     int
	}{
		{"unset uses default", IndexSettings{Name: "a"}, DefaultMaxTypos},
		{"explicit zero is kept", IndexSettings{Name: "a", MaxTypos: Int(0)}, 0},
		{"explicit one", IndexSettings{Name: "a", MaxTypos: Int(1)}, 1},
		{"disabled wins", IndexSettings{Name: "a", MaxTypos: Int(2), DisableTypoTolerance: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.settings
			assert.Equal(t, tt.want, s.TypoLimit())
			s.ApplyDefaults()
			require.NotNil(t, s.MaxTypos)
			assert.Equal(t, tt.want, *s.MaxTypos)
			assert.Equal(t, tt.want, s.TypoLimit())
			assert.Empty(t, s.Validate())
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := IndexSettings{Name: "movies", SearchableFields: []string{"title"}, MaxTypos: Int(1)}
	c := s.Clone()

	c.SearchableFields[0] = "plot"
	*c.MaxTypos = 2
	assert.Equal(t, []string{"title"}, s.SearchableFields)
	assert.Equal(t, Int(1), s.MaxTypos)
}

func TestFacetFields(t *testing.T) {
	s := IndexSettings{
		FilterableFields: []string{"color", "price", "_geo"},
		SortableFields:   []string{"price", "rating"},
		RankingRules:     []string{"words", "popularity:desc"},
	}
	assert.Equal(t, []string{"color", "price", "rating", "popularity"}, s.FacetFields())
	assert.True(t, s.IsFilterable("_geo"))
	assert.False(t, s.IsSortable("color"))
}

func TestParsedRankingRules_Default(t *testing.T) {
	s := IndexSettings{}
	rules, err := s.ParsedRankingRules()
	require.NoError(t, err)
	require.Len(t, rules, 6)
	assert.Equal(t, RuleWords, rules[0].Name)
	assert.Equal(t, RuleExactness, rules[5].Name)
}
