package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/lexicon"
	"github.com/gcbaptista/go-ranking-engine/internal/typoutil"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// IDs follow sorted order:
// 0 box, 1 brow, 2 brown, 3 fox, 4 foxes, 5 quack, 6 quick, 7 quiet, 8 slow, 9 wonderful
func testLexicon() *lexicon.Lexicon {
	return lexicon.New([]string{"quick", "brown", "fox", "foxes", "slow", "quack", "quiet", "box", "brow", "wonderful"})
}

func defaultPolicy() typoutil.Policy {
	return typoutil.NewPolicy(config.DefaultMinWordSizeFor1Typo, config.DefaultMinWordSizeFor2Typos, config.DefaultMaxTypos, nil)
}

func TestResolveTerm(t *testing.T) {
	r := New(testLexicon(), defaultPolicy(), 0)

	tests := []struct {
		name string
		term Term
		want []Derivation
	}{
		{"exact only", Term{Text: "fox"}, []Derivation{{Word: 3}}},
		{"exact and prefix", Term{Text: "fox", Prefix: true}, []Derivation{{Word: 3}, {Word: 4, Prefix: true}}},
		{"transposition is one typo", Term{Text: "quikc"}, []Derivation{{Word: 6, Typos: 1}}},
		{"short words get no typos", Term{Text: "brwn"}, []Derivation{}},
		{"prefix without exact", Term{Text: "bro", Prefix: true}, []Derivation{{Word: 1, Prefix: true}, {Word: 2, Prefix: true}}},
		{"exact beats prefix and typo", Term{Text: "quick", Prefix: true}, []Derivation{{Word: 6}, {Word: 5, Typos: 1}}},
		{"nine letters allow two typos", Term{Text: "wanderfal"}, []Derivation{{Word: 9, Typos: 2}}},
		{"eight letters allow one", Term{Text: "wandrful"}, []Derivation{}},
		{"unknown word", Term{Text: "zebra"}, []Derivation{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveTerm(tt.term)
			assert.Equal(t, tt.term, got.Term)
			assert.Equal(t, tt.want, got.Derivations)
			assert.Equal(t, len(tt.want) == 0, got.IsEmpty())
		})
	}
}

func TestDerivationCost(t *testing.T) {
	assert.Equal(t, 0, Derivation{}.Cost())
	assert.Equal(t, 1, Derivation{Prefix: true}.Cost())
	assert.Equal(t, 2, Derivation{Typos: 1}.Cost())
	assert.Equal(t, 4, Derivation{Typos: 2}.Cost())
	assert.True(t, Derivation{}.IsExact())
	assert.False(t, Derivation{Prefix: true}.IsExact())
}

func TestResolveTerm_NonTypoTolerantWords(t *testing.T) {
	policy := typoutil.NewPolicy(5, 9, 2, []string{"Quick"})
	r := New(testLexicon(), policy, 0)

	// typos never resolve to a protected word
	assert.True(t, r.ResolveTerm(Term{Text: "quikc"}).IsEmpty())
	// and a protected query word gets no typos
	got := r.ResolveTerm(Term{Text: "quick"})
	assert.Equal(t, []Derivation{{Word: 6}}, got.Derivations)
}

func TestResolveTerm_DerivationCap(t *testing.T) {
	r := New(testLexicon(), defaultPolicy(), 2)
	got := r.ResolveTerm(Term{Text: "b", Prefix: true})
	assert.Equal(t, []model.WordID{0, 1}, got.Words())
}

func TestPolicyFromSettings(t *testing.T) {
	settings := config.IndexSettings{}
	settings.ApplyDefaults()
	assert.Equal(t, 1, PolicyFromSettings(&settings).AllowedTypos("quikc"))

	settings.DisableTypoTolerance = true
	assert.Equal(t, 0, PolicyFromSettings(&settings).AllowedTypos("wanderfal"))
}

func TestResolve_KeepsOrder(t *testing.T) {
	r := New(testLexicon(), defaultPolicy(), 0)
	terms := []Term{{Text: "slow"}, {Text: "quikc"}, {Text: "zebra"}, {Text: "fo", Prefix: true}}

	got, err := r.Resolve(context.Background(), terms)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, rw := range got {
		assert.Equal(t, terms[i], rw.Term)
	}
	assert.Equal(t, []model.WordID{8}, got[0].Words())
	assert.Equal(t, []model.WordID{6}, got[1].Words())
	assert.True(t, got[2].IsEmpty())
	assert.Equal(t, []model.WordID{3, 4}, got[3].Words())
}

func TestResolve_Cancelled(t *testing.T) {
	r := New(testLexicon(), defaultPolicy(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, []Term{{Text: "fox"}})
	assert.ErrorIs(t, err, context.Canceled)
}
