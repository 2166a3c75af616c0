// Package resolver expands query words into the lexicon entries they may
// stand for: the exact word, words it is a prefix of, and words within the
// typo budget of its length.
package resolver

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/typoutil"
	"github.com/gcbaptista/go-ranking-engine/model"
)

// Costs are expressed in half typos so a prefix match ranks between an exact
// match and a one-typo match.
const (
	CostExact   = 0
	CostPrefix  = 1
	CostPerTypo = 2
)

// Term is one normalized query word. Prefix marks a word the user may still
// be typing, usually the last one.
type Term struct {
	Text   string
	Prefix bool
}

// Derivation is a lexicon entry a query word resolved to.
type Derivation struct {
	Word   model.WordID
	Typos  uint8
	Prefix bool
}

// Cost returns the typo cost of the derivation in half typos.
func (d Derivation) Cost() int {
	if d.Typos > 0 {
		return int(d.Typos) * CostPerTypo
	}
	if d.Prefix {
		return CostPrefix
	}
	return CostExact
}

// IsExact reports whether the derivation is the query word itself.
func (d Derivation) IsExact() bool { return d.Typos == 0 && !d.Prefix }

// ResolvedWord holds the derivations of one query word ordered by
// (cost, WordID). An empty slice means no document can match the word.
type ResolvedWord struct {
	Term        Term
	Derivations []Derivation
}

// IsEmpty reports whether the word resolved to nothing.
func (r ResolvedWord) IsEmpty() bool { return len(r.Derivations) == 0 }

// Words returns the derivation word IDs in derivation order.
func (r ResolvedWord) Words() []model.WordID {
	out := make([]model.WordID, len(r.Derivations))
	for i, d := range r.Derivations {
		out[i] = d.Word
	}
	return out
}

// Resolver expands terms against one lexicon snapshot.
type Resolver struct {
	lexicon        index.Lexicon
	policy         typoutil.Policy
	maxDerivations int
	workers        int
}

// New creates a resolver. maxDerivations <= 0 means unlimited.
func New(lexicon index.Lexicon, policy typoutil.Policy, maxDerivations int) *Resolver {
	return &Resolver{
		lexicon:        lexicon,
		policy:         policy,
		maxDerivations: maxDerivations,
		workers:        runtime.GOMAXPROCS(0),
	}
}

// PolicyFromSettings builds the typo policy of an index.
func PolicyFromSettings(settings *config.IndexSettings) typoutil.Policy {
	return typoutil.NewPolicy(settings.MinWordSizeFor1Typo, settings.MinWordSizeFor2Typos, settings.TypoLimit(), settings.NonTypoTolerantWords)
}

// Resolve expands every term. Terms are independent and are resolved
// concurrently; the output keeps the input order.
func (r *Resolver) Resolve(ctx context.Context, terms []Term) ([]ResolvedWord, error) {
	out := make([]ResolvedWord, len(terms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, term := range terms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.ResolveTerm(term)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveTerm expands a single term. It is deterministic for a given
// lexicon and never fails: an unknown word yields no derivations.
func (r *Resolver) ResolveTerm(term Term) ResolvedWord {
	best := make(map[model.WordID]Derivation)
	keep := func(d Derivation) {
		if cur, ok := best[d.Word]; !ok || d.Cost() < cur.Cost() {
			best[d.Word] = d
		}
	}

	if id, ok := r.lexicon.ResolveWord(term.Text); ok {
		keep(Derivation{Word: id})
	}
	if term.Prefix {
		for _, id := range r.lexicon.PrefixMatch(term.Text, r.maxDerivations) {
			keep(Derivation{Word: id, Prefix: true})
		}
	}
	if allowed := r.policy.AllowedTypos(term.Text); allowed > 0 {
		for _, m := range r.lexicon.FuzzyMatch(term.Text, allowed) {
			if m.Distance == 0 {
				continue
			}
			if text, ok := r.lexicon.Word(m.Word); ok && !r.policy.IsTypoTolerant(text) {
				continue
			}
			keep(Derivation{Word: m.Word, Typos: m.Distance})
		}
	}

	derivations := make([]Derivation, 0, len(best))
	for _, d := range best {
		derivations = append(derivations, d)
	}
	sort.Slice(derivations, func(i, j int) bool {
		ci, cj := derivations[i].Cost(), derivations[j].Cost()
		if ci != cj {
			return ci < cj
		}
		return derivations[i].Word < derivations[j].Word
	})
	if r.maxDerivations > 0 && len(derivations) > r.maxDerivations {
		derivations = derivations[:r.maxDerivations]
	}
	return ResolvedWord{Term: term, Derivations: derivations}
}
