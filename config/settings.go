// Package config provides configuration structures for the ranking engine.
// It defines index settings, ranking rules and the process configuration.
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Built-in ranking rule names.
const (
	RuleWords     = "words"
	RuleTypo      = "typo"
	RuleProximity = "proximity"
	RuleAttribute = "attribute"
	RuleSort      = "sort"
	RuleExactness = "exactness"
	RuleVector    = "vector"
)

// Matching strategies decide what happens when not every query word is found.
const (
	MatchingAll      = "all"      // every query word must match
	MatchingFallback = "fallback" // drop least informative words only when nothing matches
	MatchingLast     = "last"     // always add documents matching fewer words, ranked after
)

// Hybrid merge policies.
const (
	HybridVectorFirst  = "vector-first"
	HybridKeywordFirst = "keyword-first"
	HybridWeighted     = "weighted"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultMinWordSizeFor1Typo   = 5
	DefaultMinWordSizeFor2Typos  = 9
	DefaultMaxTypos              = 2
	DefaultMaxWordDrops          = 3
	DefaultMaxDerivationsPerWord = 64
	DefaultSearchCutoffMs        = 1500
	DefaultHybridTopK            = 100
	DefaultHybridWindow          = 200
)

// DefaultRankingRules is the rule order used when an index declares none.
var DefaultRankingRules = []string{RuleWords, RuleTypo, RuleProximity, RuleAttribute, RuleSort, RuleExactness}

// RankingCriterion defines a single field and direction to use for ranking
// search results. It is the parsed form of a custom "field:asc" or
// "field:desc" ranking rule.
type RankingCriterion struct {
	Field string `json:"field" koanf:"field"`
	Order string `json:"order" koanf:"order"` // "asc" or "desc"
}

// RankingRule is a parsed entry of IndexSettings.RankingRules: either a
// built-in rule name or a custom criterion.
type RankingRule struct {
	Name   string            // built-in rule name, empty for custom criteria
	Custom *RankingCriterion // set for custom criteria
}

// ParseRankingRule parses "words", "typo", ..., or "field:asc|desc".
func ParseRankingRule(raw string) (RankingRule, error) {
	rule := strings.TrimSpace(raw)
	switch rule {
	case RuleWords, RuleTypo, RuleProximity, RuleAttribute, RuleSort, RuleExactness, RuleVector:
		return RankingRule{Name: rule}, nil
	}
	field, order, ok := strings.Cut(rule, ":")
	if !ok || strings.TrimSpace(field) == "" {
		return RankingRule{}, fmt.Errorf("unknown ranking rule '%s'", raw)
	}
	order = strings.ToLower(strings.TrimSpace(order))
	if order != "asc" && order != "desc" {
		return RankingRule{}, fmt.Errorf("invalid order '%s' in ranking rule '%s' (must be 'asc' or 'desc')", order, raw)
	}
	return RankingRule{Custom: &RankingCriterion{Field: strings.TrimSpace(field), Order: order}}, nil
}

// HybridSettings configures how ANN results are merged with keyword ranking.
type HybridSettings struct {
	Policy        string  `json:"policy" koanf:"policy"`                 // vector-first, keyword-first or weighted
	SemanticRatio float64 `json:"semantic_ratio" koanf:"semantic_ratio"` // weight of the ANN ranking in [0,1] for the weighted policy
	TopK          int     `json:"top_k" koanf:"top_k"`                   // neighbours requested from the ANN index
	Window        int     `json:"window" koanf:"window"`                 // keyword ranks fused by the weighted policy
	Dimensions    int     `json:"dimensions" koanf:"dimensions"`         // vector length, 0 disables vector search
	Distance      string  `json:"distance" koanf:"distance"`             // cosine, l2 or dot
	VectorField   string  `json:"vector_field" koanf:"vector_field"`     // document field holding the embedding
}

// IndexSettings contains all configuration options for a search index.
//
// SearchableFields order matters: the position of a field is its rank for the
// attribute rule, so earlier fields weigh more.
type IndexSettings struct {
	Name                  string         `json:"name" koanf:"name"`
	SearchableFields      []string       `json:"searchable_fields" koanf:"searchable_fields"`
	FilterableFields      []string       `json:"filterable_fields" koanf:"filterable_fields"` // "_geo" enables geo filters
	SortableFields        []string       `json:"sortable_fields" koanf:"sortable_fields"`     // "_geo" enables geo sort
	RankingRules          []string       `json:"ranking_rules" koanf:"ranking_rules"`
	MinWordSizeFor1Typo   int            `json:"min_word_size_for_1_typo" koanf:"min_word_size_for_1_typo"`
	MinWordSizeFor2Typos  int            `json:"min_word_size_for_2_typos" koanf:"min_word_size_for_2_typos"`
	MaxTypos              *int           `json:"max_typos,omitempty" koanf:"max_typos"` // nil means DefaultMaxTypos
	DisableTypoTolerance  bool           `json:"disable_typo_tolerance" koanf:"disable_typo_tolerance"`
	NonTypoTolerantWords  []string       `json:"non_typo_tolerant_words" koanf:"non_typo_tolerant_words"`
	MatchingStrategy      string         `json:"matching_strategy" koanf:"matching_strategy"`
	MaxWordDrops          int            `json:"max_word_drops" koanf:"max_word_drops"`
	MaxDerivationsPerWord int            `json:"max_derivations_per_word" koanf:"max_derivations_per_word"`
	SearchCutoffMs        int            `json:"search_cutoff_ms" koanf:"search_cutoff_ms"` // time budget per query
	MaxOperations         int            `json:"max_operations" koanf:"max_operations"`     // operation budget per query, 0 is unlimited
	Hybrid                HybridSettings `json:"hybrid" koanf:"hybrid"`
}

// ParsedRankingRules returns the ranking rules in order. Invalid entries are
// reported by Validate, so callers are expected to validate first.
func (settings *IndexSettings) ParsedRankingRules() ([]RankingRule, error) {
	raw := settings.RankingRules
	if len(raw) == 0 {
		raw = DefaultRankingRules
	}
	rules := make([]RankingRule, 0, len(raw))
	for _, r := range raw {
		rule, err := ParseRankingRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// TypoLimit returns the maximum number of typos a query word may carry.
// DisableTypoTolerance forces 0, an unset MaxTypos means DefaultMaxTypos.
func (settings *IndexSettings) TypoLimit() int {
	switch {
	case settings.DisableTypoTolerance:
		return 0
	case settings.MaxTypos == nil:
		return DefaultMaxTypos
	}
	return *settings.MaxTypos
}

// Clone returns a deep copy, so that decoding into the copy never reaches
// the original.
func (settings *IndexSettings) Clone() IndexSettings {
	c := *settings
	c.SearchableFields = slices.Clone(settings.SearchableFields)
	c.FilterableFields = slices.Clone(settings.FilterableFields)
	c.SortableFields = slices.Clone(settings.SortableFields)
	c.RankingRules = slices.Clone(settings.RankingRules)
	c.NonTypoTolerantWords = slices.Clone(settings.NonTypoTolerantWords)
	if settings.MaxTypos != nil {
		c.MaxTypos = Int(*settings.MaxTypos)
	}
	return c
}

// Int returns a pointer to v, for optional integer settings.
func Int(v int) *int { return &v }

// FacetFields returns every field that needs a facet index: filterable,
// sortable and custom ranking rule fields, deduplicated in declaration order.
func (settings *IndexSettings) FacetFields() []string {
	var out []string
	add := func(f string) {
		if f != "" && f != "_geo" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	for _, f := range settings.FilterableFields {
		add(f)
	}
	for _, f := range settings.SortableFields {
		add(f)
	}
	for _, r := range settings.RankingRules {
		if rule, err := ParseRankingRule(r); err == nil && rule.Custom != nil {
			add(rule.Custom.Field)
		}
	}
	return out
}

// IsFilterable reports whether field may appear in a filter.
func (settings *IndexSettings) IsFilterable(field string) bool {
	return slices.Contains(settings.FilterableFields, field)
}

// IsSortable reports whether field may appear in a query sort.
func (settings *IndexSettings) IsSortable(field string) bool {
	return slices.Contains(settings.SortableFields, field)
}

// ValidateFieldNames validates field names and rule syntax, returning one
// message per problem.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("searchable_fields", settings.SearchableFields)...)
	conflicts = append(conflicts, checkDuplicates("filterable_fields", settings.FilterableFields)...)
	conflicts = append(conflicts, checkDuplicates("sortable_fields", settings.SortableFields)...)
	conflicts = append(conflicts, checkDuplicates("ranking_rules", settings.RankingRules)...)
	conflicts = append(conflicts, checkDuplicates("non_typo_tolerant_words", settings.NonTypoTolerantWords)...)

	allFields := make([]string, 0)
	allFields = append(allFields, settings.SearchableFields...)
	allFields = append(allFields, settings.FilterableFields...)
	allFields = append(allFields, settings.SortableFields...)
	allFields = append(allFields, settings.NonTypoTolerantWords...)
	for _, field := range allFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	for _, r := range settings.RankingRules {
		if _, err := ParseRankingRule(r); err != nil {
			conflicts = append(conflicts, err.Error()+" in ranking_rules")
		}
	}
	return conflicts
}

// Validate checks field names plus the numeric and enumerated options.
func (settings *IndexSettings) Validate() []string {
	conflicts := settings.ValidateFieldNames()

	if strings.TrimSpace(settings.Name) == "" {
		conflicts = append(conflicts, "Index name cannot be empty")
	}
	if settings.MinWordSizeFor1Typo < 0 || settings.MinWordSizeFor2Typos < 0 {
		conflicts = append(conflicts, "Typo word sizes cannot be negative")
	}
	if settings.MinWordSizeFor2Typos != 0 && settings.MinWordSizeFor2Typos < settings.MinWordSizeFor1Typo {
		conflicts = append(conflicts, fmt.Sprintf("min_word_size_for_2_typos (%d) must be at least min_word_size_for_1_typo (%d)",
			settings.MinWordSizeFor2Typos, settings.MinWordSizeFor1Typo))
	}
	if settings.MaxTypos != nil && (*settings.MaxTypos < 0 || *settings.MaxTypos > 2) {
		conflicts = append(conflicts, fmt.Sprintf("max_typos must be between 0 and 2, got %d", *settings.MaxTypos))
	}
	switch settings.MatchingStrategy {
	case "", MatchingAll, MatchingFallback, MatchingLast:
	default:
		conflicts = append(conflicts, fmt.Sprintf("Unknown matching_strategy '%s' (must be 'all', 'fallback' or 'last')", settings.MatchingStrategy))
	}
	if settings.MaxWordDrops < 0 || settings.MaxDerivationsPerWord < 0 || settings.SearchCutoffMs < 0 || settings.MaxOperations < 0 {
		conflicts = append(conflicts, "Budgets and limits cannot be negative")
	}

	h := settings.Hybrid
	switch h.Policy {
	case "", HybridVectorFirst, HybridKeywordFirst, HybridWeighted:
	default:
		conflicts = append(conflicts, fmt.Sprintf("Unknown hybrid policy '%s'", h.Policy))
	}
	if h.SemanticRatio < 0 || h.SemanticRatio > 1 {
		conflicts = append(conflicts, fmt.Sprintf("hybrid semantic_ratio must be within [0, 1], got %v", h.SemanticRatio))
	}
	switch h.Distance {
	case "", "cosine", "l2", "dot":
	default:
		conflicts = append(conflicts, fmt.Sprintf("Unknown hybrid distance '%s'", h.Distance))
	}
	if h.Dimensions < 0 {
		conflicts = append(conflicts, "hybrid dimensions cannot be negative")
	}
	if h.Dimensions > 0 && h.VectorField == "" {
		conflicts = append(conflicts, "hybrid vector_field is required when dimensions is set")
	}
	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	if settings.MinWordSizeFor1Typo == 0 {
		settings.MinWordSizeFor1Typo = DefaultMinWordSizeFor1Typo
	}
	if settings.MinWordSizeFor2Typos == 0 {
		settings.MinWordSizeFor2Typos = DefaultMinWordSizeFor2Typos
	}
	if settings.MinWordSizeFor2Typos < settings.MinWordSizeFor1Typo {
		settings.MinWordSizeFor2Typos = settings.MinWordSizeFor1Typo + 1
	}
	if settings.MaxTypos == nil || settings.DisableTypoTolerance {
		settings.MaxTypos = Int(settings.TypoLimit())
	}
	if settings.MatchingStrategy == "" {
		settings.MatchingStrategy = MatchingAll
	}
	if settings.MaxWordDrops == 0 {
		settings.MaxWordDrops = DefaultMaxWordDrops
	}
	if settings.MaxDerivationsPerWord == 0 {
		settings.MaxDerivationsPerWord = DefaultMaxDerivationsPerWord
	}
	if settings.SearchCutoffMs == 0 {
		settings.SearchCutoffMs = DefaultSearchCutoffMs
	}
	if len(settings.RankingRules) == 0 {
		settings.RankingRules = slices.Clone(DefaultRankingRules)
	}
	if settings.Hybrid.Policy == "" {
		settings.Hybrid.Policy = HybridKeywordFirst
	}
	if settings.Hybrid.TopK == 0 {
		settings.Hybrid.TopK = DefaultHybridTopK
	}
	if settings.Hybrid.Window == 0 {
		settings.Hybrid.Window = DefaultHybridWindow
	}
	if settings.Hybrid.Distance == "" {
		settings.Hybrid.Distance = "cosine"
	}

	if settings.SearchableFields == nil {
		settings.SearchableFields = []string{}
	}
	if settings.FilterableFields == nil {
		settings.FilterableFields = []string{}
	}
	if settings.SortableFields == nil {
		settings.SortableFields = []string{}
	}
	if settings.NonTypoTolerantWords == nil {
		settings.NonTypoTolerantWords = []string{}
	}
}
