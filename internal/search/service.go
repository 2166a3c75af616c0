// Package search executes queries against one index: it validates the
// query, pins a snapshot, resolves terms, builds the candidate universe and
// runs the ranking pipeline.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/index"
	"github.com/gcbaptista/go-ranking-engine/internal/candidates"
	"github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/filter"
	"github.com/gcbaptista/go-ranking-engine/internal/logging"
	"github.com/gcbaptista/go-ranking-engine/internal/metrics"
	"github.com/gcbaptista/go-ranking-engine/internal/ranking"
	"github.com/gcbaptista/go-ranking-engine/internal/resolver"
	"github.com/gcbaptista/go-ranking-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ranking-engine/internal/vector"
	"github.com/gcbaptista/go-ranking-engine/model"
	"github.com/gcbaptista/go-ranking-engine/services"
)

const geoField = "_geo"

// Service implements the search logic for a single index.
// It fulfills the services.Searcher and services.MultiSearcher interfaces.
type Service struct {
	name    string
	source  Source
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records query outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger replaces the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new search Service reading from source.
func NewService(name string, source Source, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("source cannot be nil")
	}
	s := &Service{name: name, source: source}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.WithComponent("search")
	}
	s.logger = s.logger.With("index", name)
	return s, nil
}

// plan is a validated query.
type plan struct {
	filter   filter.Node
	sorts    []ranking.SortDirective
	strategy string
	rules    []config.RankingRule
	vectors  vector.Index
	budget   time.Duration
}

// Execute runs query against the snapshot current when it starts. Invalid
// queries fail before any storage access. A query that runs out of budget
// still succeeds, with Exhaustive false.
func (s *Service) Execute(ctx context.Context, query services.Query) (services.Result, error) {
	start := time.Now()
	queryID := uuid.New().String()
	ctx = logging.WithQueryID(ctx, queryID)
	logger := logging.FromContext(ctx, s.logger)

	res, err := s.execute(ctx, query)
	elapsed := time.Since(start)
	s.record(res, err, elapsed)
	if err != nil {
		if errors.IsClientError(err) {
			logger.Debug("query rejected", "error", err)
		} else {
			logger.Error("query failed", "error", err)
		}
		return services.Result{}, err
	}

	res.QueryID = queryID
	res.ProcessingTimeMs = float64(elapsed.Nanoseconds()) / 1e6
	if !res.Exhaustive {
		logger.Warn("query budget exhausted", "q", query.Q, "returned", len(res.IDs))
	}
	if len(res.DroppedWords) > 0 {
		logger.Info("query words dropped", "q", query.Q, "dropped", res.DroppedWords)
	}
	logger.Debug("query executed",
		"q", query.Q,
		"total", res.EstimatedTotalHits,
		"returned", len(res.IDs),
		"exhaustive", res.Exhaustive,
		"took_ms", res.ProcessingTimeMs)
	return res, nil
}

func (s *Service) execute(ctx context.Context, query services.Query) (services.Result, error) {
	if err := validateQuery(query); err != nil {
		return services.Result{}, err
	}

	reader, err := s.source.Open(ctx)
	if err != nil {
		return services.Result{}, errors.NewStorageError("open snapshot", err)
	}
	defer reader.Close()
	snap := reader.Snapshot()
	settings := reader.Settings()

	p, err := newPlan(query, settings, reader.Vectors())
	if err != nil {
		return services.Result{}, err
	}

	words, lastIsPrefix := tokenizer.QueryTerms(query.Q)
	terms := make([]resolver.Term, len(words))
	for i, w := range words {
		terms[i] = resolver.Term{Text: w, Prefix: lastIsPrefix && i == len(words)-1}
	}
	resolved, err := resolver.New(snap, resolver.PolicyFromSettings(settings), settings.MaxDerivationsPerWord).Resolve(ctx, terms)
	if err != nil {
		return services.Result{}, fmt.Errorf("resolve query terms: %w", err)
	}

	in := candidates.Input{Words: resolved}
	if p.filter != nil {
		set, err := filter.Evaluate(snap, p.filter)
		if err != nil {
			return services.Result{}, err
		}
		in.Filter = &set
	}
	if query.GeoBox != nil {
		set, err := snap.GeoWithinBox(*query.GeoBox)
		if err != nil {
			return services.Result{}, errors.NewStorageError("geo bounding box", err)
		}
		in.Geo = &set
	}

	var neighbors []vector.Neighbor
	if p.vectors != nil {
		neighbors, err = p.vectors.Search(ctx, query.Vector, settings.Hybrid.TopK, intersection(in.Filter, in.Geo))
		if err != nil {
			if ctx.Err() != nil {
				return services.Result{}, fmt.Errorf("vector search: %w", err)
			}
			return services.Result{}, errors.NewStorageError("vector search", err)
		}
		if query.VectorScope {
			set := index.NewPostingSet()
			for _, n := range neighbors {
				set.Add(n.ID)
			}
			in.Vector = &set
		}
	}

	universe, err := candidates.Build(ctx, snap, in, candidates.Options{Strategy: p.strategy, MaxWordDrops: settings.MaxWordDrops})
	if err != nil {
		return services.Result{}, err
	}

	pipeline := ranking.NewPipeline(ranking.Criteria(p.rules, ranking.Options{
		Sort:         p.sorts,
		Neighbors:    neighbors,
		HybridPolicy: settings.Hybrid.Policy,
	})...)
	rctx := ranking.NewContext(snap, resolved, universe.WordDocs, ranking.NewBudget(ctx, p.budget, settings.MaxOperations))

	var page ranking.Result
	if neighbors != nil && settings.Hybrid.Policy == config.HybridWeighted {
		page, err = weightedPage(pipeline, rctx, universe.Docs, neighbors, settings.Hybrid, query.Offset, query.Limit)
	} else {
		page, err = pipeline.BucketSort(rctx, universe.Docs, query.Offset, query.Limit)
	}
	if err != nil {
		return services.Result{}, err
	}

	res := services.Result{
		IDs:                page.IDs,
		Exhaustive:         page.Exhaustive,
		EstimatedTotalHits: universe.Docs.Len(),
		Stages:             make([]services.Stage, len(universe.Stages)),
		RankingRules:       pipeline.Names(),
	}
	for i, st := range universe.Stages {
		res.Stages[i] = services.Stage{Name: st.Name, Cardinality: st.Cardinality}
	}
	for _, i := range universe.Dropped {
		res.DroppedWords = append(res.DroppedWords, words[i])
	}
	if query.RetrieveDocuments {
		res.Hits = make([]services.Hit, 0, len(page.IDs))
		for _, id := range page.IDs {
			doc, ok := reader.Document(id)
			if !ok {
				return services.Result{}, errors.NewStorageError("document lookup", fmt.Errorf("document %d missing from snapshot", id))
			}
			res.Hits = append(res.Hits, services.Hit{ID: id, Document: doc})
		}
	}
	return res, nil
}

func validateQuery(query services.Query) error {
	if query.Offset < 0 {
		return errors.NewValidationError("offset", "must not be negative")
	}
	if query.Limit < 0 {
		return errors.NewValidationError("limit", "must not be negative")
	}
	if query.TimeBudgetMs < 0 {
		return errors.NewValidationError("time_budget_ms", "must not be negative")
	}
	if query.VectorScope && len(query.Vector) == 0 {
		return errors.NewValidationError("vector_scope", "requires a query vector")
	}
	if query.GeoBox != nil {
		if err := query.GeoBox.Validate(); err != nil {
			return errors.NewValidationError("geo_box", err.Error())
		}
	}
	return nil
}

// newPlan checks query against the index settings.
func newPlan(query services.Query, settings *config.IndexSettings, vectors vector.Index) (*plan, error) {
	p := &plan{
		strategy: settings.MatchingStrategy,
		budget:   time.Duration(settings.SearchCutoffMs) * time.Millisecond,
	}
	if query.TimeBudgetMs > 0 {
		p.budget = time.Duration(query.TimeBudgetMs) * time.Millisecond
	}

	if query.MatchingStrategy != "" {
		p.strategy = query.MatchingStrategy
	}
	switch p.strategy {
	case "":
		p.strategy = config.MatchingAll
	case config.MatchingAll, config.MatchingFallback, config.MatchingLast:
	default:
		return nil, errors.NewValidationError("matching_strategy", fmt.Sprintf("unknown strategy '%s' (must be 'all', 'fallback' or 'last')", p.strategy))
	}

	rules, err := settings.ParsedRankingRules()
	if err != nil {
		return nil, errors.NewConfigurationConflictError("ranking_rules", err.Error())
	}
	p.rules = rules

	for _, sd := range query.Sort {
		directive, err := sortDirective(sd, settings)
		if err != nil {
			return nil, err
		}
		p.sorts = append(p.sorts, directive)
	}

	var nodes []filter.Node
	if query.Filter != nil {
		nodes = append(nodes, query.Filter)
	}
	if query.FilterExpression != nil {
		n, err := filter.FromExpression(query.FilterExpression)
		if err != nil {
			return nil, err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	switch len(nodes) {
	case 0:
	case 1:
		p.filter = nodes[0]
	default:
		p.filter = filter.AllOf(nodes...)
	}
	if p.filter != nil {
		if err := filter.Validate(p.filter, settings); err != nil {
			return nil, err
		}
	}

	if query.GeoBox != nil && !settings.IsFilterable(geoField) {
		return nil, errors.NewConfigurationConflictError("filterable_fields", "geo_box requires '_geo' to be filterable")
	}

	if len(query.Vector) > 0 {
		if vectors == nil {
			return nil, errors.NewConfigurationConflictError("hybrid.dimensions", "index has no vector field")
		}
		if len(query.Vector) != vectors.Dimensions() {
			return nil, errors.NewConfigurationConflictError("hybrid.dimensions",
				fmt.Sprintf("query vector has %d dimensions, index expects %d", len(query.Vector), vectors.Dimensions()))
		}
		p.vectors = vectors
	}
	return p, nil
}

func sortDirective(sd services.SortDirective, settings *config.IndexSettings) (ranking.SortDirective, error) {
	var descending bool
	switch strings.ToLower(sd.Order) {
	case "", "asc":
	case "desc":
		descending = true
	default:
		return ranking.SortDirective{}, errors.NewValidationError("sort", fmt.Sprintf("invalid order '%s' for field '%s' (must be 'asc' or 'desc')", sd.Order, sd.Field))
	}

	if sd.Field == geoField {
		if sd.Point == nil {
			return ranking.SortDirective{}, errors.NewValidationError("sort", "sorting on '_geo' requires a point")
		}
		if err := sd.Point.Validate(); err != nil {
			return ranking.SortDirective{}, errors.NewValidationError("sort", err.Error())
		}
	} else if sd.Point != nil {
		return ranking.SortDirective{}, errors.NewValidationError("sort", fmt.Sprintf("a point is only valid when sorting on '_geo', not '%s'", sd.Field))
	}
	if !settings.IsSortable(sd.Field) {
		return ranking.SortDirective{}, errors.NewConfigurationConflictError("sortable_fields",
			fmt.Sprintf("field '%s' is not sortable, sortable fields are: %s", sd.Field, strings.Join(settings.SortableFields, ", ")))
	}
	return ranking.SortDirective{Field: sd.Field, Descending: descending, Point: sd.Point}, nil
}

// intersection returns a ∩ b, where a nil set is unrestricted.
func intersection(a, b *index.PostingSet) *index.PostingSet {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	set := a.Intersect(*b)
	return &set
}

// weightedPage fuses the keyword ranking of the first Window documents with
// the neighbour list, then continues with the remaining documents in keyword
// order.
func weightedPage(p *ranking.Pipeline, rctx *ranking.Context, universe index.PostingSet, neighbors []vector.Neighbor,
	hybrid config.HybridSettings, offset, limit int) (ranking.Result, error) {
	if limit <= 0 || uint64(offset) >= universe.Len() {
		return ranking.Result{IDs: []model.DocumentID{}, Exhaustive: true}, nil
	}

	window, err := p.BucketSort(rctx, universe, 0, hybrid.Window)
	if err != nil {
		return ranking.Result{}, err
	}
	ann := make([]vector.Neighbor, 0, len(neighbors))
	for _, n := range neighbors {
		if universe.Contains(n.ID) {
			ann = append(ann, n)
		}
	}
	fused := vector.FuseWeighted(window.IDs, ann, hybrid.SemanticRatio)

	end := offset + limit
	out := make([]model.DocumentID, 0, limit)
	if offset < len(fused) {
		out = append(out, fused[offset:min(end, len(fused))]...)
	}
	res := ranking.Result{IDs: out, Exhaustive: window.Exhaustive}
	if end > len(fused) {
		rest := universe.Difference(index.NewPostingSet(fused...))
		tail, err := p.BucketSort(rctx, rest, max(offset-len(fused), 0), end-max(offset, len(fused)))
		if err != nil {
			return ranking.Result{}, err
		}
		res.IDs = append(res.IDs, tail.IDs...)
		res.Exhaustive = res.Exhaustive && tail.Exhaustive
	}
	return res, nil
}

// record updates the query metrics.
func (s *Service) record(res services.Result, err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	m := s.metrics
	m.QueryLatency.WithLabelValues(s.name).Observe(elapsed.Seconds())

	var outcome string
	switch {
	case err != nil && errors.IsClientError(err):
		outcome = metrics.ResultBadRequest
	case err != nil:
		outcome = metrics.ResultError
	case !res.Exhaustive:
		outcome = metrics.ResultPartial
		m.BudgetExhaustedTotal.WithLabelValues(s.name).Inc()
	case res.EstimatedTotalHits == 0:
		outcome = metrics.ResultZero
	default:
		outcome = metrics.ResultHit
	}
	m.QueriesTotal.WithLabelValues(s.name, outcome).Inc()
	if err != nil {
		return
	}
	m.CandidateUniverse.WithLabelValues(s.name).Observe(float64(res.EstimatedTotalHits))
	if len(res.DroppedWords) > 0 {
		m.WordDropsTotal.WithLabelValues(s.name).Add(float64(len(res.DroppedWords)))
	}
}
