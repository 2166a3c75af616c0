// Package metrics defines the Prometheus collectors of the query engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the "result" label.
const (
	ResultHit        = "hit"
	ResultZero       = "zero_result"
	ResultPartial    = "partial"
	ResultBadRequest = "bad_request"
	ResultError      = "error"
)

// Metrics holds all Prometheus collectors for query execution.
type Metrics struct {
	QueriesTotal         *prometheus.CounterVec
	QueryLatency         *prometheus.HistogramVec
	CandidateUniverse    *prometheus.HistogramVec
	BudgetExhaustedTotal *prometheus.CounterVec
	WordDropsTotal       *prometheus.CounterVec
	SnapshotsPublished   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg uses a
// fresh private registry, which keeps tests independent of each other.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_queries_total",
				Help: "Total queries by index and result (hit, zero_result, partial, bad_request, error).",
			},
			[]string{"index", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_query_latency_seconds",
				Help:    "Query execution latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"index"},
		),
		CandidateUniverse: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_candidate_universe_size",
				Help:    "Number of candidate documents entering the ranking pipeline.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"index"},
		),
		BudgetExhaustedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_budget_exhausted_total",
				Help: "Queries whose ranking stopped early on the time or operation budget.",
			},
			[]string{"index"},
		),
		WordDropsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_word_drops_total",
				Help: "Query words dropped by the optional-word matching strategies.",
			},
			[]string{"index"},
		),
		SnapshotsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_snapshots_published_total",
				Help: "Snapshots published by the index writer.",
			},
			[]string{"index"},
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.CandidateUniverse,
		m.BudgetExhaustedTotal,
		m.WordDropsTotal,
		m.SnapshotsPublished,
	)
	return m
}

// Handler returns an HTTP handler exposing the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
