// Package metrics counts GraphQL queries and connection pages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query outcomes, used as the "outcome" label.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeGraphQLError   = "graphql_error"
	OutcomeNoData         = "no_data"
	OutcomeDecodeError    = "decode_error"
)

// Collector holds the client metrics on its own registry so several clients
// (or tests) never collide on registration.
type Collector struct {
	registry *prometheus.Registry

	Queries       *prometheus.CounterVec
	QueryDuration prometheus.Histogram
	Pages         prometheus.Counter
}

// NewCollector creates a Collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of GraphQL queries by outcome",
		},
		[]string{"outcome"},
	)

	queryDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "GraphQL round trip duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Total number of connection pages fetched",
		},
	)

	registry.MustRegister(queries, queryDuration, pages)

	return &Collector{
		registry:      registry,
		Queries:       queries,
		QueryDuration: queryDuration,
		Pages:         pages,
	}
}

// Registry exposes the registry, e.g. for promhttp.HandlerFor.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveQuery records one finished query.
func (c *Collector) ObserveQuery(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(outcome).Inc()
	c.QueryDuration.Observe(elapsed.Seconds())
}

// ObservePage records one connection page added to a walk.
func (c *Collector) ObservePage() {
	if c == nil {
		return
	}
	c.Pages.Inc()
}
