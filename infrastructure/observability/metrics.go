package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Engine metrics
	RecomputeDuration prometheus.Histogram
	TreeNodes         prometheus.Histogram
	EmbeddablePairs   prometheus.Histogram

	// Business metrics
	Edits           *prometheus.CounterVec
	Commits         *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RecomputeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "recompute_duration_seconds",
				Help:      "Duration of a full tree analysis pass",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		TreeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tree_nodes",
				Help:      "Number of nodes in the tree at each analysis pass",
				Buckets:   prometheus.LinearBuckets(0, 25, 9),
			},
		),
		EmbeddablePairs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "embeddable_pairs",
				Help:      "Number of embeddable pairs found at each analysis pass",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tree_edits_total",
				Help:      "Total number of tree edits by operation and outcome",
			},
			[]string{"operation", "success"},
		),
		Commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Total number of commit attempts by result",
			},
			[]string{"result"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of domain events published",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.RecomputeDuration,
		c.TreeNodes,
		c.EmbeddablePairs,
		c.Edits,
		c.Commits,
		c.EventsPublished,
	)
	return c
}

// ObserveRecompute records one full analysis pass
func (c *Collector) ObserveRecompute(duration time.Duration, nodes, embeddablePairs int) {
	c.RecomputeDuration.Observe(duration.Seconds())
	c.TreeNodes.Observe(float64(nodes))
	c.EmbeddablePairs.Observe(float64(embeddablePairs))
}

// IncEdit counts a tree edit by operation and outcome
func (c *Collector) IncEdit(operation string, success bool) {
	c.Edits.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

// IncCommit counts a commit attempt by result
func (c *Collector) IncCommit(result string) {
	c.Commits.WithLabelValues(result).Inc()
}

// IncEvent counts a published domain event
func (c *Collector) IncEvent(eventType string) {
	c.EventsPublished.WithLabelValues(eventType).Inc()
}

// RecordHTTPRequest records one served request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
