// Package metrics exposes Prometheus collectors for lead processing and HTTP
// traffic. Batch counters are fed from domain events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lead_triage_backend/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	BatchesProcessed   prometheus.Counter
	LeadsProcessed     *prometheus.CounterVec
	RowsSkipped        prometheus.Counter
	ClassifierFailures prometheus.Counter
	TiersAdjusted      prometheus.Counter
	BatchDuration      prometheus.Histogram
	LeadsCleared       prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers all collectors, including Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BatchesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "lead_batches_processed_total",
			Help: "Total number of upload batches stored",
		}),
		LeadsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_processed_total",
			Help: "Total number of leads stored, by tier",
		}, []string{"tier"}),
		RowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "lead_rows_skipped_total",
			Help: "Total number of CSV rows dropped during ingest",
		}),
		ClassifierFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "lead_intent_failures_total",
			Help: "Total number of leads stored without an intent analysis",
		}),
		TiersAdjusted: f.NewCounter(prometheus.CounterOpts{
			Name: "lead_tier_adjustments_total",
			Help: "Total number of leads downgraded by intent",
		}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lead_batch_duration_seconds",
			Help:    "Duration of batch processing in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		LeadsCleared: f.NewCounter(prometheus.CounterOpts{
			Name: "leads_cleared_total",
			Help: "Total number of leads removed by clear",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Subscribe counts batch and clear events published on bus.
func (m *Metrics) Subscribe(bus events.Bus) {
	bus.Subscribe(events.LeadBatchProcessed{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadBatchProcessed)
		if !ok {
			return nil
		}
		m.BatchesProcessed.Inc()
		m.RowsSkipped.Add(float64(e.Skipped))
		m.ClassifierFailures.Add(float64(e.ClassifierFailures))
		m.TiersAdjusted.Add(float64(e.Adjusted))
		m.BatchDuration.Observe(e.DurationMs / 1000)
		for t, n := range e.Tiers {
			m.LeadsProcessed.WithLabelValues(t).Add(float64(n))
		}
		return nil
	}))

	bus.Subscribe(events.LeadsCleared{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.LeadsCleared); ok {
			m.LeadsCleared.Add(float64(e.Count))
		}
		return nil
	}))
}

// Middleware records request counts and latency by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
