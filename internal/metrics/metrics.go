// Package metrics exports Prometheus metrics for the quoting service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all service Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Parsing metrics
	LinesParsed     prometheus.Counter
	LinesDiscarded  prometheus.Counter
	ParseConfidence prometheus.Histogram

	// Matching metrics
	MatchesRun        prometheus.Counter
	RecallSize        prometheus.Histogram
	RerankAdjustments prometheus.Histogram

	// Import metrics
	ProductsImported prometheus.Counter
	ImportErrors     prometheus.Counter
}

// New registers and returns the service metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cotizador_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cotizador_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		LinesParsed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotizador_lines_parsed_total",
			Help: "Total request lines parsed into draft items",
		}),
		LinesDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotizador_lines_discarded_total",
			Help: "Total low-confidence lines discarded during batch parsing",
		}),
		ParseConfidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cotizador_parse_confidence",
			Help:    "Confidence distribution of parsed lines",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		MatchesRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotizador_matches_total",
			Help: "Total catalog match runs",
		}),
		RecallSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cotizador_recall_candidates",
			Help:    "Candidates returned by lexical recall per match",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		RerankAdjustments: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cotizador_rerank_adjustment",
			Help:    "Spec adjustment applied to the winning candidate",
			Buckets: prometheus.LinearBuckets(-1, 0.25, 9),
		}),

		ProductsImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotizador_products_imported_total",
			Help: "Total catalog products upserted by imports",
		}),
		ImportErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotizador_import_errors_total",
			Help: "Total price-list rows rejected during import",
		}),
	}
}

// ObserveParse records one batch parse. Safe on a nil receiver so services
// can run unmetered in tests.
func (m *Metrics) ObserveParse(confidences []float64, discarded int) {
	if m == nil {
		return
	}
	m.LinesParsed.Add(float64(len(confidences)))
	m.LinesDiscarded.Add(float64(discarded))
	for _, c := range confidences {
		m.ParseConfidence.Observe(c)
	}
}

// ObserveMatch records one match run. Safe on a nil receiver.
func (m *Metrics) ObserveMatch(recalled int, bestAdjustment float64) {
	if m == nil {
		return
	}
	m.MatchesRun.Inc()
	m.RecallSize.Observe(float64(recalled))
	m.RerankAdjustments.Observe(bestAdjustment)
}

// ObserveImport records one price-list import. Safe on a nil receiver.
func (m *Metrics) ObserveImport(imported, rejected int) {
	if m == nil {
		return
	}
	m.ProductsImported.Add(float64(imported))
	m.ImportErrors.Add(float64(rejected))
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
