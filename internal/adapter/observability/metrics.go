package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider, operation and outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"provider", "operation"},
	)
	AITokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Approximate tokens sent and received, by operation and direction",
		},
		[]string{"operation", "direction"},
	)

	// AggregationDuration tracks the parallel candidate data fetch.
	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "candidate_aggregation_duration_seconds",
			Help:    "Time to assemble a candidate snapshot",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"source"},
	)
	SnapshotCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candidate_snapshot_cache_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	FitVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fit_verdicts_total",
			Help: "Job fit verdicts returned, by verdict",
		},
		[]string{"verdict"},
	)
	FitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fit_failures_total",
			Help: "Job fit analyses that failed, by stage",
		},
		[]string{"stage"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to
// call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AIRequestsTotal,
			AIRequestDuration,
			AITokensTotal,
			AggregationDuration,
			SnapshotCacheTotal,
			FitVerdictsTotal,
			FitFailuresTotal,
		)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveAIRequest records one upstream inference call.
func ObserveAIRequest(provider, operation, outcome string, d time.Duration) {
	AIRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	AIRequestDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// ObserveTokens records approximate prompt and completion sizes.
func ObserveTokens(operation string, prompt, completion int) {
	if prompt > 0 {
		AITokensTotal.WithLabelValues(operation, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		AITokensTotal.WithLabelValues(operation, "completion").Add(float64(completion))
	}
}

// ObserveAggregation records how long a snapshot took to assemble.
func ObserveAggregation(source string, d time.Duration) {
	AggregationDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordSnapshotCache counts a cache hit, miss or error.
func RecordSnapshotCache(result string) {
	SnapshotCacheTotal.WithLabelValues(result).Inc()
}

// RecordVerdict counts a returned fit verdict.
func RecordVerdict(verdict string) {
	FitVerdictsTotal.WithLabelValues(verdict).Inc()
}

// RecordFitFailure counts a failed analysis at the given stage.
func RecordFitFailure(stage string) {
	FitFailuresTotal.WithLabelValues(stage).Inc()
}
