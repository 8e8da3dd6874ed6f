// Package obs holds the Prometheus instrumentation.
package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UploadsTotal counts dataset uploads per category.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_uploads_total",
		Help: "Dataset uploads accepted, by category.",
	}, []string{"category"})

	// UploadRows tracks how many rows the last upload per category carried.
	UploadRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_upload_rows",
		Help: "Row count of the most recent upload, by category.",
	}, []string{"category"})

	// RecomputeSeconds measures full snapshot recomputations.
	RecomputeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_recompute_seconds",
		Help:    "Time to recompute a full dashboard snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler { return promhttp.Handler() }

// TimeRecompute runs fn and records its duration.
func TimeRecompute(fn func()) {
	start := time.Now()
	fn()
	RecomputeSeconds.Observe(time.Since(start).Seconds())
}

// Middleware counts requests by method and status class.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		class := strconv.Itoa(rec.status/100) + "xx"
		httpRequests.WithLabelValues(r.Method, class).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
