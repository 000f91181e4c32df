package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sensei/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsCollector counts requests for the JSON /metrics summary and feeds
// the prometheus registry.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	metrics      *metrics.Metrics
}

func NewMetricsCollector(requestCount, errorCount *atomic.Int64, m *metrics.Metrics) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		metrics:      m,
	}
}

// Middleware returns middleware that counts requests and errors.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		mc.metrics.ObserveHTTP(r.Method, route, rw.statusCode, time.Since(start))
	})
}
