package middleware

import (
	"net/http"
	"strconv"
	"time"

	"practicetrack/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records a prometheus counter and latency histogram per request,
// labelled with the chi route pattern rather than the raw path so
// parameterized routes collapse into one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start))
	})
}
