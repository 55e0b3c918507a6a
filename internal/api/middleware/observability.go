package middleware

import (
	"net/http"
	"time"

	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// unmatchedRoute labels requests no registered pattern served, keeping
// metric cardinality bounded.
const unmatchedRoute = "unmatched"

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			rw := newStatusRecorder(w)
			start := time.Now()

			// ServeMux records the matched pattern on the request it is handed.
			req := r.WithContext(ctx)
			next.ServeHTTP(rw, req)

			route := routeLabel(req)
			if route == unmatchedRoute {
				span.SetName(r.Method + " " + route)
			} else {
				span.SetName(route)
			}
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
			observability.SetSpanAttributes(span,
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
		})
	}
}

func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}
