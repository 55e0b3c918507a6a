package routes

import (
	"net/http"

	"github.com/zatekoja/studentscore/internal/api/handlers"
	"github.com/zatekoja/studentscore/internal/api/middleware"
	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux               *http.ServeMux
	predictionHandler *handlers.PredictionHandler
	metrics           *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(predictionHandler *handlers.PredictionHandler, metrics *observability.Metrics) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		predictionHandler: predictionHandler,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /{$}", r.predictionHandler.ShowForm)
	r.mux.HandleFunc("POST /{$}", r.predictionHandler.Predict)

	// last applied is outermost
	var handler http.Handler = r.mux
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	return handler
}
