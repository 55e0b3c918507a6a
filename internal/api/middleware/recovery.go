package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/zatekoja/studentscore/internal/infrastructure/observability"
)

// RecoveryMiddleware turns a handler panic into a logged 500 response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newStatusRecorder(w)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			observability.LoggerFromContext(r.Context()).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("recovered from handler panic")

			if !rw.wroteHeader {
				http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}
