package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type requestRecorder interface {
	RequestStarted() func(method, route string, status int)
}

// Metrics records request counts and latency by chi route pattern, so
// path parameters do not explode label cardinality.
func Metrics(rec requestRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			done := rec.RequestStarted()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			done(r.Method, route, sw.status)
		})
	}
}
