// Package middleware holds the HTTP middleware mounted by the REST router:
// request ids, panic recovery, access logs, metrics, CORS, rate limiting,
// bearer authentication and the suspended-account gate.
package middleware

import "net/http"

// Middleware wraps an http.Handler. It has the same shape chi's Use expects.
type Middleware = func(http.Handler) http.Handler
