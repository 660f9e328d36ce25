package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/gratitude-backend/internal/auth"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth requires a valid bearer token and puts the caller's user id and
// email into the request context. The token's role hint is not trusted.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			id, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), id.UserID)
			if id.Email != "" {
				ctx = ctxutil.WithEmail(ctx, id.Email)
			}
			if setter, ok := w.(userIDSetter); ok {
				setter.setUserID(id.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
