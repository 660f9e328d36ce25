package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

type profileGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
}

// Active rejects suspended users with 403 on every request. A caller
// without a profile yet (before the first sign-in) passes through.
func Active(profiles profileGetter, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := ctxutil.UserIDFromCtx(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			p, err := profiles.GetByID(r.Context(), userID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				logger.ErrorContext(r.Context(), "load caller profile",
					slog.String("user_id", userID),
					slog.String("error", err.Error()),
				)
				writeError(w, http.StatusServiceUnavailable, "service unavailable")
				return
			case p.Suspended:
				writeError(w, http.StatusForbidden, "account suspended")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
