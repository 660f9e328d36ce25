// Package dataloader provides per-request DataLoaders that batch contact
// lookups made while rendering session details. Loaders call the contact
// repository directly; every query is scoped to the requesting user.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type contactRepo interface {
	GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]domain.Contact, error)
}

// Loaders holds the per-request loader instances.
type Loaders struct {
	ContactByID *dataloader.Loader[uuid.UUID, *domain.Contact]
}

// NewLoaders creates loaders for userID. Must be called per request: loaders
// cache results for their lifetime.
func NewLoaders(contacts contactRepo, userID string) *Loaders {
	return &Loaders{
		ContactByID: dataloader.NewBatchedLoader(
			newContactBatchFn(contacts, userID),
			dataloader.WithWait[uuid.UUID, *domain.Contact](wait),
			dataloader.WithBatchCapacity[uuid.UUID, *domain.Contact](maxBatch),
		),
	}
}

// newContactBatchFn resolves ids to contacts. Unknown or deleted contacts
// resolve to nil without an error.
func newContactBatchFn(repo contactRepo, userID string) dataloader.BatchFunc[uuid.UUID, *domain.Contact] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Contact] {
		contacts, err := repo.GetByIDs(ctx, userID, keys)
		if err != nil {
			return errorResults[*domain.Contact](len(keys), err)
		}

		byID := make(map[uuid.UUID]*domain.Contact, len(contacts))
		for i := range contacts {
			byID[contacts[i].ID] = &contacts[i]
		}

		results := make([]*dataloader.Result[*domain.Contact], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[*domain.Contact]{Data: byID[key]}
		}
		return results
	}
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// ContactNames resolves ids to display names in one batch. Ids without a
// contact are left out of the map.
func (l *Loaders) ContactNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	contacts, errs := l.ContactByID.LoadMany(ctx, ids)()
	for i, c := range contacts {
		if i < len(errs) && errs[i] != nil {
			return nil, errs[i]
		}
		if c != nil {
			names[ids[i]] = c.Name
		}
	}
	return names, nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext returns the request's Loaders, or nil outside a request that
// went through Middleware.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// Middleware instantiates per-request loaders for the authenticated user.
// It must run after authentication.
func Middleware(contacts contactRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := ctxutil.UserIDFromCtx(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithLoaders(r.Context(), NewLoaders(contacts, userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
