// Package store implements the Entry Store: the per-user data-access layer
// over journal sessions (with their items and media) and contacts.
//
// A Store returned by New is not bound to a user. Every operation fails with
// domain.ErrNotInitialized until a scoped copy is obtained with ForUser.
// The store keeps no other state; ordering, uniqueness and cascade rules are
// enforced here so that every backend behaves the same.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// sessionRepo is the persistence capability the store needs for sessions,
// items and media. Implementations scope every query by user id.
type sessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	ListByUser(ctx context.Context, userID string, mode *domain.Mode) ([]domain.Session, error)
	ListByDate(ctx context.Context, userID string, date time.Time) ([]domain.Session, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Session, error)
	Touch(ctx context.Context, userID string, id uuid.UUID, version *int, now time.Time) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	CreateItems(ctx context.Context, items []domain.Item) error
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]domain.Item, error)
	DeleteItems(ctx context.Context, sessionID uuid.UUID) error
}

// contactRepo is the persistence capability the store needs for contacts
// and their sent-message history.
type contactRepo interface {
	Create(ctx context.Context, c *domain.Contact) error
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	CreateSentMessage(ctx context.Context, m *domain.SentMessage) error
	ListSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error)
}

// txManager runs fn inside one backend transaction.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the Entry Store.
type Store struct {
	log      *slog.Logger
	sessions sessionRepo
	contacts contactRepo
	tx       txManager
	now      func() time.Time
	userID   string
}

// New creates an uninitialised Store over the given backend.
func New(logger *slog.Logger, sessions sessionRepo, contacts contactRepo, tx txManager) *Store {
	return &Store{
		log:      logger.With("store", "entry"),
		sessions: sessions,
		contacts: contacts,
		tx:       tx,
		now:      time.Now,
	}
}

// ForUser returns a copy of the store scoped to userID. The identity is
// immutable for the lifetime of the returned store.
func (s *Store) ForUser(userID string) (*Store, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "required")
	}

	scoped := *s
	scoped.userID = userID
	scoped.log = s.log.With("user_id", userID)
	return &scoped, nil
}

// WithClock returns a copy of the store that reads the current time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	c := *s
	c.now = now
	return &c
}

// UserID returns the identity the store is scoped to, or "" when uninitialised.
func (s *Store) UserID() string {
	return s.userID
}

// ready reports whether the store may serve a call.
func (s *Store) ready() error {
	if s.userID == "" {
		return domain.ErrNotInitialized
	}
	if s.sessions == nil || s.contacts == nil || s.tx == nil {
		return domain.ErrBackendUnavailable
	}
	return nil
}

// degraded reports whether a read failure should be swallowed into an
// empty result. It logs the failure when it does.
func (s *Store) degraded(ctx context.Context, op string, err error) bool {
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		return false
	}
	s.log.WarnContext(ctx, "backend unavailable, returning empty result",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return true
}

func (s *Store) today() time.Time {
	return domain.DateOf(s.now())
}
