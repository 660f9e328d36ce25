package rest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/store"
)

// EntryStore is the per-user store the journal and contact handlers read
// and write. *store.Store satisfies it.
type EntryStore interface {
	CreateSession(ctx context.Context, input store.CreateSessionInput) (uuid.UUID, error)
	SaveEntry(ctx context.Context, input store.CreateSessionInput) (uuid.UUID, error)
	GetAllSessions(ctx context.Context, mode *domain.Mode) ([]domain.Session, error)
	GetSessionByDate(ctx context.Context, date time.Time, mode domain.Mode) (*domain.Session, error)
	GetSessionWithDetails(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	UpdateSession(ctx context.Context, id uuid.UUID, input store.UpdateSessionInput) (uuid.UUID, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	Streak(ctx context.Context, mode domain.Mode, today time.Time) (int, error)

	AddContact(ctx context.Context, input store.ContactInput) (uuid.UUID, error)
	GetAllContacts(ctx context.Context) ([]domain.Contact, error)
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	UpdateContact(ctx context.Context, id uuid.UUID, input store.ContactInput) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	GetUpcomingBirthdays(ctx context.Context, daysAhead int) ([]domain.UpcomingBirthday, error)
	GetBirthdaysForMonth(ctx context.Context, month int) ([]domain.Contact, error)
	GetSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error)
}

// StoreFunc scopes the Entry Store to one user.
type StoreFunc func(userID string) (EntryStore, error)
