package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/adapter/postgres"
	pgaudit "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/audit"
	pgcontact "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/contact"
	pgsession "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/session"
	pguser "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/gratitude-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/gratitude-backend/internal/config"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// SessionRepo is the session persistence surface shared by both drivers.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	ListByUser(ctx context.Context, userID string, mode *domain.Mode) ([]domain.Session, error)
	ListByDate(ctx context.Context, userID string, date time.Time) ([]domain.Session, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Session, error)
	Touch(ctx context.Context, userID string, id uuid.UUID, version *int, now time.Time) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteAllByUser(ctx context.Context, userID string) error
	CreateItems(ctx context.Context, items []domain.Item) error
	ListItems(ctx context.Context, sessionID uuid.UUID) ([]domain.Item, error)
	DeleteItems(ctx context.Context, sessionID uuid.UUID) error
}

// ContactRepo is the contact persistence surface shared by both drivers.
type ContactRepo interface {
	Create(ctx context.Context, c *domain.Contact) error
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Contact, error)
	GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteAllByUser(ctx context.Context, userID string) error
	CreateSentMessage(ctx context.Context, m *domain.SentMessage) error
	ListSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error)
}

// ProfileRepo is the profile persistence surface shared by both drivers.
type ProfileRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	UpdatePhone(ctx context.Context, id string, phone *string, now time.Time) error
	SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error
	SetSuspended(ctx context.Context, id string, suspended bool, by string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// AuditRepo is the audit log persistence surface shared by both drivers.
type AuditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TxManager runs fn in one backend transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Backend is an opened persistence backend.
type Backend struct {
	Driver   string
	Sessions SessionRepo
	Contacts ContactRepo
	Profiles ProfileRepo
	Audit    AuditRepo
	Tx       TxManager

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks the database connection.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases the connection pool.
func (b *Backend) Close() {
	b.close()
}

// OpenBackend connects to the database selected by cfg.Driver. SQLite
// databases are migrated on open; PostgreSQL is migrated by MigrateBackend.
func OpenBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("database connected", slog.String("driver", cfg.Driver), slog.String("path", cfg.SQLitePath))
		return &Backend{
			Driver:   cfg.Driver,
			Sessions: sqlite.NewSessionRepo(db),
			Contacts: sqlite.NewContactRepo(db),
			Profiles: sqlite.NewProfileRepo(db),
			Audit:    sqlite.NewAuditRepo(db),
			Tx:       sqlite.NewTxManager(db),
			ping:     db.PingContext,
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("database connected", slog.String("driver", cfg.Driver))
		return &Backend{
			Driver:   cfg.Driver,
			Sessions: pgsession.New(pool),
			Contacts: pgcontact.New(pool),
			Profiles: pguser.New(pool),
			Audit:    pgaudit.New(pool),
			Tx:       postgres.NewTxManager(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// MigrateBackend applies pending schema migrations for the configured driver.
func MigrateBackend(ctx context.Context, cfg config.DatabaseConfig) (int, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return 0, err
		}
		return 0, db.Close()
	}
	return postgres.Migrate(ctx, cfg.DSN)
}
