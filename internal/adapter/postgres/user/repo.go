// Package user implements the profile repository using PostgreSQL.
// Profile ids are the opaque identifiers issued by the identity provider.
package user

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type profileRow struct {
	ID          string     `db:"id"`
	Email       string     `db:"email"`
	DisplayName string     `db:"display_name"`
	Phone       *string    `db:"phone"`
	Role        string     `db:"role"`
	Suspended   bool       `db:"suspended"`
	SuspendedAt *time.Time `db:"suspended_at"`
	SuspendedBy *string    `db:"suspended_by"`
	LastLogin   *time.Time `db:"last_login"`
	LoginCount  int        `db:"login_count"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

var profileColumns = []string{
	"id", "email", "display_name", "phone", "role", "suspended", "suspended_at", "suspended_by",
	"last_login", "login_count", "created_at", "updated_at",
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a profile by primary key.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, sq.Eq{"id": id}, id)
}

// GetByEmail returns the oldest profile with the given email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.get(ctx, sq.Eq{"email": email}, email)
}

// List returns all profiles ordered by email.
func (r *Repo) List(ctx context.Context) ([]domain.Profile, error) {
	query, args, err := postgres.Builder.Select(profileColumns...).From("profiles").OrderBy("email", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles: %w", err)
	}

	var rows []profileRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "profiles", "")
	}

	profiles := make([]domain.Profile, len(rows))
	for i, row := range rows {
		profiles[i] = toDomainProfile(row)
	}
	return profiles, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert inserts the profile or refreshes its email and display name.
// Role, suspension and login counters of an existing row are kept.
func (r *Repo) Upsert(ctx context.Context, p *domain.Profile) error {
	b := postgres.Builder.Insert("profiles").
		Columns("id", "email", "display_name", "phone", "role", "created_at", "updated_at").
		Values(p.ID, p.Email, p.DisplayName, p.Phone, string(p.Role), p.CreatedAt, p.UpdatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, display_name = EXCLUDED.display_name, updated_at = EXCLUDED.updated_at")
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "profile", p.ID)
	return err
}

// RecordLogin stamps the login time and increments the login counter.
func (r *Repo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"last_login":  at,
		"login_count": sq.Expr("login_count + 1"),
	})
}

// UpdatePhone sets or clears the profile phone number.
func (r *Repo) UpdatePhone(ctx context.Context, id string, phone *string, now time.Time) error {
	return r.update(ctx, id, map[string]any{"phone": phone, "updated_at": now})
}

// SetRole changes the profile role.
func (r *Repo) SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error {
	return r.update(ctx, id, map[string]any{"role": string(role), "updated_at": now})
}

// SetSuspended suspends (recording who and when) or reinstates a profile.
func (r *Repo) SetSuspended(ctx context.Context, id string, suspended bool, by string, now time.Time) error {
	fields := map[string]any{
		"suspended":    suspended,
		"suspended_at": nil,
		"suspended_by": nil,
		"updated_at":   now,
	}
	if suspended {
		fields["suspended_at"] = now
		fields["suspended_by"] = by
	}
	return r.update(ctx, id, fields)
}

// Delete removes the profile row.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("profiles").Where(sq.Eq{"id": id}),
		"profile", id)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) get(ctx context.Context, where sq.Eq, key string) (*domain.Profile, error) {
	query, args, err := postgres.Builder.Select(profileColumns...).From("profiles").
		Where(where).OrderBy("created_at").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "profile", key)
	}
	p := toDomainProfile(row)
	return &p, nil
}

func (r *Repo) update(ctx context.Context, id string, fields map[string]any) error {
	return postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Update("profiles").SetMap(fields).Where(sq.Eq{"id": id}),
		"profile", id)
}

func toDomainProfile(row profileRow) domain.Profile {
	p := domain.Profile{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Phone:       row.Phone,
		Role:        domain.UserRole(row.Role),
		Suspended:   row.Suspended,
		SuspendedBy: row.SuspendedBy,
		LoginCount:  row.LoginCount,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	if row.SuspendedAt != nil {
		t := row.SuspendedAt.UTC()
		p.SuspendedAt = &t
	}
	if row.LastLogin != nil {
		t := row.LastLogin.UTC()
		p.LastLogin = &t
	}
	return p
}
