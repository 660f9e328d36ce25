package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// ProfileRepo stores user profiles.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
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

// GetByID returns a profile.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(ctx, sq.Eq{"id": id}, id)
}

// GetByEmail returns the first profile with the given email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.get(ctx, sq.Eq{"email": email}, email)
}

// List returns all profiles ordered by email.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").OrderBy("email", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles: %w", err)
	}

	var rows []profileRow
	if err := sqlx.SelectContext(ctx, querierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, mapError(err, "profiles", "")
	}

	profiles := make([]domain.Profile, len(rows))
	for i, row := range rows {
		profiles[i] = toDomainProfile(row)
	}
	return profiles, nil
}

// Upsert inserts the profile or refreshes its email and display name.
// Role, suspension and login counters of an existing row are kept.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	query, args, err := psql.Insert("profiles").
		Columns("id", "email", "display_name", "phone", "role", "created_at", "updated_at").
		Values(p.ID, p.Email, p.DisplayName, p.Phone, string(p.Role), p.CreatedAt.UTC(), p.UpdatedAt.UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = excluded.email, display_name = excluded.display_name, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert profile: %w", err)
	}

	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "profile", p.ID)
	}
	return nil
}

// RecordLogin stamps the login time and increments the login counter.
func (r *ProfileRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{
		"last_login":  at.UTC(),
		"login_count": sq.Expr("login_count + 1"),
	})
}

// UpdatePhone sets or clears the profile phone number.
func (r *ProfileRepo) UpdatePhone(ctx context.Context, id string, phone *string, now time.Time) error {
	return r.update(ctx, id, map[string]any{"phone": phone, "updated_at": now.UTC()})
}

// SetRole changes the profile role.
func (r *ProfileRepo) SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error {
	return r.update(ctx, id, map[string]any{"role": string(role), "updated_at": now.UTC()})
}

// SetSuspended suspends (recording who and when) or reinstates a profile.
func (r *ProfileRepo) SetSuspended(ctx context.Context, id string, suspended bool, by string, now time.Time) error {
	fields := map[string]any{"suspended": suspended, "updated_at": now.UTC()}
	if suspended {
		fields["suspended_at"] = now.UTC()
		fields["suspended_by"] = by
	} else {
		fields["suspended_at"] = nil
		fields["suspended_by"] = nil
	}
	return r.update(ctx, id, fields)
}

// Delete removes the profile row.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("profiles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete profile: %w", err)
	}
	return execOne(ctx, querierFromCtx(ctx, r.db), "profile", id, query, args)
}

func (r *ProfileRepo) get(ctx context.Context, where sq.Eq, key string) (*domain.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").Where(where).OrderBy("created_at").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile: %w", err)
	}

	var row profileRow
	if err := sqlx.GetContext(ctx, querierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapError(err, "profile", key)
	}
	p := toDomainProfile(row)
	return &p, nil
}

func (r *ProfileRepo) update(ctx context.Context, id string, fields map[string]any) error {
	query, args, err := psql.Update("profiles").SetMap(fields).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build update profile: %w", err)
	}
	return execOne(ctx, querierFromCtx(ctx, r.db), "profile", id, query, args)
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
