// Package audit implements the audit log repository using PostgreSQL.
// It provides append-only operations plus retention cleanup.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type auditRow struct {
	ID           uuid.UUID `db:"id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	Action       string    `db:"action"`
	TargetUserID *string   `db:"target_user_id"`
	Details      []byte    `db:"details"`
	CreatedAt    time.Time `db:"created_at"`
}

var auditColumns = []string{"id", "user_id", "email", "action", "target_user_id", "details", "created_at"}

// Create appends an audit entry.
func (r *Repo) Create(ctx context.Context, e *domain.AuditEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("audit_entry marshal details: %w", err)
	}

	b := postgres.Builder.Insert("audit_logs").
		Columns(auditColumns...).
		Values(e.ID, e.UserID, e.Email, string(e.Action), e.TargetUserID, detailsJSON, e.CreatedAt)
	_, err = postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "audit_entry", e.ID.String())
	return err
}

// List returns entries newest first, optionally for one target user.
func (r *Repo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	b := postgres.Builder.Select(auditColumns...).
		From("audit_logs").
		OrderBy("created_at DESC", "id").
		Limit(uint64(f.EffectiveLimit()))
	if f.TargetUserID != nil {
		b = b.Where(sq.Eq{"target_user_id": *f.TargetUserID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "audit_entries", "")
	}

	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		e, err := toDomainAuditEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DeleteBefore removes entries created before cutoff and returns how many.
func (r *Repo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("audit_logs").Where(sq.Lt{"created_at": cutoff}),
		"audit_entries before", cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// toDomainAuditEntry converts a row into a domain.AuditEntry.
func toDomainAuditEntry(row auditRow) (domain.AuditEntry, error) {
	e := domain.AuditEntry{
		ID:           row.ID,
		UserID:       row.UserID,
		Email:        row.Email,
		Action:       domain.AuditAction(row.Action),
		TargetUserID: row.TargetUserID,
		CreatedAt:    row.CreatedAt.UTC(),
	}

	// details: JSONB -> map[string]any
	if len(row.Details) > 0 {
		details := make(map[string]any)
		if err := json.Unmarshal(row.Details, &details); err != nil {
			return domain.AuditEntry{}, fmt.Errorf("audit_entry %s unmarshal details: %w", row.ID, err)
		}
		e.Details = details
	}
	return e, nil
}
