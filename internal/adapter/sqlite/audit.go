package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// AuditRepo provides append-only audit log persistence.
type AuditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sqlx.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

type auditRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	Action       string    `db:"action"`
	TargetUserID *string   `db:"target_user_id"`
	Details      string    `db:"details"`
	CreatedAt    time.Time `db:"created_at"`
}

// Create appends an audit entry.
func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	details, err := json.Marshal(detailsOrEmpty(e.Details))
	if err != nil {
		return fmt.Errorf("audit_entry marshal details: %w", err)
	}

	query, args, err := psql.Insert("audit_logs").
		Columns("id", "user_id", "email", "action", "target_user_id", "details", "created_at").
		Values(e.ID.String(), e.UserID, e.Email, string(e.Action), e.TargetUserID, string(details), e.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit entry: %w", err)
	}

	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "audit_entry", e.ID.String())
	}
	return nil
}

// List returns entries newest first, optionally for one target user.
func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	b := psql.Select("id", "user_id", "email", "action", "target_user_id", "details", "created_at").
		From("audit_logs").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(f.EffectiveLimit()))
	if f.TargetUserID != nil {
		b = b.Where(sq.Eq{"target_user_id": *f.TargetUserID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries: %w", err)
	}

	var rows []auditRow
	if err := sqlx.SelectContext(ctx, querierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, mapError(err, "audit_entries", "")
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
func (r *AuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.Delete("audit_logs").Where(sq.Lt{"created_at": cutoff.UTC()}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete audit entries: %w", err)
	}

	res, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, "audit_entries before", cutoff.Format(time.RFC3339))
	}
	return res.RowsAffected()
}

func detailsOrEmpty(d map[string]any) map[string]any {
	if d == nil {
		return map[string]any{}
	}
	return d
}

func toDomainAuditEntry(row auditRow) (domain.AuditEntry, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("audit_entry %s: parse id: %w", row.ID, err)
	}

	e := domain.AuditEntry{
		ID:           id,
		UserID:       row.UserID,
		Email:        row.Email,
		Action:       domain.AuditAction(row.Action),
		TargetUserID: row.TargetUserID,
		CreatedAt:    row.CreatedAt.UTC(),
	}
	if row.Details != "" {
		details := make(map[string]any)
		if err := json.Unmarshal([]byte(row.Details), &details); err != nil {
			return domain.AuditEntry{}, fmt.Errorf("audit_entry %s unmarshal details: %w", row.ID, err)
		}
		e.Details = details
	}
	return e, nil
}
