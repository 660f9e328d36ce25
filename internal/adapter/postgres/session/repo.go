// Package session implements the journal session repository using
// PostgreSQL. Items, media and contact tags are stored alongside the
// session and removed with it.
package session

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/gratitude-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new session repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type sessionRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    string    `db:"user_id"`
	Date      time.Time `db:"session_date"`
	Mode      string    `db:"mode"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type itemRow struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Position  int       `db:"position"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type mediaRow struct {
	ID        uuid.UUID `db:"id"`
	ItemID    uuid.UUID `db:"item_id"`
	Kind      string    `db:"kind"`
	DataURL   string    `db:"data_url"`
	FileName  string    `db:"file_name"`
	FileSize  int64     `db:"file_size"`
	MIMEType  string    `db:"mime_type"`
	CreatedAt time.Time `db:"created_at"`
}

type tagRow struct {
	ItemID    uuid.UUID `db:"item_id"`
	ContactID uuid.UUID `db:"contact_id"`
}

var sessionColumns = []string{"id", "user_id", "session_date", "mode", "version", "created_at", "updated_at"}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// Create inserts the session row. A second row for the same user, date and
// mode fails with domain.ErrDuplicateSession.
func (r *Repo) Create(ctx context.Context, s *domain.Session) error {
	b := postgres.Builder.Insert("sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, domain.DateOf(s.Date), string(s.Mode), s.Version, s.CreatedAt, s.UpdatedAt)
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "session", s.ID.String())
	return err
}

// ListByUser returns the user's sessions newest first, optionally for one mode.
func (r *Repo) ListByUser(ctx context.Context, userID string, mode *domain.Mode) ([]domain.Session, error) {
	b := postgres.Builder.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id")
	if mode != nil {
		b = b.Where(sq.Eq{"mode": string(*mode)})
	}
	return r.list(ctx, b)
}

// ListByDate returns the user's sessions for one calendar day, any mode.
func (r *Repo) ListByDate(ctx context.Context, userID string, date time.Time) ([]domain.Session, error) {
	return r.list(ctx, postgres.Builder.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"user_id": userID, "session_date": domain.DateOf(date)}))
}

// GetByID returns a session owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Session, error) {
	query, args, err := postgres.Builder.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get session: %w", err)
	}

	var row sessionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "session", id.String())
	}
	s := toDomainSession(row)
	return &s, nil
}

// Touch bumps updated_at and version. A non-nil version is a compare-and-set
// token: a stale one fails with domain.ErrConflict. Without it concurrent
// updates serialise on the row lock and the last write wins.
func (r *Repo) Touch(ctx context.Context, userID string, id uuid.UUID, version *int, now time.Time) error {
	where := sq.Eq{"id": id, "user_id": userID}
	if version != nil {
		where["version"] = *version
	}
	b := postgres.Builder.Update("sessions").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", now).
		Where(where)

	tag, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "session", id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if version == nil {
			return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("session %s: %w", id, domain.ErrConflict)
	}
	return nil
}

// Delete removes the session. Items, media and tags cascade.
func (r *Repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("sessions").Where(sq.Eq{"id": id, "user_id": userID}),
		"session", id.String())
}

// CountByUser returns the number of sessions owned by userID.
func (r *Repo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, "SELECT COUNT(*) FROM sessions WHERE user_id = $1", userID).Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "sessions of", userID)
	}
	return n, nil
}

// DeleteAllByUser removes every session of userID. Children cascade.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("sessions").Where(sq.Eq{"user_id": userID}),
		"sessions of", userID)
	return err
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// CreateItems inserts items with their media and contact tags.
func (r *Repo) CreateItems(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)
	sessionID := items[0].SessionID.String()

	ib := postgres.Builder.Insert("session_items").Columns("id", "session_id", "position", "body", "created_at", "updated_at")
	mb := postgres.Builder.Insert("item_media").Columns("id", "item_id", "kind", "data_url", "file_name", "file_size", "mime_type", "created_at")
	tb := postgres.Builder.Insert("item_contacts").Columns("item_id", "contact_id")

	var media, tags int
	for _, it := range items {
		ib = ib.Values(it.ID, it.SessionID, it.Order, it.Text, it.CreatedAt, it.UpdatedAt)
		for _, m := range it.Media {
			mb = mb.Values(m.ID, it.ID, string(m.Kind), m.DataURL, m.FileName, m.FileSize, m.MIMEType, m.CreatedAt)
			media++
		}
		for _, cid := range it.ContactIDs {
			tb = tb.Values(it.ID, cid)
			tags++
		}
	}

	if _, err := postgres.Exec(ctx, q, ib, "item", sessionID); err != nil {
		return err
	}
	if media > 0 {
		if _, err := postgres.Exec(ctx, q, mb, "media", sessionID); err != nil {
			return err
		}
	}
	if tags > 0 {
		if _, err := postgres.Exec(ctx, q, tb, "item_contact", sessionID); err != nil {
			return err
		}
	}
	return nil
}

// ListItems returns the session's items ordered by position with media
// (oldest first) and tagged contact ids.
func (r *Repo) ListItems(ctx context.Context, sessionID uuid.UUID) ([]domain.Item, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []itemRow
	err := pgxscan.Select(ctx, q, &rows,
		`SELECT id, session_id, position, body, created_at, updated_at
		 FROM session_items WHERE session_id = $1 ORDER BY position`, sessionID)
	if err != nil {
		return nil, postgres.MapError(err, "items of session", sessionID.String())
	}
	if len(rows) == 0 {
		return []domain.Item{}, nil
	}

	var mediaRows []mediaRow
	err = pgxscan.Select(ctx, q, &mediaRows,
		`SELECT m.id, m.item_id, m.kind, m.data_url, m.file_name, m.file_size, m.mime_type, m.created_at
		 FROM item_media m JOIN session_items i ON i.id = m.item_id
		 WHERE i.session_id = $1 ORDER BY m.created_at, m.id`, sessionID)
	if err != nil {
		return nil, postgres.MapError(err, "media of session", sessionID.String())
	}

	var tagRows []tagRow
	err = pgxscan.Select(ctx, q, &tagRows,
		`SELECT t.item_id, t.contact_id
		 FROM item_contacts t JOIN session_items i ON i.id = t.item_id
		 WHERE i.session_id = $1 ORDER BY t.contact_id`, sessionID)
	if err != nil {
		return nil, postgres.MapError(err, "tags of session", sessionID.String())
	}

	mediaByItem := make(map[uuid.UUID][]domain.Media, len(rows))
	for _, mr := range mediaRows {
		mediaByItem[mr.ItemID] = append(mediaByItem[mr.ItemID], domain.Media{
			ID:        mr.ID,
			ItemID:    mr.ItemID,
			Kind:      domain.MediaKind(mr.Kind),
			DataURL:   mr.DataURL,
			FileName:  mr.FileName,
			FileSize:  mr.FileSize,
			MIMEType:  mr.MIMEType,
			CreatedAt: mr.CreatedAt.UTC(),
		})
	}
	tagsByItem := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, tr := range tagRows {
		tagsByItem[tr.ItemID] = append(tagsByItem[tr.ItemID], tr.ContactID)
	}

	items := make([]domain.Item, len(rows))
	for i, row := range rows {
		items[i] = domain.Item{
			ID:         row.ID,
			SessionID:  row.SessionID,
			Order:      row.Position,
			Text:       row.Body,
			Media:      mediaByItem[row.ID],
			ContactIDs: tagsByItem[row.ID],
			CreatedAt:  row.CreatedAt.UTC(),
			UpdatedAt:  row.UpdatedAt.UTC(),
		}
	}
	return items, nil
}

// DeleteItems removes the session's items. Media and tags cascade.
func (r *Repo) DeleteItems(ctx context.Context, sessionID uuid.UUID) error {
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("session_items").Where(sq.Eq{"session_id": sessionID}),
		"items of session", sessionID.String())
	return err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Session, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions: %w", err)
	}

	var rows []sessionRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "sessions", "")
	}

	sessions := make([]domain.Session, len(rows))
	for i, row := range rows {
		sessions[i] = toDomainSession(row)
	}
	return sessions, nil
}

func toDomainSession(row sessionRow) domain.Session {
	return domain.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Date:      domain.DateOf(row.Date),
		Mode:      domain.Mode(row.Mode),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
