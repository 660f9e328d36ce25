package sqlite

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// SessionRepo stores sessions, items, media and contact tags.
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type sessionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Date      string    `db:"session_date"`
	Mode      string    `db:"mode"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type itemRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Position  int       `db:"position"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type mediaRow struct {
	ID        string    `db:"id"`
	ItemID    string    `db:"item_id"`
	Kind      string    `db:"kind"`
	DataURL   string    `db:"data_url"`
	FileName  string    `db:"file_name"`
	FileSize  int64     `db:"file_size"`
	MIMEType  string    `db:"mime_type"`
	CreatedAt time.Time `db:"created_at"`
}

type tagRow struct {
	ItemID    string `db:"item_id"`
	ContactID string `db:"contact_id"`
}

var sessionColumns = []string{"id", "user_id", "session_date", "mode", "version", "created_at", "updated_at"}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// Create inserts the session row. A second row for the same user, date and
// mode fails with domain.ErrDuplicateSession.
func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query, args, err := psql.Insert("sessions").
		Columns(sessionColumns...).
		Values(s.ID.String(), s.UserID, domain.FormatDate(s.Date), string(s.Mode), s.Version, s.CreatedAt.UTC(), s.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session: %w", err)
	}

	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "session", s.ID.String())
	}
	return nil
}

// ListByUser returns the user's sessions, optionally for one mode.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string, mode *domain.Mode) ([]domain.Session, error) {
	b := psql.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if mode != nil {
		b = b.Where(sq.Eq{"mode": string(*mode)})
	}
	return r.list(ctx, b)
}

// ListByDate returns the user's sessions for one calendar day, any mode.
func (r *SessionRepo) ListByDate(ctx context.Context, userID string, date time.Time) ([]domain.Session, error) {
	b := psql.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"user_id": userID, "session_date": domain.FormatDate(date)})
	return r.list(ctx, b)
}

// GetByID returns a session owned by userID.
func (r *SessionRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Session, error) {
	query, args, err := psql.Select(sessionColumns...).From("sessions").
		Where(sq.Eq{"id": id.String(), "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get session: %w", err)
	}

	var row sessionRow
	if err := sqlx.GetContext(ctx, querierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapError(err, "session", id.String())
	}
	return toDomainSession(row)
}

// Touch bumps updated_at and version. When version is set the stored
// version must still equal it, otherwise Touch fails with
// domain.ErrConflict; without it the last write wins.
func (r *SessionRepo) Touch(ctx context.Context, userID string, id uuid.UUID, version *int, now time.Time) error {
	where := sq.Eq{"id": id.String(), "user_id": userID}
	if version != nil {
		where["version"] = *version
	}
	query, args, err := psql.Update("sessions").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", now.UTC()).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch session: %w", err)
	}

	res, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "session", id.String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "session", id.String())
	}
	if n == 0 {
		return touchMiss(id, version)
	}
	return nil
}

func touchMiss(id uuid.UUID, version *int) error {
	if version == nil {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("session %s: %w", id, domain.ErrConflict)
}

// Delete removes the session row. Children must be removed first.
func (r *SessionRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query, args, err := psql.Delete("sessions").
		Where(sq.Eq{"id": id.String(), "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session: %w", err)
	}
	return execOne(ctx, querierFromCtx(ctx, r.db), "session", id.String(), query, args)
}

// CountByUser returns the number of sessions owned by userID.
func (r *SessionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("sessions").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count sessions: %w", err)
	}

	var n int
	if err := sqlx.GetContext(ctx, querierFromCtx(ctx, r.db), &n, query, args...); err != nil {
		return 0, mapError(err, "sessions of", userID)
	}
	return n, nil
}

// DeleteAllByUser removes every session of userID with its children,
// child tables first.
func (r *SessionRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	q := querierFromCtx(ctx, r.db)

	itemsOfUser := "SELECT si.id FROM session_items si JOIN sessions s ON s.id = si.session_id WHERE s.user_id = ?"
	stmts := []string{
		"DELETE FROM item_media WHERE item_id IN (" + itemsOfUser + ")",
		"DELETE FROM item_contacts WHERE item_id IN (" + itemsOfUser + ")",
		"DELETE FROM session_items WHERE session_id IN (SELECT id FROM sessions WHERE user_id = ?)",
		"DELETE FROM sessions WHERE user_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt, userID); err != nil {
			return mapError(err, "sessions of", userID)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// CreateItems inserts items with their media and contact tags.
func (r *SessionRepo) CreateItems(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	q := querierFromCtx(ctx, r.db)

	ib := psql.Insert("session_items").Columns("id", "session_id", "position", "body", "created_at", "updated_at")
	mb := psql.Insert("item_media").Columns("id", "item_id", "kind", "data_url", "file_name", "file_size", "mime_type", "created_at")
	tb := psql.Insert("item_contacts").Columns("item_id", "contact_id")

	var media, tags int
	for _, it := range items {
		ib = ib.Values(it.ID.String(), it.SessionID.String(), it.Order, it.Text, it.CreatedAt.UTC(), it.UpdatedAt.UTC())
		for _, m := range it.Media {
			mb = mb.Values(m.ID.String(), it.ID.String(), string(m.Kind), m.DataURL, m.FileName, m.FileSize, m.MIMEType, m.CreatedAt.UTC())
			media++
		}
		for _, cid := range it.ContactIDs {
			tb = tb.Values(it.ID.String(), cid.String())
			tags++
		}
	}

	if err := execBuilder(ctx, q, ib, "item", items[0].SessionID.String()); err != nil {
		return err
	}
	if media > 0 {
		if err := execBuilder(ctx, q, mb, "media", items[0].SessionID.String()); err != nil {
			return err
		}
	}
	if tags > 0 {
		if err := execBuilder(ctx, q, tb, "item_contact", items[0].SessionID.String()); err != nil {
			return err
		}
	}
	return nil
}

// ListItems returns the session's items ordered by position with media
// (oldest first) and tagged contact ids.
func (r *SessionRepo) ListItems(ctx context.Context, sessionID uuid.UUID) ([]domain.Item, error) {
	q := querierFromCtx(ctx, r.db)

	query, args, err := psql.Select("id", "session_id", "position", "body", "created_at", "updated_at").
		From("session_items").
		Where(sq.Eq{"session_id": sessionID.String()}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, mapError(err, "items of session", sessionID.String())
	}
	if len(rows) == 0 {
		return []domain.Item{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	query, args, err = psql.Select("id", "item_id", "kind", "data_url", "file_name", "file_size", "mime_type", "created_at").
		From("item_media").
		Where(sq.Eq{"item_id": ids}).
		OrderBy("created_at", "rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list media: %w", err)
	}
	var mediaRows []mediaRow
	if err := sqlx.SelectContext(ctx, q, &mediaRows, query, args...); err != nil {
		return nil, mapError(err, "media of session", sessionID.String())
	}

	query, args, err = psql.Select("item_id", "contact_id").
		From("item_contacts").
		Where(sq.Eq{"item_id": ids}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tags: %w", err)
	}
	var tagRows []tagRow
	if err := sqlx.SelectContext(ctx, q, &tagRows, query, args...); err != nil {
		return nil, mapError(err, "tags of session", sessionID.String())
	}

	mediaByItem := make(map[string][]domain.Media, len(rows))
	for _, mr := range mediaRows {
		m, err := toDomainMedia(mr)
		if err != nil {
			return nil, err
		}
		mediaByItem[mr.ItemID] = append(mediaByItem[mr.ItemID], m)
	}
	tagsByItem := make(map[string][]uuid.UUID, len(rows))
	for _, tr := range tagRows {
		cid, err := uuid.Parse(tr.ContactID)
		if err != nil {
			return nil, fmt.Errorf("item %s: parse contact id: %w", tr.ItemID, err)
		}
		tagsByItem[tr.ItemID] = append(tagsByItem[tr.ItemID], cid)
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		it, err := toDomainItem(row)
		if err != nil {
			return nil, err
		}
		it.Media = mediaByItem[row.ID]
		it.ContactIDs = tagsByItem[row.ID]
		items = append(items, it)
	}
	return items, nil
}

// DeleteItems removes the session's media, tags and items, in that order.
func (r *SessionRepo) DeleteItems(ctx context.Context, sessionID uuid.UUID) error {
	q := querierFromCtx(ctx, r.db)

	stmts := []string{
		"DELETE FROM item_media WHERE item_id IN (SELECT id FROM session_items WHERE session_id = ?)",
		"DELETE FROM item_contacts WHERE item_id IN (SELECT id FROM session_items WHERE session_id = ?)",
		"DELETE FROM session_items WHERE session_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt, sessionID.String()); err != nil {
			return mapError(err, "items of session", sessionID.String())
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *SessionRepo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Session, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions: %w", err)
	}

	var rows []sessionRow
	if err := sqlx.SelectContext(ctx, querierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, mapError(err, "sessions", "")
	}

	sessions := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		s, err := toDomainSession(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, nil
}

func execBuilder(ctx context.Context, q querier, b sq.InsertBuilder, entity, id string) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", entity, err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, entity, id)
	}
	return nil
}

func toDomainSession(row sessionRow) (*domain.Session, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("session %s: parse id: %w", row.ID, err)
	}
	date, err := domain.ParseDate(row.Date)
	if err != nil {
		return nil, fmt.Errorf("session %s: parse date: %w", row.ID, err)
	}
	return &domain.Session{
		ID:        id,
		UserID:    row.UserID,
		Date:      date,
		Mode:      domain.Mode(row.Mode),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func toDomainItem(row itemRow) (domain.Item, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %s: parse id: %w", row.ID, err)
	}
	sid, err := uuid.Parse(row.SessionID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %s: parse session id: %w", row.ID, err)
	}
	return domain.Item{
		ID:        id,
		SessionID: sid,
		Order:     row.Position,
		Text:      row.Body,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func toDomainMedia(row mediaRow) (domain.Media, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Media{}, fmt.Errorf("media %s: parse id: %w", row.ID, err)
	}
	itemID, err := uuid.Parse(row.ItemID)
	if err != nil {
		return domain.Media{}, fmt.Errorf("media %s: parse item id: %w", row.ID, err)
	}
	return domain.Media{
		ID:        id,
		ItemID:    itemID,
		Kind:      domain.MediaKind(row.Kind),
		DataURL:   row.DataURL,
		FileName:  row.FileName,
		FileSize:  row.FileSize,
		MIMEType:  row.MIMEType,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}
