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

// ContactRepo stores contacts and their sent-message history.
type ContactRepo struct {
	db *sqlx.DB
}

// NewContactRepo creates a new ContactRepo.
func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

type contactRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Name          string    `db:"name"`
	Phone         string    `db:"phone"`
	Email         *string   `db:"email"`
	BirthdayMonth *int      `db:"birthday_month"`
	BirthdayDay   *int      `db:"birthday_day"`
	Photo         *string   `db:"photo"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type sentMessageRow struct {
	ID                string    `db:"id"`
	ContactID         string    `db:"contact_id"`
	Channel           string    `db:"channel"`
	Body              string    `db:"body"`
	ProviderMessageID string    `db:"provider_message_id"`
	Status            string    `db:"status"`
	SentAt            time.Time `db:"sent_at"`
}

var contactColumns = []string{
	"id", "user_id", "name", "phone", "email", "birthday_month", "birthday_day", "photo", "created_at", "updated_at",
}

// Create inserts a contact.
func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	month, day := birthdayColumns(c.Birthday)
	query, args, err := psql.Insert("contacts").
		Columns(contactColumns...).
		Values(c.ID.String(), c.UserID, c.Name, c.Phone, c.Email, month, day, c.Photo, c.CreatedAt.UTC(), c.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert contact: %w", err)
	}

	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "contact", c.ID.String())
	}
	return nil
}

// ListByUser returns all contacts of userID in name order.
func (r *ContactRepo) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	return r.list(ctx, psql.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name"))
}

// GetByID returns a contact owned by userID.
func (r *ContactRepo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Contact, error) {
	query, args, err := psql.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"id": id.String(), "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get contact: %w", err)
	}

	var row contactRow
	if err := sqlx.GetContext(ctx, querierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, mapError(err, "contact", id.String())
	}
	return toDomainContact(row)
}

// GetByIDs returns the contacts of userID among ids. Unknown ids are skipped.
func (r *ContactRepo) GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return []domain.Contact{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	return r.list(ctx, psql.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"user_id": userID, "id": keys}))
}

// Update replaces the editable fields of a contact.
func (r *ContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	month, day := birthdayColumns(c.Birthday)
	query, args, err := psql.Update("contacts").
		SetMap(map[string]any{
			"name":           c.Name,
			"phone":          c.Phone,
			"email":          c.Email,
			"birthday_month": month,
			"birthday_day":   day,
			"photo":          c.Photo,
			"updated_at":     c.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": c.ID.String(), "user_id": c.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update contact: %w", err)
	}
	return execOne(ctx, querierFromCtx(ctx, r.db), "contact", c.ID.String(), query, args)
}

// Delete removes a contact and its sent messages.
func (r *ContactRepo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	q := querierFromCtx(ctx, r.db)

	if _, err := q.ExecContext(ctx,
		"DELETE FROM sent_messages WHERE contact_id IN (SELECT id FROM contacts WHERE id = ? AND user_id = ?)",
		id.String(), userID,
	); err != nil {
		return mapError(err, "contact", id.String())
	}

	query, args, err := psql.Delete("contacts").
		Where(sq.Eq{"id": id.String(), "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete contact: %w", err)
	}
	return execOne(ctx, q, "contact", id.String(), query, args)
}

// CountByUser returns the number of contacts owned by userID.
func (r *ContactRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, querierFromCtx(ctx, r.db), &n, "SELECT COUNT(*) FROM contacts WHERE user_id = ?", userID)
	if err != nil {
		return 0, mapError(err, "contacts of", userID)
	}
	return n, nil
}

// DeleteAllByUser removes every contact of userID with its messages.
func (r *ContactRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	q := querierFromCtx(ctx, r.db)
	stmts := []string{
		"DELETE FROM sent_messages WHERE contact_id IN (SELECT id FROM contacts WHERE user_id = ?)",
		"DELETE FROM contacts WHERE user_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt, userID); err != nil {
			return mapError(err, "contacts of", userID)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sent messages
// ---------------------------------------------------------------------------

// CreateSentMessage records an outbound message under its contact.
func (r *ContactRepo) CreateSentMessage(ctx context.Context, m *domain.SentMessage) error {
	query, args, err := psql.Insert("sent_messages").
		Columns("id", "contact_id", "channel", "body", "provider_message_id", "status", "sent_at").
		Values(m.ID.String(), m.ContactID.String(), string(m.Channel), m.Body, m.ProviderMessageID, m.Status, m.SentAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sent message: %w", err)
	}

	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "sent_message", m.ID.String())
	}
	return nil
}

// ListSentMessages returns messages sent to contactID, newest first.
func (r *ContactRepo) ListSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error) {
	query, args, err := psql.Select("id", "contact_id", "channel", "body", "provider_message_id", "status", "sent_at").
		From("sent_messages").
		Where(sq.Eq{"contact_id": contactID.String()}).
		OrderBy("sent_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sent messages: %w", err)
	}

	var rows []sentMessageRow
	if err := sqlx.SelectContext(ctx, querierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, mapError(err, "sent_messages of contact", contactID.String())
	}

	msgs := make([]domain.SentMessage, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("sent_message %s: parse id: %w", row.ID, err)
		}
		msgs = append(msgs, domain.SentMessage{
			ID:                id,
			ContactID:         contactID,
			Channel:           domain.Channel(row.Channel),
			Body:              row.Body,
			ProviderMessageID: row.ProviderMessageID,
			Status:            row.Status,
			SentAt:            row.SentAt.UTC(),
		})
	}
	return msgs, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *ContactRepo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Contact, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list contacts: %w", err)
	}

	var rows []contactRow
	if err := sqlx.SelectContext(ctx, querierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, mapError(err, "contacts", "")
	}

	contacts := make([]domain.Contact, 0, len(rows))
	for _, row := range rows {
		c, err := toDomainContact(row)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, nil
}

func birthdayColumns(b *domain.Birthday) (month, day *int) {
	if b == nil {
		return nil, nil
	}
	m, d := int(b.Month), b.Day
	return &m, &d
}

func toDomainContact(row contactRow) (*domain.Contact, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("contact %s: parse id: %w", row.ID, err)
	}

	c := &domain.Contact{
		ID:        id,
		UserID:    row.UserID,
		Name:      row.Name,
		Phone:     row.Phone,
		Email:     row.Email,
		Photo:     row.Photo,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.BirthdayMonth != nil && row.BirthdayDay != nil {
		b, err := domain.NewBirthday(time.Month(*row.BirthdayMonth), *row.BirthdayDay)
		if err != nil {
			return nil, fmt.Errorf("contact %s: stored birthday: %w", row.ID, err)
		}
		c.Birthday = &b
	}
	return c, nil
}

func execOne(ctx context.Context, q querier, entity, id, query string, args []any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, entity, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, entity, id)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
