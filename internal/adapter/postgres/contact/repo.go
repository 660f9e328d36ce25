// Package contact implements the contact repository using PostgreSQL.
package contact

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

// Repo provides contact and sent-message persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new contact repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type contactRow struct {
	ID            uuid.UUID `db:"id"`
	UserID        string    `db:"user_id"`
	Name          string    `db:"name"`
	Phone         string    `db:"phone"`
	Email         *string   `db:"email"`
	BirthdayMonth *int16    `db:"birthday_month"`
	BirthdayDay   *int16    `db:"birthday_day"`
	Photo         *string   `db:"photo"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type sentMessageRow struct {
	ID                uuid.UUID `db:"id"`
	ContactID         uuid.UUID `db:"contact_id"`
	Channel           string    `db:"channel"`
	Body              string    `db:"body"`
	ProviderMessageID string    `db:"provider_message_id"`
	Status            string    `db:"status"`
	SentAt            time.Time `db:"sent_at"`
}

var contactColumns = []string{
	"id", "user_id", "name", "phone", "email", "birthday_month", "birthday_day", "photo", "created_at", "updated_at",
}

var sentMessageColumns = []string{"id", "contact_id", "channel", "body", "provider_message_id", "status", "sent_at"}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

// Create inserts a contact.
func (r *Repo) Create(ctx context.Context, c *domain.Contact) error {
	month, day := birthdayColumns(c.Birthday)
	b := postgres.Builder.Insert("contacts").
		Columns(contactColumns...).
		Values(c.ID, c.UserID, c.Name, c.Phone, c.Email, month, day, c.Photo, c.CreatedAt, c.UpdatedAt)
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "contact", c.ID.String())
	return err
}

// ListByUser returns all contacts of userID in name order.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	return r.list(ctx, postgres.Builder.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name", "id"))
}

// GetByID returns a contact owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Contact, error) {
	query, args, err := postgres.Builder.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get contact: %w", err)
	}

	var row contactRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "contact", id.String())
	}
	return toDomainContact(row)
}

// GetByIDs returns the contacts of userID among ids. Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, userID string, ids []uuid.UUID) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return []domain.Contact{}, nil
	}
	return r.list(ctx, postgres.Builder.Select(contactColumns...).From("contacts").
		Where(sq.Eq{"user_id": userID, "id": ids}))
}

// Update replaces the editable fields of a contact.
func (r *Repo) Update(ctx context.Context, c *domain.Contact) error {
	month, day := birthdayColumns(c.Birthday)
	b := postgres.Builder.Update("contacts").
		SetMap(map[string]any{
			"name":           c.Name,
			"phone":          c.Phone,
			"email":          c.Email,
			"birthday_month": month,
			"birthday_day":   day,
			"photo":          c.Photo,
			"updated_at":     c.UpdatedAt,
		}).
		Where(sq.Eq{"id": c.ID, "user_id": c.UserID})
	return postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "contact", c.ID.String())
}

// Delete removes a contact. Sent messages cascade; item tags are kept.
func (r *Repo) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return postgres.ExecOne(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("contacts").Where(sq.Eq{"id": id, "user_id": userID}),
		"contact", id.String())
}

// CountByUser returns the number of contacts owned by userID.
func (r *Repo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, "SELECT COUNT(*) FROM contacts WHERE user_id = $1", userID).
		Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "contacts of", userID)
	}
	return n, nil
}

// DeleteAllByUser removes every contact of userID with its messages.
func (r *Repo) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder.Delete("contacts").Where(sq.Eq{"user_id": userID}),
		"contacts of", userID)
	return err
}

// ---------------------------------------------------------------------------
// Sent messages
// ---------------------------------------------------------------------------

// CreateSentMessage records an outbound message under its contact.
func (r *Repo) CreateSentMessage(ctx context.Context, m *domain.SentMessage) error {
	b := postgres.Builder.Insert("sent_messages").
		Columns(sentMessageColumns...).
		Values(m.ID, m.ContactID, string(m.Channel), m.Body, m.ProviderMessageID, m.Status, m.SentAt)
	_, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), b, "sent_message", m.ID.String())
	return err
}

// ListSentMessages returns messages sent to contactID, newest first.
func (r *Repo) ListSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error) {
	query, args, err := postgres.Builder.Select(sentMessageColumns...).
		From("sent_messages").
		Where(sq.Eq{"contact_id": contactID}).
		OrderBy("sent_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sent messages: %w", err)
	}

	var rows []sentMessageRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "sent_messages of contact", contactID.String())
	}

	msgs := make([]domain.SentMessage, len(rows))
	for i, row := range rows {
		msgs[i] = domain.SentMessage{
			ID:                row.ID,
			ContactID:         row.ContactID,
			Channel:           domain.Channel(row.Channel),
			Body:              row.Body,
			ProviderMessageID: row.ProviderMessageID,
			Status:            row.Status,
			SentAt:            row.SentAt.UTC(),
		}
	}
	return msgs, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Contact, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list contacts: %w", err)
	}

	var rows []contactRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "contacts", "")
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

func birthdayColumns(b *domain.Birthday) (month, day *int16) {
	if b == nil {
		return nil, nil
	}
	m, d := int16(b.Month), int16(b.Day)
	return &m, &d
}

func toDomainContact(row contactRow) (*domain.Contact, error) {
	c := &domain.Contact{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Phone:     row.Phone,
		Email:     row.Email,
		Photo:     row.Photo,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.BirthdayMonth != nil && row.BirthdayDay != nil {
		b, err := domain.NewBirthday(time.Month(*row.BirthdayMonth), int(*row.BirthdayDay))
		if err != nil {
			return nil, fmt.Errorf("contact %s: stored birthday: %w", row.ID, err)
		}
		c.Birthday = &b
	}
	return c, nil
}
