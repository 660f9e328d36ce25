package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// AddContact creates a contact owned by the store's user.
func (s *Store) AddContact(ctx context.Context, input ContactInput) (uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	birthday, err := input.Validate()
	if err != nil {
		return uuid.Nil, err
	}

	c := s.newContact(input, birthday)
	if err := s.contacts.Create(ctx, c); err != nil {
		return uuid.Nil, fmt.Errorf("store.AddContact: %w", err)
	}

	s.log.InfoContext(ctx, "contact added", slog.String("contact_id", c.ID.String()))
	return c.ID, nil
}

// AddContacts creates all contacts in one transaction. Either every input is
// stored or none is.
func (s *Store) AddContacts(ctx context.Context, inputs []ContactInput) ([]uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	contacts := make([]*domain.Contact, 0, len(inputs))
	for i, in := range inputs {
		birthday, err := in.Validate()
		if err != nil {
			return nil, fmt.Errorf("contact %d: %w", i+1, err)
		}
		contacts = append(contacts, s.newContact(in, birthday))
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, c := range contacts {
			if err := s.contacts.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store.AddContacts: %w", err)
	}

	ids := make([]uuid.UUID, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	s.log.InfoContext(ctx, "contacts added", slog.Int("count", len(ids)))
	return ids, nil
}

// GetAllContacts returns the user's contacts sorted by name, ignoring case.
func (s *Store) GetAllContacts(ctx context.Context) ([]domain.Contact, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListByUser(ctx, s.userID)
	if err != nil {
		if s.degraded(ctx, "GetAllContacts", err) {
			return []domain.Contact{}, nil
		}
		return nil, fmt.Errorf("store.GetAllContacts: %w", err)
	}

	sortByName(contacts)
	return contacts, nil
}

// GetContact returns a single contact.
func (s *Store) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	c, err := s.contacts.GetByID(ctx, s.userID, id)
	if err != nil {
		if s.degraded(ctx, "GetContact", err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("store.GetContact: %w", err)
	}
	return c, nil
}

// UpdateContact replaces the editable fields of a contact.
func (s *Store) UpdateContact(ctx context.Context, id uuid.UUID, input ContactInput) (*domain.Contact, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	birthday, err := input.Validate()
	if err != nil {
		return nil, err
	}

	c, err := s.contacts.GetByID(ctx, s.userID, id)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateContact: %w", err)
	}

	input.apply(c, birthday)
	c.UpdatedAt = s.now().UTC()
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("store.UpdateContact: %w", err)
	}

	s.log.InfoContext(ctx, "contact updated", slog.String("contact_id", id.String()))
	return c, nil
}

// DeleteContact removes a contact and its message history. Items that
// tagged the contact keep the id.
func (s *Store) DeleteContact(ctx context.Context, id uuid.UUID) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.contacts.Delete(ctx, s.userID, id); err != nil {
		return fmt.Errorf("store.DeleteContact: %w", err)
	}

	s.log.InfoContext(ctx, "contact deleted", slog.String("contact_id", id.String()))
	return nil
}

// GetUpcomingBirthdays returns contacts whose next birthday is at most
// daysAhead days away, soonest first. Ties are ordered by name.
func (s *Store) GetUpcomingBirthdays(ctx context.Context, daysAhead int) ([]domain.UpcomingBirthday, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if daysAhead < 0 || daysAhead > 366 {
		return nil, domain.NewValidationError("days", "must be between 0 and 366")
	}

	contacts, err := s.GetAllContacts(ctx)
	if err != nil {
		return nil, err
	}

	return UpcomingBirthdays(contacts, s.now(), daysAhead), nil
}

// GetBirthdaysForMonth returns contacts born in month (1-12), ordered by day.
func (s *Store) GetBirthdaysForMonth(ctx context.Context, month int) ([]domain.Contact, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, domain.NewValidationError("month", "must be between 1 and 12")
	}

	contacts, err := s.GetAllContacts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Contact, 0)
	for _, c := range contacts {
		if c.Birthday != nil && int(c.Birthday.Month) == month {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Contact) int { return a.Birthday.Day - b.Birthday.Day })
	return out, nil
}

// UpcomingBirthdays selects from contacts (assumed sorted by name) those
// whose next birthday relative to now is within daysAhead days.
func UpcomingBirthdays(contacts []domain.Contact, now time.Time, daysAhead int) []domain.UpcomingBirthday {
	out := make([]domain.UpcomingBirthday, 0)
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		days := c.Birthday.DaysUntil(now)
		if days > daysAhead {
			continue
		}
		out = append(out, domain.UpcomingBirthday{
			Contact:   c,
			Date:      c.Birthday.NextOccurrence(now),
			DaysUntil: days,
		})
	}
	slices.SortStableFunc(out, func(a, b domain.UpcomingBirthday) int { return a.DaysUntil - b.DaysUntil })
	return out
}

// ---------------------------------------------------------------------------
// Sent messages
// ---------------------------------------------------------------------------

// RecordSentMessage stores an outbound message under a contact.
func (s *Store) RecordSentMessage(ctx context.Context, contactID uuid.UUID, msg domain.SentMessage) (*domain.SentMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !msg.Channel.IsValid() {
		return nil, domain.NewValidationError("channel", "must be sms or whatsapp")
	}

	if _, err := s.contacts.GetByID(ctx, s.userID, contactID); err != nil {
		return nil, fmt.Errorf("store.RecordSentMessage: %w", err)
	}

	msg.ID = uuid.New()
	msg.ContactID = contactID
	if msg.SentAt.IsZero() {
		msg.SentAt = s.now().UTC()
	}
	if err := s.contacts.CreateSentMessage(ctx, &msg); err != nil {
		return nil, fmt.Errorf("store.RecordSentMessage: %w", err)
	}
	return &msg, nil
}

// GetSentMessages returns the messages sent to a contact, newest first.
func (s *Store) GetSentMessages(ctx context.Context, contactID uuid.UUID) ([]domain.SentMessage, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	if _, err := s.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	msgs, err := s.contacts.ListSentMessages(ctx, contactID)
	if err != nil {
		if s.degraded(ctx, "GetSentMessages", err) {
			return []domain.SentMessage{}, nil
		}
		return nil, fmt.Errorf("store.GetSentMessages: %w", err)
	}

	slices.SortStableFunc(msgs, func(a, b domain.SentMessage) int { return b.SentAt.Compare(a.SentAt) })
	return msgs, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Store) newContact(input ContactInput, birthday *domain.Birthday) *domain.Contact {
	now := s.now().UTC()
	c := &domain.Contact{
		ID:        uuid.New(),
		UserID:    s.userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(c, birthday)
	return c
}

// sortByName orders contacts by display name using root-locale collation,
// ignoring case. Equal names keep their input order.
func sortByName(contacts []domain.Contact) {
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(contacts, func(a, b domain.Contact) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
