package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// MediaInput is an attachment to be stored with an item.
type MediaInput struct {
	Kind     domain.MediaKind
	DataURL  string
	FileName string
	FileSize int64
	MIMEType string
}

// ItemInput is the content of one session slot.
type ItemInput struct {
	Text       string
	ContactIDs []uuid.UUID
	Media      []MediaInput
}

func (i ItemInput) hasContent() bool {
	return strings.TrimSpace(i.Text) != "" || len(i.Media) > 0
}

// CreateSessionInput describes a new journal session.
type CreateSessionInput struct {
	Date  time.Time
	Mode  domain.Mode
	Items [domain.ItemsPerSession]ItemInput
}

// Validate checks the input and returns a *domain.ValidationError.
func (i CreateSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.Date.IsZero() {
		errs = append(errs, domain.FieldError{Field: "date", Message: "required"})
	}
	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be reflective or improvement"})
	}
	errs = append(errs, validateItems(i.Items)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateSessionInput replaces the three slots of an existing session.
// When ExpectedVersion is set the update fails with domain.ErrConflict if
// the stored version differs.
type UpdateSessionInput struct {
	Items           [domain.ItemsPerSession]ItemInput
	ExpectedVersion *int
}

// Validate checks the input and returns a *domain.ValidationError.
func (i UpdateSessionInput) Validate() error {
	errs := validateItems(i.Items)
	if i.ExpectedVersion != nil && *i.ExpectedVersion < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_version", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateItems(items [domain.ItemsPerSession]ItemInput) []domain.FieldError {
	var errs []domain.FieldError

	content := false
	for idx, it := range items {
		if it.hasContent() {
			content = true
		}
		if len(it.Media) > domain.MaxMediaPerItem {
			errs = append(errs, domain.FieldError{
				Field:   fmt.Sprintf("items[%d].media", idx),
				Message: fmt.Sprintf("at most %d attachments", domain.MaxMediaPerItem),
			})
		}
		for midx, m := range it.Media {
			field := fmt.Sprintf("items[%d].media[%d]", idx, midx)
			if !m.Kind.IsValid() {
				errs = append(errs, domain.FieldError{Field: field + ".kind", Message: "must be image or video"})
			}
			if m.DataURL == "" {
				errs = append(errs, domain.FieldError{Field: field + ".data_url", Message: "required"})
			}
			if m.FileSize < 0 {
				errs = append(errs, domain.FieldError{Field: field + ".file_size", Message: "must not be negative"})
			}
		}
	}
	if !content {
		errs = append(errs, domain.FieldError{Field: "items", Message: "at least one item must have text or media"})
	}
	return errs
}

// buildItems turns slot inputs into items for sessionID. Order is the
// 1-based slot index.
func buildItems(sessionID uuid.UUID, inputs [domain.ItemsPerSession]ItemInput, now time.Time) []domain.Item {
	items := make([]domain.Item, 0, len(inputs))
	for idx, in := range inputs {
		item := domain.Item{
			ID:         uuid.New(),
			SessionID:  sessionID,
			Order:      idx + 1,
			Text:       strings.TrimSpace(in.Text),
			ContactIDs: dedupIDs(in.ContactIDs),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for midx, m := range in.Media {
			item.Media = append(item.Media, domain.Media{
				ID:       uuid.New(),
				ItemID:   item.ID,
				Kind:     m.Kind,
				DataURL:  m.DataURL,
				FileName: m.FileName,
				FileSize: m.FileSize,
				MIMEType: m.MIMEType,
				// Keep attachment order stable when read back by creation time.
				CreatedAt: now.Add(time.Duration(midx) * time.Microsecond),
			})
		}
		items = append(items, item)
	}
	return items
}

func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ContactInput describes a contact to create or replace. Birthday is
// "MM-DD" (a full date is accepted and its year dropped); empty clears it.
type ContactInput struct {
	Name     string
	Phone    string
	Email    *string
	Birthday *string
	Photo    *string
}

// Validate checks the input and returns the parsed birthday, if any.
func (i ContactInput) Validate() (*domain.Birthday, error) {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 200 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be at most 200 characters"})
	}
	if strings.TrimSpace(i.Phone) == "" {
		errs = append(errs, domain.FieldError{Field: "phone", Message: "required"})
	} else if len(i.Phone) > 50 {
		errs = append(errs, domain.FieldError{Field: "phone", Message: "must be at most 50 characters"})
	}
	if i.Email != nil && *i.Email != "" && !strings.Contains(*i.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}

	var birthday *domain.Birthday
	if i.Birthday != nil && strings.TrimSpace(*i.Birthday) != "" {
		b, err := domain.ParseBirthday(*i.Birthday)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "birthday", Message: "must be a valid MM-DD date"})
		} else {
			birthday = &b
		}
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return birthday, nil
}

func (i ContactInput) apply(c *domain.Contact, birthday *domain.Birthday) {
	c.Name = strings.TrimSpace(i.Name)
	c.Phone = strings.TrimSpace(i.Phone)
	c.Email = emptyToNil(i.Email)
	c.Photo = emptyToNil(i.Photo)
	c.Birthday = birthday
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
