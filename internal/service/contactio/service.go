// Package contactio imports and exports a user's contacts as CSV.
package contactio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/contactcsv"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/store"
)

// ContactStore is the slice of the Entry Store used for import and export.
type ContactStore interface {
	AddContacts(ctx context.Context, inputs []store.ContactInput) ([]uuid.UUID, error)
	GetAllContacts(ctx context.Context) ([]domain.Contact, error)
}

// StoreFunc returns the contact store scoped to userID.
type StoreFunc func(userID string) (ContactStore, error)

type auditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
}

// ImportResult summarises one import.
type ImportResult struct {
	Imported int
	Skipped  int
	Rows     []contactcsv.RowError
}

// Service moves contacts between CSV files and the Entry Store.
type Service struct {
	log    *slog.Logger
	stores StoreFunc
	audit  auditRepo
	now    func() time.Time
}

// NewService creates a contact import/export service. audit may be nil.
func NewService(logger *slog.Logger, stores StoreFunc, audit auditRepo) *Service {
	return &Service{
		log:    logger.With("service", "contactio"),
		stores: stores,
		audit:  audit,
		now:    time.Now,
	}
}

// Import adds every valid row of r to userID's contacts in one batch.
// Rows that fail validation are skipped and reported.
func (s *Service) Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	st, err := s.stores(userID)
	if err != nil {
		return nil, fmt.Errorf("contactio.Import: %w", err)
	}

	records, rowErrs, err := contactcsv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("contactio.Import: %w", err)
	}

	res := &ImportResult{Rows: rowErrs}
	for _, re := range rowErrs {
		if re.Skipped {
			res.Skipped++
		}
	}

	inputs := make([]store.ContactInput, 0, len(records))
	for _, rec := range records {
		in := store.ContactInput{Name: rec.Name, Phone: rec.Phone}
		if rec.Birthday != nil {
			b := rec.Birthday.String()
			in.Birthday = &b
		}
		if _, err := in.Validate(); err != nil {
			res.Skipped++
			res.Rows = append(res.Rows, contactcsv.RowError{Row: rec.Row, Message: err.Error(), Skipped: true})
			continue
		}
		inputs = append(inputs, in)
	}

	if len(inputs) > 0 {
		ids, err := st.AddContacts(ctx, inputs)
		if err != nil {
			return nil, fmt.Errorf("contactio.Import: %w", err)
		}
		res.Imported = len(ids)
	}

	s.log.InfoContext(ctx, "contacts imported",
		slog.String("user_id", userID),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped),
	)

	if s.audit != nil {
		err := s.audit.Create(ctx, &domain.AuditEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Action:    domain.AuditActionImportCSV,
			Details:   map[string]any{"imported": res.Imported, "skipped": res.Skipped},
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			s.log.WarnContext(ctx, "audit contacts import", slog.String("error", err.Error()))
		}
	}

	return res, nil
}

// Export writes all of userID's contacts to w. Birthdays carry the current
// year.
func (s *Service) Export(ctx context.Context, userID string, w io.Writer) (int, error) {
	st, err := s.stores(userID)
	if err != nil {
		return 0, fmt.Errorf("contactio.Export: %w", err)
	}

	contacts, err := st.GetAllContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("contactio.Export: %w", err)
	}

	if err := contactcsv.Write(w, contacts, s.now().Year()); err != nil {
		return 0, fmt.Errorf("contactio.Export: %w", err)
	}
	return len(contacts), nil
}
