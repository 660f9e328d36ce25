// Package backup exports a user's journal and contacts to object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gratitude-backend/internal/contactcsv"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

const detailConcurrency = 4

// Source is the slice of the Entry Store a backup reads.
type Source interface {
	GetAllSessions(ctx context.Context, mode *domain.Mode) ([]domain.Session, error)
	GetSessionWithDetails(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	GetAllContacts(ctx context.Context) ([]domain.Contact, error)
}

// StoreFunc returns the source scoped to userID.
type StoreFunc func(userID string) (Source, error)

type uploader interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

type counterVec interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// Result names the uploaded objects.
type Result struct {
	SessionsKey string
	ContactsKey string
	Sessions    int
	Contacts    int
}

// Service uploads backups.
type Service struct {
	log     *slog.Logger
	stores  StoreFunc
	blobs   uploader
	results counterVec
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewService creates a backup service. results may be nil.
func NewService(logger *slog.Logger, stores StoreFunc, blobs uploader, results counterVec) *Service {
	return &Service{
		log:     logger.With("service", "backup"),
		stores:  stores,
		blobs:   blobs,
		results: results,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// Backup uploads userID's sessions (with items and media) as JSON and
// contacts as CSV.
func (s *Service) Backup(ctx context.Context, userID string) (*Result, error) {
	res, err := s.backup(ctx, userID)
	if err != nil {
		s.count("failed")
		return nil, fmt.Errorf("backup.Backup: %w", err)
	}
	s.count("ok")

	s.log.InfoContext(ctx, "backup uploaded",
		slog.String("user_id", userID),
		slog.String("sessions_key", res.SessionsKey),
		slog.Int("sessions", res.Sessions),
		slog.Int("contacts", res.Contacts),
	)
	return res, nil
}

func (s *Service) backup(ctx context.Context, userID string) (*Result, error) {
	src, err := s.stores(userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.loadSessions(ctx, src)
	if err != nil {
		return nil, err
	}
	contacts, err := src.GetAllContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	now := s.now().UTC()
	doc := newDocument(userID, now, sessions)
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sessions: %w", err)
	}

	var csvBuf bytes.Buffer
	if err := contactcsv.Write(&csvBuf, contacts, now.Year()); err != nil {
		return nil, err
	}

	prefix := KeyPrefix(userID, now) + s.newID().String()
	res := &Result{
		SessionsKey: prefix + ".json",
		ContactsKey: prefix + ".csv",
		Sessions:    len(sessions),
		Contacts:    len(contacts),
	}

	if err := s.blobs.Put(ctx, res.SessionsKey, "application/json", body); err != nil {
		return nil, err
	}
	if err := s.blobs.Put(ctx, res.ContactsKey, "text/csv", csvBuf.Bytes()); err != nil {
		return nil, err
	}
	return res, nil
}

// loadSessions reads every session with details, keeping newest-first order.
func (s *Service) loadSessions(ctx context.Context, src Source) ([]domain.Session, error) {
	list, err := src.GetAllSessions(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domain.Session, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i := range list {
		g.Go(func() error {
			d, err := src.GetSessionWithDetails(gctx, list[i].ID)
			if err != nil {
				return fmt.Errorf("session %s: %w", list[i].ID, err)
			}
			out[i] = *d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) count(result string) {
	if s.results != nil {
		s.results.WithLabelValues(result).Inc()
	}
}

// KeyPrefix is the object key directory for a backup taken at t.
func KeyPrefix(userID string, t time.Time) string {
	return fmt.Sprintf("users/%s/%04d/%02d/%02d/", userID, t.Year(), int(t.Month()), t.Day())
}
