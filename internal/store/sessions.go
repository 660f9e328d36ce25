package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// CreateSession stores a new session with its three items and their media
// in a single transaction. A second session for the same date and mode
// fails with domain.ErrDuplicateSession.
func (s *Store) CreateSession(ctx context.Context, input CreateSessionInput) (uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	if err := input.Validate(); err != nil {
		return uuid.Nil, err
	}

	var sess *domain.Session
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		sess, err = s.insertSession(ctx, input)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store.CreateSession: %w", err)
	}

	s.log.InfoContext(ctx, "session created",
		slog.String("session_id", sess.ID.String()),
		slog.String("date", domain.FormatDate(sess.Date)),
		slog.String("mode", sess.Mode.String()),
	)
	return sess.ID, nil
}

// SaveEntry replaces whatever session exists for the input's date and mode
// with a new one. Removal and creation happen in one transaction.
func (s *Store) SaveEntry(ctx context.Context, input CreateSessionInput) (uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	if err := input.Validate(); err != nil {
		return uuid.Nil, err
	}

	var (
		sess     *domain.Session
		replaced int
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.sessions.ListByDate(ctx, s.userID, domain.DateOf(input.Date))
		if err != nil {
			return fmt.Errorf("list by date: %w", err)
		}
		for _, e := range existing {
			if e.Mode != input.Mode {
				continue
			}
			if err := s.deleteCascade(ctx, e.ID); err != nil {
				return err
			}
			replaced++
		}

		sess, err = s.insertSession(ctx, input)
		return err
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store.SaveEntry: %w", err)
	}

	s.log.InfoContext(ctx, "entry saved",
		slog.String("session_id", sess.ID.String()),
		slog.String("date", domain.FormatDate(sess.Date)),
		slog.String("mode", sess.Mode.String()),
		slog.Int("replaced", replaced),
	)
	return sess.ID, nil
}

// GetAllSessions returns the user's sessions newest-created first. A nil
// mode returns both streams.
func (s *Store) GetAllSessions(ctx context.Context, mode *domain.Mode) ([]domain.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if mode != nil && !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be reflective or improvement")
	}

	sessions, err := s.sessions.ListByUser(ctx, s.userID, mode)
	if err != nil {
		if s.degraded(ctx, "GetAllSessions", err) {
			return []domain.Session{}, nil
		}
		return nil, fmt.Errorf("store.GetAllSessions: %w", err)
	}

	sortNewestFirst(sessions)
	return sessions, nil
}

// GetSessionByDate returns the session for the given calendar day and mode.
func (s *Store) GetSessionByDate(ctx context.Context, date time.Time, mode domain.Mode) (*domain.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, domain.NewValidationError("mode", "must be reflective or improvement")
	}

	candidates, err := s.sessions.ListByDate(ctx, s.userID, domain.DateOf(date))
	if err != nil {
		if s.degraded(ctx, "GetSessionByDate", err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("store.GetSessionByDate: %w", err)
	}

	sortNewestFirst(candidates)
	for i := range candidates {
		if candidates[i].Mode == mode {
			return &candidates[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetSessionWithDetails returns the session with its items in slot order,
// each carrying its media and tagged contact ids.
func (s *Store) GetSessionWithDetails(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	sess, err := s.sessions.GetByID(ctx, s.userID, id)
	if err != nil {
		if s.degraded(ctx, "GetSessionWithDetails", err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("store.GetSessionWithDetails: %w", err)
	}

	items, err := s.sessions.ListItems(ctx, sess.ID)
	if err != nil {
		if s.degraded(ctx, "GetSessionWithDetails", err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("store.GetSessionWithDetails: items: %w", err)
	}

	slices.SortStableFunc(items, func(a, b domain.Item) int { return a.Order - b.Order })
	for i := range items {
		slices.SortStableFunc(items[i].Media, func(a, b domain.Media) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}
	sess.Items = items
	return sess, nil
}

// UpdateSession replaces the three slots of a session and bumps its
// version. The previous items and media are removed child-first.
func (s *Store) UpdateSession(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (uuid.UUID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	if err := input.Validate(); err != nil {
		return uuid.Nil, err
	}

	now := s.now().UTC()
	var version int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.sessions.GetByID(ctx, s.userID, id)
		if err != nil {
			return err
		}
		if input.ExpectedVersion != nil && *input.ExpectedVersion != current.Version {
			return fmt.Errorf("session %s at version %d, expected %d: %w",
				id, current.Version, *input.ExpectedVersion, domain.ErrConflict)
		}

		if err := s.sessions.Touch(ctx, s.userID, id, input.ExpectedVersion, now); err != nil {
			return fmt.Errorf("touch: %w", err)
		}
		if err := s.sessions.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := s.sessions.CreateItems(ctx, buildItems(id, input.Items, now)); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		version = current.Version + 1
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store.UpdateSession: %w", err)
	}

	s.log.InfoContext(ctx, "session updated",
		slog.String("session_id", id.String()),
		slog.Int("version", version),
	)
	return id, nil
}

// DeleteSession removes a session with its items and media.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.ready(); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.sessions.GetByID(ctx, s.userID, id); err != nil {
			return err
		}
		return s.deleteCascade(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("store.DeleteSession: %w", err)
	}

	s.log.InfoContext(ctx, "session deleted", slog.String("session_id", id.String()))
	return nil
}

// Streak returns the number of consecutive days, ending today or yesterday,
// that have a session in the given mode.
func (s *Store) Streak(ctx context.Context, mode domain.Mode, today time.Time) (int, error) {
	sessions, err := s.GetAllSessions(ctx, &mode)
	if err != nil {
		return 0, err
	}
	return domain.CurrentStreak(domain.SessionDates(sessions), today), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *Store) insertSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		ID:        uuid.New(),
		UserID:    s.userID,
		Date:      domain.DateOf(input.Date),
		Mode:      input.Mode,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.sessions.CreateItems(ctx, buildItems(sess.ID, input.Items, now)); err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}
	return sess, nil
}

// deleteCascade removes media, then items, then the session row.
func (s *Store) deleteCascade(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.DeleteItems(ctx, id); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if err := s.sessions.Delete(ctx, s.userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sortNewestFirst(sessions []domain.Session) {
	slices.SortStableFunc(sessions, func(a, b domain.Session) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
