// Package reminder sends each user a daily SMS digest of their contacts'
// upcoming birthdays.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/messaging"
	"github.com/heartmarshall/gratitude-backend/internal/store"
)

// markerTTL outlives the day a marker is written for.
const markerTTL = 36 * time.Hour

type profileLister interface {
	List(ctx context.Context) ([]domain.Profile, error)
}

// ContactSource is the slice of the Entry Store the digest reads.
type ContactSource interface {
	GetAllContacts(ctx context.Context) ([]domain.Contact, error)
}

// StoreFunc returns the contact source scoped to userID.
type StoreFunc func(userID string) (ContactSource, error)

type sender interface {
	Send(ctx context.Context, in messaging.SendInput) (*domain.SendResult, error)
}

// Marker records that a digest went out. Mark reports false when the key
// already exists.
type Marker interface {
	Mark(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unmark(ctx context.Context, key string) error
}

type counterVec interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// Summary counts the outcome of one Run.
type Summary struct {
	Checked int
	Sent    int
	Skipped int
	Failed  int
}

// Service builds and sends reminder digests.
type Service struct {
	log       *slog.Logger
	profiles  profileLister
	stores    StoreFunc
	sender    sender
	marker    Marker
	daysAhead int
	results   counterVec
}

// NewService creates a reminder service. results may be nil.
func NewService(
	logger *slog.Logger,
	profiles profileLister,
	stores StoreFunc,
	sender sender,
	marker Marker,
	daysAhead int,
	results counterVec,
) *Service {
	return &Service{
		log:       logger.With("service", "reminder"),
		profiles:  profiles,
		stores:    stores,
		sender:    sender,
		marker:    marker,
		daysAhead: daysAhead,
		results:   results,
	}
}

var errAlreadySent = errors.New("digest already sent")

// Run sends today's digest to every active user with a phone number and
// at least one upcoming birthday. Per-user failures are counted, not
// returned.
func (s *Service) Run(ctx context.Context, today time.Time) (Summary, error) {
	var sum Summary

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("reminder.Run: %w", err)
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("reminder.Run: %w", err)
		}
		if p.Suspended || p.Phone == nil || strings.TrimSpace(*p.Phone) == "" {
			continue
		}
		sum.Checked++

		sent, err := s.remind(ctx, p, today)
		switch {
		case errors.Is(err, errAlreadySent), err == nil && !sent:
			sum.Skipped++
			s.count("skipped")
		case err != nil:
			sum.Failed++
			s.count("failed")
			s.log.ErrorContext(ctx, "reminder failed",
				slog.String("user_id", p.ID),
				slog.String("error", err.Error()),
			)
		default:
			sum.Sent++
			s.count("sent")
		}
	}

	s.log.InfoContext(ctx, "reminders run",
		slog.String("date", today.Format(time.DateOnly)),
		slog.Int("checked", sum.Checked),
		slog.Int("sent", sum.Sent),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
	)
	return sum, nil
}

// remind sends p's digest. It reports false when there is nothing to send.
func (s *Service) remind(ctx context.Context, p domain.Profile, today time.Time) (bool, error) {
	src, err := s.stores(p.ID)
	if err != nil {
		return false, err
	}
	contacts, err := src.GetAllContacts(ctx)
	if err != nil {
		return false, fmt.Errorf("load contacts: %w", err)
	}

	upcoming := store.UpcomingBirthdays(contacts, today, s.daysAhead)
	if len(upcoming) == 0 {
		return false, nil
	}

	key := MarkerKey(p.ID, today)
	ok, err := s.marker.Mark(ctx, key, markerTTL)
	if err != nil {
		return false, fmt.Errorf("mark %s: %w", key, err)
	}
	if !ok {
		return false, errAlreadySent
	}

	if _, err := s.sender.Send(ctx, messaging.SendInput{
		To:      *p.Phone,
		Body:    Digest(upcoming),
		Channel: domain.ChannelSMS,
	}); err != nil {
		if uerr := s.marker.Unmark(ctx, key); uerr != nil {
			s.log.WarnContext(ctx, "unmark reminder", slog.String("key", key), slog.String("error", uerr.Error()))
		}
		return false, fmt.Errorf("send digest: %w", err)
	}
	return true, nil
}

func (s *Service) count(result string) {
	if s.results != nil {
		s.results.WithLabelValues(result).Inc()
	}
}

// MarkerKey identifies the digest for one user and day.
func MarkerKey(userID string, day time.Time) string {
	return "reminder:" + userID + ":" + day.Format(time.DateOnly)
}

// Digest renders upcoming birthdays as one SMS body of at most
// messaging.MaxBodyLength characters. Lines that do not fit are replaced
// by a "+N more" line.
func Digest(upcoming []domain.UpcomingBirthday) string {
	var b strings.Builder
	b.WriteString("Upcoming birthdays:")
	size := utf8.RuneCountInString(b.String())

	for i, u := range upcoming {
		line := digestLine(u)
		n := utf8.RuneCountInString(line)

		reserve := 0
		if rest := len(upcoming) - i - 1; rest > 0 {
			reserve = utf8.RuneCountInString(moreLine(rest))
		}
		if size+n+reserve > messaging.MaxBodyLength {
			b.WriteString(moreLine(len(upcoming) - i))
			break
		}
		b.WriteString(line)
		size += n
	}
	return b.String()
}

func digestLine(u domain.UpcomingBirthday) string {
	var b strings.Builder
	b.WriteString("\n- ")
	b.WriteString(u.Contact.Name)
	switch u.DaysUntil {
	case 0:
		b.WriteString(" today")
	case 1:
		b.WriteString(" tomorrow")
	default:
		fmt.Fprintf(&b, " in %d days", u.DaysUntil)
	}
	fmt.Fprintf(&b, " (%s)", u.Date.Format("Jan 2"))
	return b.String()
}

func moreLine(n int) string {
	return fmt.Sprintf("\n+%d more", n)
}
