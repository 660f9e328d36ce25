// Package admin implements user administration: listing, roles,
// suspension, deletion, password resets and the audit log.
//
// The caller's role is always read from the stored profile. Role hints
// carried by the access token are ignored.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

type profileRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error
	SetSuspended(ctx context.Context, id string, suspended bool, by string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// ownedRepo is implemented by both the session and the contact repository.
type ownedRepo interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteAllByUser(ctx context.Context, userID string) error
}

type auditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)
}

type resetIssuer interface {
	GeneratePasswordResetToken(userID, email string) (string, error)
	ResetLink(token string) string
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements admin operations.
type Service struct {
	log      *slog.Logger
	profiles profileRepo
	sessions ownedRepo
	contacts ownedRepo
	audit    auditRepo
	resets   resetIssuer
	tx       txManager
	now      func() time.Time
}

// NewService creates a new admin service.
func NewService(
	logger *slog.Logger,
	profiles profileRepo,
	sessions ownedRepo,
	contacts ownedRepo,
	audit auditRepo,
	resets resetIssuer,
	tx txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "admin"),
		profiles: profiles,
		sessions: sessions,
		contacts: contacts,
		audit:    audit,
		resets:   resets,
		tx:       tx,
		now:      time.Now,
	}
}

// caller loads the calling profile and checks it holds at least minRole.
func (s *Service) caller(ctx context.Context, minRole domain.UserRole) (*domain.Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("load caller: %w", err)
	}

	if p.Suspended || rank(p.Role) < rank(minRole) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// target loads the profile an operation acts on and rejects self-targeting.
func (s *Service) target(ctx context.Context, caller *domain.Profile, targetID string) (*domain.Profile, error) {
	if targetID == caller.ID {
		return nil, domain.ErrForbidden
	}
	p, err := s.profiles.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	return p, nil
}

func (s *Service) record(ctx context.Context, caller *domain.Profile, action domain.AuditAction, targetID string, details map[string]any) error {
	return s.audit.Create(ctx, &domain.AuditEntry{
		ID:           uuid.New(),
		UserID:       caller.ID,
		Email:        caller.Email,
		Action:       action,
		TargetUserID: &targetID,
		Details:      details,
		CreatedAt:    s.now().UTC(),
	})
}

func rank(r domain.UserRole) int {
	switch r {
	case domain.UserRoleSuperAdmin:
		return 2
	case domain.UserRoleAdmin:
		return 1
	default:
		return 0
	}
}
