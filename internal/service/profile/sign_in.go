package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

// SignIn records a successful sign-in. The profile is created on first use;
// a suspended profile is rejected with ErrForbidden.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*domain.Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(in.UserID)
	email := strings.TrimSpace(in.Email)
	now := s.now().UTC()
	var firstLogin, promoted bool

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.profiles.GetByID(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			existing = nil
			firstLogin = true
		case err != nil:
			return fmt.Errorf("get profile: %w", err)
		}

		if existing != nil && existing.Suspended {
			return domain.ErrForbidden
		}

		p := &domain.Profile{
			ID:          userID,
			Email:       email,
			DisplayName: strings.TrimSpace(in.DisplayName),
			Role:        domain.UserRoleUser,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if existing != nil {
			p.Role = existing.Role
			p.Phone = existing.Phone
			p.CreatedAt = existing.CreatedAt
			if p.Email == "" {
				p.Email = existing.Email
			}
			if p.DisplayName == "" {
				p.DisplayName = existing.DisplayName
			}
		}

		if err := s.profiles.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}

		if s.isBootstrapEmail(p.Email) && p.Role != domain.UserRoleSuperAdmin {
			if err := s.profiles.SetRole(ctx, userID, domain.UserRoleSuperAdmin, now); err != nil {
				return fmt.Errorf("promote superadmin: %w", err)
			}
			promoted = true
		}

		if err := s.profiles.RecordLogin(ctx, userID, now); err != nil {
			return fmt.Errorf("record login: %w", err)
		}

		return s.audit.Create(ctx, &domain.AuditEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Email:     p.Email,
			Action:    domain.AuditActionLogin,
			Details:   map[string]any{"firstLogin": firstLogin},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("profile.SignIn: %w", err)
	}

	if promoted {
		s.log.InfoContext(ctx, "bootstrap superadmin promoted", slog.String("user_id", userID))
	}
	s.log.InfoContext(ctx, "user signed in",
		slog.String("user_id", userID),
		slog.Bool("first_login", firstLogin),
	)

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.SignIn: %w", err)
	}
	return p, nil
}

// Get returns the caller's profile.
func (s *Service) Get(ctx context.Context) (*domain.Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.Get: %w", err)
	}
	return p, nil
}

// UpdatePhone sets the caller's phone number. A blank number clears it.
func (s *Service) UpdatePhone(ctx context.Context, phone string) (*domain.Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	normalized, err := normalizePhoneInput(phone)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.UpdatePhone(ctx, userID, normalized, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("profile.UpdatePhone: %w", err)
	}

	s.log.InfoContext(ctx, "phone updated",
		slog.String("user_id", userID),
		slog.Bool("cleared", normalized == nil),
	)

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile.UpdatePhone: %w", err)
	}
	return p, nil
}
