package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gratitude-backend/internal/auth"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

const countConcurrency = 8

// ListUsers returns every profile with its session and contact counts,
// sorted by email.
func (s *Service) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	if _, err := s.caller(ctx, domain.UserRoleAdmin); err != nil {
		return nil, fmt.Errorf("admin.ListUsers: %w", err)
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.ListUsers: %w", err)
	}

	out := make([]domain.UserSummary, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)

	for i := range profiles {
		out[i].Profile = profiles[i]
		g.Go(func() error {
			n, err := s.sessions.CountByUser(gctx, profiles[i].ID)
			if err != nil {
				return fmt.Errorf("count sessions %s: %w", profiles[i].ID, err)
			}
			out[i].SessionCount = n

			n, err = s.contacts.CountByUser(gctx, profiles[i].ID)
			if err != nil {
				return fmt.Errorf("count contacts %s: %w", profiles[i].ID, err)
			}
			out[i].ContactCount = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin.ListUsers: %w", err)
	}

	sort.SliceStable(out, func(a, b int) bool {
		return strings.ToLower(out[a].Email) < strings.ToLower(out[b].Email)
	})
	return out, nil
}

// SetRole changes another user's role. Superadmin only.
func (s *Service) SetRole(ctx context.Context, targetID string, role domain.UserRole) (*domain.Profile, error) {
	if !role.IsValid() {
		return nil, domain.NewValidationError("role", "must be one of user, admin, superadmin")
	}

	caller, err := s.caller(ctx, domain.UserRoleSuperAdmin)
	if err != nil {
		return nil, fmt.Errorf("admin.SetRole: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.target(ctx, caller, targetID)
		if err != nil {
			return err
		}
		if err := s.profiles.SetRole(ctx, target.ID, role, s.now().UTC()); err != nil {
			return err
		}
		return s.record(ctx, caller, domain.AuditActionSetRole, target.ID, map[string]any{
			"newRole": role.String(),
			"oldRole": target.Role.String(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("admin.SetRole: %w", err)
	}

	s.log.InfoContext(ctx, "user role updated",
		slog.String("target_user_id", targetID),
		slog.String("new_role", role.String()),
		slog.String("by", caller.ID),
	)

	return s.reload(ctx, "admin.SetRole", targetID)
}

// SetSuspended suspends or reinstates another user. Only a superadmin may
// suspend a superadmin.
func (s *Service) SetSuspended(ctx context.Context, targetID string, suspend bool) (*domain.Profile, error) {
	caller, err := s.caller(ctx, domain.UserRoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("admin.SetSuspended: %w", err)
	}

	action := domain.AuditActionUnsuspendUser
	if suspend {
		action = domain.AuditActionSuspendUser
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.target(ctx, caller, targetID)
		if err != nil {
			return err
		}
		if target.Role == domain.UserRoleSuperAdmin && caller.Role != domain.UserRoleSuperAdmin {
			return domain.ErrForbidden
		}
		if err := s.profiles.SetSuspended(ctx, target.ID, suspend, caller.ID, s.now().UTC()); err != nil {
			return err
		}
		return s.record(ctx, caller, action, target.ID, map[string]any{"targetEmail": target.Email})
	})
	if err != nil {
		return nil, fmt.Errorf("admin.SetSuspended: %w", err)
	}

	s.log.InfoContext(ctx, "user suspension changed",
		slog.String("target_user_id", targetID),
		slog.Bool("suspended", suspend),
		slog.String("by", caller.ID),
	)

	return s.reload(ctx, "admin.SetSuspended", targetID)
}

// DeleteUser removes another user with all of their sessions, contacts and
// the profile, in one transaction. Superadmin only.
func (s *Service) DeleteUser(ctx context.Context, targetID string) error {
	caller, err := s.caller(ctx, domain.UserRoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("admin.DeleteUser: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		target, err := s.target(ctx, caller, targetID)
		if err != nil {
			return err
		}
		if err := s.sessions.DeleteAllByUser(ctx, target.ID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := s.contacts.DeleteAllByUser(ctx, target.ID); err != nil {
			return fmt.Errorf("delete contacts: %w", err)
		}
		if err := s.profiles.Delete(ctx, target.ID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return s.record(ctx, caller, domain.AuditActionDeleteUser, target.ID, map[string]any{"targetEmail": target.Email})
	})
	if err != nil {
		return fmt.Errorf("admin.DeleteUser: %w", err)
	}

	s.log.WarnContext(ctx, "user deleted",
		slog.String("target_user_id", targetID),
		slog.String("by", caller.ID),
	)
	return nil
}

// IssuePasswordReset returns a password reset link for another user.
func (s *Service) IssuePasswordReset(ctx context.Context, targetID string) (string, error) {
	caller, err := s.caller(ctx, domain.UserRoleAdmin)
	if err != nil {
		return "", fmt.Errorf("admin.IssuePasswordReset: %w", err)
	}

	target, err := s.target(ctx, caller, targetID)
	if err != nil {
		return "", fmt.Errorf("admin.IssuePasswordReset: %w", err)
	}
	if strings.TrimSpace(target.Email) == "" {
		return "", domain.NewValidationError("email", "user has no email address")
	}
	if target.Role == domain.UserRoleSuperAdmin && caller.Role != domain.UserRoleSuperAdmin {
		return "", fmt.Errorf("admin.IssuePasswordReset: %w", domain.ErrForbidden)
	}

	token, err := s.resets.GeneratePasswordResetToken(target.ID, target.Email)
	if err != nil {
		return "", fmt.Errorf("admin.IssuePasswordReset: %w", err)
	}

	if err := s.record(ctx, caller, domain.AuditActionPasswordReset, target.ID, map[string]any{
		"targetEmail": target.Email,
		"tokenHash":   auth.HashToken(token),
	}); err != nil {
		return "", fmt.Errorf("admin.IssuePasswordReset: %w", err)
	}

	s.log.InfoContext(ctx, "password reset issued",
		slog.String("target_user_id", target.ID),
		slog.String("by", caller.ID),
	)
	return s.resets.ResetLink(token), nil
}

// AuditLog returns audit entries newest first.
func (s *Service) AuditLog(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if _, err := s.caller(ctx, domain.UserRoleAdmin); err != nil {
		return nil, fmt.Errorf("admin.AuditLog: %w", err)
	}

	filter.Limit = filter.EffectiveLimit()
	entries, err := s.audit.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("admin.AuditLog: %w", err)
	}
	return entries, nil
}

func (s *Service) reload(ctx context.Context, op, id string) (*domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
