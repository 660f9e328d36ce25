package profile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

type profileRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	UpdatePhone(ctx context.Context, id string, phone *string, now time.Time) error
	SetRole(ctx context.Context, id string, role domain.UserRole, now time.Time) error
}

type auditRepo interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service keeps the stored profile of signed-in users in sync with the
// identity provider.
type Service struct {
	log            *slog.Logger
	profiles       profileRepo
	audit          auditRepo
	tx             txManager
	superAdminMail string
	now            func() time.Time
}

// NewService creates a profile service. superAdminEmail, when set, is
// promoted to superadmin on sign-in.
func NewService(
	logger *slog.Logger,
	profiles profileRepo,
	audit auditRepo,
	tx txManager,
	superAdminEmail string,
) *Service {
	return &Service{
		log:            logger.With("service", "profile"),
		profiles:       profiles,
		audit:          audit,
		tx:             tx,
		superAdminMail: strings.ToLower(strings.TrimSpace(superAdminEmail)),
		now:            time.Now,
	}
}

func (s *Service) isBootstrapEmail(email string) bool {
	return s.superAdminMail != "" && strings.EqualFold(strings.TrimSpace(email), s.superAdminMail)
}
