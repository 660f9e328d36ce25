package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the stored record of an application user. The ID is the opaque
// identifier supplied by the identity provider.
type Profile struct {
	ID          string
	Email       string
	DisplayName string
	Phone       *string
	Role        UserRole
	Suspended   bool
	SuspendedAt *time.Time
	SuspendedBy *string
	LastLogin   *time.Time
	LoginCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserSummary is a profile with aggregate counts for the admin listing.
type UserSummary struct {
	Profile
	SessionCount int
	ContactCount int
}

// AuditAction names an audited operation.
type AuditAction string

const (
	AuditActionLogin         AuditAction = "login"
	AuditActionSetRole       AuditAction = "admin_set_role"
	AuditActionSuspendUser   AuditAction = "admin_suspend_user"
	AuditActionUnsuspendUser AuditAction = "admin_unsuspend_user"
	AuditActionDeleteUser    AuditAction = "admin_delete_user"
	AuditActionPasswordReset AuditAction = "admin_password_reset"
	AuditActionImportCSV     AuditAction = "contacts_import"
)

func (a AuditAction) String() string { return string(a) }

// AuditEntry is an append-only record of an administrative or
// security-relevant action.
type AuditEntry struct {
	ID           uuid.UUID
	UserID       string
	Email        string
	Action       AuditAction
	TargetUserID *string
	Details      map[string]any
	CreatedAt    time.Time
}
