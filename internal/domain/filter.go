package domain

const (
	// DefaultAuditLimit is used when an audit query does not set a limit.
	DefaultAuditLimit = 100
	// MaxAuditLimit caps a single audit query.
	MaxAuditLimit = 1000
)

// AuditFilter selects audit entries, newest first.
type AuditFilter struct {
	TargetUserID *string
	Limit        int
}

// EffectiveLimit returns Limit clamped to (0, MaxAuditLimit], defaulting to
// DefaultAuditLimit.
func (f AuditFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultAuditLimit
	case f.Limit > MaxAuditLimit:
		return MaxAuditLimit
	}
	return f.Limit
}
