package domain

// Mode partitions journal sessions into two independent streams.
type Mode string

const (
	ModeReflective  Mode = "reflective"
	ModeImprovement Mode = "improvement"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	switch m {
	case ModeReflective, ModeImprovement:
		return true
	}
	return false
}

// MediaKind is the type of an item attachment.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) String() string { return string(k) }

func (k MediaKind) IsValid() bool {
	switch k {
	case MediaKindImage, MediaKindVideo:
		return true
	}
	return false
}

// UserRole is the privilege level stored on a profile.
type UserRole string

const (
	UserRoleUser       UserRole = "user"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants access to the admin surface.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

// Channel is the outbound messaging channel.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// DateRange is a symbolic window used to filter sessions.
type DateRange string

const (
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
	DateRangeYear  DateRange = "year"
)

func (r DateRange) String() string { return string(r) }

func (r DateRange) IsValid() bool {
	switch r {
	case DateRangeWeek, DateRangeMonth, DateRangeYear:
		return true
	}
	return false
}
