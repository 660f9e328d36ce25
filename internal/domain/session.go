package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ItemsPerSession is the fixed number of ordered slots in a session.
	ItemsPerSession = 3
	// MaxMediaPerItem caps attachments on a single item.
	MaxMediaPerItem = 5

	dateLayout = "2006-01-02"
)

// Session is one journal entry for a calendar date and a mode.
type Session struct {
	ID        uuid.UUID
	UserID    string
	Date      time.Time
	Mode      Mode
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []Item
}

// Item is one of the three ordered slots of a session.
type Item struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Order      int
	Text       string
	ContactIDs []uuid.UUID
	Media      []Media
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasContent reports whether the item carries text or at least one attachment.
func (i Item) HasContent() bool {
	return strings.TrimSpace(i.Text) != "" || len(i.Media) > 0
}

// Media is an image or video attached to an item. Content is kept inline
// as a data URL.
type Media struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	Kind      MediaKind
	DataURL   string
	FileName  string
	FileSize  int64
	MIMEType  string
	CreatedAt time.Time
}

// HasAnyContent reports whether at least one item has text or media.
func HasAnyContent(items []Item) bool {
	for _, it := range items {
		if it.HasContent() {
			return true
		}
	}
	return false
}

// DateOf returns the calendar day of t as a UTC midnight timestamp.
// The day is taken in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewValidationError("date", "must be YYYY-MM-DD")
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
