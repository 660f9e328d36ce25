package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is an address-book record owned by one user.
type Contact struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Phone     string
	Email     *string
	Birthday  *Birthday
	Photo     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Birthday is a year-agnostic month and day.
type Birthday struct {
	Month time.Month
	Day   int
}

// NewBirthday validates month and day. Feb 29 is accepted.
func NewBirthday(month time.Month, day int) (Birthday, error) {
	if month < time.January || month > time.December {
		return Birthday{}, NewValidationError("birthday", "month must be between 1 and 12")
	}
	if day < 1 || day > daysIn(month) {
		return Birthday{}, NewValidationError("birthday", fmt.Sprintf("day must be between 1 and %d", daysIn(month)))
	}
	return Birthday{Month: month, Day: day}, nil
}

// ParseBirthday parses the canonical "MM-DD" form. A full "YYYY-MM-DD" date
// is also accepted and its year dropped.
func ParseBirthday(s string) (Birthday, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) == 3 && len(parts[0]) == 4 {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return Birthday{}, NewValidationError("birthday", "must be MM-DD")
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return Birthday{}, NewValidationError("birthday", "must be MM-DD")
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return Birthday{}, NewValidationError("birthday", "must be MM-DD")
	}

	return NewBirthday(time.Month(month), day)
}

// String returns the canonical MM-DD form.
func (b Birthday) String() string {
	return fmt.Sprintf("%02d-%02d", int(b.Month), b.Day)
}

// NextOccurrence returns the first birthday date on or after the calendar
// day of ref. A Feb 29 birthday in a non-leap year falls on Mar 1.
func (b Birthday) NextOccurrence(ref time.Time) time.Time {
	today := DateOf(ref)
	next := time.Date(today.Year(), b.Month, b.Day, 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, b.Month, b.Day, 0, 0, 0, 0, time.UTC)
	}
	return next
}

// DaysUntil returns the whole number of days from ref to the next occurrence.
func (b Birthday) DaysUntil(ref time.Time) int {
	return daysBetween(DateOf(ref), b.NextOccurrence(ref))
}

// UpcomingBirthday pairs a contact with its next birthday.
type UpcomingBirthday struct {
	Contact   Contact
	Date      time.Time
	DaysUntil int
}

// SentMessage is an outbound message recorded under a contact.
type SentMessage struct {
	ID                uuid.UUID
	ContactID         uuid.UUID
	Channel           Channel
	Body              string
	ProviderMessageID string
	Status            string
	SentAt            time.Time
}

func daysIn(m time.Month) int {
	if m == time.February {
		return 29
	}
	// Day 0 of the next month is the last day of m; 2000 is a leap year.
	return time.Date(2000, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SendResult reports a message accepted by the messaging gateway.
type SendResult struct {
	MessageID string
	Status    string
	To        string
	Channel   Channel
}
