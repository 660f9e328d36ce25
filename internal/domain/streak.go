package domain

import (
	"slices"
	"time"
)

// CurrentStreak counts consecutive calendar days with a session, ending at
// the most recent session date. The streak is only current when that date
// is today or yesterday; otherwise it is 0. Dates after today are ignored
// and several sessions on the same day count once.
func CurrentStreak(dates []time.Time, today time.Time) int {
	today = DateOf(today)

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		d = DateOf(d)
		if d.After(today) {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}

	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })
	days = slices.CompactFunc(days, func(a, b time.Time) bool { return a.Equal(b) })

	if daysBetween(days[0], today) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// SessionDates extracts the calendar dates of the given sessions.
func SessionDates(sessions []Session) []time.Time {
	out := make([]time.Time, len(sessions))
	for i, s := range sessions {
		out[i] = s.Date
	}
	return out
}

// daysBetween returns the whole number of days from a to b. Both must be
// UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
