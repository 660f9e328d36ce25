package domain

import "time"

// RangeStart returns the first calendar day covered by r relative to now.
// Weeks start on Sunday.
func RangeStart(r DateRange, now time.Time) time.Time {
	today := DateOf(now)
	switch r {
	case DateRangeWeek:
		return today.AddDate(0, 0, -int(today.Weekday()))
	case DateRangeMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case DateRangeYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// FilterSessionsByDateRange returns the sessions whose date falls on or after
// the start of r. An unknown range returns the input unchanged. Order is kept.
func FilterSessionsByDateRange(sessions []Session, r DateRange, now time.Time) []Session {
	if !r.IsValid() {
		return sessions
	}

	start := RangeStart(r, now)
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if !DateOf(s.Date).Before(start) {
			out = append(out, s)
		}
	}
	return out
}
