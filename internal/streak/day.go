package streak

import "time"

// An active day is represented as midnight UTC of the user's local calendar
// date. Pinning every date to the same zone keeps equality and day arithmetic
// exact regardless of which zone the activity was logged in.

// DateOf collapses a timestamp to its calendar date in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadLocation resolves an IANA zone name, mapping unknown names to
// ErrInvalidTimezone.
func LoadLocation(timezone string) (*time.Location, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// DaysBetween returns the number of calendar days from a to b. Negative when
// b is earlier than a. Both arguments must be normalized days.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// NextDay returns the day after d.
func NextDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}
