package services

import "time"

// monthRange returns the first and last instants of the calendar month
// containing now, in now's location.
func monthRange(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// dateAllowed reports whether now falls on the account's configured
// day-of-month.
func dateAllowed(now time.Time, day int) bool {
	return now.Day() == day
}
