package domain

import "time"

// DateOf truncates a time to midnight UTC. All day-stepping in the accrual
// engines operates on these normalized dates.
func DateOf(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the midnight following d.
func NextDay(d time.Time) time.Time {
	return DateOf(d).AddDate(0, 0, 1)
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameDay reports whether two times fall on the same calendar day (UTC).
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
