package engine

import "time"

// monthsBetween is the calendar-month component difference between two
// dates. Day-of-month is ignored: Jan 31 to Feb 1 is one month.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// endOfMonth is midnight on the month's last day.
func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, -1)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthLabel(t time.Time) string {
	return t.Format("Jan/06")
}

// inRange is inclusive on both ends.
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
