package day

import "time"

// Date builds a civil date at UTC midnight. All map keys and comparisons in the
// residency core use dates in this form.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the time of day and location, keeping the calendar date as seen
// in t's own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DaysBetween returns the number of days from a to b (negative if b is before a).
func DaysBetween(a, b time.Time) int {
	// Both dates are UTC midnights after normalization, so the division is exact.
	return int(Normalize(b).Sub(Normalize(a)) / (24 * time.Hour))
}

// SpanDays returns the inclusive length of [start, end].
func SpanDays(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// AddDays shifts a civil date by n days.
func AddDays(t time.Time, n int) time.Time {
	return Normalize(t).AddDate(0, 0, n)
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// MonthBounds returns the first and last dates of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := Date(year, month, 1)
	return first, first.AddDate(0, 1, -1)
}

// YearBounds returns January 1st and December 31st of year.
func YearBounds(year int) (time.Time, time.Time) {
	return Date(year, time.January, 1), Date(year, time.December, 31)
}

// Anniversary returns the date that is years after t. A February 29th falls back
// to February 28th in non-leap target years (time.Date would roll it to March 1st).
func Anniversary(t time.Time, years int) time.Time {
	y, m, d := t.Date()
	target := y + years
	if m == time.February && d == 29 && !IsLeap(target) {
		d = 28
	}
	return Date(target, m, d)
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect (inclusive).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
