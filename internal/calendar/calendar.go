// Package calendar implements the weekend-aware date arithmetic used by the
// schedule generator. Only Saturdays and Sundays are skipped; no holiday
// calendar is modelled.
package calendar

import "time"

// DateLayout is the canonical date-only layout used across chantier.
const DateLayout = "2006-01-02"

// Date returns the UTC midnight for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar day in t's location,
// and returns it as UTC midnight.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse parses a YYYY-MM-DD string into a UTC midnight date.
func Parse(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddBusinessDays advances d one calendar day at a time until n weekdays have
// been counted. n == 0 returns d unchanged, even when d is a weekend day.
// Negative n walks backwards.
func AddBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return SubtractBusinessDays(d, -n)
	}
	cur := d
	for counted := 0; counted < n; {
		cur = cur.AddDate(0, 0, 1)
		if !IsWeekend(cur) {
			counted++
		}
	}
	return cur
}

// SubtractBusinessDays walks backwards from d until n weekdays have been
// counted. It is not the inverse of AddBusinessDays when d is a weekend day.
func SubtractBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return AddBusinessDays(d, -n)
	}
	cur := d
	for counted := 0; counted < n; {
		cur = cur.AddDate(0, 0, -1)
		if !IsWeekend(cur) {
			counted++
		}
	}
	return cur
}

// NextBusinessDay returns d when it is a weekday, otherwise the following Monday.
func NextBusinessDay(d time.Time) time.Time {
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddDays adds n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Truncate(a), Truncate(b)
	return int(b.Sub(a).Hours() / 24)
}

// BusinessDaysBetween counts weekdays in (a, b]. It is the n for which
// AddBusinessDays(a, n) is the last weekday on or before b. Returns 0 when b
// is not after a.
func BusinessDaysBetween(a, b time.Time) int {
	a, b = Truncate(a), Truncate(b)
	n := 0
	for cur := a.AddDate(0, 0, 1); !cur.After(b); cur = cur.AddDate(0, 0, 1) {
		if !IsWeekend(cur) {
			n++
		}
	}
	return n
}

// Each calls fn for every calendar day from start to end inclusive.
func Each(start, end time.Time, fn func(day time.Time)) {
	for cur := Truncate(start); !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		fn(cur)
	}
}
