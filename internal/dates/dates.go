// Package dates provides calendar-day arithmetic for the month grid.
//
// Every function is pure and works in the location of its argument. Weeks
// start on Sunday. Functions that compare days ignore time of day only where
// noted; callers are expected to pass values already normalized to midnight.
package dates

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// DaysPerWeek is the number of columns in a week row.
const DaysPerWeek = 7

// Layouts used for parsing and display.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "January 2006"
	ShortLayout = "Jan 2"
)

// StartOfDay returns midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// EndOfWeek returns midnight of the Saturday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+(6-int(t.Weekday())), 0, 0, 0, 0, t.Location())
}

// EachDay yields every calendar day from start to end, both inclusive, at
// midnight. The sequence is empty when end is before start and may be
// ranged over more than once.
func EachDay(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := StartOfDay(start); !d.After(end); d = AddDays(d, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// IsSameMonth reports whether a and b fall in the same month of the same year.
func IsSameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// IsSameDay reports whether a and b fall on the same calendar day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t falls on the same day as now.
func IsToday(t, now time.Time) bool {
	return IsSameDay(t, now)
}

// AddDays returns midnight of the day n days after t. n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// AddMonths returns midnight of the same day n months after t, following
// time.AddDate normalization (Jan 31 plus one month is Mar 3 or Mar 2).
func AddMonths(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, n, 0)
}

// SubMonths returns AddMonths(t, -n).
func SubMonths(t time.Time, n int) time.Time {
	return AddMonths(t, -n)
}

// SubWeeks returns midnight of the day n weeks before t.
func SubWeeks(t time.Time, n int) time.Time {
	return AddDays(t, -n*DaysPerWeek)
}

// DifferenceInDays returns the absolute number of whole days between a and
// b after normalizing both to midnight.
func DifferenceInDays(a, b time.Time) int {
	a, b = StartOfDay(a), StartOfDay(b)
	if a.After(b) {
		a, b = b, a
	}
	// Count in calendar days so DST transitions do not shave an hour off.
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours()) / 24
}

// InclusiveDays returns the number of calendar days in [a, b] counting both
// endpoints.
func InclusiveDays(a, b time.Time) int {
	return DifferenceInDays(a, b) + 1
}

// Column returns t's weekday as a grid column, 0 for Sunday through 6 for
// Saturday.
func Column(t time.Time) int {
	return int(t.Weekday())
}

// Before reports whether a's day precedes b's day.
func Before(a, b time.Time) bool {
	return StartOfDay(a).Before(StartOfDay(b))
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// Order returns a and b with the earlier first.
func Order(a, b time.Time) (time.Time, time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// ErrInvalidDate is returned by ParseDay for input that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// ParseDay parses a YYYY-MM-DD string as local midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDay formats t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// FormatMonth formats t as "January 2006".
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// FormatShort formats t as "Jan 2".
func FormatShort(t time.Time) string {
	return t.Format(ShortLayout)
}
