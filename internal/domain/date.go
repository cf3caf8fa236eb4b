package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 layout used to exchange dates as text
const DateFormat = "2006-01-02"

// readDateFormat is permissive on single-digit month/day
const readDateFormat = "2006-1-2"

// Date represents a calendar day with no time-of-day and no time zone.
// Snapshots and adjustments are keyed by Date, never by instant.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month, and day
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y: y, m: m, d: d}
}

// Today returns the current local calendar day
func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a YYYY-MM-DD date (single-digit month/day accepted)
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("invalid date: empty value")
	}
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.y }
func (d Date) Month() time.Month     { return d.m }
func (d Date) Day() int              { return d.d }
func (d Date) IsZero() bool          { return d.y == 0 && d.m == 0 && d.d == 0 }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Time returns midnight UTC of the day
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateFormat)
}

// Add returns the date i days later (or earlier when i is negative)
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmpInt(d.y, x.y)
	case d.m != x.m:
		return cmpInt(int(d.m), int(x.m))
	default:
		return cmpInt(d.d, x.d)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// StartOf returns the first day of the period containing d.
// Weeks start on Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case PeriodWeek:
		offset := int(d.Weekday() - time.Monday)
		if offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case PeriodMonth:
		return NewDate(d.y, d.m, 1)
	case PeriodYear:
		return NewDate(d.y, time.January, 1)
	default:
		return d
	}
}

// EndOf returns the last day of the period containing d
func (d Date) EndOf(p Period) Date {
	switch p {
	case PeriodWeek:
		return d.StartOf(PeriodWeek).Add(6)
	case PeriodMonth:
		return NewDate(d.y, d.m+1, 0)
	case PeriodYear:
		return NewDate(d.y, time.December, 31)
	default:
		return d
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive range of calendar days
type Range struct {
	From Date
	To   Date
}

// NewRange creates a range; reversed bounds are swapped
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains reports whether d lies within the range, bounds included
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days returns the number of calendar days covered by the range
func (r Range) Days() int {
	return int(r.To.Time().Sub(r.From.Time()).Hours()/24) + 1
}

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }

// MonthRange returns the first to last calendar day of a month
func MonthRange(year int, month time.Month) Range {
	first := NewDate(year, month, 1)
	return Range{From: first, To: first.EndOf(PeriodMonth)}
}

// YearRange returns Jan 1 to Dec 31 of a year
func YearRange(year int) Range {
	return Range{From: NewDate(year, time.January, 1), To: NewDate(year, time.December, 31)}
}

var (
	minDate = NewDate(1, time.January, 1)
	maxDate = NewDate(9999, time.December, 31)
)

// OpenRange is NewRange where a zero bound leaves that side unbounded
func OpenRange(from, to Date) Range {
	if from.IsZero() {
		from = minDate
	}
	if to.IsZero() {
		to = maxDate
	}
	return NewRange(from, to)
}
