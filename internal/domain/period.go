package domain

import (
	"errors"
	"strings"
)

// Period is a calendar window over which profit is aggregated
type Period string

const (
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
	PeriodYear  Period = "YEAR"
)

// Periods lists every period from shortest to longest
var Periods = []Period{PeriodWeek, PeriodMonth, PeriodYear}

// ErrInvalidPeriod is returned for anything other than week, month or year
var ErrInvalidPeriod = errors.New("invalid period: must be WEEK, MONTH or YEAR")

// ParsePeriod accepts week/month/year (and weekly/monthly/yearly) in any case
func ParsePeriod(s string) (Period, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WEEK", "WEEKLY":
		return PeriodWeek, nil
	case "MONTH", "MONTHLY":
		return PeriodMonth, nil
	case "YEAR", "YEARLY":
		return PeriodYear, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Valid reports whether p is one of the known periods
func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// Range returns the calendar period containing d
func (p Period) Range(d Date) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Label is the lower-case name used in reports
func (p Period) Label() string {
	return strings.ToLower(string(p))
}
