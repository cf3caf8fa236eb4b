package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// MonthlyStats aggregates the calendar month year-month
func MonthlyStats(records []domain.Snapshot, adjustments []domain.Adjustment, year int, month time.Month) Summary {
	return Summarize(records, adjustments, domain.MonthRange(year, month), Options{})
}

// YearlyStats aggregates Jan 1 - Dec 31 of year, annualized
func YearlyStats(records []domain.Snapshot, adjustments []domain.Adjustment, year int) Summary {
	return Summarize(records, adjustments, domain.YearRange(year), Options{Annualize: true})
}

// Periods lists the months and years that hold at least one snapshot
type Periods struct {
	Months []string // YYYY-MM, ascending
	Years  []int    // descending
}

// AvailablePeriods scans records for the months and years that have data
func AvailablePeriods(records []domain.Snapshot) Periods {
	months := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		months[fmt.Sprintf("%04d-%02d", r.Date.Year(), int(r.Date.Month()))] = struct{}{}
		years[r.Date.Year()] = struct{}{}
	}

	p := Periods{
		Months: make([]string, 0, len(months)),
		Years:  make([]int, 0, len(years)),
	}
	for m := range months {
		p.Months = append(p.Months, m)
	}
	for y := range years {
		p.Years = append(p.Years, y)
	}
	sort.Strings(p.Months)
	sort.Sort(sort.Reverse(sort.IntSlice(p.Years)))

	return p
}
