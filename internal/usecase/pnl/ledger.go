package pnl

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

type adjustmentKey struct {
	date  domain.Date
	class domain.InstrumentClass
}

type recordKey struct {
	date domain.Date
	id   uuid.UUID
}

// Ledger is a read-only view over one consistent fetch of snapshots and
// adjustments. Each class is sorted once at construction; lookups afterwards
// are index or binary-search based. A Ledger is safe for concurrent reads.
type Ledger struct {
	series      map[domain.InstrumentClass][]domain.Snapshot
	positions   map[domain.InstrumentClass]map[recordKey]int
	adjustments map[adjustmentKey]decimal.Decimal
}

// DailyEntry pairs a snapshot with its baseline and attributed profit/loss
type DailyEntry struct {
	Snapshot   domain.Snapshot
	Previous   *domain.Snapshot
	Adjustment decimal.Decimal
	ProfitLoss decimal.Decimal
}

// NewLedger builds a ledger. The input slices are not modified and need not be sorted.
func NewLedger(records []domain.Snapshot, adjustments []domain.Adjustment) *Ledger {
	l := &Ledger{
		series:      make(map[domain.InstrumentClass][]domain.Snapshot),
		positions:   make(map[domain.InstrumentClass]map[recordKey]int),
		adjustments: make(map[adjustmentKey]decimal.Decimal),
	}

	for _, r := range records {
		l.series[r.Class] = append(l.series[r.Class], r)
	}

	for class, s := range l.series {
		sort.SliceStable(s, func(i, j int) bool {
			if c := s[i].Date.Compare(s[j].Date); c != 0 {
				return c < 0
			}
			return s[i].ID.String() < s[j].ID.String()
		})

		index := make(map[recordKey]int, len(s))
		for i, r := range s {
			index[recordKey{date: r.Date, id: r.ID}] = i
		}
		l.positions[class] = index
	}

	for _, a := range adjustments {
		k := adjustmentKey{date: a.Date, class: a.Class}
		l.adjustments[k] = l.adjustments[k].Add(a.Amount)
	}

	return l
}

// Series returns the date-ordered snapshots of a class
func (l *Ledger) Series(class domain.InstrumentClass) []domain.Snapshot {
	s := l.series[class]
	out := make([]domain.Snapshot, len(s))
	copy(out, s)
	return out
}

// Len returns the number of snapshots of a class
func (l *Ledger) Len(class domain.InstrumentClass) int { return len(l.series[class]) }

// Previous returns the snapshot preceding record in its class.
//
// When the exact (date, id) of record is in the ledger the positional
// predecessor is returned. Otherwise, e.g. for a record that was filtered out
// of the reference set, the latest snapshot with a strictly earlier date is
// returned. Nil means record starts its series.
func (l *Ledger) Previous(record domain.Snapshot) *domain.Snapshot {
	s := l.series[record.Class]
	if i, ok := l.positions[record.Class][recordKey{date: record.Date, id: record.ID}]; ok {
		if i == 0 {
			return nil
		}
		prev := s[i-1]
		return &prev
	}
	return l.Before(record.Class, record.Date)
}

// Before returns the latest snapshot of class dated strictly before date
func (l *Ledger) Before(class domain.InstrumentClass, date domain.Date) *domain.Snapshot {
	s := l.series[class]
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(date) })
	if i == 0 {
		return nil
	}
	prev := s[i-1]
	return &prev
}

// Latest returns the most recent snapshot of class, nil if the series is empty
func (l *Ledger) Latest(class domain.InstrumentClass) *domain.Snapshot {
	s := l.series[class]
	if len(s) == 0 {
		return nil
	}
	last := s[len(s)-1]
	return &last
}

// InRange returns the date-ordered snapshots of class inside r
func (l *Ledger) InRange(class domain.InstrumentClass, r domain.Range) []domain.Snapshot {
	s := l.series[class]
	lo := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(r.From) })
	hi := sort.Search(len(s), func(i int) bool { return s[i].Date.After(r.To) })
	if lo >= hi {
		return nil
	}
	out := make([]domain.Snapshot, hi-lo)
	copy(out, s[lo:hi])
	return out
}

// AdjustmentTotal returns the net adjustment recorded for (date, class)
func (l *Ledger) AdjustmentTotal(date domain.Date, class domain.InstrumentClass) decimal.Decimal {
	return l.adjustments[adjustmentKey{date: date, class: class}]
}

// ProfitLoss is DailyProfitLoss with the baseline taken from the ledger
func (l *Ledger) ProfitLoss(record domain.Snapshot) decimal.Decimal {
	return l.entry(record).ProfitLoss
}

// Daily returns one entry per snapshot of class inside r, in date order.
// Baselines come from the full series, so the first day of r is charged
// against its true predecessor even when that one lies outside r.
func (l *Ledger) Daily(class domain.InstrumentClass, r domain.Range) []DailyEntry {
	records := l.InRange(class, r)
	entries := make([]DailyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, l.entry(rec))
	}
	return entries
}

func (l *Ledger) entry(record domain.Snapshot) DailyEntry {
	e := DailyEntry{Snapshot: record, Previous: l.Previous(record)}
	if e.Previous == nil {
		e.ProfitLoss = decimal.Zero
		return e
	}
	e.Adjustment = l.AdjustmentTotal(record.Date, record.Class)
	e.ProfitLoss = record.TotalAsset.Sub(e.Adjustment).Sub(e.Previous.TotalAsset)
	return e
}
