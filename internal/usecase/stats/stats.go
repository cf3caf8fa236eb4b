// Package stats aggregates daily profit/loss into calendar periods and
// derives win rate, drawdown, return and volatility figures per class.
package stats

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
	"gonum.org/v1/gonum/stat"
)

var hundred = decimal.NewFromInt(100)

// ClassStats holds the aggregate figures of one instrument class over a range.
// Percentages are expressed on a 0-100 scale; AnnualizedReturn is a plain ratio
// (0.12 means 12%).
type ClassStats struct {
	Class            domain.InstrumentClass
	ProfitLoss       decimal.Decimal
	Days             int
	WinRate          float64
	MaxDrawdown      float64
	StartAsset       decimal.Decimal
	EndAsset         decimal.Decimal
	ReturnRate       float64
	AnnualizedReturn float64
	Volatility       float64 // standard deviation of daily returns, in percent
}

// TotalStats combines both classes
type TotalStats struct {
	ProfitLoss decimal.Decimal
	Days       int
	StartAsset decimal.Decimal
	EndAsset   decimal.Decimal
	ReturnRate float64
}

// Summary is the result of aggregating every class over one range
type Summary struct {
	Range domain.Range
	Stock ClassStats
	Fund  ClassStats
	Total TotalStats
}

// Class returns the stats of the given class
func (s Summary) Class(class domain.InstrumentClass) ClassStats {
	if class == domain.InstrumentFund {
		return s.Fund
	}
	return s.Stock
}

// Options tunes how boundaries are resolved
type Options struct {
	// Annualize fills AnnualizedReturn. Only meaningful for year-long ranges.
	Annualize bool

	// AnchorBeforeRange takes the start asset from the latest snapshot strictly
	// before the range (falling back to the first in-range one) and lets the end
	// asset fall back to the start asset when the range holds no snapshot.
	AnchorBeforeRange bool
}

// PeriodStats aggregates one class over bounds.
// Previous snapshots are looked up in the full, unfiltered series.
func PeriodStats(records []domain.Snapshot, adjustments []domain.Adjustment, class domain.InstrumentClass, bounds domain.Range) ClassStats {
	return Compute(pnl.NewLedger(records, adjustments), class, bounds, Options{})
}

// Summarize aggregates both classes over bounds
func Summarize(records []domain.Snapshot, adjustments []domain.Adjustment, bounds domain.Range, opts Options) Summary {
	return SummarizeLedger(pnl.NewLedger(records, adjustments), bounds, opts)
}

// SummarizeLedger is Summarize over an already built ledger
func SummarizeLedger(ledger *pnl.Ledger, bounds domain.Range, opts Options) Summary {
	s := Summary{
		Range: bounds,
		Stock: Compute(ledger, domain.InstrumentStock, bounds, opts),
		Fund:  Compute(ledger, domain.InstrumentFund, bounds, opts),
	}

	s.Total = TotalStats{
		ProfitLoss: s.Stock.ProfitLoss.Add(s.Fund.ProfitLoss),
		Days:       max(s.Stock.Days, s.Fund.Days),
		StartAsset: s.Stock.StartAsset.Add(s.Fund.StartAsset),
		EndAsset:   s.Stock.EndAsset.Add(s.Fund.EndAsset),
	}
	s.Total.ReturnRate = returnRate(s.Total.StartAsset, s.Total.EndAsset)

	return s
}

// Compute aggregates one class of ledger over bounds
func Compute(ledger *pnl.Ledger, class domain.InstrumentClass, bounds domain.Range, opts Options) ClassStats {
	cs := ClassStats{
		Class:      class,
		ProfitLoss: decimal.Zero,
		StartAsset: decimal.Zero,
		EndAsset:   decimal.Zero,
	}

	entries := ledger.Daily(class, bounds)
	cs.Days = len(entries)

	var (
		profitable int
		peak       = decimal.Zero
		returns    []float64
	)
	for _, e := range entries {
		cs.ProfitLoss = cs.ProfitLoss.Add(e.ProfitLoss)
		if e.ProfitLoss.IsPositive() {
			profitable++
		}

		asset := e.Snapshot.TotalAsset
		if asset.GreaterThan(peak) {
			peak = asset
		}
		if peak.IsPositive() {
			dd := peak.Sub(asset).Div(peak).Mul(hundred).InexactFloat64()
			if dd > cs.MaxDrawdown {
				cs.MaxDrawdown = dd
			}
		}

		if e.Previous != nil && e.Previous.TotalAsset.IsPositive() {
			returns = append(returns, e.ProfitLoss.Div(e.Previous.TotalAsset).Mul(hundred).InexactFloat64())
		}
	}

	if cs.Days > 0 {
		cs.WinRate = float64(profitable) / float64(cs.Days) * 100
		cs.StartAsset = entries[0].Snapshot.TotalAsset
		cs.EndAsset = entries[len(entries)-1].Snapshot.TotalAsset
	}

	if opts.AnchorBeforeRange {
		if before := ledger.Before(class, bounds.From); before != nil {
			cs.StartAsset = before.TotalAsset
		}
		if cs.Days == 0 {
			cs.EndAsset = cs.StartAsset
		}
	}

	cs.ReturnRate = returnRate(cs.StartAsset, cs.EndAsset)

	if opts.Annualize {
		cs.AnnualizedReturn = annualizedReturn(cs.StartAsset, cs.EndAsset, cs.Days)
	}

	if len(returns) > 1 {
		cs.Volatility = stat.StdDev(returns, nil)
	}

	return cs
}

// returnRate is (end-start)/start in percent, 0 when start is not positive
func returnRate(start, end decimal.Decimal) float64 {
	if !start.IsPositive() {
		return 0
	}
	return end.Sub(start).Div(start).Mul(hundred).InexactFloat64()
}

// annualizedReturn is (end/start)^(365/days) - 1
func annualizedReturn(start, end decimal.Decimal, days int) float64 {
	if !start.IsPositive() || days <= 0 {
		return 0
	}
	growth := end.Div(start).InexactFloat64()
	r := math.Pow(growth, 365/float64(days)) - 1
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
