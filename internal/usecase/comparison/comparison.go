// Package comparison puts two date ranges side by side.
package comparison

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
)

// ErrNoData is returned when one of the compared ranges holds no snapshot
var ErrNoData = errors.New("no snapshots in range")

// Result holds the independently computed stats of both ranges
type Result struct {
	A stats.Summary
	B stats.Summary
}

// Delta is B minus A, field by field
type Delta struct {
	StockProfitLoss decimal.Decimal
	FundProfitLoss  decimal.Decimal
	TotalProfitLoss decimal.Decimal
	StockWinRate    float64
	FundWinRate     float64
	StockReturnRate float64
	FundReturnRate  float64
	TotalReturnRate float64
}

// Delta differences the two sides
func (r *Result) Delta() Delta {
	return Delta{
		StockProfitLoss: r.B.Stock.ProfitLoss.Sub(r.A.Stock.ProfitLoss),
		FundProfitLoss:  r.B.Fund.ProfitLoss.Sub(r.A.Fund.ProfitLoss),
		TotalProfitLoss: r.B.Total.ProfitLoss.Sub(r.A.Total.ProfitLoss),
		StockWinRate:    r.B.Stock.WinRate - r.A.Stock.WinRate,
		FundWinRate:     r.B.Fund.WinRate - r.A.Fund.WinRate,
		StockReturnRate: r.B.Stock.ReturnRate - r.A.Stock.ReturnRate,
		FundReturnRate:  r.B.Fund.ReturnRate - r.A.Fund.ReturnRate,
		TotalReturnRate: r.B.Total.ReturnRate - r.A.Total.ReturnRate,
	}
}

// CompareRanges aggregates a and b independently.
// Each class is anchored on its latest snapshot strictly before the range
// start, so the boundary day's profit is kept.
func CompareRanges(records []domain.Snapshot, adjustments []domain.Adjustment, a, b domain.Range) (*Result, error) {
	return CompareLedger(pnl.NewLedger(records, adjustments), a, b)
}

// CompareLedger is CompareRanges over an already built ledger
func CompareLedger(ledger *pnl.Ledger, a, b domain.Range) (*Result, error) {
	if !hasData(ledger, a) || !hasData(ledger, b) {
		return nil, ErrNoData
	}

	opts := stats.Options{AnchorBeforeRange: true}
	return &Result{
		A: stats.SummarizeLedger(ledger, a, opts),
		B: stats.SummarizeLedger(ledger, b, opts),
	}, nil
}

func hasData(ledger *pnl.Ledger, r domain.Range) bool {
	for _, class := range domain.InstrumentClasses {
		if len(ledger.InRange(class, r)) > 0 {
			return true
		}
	}
	return false
}
