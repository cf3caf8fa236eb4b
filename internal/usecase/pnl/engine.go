// Package pnl attributes account value changes to market movement.
//
// A day's profit/loss is the change of total asset against the previous snapshot
// of the same instrument class, net of any capital adjustment recorded for that
// exact (date, class). Every aggregate in the system is built from this rule.
package pnl

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// DailyProfitLoss calculates the market-driven profit/loss of record
// Logic:
//   - previous == nil: the record starts its series, there is no baseline, result is 0
//   - otherwise: TotalAsset - A - previous.TotalAsset, where A is the sum of the
//     adjustments whose date AND class equal the record's
//
// A deposit inflates TotalAsset without being profit, so subtracting the signed
// adjustment leaves only market change; a withdrawal (negative A) adds the
// withdrawn amount back.
func DailyProfitLoss(record domain.Snapshot, previous *domain.Snapshot, adjustments []domain.Adjustment) decimal.Decimal {
	if previous == nil {
		return decimal.Zero
	}

	adjusted := AdjustmentTotal(adjustments, record.Date, record.Class)
	return record.TotalAsset.Sub(adjusted).Sub(previous.TotalAsset)
}

// AdjustmentTotal sums the adjustments recorded for exactly (date, class)
func AdjustmentTotal(adjustments []domain.Adjustment, date domain.Date, class domain.InstrumentClass) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjustments {
		if a.Date == date && a.Class == class {
			total = total.Add(a.Amount)
		}
	}
	return total
}
