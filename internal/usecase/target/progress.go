package target

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
)

var hundred = decimal.NewFromInt(100)

// Completion describes how far an amount is from a goal
type Completion struct {
	Percentage float64 // capped at 100, may be negative
	IsAchieved bool
	Remaining  decimal.Decimal // never negative
}

// Progress is the state of one target over its current period
type Progress struct {
	Target       domain.Target
	Range        domain.Range
	ActualProfit decimal.Decimal
	Completion
}

// PeriodRange resolves the calendar period containing today.
// Weeks run Monday through Sunday.
func PeriodRange(period domain.Period, today domain.Date) domain.Range {
	return period.Range(today)
}

// PeriodProfit sums the daily profit/loss of class over bounds.
// The first snapshot in bounds is charged against the latest snapshot
// strictly before bounds.From, so a freshly started period is not zeroed.
func PeriodProfit(records []domain.Snapshot, adjustments []domain.Adjustment, class domain.InstrumentClass, bounds domain.Range) decimal.Decimal {
	return ledgerProfit(pnl.NewLedger(records, adjustments), class, bounds)
}

func ledgerProfit(ledger *pnl.Ledger, class domain.InstrumentClass, bounds domain.Range) decimal.Decimal {
	total := decimal.Zero
	for _, e := range ledger.Daily(class, bounds) {
		total = total.Add(e.ProfitLoss)
	}
	return total
}

// CalculateProgress compares actual against targetAmount
// Logic:
//   - targetAmount <= 0: 0%, not achieved, nothing remaining
//   - percentage = min(actual/target*100, 100) rounded to 2 decimals
//   - achieved when actual >= target
//   - remaining = max(target-actual, 0)
func CalculateProgress(actual, targetAmount decimal.Decimal) Completion {
	if !targetAmount.IsPositive() {
		return Completion{Remaining: decimal.Zero}
	}

	pct := actual.Div(targetAmount).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	remaining := targetAmount.Sub(actual)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Completion{
		Percentage: pct.Round(2).InexactFloat64(),
		IsAchieved: actual.GreaterThanOrEqual(targetAmount),
		Remaining:  remaining,
	}
}

// TargetProgress evaluates target against the period containing today.
// PeriodStartDate on the target never moves the period boundaries.
func TargetProgress(t domain.Target, records []domain.Snapshot, adjustments []domain.Adjustment, today domain.Date) Progress {
	return Evaluate(pnl.NewLedger(records, adjustments), t, today)
}

// Evaluate is TargetProgress over an already built ledger
func Evaluate(ledger *pnl.Ledger, t domain.Target, today domain.Date) Progress {
	bounds := PeriodRange(t.Period, today)
	actual := ledgerProfit(ledger, t.Class, bounds)

	return Progress{
		Target:       t,
		Range:        bounds,
		ActualProfit: actual,
		Completion:   CalculateProgress(actual, t.TargetAmount),
	}
}
