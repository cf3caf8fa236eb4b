// Package report turns ledger data into tables, CSV files, chart series and
// markdown documents.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
)

// Row is one line of the history table
type Row struct {
	Date             domain.Date
	Class            domain.InstrumentClass
	TotalAsset       decimal.Decimal
	TotalMarketValue *decimal.Decimal
	IndexReference   *decimal.Decimal
	Adjustment       decimal.Decimal
	ProfitLoss       decimal.Decimal
	Notes            string
}

// History lists the snapshots inside bounds with their daily profit/loss,
// newest first. A nil class lists every class; on the same date stocks come
// before funds.
func History(ledger *pnl.Ledger, bounds domain.Range, class *domain.InstrumentClass) []Row {
	var rows []Row
	for _, c := range domain.InstrumentClasses {
		if class != nil && *class != c {
			continue
		}
		for _, e := range ledger.Daily(c, bounds) {
			rows = append(rows, Row{
				Date:             e.Snapshot.Date,
				Class:            c,
				TotalAsset:       e.Snapshot.TotalAsset,
				TotalMarketValue: e.Snapshot.TotalMarketValue,
				IndexReference:   e.Snapshot.IndexReference,
				Adjustment:       e.Adjustment,
				ProfitLoss:       e.ProfitLoss,
				Notes:            e.Snapshot.Notes,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Date.Compare(rows[j].Date); c != 0 {
			return c > 0
		}
		return classRank(rows[i].Class) < classRank(rows[j].Class)
	})

	return rows
}

func classRank(c domain.InstrumentClass) int {
	for i, x := range domain.InstrumentClasses {
		if x == c {
			return i
		}
	}
	return len(domain.InstrumentClasses)
}
