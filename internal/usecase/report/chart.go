package report

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
	"gonum.org/v1/gonum/stat"
)

var hundred = decimal.NewFromInt(100)

// ChartPoint is one x position of the performance chart. Each snapshot gets
// its own point; the series it does not belong to is left nil so the chart
// can span gaps.
type ChartPoint struct {
	Date  domain.Date
	Class domain.InstrumentClass
	Stock *float64 // cumulative % change of the stock account
	Fund  *float64 // cumulative % change of the fund account
	Index *float64 // % change of the index reference
}

// Chart builds the cumulative % series of both classes and of the index
// over bounds. Each series is relative to its first value inside bounds; a
// missing or zero base is treated as 1.
func Chart(ledger *pnl.Ledger, bounds domain.Range) []ChartPoint {
	stock := ledger.InRange(domain.InstrumentStock, bounds)
	fund := ledger.InRange(domain.InstrumentFund, bounds)

	merged := make([]domain.Snapshot, 0, len(stock)+len(fund))
	i, j := 0, 0
	for i < len(stock) || j < len(fund) {
		if j >= len(fund) || (i < len(stock) && !stock[i].Date.After(fund[j].Date)) {
			merged = append(merged, stock[i])
			i++
		} else {
			merged = append(merged, fund[j])
			j++
		}
	}

	stockBase := baseAsset(stock)
	fundBase := baseAsset(fund)
	indexBase := decimal.NewFromInt(1)
	for _, s := range merged {
		if s.IndexReference != nil && !s.IndexReference.IsZero() {
			indexBase = *s.IndexReference
			break
		}
	}

	points := make([]ChartPoint, 0, len(merged))
	for _, s := range merged {
		p := ChartPoint{Date: s.Date, Class: s.Class}
		switch s.Class {
		case domain.InstrumentStock:
			p.Stock = percentChange(s.TotalAsset, stockBase)
		case domain.InstrumentFund:
			p.Fund = percentChange(s.TotalAsset, fundBase)
		}
		if s.IndexReference != nil && !s.IndexReference.IsZero() {
			p.Index = percentChange(*s.IndexReference, indexBase)
		}
		points = append(points, p)
	}

	return points
}

func baseAsset(series []domain.Snapshot) decimal.Decimal {
	if len(series) == 0 || series[0].TotalAsset.IsZero() {
		return decimal.NewFromInt(1)
	}
	return series[0].TotalAsset
}

func percentChange(v, base decimal.Decimal) *float64 {
	f := v.Sub(base).Div(base).Mul(hundred).InexactFloat64()
	return &f
}

// MovingAverage averages each window of period values ending at i. The
// first period-1 positions are nil, nil values inside a window are skipped
// and a window holding only nils yields nil.
func MovingAverage(data []*float64, period int) []*float64 {
	out := make([]*float64, len(data))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(data); i++ {
		var window []float64
		for _, v := range data[i-period+1 : i+1] {
			if v != nil {
				window = append(window, *v)
			}
		}
		if len(window) > 0 {
			avg := stat.Mean(window, nil)
			out[i] = &avg
		}
	}

	return out
}

// AggregateByPeriod keeps the last snapshot, in input order, of every
// calendar period and returns them ordered by period. An unknown period
// returns the input unchanged.
func AggregateByPeriod(records []domain.Snapshot, period domain.Period) []domain.Snapshot {
	if !period.Valid() {
		return records
	}

	last := make(map[domain.Date]domain.Snapshot)
	var keys []domain.Date
	for _, r := range records {
		k := r.Date.StartOf(period)
		if _, ok := last[k]; !ok {
			keys = append(keys, k)
		}
		last[k] = r
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]domain.Snapshot, 0, len(keys))
	for _, k := range keys {
		out = append(out, last[k])
	}
	return out
}

// PredictTrend fits a least-squares line through the non-nil values, indexed
// 1..n in order, and extrapolates it periods steps ahead. Fewer than two
// values give no prediction.
func PredictTrend(data []*float64, periods int) []float64 {
	var xs, ys []float64
	for _, v := range data {
		if v != nil && !math.IsNaN(*v) {
			xs = append(xs, float64(len(xs)+1))
			ys = append(ys, *v)
		}
	}
	if len(ys) < 2 || periods <= 0 {
		return []float64{}
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	n := float64(len(ys))
	out := make([]float64, periods)
	for i := range out {
		out[i] = alpha + beta*(n+float64(i+1))
	}
	return out
}

// Values returns the series of class from points, nil where the point
// belongs to the other class
func Values(points []ChartPoint, class domain.InstrumentClass) []*float64 {
	out := make([]*float64, len(points))
	for i, p := range points {
		if class == domain.InstrumentFund {
			out[i] = p.Fund
		} else {
			out[i] = p.Stock
		}
	}
	return out
}
