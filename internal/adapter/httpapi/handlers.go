package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
)

// maxWindow bounds the ma and predict query parameters
const maxWindow = 365

type historyRow struct {
	Date             domain.Date      `json:"date"`
	Class            string           `json:"class"`
	TotalAsset       decimal.Decimal  `json:"total_asset"`
	TotalMarketValue *decimal.Decimal `json:"total_market_value"`
	IndexReference   *decimal.Decimal `json:"index_reference"`
	Adjustment       decimal.Decimal  `json:"adjustment"`
	ProfitLoss       decimal.Decimal  `json:"profit_loss"`
	Notes            string           `json:"notes"`
}

type chartPoint struct {
	Date  domain.Date `json:"date"`
	Class string      `json:"class"`
	Stock *float64    `json:"stock"`
	Fund  *float64    `json:"fund"`
	Index *float64    `json:"index"`
}

type classSeries struct {
	Stock []*float64 `json:"stock"`
	Fund  []*float64 `json:"fund"`
}

type trendSeries struct {
	Stock []float64 `json:"stock"`
	Fund  []float64 `json:"fund"`
}

type chartResponse struct {
	Points        []chartPoint `json:"points"`
	MovingAverage *classSeries `json:"moving_average,omitempty"`
	Trend         *trendSeries `json:"trend,omitempty"`
}

type dateRange struct {
	From domain.Date `json:"from"`
	To   domain.Date `json:"to"`
}

type classStatsJSON struct {
	ProfitLoss       decimal.Decimal `json:"profit_loss"`
	Days             int             `json:"days"`
	WinRate          float64         `json:"win_rate"`
	MaxDrawdown      float64         `json:"max_drawdown"`
	StartAsset       decimal.Decimal `json:"start_asset"`
	EndAsset         decimal.Decimal `json:"end_asset"`
	ReturnRate       float64         `json:"return_rate"`
	AnnualizedReturn float64         `json:"annualized_return"`
	Volatility       float64         `json:"volatility"`
}

type totalStatsJSON struct {
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	Days       int             `json:"days"`
	StartAsset decimal.Decimal `json:"start_asset"`
	EndAsset   decimal.Decimal `json:"end_asset"`
	ReturnRate float64         `json:"return_rate"`
}

type statsResponse struct {
	Range dateRange      `json:"range"`
	Stock classStatsJSON `json:"stock"`
	Fund  classStatsJSON `json:"fund"`
	Total totalStatsJSON `json:"total"`
}

func newClassStatsJSON(c stats.ClassStats) classStatsJSON {
	return classStatsJSON{
		ProfitLoss:       c.ProfitLoss,
		Days:             c.Days,
		WinRate:          c.WinRate,
		MaxDrawdown:      c.MaxDrawdown,
		StartAsset:       c.StartAsset,
		EndAsset:         c.EndAsset,
		ReturnRate:       c.ReturnRate,
		AnnualizedReturn: c.AnnualizedReturn,
		Volatility:       c.Volatility,
	}
}

func newStatsResponse(s *stats.Summary) statsResponse {
	return statsResponse{
		Range: dateRange{From: s.Range.From, To: s.Range.To},
		Stock: newClassStatsJSON(s.Stock),
		Fund:  newClassStatsJSON(s.Fund),
		Total: totalStatsJSON{
			ProfitLoss: s.Total.ProfitLoss,
			Days:       s.Total.Days,
			StartAsset: s.Total.StartAsset,
			EndAsset:   s.Total.EndAsset,
			ReturnRate: s.Total.ReturnRate,
		},
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "wealthlog",
	})
}

// handleExportCSV streams the history of a range as a CSV attachment
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	bounds, class, ok := s.historyQuery(w, r)
	if !ok {
		return
	}

	rows, err := s.reader.History(r.Context(), bounds, class)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load history for export")
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="wealthlog-%s.csv"`, domain.Today()))
	if err := report.WriteCSV(w, rows); err != nil {
		s.log.Error().Err(err).Msg("Failed to write CSV export")
	}
}

// handleExportXLSX streams the history of a range as an Excel workbook
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	bounds, class, ok := s.historyQuery(w, r)
	if !ok {
		return
	}

	rows, err := s.reader.History(r.Context(), bounds, class)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load history for export")
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="wealthlog-%s.xlsx"`, domain.Today()))
	if err := report.WriteXLSX(w, rows); err != nil {
		s.log.Error().Err(err).Msg("Failed to write XLSX export")
	}
}

// handleHistory lists the snapshots of a range, newest first
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	bounds, class, ok := s.historyQuery(w, r)
	if !ok {
		return
	}

	rows, err := s.reader.History(r.Context(), bounds, class)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load history")
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	out := make([]historyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, historyRow{
			Date:             row.Date,
			Class:            string(row.Class),
			TotalAsset:       row.TotalAsset,
			TotalMarketValue: row.TotalMarketValue,
			IndexReference:   row.IndexReference,
			Adjustment:       row.Adjustment,
			ProfitLoss:       row.ProfitLoss,
			Notes:            row.Notes,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"rows": out})
}

// handleChart returns the cumulative % series of a range.
// Optional parameters: group (week, month, year), ma (moving average
// window) and predict (number of trend steps to extrapolate).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	bounds, ok := s.rangeQuery(w, r)
	if !ok {
		return
	}

	var group domain.Period
	if v := r.URL.Query().Get("group"); v != "" {
		p, err := domain.ParsePeriod(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		group = p
	}

	ma, ok := s.intQuery(w, r, "ma")
	if !ok {
		return
	}
	predict, ok := s.intQuery(w, r, "predict")
	if !ok {
		return
	}

	points, err := s.reader.Chart(r.Context(), bounds, group)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build chart")
		s.writeError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}

	resp := chartResponse{Points: make([]chartPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, chartPoint{
			Date:  p.Date,
			Class: string(p.Class),
			Stock: p.Stock,
			Fund:  p.Fund,
			Index: p.Index,
		})
	}

	stock := report.Values(points, domain.InstrumentStock)
	fund := report.Values(points, domain.InstrumentFund)
	if ma > 0 {
		resp.MovingAverage = &classSeries{
			Stock: report.MovingAverage(stock, ma),
			Fund:  report.MovingAverage(fund, ma),
		}
	}
	if predict > 0 {
		resp.Trend = &trendSeries{
			Stock: report.PredictTrend(stock, predict),
			Fund:  report.PredictTrend(fund, predict),
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleStats aggregates both classes over a range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	bounds, ok := s.rangeQuery(w, r)
	if !ok {
		return
	}

	opts := stats.Options{}
	if v := r.URL.Query().Get("annualize"); v != "" {
		opts.Annualize, _ = strconv.ParseBool(v)
	}

	summary, err := s.reader.PeriodStats(r.Context(), bounds, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to compute stats")
		s.writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	s.writeJSON(w, http.StatusOK, newStatsResponse(summary))
}

// handlePeriods lists the months and years holding data
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.reader.AvailablePeriods(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list periods")
		s.writeError(w, http.StatusInternalServerError, "failed to list periods")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"months": periods.Months,
		"years":  periods.Years,
	})
}

// rangeQuery reads from/to; a missing bound leaves that side open
func (s *Server) rangeQuery(w http.ResponseWriter, r *http.Request) (domain.Range, bool) {
	var bounds [2]domain.Date
	for i, key := range []string{"from", "to"} {
		v := r.URL.Query().Get(key)
		if v == "" {
			continue
		}
		d, err := domain.ParseDate(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", key, err))
			return domain.Range{}, false
		}
		bounds[i] = d
	}
	return domain.OpenRange(bounds[0], bounds[1]), true
}

func (s *Server) historyQuery(w http.ResponseWriter, r *http.Request) (domain.Range, *domain.InstrumentClass, bool) {
	bounds, ok := s.rangeQuery(w, r)
	if !ok {
		return domain.Range{}, nil, false
	}

	v := r.URL.Query().Get("class")
	if v == "" {
		return bounds, nil, true
	}
	class, err := domain.ParseInstrumentClass(v)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return domain.Range{}, nil, false
	}
	return bounds, &class, true
}

func (s *Server) intQuery(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > maxWindow {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer between 0 and %d", key, maxWindow))
		return 0, false
	}
	return n, true
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
