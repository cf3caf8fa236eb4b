package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/comparison"
	"github.com/simaogato/wealthlog-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthlog-backend/internal/usecase/journal"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

// Server implements the JournalService gRPC server
type Server struct {
	JournalService   *journal.JournalService
	TargetService    *target.TargetService
	DashboardService *dashboard.DashboardService
}

var _ JournalServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	journalService *journal.JournalService,
	targetService *target.TargetService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		JournalService:   journalService,
		TargetService:    targetService,
		DashboardService: dashboardService,
	}
}

// SaveSnapshot handles the SaveSnapshot RPC.
// An "adjustment" field records the capital flow of the same day; leaving it
// out clears any adjustment stored for the day.
func (s *Server) SaveSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	date, err := dateField(req, "date")
	if err != nil {
		return nil, err
	}
	class, err := classField(req, "class")
	if err != nil {
		return nil, err
	}
	totalAsset, err := decimalField(req, "total_asset")
	if err != nil {
		return nil, err
	}
	marketValue, err := optionalDecimalField(req, "total_market_value")
	if err != nil {
		return nil, err
	}
	index, err := optionalDecimalField(req, "index_reference")
	if err != nil {
		return nil, err
	}
	adjustment, err := optionalDecimalField(req, "adjustment")
	if err != nil {
		return nil, err
	}

	entry := journal.Entry{
		Snapshot: domain.Snapshot{
			Date:             date,
			Class:            class,
			TotalAsset:       totalAsset,
			TotalMarketValue: marketValue,
			IndexReference:   index,
			Notes:            stringField(req, "notes"),
		},
		Adjustment:      adjustment,
		AdjustmentNotes: stringField(req, "adjustment_notes"),
	}

	snapshot, saved, err := s.JournalService.RecordDay(ctx, entry)
	if err != nil {
		return nil, mapError(err)
	}

	resp := map[string]interface{}{
		"id":    snapshot.ID.String(),
		"date":  snapshot.Date.String(),
		"class": string(snapshot.Class),
	}
	if saved != nil {
		resp["adjustment_id"] = saved.ID.String()
	}
	return newStruct(resp)
}

// DeleteSnapshot handles the DeleteSnapshot RPC
func (s *Server) DeleteSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	date, err := dateField(req, "date")
	if err != nil {
		return nil, err
	}
	class, err := classField(req, "class")
	if err != nil {
		return nil, err
	}

	if err := s.JournalService.DeleteSnapshot(ctx, date, class); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"deleted": true})
}

// SaveAdjustment handles the SaveAdjustment RPC. A zero amount clears the day.
func (s *Server) SaveAdjustment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	date, err := dateField(req, "date")
	if err != nil {
		return nil, err
	}
	class, err := classField(req, "class")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	adjustment, err := s.JournalService.SaveAdjustment(ctx, date, class, amount, stringField(req, "notes"))
	if err != nil {
		return nil, mapError(err)
	}

	if adjustment == nil {
		return newStruct(map[string]interface{}{"cleared": true})
	}
	return newStruct(map[string]interface{}{
		"id":     adjustment.ID.String(),
		"amount": adjustment.Amount.String(),
	})
}

// DeleteAdjustment handles the DeleteAdjustment RPC
func (s *Server) DeleteAdjustment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	if err := s.JournalService.DeleteAdjustment(ctx, id); err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"deleted": true})
}

// SetTarget handles the SetTarget RPC
func (s *Server) SetTarget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	class, err := classField(req, "class")
	if err != nil {
		return nil, err
	}
	period, err := periodField(req, "period")
	if err != nil {
		return nil, err
	}
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}
	start, err := optionalDateField(req, "period_start_date")
	if err != nil {
		return nil, err
	}
	var periodStart *domain.Date
	if !start.IsZero() {
		periodStart = &start
	}

	t, err := s.TargetService.SetTarget(ctx, class, period, amount, periodStart)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(targetValue(*t))
}

// GetPeriodStats handles the GetPeriodStats RPC.
// Missing "from"/"to" leave that side of the range open.
func (s *Server) GetPeriodStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bounds, err := rangeField(req, "")
	if err != nil {
		return nil, err
	}

	opts := stats.Options{
		Annualize:         boolField(req, "annualize"),
		AnchorBeforeRange: boolField(req, "anchor_before_range"),
	}
	summary, err := s.DashboardService.PeriodStats(ctx, bounds, opts)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(summaryValue(*summary))
}

// CompareRanges handles the CompareRanges RPC
func (s *Server) CompareRanges(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, err := requiredRangeField(req, "a_")
	if err != nil {
		return nil, err
	}
	b, err := requiredRangeField(req, "b_")
	if err != nil {
		return nil, err
	}

	result, err := s.DashboardService.Compare(ctx, a, b)
	if err != nil {
		return nil, mapError(err)
	}

	delta := result.Delta()
	return newStruct(map[string]interface{}{
		"a": summaryValue(result.A),
		"b": summaryValue(result.B),
		"delta": map[string]interface{}{
			"stock_profit_loss": delta.StockProfitLoss.String(),
			"fund_profit_loss":  delta.FundProfitLoss.String(),
			"total_profit_loss": delta.TotalProfitLoss.String(),
			"stock_win_rate":    delta.StockWinRate,
			"fund_win_rate":     delta.FundWinRate,
			"stock_return_rate": delta.StockReturnRate,
			"fund_return_rate":  delta.FundReturnRate,
			"total_return_rate": delta.TotalReturnRate,
		},
	})
}

// ListTargetProgress handles the ListTargetProgress RPC
func (s *Server) ListTargetProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	progress, err := s.TargetService.ListProgress(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]interface{}{"targets": progressValues(progress)})
}

// ListHistory handles the ListHistory RPC
func (s *Server) ListHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bounds, err := rangeField(req, "")
	if err != nil {
		return nil, err
	}
	class, err := optionalClassField(req, "class")
	if err != nil {
		return nil, err
	}

	rows, err := s.DashboardService.History(ctx, bounds, class)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowValue(row))
	}

	return newStruct(map[string]interface{}{"rows": items})
}

// GetOverview handles the GetOverview RPC: the latest total asset of each
// class, the stats of the requested range and every target's progress
func (s *Server) GetOverview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bounds, err := rangeField(req, "")
	if err != nil {
		return nil, err
	}

	overview, err := s.DashboardService.GetOverview(ctx, bounds)
	if err != nil {
		return nil, mapError(err)
	}

	current := make(map[string]interface{}, len(overview.CurrentAssets))
	for class, asset := range overview.CurrentAssets {
		current[class.Label()] = asset.String()
	}

	return newStruct(map[string]interface{}{
		"current_assets": current,
		"summary":        summaryValue(overview.Summary),
		"targets":        progressValues(overview.Targets),
	})
}

func progressValues(progress []target.Progress) []interface{} {
	items := make([]interface{}, 0, len(progress))
	for _, p := range progress {
		item := targetValue(p.Target)
		item["range"] = rangeValue(p.Range)
		item["actual_profit"] = p.ActualProfit.String()
		item["percentage"] = p.Percentage
		item["is_achieved"] = p.IsAchieved
		item["remaining"] = p.Remaining.String()
		items = append(items, item)
	}
	return items
}

func targetValue(t domain.Target) map[string]interface{} {
	return map[string]interface{}{
		"id":                t.ID.String(),
		"class":             string(t.Class),
		"period":            string(t.Period),
		"amount":            t.TargetAmount.String(),
		"period_start_date": optionalDateValue(t.PeriodStartDate),
	}
}

func classStatsValue(c stats.ClassStats) map[string]interface{} {
	return map[string]interface{}{
		"profit_loss":       c.ProfitLoss.String(),
		"days":              c.Days,
		"win_rate":          c.WinRate,
		"max_drawdown":      c.MaxDrawdown,
		"start_asset":       c.StartAsset.String(),
		"end_asset":         c.EndAsset.String(),
		"return_rate":       c.ReturnRate,
		"annualized_return": c.AnnualizedReturn,
		"volatility":        c.Volatility,
	}
}

func summaryValue(s stats.Summary) map[string]interface{} {
	return map[string]interface{}{
		"range": rangeValue(s.Range),
		"stock": classStatsValue(s.Stock),
		"fund":  classStatsValue(s.Fund),
		"total": map[string]interface{}{
			"profit_loss": s.Total.ProfitLoss.String(),
			"days":        s.Total.Days,
			"start_asset": s.Total.StartAsset.String(),
			"end_asset":   s.Total.EndAsset.String(),
			"return_rate": s.Total.ReturnRate,
		},
	}
}

func rowValue(row report.Row) map[string]interface{} {
	return map[string]interface{}{
		"date":               row.Date.String(),
		"class":              string(row.Class),
		"total_asset":        row.TotalAsset.String(),
		"total_market_value": optionalDecimalValue(row.TotalMarketValue),
		"index_reference":    optionalDecimalValue(row.IndexReference),
		"adjustment":         row.Adjustment.String(),
		"profit_loss":        row.ProfitLoss.String(),
		"notes":              row.Notes,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, comparison.ErrNoData):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrInvalidInstrumentClass), errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrAmountOutOfRange):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Domain rules are plain errors.New values
	if strings.Contains(errorMsg, "must be positive") ||
		strings.Contains(errorMsg, "must not be negative") ||
		strings.Contains(errorMsg, "must be non-zero") ||
		strings.Contains(errorMsg, "is required") ||
		strings.Contains(errorMsg, "invalid") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	return status.Errorf(codes.Internal, "%s", errorMsg)
}
