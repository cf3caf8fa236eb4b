package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/comparison"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
	"github.com/simaogato/wealthlog-backend/internal/usecase/target"
)

// Overview is the landing view: current account values, the profit of a
// range and the progress of every target
type Overview struct {
	Range         domain.Range
	CurrentAssets map[domain.InstrumentClass]decimal.Decimal
	Summary       stats.Summary
	Targets       []target.Progress
}

// DashboardService serves read-side views. Every call fetches snapshots and
// adjustments once and computes everything from that single view.
type DashboardService struct {
	SnapshotRepo   domain.SnapshotRepository
	AdjustmentRepo domain.AdjustmentRepository
	TargetRepo     domain.TargetRepository

	// Now is the clock used to resolve target periods
	Now func() time.Time
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	snapshotRepo domain.SnapshotRepository,
	adjustmentRepo domain.AdjustmentRepository,
	targetRepo domain.TargetRepository,
) *DashboardService {
	return &DashboardService{
		SnapshotRepo:   snapshotRepo,
		AdjustmentRepo: adjustmentRepo,
		TargetRepo:     targetRepo,
		Now:            time.Now,
	}
}

// Ledger fetches every snapshot and adjustment into a ledger
func (s *DashboardService) Ledger(ctx context.Context) (*pnl.Ledger, error) {
	records, err := s.SnapshotRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	adjustments, err := s.AdjustmentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}

	return pnl.NewLedger(records, adjustments), nil
}

// PeriodStats aggregates both classes over bounds
func (s *DashboardService) PeriodStats(ctx context.Context, bounds domain.Range, opts stats.Options) (*stats.Summary, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	summary := stats.SummarizeLedger(ledger, bounds, opts)
	return &summary, nil
}

// MonthlyStats aggregates a calendar month
func (s *DashboardService) MonthlyStats(ctx context.Context, year int, month time.Month) (*stats.Summary, error) {
	return s.PeriodStats(ctx, domain.MonthRange(year, month), stats.Options{})
}

// YearlyStats aggregates a calendar year, annualized
func (s *DashboardService) YearlyStats(ctx context.Context, year int) (*stats.Summary, error) {
	return s.PeriodStats(ctx, domain.YearRange(year), stats.Options{Annualize: true})
}

// Compare puts two ranges side by side
// Returns comparison.ErrNoData when either range holds no snapshot.
func (s *DashboardService) Compare(ctx context.Context, a, b domain.Range) (*comparison.Result, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return comparison.CompareLedger(ledger, a, b)
}

// History lists the snapshots of bounds with their daily profit/loss, newest first
func (s *DashboardService) History(ctx context.Context, bounds domain.Range, class *domain.InstrumentClass) ([]report.Row, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return report.History(ledger, bounds, class), nil
}

// Chart builds the cumulative % series of bounds.
// A valid group keeps only the last snapshot of each calendar period per class.
func (s *DashboardService) Chart(ctx context.Context, bounds domain.Range, group domain.Period) ([]report.ChartPoint, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	if group.Valid() {
		var grouped []domain.Snapshot
		for _, class := range domain.InstrumentClasses {
			grouped = append(grouped, report.AggregateByPeriod(ledger.InRange(class, bounds), group)...)
		}
		ledger = pnl.NewLedger(grouped, nil)
	}
	return report.Chart(ledger, bounds), nil
}

// AvailablePeriods lists the months and years that hold data
func (s *DashboardService) AvailablePeriods(ctx context.Context) (stats.Periods, error) {
	records, err := s.SnapshotRepo.List(ctx, nil)
	if err != nil {
		return stats.Periods{}, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return stats.AvailablePeriods(records), nil
}

// GetOverview builds the landing view for bounds
// Logic:
//   - CurrentAssets: total asset of the latest snapshot of each class, whatever bounds is
//   - Summary: stats of bounds
//   - Targets: progress of every target over its current calendar period
func (s *DashboardService) GetOverview(ctx context.Context, bounds domain.Range) (*Overview, error) {
	targets, err := s.TargetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	current := make(map[domain.InstrumentClass]decimal.Decimal, len(domain.InstrumentClasses))
	for _, class := range domain.InstrumentClasses {
		current[class] = decimal.Zero
		if latest := ledger.Latest(class); latest != nil {
			current[class] = latest.TotalAsset
		}
	}

	return &Overview{
		Range:         bounds,
		CurrentAssets: current,
		Summary:       stats.SummarizeLedger(ledger, bounds, stats.Options{}),
		Targets:       target.ProgressAll(ledger, targets, domain.DateOf(s.Now())),
	}, nil
}
