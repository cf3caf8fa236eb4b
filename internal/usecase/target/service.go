// Package target tracks period profit goals per instrument class.
package target

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/pnl"
)

// TargetService handles target persistence and progress evaluation
type TargetService struct {
	TargetRepo     domain.TargetRepository
	SnapshotRepo   domain.SnapshotRepository
	AdjustmentRepo domain.AdjustmentRepository

	// Now is the clock used to resolve the current period
	Now func() time.Time

	log zerolog.Logger
}

// NewTargetService creates a new TargetService instance
func NewTargetService(targetRepo domain.TargetRepository, snapshotRepo domain.SnapshotRepository, adjustmentRepo domain.AdjustmentRepository, log zerolog.Logger) *TargetService {
	return &TargetService{
		TargetRepo:     targetRepo,
		SnapshotRepo:   snapshotRepo,
		AdjustmentRepo: adjustmentRepo,
		Now:            time.Now,
		log:            log.With().Str("component", "target").Logger(),
	}
}

// SetTarget creates or replaces the target of (class, period)
// The stored ID is kept when a target already exists for the key.
func (s *TargetService) SetTarget(ctx context.Context, class domain.InstrumentClass, period domain.Period, amount decimal.Decimal, periodStart *domain.Date) (*domain.Target, error) {
	t := &domain.Target{
		ID:              uuid.New(),
		Class:           class,
		Period:          period,
		TargetAmount:    amount,
		PeriodStartDate: periodStart,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.TargetRepo.Get(ctx, class, period)
	switch {
	case err == nil:
		t.ID = existing.ID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if err := s.TargetRepo.Upsert(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("class", string(class)).
		Str("period", string(period)).
		Str("amount", amount.String()).
		Msg("Target saved")

	return t, nil
}

// DeleteTarget removes the target of (class, period)
func (s *TargetService) DeleteTarget(ctx context.Context, class domain.InstrumentClass, period domain.Period) error {
	if err := s.TargetRepo.Delete(ctx, class, period); err != nil {
		return err
	}
	s.log.Info().Str("class", string(class)).Str("period", string(period)).Msg("Target deleted")
	return nil
}

// ListProgress evaluates every stored target against the current period
// Records and adjustments are fetched once for the whole list.
func (s *TargetService) ListProgress(ctx context.Context) ([]Progress, error) {
	targets, err := s.TargetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	if len(targets) == 0 {
		return []Progress{}, nil
	}

	records, err := s.SnapshotRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	adjustments, err := s.AdjustmentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}

	return ProgressAll(pnl.NewLedger(records, adjustments), targets, domain.DateOf(s.Now())), nil
}

// ProgressAll evaluates targets in class, then period order
func ProgressAll(ledger *pnl.Ledger, targets []domain.Target, today domain.Date) []Progress {
	out := make([]Progress, 0, len(targets))
	for _, class := range domain.InstrumentClasses {
		for _, period := range domain.Periods {
			for _, t := range targets {
				if t.Class == class && t.Period == period {
					out = append(out, Evaluate(ledger, t, today))
				}
			}
		}
	}
	return out
}
