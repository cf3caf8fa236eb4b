// Package journal records daily snapshots and capital adjustments.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// Entry is one day of the journal for one class: the account snapshot and,
// optionally, the net capital added (positive) or withdrawn (negative)
type Entry struct {
	Snapshot   domain.Snapshot
	Adjustment *decimal.Decimal
	// AdjustmentNotes defaults to the snapshot notes when empty
	AdjustmentNotes string
}

// JournalService handles snapshot and adjustment persistence
type JournalService struct {
	SnapshotRepo   domain.SnapshotRepository
	AdjustmentRepo domain.AdjustmentRepository
	DayRepo        domain.DayRepository

	log zerolog.Logger
}

// NewJournalService creates a new JournalService instance
func NewJournalService(snapshotRepo domain.SnapshotRepository, adjustmentRepo domain.AdjustmentRepository, dayRepo domain.DayRepository, log zerolog.Logger) *JournalService {
	return &JournalService{
		SnapshotRepo:   snapshotRepo,
		AdjustmentRepo: adjustmentRepo,
		DayRepo:        dayRepo,
		log:            log.With().Str("component", "journal").Logger(),
	}
}

// SaveSnapshot validates and stores a snapshot
// Logic:
//   - FUND snapshots carry no market value, any provided one is dropped
//   - a snapshot already stored for (date, class) is replaced and keeps its ID
func (s *JournalService) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := prepareSnapshot(snapshot); err != nil {
		return err
	}

	if err := s.SnapshotRepo.Upsert(ctx, snapshot); err != nil {
		return err
	}

	s.log.Info().
		Str("date", snapshot.Date.String()).
		Str("class", string(snapshot.Class)).
		Str("total_asset", snapshot.TotalAsset.String()).
		Msg("Snapshot saved")

	return nil
}

func prepareSnapshot(snapshot *domain.Snapshot) error {
	if snapshot.Class == domain.InstrumentFund {
		snapshot.TotalMarketValue = nil
	}

	if err := snapshot.Validate(); err != nil {
		return err
	}

	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	return nil
}

// DeleteSnapshot removes the snapshot of (date, class)
// Returns domain.ErrNotFound when nothing was stored for the key.
func (s *JournalService) DeleteSnapshot(ctx context.Context, date domain.Date, class domain.InstrumentClass) error {
	if !class.Valid() {
		return domain.ErrInvalidInstrumentClass
	}

	deleted, err := s.SnapshotRepo.Delete(ctx, date, class)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info().Str("date", date.String()).Str("class", string(class)).Msg("Snapshot deleted")
	return nil
}

// SaveAdjustment records the net capital flow of (date, class)
// Logic:
//   - every adjustment previously stored for the key is replaced
//   - a zero amount stores nothing, which clears the key; nil is returned
func (s *JournalService) SaveAdjustment(ctx context.Context, date domain.Date, class domain.InstrumentClass, amount decimal.Decimal, notes string) (*domain.Adjustment, error) {
	if amount.IsZero() {
		if date.IsZero() {
			return nil, errors.New("adjustment date is required")
		}
		if !class.Valid() {
			return nil, domain.ErrInvalidInstrumentClass
		}
		if err := s.AdjustmentRepo.Replace(ctx, date, class, nil); err != nil {
			return nil, err
		}
		s.log.Info().Str("date", date.String()).Str("class", string(class)).Msg("Adjustment cleared")
		return nil, nil
	}

	adjustment := &domain.Adjustment{
		ID:     uuid.New(),
		Date:   date,
		Class:  class,
		Amount: amount,
		Notes:  notes,
	}
	if err := adjustment.Validate(); err != nil {
		return nil, err
	}

	if err := s.AdjustmentRepo.Replace(ctx, date, class, adjustment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("date", date.String()).
		Str("class", string(class)).
		Str("amount", amount.String()).
		Msg("Adjustment saved")

	return adjustment, nil
}

// DeleteAdjustment removes a single adjustment by ID
// Returns domain.ErrNotFound when no adjustment has that ID.
func (s *JournalService) DeleteAdjustment(ctx context.Context, id uuid.UUID) error {
	if err := s.AdjustmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id.String()).Msg("Adjustment deleted")
	return nil
}

// ListAdjustments returns stored adjustments ordered by date, optionally for one class
func (s *JournalService) ListAdjustments(ctx context.Context, class *domain.InstrumentClass) ([]domain.Adjustment, error) {
	if class != nil && !class.Valid() {
		return nil, domain.ErrInvalidInstrumentClass
	}
	return s.AdjustmentRepo.List(ctx, class)
}

// RecordDay saves the snapshot of an entry together with its adjustment.
// An entry without adjustment clears whatever was stored for the day.
// Both are validated first and written in one transaction.
func (s *JournalService) RecordDay(ctx context.Context, entry Entry) (*domain.Snapshot, *domain.Adjustment, error) {
	snapshot := entry.Snapshot
	if err := prepareSnapshot(&snapshot); err != nil {
		return nil, nil, err
	}

	var adjustment *domain.Adjustment
	if entry.Adjustment != nil && !entry.Adjustment.IsZero() {
		notes := entry.AdjustmentNotes
		if notes == "" {
			notes = snapshot.Notes
		}
		adjustment = &domain.Adjustment{
			ID:     uuid.New(),
			Date:   snapshot.Date,
			Class:  snapshot.Class,
			Amount: *entry.Adjustment,
			Notes:  notes,
		}
		if err := adjustment.Validate(); err != nil {
			return nil, nil, err
		}
	}

	if err := s.DayRepo.SaveDay(ctx, &snapshot, adjustment); err != nil {
		return nil, nil, err
	}

	event := s.log.Info().
		Str("date", snapshot.Date.String()).
		Str("class", string(snapshot.Class)).
		Str("total_asset", snapshot.TotalAsset.String())
	if adjustment != nil {
		event = event.Str("adjustment", adjustment.Amount.String())
	}
	event.Msg("Day recorded")

	return &snapshot, adjustment, nil
}

// ImportSnapshots saves snapshots in order and stops at the first failure.
// Adjustments are left untouched. It returns how many snapshots were stored.
func (s *JournalService) ImportSnapshots(ctx context.Context, snapshots []domain.Snapshot) (int, error) {
	for i := range snapshots {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		snapshot := snapshots[i]
		if err := s.SaveSnapshot(ctx, &snapshot); err != nil {
			return i, fmt.Errorf("row %d (%s %s): %w", i+1, snapshot.Date, snapshot.Class, err)
		}
	}
	s.log.Info().Int("snapshots", len(snapshots)).Msg("Snapshots imported")
	return len(snapshots), nil
}
