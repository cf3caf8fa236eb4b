package domain

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotRepository defines the interface for snapshot persistence operations
type SnapshotRepository interface {
	// Upsert creates the snapshot or replaces the one stored for the same (date, class).
	// On replace the stored ID is kept and written back into snapshot.ID.
	Upsert(ctx context.Context, snapshot *Snapshot) error

	// GetByKey retrieves the snapshot stored for (date, class)
	// Returns ErrNotFound when none exists
	GetByKey(ctx context.Context, date Date, class InstrumentClass) (*Snapshot, error)

	// List retrieves snapshots ordered by date, optionally filtered by class
	// If class is nil, returns snapshots of every class
	List(ctx context.Context, class *InstrumentClass) ([]Snapshot, error)

	// Delete removes the snapshot for (date, class) and reports whether one existed
	Delete(ctx context.Context, date Date, class InstrumentClass) (bool, error)
}

// AdjustmentRepository defines the interface for adjustment persistence operations
type AdjustmentRepository interface {
	// Replace removes every adjustment stored for (date, class) and, if adjustment
	// is not nil, inserts it. Both steps happen atomically.
	Replace(ctx context.Context, date Date, class InstrumentClass, adjustment *Adjustment) error

	// List retrieves adjustments ordered by date, optionally filtered by class
	List(ctx context.Context, class *InstrumentClass) ([]Adjustment, error)

	// Delete removes a single adjustment by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// DayRepository persists one journal day in a single transaction
type DayRepository interface {
	// SaveDay upserts snapshot like SnapshotRepository.Upsert and replaces the
	// adjustments of its (date, class) like AdjustmentRepository.Replace.
	// Either both writes are stored or neither is.
	SaveDay(ctx context.Context, snapshot *Snapshot, adjustment *Adjustment) error
}

// TargetRepository defines the interface for target persistence operations
type TargetRepository interface {
	// Upsert creates the target or replaces the one stored for the same (class, period)
	Upsert(ctx context.Context, target *Target) error

	// Get retrieves the target for (class, period)
	// Returns ErrNotFound when none exists
	Get(ctx context.Context, class InstrumentClass, period Period) (*Target, error)

	// List retrieves every stored target
	List(ctx context.Context) ([]Target, error)

	// Delete removes the target for (class, period)
	Delete(ctx context.Context, class InstrumentClass, period Period) error
}
