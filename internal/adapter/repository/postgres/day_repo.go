package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// queryer is satisfied by both *DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// dayRepository implements domain.DayRepository
type dayRepository struct {
	db *DB
}

// NewDayRepository creates a new day repository
func NewDayRepository(db *DB) domain.DayRepository {
	return &dayRepository{db: db}
}

// SaveDay upserts the snapshot and replaces the adjustments of its (date, class)
// in a single database transaction
func (r *dayRepository) SaveDay(ctx context.Context, snapshot *domain.Snapshot, adjustment *domain.Adjustment) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := upsertSnapshot(ctx, dbTx, snapshot); err != nil {
		return err
	}

	if err := replaceAdjustments(ctx, dbTx, snapshot.Date, snapshot.Class, adjustment); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
