package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// adjustmentRepository implements domain.AdjustmentRepository
type adjustmentRepository struct {
	db *DB
}

// NewAdjustmentRepository creates a new adjustment repository
func NewAdjustmentRepository(db *DB) domain.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

// Replace deletes every adjustment of (date, class) and inserts adjustment,
// if any, in a single database transaction
func (r *adjustmentRepository) Replace(ctx context.Context, date domain.Date, class domain.InstrumentClass, adjustment *domain.Adjustment) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := replaceAdjustments(ctx, dbTx, date, class, adjustment); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func replaceAdjustments(ctx context.Context, q queryer, date domain.Date, class domain.InstrumentClass, adjustment *domain.Adjustment) error {
	deleteQuery := `DELETE FROM adjustments WHERE date = $1 AND instrument_class = $2`
	if _, err := q.ExecContext(ctx, deleteQuery, dateArg(date), string(class)); err != nil {
		return fmt.Errorf("failed to delete adjustments: %w", err)
	}

	if adjustment == nil {
		return nil
	}

	insertQuery := `
		INSERT INTO adjustments (id, date, instrument_class, amount, notes)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.ExecContext(ctx, insertQuery,
		adjustment.ID,
		dateArg(date),
		string(class),
		adjustment.Amount.String(),
		adjustment.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert adjustment: %w", err)
	}

	return nil
}

// List retrieves adjustments ordered by date, optionally filtered by class
func (r *adjustmentRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Adjustment, error) {
	query := `
		SELECT id, date, instrument_class, amount, notes
		FROM adjustments
		WHERE ($1::text IS NULL OR instrument_class = $1)
		ORDER BY date ASC, created_at ASC
	`

	var classArg sql.NullString
	if class != nil {
		classArg = sql.NullString{String: string(*class), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, classArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	defer rows.Close()

	adjustments := []domain.Adjustment{}
	for rows.Next() {
		var (
			adjustment domain.Adjustment
			date       time.Time
			classStr   string
			amountStr  string
		)
		if err := rows.Scan(&adjustment.ID, &date, &classStr, &amountStr, &adjustment.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan adjustment: %w", err)
		}

		adjustment.Date = domain.DateOf(date)
		adjustment.Class = domain.InstrumentClass(classStr)
		if adjustment.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return nil, err
		}

		adjustments = append(adjustments, adjustment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjustments: %w", err)
	}

	return adjustments, nil
}

// Delete removes a single adjustment by ID
func (r *adjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete adjustment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("adjustment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
