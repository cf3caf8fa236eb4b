package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// targetRepository implements domain.TargetRepository
type targetRepository struct {
	db *DB
}

// NewTargetRepository creates a new target repository
func NewTargetRepository(db *DB) domain.TargetRepository {
	return &targetRepository{db: db}
}

// Upsert creates the target or replaces the one stored for (class, period)
func (r *targetRepository) Upsert(ctx context.Context, target *domain.Target) error {
	query := `
		INSERT INTO targets (id, instrument_class, period, target_amount, period_start_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (instrument_class, period) DO UPDATE SET
			target_amount = EXCLUDED.target_amount,
			period_start_date = EXCLUDED.period_start_date,
			updated_at = now()
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		target.ID,
		string(target.Class),
		string(target.Period),
		target.TargetAmount.String(),
		optionalDateArg(target.PeriodStartDate),
	).Scan(&target.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert target: %w", err)
	}

	return nil
}

// Get retrieves the target for (class, period)
func (r *targetRepository) Get(ctx context.Context, class domain.InstrumentClass, period domain.Period) (*domain.Target, error) {
	query := `
		SELECT id, instrument_class, period, target_amount, period_start_date
		FROM targets
		WHERE instrument_class = $1 AND period = $2
	`

	target, err := scanTarget(r.db.QueryRowContext(ctx, query, string(class), string(period)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("target %s %s: %w", class, period, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get target: %w", err)
	}

	return target, nil
}

// List retrieves every stored target
func (r *targetRepository) List(ctx context.Context) ([]domain.Target, error) {
	query := `
		SELECT id, instrument_class, period, target_amount, period_start_date
		FROM targets
		ORDER BY instrument_class DESC, period ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	targets := []domain.Target{}
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, *target)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating targets: %w", err)
	}

	return targets, nil
}

// Delete removes the target for (class, period)
func (r *targetRepository) Delete(ctx context.Context, class domain.InstrumentClass, period domain.Period) error {
	query := `DELETE FROM targets WHERE instrument_class = $1 AND period = $2`

	result, err := r.db.ExecContext(ctx, query, string(class), string(period))
	if err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("target %s %s: %w", class, period, domain.ErrNotFound)
	}

	return nil
}

func scanTarget(row rowScanner) (*domain.Target, error) {
	var (
		target    domain.Target
		class     string
		period    string
		amountStr string
		startDate sql.NullTime
	)

	if err := row.Scan(&target.ID, &class, &period, &amountStr, &startDate); err != nil {
		return nil, err
	}

	target.Class = domain.InstrumentClass(class)
	target.Period = domain.Period(period)
	target.PeriodStartDate = parseOptionalDate(startDate)

	amount, err := parseDecimal("target_amount", amountStr)
	if err != nil {
		return nil, err
	}
	target.TargetAmount = amount

	return &target, nil
}
