package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

const snapshotColumns = `id, date, instrument_class, total_asset, total_market_value, index_reference, notes`

// Upsert creates the snapshot or replaces the one stored for (date, class)
// On conflict the stored ID wins and is written back into snapshot.ID
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) error {
	return upsertSnapshot(ctx, r.db, snapshot)
}

func upsertSnapshot(ctx context.Context, q queryer, snapshot *domain.Snapshot) error {
	query := `
		INSERT INTO snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date, instrument_class) DO UPDATE SET
			total_asset = EXCLUDED.total_asset,
			total_market_value = EXCLUDED.total_market_value,
			index_reference = EXCLUDED.index_reference,
			notes = EXCLUDED.notes,
			updated_at = now()
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		snapshot.ID,
		dateArg(snapshot.Date),
		string(snapshot.Class),
		snapshot.TotalAsset.String(),
		optionalDecimalArg(snapshot.TotalMarketValue),
		optionalDecimalArg(snapshot.IndexReference),
		snapshot.Notes,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// GetByKey retrieves the snapshot stored for (date, class)
func (r *snapshotRepository) GetByKey(ctx context.Context, date domain.Date, class domain.InstrumentClass) (*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE date = $1 AND instrument_class = $2
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query, dateArg(date), string(class)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %s %s: %w", date, class, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return snapshot, nil
}

// List retrieves snapshots ordered by date, optionally filtered by class
func (r *snapshotRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Snapshot, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if class != nil {
		query := `
			SELECT ` + snapshotColumns + `
			FROM snapshots
			WHERE instrument_class = $1
			ORDER BY date ASC, id ASC
		`
		rows, err = r.db.QueryContext(ctx, query, string(*class))
	} else {
		query := `
			SELECT ` + snapshotColumns + `
			FROM snapshots
			ORDER BY date ASC, instrument_class ASC
		`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Delete removes the snapshot for (date, class) and reports whether one existed
func (r *snapshotRepository) Delete(ctx context.Context, date domain.Date, class domain.InstrumentClass) (bool, error) {
	query := `DELETE FROM snapshots WHERE date = $1 AND instrument_class = $2`

	result, err := r.db.ExecContext(ctx, query, dateArg(date), string(class))
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var (
		snapshot    domain.Snapshot
		date        time.Time
		class       string
		assetStr    string
		marketValue sql.NullString
		index       sql.NullString
	)

	if err := row.Scan(&snapshot.ID, &date, &class, &assetStr, &marketValue, &index, &snapshot.Notes); err != nil {
		return nil, err
	}

	snapshot.Date = domain.DateOf(date)
	snapshot.Class = domain.InstrumentClass(class)

	var err error
	if snapshot.TotalAsset, err = parseDecimal("total_asset", assetStr); err != nil {
		return nil, err
	}
	if snapshot.TotalMarketValue, err = parseOptionalDecimal("total_market_value", marketValue); err != nil {
		return nil, err
	}
	if snapshot.IndexReference, err = parseOptionalDecimal("index_reference", index); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
