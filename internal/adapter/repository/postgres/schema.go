package postgres

import (
	"context"
	"fmt"
)

// schema is applied statement by statement; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id UUID PRIMARY KEY,
		date DATE NOT NULL,
		instrument_class TEXT NOT NULL CHECK (instrument_class IN ('STOCK', 'FUND')),
		total_asset NUMERIC NOT NULL CHECK (total_asset >= 0),
		total_market_value NUMERIC CHECK (total_market_value >= 0),
		index_reference NUMERIC,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (date, instrument_class)
	)`,
	`CREATE TABLE IF NOT EXISTS adjustments (
		id UUID PRIMARY KEY,
		date DATE NOT NULL,
		instrument_class TEXT NOT NULL CHECK (instrument_class IN ('STOCK', 'FUND')),
		amount NUMERIC NOT NULL CHECK (amount <> 0),
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS adjustments_date_class_idx ON adjustments (date, instrument_class)`,
	`CREATE TABLE IF NOT EXISTS targets (
		id UUID PRIMARY KEY,
		instrument_class TEXT NOT NULL CHECK (instrument_class IN ('STOCK', 'FUND')),
		period TEXT NOT NULL CHECK (period IN ('WEEK', 'MONTH', 'YEAR')),
		target_amount NUMERIC NOT NULL CHECK (target_amount > 0),
		period_start_date DATE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (instrument_class, period)
	)`,
}

// Migrate creates the tables the repositories need
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
