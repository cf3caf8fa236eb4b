package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target is a profit goal for an instrument class over a period.
// At most one target exists per (Class, Period).
type Target struct {
	ID           uuid.UUID
	Class        InstrumentClass
	Period       Period
	TargetAmount decimal.Decimal

	// PeriodStartDate is kept for records written by older clients.
	// Period boundaries are always calendar based and ignore it.
	PeriodStartDate *Date
}

// Validate ensures the target adheres to domain rules
func (t *Target) Validate() error {
	if !t.Class.Valid() {
		return ErrInvalidInstrumentClass
	}

	if !t.Period.Valid() {
		return ErrInvalidPeriod
	}

	if !t.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}

	return CheckAmount(t.TargetAmount)
}
