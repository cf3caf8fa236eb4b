package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Adjustment is a signed capital flow for a class on a date.
// Positive amounts are capital added, negative amounts capital withdrawn.
// An adjustment with a zero amount is never stored.
type Adjustment struct {
	ID     uuid.UUID
	Date   Date
	Class  InstrumentClass
	Amount decimal.Decimal
	Notes  string
}

// Validate ensures the adjustment adheres to domain rules
func (a *Adjustment) Validate() error {
	if a.Date.IsZero() {
		return errors.New("adjustment date is required")
	}

	if !a.Class.Valid() {
		return ErrInvalidInstrumentClass
	}

	if a.Amount.IsZero() {
		return errors.New("adjustment amount must be non-zero")
	}

	return CheckAmount(a.Amount)
}
