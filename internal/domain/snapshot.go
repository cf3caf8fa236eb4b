package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is one dated observation of an account for an instrument class.
// At most one snapshot exists per (Date, Class); saving another one for the
// same key replaces it.
type Snapshot struct {
	ID               uuid.UUID
	Date             Date
	Class            InstrumentClass
	TotalAsset       decimal.Decimal  // total account value (cash + securities)
	TotalMarketValue *decimal.Decimal // held-securities value, STOCK only
	IndexReference   *decimal.Decimal // benchmark value, charting only
	Notes            string
}

// Validate ensures the snapshot adheres to domain rules
// Returns an error if validation fails
func (s *Snapshot) Validate() error {
	if s.Date.IsZero() {
		return errors.New("snapshot date is required")
	}

	if !s.Class.Valid() {
		return ErrInvalidInstrumentClass
	}

	if s.TotalAsset.IsNegative() {
		return errors.New("total asset must not be negative")
	}

	if s.TotalMarketValue != nil && s.TotalMarketValue.IsNegative() {
		return errors.New("total market value must not be negative")
	}

	for _, v := range []*decimal.Decimal{&s.TotalAsset, s.TotalMarketValue, s.IndexReference} {
		if v == nil {
			continue
		}
		if err := CheckAmount(*v); err != nil {
			return err
		}
	}

	return nil
}
