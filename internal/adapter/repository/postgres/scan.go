package postgres

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

// dateArg formats a date for a DATE column
func dateArg(d domain.Date) string {
	return d.String()
}

// optionalDateArg maps nil to NULL
func optionalDateArg(d *domain.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

// optionalDecimalArg maps nil to NULL
func optionalDecimalArg(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimal(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return d, nil
}

func parseOptionalDecimal(column string, s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := parseDecimal(column, s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalDate(t sql.NullTime) *domain.Date {
	if !t.Valid {
		return nil
	}
	d := domain.DateOf(t.Time)
	return &d
}
