package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// amountNoise lists characters OCR and spreadsheet input tend to carry around numbers
var amountNoise = strings.NewReplacer(
	",", "",
	" ", "",
	"\u00a0", "",
	"¥", "",
	"￥", "",
	"$", "",
	"€", "",
	"元", "",
)

// Amounts hold at most 15 integer digits and 12 decimal places
const (
	maxAmountIntegerDigits = 15
	maxAmountDecimalPlaces = 12

	// lenient input with up to this many decimal places is rounded rather than dropped
	maxRoundedDecimalPlaces = 64
)

// ErrAmountOutOfRange is returned for values with too many digits to store
var ErrAmountOutOfRange = errors.New("amount out of range: at most 15 integer digits and 12 decimal places")

// CheckAmount rejects values beyond the supported magnitude or precision.
// It reads only the coefficient and the exponent, so a value such as 1e50000000
// is rejected without being expanded.
func CheckAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := int(d.Exponent())
	if exp < -maxAmountDecimalPlaces {
		return ErrAmountOutOfRange
	}
	if coefficientDigits(d)+exp > maxAmountIntegerDigits {
		return ErrAmountOutOfRange
	}
	return nil
}

func coefficientDigits(d decimal.Decimal) int {
	c := d.Coefficient()
	return len(c.Abs(c).Text(10))
}

// ParseAmountStrict parses a plain decimal string such as "-1500.25".
// Malformed and out of range values are errors.
func ParseAmountStrict(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseAmount coerces a loosely typed value into a decimal.
// Missing, empty, non-numeric or out of range values become zero; it never fails.
func ParseAmount(v any) decimal.Decimal {
	return bounded(parseAmount(v))
}

// bounded rounds overly precise values to 12 places and zeroes out of range ones
func bounded(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	exp := int(d.Exponent())
	if exp < -maxAmountDecimalPlaces && exp >= -maxRoundedDecimalPlaces {
		d = d.Round(maxAmountDecimalPlaces)
	}
	if CheckAmount(d) != nil {
		return decimal.Zero
	}
	return d
}

func parseAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case uint32:
		return decimal.NewFromInt(int64(x))
	case json.Number:
		return parseAmountString(string(x))
	case string:
		return parseAmountString(x)
	case *string:
		if x == nil {
			return decimal.Zero
		}
		return parseAmountString(*x)
	default:
		return decimal.Zero
	}
}

// ParseOptionalAmount is ParseAmount for optional fields: absent or blank input yields nil
func ParseOptionalAmount(v any) *decimal.Decimal {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	d := ParseAmount(v)
	return &d
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseAmountString(s string) decimal.Decimal {
	s = amountNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
