package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured
const DefaultCurrency = "CNY"

// FormatMoney renders amount with the currency's grapheme, thousands
// separator and fraction digits. Unknown codes fall back to DefaultCurrency.
// With signed, non-negative amounts get a leading "+".
func FormatMoney(amount decimal.Decimal, currency string, signed bool) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	s := cur.Formatter().Format(minor)

	if signed && minor >= 0 {
		return "+" + s
	}
	return s
}

// FormatPercent renders a percentage with two decimals
func FormatPercent(v float64, signed bool) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.StringFixed(2) + "%"
	if signed && !d.IsNegative() {
		return "+" + s
	}
	return s
}
