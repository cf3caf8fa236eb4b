package domain

import (
	"errors"
	"strings"
)

// InstrumentClass partitions every series in the system.
// Stock and fund histories are wholly independent: profit/loss,
// adjustments and targets never mix across classes.
type InstrumentClass string

const (
	InstrumentStock InstrumentClass = "STOCK"
	InstrumentFund  InstrumentClass = "FUND"
)

// InstrumentClasses lists every class in display order
var InstrumentClasses = []InstrumentClass{InstrumentStock, InstrumentFund}

// ErrInvalidInstrumentClass is returned for anything other than stock or fund
var ErrInvalidInstrumentClass = errors.New("invalid instrument class: must be STOCK or FUND")

// ParseInstrumentClass accepts "stock"/"fund" in any case
func ParseInstrumentClass(s string) (InstrumentClass, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(InstrumentStock):
		return InstrumentStock, nil
	case string(InstrumentFund):
		return InstrumentFund, nil
	default:
		return "", ErrInvalidInstrumentClass
	}
}

// Valid reports whether c is one of the known classes
func (c InstrumentClass) Valid() bool {
	return c == InstrumentStock || c == InstrumentFund
}

// Label is the lower-case name used in exports and reports
func (c InstrumentClass) Label() string {
	return strings.ToLower(string(c))
}
