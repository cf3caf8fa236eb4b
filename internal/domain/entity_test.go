package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Validate(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	huge := decimal.New(1, 50000000)
	tests := []struct {
		name     string
		snapshot Snapshot
		wantErr  bool
		errMsg   string
	}{
		{
			name: "valid stock snapshot",
			snapshot: Snapshot{
				ID:         uuid.New(),
				Date:       MustParseDate("2024-05-15"),
				Class:      InstrumentStock,
				TotalAsset: decimal.NewFromInt(10000),
			},
		},
		{
			name: "zero total asset is allowed",
			snapshot: Snapshot{
				Date:       MustParseDate("2024-05-15"),
				Class:      InstrumentFund,
				TotalAsset: decimal.Zero,
			},
		},
		{
			name:     "missing date",
			snapshot: Snapshot{Class: InstrumentStock, TotalAsset: decimal.NewFromInt(1)},
			wantErr:  true,
			errMsg:   "snapshot date is required",
		},
		{
			name:     "unknown class",
			snapshot: Snapshot{Date: MustParseDate("2024-05-15"), Class: "BOND"},
			wantErr:  true,
			errMsg:   "invalid instrument class",
		},
		{
			name: "negative total asset",
			snapshot: Snapshot{
				Date:       MustParseDate("2024-05-15"),
				Class:      InstrumentStock,
				TotalAsset: decimal.NewFromInt(-5),
			},
			wantErr: true,
			errMsg:  "total asset must not be negative",
		},
		{
			name: "negative market value",
			snapshot: Snapshot{
				Date:             MustParseDate("2024-05-15"),
				Class:            InstrumentStock,
				TotalAsset:       decimal.NewFromInt(5),
				TotalMarketValue: &negative,
			},
			wantErr: true,
			errMsg:  "total market value must not be negative",
		},
		{
			name: "index reference out of range",
			snapshot: Snapshot{
				Date:           MustParseDate("2024-05-15"),
				Class:          InstrumentStock,
				TotalAsset:     decimal.NewFromInt(5),
				IndexReference: &huge,
			},
			wantErr: true,
			errMsg:  "amount out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdjustment_Validate(t *testing.T) {
	tests := []struct {
		name       string
		adjustment Adjustment
		errMsg     string
	}{
		{
			name:       "deposit",
			adjustment: Adjustment{Date: MustParseDate("2024-05-15"), Class: InstrumentStock, Amount: decimal.NewFromInt(1000)},
		},
		{
			name:       "withdrawal",
			adjustment: Adjustment{Date: MustParseDate("2024-05-15"), Class: InstrumentFund, Amount: decimal.NewFromInt(-500)},
		},
		{
			name:       "zero amount",
			adjustment: Adjustment{Date: MustParseDate("2024-05-15"), Class: InstrumentStock},
			errMsg:     "adjustment amount must be non-zero",
		},
		{
			name:       "missing date",
			adjustment: Adjustment{Class: InstrumentStock, Amount: decimal.NewFromInt(1)},
			errMsg:     "adjustment date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.adjustment.Validate()
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTarget_Validate(t *testing.T) {
	valid := Target{Class: InstrumentStock, Period: PeriodMonth, TargetAmount: decimal.NewFromInt(5000)}
	assert.NoError(t, valid.Validate())

	zero := valid
	zero.TargetAmount = decimal.Zero
	assert.ErrorContains(t, zero.Validate(), "target amount must be positive")

	badPeriod := valid
	badPeriod.Period = "DAY"
	assert.ErrorIs(t, badPeriod.Validate(), ErrInvalidPeriod)

	badClass := valid
	badClass.Class = ""
	assert.ErrorIs(t, badClass.Validate(), ErrInvalidInstrumentClass)
}

func TestParseInstrumentClassAndPeriod(t *testing.T) {
	c, err := ParseInstrumentClass("stock")
	assert.NoError(t, err)
	assert.Equal(t, InstrumentStock, c)
	assert.Equal(t, "stock", c.Label())

	_, err = ParseInstrumentClass("crypto")
	assert.ErrorIs(t, err, ErrInvalidInstrumentClass)

	p, err := ParsePeriod("Weekly")
	assert.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("quarter")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
