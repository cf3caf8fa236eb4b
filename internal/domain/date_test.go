package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "iso date", input: "2024-05-15", want: NewDate(2024, time.May, 15)},
		{name: "single digit month and day", input: "2024-5-3", want: NewDate(2024, time.May, 3)},
		{name: "surrounding whitespace", input: " 2024-01-31 ", want: NewDate(2024, time.January, 31)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "15/05/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_StartAndEndOfPeriod(t *testing.T) {
	wednesday := NewDate(2024, time.May, 15)
	sunday := NewDate(2024, time.May, 19)
	leap := NewDate(2024, time.February, 10)

	assert.Equal(t, "2024-05-13", wednesday.StartOf(PeriodWeek).String())
	assert.Equal(t, "2024-05-19", wednesday.EndOf(PeriodWeek).String())
	assert.Equal(t, "2024-05-13", sunday.StartOf(PeriodWeek).String(), "sunday belongs to the week that started on monday")
	assert.Equal(t, "2024-02-01", leap.StartOf(PeriodMonth).String())
	assert.Equal(t, "2024-02-29", leap.EndOf(PeriodMonth).String())
	assert.Equal(t, "2024-01-01", leap.StartOf(PeriodYear).String())
	assert.Equal(t, "2024-12-31", leap.EndOf(PeriodYear).String())
}

func TestDate_Compare(t *testing.T) {
	a := MustParseDate("2023-12-31")
	b := MustParseDate("2024-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, b, a.Add(1))
}

func TestRange(t *testing.T) {
	r := NewRange(MustParseDate("2024-03-10"), MustParseDate("2024-03-01"))

	assert.Equal(t, "2024-03-01", r.From.String(), "reversed bounds are swapped")
	assert.True(t, r.Contains(MustParseDate("2024-03-01")))
	assert.True(t, r.Contains(MustParseDate("2024-03-10")))
	assert.False(t, r.Contains(MustParseDate("2024-03-11")))
	assert.Equal(t, 10, r.Days())

	assert.Equal(t, "2023-02-28", MonthRange(2023, time.February).To.String())
	assert.Equal(t, "2024-01-01..2024-12-31", YearRange(2024).String())
}

func TestDate_TextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-07-04")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-04", string(b))
	assert.Error(t, d.UnmarshalText([]byte("not-a-date")))
}

func TestOpenRange(t *testing.T) {
	d := MustParseDate("2024-05-15")

	r := OpenRange(Date{}, d)
	assert.True(t, r.Contains(MustParseDate("1990-01-01")))
	assert.False(t, r.Contains(d.Add(1)))

	r = OpenRange(d, Date{})
	assert.True(t, r.Contains(MustParseDate("2100-12-31")))
	assert.False(t, r.Contains(d.Add(-1)))

	assert.True(t, OpenRange(Date{}, Date{}).Contains(d))
}
