/*
generic_test.go - Tests for the shared value types

ORGANIZATION:
  1. Amount - hour/minute conversion and rounding
  2. TimePoint - calendar arithmetic
  3. Period - day ranges and pay-period tiling
  4. Holidays - fixed and recurring calendar entries
  5. Errors - not-found classification

Each test has GIVEN/WHEN/THEN comments where the scenario is not obvious.
*/
package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/generic"
)

func date(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// =============================================================================
// 1. AMOUNT
// =============================================================================

func TestMinutesToHours(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0.00"},
		{480, "8.00"},
		{495, "8.25"},
		{510, "8.50"},
		{1, "0.02"},  // 0.01666 rounds up
		{20, "0.33"}, // 0.3333 rounds down
		{25, "0.42"}, // 0.41666 rounds up
		{3, "0.05"},  // 0.05 exactly
	}
	for _, tt := range tests {
		got := generic.MinutesToHours(tt.minutes)
		assert.Equal(t, tt.want, got.String(), "minutes=%d", tt.minutes)
		assert.Equal(t, generic.UnitHours, got.Unit)
	}
}

func TestHoursToMinutes(t *testing.T) {
	assert.Equal(t, 480, generic.HoursToMinutes(decimal.NewFromInt(8)))
	assert.Equal(t, 495, generic.HoursToMinutes(decimal.RequireFromString("8.25")))
	assert.Equal(t, 20, generic.HoursToMinutes(decimal.RequireFromString("0.33")))
}

func TestRoundHalfUp(t *testing.T) {
	a := generic.Amount{Value: decimal.RequireFromString("2.125"), Unit: generic.UnitHours}
	assert.Equal(t, "2.13", a.RoundHalfUp(2).String())

	b := generic.Amount{Value: decimal.RequireFromString("2.124"), Unit: generic.UnitHours}
	assert.Equal(t, "2.12", b.RoundHalfUp(2).String())
}

func TestAmountArithmetic(t *testing.T) {
	eight := generic.NewHours(8)
	half := generic.NewHours(0.5)

	assert.Equal(t, "8.50", eight.Add(half).String())
	assert.Equal(t, "7.50", eight.Sub(half).String())
	assert.Equal(t, "12.00", eight.Mul(decimal.RequireFromString("1.5")).String())
	assert.True(t, half.LessThan(eight))
	assert.True(t, generic.ZeroHours().IsZero())
	assert.True(t, half.Sub(eight).IsNegative())

	total := generic.SumAmounts(generic.UnitHours, eight, eight, half)
	assert.Equal(t, "16.50", total.String())
	assert.Equal(t, generic.UnitHours, total.Unit)
}

func TestMustParseDecimal(t *testing.T) {
	assert.True(t, generic.MustParseDecimal("1.5").Equal(decimal.RequireFromString("1.5")))
	assert.True(t, generic.MustParseDecimal("nope").IsZero())
}

// =============================================================================
// 2. TIME POINT
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	for _, bad := range []string{"", "2025-1-6", "06/01/2025", "2025-02-30"} {
		_, err := generic.ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimePoint_Calendar(t *testing.T) {
	mon := date(2025, time.January, 6)

	assert.Equal(t, "2025-01-11", mon.AddDays(5).String())
	assert.True(t, mon.AddDays(5).IsWeekend())
	assert.True(t, mon.IsWorkday())
	assert.Equal(t, 13, generic.DaysBetween(mon, mon.AddDays(13)))
	assert.Equal(t, -7, generic.DaysBetween(mon, mon.AddDays(-7)))

	// Monday of the week
	assert.True(t, date(2025, time.January, 12).Monday().Equal(mon))
	assert.True(t, date(2025, time.January, 8).Monday().Equal(mon))
	assert.True(t, mon.Monday().Equal(mon))

	// Time of day is ignored
	noon := generic.FromTime(time.Date(2025, time.January, 6, 12, 30, 0, 0, time.UTC))
	assert.True(t, noon.Equal(mon))
	assert.True(t, mon.BeforeOrEqual(noon))
	assert.True(t, mon.AfterOrEqual(noon))
}

// =============================================================================
// 3. PERIOD
// =============================================================================

func TestPeriod_Days(t *testing.T) {
	// GIVEN: a biweekly pay period starting on a Monday
	p := generic.NewPeriod(date(2025, time.January, 6), 14)

	// THEN: it spans 14 days with 10 workdays
	assert.Equal(t, "2025-01-19", p.End.String())
	assert.Equal(t, 14, p.Length())
	assert.Len(t, p.Days(), 14)

	workdays := p.Workdays()
	require.Len(t, workdays, 10)
	assert.Equal(t, "2025-01-10", workdays[4].String())
	assert.Equal(t, "2025-01-13", workdays[5].String())

	assert.True(t, p.Contains(date(2025, time.January, 19)))
	assert.False(t, p.Contains(date(2025, time.January, 20)))
	assert.Equal(t, "[2025-01-06, 2025-01-19]", p.String())
}

func TestPeriod_Neighbours(t *testing.T) {
	p := generic.NewPeriod(date(2025, time.January, 6), 14)

	next := p.NextPeriod()
	assert.Equal(t, "2025-01-20", next.Start.String())
	assert.Equal(t, "2025-02-02", next.End.String())

	prev := p.PreviousPeriod()
	assert.Equal(t, "2024-12-23", prev.Start.String())
	assert.Equal(t, "2025-01-05", prev.End.String())
}

func TestPeriod_Validate(t *testing.T) {
	ok := generic.NewPeriod(date(2025, time.January, 6), 1)
	assert.NoError(t, ok.Validate())

	bad := generic.Period{Start: date(2025, time.January, 6), End: date(2025, time.January, 5)}
	assert.ErrorIs(t, bad.Validate(), generic.ErrInvalidPeriod)
}

func TestPeriodTiling(t *testing.T) {
	tiling := generic.PeriodTiling{Anchor: date(2025, time.January, 6), Length: 14}

	tests := []struct {
		name      string
		date      generic.TimePoint
		wantStart string
		aligned   bool
	}{
		{"anchor", date(2025, time.January, 6), "2025-01-06", true},
		{"inside first tile", date(2025, time.January, 19), "2025-01-06", false},
		{"next tile", date(2025, time.January, 20), "2025-01-20", true},
		{"before anchor", date(2025, time.January, 1), "2024-12-23", false},
		{"far before anchor", date(2024, time.December, 9), "2024-12-09", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tiling.PeriodFor(tt.date)
			assert.Equal(t, tt.wantStart, p.Start.String())
			assert.Equal(t, 14, p.Length())
			assert.True(t, p.Contains(tt.date))
			assert.Equal(t, tt.aligned, tiling.IsAligned(tt.date))
		})
	}
}

// =============================================================================
// 4. HOLIDAYS
// =============================================================================

func TestHolidays(t *testing.T) {
	// GIVEN: a one-off holiday and a recurring one
	cal := generic.Holidays{
		{ID: "founders", Date: date(2025, time.January, 8), Name: "Founders Day"},
		{ID: "new-year", Date: date(2020, time.January, 1), Name: "New Year", Recurring: true},
	}

	// THEN: the one-off matches its year only
	h, ok := cal.HolidayOn(date(2025, time.January, 8))
	require.True(t, ok)
	assert.Equal(t, "Founders Day", h.Name)
	_, ok = cal.HolidayOn(date(2026, time.January, 8))
	assert.False(t, ok)

	// THEN: the recurring one matches every year
	h, ok = cal.HolidayOn(date(2027, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, "new-year", h.ID)
}

// =============================================================================
// 5. ERRORS
// =============================================================================

func TestIsNotFound(t *testing.T) {
	err := &generic.NotFoundError{Kind: generic.ErrEmployeeNotFound, ID: "emp-1"}

	assert.True(t, generic.IsNotFound(err))
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.Equal(t, "employee not found: emp-1", err.Error())
	assert.False(t, generic.IsNotFound(errors.New("boom")))
	assert.False(t, generic.IsNotFound(generic.ErrInvalidPeriod))
}
