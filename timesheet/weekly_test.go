package timesheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// BAND CLASSIFICATION
// =============================================================================

func TestAggregateWeek_FortyHours_AllRegular(t *testing.T) {
	// GIVEN: Daily totals [8,8,8,8,8], weekly regular cap 40
	// WHEN: Aggregating
	// THEN: 40 regular, no extra hours

	week, err := AggregateWeek(datedWeek(anchor, fullWeek(work("08:00", "16:00"))...), testPolicy())

	require.NoError(t, err)
	assert.Equal(t, "40.00", week.RegularHours.String())
	assert.Equal(t, "0.00", week.OvertimeHours.String())
	assert.Equal(t, "0.00", week.DoubleTimeHours.String())
	assert.Equal(t, "0.00", week.ExtraHours.String())
	assert.Equal(t, "40.00", week.TotalHours.String())
}

func TestAggregateWeek_FiftyHours_SplitsIntoBands(t *testing.T) {
	// GIVEN: Daily totals [10,10,10,10,10], weekly caps 40 and 48
	// WHEN: Aggregating
	// THEN: 40 regular, 8 overtime, 2 double-time

	week, err := AggregateWeek(datedWeek(anchor, fullWeek(work("08:00", "18:00"))...), testPolicy())

	require.NoError(t, err)
	assert.Equal(t, "40.00", week.RegularHours.String())
	assert.Equal(t, "8.00", week.OvertimeHours.String())
	assert.Equal(t, "2.00", week.DoubleTimeHours.String())
	assert.Equal(t, "10.00", week.ExtraHours.String())
	assert.Equal(t, "50.00", week.TotalHours.String())
}

func TestAggregateWeek_DefaultWeeklyCaps(t *testing.T) {
	// Without explicit weekly caps the bands are threshold * 5 (40 and 60).
	policy := testPolicy()
	policy.WeeklyDoubleTimeThreshold = nil

	week, err := AggregateWeek(fullWeek(work("08:00", "18:00")), policy)

	require.NoError(t, err)
	assert.Equal(t, "40.00", week.RegularHours.String())
	assert.Equal(t, "10.00", week.OvertimeHours.String())
	assert.Equal(t, "0.00", week.DoubleTimeHours.String())
}

func TestAggregateWeek_AbsenceBreakdown(t *testing.T) {
	entries := datedWeek(anchor,
		work("08:00", "16:00"),
		work("08:00", "16:00"),
		off(DayHoliday), // Founders Day
		off(DayVacation),
		off(DaySick),
	)

	week, err := AggregateWeek(entries, testPolicy())

	require.NoError(t, err)
	assert.Equal(t, "40.00", week.TotalHours.String())
	assert.Equal(t, "8.00", week.VacationHours.String())
	assert.Equal(t, "8.00", week.SickHours.String())
	assert.Equal(t, "8.00", week.HolidayHours.String())
	assert.Equal(t, anchor, week.StartDate)
}

func TestAggregateWeek_KeepsCallerOrder(t *testing.T) {
	entries := datedWeek(anchor, fullWeek(work("08:00", "16:00"))...)
	entries[0], entries[4] = entries[4], entries[0]

	week, err := AggregateWeek(entries, testPolicy())

	require.NoError(t, err)
	require.Len(t, week.Days, 5)
	for i, d := range week.Days {
		assert.Equal(t, entries[i].Date, d.Date)
	}
}

func TestAggregateWeek_BandsSumToRawTotal(t *testing.T) {
	// For all weeks: regular + overtime + double-time == sum of daily hours.
	policy := testPolicy()

	for end := Clock(14, 0); end <= Clock(18, 0); end += 7 {
		entries := fullWeek(work("08:00", end.String()))
		entries[2] = workWithLunch("07:13", "18:59", "12:00", "12:31")

		week, err := AggregateWeek(entries, policy)
		require.NoError(t, err, "end %s", end)

		raw := week.Days[0].Hours.Zero()
		for _, d := range week.Days {
			raw = raw.Add(d.Hours)
		}
		bands := week.RegularHours.Add(week.OvertimeHours).Add(week.DoubleTimeHours)
		assert.True(t, bands.Equal(raw), "end %s: %s != %s", end, bands, raw)
		assert.True(t, week.TotalHours.Equal(raw))
		assert.True(t, week.ExtraHours.Equal(week.OvertimeHours.Add(week.DoubleTimeHours)))
	}
}

func TestSplitBands_RoundingGoesToLargestBand(t *testing.T) {
	// GIVEN: Caps that are not whole hundredths
	// WHEN: Splitting 40.50 hours
	// THEN: The bands are rounded and the remainder lands on regular

	regular, overtime, doubleTime := splitBands(dec("40.50"), dec("39.995"), dec("48"))

	assert.Equal(t, "39.99", regular.StringFixed(2))
	assert.Equal(t, "0.51", overtime.StringFixed(2))
	assert.True(t, doubleTime.IsZero())
	assert.True(t, regular.Add(overtime).Add(doubleTime).Equal(dec("40.50")))
}

func TestSplitBands_FractionalCapsKeepExactTotal(t *testing.T) {
	// GIVEN: Both caps fall between hundredths, a hundredth apart
	// WHEN: Splitting 41.67 hours, which sits between the two caps
	// THEN: Both partial bands round up, regular absorbs the surplus
	// hundredth and ends below its rounded cap, and the total is exact

	regular, overtime, doubleTime := splitBands(dec("41.67"), dec("41.665"), dec("41.675"))

	assert.Equal(t, "41.66", regular.StringFixed(2))
	assert.Equal(t, "0.01", overtime.StringFixed(2))
	assert.Equal(t, "0.00", doubleTime.StringFixed(2))
	assert.True(t, regular.Add(overtime).Add(doubleTime).Equal(dec("41.67")))
}

// =============================================================================
// FAILURES
// =============================================================================

func TestAggregateWeek_ExceedsMaxWeekly(t *testing.T) {
	policy := testPolicy()
	policy.MaxWeeklyHours = dec("45")

	_, err := AggregateWeek(datedWeek(anchor, fullWeek(work("08:00", "18:00"))...), policy)

	var ee *ExceedsMaxWeeklyHoursError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "50.00", ee.Hours.String())
	assert.Equal(t, "45.00", ee.Max.String())
	assert.Equal(t, anchor, ee.WeekStart)
	assert.True(t, IsComputation(err))
}

func TestAggregateWeek_CollectsEveryDayError(t *testing.T) {
	// GIVEN: A week with two malformed days
	// WHEN: Aggregating
	// THEN: Both errors are reported and no aggregate is returned

	entries := datedWeek(anchor,
		work("08:00", "16:00"),
		TimeEntry{DayType: DayRegular},
		work("08:00", "16:00"),
		work("16:00", "08:00"),
		work("08:00", "16:00"),
	)

	week, err := AggregateWeek(entries, testPolicy())

	assert.Nil(t, week)
	var we *WeekError
	require.ErrorAs(t, err, &we)
	require.Len(t, we.Errors, 2)
	assert.ErrorIs(t, err, ErrMissingTime)
	assert.ErrorIs(t, err, ErrOrdering)
	assert.Equal(t, "invalid_week", ErrorCode(err))
}

func TestAggregateWeek_UnknownDayType_Aborts(t *testing.T) {
	entries := fullWeek(work("08:00", "16:00"))
	entries[1] = TimeEntry{DayType: DayRegular}
	entries[3] = TimeEntry{DayType: "COMP"}

	_, err := AggregateWeek(entries, testPolicy())

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	var we *WeekError
	assert.False(t, errors.As(err, &we))
}

func TestAggregateWeek_WrongEntryCount(t *testing.T) {
	_, err := AggregateWeek(fullWeek(work("08:00", "16:00"))[:4], testPolicy())

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "entries", ce.Field)
}

func TestAggregateWeek_InvalidPolicy(t *testing.T) {
	policy := testPolicy()
	policy.MinLunchDuration = 90

	_, err := AggregateWeek(fullWeek(work("08:00", "16:00")), policy)

	assert.True(t, IsConfiguration(err))
}
