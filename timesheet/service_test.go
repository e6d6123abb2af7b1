package timesheet_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/logging"
	"github.com/warp/timesheet-engine/timesheet"
	"github.com/warp/timesheet-engine/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var periodStart = generic.NewTimePoint(2025, time.January, 6)

func newTestService(t *testing.T) (*timesheet.Service, *store.Memory, *bytes.Buffer) {
	t.Helper()
	mem := store.NewMemory()
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "text")
	require.NoError(t, err)

	svc := timesheet.NewService(mem, logger)
	svc.Now = func() time.Time { return time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	require.NoError(t, mem.SavePolicy(ctx, timesheet.Policy{
		ID:                  "standard",
		Name:                "Standard",
		MaxDailyHours:       decimal.NewFromInt(12),
		MaxWeeklyHours:      decimal.NewFromInt(60),
		MinLunchDuration:    30,
		MaxLunchDuration:    60,
		OvertimeThreshold:   decimal.NewFromInt(8),
		DoubleTimeThreshold: decimal.NewFromInt(12),
		StandardDailyHours:  decimal.NewFromInt(8),
		MinStartTime:        timesheet.Clock(6, 0),
		MaxEndTime:          timesheet.Clock(20, 0),
		PayPeriodStartDate:  periodStart,
		PayPeriodLength:     14,
	}))
	require.NoError(t, mem.SaveEmployee(ctx, timesheet.Employee{ID: "emp-1", Name: "Ada", PolicyID: "standard"}))
	return svc, mem, &buf
}

func day(d generic.TimePoint, start, end string) timesheet.TimeEntry {
	s, _ := timesheet.ParseClockTime(start)
	e, _ := timesheet.ParseClockTime(end)
	return timesheet.TimeEntry{Date: d, DayType: timesheet.DayRegular, StartTime: s.Ptr(), EndTime: e.Ptr()}
}

func fullPeriod(start generic.TimePoint) []timesheet.TimeEntry {
	var entries []timesheet.TimeEntry
	for _, d := range generic.NewPeriod(start, 14).Workdays() {
		entries = append(entries, day(d, "08:00", "16:00"))
	}
	return entries
}

// =============================================================================
// COMPUTE PERIOD
// =============================================================================

func TestService_ComputePeriod_StoresSnapshot(t *testing.T) {
	// GIVEN: Ten stored 8-hour days
	// WHEN: Computing the pay period
	// THEN: 80 regular hours and one snapshot with the same totals

	svc, mem, logs := newTestService(t)
	ctx := context.Background()
	require.NoError(t, mem.SaveEntries(ctx, "emp-1", fullPeriod(periodStart)))

	pp, err := svc.ComputePeriod(ctx, "emp-1", "", periodStart)

	require.NoError(t, err)
	assert.Equal(t, "80.00", pp.TotalHours.String())
	assert.Equal(t, "80.00", pp.RegularHours.String())

	snaps, err := mem.ListSnapshots(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "80.00", snaps[0].Totals.TotalHours.String())
	assert.Equal(t, generic.PolicyID("standard"), snaps[0].PolicyID)
	assert.NotEmpty(t, snaps[0].ID)
	assert.Equal(t, 2025, snaps[0].ComputedAt.Year())
	assert.Contains(t, logs.String(), "pay period computed")
}

func TestService_ComputePeriod_MissingDaysRejected(t *testing.T) {
	svc, mem, logs := newTestService(t)
	ctx := context.Background()
	require.NoError(t, mem.SaveEntries(ctx, "emp-1", fullPeriod(periodStart)[:9]))

	_, err := svc.ComputePeriod(ctx, "emp-1", "", periodStart)

	assert.ErrorIs(t, err, timesheet.ErrMissingTime)
	assert.Len(t, timesheet.Flatten(err), 1)
	assert.Contains(t, logs.String(), "pay period rejected")

	snaps, _ := mem.ListSnapshots(ctx, "emp-1")
	assert.Empty(t, snaps)
}

func TestService_ComputePeriod_StoredHolidaysApply(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	holiday := periodStart.AddDays(2)
	require.NoError(t, mem.SaveHoliday(ctx, "standard", generic.Holiday{
		ID: "h-1", Date: holiday, Name: "Founders Day", PayRate: generic.Amount{Value: decimal.NewFromInt(2)},
	}))

	entries := fullPeriod(periodStart)
	entries[2] = timesheet.TimeEntry{Date: holiday, DayType: timesheet.DayHoliday}
	require.NoError(t, mem.SaveEntries(ctx, "emp-1", entries))

	pp, err := svc.ComputePeriod(ctx, "emp-1", "", periodStart)

	require.NoError(t, err)
	assert.Equal(t, "8.00", pp.HolidayHours.String())
	assert.True(t, pp.Weeks[0].Days[2].HolidayRateEligible)
}

func TestService_ComputePeriod_Misaligned(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ComputePeriod(context.Background(), "emp-1", "", periodStart.AddDays(7))

	assert.ErrorIs(t, err, timesheet.ErrMisalignedPeriod)
}

func TestService_ComputePeriod_UnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ComputePeriod(context.Background(), "nobody", "", periodStart)

	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestService_ComputePeriod_PolicyOverride(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ComputePeriod(context.Background(), "emp-1", "missing", periodStart)

	assert.ErrorIs(t, err, generic.ErrPolicyNotFound)
}

// =============================================================================
// CURRENT PERIOD & SUBMISSION
// =============================================================================

func TestService_CurrentPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)

	period, err := svc.CurrentPeriod(context.Background(), "emp-1", periodStart.AddDays(20))

	require.NoError(t, err)
	assert.Equal(t, periodStart.AddDays(14), period.Start)
	assert.Equal(t, periodStart.AddDays(27), period.End)
}

func TestService_SubmitEntries_SavesValidReportsInvalid(t *testing.T) {
	// GIVEN: Three entries, one with reversed times
	// WHEN: Submitting
	// THEN: Two are stored, the third is reported

	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	entries := []timesheet.TimeEntry{
		day(periodStart, "08:00", "16:00"),
		day(periodStart.AddDays(1), "16:00", "08:00"),
		{Date: periodStart.AddDays(2), DayType: timesheet.DayVacation},
	}

	rejected, err := svc.SubmitEntries(ctx, "emp-1", entries)

	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], timesheet.ErrOrdering)

	stored, err := mem.LoadEntries(ctx, "emp-1", generic.NewPeriod(periodStart, 14))
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, periodStart, stored[0].Date)
	assert.Equal(t, timesheet.DayVacation, stored[1].DayType)
}

func TestService_SubmitEntries_UnknownDayTypeAborts(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SubmitEntries(ctx, "emp-1", []timesheet.TimeEntry{
		day(periodStart, "08:00", "16:00"),
		{Date: periodStart.AddDays(1), DayType: "REMOTE"},
	})

	assert.True(t, timesheet.IsConfiguration(err))
	stored, _ := mem.LoadEntries(ctx, "emp-1", generic.NewPeriod(periodStart, 14))
	assert.Empty(t, stored)
}

func TestService_SubmitEntries_RejectsUncollectableDays(t *testing.T) {
	// GIVEN: A full fortnight plus a Saturday shift and an undated entry
	// WHEN: Submitting, then computing the period
	// THEN: Both extras are rejected and the period still computes

	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	entries := append(fullPeriod(periodStart),
		day(periodStart.AddDays(5), "09:00", "12:00"),
		day(generic.TimePoint{}, "09:00", "12:00"),
	)

	rejected, err := svc.SubmitEntries(ctx, "emp-1", entries)

	require.NoError(t, err)
	require.Len(t, rejected, 2)
	for _, rej := range rejected {
		assert.ErrorIs(t, rej, timesheet.ErrInconsistentState)
	}
	assert.Contains(t, rejected[0].Error(), "Saturday")
	assert.Contains(t, rejected[1].Error(), "no date")

	stored, err := mem.LoadEntries(ctx, "emp-1", generic.NewPeriod(periodStart, 14))
	require.NoError(t, err)
	assert.Len(t, stored, 10)

	_, err = svc.ComputePeriod(ctx, "emp-1", "", periodStart)
	assert.NoError(t, err)
}
