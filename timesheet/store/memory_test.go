package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestMemory_Entries_UpsertAndRange(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	mon := generic.NewTimePoint(2025, time.January, 6)

	require.NoError(t, m.SaveEntries(ctx, "emp-1", []timesheet.TimeEntry{
		{Date: mon.AddDays(1), DayType: timesheet.DaySick},
		{Date: mon, DayType: timesheet.DayVacation},
		{Date: mon.AddDays(14), DayType: timesheet.DayVacation},
	}))
	require.NoError(t, m.SaveEntries(ctx, "emp-1", []timesheet.TimeEntry{
		{Date: mon, DayType: timesheet.DaySick},
	}))

	got, err := m.LoadEntries(ctx, "emp-1", generic.NewPeriod(mon, 14))

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, mon, got[0].Date)
	assert.Equal(t, timesheet.DaySick, got[0].DayType)
}

func TestMemory_NotFound(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetPolicy(ctx, "nope")
	assert.ErrorIs(t, err, generic.ErrPolicyNotFound)

	_, err = m.GetEmployee(ctx, "nope")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	err = m.DeleteHoliday(ctx, "standard", "nope")
	assert.ErrorIs(t, err, generic.ErrHolidayNotFound)
}

func TestMemory_Holidays(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	h := generic.Holiday{ID: "h-1", Date: generic.NewTimePoint(2025, time.July, 4), Name: "Independence Day"}

	require.NoError(t, m.SaveHoliday(ctx, "standard", h))
	h.Name = "July 4th"
	require.NoError(t, m.SaveHoliday(ctx, "standard", h))

	list, err := m.ListHolidays(ctx, "standard")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "July 4th", list[0].Name)

	require.NoError(t, m.DeleteHoliday(ctx, "standard", "h-1"))
	list, _ = m.ListHolidays(ctx, "standard")
	assert.Empty(t, list)
}

func TestMemory_SavePolicy_BumpsVersion(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.SavePolicy(ctx, timesheet.Policy{ID: "standard"}))
	require.NoError(t, m.SavePolicy(ctx, timesheet.Policy{ID: "standard", Name: "v2"}))

	p, err := m.GetPolicy(ctx, "standard")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)
	assert.Equal(t, "v2", p.Name)
}
