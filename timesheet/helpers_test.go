package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// anchor is the first day of the reference pay-period grid (a Monday).
var anchor = generic.NewTimePoint(2025, time.January, 6)

// foundersDay falls on the Wednesday of the first week.
var foundersDay = generic.NewTimePoint(2025, time.January, 8)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testPolicy: 12h/day, 60h/week, lunch 30-60 min, 06:00-20:00, weekly bands
// 40 (regular) and 48 (overtime), biweekly periods from anchor.
func testPolicy() Policy {
	weeklyDT := dec("48")
	return Policy{
		ID:                        "standard",
		Name:                      "Standard",
		MaxDailyHours:             dec("12"),
		MaxWeeklyHours:            dec("60"),
		MinLunchDuration:          30,
		MaxLunchDuration:          60,
		OvertimeThreshold:         dec("8"),
		DoubleTimeThreshold:       dec("12"),
		WeeklyDoubleTimeThreshold: &weeklyDT,
		StandardDailyHours:        dec("8"),
		MinStartTime:              Clock(6, 0),
		MaxEndTime:                Clock(20, 0),
		PayPeriodStartDate:        anchor,
		PayPeriodLength:           14,
		Holidays: generic.Holidays{
			{ID: "h-new-year", Date: generic.NewTimePoint(2025, time.January, 1), Name: "New Year", PayRate: rate("1.5"), Recurring: true},
			{ID: "h-founders", Date: foundersDay, Name: "Founders Day", PayRate: rate("2")},
		},
	}
}

func rate(s string) generic.Amount { return generic.Amount{Value: dec(s)} }

func clock(s string) *ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func work(start, end string) TimeEntry {
	return TimeEntry{DayType: DayRegular, StartTime: clock(start), EndTime: clock(end)}
}

func workWithLunch(start, end, lunchStart, lunchEnd string) TimeEntry {
	e := work(start, end)
	e.LunchStartTime = clock(lunchStart)
	e.LunchEndTime = clock(lunchEnd)
	return e
}

func off(dt DayType) TimeEntry {
	return TimeEntry{DayType: dt}
}

// datedWeek dates entries Monday-first from monday.
func datedWeek(monday generic.TimePoint, entries ...TimeEntry) []TimeEntry {
	out := make([]TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = e.WithDate(monday.AddDays(i))
	}
	return out
}

// fullWeek repeats e five times.
func fullWeek(e TimeEntry) []TimeEntry {
	return []TimeEntry{e, e, e, e, e}
}
