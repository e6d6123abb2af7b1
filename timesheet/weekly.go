package timesheet

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// WEEKLY AGGREGATOR
// =============================================================================

// AggregateWeek computes the five entries of one week (Monday first) and
// splits their total into regular, overtime and double-time hours.
//
// Entries are neither reordered nor re-dated. Every entry is computed; if any
// fails, the returned *WeekError lists all failures and no aggregate is
// returned. An unknown day type aborts immediately with a ConfigurationError.
func AggregateWeek(entries []TimeEntry, policy Policy) (*WeekData, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return aggregateWeek(entries, policy)
}

func aggregateWeek(entries []TimeEntry, p Policy) (*WeekData, error) {
	if len(entries) != WorkdaysPerWeek {
		return nil, &ConfigurationError{
			Field:  "entries",
			Value:  fmt.Sprint(len(entries)),
			Reason: fmt.Sprintf("a week takes exactly %d entries (Monday-Friday)", WorkdaysPerWeek),
		}
	}
	weekStart := entries[0].Date

	days := make([]DailyHours, 0, WorkdaysPerWeek)
	var errs []error
	for _, e := range entries {
		day, err := ComputeDailyHours(e, p)
		if err != nil {
			if IsConfiguration(err) {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		days = append(days, day)
	}
	if len(errs) > 0 {
		return nil, &WeekError{WeekStart: weekStart, Errors: errs}
	}

	week := &WeekData{
		StartDate:     weekStart,
		Days:          days,
		VacationHours: generic.ZeroHours(),
		SickHours:     generic.ZeroHours(),
		HolidayHours:  generic.ZeroHours(),
	}

	raw := generic.ZeroHours()
	for _, d := range days {
		raw = raw.Add(d.Hours)
		switch d.DayType {
		case DayVacation:
			week.VacationHours = week.VacationHours.Add(d.Hours)
		case DaySick:
			week.SickHours = week.SickHours.Add(d.Hours)
		case DayHoliday:
			week.HolidayHours = week.HolidayHours.Add(d.Hours)
		case DayRegular:
		}
	}

	max := generic.Amount{Value: p.MaxWeeklyHours, Unit: generic.UnitHours}
	if raw.GreaterThan(max) {
		return nil, &ExceedsMaxWeeklyHoursError{WeekStart: weekStart, Hours: raw, Max: max}
	}

	regular, overtime, doubleTime := splitBands(raw.Value, p.WeeklyOvertimeCap(), p.WeeklyDoubleTimeCap())
	week.RegularHours = hours(regular)
	week.OvertimeHours = hours(overtime)
	week.DoubleTimeHours = hours(doubleTime)
	week.ExtraHours = week.OvertimeHours.Add(week.DoubleTimeHours)
	week.TotalHours = week.RegularHours.Add(week.ExtraHours)
	return week, nil
}

// splitBands cuts total at the two weekly caps. The bands are rounded to
// HourPrecision and the rounding remainder goes to the largest band, so the
// three always sum to total exactly. With caps between hundredths the
// largest band can therefore end a hundredth below its rounded cap.
func splitBands(total, overtimeCap, doubleTimeCap decimal.Decimal) (regular, overtime, doubleTime decimal.Decimal) {
	regular = decimal.Min(total, overtimeCap)
	overtime = decimal.Min(
		decimal.Max(total.Sub(overtimeCap), decimal.Zero),
		doubleTimeCap.Sub(overtimeCap),
	)
	doubleTime = decimal.Max(total.Sub(doubleTimeCap), decimal.Zero)

	bands := []decimal.Decimal{
		regular.Round(generic.HourPrecision),
		overtime.Round(generic.HourPrecision),
		doubleTime.Round(generic.HourPrecision),
	}
	remainder := total.Sub(bands[0].Add(bands[1]).Add(bands[2]))
	if !remainder.IsZero() {
		largest := 0
		for i := 1; i < len(bands); i++ {
			if bands[i].GreaterThan(bands[largest]) {
				largest = i
			}
		}
		bands[largest] = bands[largest].Add(remainder)
	}
	return bands[0], bands[1], bands[2]
}

func hours(v decimal.Decimal) generic.Amount {
	return generic.Amount{Value: v, Unit: generic.UnitHours}
}
