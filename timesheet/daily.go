package timesheet

import (
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// DAILY HOURS CALCULATOR
// =============================================================================

// ComputeDailyHours validates entry and converts it to an hour figure.
//
//	REGULAR            (end - start) - lunch, in minutes, then hours
//	VACATION, SICK     policy.StandardDay()
//	HOLIDAY            policy.StandardDay(), only on a configured holiday
//
// Hours above policy.MaxDailyHours are reported, never clamped. Pay rates are
// reported alongside the hours; no pay amount is computed here.
func ComputeDailyHours(entry TimeEntry, policy Policy) (DailyHours, error) {
	if err := Validate(entry, policy); err != nil {
		return DailyHours{}, err
	}

	switch entry.DayType {
	case DayRegular:
		return regularHours(entry, policy)
	case DayHoliday:
		return holidayHours(entry, policy)
	case DayVacation, DaySick:
		return standardHours(entry, policy), nil
	default:
		return DailyHours{}, unknownDayType(entry.DayType)
	}
}

func regularHours(e TimeEntry, p Policy) (DailyHours, error) {
	minutes := int(*e.EndTime - *e.StartTime)
	if e.HasLunch() {
		minutes -= int(*e.LunchEndTime - *e.LunchStartTime)
	}
	if minutes < 0 {
		return DailyHours{}, &NegativeHoursError{Date: e.Date, Minutes: minutes}
	}

	hours := generic.MinutesToHours(minutes)
	max := generic.Amount{Value: p.MaxDailyHours, Unit: generic.UnitHours}
	if hours.GreaterThan(max) {
		return DailyHours{}, &ExceedsMaxDailyHoursError{Date: e.Date, Hours: hours, Max: max}
	}

	day := DailyHours{
		Date:    e.Date,
		DayType: DayRegular,
		Minutes: minutes,
		Hours:   hours,
		PayRate: unitRate(),
	}
	// Working on a company holiday earns the holiday rate.
	if h, ok := p.HolidayOn(e.Date); ok {
		day.HolidayRateEligible = true
		day.HolidayName = h.Name
		day.PayRate = h.PayRate
	}
	return day, nil
}

func holidayHours(e TimeEntry, p Policy) (DailyHours, error) {
	h, ok := p.HolidayOn(e.Date)
	if !ok {
		return DailyHours{}, &UnrecognizedHolidayError{Date: e.Date}
	}
	day := standardHours(e, p)
	day.HolidayRateEligible = true
	day.HolidayName = h.Name
	day.PayRate = h.PayRate
	return day, nil
}

func standardHours(e TimeEntry, p Policy) DailyHours {
	minutes := generic.HoursToMinutes(p.StandardDay())
	return DailyHours{
		Date:    e.Date,
		DayType: e.DayType,
		Minutes: minutes,
		Hours:   generic.Amount{Value: p.StandardDay(), Unit: generic.UnitHours}.RoundHalfUp(generic.HourPrecision),
		PayRate: unitRate(),
	}
}

func unitRate() generic.Amount {
	return generic.Amount{Value: decimal.NewFromInt(1)}
}
