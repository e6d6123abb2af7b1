package timesheet

import (
	"fmt"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// TIME ENTRY VALIDATOR
// =============================================================================

// Validate checks one entry against the policy and returns the first rule it
// breaks, or nil. Checks always run in the same order so the reported error
// is reproducible:
//
//  1. day type is known                 ConfigurationError
//  2. REGULAR: start and end present    MissingTimeError
//  3. REGULAR: start < end              OrderingError
//  4. REGULAR: window within policy     BoundsError
//  5. REGULAR: lunch both-or-neither    IncompleteIntervalError
//     lunch start < lunch end           OrderingError
//     lunch duration within limits      BoundsError
//     lunch inside [start, end]         BoundsError
//  6. absence days: no clock times      InconsistentStateError
//
// The policy is assumed valid; see Policy.Validate.
func Validate(entry TimeEntry, policy Policy) error {
	switch entry.DayType {
	case DayRegular:
		return validateRegular(entry, policy)
	case DayVacation, DayHoliday, DaySick:
		return validateAbsence(entry)
	default:
		return unknownDayType(entry.DayType)
	}
}

func validateRegular(e TimeEntry, p Policy) error {
	// Presence
	if e.StartTime == nil {
		return &MissingTimeError{Date: e.Date, Field: FieldStartTime}
	}
	if e.EndTime == nil {
		return &MissingTimeError{Date: e.Date, Field: FieldEndTime}
	}
	start, end := *e.StartTime, *e.EndTime

	// Ordering
	if start >= end {
		return &OrderingError{Date: e.Date, Field: FieldWork, Start: start, End: end}
	}

	// Bounds
	if start < p.MinStartTime {
		return windowBounds(e.Date, FieldStartTime, start, p)
	}
	if end > p.MaxEndTime {
		return windowBounds(e.Date, FieldEndTime, end, p)
	}

	return validateLunch(e, start, end, p)
}

func validateLunch(e TimeEntry, start, end ClockTime, p Policy) error {
	switch {
	case e.LunchStartTime == nil && e.LunchEndTime == nil:
		return nil
	case e.LunchEndTime == nil:
		return &IncompleteIntervalError{Date: e.Date, Present: FieldLunchStartTime, Missing: FieldLunchEndTime}
	case e.LunchStartTime == nil:
		return &IncompleteIntervalError{Date: e.Date, Present: FieldLunchEndTime, Missing: FieldLunchStartTime}
	}

	ls, le := *e.LunchStartTime, *e.LunchEndTime
	if ls >= le {
		return &OrderingError{Date: e.Date, Field: FieldLunch, Start: ls, End: le}
	}

	duration := int(le - ls)
	if duration < p.MinLunchDuration || duration > p.MaxLunchDuration {
		return &BoundsError{
			Date:  e.Date,
			Field: FieldLunchDuration,
			Value: minutesLabel(duration),
			Min:   minutesLabel(p.MinLunchDuration),
			Max:   minutesLabel(p.MaxLunchDuration),
		}
	}

	if ls < start || le > end {
		return &BoundsError{
			Date:  e.Date,
			Field: FieldLunch,
			Value: ls.String() + "-" + le.String(),
			Min:   start.String(),
			Max:   end.String(),
		}
	}
	return nil
}

func validateAbsence(e TimeEntry) error {
	if fields := e.presentClockFields(); len(fields) > 0 {
		return &InconsistentStateError{Date: e.Date, DayType: e.DayType, Fields: fields}
	}
	return nil
}

func windowBounds(date generic.TimePoint, field string, value ClockTime, p Policy) error {
	return &BoundsError{
		Date:  date,
		Field: field,
		Value: value.String(),
		Min:   p.MinStartTime.String(),
		Max:   p.MaxEndTime.String(),
	}
}

func minutesLabel(m int) string {
	return fmt.Sprintf("%dm", m)
}
