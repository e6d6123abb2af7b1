/*
Package timesheet implements the timesheet computation and validation engine.

PURPOSE:
  Turns raw per-day clock entries into validated hour totals under a
  company Policy: daily hours, weekly regular/overtime/double-time bands
  and pay-period totals. Everything here is a pure function of its inputs;
  no component holds state between calls.

PIPELINE:
  Policy -> Validate -> ComputeDailyHours -> AggregateWeek -> GeneratePeriod

  Each stage consumes only the previous stage's output plus the Policy.

KEY CONCEPTS IN THIS FILE (types.go):
  - DayType: REGULAR, VACATION, HOLIDAY, SICK (closed set)
  - ClockTime: A time of day as minutes from midnight
  - TimeEntry: One calendar day of raw input
  - DailyHours, WeekData, PayPeriod: Derived results

NUMERICS:
  Clock arithmetic is done in whole minutes. Minutes become hours only at
  the daily boundary (minutes / 60, round half-up to 2 places). Weekly and
  period figures are sums of those rounded daily figures, so they are exact
  decimals and never drift.

CONCURRENCY:
  Inputs are values and are never mutated. A Policy may be shared by any
  number of goroutines.

SEE ALSO:
  - policy.go: Policy and its invariants
  - errors.go: Error taxonomy
  - service.go: Store-backed orchestration used by the API
*/
package timesheet

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// DAY TYPE
// =============================================================================

type DayType string

const (
	DayRegular  DayType = "REGULAR"
	DayVacation DayType = "VACATION"
	DayHoliday  DayType = "HOLIDAY"
	DaySick     DayType = "SICK"
)

// DayTypes lists every known day type.
var DayTypes = []DayType{DayRegular, DayVacation, DayHoliday, DaySick}

// Valid reports whether d is one of the known day types.
func (d DayType) Valid() bool {
	return slices.Contains(DayTypes, d)
}

// IsAbsence reports whether the day type declares no worked hours.
func (d DayType) IsAbsence() bool {
	return d == DayVacation || d == DayHoliday || d == DaySick
}

// ParseDayType accepts any letter case. Unknown values are a ConfigurationError.
func ParseDayType(s string) (DayType, error) {
	d := DayType(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", unknownDayType(d)
	}
	return d, nil
}

func unknownDayType(d DayType) error {
	known := make([]string, len(DayTypes))
	for i, t := range DayTypes {
		known[i] = string(t)
	}
	return &ConfigurationError{Field: "day_type", Value: string(d), Reason: "unknown day type (use " + strings.Join(known, ", ") + ")"}
}

// =============================================================================
// CLOCK TIME
// =============================================================================

// ClockTime is a time of day in minutes from midnight, 0 (00:00) to 1440 (24:00).
type ClockTime int

const (
	MinutesPerDay           = 24 * 60
	MaxClockTime  ClockTime = MinutesPerDay
)

// Clock builds a ClockTime from hours and minutes.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM" (24-hour clock, 24:00 allowed).
func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("invalid clock time %q (use HH:MM)", s)
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock time %q (use HH:MM)", s)
	}
	return Clock(h, m), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c ClockTime) Hour() int       { return int(c) / 60 }
func (c ClockTime) Minute() int     { return int(c) % 60 }
func (c ClockTime) Ptr() *ClockTime { return &c }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// TIME ENTRY - Raw input for one calendar day
// =============================================================================

// Field names used in error reports.
const (
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldLunchStartTime = "lunch_start_time"
	FieldLunchEndTime   = "lunch_end_time"
	FieldLunch          = "lunch"
	FieldLunchDuration  = "lunch_duration"
	FieldWork           = "work"
	FieldDate           = "date"
)

// TimeEntry is one calendar day. Absent clock times are nil. For absence day
// types all clock times must be nil.
type TimeEntry struct {
	Date           generic.TimePoint
	DayType        DayType
	StartTime      *ClockTime
	EndTime        *ClockTime
	LunchStartTime *ClockTime
	LunchEndTime   *ClockTime
}

// presentClockFields lists the clock fields that are set, in declaration order.
func (e TimeEntry) presentClockFields() []string {
	var fields []string
	if e.StartTime != nil {
		fields = append(fields, FieldStartTime)
	}
	if e.EndTime != nil {
		fields = append(fields, FieldEndTime)
	}
	if e.LunchStartTime != nil {
		fields = append(fields, FieldLunchStartTime)
	}
	if e.LunchEndTime != nil {
		fields = append(fields, FieldLunchEndTime)
	}
	return fields
}

// HasLunch reports whether both lunch boundaries are set.
func (e TimeEntry) HasLunch() bool {
	return e.LunchStartTime != nil && e.LunchEndTime != nil
}

// WithDate returns a copy of e dated d.
func (e TimeEntry) WithDate(d generic.TimePoint) TimeEntry {
	e.Date = d
	return e
}

// =============================================================================
// DERIVED RESULTS
// =============================================================================

// DailyHours is the result of ComputeDailyHours.
type DailyHours struct {
	Date    generic.TimePoint
	DayType DayType
	Minutes int
	Hours   generic.Amount

	// HolidayRateEligible marks hours payroll should scale by PayRate.
	HolidayRateEligible bool
	HolidayName         string
	PayRate             generic.Amount
}

// WeekData is the aggregate of five working days.
type WeekData struct {
	StartDate generic.TimePoint
	Days      []DailyHours

	RegularHours    generic.Amount
	OvertimeHours   generic.Amount
	DoubleTimeHours generic.Amount
	ExtraHours      generic.Amount // OvertimeHours + DoubleTimeHours
	TotalHours      generic.Amount // RegularHours + ExtraHours

	VacationHours generic.Amount
	SickHours     generic.Amount
	HolidayHours  generic.Amount
}

// PayPeriod is the aggregate of the weeks of one pay period.
type PayPeriod struct {
	Period generic.Period
	Weeks  []WeekData

	RegularHours    generic.Amount
	OvertimeHours   generic.Amount
	DoubleTimeHours generic.Amount
	ExtraHours      generic.Amount
	TotalHours      generic.Amount

	VacationHours generic.Amount
	SickHours     generic.Amount
	HolidayHours  generic.Amount
}

// StartDate returns the first day of the pay period.
func (p *PayPeriod) StartDate() generic.TimePoint { return p.Period.Start }
