/*
policy.go - Company rules that govern validation and hour classification

PURPOSE:
  A Policy is the immutable rule set every computation is run against:
  working-window bounds, lunch-break limits, daily and weekly maximums,
  overtime bands, the standard day credited for absences, the pay-period
  grid and the holiday calendar.

  The Policy is loaded by the surrounding service (settings store, JSON
  file) and passed explicitly into every call. Nothing in this package
  reads it from a global.

OVERTIME BANDS:
  Bands are cut on the WEEKLY total. The weekly caps default to the daily
  thresholds times five; a policy may set them explicitly:

    hours <= WeeklyOvertimeThreshold              regular
    WeeklyOvertimeThreshold < hours <= WeeklyDT   overtime
    hours > WeeklyDoubleTimeThreshold             double-time

EXAMPLE:
  policy := timesheet.Policy{
      MaxDailyHours:       decimal.NewFromInt(12),
      MaxWeeklyHours:      decimal.NewFromInt(60),
      MinLunchDuration:    30,
      MaxLunchDuration:    60,
      OvertimeThreshold:   decimal.NewFromInt(8),
      DoubleTimeThreshold: decimal.NewFromInt(12),
      StandardDailyHours:  decimal.NewFromInt(8),
      MinStartTime:        timesheet.Clock(6, 0),
      MaxEndTime:          timesheet.Clock(20, 0),
      PayPeriodStartDate:  generic.NewTimePoint(2025, time.January, 6),
      PayPeriodLength:     14,
  }
  if err := policy.Validate(); err != nil { ... }

SEE ALSO:
  - factory/policy.go: JSON representation
  - generic/period.go: PeriodTiling used for the pay-period grid
*/
package timesheet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
)

// WorkdaysPerWeek is the number of entries in one WeekData.
const WorkdaysPerWeek = 5

// DefaultStandardDailyHours is credited for absence days when a policy sets none.
var DefaultStandardDailyHours = decimal.NewFromInt(8)

// Policy is immutable per pay period. Hour figures are decimal hours, lunch
// limits are minutes.
type Policy struct {
	ID   generic.PolicyID
	Name string

	MaxDailyHours    decimal.Decimal
	MaxWeeklyHours   decimal.Decimal
	MinLunchDuration int
	MaxLunchDuration int

	// Per-day thresholds.
	OvertimeThreshold   decimal.Decimal
	DoubleTimeThreshold decimal.Decimal

	// Weekly caps. Nil means threshold * WorkdaysPerWeek.
	WeeklyOvertimeThreshold   *decimal.Decimal
	WeeklyDoubleTimeThreshold *decimal.Decimal

	// StandardDailyHours is credited for VACATION, SICK and HOLIDAY days.
	// Zero means DefaultStandardDailyHours.
	StandardDailyHours decimal.Decimal

	MinStartTime ClockTime
	MaxEndTime   ClockTime

	// PayPeriodStartDate anchors the pay-period grid and must be a Monday
	// so every period splits into Monday-Friday weeks.
	PayPeriodStartDate generic.TimePoint
	PayPeriodLength    int

	Holidays generic.Holidays

	Version int
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// WeeklyOvertimeCap is the weekly total above which hours are overtime.
func (p Policy) WeeklyOvertimeCap() decimal.Decimal {
	if p.WeeklyOvertimeThreshold != nil {
		return *p.WeeklyOvertimeThreshold
	}
	return p.OvertimeThreshold.Mul(decimal.NewFromInt(WorkdaysPerWeek))
}

// WeeklyDoubleTimeCap is the weekly total above which hours are double-time.
func (p Policy) WeeklyDoubleTimeCap() decimal.Decimal {
	if p.WeeklyDoubleTimeThreshold != nil {
		return *p.WeeklyDoubleTimeThreshold
	}
	return p.DoubleTimeThreshold.Mul(decimal.NewFromInt(WorkdaysPerWeek))
}

// StandardDay returns the hours credited for an absence day.
func (p Policy) StandardDay() decimal.Decimal {
	if p.StandardDailyHours.IsZero() {
		return DefaultStandardDailyHours
	}
	return p.StandardDailyHours
}

// WeeksPerPeriod is the number of WeekData in one pay period.
func (p Policy) WeeksPerPeriod() int {
	return p.PayPeriodLength / 7
}

// Tiling returns the pay-period grid.
func (p Policy) Tiling() generic.PeriodTiling {
	return generic.PeriodTiling{Anchor: p.PayPeriodStartDate, Length: p.PayPeriodLength}
}

// PeriodContaining returns the pay period that covers date.
func (p Policy) PeriodContaining(date generic.TimePoint) generic.Period {
	return p.Tiling().PeriodFor(date)
}

// HolidayOn returns the configured holiday on date, if any.
func (p Policy) HolidayOn(date generic.TimePoint) (generic.Holiday, bool) {
	return p.Holidays.HolidayOn(date)
}

// WithHolidays returns a copy of p whose calendar also includes extra.
func (p Policy) WithHolidays(extra ...generic.Holiday) Policy {
	merged := make(generic.Holidays, 0, len(p.Holidays)+len(extra))
	merged = append(merged, p.Holidays...)
	merged = append(merged, extra...)
	p.Holidays = merged
	return p
}

// =============================================================================
// INVARIANTS
// =============================================================================

// Validate checks the policy invariants. The first violation is returned as
// a *ConfigurationError.
func (p Policy) Validate() error {
	if !p.MaxDailyHours.IsPositive() {
		return policyErr("max_daily_hours", p.MaxDailyHours.String(), "must be positive")
	}
	if !p.MaxWeeklyHours.IsPositive() {
		return policyErr("max_weekly_hours", p.MaxWeeklyHours.String(), "must be positive")
	}
	if p.MinLunchDuration < 0 {
		return policyErr("min_lunch_duration", fmt.Sprint(p.MinLunchDuration), "must not be negative")
	}
	if p.MinLunchDuration > p.MaxLunchDuration {
		return policyErr("min_lunch_duration", fmt.Sprint(p.MinLunchDuration),
			fmt.Sprintf("must not exceed max_lunch_duration (%d)", p.MaxLunchDuration))
	}
	if p.OvertimeThreshold.IsNegative() {
		return policyErr("overtime_threshold", p.OvertimeThreshold.String(), "must not be negative")
	}
	if p.OvertimeThreshold.GreaterThan(p.DoubleTimeThreshold) {
		return policyErr("overtime_threshold", p.OvertimeThreshold.String(),
			fmt.Sprintf("must not exceed double_time_threshold (%s)", p.DoubleTimeThreshold))
	}
	if p.DoubleTimeThreshold.GreaterThan(p.MaxDailyHours) {
		return policyErr("double_time_threshold", p.DoubleTimeThreshold.String(),
			fmt.Sprintf("must not exceed max_daily_hours (%s)", p.MaxDailyHours))
	}
	if p.WeeklyOvertimeCap().IsNegative() {
		return policyErr("weekly_overtime_threshold", p.WeeklyOvertimeCap().String(), "must not be negative")
	}
	if p.WeeklyOvertimeCap().GreaterThan(p.WeeklyDoubleTimeCap()) {
		return policyErr("weekly_overtime_threshold", p.WeeklyOvertimeCap().String(),
			fmt.Sprintf("must not exceed weekly_double_time_threshold (%s)", p.WeeklyDoubleTimeCap()))
	}
	if p.StandardDay().GreaterThan(p.MaxDailyHours) {
		return policyErr("standard_daily_hours", p.StandardDay().String(),
			fmt.Sprintf("must not exceed max_daily_hours (%s)", p.MaxDailyHours))
	}
	if p.MinStartTime < 0 || p.MaxEndTime > MaxClockTime {
		return policyErr("min_start_time", p.MinStartTime.String(), "working window must lie within 00:00-24:00")
	}
	if p.MinStartTime >= p.MaxEndTime {
		return policyErr("min_start_time", p.MinStartTime.String(),
			fmt.Sprintf("must be before max_end_time (%s)", p.MaxEndTime))
	}
	if p.PayPeriodStartDate.IsZero() {
		return policyErr("pay_period_start_date", "", "is required")
	}
	if p.PayPeriodStartDate.Weekday() != time.Monday {
		return policyErr("pay_period_start_date", p.PayPeriodStartDate.String(),
			fmt.Sprintf("must be a Monday, got %s", p.PayPeriodStartDate.Weekday()))
	}
	if p.PayPeriodLength <= 0 || p.PayPeriodLength%7 != 0 {
		return policyErr("pay_period_length", fmt.Sprint(p.PayPeriodLength), "must be a positive multiple of 7 days")
	}
	for _, h := range p.Holidays {
		if !h.PayRate.IsPositive() {
			return policyErr("holidays.pay_rate", h.PayRate.Value.String(),
				fmt.Sprintf("holiday %q on %s must have a positive pay rate", h.Name, h.Date))
		}
	}
	return nil
}

func policyErr(field, value, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
