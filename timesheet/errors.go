/*
errors.go - Error taxonomy of the timesheet engine

PURPOSE:
  Every failure of the engine is a typed value. Callers map them to user
  messages (HTTP 4xx) and audit logs; nothing is retried because every
  operation is deterministic.

ERROR FAMILIES:
  1. Configuration - malformed Policy, unknown day type, malformed input
     shape. Fatal: the whole computation aborts.
  2. Validation - one entry breaks an entry rule (missing time, ordering,
     bounds, incomplete lunch, clock times on an absence day). Reported per
     entry; other entries of the batch are still checked.
  3. Computation - a validated entry or week produces an impossible total
     (negative, above the daily/weekly maximum, unknown holiday) or the pay
     period does not tile from the anchor.

USAGE:
  Match the family or the exact kind with errors.Is, the details with
  errors.As:

    if errors.Is(err, timesheet.ErrBounds) { ... }

    var oe *timesheet.OrderingError
    if errors.As(err, &oe) {
        log.Printf("%s: %s >= %s", oe.Date, oe.Start, oe.End)
    }

  WeekError and PeriodError collect several errors; use Flatten to list
  them.

SEE ALSO:
  - validator.go, daily.go, weekly.go, payperiod.go: Produce these errors
  - api/handlers.go: Maps them to HTTP responses
*/
package timesheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// Families.
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrComputation   = errors.New("computation error")

	// Validation kinds.
	ErrMissingTime        = errors.New("missing time")
	ErrOrdering           = errors.New("ordering violation")
	ErrBounds             = errors.New("out of bounds")
	ErrIncompleteInterval = errors.New("incomplete interval")
	ErrInconsistentState  = errors.New("inconsistent state")

	// Computation kinds.
	ErrNegativeHours         = errors.New("negative hours")
	ErrExceedsMaxDailyHours  = errors.New("exceeds max daily hours")
	ErrExceedsMaxWeeklyHours = errors.New("exceeds max weekly hours")
	ErrUnrecognizedHoliday   = errors.New("unrecognized holiday")
	ErrMisalignedPeriod      = errors.New("misaligned pay period")
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// ConfigurationError reports a malformed policy or malformed request shape.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
func (e *ConfigurationError) Code() string  { return "configuration" }

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// MissingTimeError: a REGULAR day lacks its start or end time.
type MissingTimeError struct {
	Date  generic.TimePoint
	Field string
}

func (e *MissingTimeError) Error() string {
	return fmt.Sprintf("%s: %s is required for a regular day", e.Date, e.Field)
}

func (e *MissingTimeError) Unwrap() []error { return []error{ErrMissingTime, ErrValidation} }
func (e *MissingTimeError) Code() string    { return "missing_time" }

// OrderingError: an interval's start is not before its end.
type OrderingError struct {
	Date  generic.TimePoint
	Field string // "work" or "lunch"
	Start ClockTime
	End   ClockTime
}

func (e *OrderingError) Error() string {
	if e.Field == FieldLunch {
		return fmt.Sprintf("%s: lunch start %s must be before lunch end %s", e.Date, e.Start, e.End)
	}
	return fmt.Sprintf("%s: start time %s must be before end time %s", e.Date, e.Start, e.End)
}

func (e *OrderingError) Unwrap() []error { return []error{ErrOrdering, ErrValidation} }
func (e *OrderingError) Code() string    { return "ordering" }

// BoundsError: a value falls outside the range the policy allows.
type BoundsError struct {
	Date  generic.TimePoint
	Field string
	Value string
	Min   string
	Max   string
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %s %s outside allowed range [%s, %s]", e.Date, e.Field, e.Value, e.Min, e.Max)
}

func (e *BoundsError) Unwrap() []error { return []error{ErrBounds, ErrValidation} }
func (e *BoundsError) Code() string    { return "bounds" }

// IncompleteIntervalError: only one boundary of the lunch break is set.
type IncompleteIntervalError struct {
	Date    generic.TimePoint
	Present string
	Missing string
}

func (e *IncompleteIntervalError) Error() string {
	return fmt.Sprintf("%s: %s is set but %s is missing", e.Date, e.Present, e.Missing)
}

func (e *IncompleteIntervalError) Unwrap() []error {
	return []error{ErrIncompleteInterval, ErrValidation}
}
func (e *IncompleteIntervalError) Code() string { return "incomplete_interval" }

// InconsistentStateError: the entry contradicts itself or its batch,
// e.g. clock times on a vacation day.
type InconsistentStateError struct {
	Date    generic.TimePoint
	DayType DayType
	Fields  []string
	Reason  string
}

func (e *InconsistentStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Date, e.Reason)
	}
	return fmt.Sprintf("%s: %s day must not carry clock times (%s)",
		e.Date, e.DayType, strings.Join(e.Fields, ", "))
}

func (e *InconsistentStateError) Unwrap() []error {
	return []error{ErrInconsistentState, ErrValidation}
}
func (e *InconsistentStateError) Code() string { return "inconsistent_state" }

// =============================================================================
// COMPUTATION ERRORS
// =============================================================================

type NegativeHoursError struct {
	Date    generic.TimePoint
	Minutes int
}

func (e *NegativeHoursError) Error() string {
	return fmt.Sprintf("%s: worked time is negative (%d minutes)", e.Date, e.Minutes)
}

func (e *NegativeHoursError) Unwrap() []error { return []error{ErrNegativeHours, ErrComputation} }
func (e *NegativeHoursError) Code() string    { return "negative_hours" }

type ExceedsMaxDailyHoursError struct {
	Date  generic.TimePoint
	Hours generic.Amount
	Max   generic.Amount
}

func (e *ExceedsMaxDailyHoursError) Error() string {
	return fmt.Sprintf("%s: %s hours exceeds the daily maximum of %s", e.Date, e.Hours, e.Max)
}

func (e *ExceedsMaxDailyHoursError) Unwrap() []error {
	return []error{ErrExceedsMaxDailyHours, ErrComputation}
}
func (e *ExceedsMaxDailyHoursError) Code() string { return "exceeds_max_daily_hours" }

type ExceedsMaxWeeklyHoursError struct {
	WeekStart generic.TimePoint
	Hours     generic.Amount
	Max       generic.Amount
}

func (e *ExceedsMaxWeeklyHoursError) Error() string {
	return fmt.Sprintf("week of %s: %s hours exceeds the weekly maximum of %s", e.WeekStart, e.Hours, e.Max)
}

func (e *ExceedsMaxWeeklyHoursError) Unwrap() []error {
	return []error{ErrExceedsMaxWeeklyHours, ErrComputation}
}
func (e *ExceedsMaxWeeklyHoursError) Code() string { return "exceeds_max_weekly_hours" }

type UnrecognizedHolidayError struct {
	Date generic.TimePoint
}

func (e *UnrecognizedHolidayError) Error() string {
	return fmt.Sprintf("%s: not a configured company holiday", e.Date)
}

func (e *UnrecognizedHolidayError) Unwrap() []error {
	return []error{ErrUnrecognizedHoliday, ErrComputation}
}
func (e *UnrecognizedHolidayError) Code() string { return "unrecognized_holiday" }

// MisalignedPeriodError: the requested start is not Anchor + k*Length.
type MisalignedPeriodError struct {
	Start  generic.TimePoint
	Anchor generic.TimePoint
	Length int
	Offset int // days past the start of the enclosing period
}

func (e *MisalignedPeriodError) Error() string {
	return fmt.Sprintf("pay period start %s is not aligned to %s + k*%d days (enclosing period starts %s)",
		e.Start, e.Anchor, e.Length, e.Start.AddDays(-e.Offset))
}

func (e *MisalignedPeriodError) Unwrap() []error {
	return []error{ErrMisalignedPeriod, ErrComputation}
}
func (e *MisalignedPeriodError) Code() string { return "misaligned_period" }

// =============================================================================
// BATCH ERRORS
// =============================================================================

// WeekError collects every entry error of one week. A week with a WeekError
// has no aggregate.
type WeekError struct {
	WeekStart generic.TimePoint
	Errors    []error
}

func (e *WeekError) Error() string {
	return fmt.Sprintf("week of %s: %s", e.WeekStart, joinErrors(e.Errors))
}

func (e *WeekError) Unwrap() []error { return e.Errors }
func (e *WeekError) Code() string    { return "invalid_week" }

// PeriodError collects the WeekErrors of a pay period.
type PeriodError struct {
	Start  generic.TimePoint
	Errors []error
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("pay period %s: %s", e.Start, joinErrors(e.Errors))
}

func (e *PeriodError) Unwrap() []error { return e.Errors }
func (e *PeriodError) Code() string    { return "invalid_period" }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d error(s): %s", len(errs), strings.Join(msgs, "; "))
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsValidation(err error) bool    { return errors.Is(err, ErrValidation) }
func IsComputation(err error) bool   { return errors.Is(err, ErrComputation) }
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsClientError returns true if the error is due to the caller's input or
// policy rather than an internal failure.
func IsClientError(err error) bool {
	return IsValidation(err) || IsComputation(err) || IsConfiguration(err)
}

// ErrorCode returns a stable snake_case code for err, or "internal".
func ErrorCode(err error) string {
	var c interface{ Code() string }
	if errors.As(err, &c) {
		return c.Code()
	}
	return "internal"
}

// Flatten expands WeekError and PeriodError into their leaf errors, in order.
func Flatten(err error) []error {
	switch e := err.(type) {
	case nil:
		return nil
	case *WeekError:
		return flattenAll(e.Errors)
	case *PeriodError:
		return flattenAll(e.Errors)
	default:
		return []error{err}
	}
}

func flattenAll(errs []error) []error {
	var out []error
	for _, err := range errs {
		out = append(out, Flatten(err)...)
	}
	return out
}
