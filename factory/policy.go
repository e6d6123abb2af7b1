/*
Package factory provides JSON to Go conversion for policies, time entries
and computed results.

PURPOSE:
  Converts JSON policy definitions into timesheet.Policy values. This lets
  HR configure pay rules without code changes: the same JSON is accepted by
  the HTTP API, the tsctl CLI, the server's startup policy file and the
  SQLite store (which persists policies as JSON).

JSON SCHEMA:
  {
    "id": "standard",
    "name": "Standard 40h",
    "max_daily_hours": 12,
    "max_weekly_hours": 60,
    "min_lunch_duration": 30,
    "max_lunch_duration": 60,
    "overtime_threshold": 8,
    "double_time_threshold": 12,
    "weekly_overtime_threshold": 40,
    "weekly_double_time_threshold": 48,
    "standard_daily_hours": 8,
    "min_start_time": "06:00",
    "max_end_time": "20:00",
    "pay_period_start_date": "2025-01-06",
    "pay_period_length": 14,
    "holidays": [
      {"id": "new-year", "date": "2025-01-01", "name": "New Year", "pay_rate": 1.5, "recurring": true}
    ]
  }

KEY FEATURES:
  - Absent fields take the defaults below
  - Clock times are "HH:MM", dates "YYYY-MM-DD"
  - The resulting Policy is validated; violations are ConfigurationErrors

USAGE:
  factory := NewPolicyFactory()
  policy, err := factory.ParsePolicy(jsonString)

  // From a preset
  policy, err := factory.ParsePolicy(StandardPolicyJSON("standard", "2025-01-06"))

SEE ALSO:
  - timesheet/policy.go: Policy type definition
  - entry.go: Time entry JSON
  - result.go: JSON views of computed hours
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// Defaults applied to absent policy fields.
var (
	DefaultMaxDailyHours       = decimal.NewFromInt(12)
	DefaultMaxWeeklyHours      = decimal.NewFromInt(60)
	DefaultOvertimeThreshold   = decimal.NewFromInt(8)
	DefaultDoubleTimeThreshold = decimal.NewFromInt(12)
	DefaultHolidayPayRate      = decimal.NewFromInt(1)
)

const (
	DefaultMinLunchDuration = 30
	DefaultMaxLunchDuration = 60
	DefaultMinStartTime     = "06:00"
	DefaultMaxEndTime       = "20:00"
	DefaultPayPeriodLength  = 14
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID                        string           `json:"id"`
	Name                      string           `json:"name"`
	MaxDailyHours             *decimal.Decimal `json:"max_daily_hours,omitempty"`
	MaxWeeklyHours            *decimal.Decimal `json:"max_weekly_hours,omitempty"`
	MinLunchDuration          *int             `json:"min_lunch_duration,omitempty"` // minutes
	MaxLunchDuration          *int             `json:"max_lunch_duration,omitempty"` // minutes
	OvertimeThreshold         *decimal.Decimal `json:"overtime_threshold,omitempty"`
	DoubleTimeThreshold       *decimal.Decimal `json:"double_time_threshold,omitempty"`
	WeeklyOvertimeThreshold   *decimal.Decimal `json:"weekly_overtime_threshold,omitempty"`
	WeeklyDoubleTimeThreshold *decimal.Decimal `json:"weekly_double_time_threshold,omitempty"`
	StandardDailyHours        *decimal.Decimal `json:"standard_daily_hours,omitempty"`
	MinStartTime              string           `json:"min_start_time,omitempty"` // HH:MM
	MaxEndTime                string           `json:"max_end_time,omitempty"`   // HH:MM
	PayPeriodStartDate        string           `json:"pay_period_start_date"`
	PayPeriodLength           int              `json:"pay_period_length,omitempty"`
	Holidays                  []HolidayJSON    `json:"holidays,omitempty"`
	Version                   int              `json:"version,omitempty"`
}

// HolidayJSON represents one company holiday.
type HolidayJSON struct {
	ID        string           `json:"id,omitempty"`
	Date      string           `json:"date"`
	Name      string           `json:"name"`
	PayRate   *decimal.Decimal `json:"pay_rate,omitempty"`
	Recurring bool             `json:"recurring,omitempty"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into a validated Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (timesheet.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return timesheet.Policy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PolicyJSON to a validated timesheet.Policy.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (timesheet.Policy, error) {
	policy := timesheet.Policy{
		ID:                        generic.PolicyID(pj.ID),
		Name:                      pj.Name,
		MaxDailyHours:             decimalOr(pj.MaxDailyHours, DefaultMaxDailyHours),
		MaxWeeklyHours:            decimalOr(pj.MaxWeeklyHours, DefaultMaxWeeklyHours),
		MinLunchDuration:          intOr(pj.MinLunchDuration, DefaultMinLunchDuration),
		MaxLunchDuration:          intOr(pj.MaxLunchDuration, DefaultMaxLunchDuration),
		OvertimeThreshold:         decimalOr(pj.OvertimeThreshold, DefaultOvertimeThreshold),
		DoubleTimeThreshold:       decimalOr(pj.DoubleTimeThreshold, DefaultDoubleTimeThreshold),
		WeeklyOvertimeThreshold:   pj.WeeklyOvertimeThreshold,
		WeeklyDoubleTimeThreshold: pj.WeeklyDoubleTimeThreshold,
		StandardDailyHours:        decimalOr(pj.StandardDailyHours, timesheet.DefaultStandardDailyHours),
		PayPeriodLength:           pj.PayPeriodLength,
		Version:                   pj.Version,
	}
	if policy.PayPeriodLength == 0 {
		policy.PayPeriodLength = DefaultPayPeriodLength
	}

	var err error
	if policy.MinStartTime, err = parseClockField("min_start_time", pj.MinStartTime, DefaultMinStartTime); err != nil {
		return timesheet.Policy{}, err
	}
	if policy.MaxEndTime, err = parseClockField("max_end_time", pj.MaxEndTime, DefaultMaxEndTime); err != nil {
		return timesheet.Policy{}, err
	}
	if pj.PayPeriodStartDate != "" {
		if policy.PayPeriodStartDate, err = generic.ParseDate(pj.PayPeriodStartDate); err != nil {
			return timesheet.Policy{}, &timesheet.ConfigurationError{
				Field: "pay_period_start_date", Value: pj.PayPeriodStartDate, Reason: "must be YYYY-MM-DD",
			}
		}
	}

	for _, hj := range pj.Holidays {
		h, err := f.HolidayFromJSON(hj)
		if err != nil {
			return timesheet.Policy{}, err
		}
		policy.Holidays = append(policy.Holidays, h)
	}

	if err := policy.Validate(); err != nil {
		return timesheet.Policy{}, err
	}
	return policy, nil
}

// HolidayFromJSON converts a HolidayJSON. A missing ID gets a fresh UUID and
// a missing pay rate defaults to 1.
func (f *PolicyFactory) HolidayFromJSON(hj HolidayJSON) (generic.Holiday, error) {
	date, err := generic.ParseDate(hj.Date)
	if err != nil {
		return generic.Holiday{}, &timesheet.ConfigurationError{Field: "holidays.date", Value: hj.Date, Reason: "must be YYYY-MM-DD"}
	}
	if strings.TrimSpace(hj.Name) == "" {
		return generic.Holiday{}, &timesheet.ConfigurationError{Field: "holidays.name", Value: hj.Date, Reason: "is required"}
	}
	id := hj.ID
	if id == "" {
		id = uuid.NewString()
	}
	return generic.Holiday{
		ID:        id,
		Date:      date,
		Name:      hj.Name,
		PayRate:   generic.Amount{Value: decimalOr(hj.PayRate, DefaultHolidayPayRate)},
		Recurring: hj.Recurring,
	}, nil
}

// ToJSON converts a Policy to PolicyJSON. Every field is written out, so the
// result does not depend on the defaults of the reader.
func (f *PolicyFactory) ToJSON(policy timesheet.Policy) PolicyJSON {
	minLunch, maxLunch := policy.MinLunchDuration, policy.MaxLunchDuration
	pj := PolicyJSON{
		ID:                        string(policy.ID),
		Name:                      policy.Name,
		MaxDailyHours:             decimalPtr(policy.MaxDailyHours),
		MaxWeeklyHours:            decimalPtr(policy.MaxWeeklyHours),
		MinLunchDuration:          &minLunch,
		MaxLunchDuration:          &maxLunch,
		OvertimeThreshold:         decimalPtr(policy.OvertimeThreshold),
		DoubleTimeThreshold:       decimalPtr(policy.DoubleTimeThreshold),
		WeeklyOvertimeThreshold:   policy.WeeklyOvertimeThreshold,
		WeeklyDoubleTimeThreshold: policy.WeeklyDoubleTimeThreshold,
		StandardDailyHours:        decimalPtr(policy.StandardDay()),
		MinStartTime:              policy.MinStartTime.String(),
		MaxEndTime:                policy.MaxEndTime.String(),
		PayPeriodLength:           policy.PayPeriodLength,
		Version:                   policy.Version,
	}
	if !policy.PayPeriodStartDate.IsZero() {
		pj.PayPeriodStartDate = policy.PayPeriodStartDate.String()
	}
	for _, h := range policy.Holidays {
		pj.Holidays = append(pj.Holidays, f.HolidayToJSON(h))
	}
	return pj
}

// HolidayToJSON converts a Holiday to HolidayJSON.
func (f *PolicyFactory) HolidayToJSON(h generic.Holiday) HolidayJSON {
	return HolidayJSON{
		ID:        h.ID,
		Date:      h.Date.String(),
		Name:      h.Name,
		PayRate:   decimalPtr(h.PayRate.Value),
		Recurring: h.Recurring,
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func decimalOr(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}

func decimalPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func parseClockField(field, value, def string) (timesheet.ClockTime, error) {
	if value == "" {
		value = def
	}
	c, err := timesheet.ParseClockTime(value)
	if err != nil {
		return 0, &timesheet.ConfigurationError{Field: field, Value: value, Reason: "must be HH:MM"}
	}
	return c, nil
}

// =============================================================================
// PRESET POLICIES
// =============================================================================

// StandardPolicyJSON returns a 40-hour week policy with biweekly pay periods
// anchored on anchorDate (YYYY-MM-DD, normally a Monday). Overtime starts at
// 40 weekly hours and double-time at 48.
func StandardPolicyJSON(id, anchorDate string) string {
	return fmt.Sprintf(`{
  "id": %q,
  "name": "Standard 40h week",
  "max_daily_hours": 12,
  "max_weekly_hours": 60,
  "min_lunch_duration": 30,
  "max_lunch_duration": 60,
  "overtime_threshold": 8,
  "double_time_threshold": 12,
  "weekly_overtime_threshold": 40,
  "weekly_double_time_threshold": 48,
  "standard_daily_hours": 8,
  "min_start_time": "06:00",
  "max_end_time": "20:00",
  "pay_period_start_date": %q,
  "pay_period_length": 14
}`, id, anchorDate)
}

// WeeklyPolicyJSON returns a policy paid every week with the default
// threshold * 5 bands (40 and 60 hours).
func WeeklyPolicyJSON(id, anchorDate string) string {
	return fmt.Sprintf(`{
  "id": %q,
  "name": "Weekly pay",
  "pay_period_start_date": %q,
  "pay_period_length": 7
}`, id, anchorDate)
}
