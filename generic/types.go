/*
Package generic provides the domain-agnostic building blocks of the timesheet engine.

PURPOSE:
  This package holds the value types every other package shares: quantities
  of time with a unit, calendar days, periods and the holiday calendar. It
  knows nothing about clock entries, day types or overtime; those live in
  the timesheet package.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 8.5 hours)
  - Identifiers: Type-safe employee and policy IDs

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Immutability: Every operation returns a new value
  3. Type Safety: Strong typing for IDs prevents mixing employee/policy IDs

USAGE:
  worked := generic.MinutesToHours(510)        // 8.5 hours
  total := worked.Add(generic.NewHours(8))     // 16.5 hours

SEE ALSO:
  - time.go: Calendar days and the holiday calendar
  - period.go: Periods and pay-period tiling
  - errors.go: Store-level errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const UnitHours Unit = "hours"

// HourPrecision is the number of decimal places hour figures are reported with.
const HourPrecision int32 = 2

var sixty = decimal.NewFromInt(60)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// NewHours builds an hour amount from a float literal.
func NewHours(h float64) Amount { return NewAmount(h, UnitHours) }

// ZeroHours is the zero value in hours.
func ZeroHours() Amount { return Amount{Value: decimal.Zero, Unit: UnitHours} }

// MinutesToHours converts whole minutes to hours rounded half-up to HourPrecision.
func MinutesToHours(minutes int) Amount {
	v := decimal.NewFromInt(int64(minutes)).Div(sixty)
	return Amount{Value: v, Unit: UnitHours}.RoundHalfUp(HourPrecision)
}

// HoursToMinutes converts an hour figure to whole minutes, rounding half-up.
func HoursToMinutes(h decimal.Decimal) int {
	return int(h.Mul(sixty).Round(0).IntPart())
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) String() string               { return a.Value.StringFixed(HourPrecision) }

// RoundHalfUp rounds to the given number of places, ties away from zero.
// Hour figures are never negative, so this is round-half-up.
func (a Amount) RoundHalfUp(places int32) Amount {
	return Amount{Value: a.Value.Round(places), Unit: a.Unit}
}

// SumAmounts adds amounts in slice order.
func SumAmounts(unit Unit, amounts ...Amount) Amount {
	total := Amount{Value: decimal.Zero, Unit: unit}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PolicyID string
