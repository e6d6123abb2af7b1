package generic

// =============================================================================
// PERIOD - A closed span of calendar days
// =============================================================================

// Period is the inclusive day range [Start, End].
//
// Examples:
//   - Biweekly pay period: Mon 2025-01-06 - Sun 2025-01-19
//   - One work week:       Mon 2025-01-06 - Sun 2025-01-12
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod returns the period of length days starting at start.
func NewPeriod(start TimePoint, length int) Period {
	return Period{Start: start, End: start.AddDays(length - 1)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Length returns the number of calendar days in the period.
func (p Period) Length() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Workdays returns the Monday-Friday days in the period, in order.
func (p Period) Workdays() []TimePoint {
	var days []TimePoint
	for _, d := range p.Days() {
		if d.IsWorkday() {
			days = append(days, d)
		}
	}
	return days
}

// Validate returns ErrInvalidPeriod when End is before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// NextPeriod returns the period following this one
func (p Period) NextPeriod() Period {
	return NewPeriod(p.End.AddDays(1), p.Length())
}

// PreviousPeriod returns the period before this one
func (p Period) PreviousPeriod() Period {
	return NewPeriod(p.Start.AddDays(-p.Length()), p.Length())
}

// =============================================================================
// PERIOD TILING - Fixed-length periods laid end to end from an anchor
// =============================================================================

// PeriodTiling cuts the calendar into back-to-back periods of Length days,
// one of which starts on Anchor. Tiles extend in both directions.
type PeriodTiling struct {
	Anchor TimePoint
	Length int
}

// Offset returns how many days date lies past the start of its tile.
func (pt PeriodTiling) Offset(date TimePoint) int {
	d := DaysBetween(pt.Anchor, date) % pt.Length
	if d < 0 {
		d += pt.Length
	}
	return d
}

// IsAligned reports whether date is the first day of a tile.
func (pt PeriodTiling) IsAligned(date TimePoint) bool {
	return pt.Offset(date) == 0
}

// PeriodFor returns the tile containing date.
func (pt PeriodTiling) PeriodFor(date TimePoint) Period {
	return NewPeriod(date.AddDays(-pt.Offset(date)), pt.Length)
}
