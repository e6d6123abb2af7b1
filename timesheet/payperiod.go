package timesheet

import (
	"fmt"

	"github.com/warp/timesheet-engine/generic"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// PAY PERIOD GENERATOR
// =============================================================================

// GeneratePeriod aggregates one pay period starting at start.
//
// start must be policy.PayPeriodStartDate + k*PayPeriodLength days (k may be
// negative); otherwise a *MisalignedPeriodError is returned. weeks holds one
// slice of five entries per 7-day block of the period. The generator owns
// date assignment: entry i of week w is dated with the i-th weekday of block
// w. Undated entries receive that date on a copy; dated entries must already
// carry it.
//
// Weeks are aggregated concurrently and folded in week order. If any week
// fails, a *PeriodError with every week's errors is returned and no totals.
func GeneratePeriod(start generic.TimePoint, weeks [][]TimeEntry, policy Policy) (*PayPeriod, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	tiling := policy.Tiling()
	if !tiling.IsAligned(start) {
		return nil, &MisalignedPeriodError{
			Start:  start,
			Anchor: policy.PayPeriodStartDate,
			Length: policy.PayPeriodLength,
			Offset: tiling.Offset(start),
		}
	}
	if len(weeks) != policy.WeeksPerPeriod() {
		return nil, &ConfigurationError{
			Field:  "weeks",
			Value:  fmt.Sprint(len(weeks)),
			Reason: fmt.Sprintf("a %d-day pay period takes exactly %d weeks", policy.PayPeriodLength, policy.WeeksPerPeriod()),
		}
	}

	period := generic.NewPeriod(start, policy.PayPeriodLength)
	results := make([]*WeekData, len(weeks))
	errs := make([]error, len(weeks))

	var g errgroup.Group
	for i := range weeks {
		i := i
		g.Go(func() error {
			results[i], errs[i] = computeWeek(weekBlock(start, i), weeks[i], policy)
			return nil
		})
	}
	_ = g.Wait()

	var weekErrs []error
	for i, err := range errs {
		if err == nil {
			continue
		}
		if IsConfiguration(err) {
			return nil, err
		}
		if _, ok := err.(*WeekError); !ok {
			err = &WeekError{WeekStart: weekBlock(start, i).Start, Errors: []error{err}}
		}
		weekErrs = append(weekErrs, err)
	}
	if len(weekErrs) > 0 {
		return nil, &PeriodError{Start: start, Errors: weekErrs}
	}

	return foldPeriod(period, results), nil
}

// weekBlock returns the i-th 7-day block of a period starting at start.
func weekBlock(start generic.TimePoint, i int) generic.Period {
	return generic.NewPeriod(start.AddDays(7*i), 7)
}

// computeWeek dates copies of entries with the block's weekdays and
// aggregates them.
func computeWeek(block generic.Period, entries []TimeEntry, p Policy) (*WeekData, error) {
	if len(entries) != WorkdaysPerWeek {
		return aggregateWeek(entries, p)
	}

	workdays := block.Workdays()
	dated := make([]TimeEntry, len(entries))
	var mismatches []error
	for i, e := range entries {
		want := workdays[i]
		if !e.Date.IsZero() && !e.Date.Equal(want) {
			mismatches = append(mismatches, &InconsistentStateError{
				Date:    e.Date,
				DayType: e.DayType,
				Reason:  fmt.Sprintf("entry in slot %d of week %s must be dated %s", i+1, block.Start, want),
			})
		}
		dated[i] = e.WithDate(want)
	}

	week, err := aggregateWeek(dated, p)
	if len(mismatches) == 0 {
		return week, err
	}
	if IsConfiguration(err) {
		return nil, err
	}
	all := mismatches
	if we, ok := err.(*WeekError); ok {
		all = append(all, we.Errors...)
	} else if err != nil {
		all = append(all, err)
	}
	return nil, &WeekError{WeekStart: block.Start, Errors: all}
}

// foldPeriod sums weeks in order, Monday-first within each week.
func foldPeriod(period generic.Period, weeks []*WeekData) *PayPeriod {
	pp := &PayPeriod{Period: period, Weeks: make([]WeekData, 0, len(weeks))}
	for _, w := range weeks {
		pp.Weeks = append(pp.Weeks, *w)
	}
	sum := func(field func(WeekData) generic.Amount) generic.Amount {
		amounts := make([]generic.Amount, len(pp.Weeks))
		for i, w := range pp.Weeks {
			amounts[i] = field(w)
		}
		return generic.SumAmounts(generic.UnitHours, amounts...)
	}
	pp.RegularHours = sum(func(w WeekData) generic.Amount { return w.RegularHours })
	pp.OvertimeHours = sum(func(w WeekData) generic.Amount { return w.OvertimeHours })
	pp.DoubleTimeHours = sum(func(w WeekData) generic.Amount { return w.DoubleTimeHours })
	pp.ExtraHours = sum(func(w WeekData) generic.Amount { return w.ExtraHours })
	pp.TotalHours = sum(func(w WeekData) generic.Amount { return w.TotalHours })
	pp.VacationHours = sum(func(w WeekData) generic.Amount { return w.VacationHours })
	pp.SickHours = sum(func(w WeekData) generic.Amount { return w.SickHours })
	pp.HolidayHours = sum(func(w WeekData) generic.Amount { return w.HolidayHours })
	return pp
}

// =============================================================================
// ENTRY ARRANGEMENT - Date-keyed input to week slots
// =============================================================================

// ArrangeEntries places date-keyed entries into the week slots GeneratePeriod
// expects for the period starting at start. Workdays without an entry get an
// empty REGULAR entry, which later fails with a MissingTimeError. Entries on
// weekends, outside the period, undated or duplicated are collected into a
// *PeriodError.
func ArrangeEntries(start generic.TimePoint, policy Policy, entries []TimeEntry) ([][]TimeEntry, error) {
	if policy.PayPeriodLength <= 0 || policy.PayPeriodLength%7 != 0 {
		return nil, policyErr("pay_period_length", fmt.Sprint(policy.PayPeriodLength), "must be a positive multiple of 7 days")
	}
	period := generic.NewPeriod(start, policy.PayPeriodLength)

	byDate := make(map[string]TimeEntry, len(entries))
	var errs []error
	for _, e := range entries {
		if err := CheckCollectable(e); err != nil {
			errs = append(errs, err)
			continue
		}
		if !period.Contains(e.Date) {
			errs = append(errs, &BoundsError{
				Date:  e.Date,
				Field: FieldDate,
				Value: e.Date.String(),
				Min:   period.Start.String(),
				Max:   period.End.String(),
			})
			continue
		}
		key := e.Date.String()
		if _, dup := byDate[key]; dup {
			errs = append(errs, &InconsistentStateError{Date: e.Date, DayType: e.DayType, Reason: "duplicate entry for date"})
			continue
		}
		byDate[key] = e
	}
	if len(errs) > 0 {
		return nil, &PeriodError{Start: start, Errors: errs}
	}

	weeks := make([][]TimeEntry, policy.WeeksPerPeriod())
	for i := range weeks {
		for _, day := range weekBlock(start, i).Workdays() {
			e, ok := byDate[day.String()]
			if !ok {
				e = TimeEntry{Date: day, DayType: DayRegular}
			}
			weeks[i] = append(weeks[i], e)
		}
	}
	return weeks, nil
}

// CheckCollectable returns an *InconsistentStateError when e cannot occupy a
// week slot: it has no date or falls on a weekend.
func CheckCollectable(e TimeEntry) error {
	switch {
	case e.Date.IsZero():
		return &InconsistentStateError{DayType: e.DayType, Reason: "entry has no date"}
	case e.Date.IsWeekend():
		return &InconsistentStateError{
			Date: e.Date, DayType: e.DayType,
			Reason: fmt.Sprintf("%s is a %s; weekend days are not collected", e.Date, e.Date.Weekday()),
		}
	}
	return nil
}
