package factory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// RESULT JSON - Computed hours as served by the API and printed by tsctl
// =============================================================================

// Hour figures are strings with two decimals ("8.50") so clients never see
// binary floating-point artifacts.

type DailyHoursJSON struct {
	Date                string `json:"date,omitempty"`
	DayType             string `json:"day_type"`
	Minutes             int    `json:"minutes"`
	Hours               string `json:"hours"`
	HolidayRateEligible bool   `json:"holiday_rate_eligible,omitempty"`
	HolidayName         string `json:"holiday_name,omitempty"`
	PayRate             string `json:"pay_rate"`
}

type WeekJSON struct {
	StartDate       string           `json:"start_date,omitempty"`
	Days            []DailyHoursJSON `json:"days"`
	RegularHours    string           `json:"regular_hours"`
	OvertimeHours   string           `json:"overtime_hours"`
	DoubleTimeHours string           `json:"double_time_hours"`
	ExtraHours      string           `json:"extra_hours"`
	TotalHours      string           `json:"total_hours"`
	VacationHours   string           `json:"vacation_hours"`
	SickHours       string           `json:"sick_hours"`
	HolidayHours    string           `json:"holiday_hours"`
}

type PayPeriodJSON struct {
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Weeks           []WeekJSON `json:"weeks"`
	RegularHours    string     `json:"regular_hours"`
	OvertimeHours   string     `json:"overtime_hours"`
	DoubleTimeHours string     `json:"double_time_hours"`
	ExtraHours      string     `json:"extra_hours"`
	TotalHours      string     `json:"total_hours"`
	VacationHours   string     `json:"vacation_hours"`
	SickHours       string     `json:"sick_hours"`
	HolidayHours    string     `json:"holiday_hours"`
}

type TotalsJSON struct {
	RegularHours    string `json:"regular_hours"`
	OvertimeHours   string `json:"overtime_hours"`
	DoubleTimeHours string `json:"double_time_hours"`
	TotalHours      string `json:"total_hours"`
	VacationHours   string `json:"vacation_hours"`
	SickHours       string `json:"sick_hours"`
	HolidayHours    string `json:"holiday_hours"`
}

func DailyToJSON(d timesheet.DailyHours) DailyHoursJSON {
	dj := DailyHoursJSON{
		DayType:             string(d.DayType),
		Minutes:             d.Minutes,
		Hours:               d.Hours.String(),
		HolidayRateEligible: d.HolidayRateEligible,
		HolidayName:         d.HolidayName,
		PayRate:             d.PayRate.String(),
	}
	if !d.Date.IsZero() {
		dj.Date = d.Date.String()
	}
	return dj
}

func WeekToJSON(w *timesheet.WeekData) WeekJSON {
	wj := WeekJSON{
		Days:            make([]DailyHoursJSON, 0, len(w.Days)),
		RegularHours:    w.RegularHours.String(),
		OvertimeHours:   w.OvertimeHours.String(),
		DoubleTimeHours: w.DoubleTimeHours.String(),
		ExtraHours:      w.ExtraHours.String(),
		TotalHours:      w.TotalHours.String(),
		VacationHours:   w.VacationHours.String(),
		SickHours:       w.SickHours.String(),
		HolidayHours:    w.HolidayHours.String(),
	}
	if !w.StartDate.IsZero() {
		wj.StartDate = w.StartDate.String()
	}
	for _, d := range w.Days {
		wj.Days = append(wj.Days, DailyToJSON(d))
	}
	return wj
}

func PeriodToJSON(p *timesheet.PayPeriod) PayPeriodJSON {
	pj := PayPeriodJSON{
		StartDate:       p.Period.Start.String(),
		EndDate:         p.Period.End.String(),
		Weeks:           make([]WeekJSON, 0, len(p.Weeks)),
		RegularHours:    p.RegularHours.String(),
		OvertimeHours:   p.OvertimeHours.String(),
		DoubleTimeHours: p.DoubleTimeHours.String(),
		ExtraHours:      p.ExtraHours.String(),
		TotalHours:      p.TotalHours.String(),
		VacationHours:   p.VacationHours.String(),
		SickHours:       p.SickHours.String(),
		HolidayHours:    p.HolidayHours.String(),
	}
	for i := range p.Weeks {
		pj.Weeks = append(pj.Weeks, WeekToJSON(&p.Weeks[i]))
	}
	return pj
}

func TotalsToJSON(t timesheet.PeriodTotals) TotalsJSON {
	return TotalsJSON{
		RegularHours:    t.RegularHours.String(),
		OvertimeHours:   t.OvertimeHours.String(),
		DoubleTimeHours: t.DoubleTimeHours.String(),
		TotalHours:      t.TotalHours.String(),
		VacationHours:   t.VacationHours.String(),
		SickHours:       t.SickHours.String(),
		HolidayHours:    t.HolidayHours.String(),
	}
}

// =============================================================================
// ERROR DETAILS
// =============================================================================

// ErrorDetailJSON describes one leaf error of a (possibly batched) failure.
type ErrorDetailJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
}

// ErrorDetails flattens err into one detail per leaf error.
func ErrorDetails(err error) []ErrorDetailJSON {
	leaves := timesheet.Flatten(err)
	details := make([]ErrorDetailJSON, 0, len(leaves))
	for _, leaf := range leaves {
		details = append(details, ErrorDetailJSON{
			Code:    timesheet.ErrorCode(leaf),
			Message: leaf.Error(),
			Date:    errorDate(leaf),
		})
	}
	return details
}

// errorDate extracts the day an error refers to, if it has one.
func errorDate(err error) string {
	var day generic.TimePoint
	var (
		mte *timesheet.MissingTimeError
		oe  *timesheet.OrderingError
		be  *timesheet.BoundsError
		ie  *timesheet.IncompleteIntervalError
		ise *timesheet.InconsistentStateError
		ne  *timesheet.NegativeHoursError
		de  *timesheet.ExceedsMaxDailyHoursError
		we  *timesheet.ExceedsMaxWeeklyHoursError
		ue  *timesheet.UnrecognizedHolidayError
		me  *timesheet.MisalignedPeriodError
	)
	switch {
	case errors.As(err, &mte):
		day = mte.Date
	case errors.As(err, &oe):
		day = oe.Date
	case errors.As(err, &be):
		day = be.Date
	case errors.As(err, &ie):
		day = ie.Date
	case errors.As(err, &ise):
		day = ise.Date
	case errors.As(err, &ne):
		day = ne.Date
	case errors.As(err, &de):
		day = de.Date
	case errors.As(err, &we):
		day = we.WeekStart
	case errors.As(err, &ue):
		day = ue.Date
	case errors.As(err, &me):
		day = me.Start
	}
	if day.IsZero() {
		return ""
	}
	return day.String()
}

// TotalsFromJSON parses stored totals back into hour amounts.
func TotalsFromJSON(tj TotalsJSON) (timesheet.PeriodTotals, error) {
	var t timesheet.PeriodTotals
	fields := []struct {
		name  string
		value string
		dst   *generic.Amount
	}{
		{"regular_hours", tj.RegularHours, &t.RegularHours},
		{"overtime_hours", tj.OvertimeHours, &t.OvertimeHours},
		{"double_time_hours", tj.DoubleTimeHours, &t.DoubleTimeHours},
		{"total_hours", tj.TotalHours, &t.TotalHours},
		{"vacation_hours", tj.VacationHours, &t.VacationHours},
		{"sick_hours", tj.SickHours, &t.SickHours},
		{"holiday_hours", tj.HolidayHours, &t.HolidayHours},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.value)
		if err != nil {
			return timesheet.PeriodTotals{}, fmt.Errorf("invalid %s %q: %w", f.name, f.value, err)
		}
		*f.dst = generic.Amount{Value: v, Unit: generic.UnitHours}
	}
	return t, nil
}
