package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/timesheet"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPolicy(w io.Writer, p timesheet.Policy) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Policy\t%s\t%s\n", p.ID, p.Name)
	fmt.Fprintf(tw, "Working window\t%s-%s\n", p.MinStartTime, p.MaxEndTime)
	fmt.Fprintf(tw, "Lunch\t%d-%d min\n", p.MinLunchDuration, p.MaxLunchDuration)
	fmt.Fprintf(tw, "Max hours\t%s/day\t%s/week\n", p.MaxDailyHours, p.MaxWeeklyHours)
	fmt.Fprintf(tw, "Weekly bands\tovertime > %s\tdouble-time > %s\n", p.WeeklyOvertimeCap(), p.WeeklyDoubleTimeCap())
	fmt.Fprintf(tw, "Standard day\t%sh\n", p.StandardDay())
	fmt.Fprintf(tw, "Pay periods\t%d days from %s\n", p.PayPeriodLength, p.PayPeriodStartDate)
	for _, h := range p.Holidays {
		recurring := ""
		if h.Recurring {
			recurring = "yearly"
		}
		fmt.Fprintf(tw, "Holiday\t%s\t%s\tx%s\t%s\n", h.Date, h.Name, h.PayRate.Value, recurring)
	}
	tw.Flush()
}

func printChecks(w io.Writer, checks []EntryCheck) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range checks {
		label := c.Date
		if label == "" {
			label = fmt.Sprintf("#%d", c.Index)
		}
		if c.Valid {
			fmt.Fprintf(tw, "%s\tok\n", label)
			continue
		}
		for _, e := range c.Errors {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", label, e.Code, e.Message)
		}
	}
	tw.Flush()
}

func printDays(w io.Writer, days []timesheet.DailyHours) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tHOURS\tRATE\tHOLIDAY")
	for _, d := range days {
		date := "-"
		if !d.Date.IsZero() {
			date = d.Date.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, d.DayType, d.Hours, d.PayRate, d.HolidayName)
	}
	tw.Flush()
}

func printWeek(w io.Writer, week *timesheet.WeekData) {
	printDays(w, week.Days)
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Regular\t%s\n", week.RegularHours)
	fmt.Fprintf(tw, "Overtime\t%s\n", week.OvertimeHours)
	fmt.Fprintf(tw, "Double-time\t%s\n", week.DoubleTimeHours)
	fmt.Fprintf(tw, "Total\t%s\n", week.TotalHours)
	tw.Flush()
}

func printPeriod(w io.Writer, pp *timesheet.PayPeriod) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pay period %s - %s\n\n", pp.Period.Start, pp.Period.End)
	fmt.Fprintln(tw, "WEEK\tREGULAR\tOVERTIME\tDOUBLE\tTOTAL\tVACATION\tSICK\tHOLIDAY")
	for _, wk := range pp.Weeks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", wk.StartDate,
			wk.RegularHours, wk.OvertimeHours, wk.DoubleTimeHours, wk.TotalHours,
			wk.VacationHours, wk.SickHours, wk.HolidayHours)
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		pp.RegularHours, pp.OvertimeHours, pp.DoubleTimeHours, pp.TotalHours,
		pp.VacationHours, pp.SickHours, pp.HolidayHours)
	tw.Flush()
}

func printErrors(w io.Writer, details []factory.ErrorDetailJSON) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range details {
		date := d.Date
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", date, d.Code, d.Message)
	}
	tw.Flush()
}
