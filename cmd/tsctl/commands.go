package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// policy
// =============================================================================

func newPolicyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Validate the policy and print it with defaults filled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pj := factory.NewPolicyFactory().ToJSON(opts.policy)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), pj)
			}
			printPolicy(cmd.OutOrStdout(), opts.policy)
			return nil
		},
	}
}

// =============================================================================
// validate
// =============================================================================

// EntryCheck is the JSON result of validating one entry.
type EntryCheck struct {
	Index  int                       `json:"index"`
	Date   string                    `json:"date,omitempty"`
	Valid  bool                      `json:"valid"`
	Errors []factory.ErrorDetailJSON `json:"errors,omitempty"`
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <entries.json>",
		Short: "Check every entry of a JSON array against the policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args[0])
			if err != nil {
				return err
			}

			checks := make([]EntryCheck, len(entries))
			invalid := 0
			for i, e := range entries {
				checks[i] = EntryCheck{Index: i, Valid: true}
				if !e.Date.IsZero() {
					checks[i].Date = e.Date.String()
				}
				if err := timesheet.Validate(e, opts.policy); err != nil {
					if !timesheet.IsValidation(err) {
						return err
					}
					checks[i].Valid = false
					checks[i].Errors = factory.ErrorDetails(err)
					invalid++
				}
			}
			opts.logger.Info(cmd.Context(), "entries validated", "total", len(entries), "invalid", invalid)

			if opts.format == "json" {
				if err := writeJSON(cmd.OutOrStdout(), checks); err != nil {
					return err
				}
			} else {
				printChecks(cmd.OutOrStdout(), checks)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d entries invalid: %w", invalid, len(entries), errRulesBroken)
			}
			return nil
		},
	}
}

// =============================================================================
// day / week / period
// =============================================================================

func newDayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "day <entry.json>",
		Short: "Compute the hours of one entry (a JSON object)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var ej factory.TimeEntryJSON
			if err := json.Unmarshal(data, &ej); err != nil {
				return fmt.Errorf("failed to parse entry JSON: %w", err)
			}
			entry, err := factory.ParseEntry(ej)
			if err != nil {
				return err
			}

			day, err := timesheet.ComputeDailyHours(entry, opts.policy)
			if err != nil {
				return opts.report(cmd, err)
			}
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), factory.DailyToJSON(day))
			}
			printDays(cmd.OutOrStdout(), []timesheet.DailyHours{day})
			return nil
		},
	}
}

func newWeekCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "week <entries.json>",
		Short: "Aggregate five entries, Monday first, into weekly bands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args[0])
			if err != nil {
				return err
			}

			week, err := timesheet.AggregateWeek(entries, opts.policy)
			if err != nil {
				return opts.report(cmd, err)
			}
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), factory.WeekToJSON(week))
			}
			printWeek(cmd.OutOrStdout(), week)
			return nil
		},
	}
}

func newPeriodCmd(opts *options) *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "period <entries.json>",
		Short: "Compute a pay period from dated entries",
		Long: `period places dated entries into the weeks of the pay period starting at
--start (default: the period containing the earliest entry). Workdays
without an entry are reported as missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readEntries(cmd, args[0])
			if err != nil {
				return err
			}
			periodStart, err := resolveStart(start, entries, opts.policy)
			if err != nil {
				return err
			}

			weeks, err := timesheet.ArrangeEntries(periodStart, opts.policy, entries)
			if err != nil {
				return opts.report(cmd, err)
			}
			pp, err := timesheet.GeneratePeriod(periodStart, weeks, opts.policy)
			if err != nil {
				return opts.report(cmd, err)
			}
			opts.logger.Info(cmd.Context(), "pay period computed",
				"period_start", pp.Period.Start.String(), "total_hours", pp.TotalHours.String())

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), factory.PeriodToJSON(pp))
			}
			printPeriod(cmd.OutOrStdout(), pp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&start, "start", "s", "", "pay period start date (YYYY-MM-DD)")
	return cmd
}

// resolveStart parses --start, or picks the period of the earliest entry.
func resolveStart(start string, entries []timesheet.TimeEntry, p timesheet.Policy) (generic.TimePoint, error) {
	if start != "" {
		return generic.ParseDate(start)
	}
	var earliest generic.TimePoint
	for _, e := range entries {
		if !e.Date.IsZero() && (earliest.IsZero() || e.Date.Before(earliest)) {
			earliest = e.Date
		}
	}
	if earliest.IsZero() {
		return generic.TimePoint{}, fmt.Errorf("--start is required when no entry is dated")
	}
	return p.PeriodContaining(earliest).Start, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func readEntries(cmd *cobra.Command, path string) ([]timesheet.TimeEntry, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return factory.ParseEntriesJSON(data)
}

// report prints rule violations and returns errRulesBroken. Other errors
// are returned unchanged.
func (o *options) report(cmd *cobra.Command, err error) error {
	if !timesheet.IsValidation(err) && !timesheet.IsComputation(err) {
		return err
	}
	details := factory.ErrorDetails(err)
	if o.format == "json" {
		if werr := writeJSON(cmd.OutOrStdout(), map[string]any{
			"code":   timesheet.ErrorCode(err),
			"errors": details,
		}); werr != nil {
			return werr
		}
	} else {
		printErrors(cmd.OutOrStdout(), details)
	}
	return fmt.Errorf("%d rule violations: %w", len(details), errRulesBroken)
}
