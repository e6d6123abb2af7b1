package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/factory"
)

// =============================================================================
// HELPERS
// =============================================================================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func policyFile(t *testing.T) string {
	return writeFile(t, "policy.json", factory.StandardPolicyJSON("standard", "2025-01-06"))
}

// execute runs tsctl with args and returns what it printed on stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func entryJSON(date, start, end, lunchStart, lunchEnd string) string {
	return fmt.Sprintf(`{"date":%q,"start_time":%q,"end_time":%q,"lunch_start_time":%q,"lunch_end_time":%q}`,
		date, start, end, lunchStart, lunchEnd)
}

// fortnight returns the ten workdays from 2025-01-06 at 8h each.
func fortnight() []string {
	days := []string{
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10",
		"2025-01-13", "2025-01-14", "2025-01-15", "2025-01-16", "2025-01-17",
	}
	entries := make([]string, len(days))
	for i, d := range days {
		entries[i] = entryJSON(d, "08:00", "16:30", "12:00", "12:30")
	}
	return entries
}

func array(entries []string) string {
	return "[" + strings.Join(entries, ",") + "]"
}

// =============================================================================
// FLAGS
// =============================================================================

func TestRootFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"policy required", []string{"policy"}, `"policy" not set`},
		{"bad format", []string{"-p", "x.json", "--format", "yaml", "policy"}, "invalid format"},
		{"bad log level", []string{"-p", "x.json", "--log-level", "loud", "policy"}, "loud"},
		{"missing policy file", []string{"-p", "does-not-exist.json", "policy"}, "failed to read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotErrorIs(t, err, errRulesBroken)
		})
	}
}

func TestPolicyCommand(t *testing.T) {
	// GIVEN: the standard preset without optional fields
	path := policyFile(t)

	// WHEN: printed as text
	out, err := execute(t, "", "-p", path, "policy")

	// THEN: derived settings are shown
	require.NoError(t, err)
	assert.Contains(t, out, "Standard 40h week")
	assert.Contains(t, out, "06:00-20:00")
	assert.Contains(t, out, "overtime > 40")
	assert.Contains(t, out, "14 days from 2025-01-06")

	// WHEN: printed as JSON
	out, err = execute(t, "", "-p", path, "-f", "json", "policy")

	// THEN: it parses back to the same policy
	require.NoError(t, err)
	var pj factory.PolicyJSON
	require.NoError(t, json.Unmarshal([]byte(out), &pj))
	assert.Equal(t, "standard", pj.ID)
}

func TestPolicyCommand_InvalidPolicy(t *testing.T) {
	path := writeFile(t, "policy.json", `{"id":"bad","pay_period_start_date":"2025-01-06","pay_period_length":10}`)

	_, err := execute(t, "", "-p", path, "policy")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pay_period_length")
}

// =============================================================================
// VALIDATE
// =============================================================================

func TestValidateCommand(t *testing.T) {
	policy := policyFile(t)

	t.Run("all valid", func(t *testing.T) {
		entries := writeFile(t, "entries.json", array(fortnight()[:2]))

		out, err := execute(t, "", "-p", policy, "validate", entries)

		require.NoError(t, err)
		assert.Contains(t, out, "2025-01-06")
		assert.Equal(t, 2, strings.Count(out, "ok"))
	})

	t.Run("invalid entries reported", func(t *testing.T) {
		// GIVEN: one entry ending before it starts and one absence with times
		entries := array([]string{
			entryJSON("2025-01-06", "08:00", "16:30", "12:00", "12:30"),
			entryJSON("2025-01-07", "17:00", "09:00", "", ""),
			`{"date":"2025-01-08","day_type":"VACATION","start_time":"09:00"}`,
		})

		// WHEN: validated from stdin as JSON
		out, err := execute(t, entries, "-p", policy, "-f", "json", "validate", "-")

		// THEN: every entry has a result and the command fails
		require.ErrorIs(t, err, errRulesBroken)
		assert.Contains(t, err.Error(), "2 of 3")

		var checks []EntryCheck
		require.NoError(t, json.Unmarshal([]byte(out), &checks))
		require.Len(t, checks, 3)
		assert.True(t, checks[0].Valid)
		assert.False(t, checks[1].Valid)
		require.NotEmpty(t, checks[1].Errors)
		assert.Equal(t, "ordering", checks[1].Errors[0].Code)
		assert.Equal(t, "2025-01-07", checks[1].Date)
		assert.False(t, checks[2].Valid)
		assert.Equal(t, "inconsistent_state", checks[2].Errors[0].Code)
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := execute(t, `[{"date":"2025-13-01"}]`, "-p", policy, "validate", "-")

		require.Error(t, err)
		assert.NotErrorIs(t, err, errRulesBroken)
		assert.Contains(t, err.Error(), "entry 0")
	})
}

// =============================================================================
// DAY / WEEK
// =============================================================================

func TestDayCommand(t *testing.T) {
	policy := policyFile(t)

	// GIVEN: 08:00-17:00 with a 45 minute lunch
	entry := entryJSON("2025-01-06", "08:00", "17:00", "12:00", "12:45")

	// WHEN: computed
	out, err := execute(t, entry, "-p", policy, "-f", "json", "day", "-")

	// THEN: 8h15
	require.NoError(t, err)
	var day factory.DailyHoursJSON
	require.NoError(t, json.Unmarshal([]byte(out), &day))
	assert.Equal(t, 495, day.Minutes)
	assert.Equal(t, "8.25", day.Hours)
	assert.Equal(t, "REGULAR", day.DayType)
}

func TestDayCommand_OverDailyMaximum(t *testing.T) {
	policy := policyFile(t)

	out, err := execute(t, `{"start_time":"06:00","end_time":"19:00"}`, "-p", policy, "day", "-")

	require.ErrorIs(t, err, errRulesBroken)
	assert.Contains(t, out, "exceeds_max_daily_hours")
}

func TestWeekCommand(t *testing.T) {
	policy := policyFile(t)

	// GIVEN: five 10h days
	var days []string
	for _, d := range []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10"} {
		days = append(days, entryJSON(d, "07:00", "17:30", "12:00", "12:30"))
	}
	entries := writeFile(t, "week.json", array(days))

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "", "-p", policy, "-f", "json", "week", entries)

		// THEN: 40 regular, 8 overtime, 2 double-time
		require.NoError(t, err)
		var week factory.WeekJSON
		require.NoError(t, json.Unmarshal([]byte(out), &week))
		assert.Equal(t, "40.00", week.RegularHours)
		assert.Equal(t, "8.00", week.OvertimeHours)
		assert.Equal(t, "2.00", week.DoubleTimeHours)
		assert.Equal(t, "50.00", week.TotalHours)
		assert.Len(t, week.Days, 5)
	})

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "", "-p", policy, "week", entries)

		require.NoError(t, err)
		assert.Contains(t, out, "DATE")
		assert.Contains(t, out, "Double-time")
		assert.Contains(t, out, "50.00")
	})

	t.Run("wrong entry count", func(t *testing.T) {
		short := writeFile(t, "short.json", array(days[:4]))

		_, err := execute(t, "", "-p", policy, "week", short)

		require.Error(t, err)
		assert.NotErrorIs(t, err, errRulesBroken)
	})
}

// =============================================================================
// PERIOD
// =============================================================================

func TestPeriodCommand(t *testing.T) {
	policy := policyFile(t)

	t.Run("start defaults to the period of the earliest entry", func(t *testing.T) {
		// GIVEN: a full fortnight in reverse order
		entries := fortnight()
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}

		// WHEN: computed without --start
		out, err := execute(t, array(entries), "-p", policy, "-f", "json", "period", "-")

		// THEN: the 2025-01-06 period totals 80 regular hours
		require.NoError(t, err)
		var pp factory.PayPeriodJSON
		require.NoError(t, json.Unmarshal([]byte(out), &pp))
		assert.Equal(t, "2025-01-06", pp.StartDate)
		assert.Equal(t, "2025-01-19", pp.EndDate)
		assert.Equal(t, "80.00", pp.RegularHours)
		assert.Equal(t, "80.00", pp.TotalHours)
		assert.Len(t, pp.Weeks, 2)
	})

	t.Run("explicit start in text", func(t *testing.T) {
		entries := writeFile(t, "entries.json", array(fortnight()))

		out, err := execute(t, "", "-p", policy, "period", "--start", "2025-01-06", entries)

		require.NoError(t, err)
		assert.Contains(t, out, "Pay period 2025-01-06")
		assert.Contains(t, out, "80.00")
	})

	t.Run("missing day", func(t *testing.T) {
		// GIVEN: the last Friday missing
		entries := fortnight()[:9]

		out, err := execute(t, array(entries), "-p", policy, "period", "-s", "2025-01-06", "-")

		require.ErrorIs(t, err, errRulesBroken)
		assert.Contains(t, out, "missing_time")
		assert.Contains(t, out, "2025-01-17")
	})

	t.Run("entries outside the period", func(t *testing.T) {
		// GIVEN: a period starting a week after the first entries
		out, err := execute(t, array(fortnight()), "-p", policy, "-f", "json", "period", "-s", "2025-01-13", "-")

		// THEN: the first week's entries are out of bounds
		require.ErrorIs(t, err, errRulesBroken)
		assert.Contains(t, out, `"invalid_period"`)
		assert.Contains(t, out, `"bounds"`)
	})

	t.Run("undated entries need --start", func(t *testing.T) {
		_, err := execute(t, `[{"start_time":"08:00","end_time":"16:00"}]`, "-p", policy, "period", "-")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--start is required")
	})
}
