package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TIME ENTRY JSON
// =============================================================================

// TimeEntryJSON is one day of client input. Clock times are "HH:MM" and are
// omitted when absent. An empty day_type means REGULAR.
type TimeEntryJSON struct {
	Date           string `json:"date,omitempty"`
	DayType        string `json:"day_type,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	LunchStartTime string `json:"lunch_start_time,omitempty"`
	LunchEndTime   string `json:"lunch_end_time,omitempty"`
}

// ParseEntry converts TimeEntryJSON to a TimeEntry. Malformed dates, clock
// times and unknown day types are ConfigurationErrors.
func ParseEntry(ej TimeEntryJSON) (timesheet.TimeEntry, error) {
	var e timesheet.TimeEntry
	var err error

	if ej.Date != "" {
		if e.Date, err = generic.ParseDate(ej.Date); err != nil {
			return timesheet.TimeEntry{}, &timesheet.ConfigurationError{Field: timesheet.FieldDate, Value: ej.Date, Reason: "must be YYYY-MM-DD"}
		}
	}

	e.DayType = timesheet.DayRegular
	if ej.DayType != "" {
		if e.DayType, err = timesheet.ParseDayType(ej.DayType); err != nil {
			return timesheet.TimeEntry{}, err
		}
	}

	clocks := []struct {
		field string
		value string
		dst   **timesheet.ClockTime
	}{
		{timesheet.FieldStartTime, ej.StartTime, &e.StartTime},
		{timesheet.FieldEndTime, ej.EndTime, &e.EndTime},
		{timesheet.FieldLunchStartTime, ej.LunchStartTime, &e.LunchStartTime},
		{timesheet.FieldLunchEndTime, ej.LunchEndTime, &e.LunchEndTime},
	}
	for _, c := range clocks {
		if c.value == "" {
			continue
		}
		t, err := timesheet.ParseClockTime(c.value)
		if err != nil {
			return timesheet.TimeEntry{}, &timesheet.ConfigurationError{Field: c.field, Value: c.value, Reason: "must be HH:MM"}
		}
		*c.dst = t.Ptr()
	}
	return e, nil
}

// ParseEntries converts a list of entries, stopping at the first malformed one.
func ParseEntries(ejs []TimeEntryJSON) ([]timesheet.TimeEntry, error) {
	entries := make([]timesheet.TimeEntry, 0, len(ejs))
	for i, ej := range ejs {
		e, err := ParseEntry(ej)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseWeeks converts the week slots of a pay period.
func ParseWeeks(weeks [][]TimeEntryJSON) ([][]timesheet.TimeEntry, error) {
	out := make([][]timesheet.TimeEntry, len(weeks))
	for i, w := range weeks {
		entries, err := ParseEntries(w)
		if err != nil {
			return nil, fmt.Errorf("week %d: %w", i+1, err)
		}
		out[i] = entries
	}
	return out, nil
}

// ParseEntriesJSON decodes a JSON array of entries.
func ParseEntriesJSON(data []byte) ([]timesheet.TimeEntry, error) {
	var ejs []TimeEntryJSON
	if err := json.Unmarshal(data, &ejs); err != nil {
		return nil, fmt.Errorf("failed to parse entries JSON: %w", err)
	}
	return ParseEntries(ejs)
}

// EntryToJSON converts a TimeEntry to TimeEntryJSON.
func EntryToJSON(e timesheet.TimeEntry) TimeEntryJSON {
	ej := TimeEntryJSON{DayType: string(e.DayType)}
	if !e.Date.IsZero() {
		ej.Date = e.Date.String()
	}
	ej.StartTime = clockString(e.StartTime)
	ej.EndTime = clockString(e.EndTime)
	ej.LunchStartTime = clockString(e.LunchStartTime)
	ej.LunchEndTime = clockString(e.LunchEndTime)
	return ej
}

func clockString(c *timesheet.ClockTime) string {
	if c == nil {
		return ""
	}
	return c.String()
}
