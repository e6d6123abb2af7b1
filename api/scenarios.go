/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic data
	for demos. Each scenario creates a policy, an employee and the time
	entries of the first pay period (2025-01-06 - 2025-01-19), then leaves the
	computation to GET /api/employees/{id}/periods/2025-01-06.

AVAILABLE SCENARIOS:

	standard-fortnight:  Ten 8h days, 80 regular hours
	overtime-week:       One 50h week: 40 regular, 8 overtime, 2 double-time
	holidays-and-leave:  Vacation, sick, a company holiday and work on a holiday
	invalid-entries:     Entries breaking several rules, to show error collection

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Create policy via factory
 3. Create employee
 4. Store entries directly, bypassing submission checks

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overtime-week"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - factory/policy.go: Policy JSON presets
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioPeriodStart is the first pay period every scenario fills.
const ScenarioPeriodStart = "2025-01-06"

const scenarioPolicyID = "standard"

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-fortnight",
		Name:        "Standard Fortnight",
		Description: "Ten 8h days with a 30 minute lunch: 80 regular hours",
	},
	{
		ID:          "overtime-week",
		Name:        "Overtime Week",
		Description: "A 50h week (40 regular, 8 overtime, 2 double-time) followed by a 40h week",
	},
	{
		ID:          "holidays-and-leave",
		Name:        "Holidays and Leave",
		Description: "Vacation, sick leave, a company holiday and a regular shift on a holiday",
	},
	{
		ID:          "invalid-entries",
		Name:        "Invalid Entries",
		Description: "Entries breaking ordering, window and lunch rules; computing the period lists every error",
	},
}

// resetter is implemented by stores that can be cleared.
type resetter interface {
	Reset(ctx context.Context) error
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "standard-fortnight":
		load = h.loadStandardFortnightScenario
	case "overtime-week":
		load = h.loadOvertimeWeekScenario
	case "holidays-and-leave":
		load = h.loadHolidaysAndLeaveScenario
	case "invalid-entries":
		load = h.loadInvalidEntriesScenario
	default:
		h.writeDomainError(w, r, "Unknown scenario", badRequest("unknown scenario %q", req.ScenarioID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		h.writeDomainError(w, r, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		h.writeDomainError(w, r, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info(ctx, "scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "loaded",
		"scenario":     req.ScenarioID,
		"period_start": ScenarioPeriodStart,
	})
}

// ResetDatabase clears the store.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.reset(r.Context()); err != nil {
		h.writeDomainError(w, r, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	rs, ok := h.Store.(resetter)
	if !ok {
		return fmt.Errorf("store %T cannot be reset", h.Store)
	}
	return rs.Reset(ctx)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadStandardFortnightScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardPolicyJSON(scenarioPolicyID, ScenarioPeriodStart)); err != nil {
		return err
	}
	if err := h.createEmployee(ctx, "emp-ada", "Ada Lovelace", "ada@example.com"); err != nil {
		return err
	}

	var entries []factory.TimeEntryJSON
	for _, day := range scenarioWorkdays() {
		entries = append(entries, workDay(day, "08:00", "16:30", "12:00", "12:30"))
	}
	return h.storeEntries(ctx, "emp-ada", entries)
}

func (h *Handler) loadOvertimeWeekScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardPolicyJSON(scenarioPolicyID, ScenarioPeriodStart)); err != nil {
		return err
	}
	if err := h.createEmployee(ctx, "emp-grace", "Grace Hopper", "grace@example.com"); err != nil {
		return err
	}

	days := scenarioWorkdays()
	var entries []factory.TimeEntryJSON
	// Week 1: 10h days.
	for _, day := range days[:5] {
		entries = append(entries, workDay(day, "07:00", "17:30", "12:00", "12:30"))
	}
	// Week 2: 8h days.
	for _, day := range days[5:] {
		entries = append(entries, workDay(day, "08:00", "16:30", "12:00", "12:30"))
	}
	return h.storeEntries(ctx, "emp-grace", entries)
}

func (h *Handler) loadHolidaysAndLeaveScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardPolicyJSON(scenarioPolicyID, ScenarioPeriodStart)); err != nil {
		return err
	}
	holidays := []factory.HolidayJSON{
		{ID: "founders-day", Date: "2025-01-08", Name: "Founders Day", PayRate: decimalPtr("2")},
		{ID: "company-day", Date: "2025-01-15", Name: "Company Day", PayRate: decimalPtr("1.5")},
	}
	for _, hj := range holidays {
		hol, err := h.PolicyFactory.HolidayFromJSON(hj)
		if err != nil {
			return err
		}
		if err := h.Store.SaveHoliday(ctx, scenarioPolicyID, hol); err != nil {
			return err
		}
	}
	if err := h.createEmployee(ctx, "emp-linus", "Linus Torvalds", "linus@example.com"); err != nil {
		return err
	}

	days := scenarioWorkdays()
	entries := []factory.TimeEntryJSON{
		absence(days[0], timesheet.DayVacation),
		absence(days[1], timesheet.DaySick),
		absence(days[2], timesheet.DayHoliday), // Founders Day
		workDay(days[3], "08:00", "16:30", "12:00", "12:30"),
		workDay(days[4], "08:00", "16:30", "12:00", "12:30"),
		workDay(days[5], "08:00", "16:30", "12:00", "12:30"),
		workDay(days[6], "08:00", "16:30", "12:00", "12:30"),
		workDay(days[7], "09:00", "13:00", "", ""), // Company Day, worked
		absence(days[8], timesheet.DayVacation),
		absence(days[9], timesheet.DayVacation),
	}
	return h.storeEntries(ctx, "emp-linus", entries)
}

func (h *Handler) loadInvalidEntriesScenario(ctx context.Context) error {
	if err := h.createPolicyFromJSON(ctx, factory.StandardPolicyJSON(scenarioPolicyID, ScenarioPeriodStart)); err != nil {
		return err
	}
	if err := h.createEmployee(ctx, "emp-ken", "Ken Thompson", "ken@example.com"); err != nil {
		return err
	}

	days := scenarioWorkdays()
	var entries []factory.TimeEntryJSON
	for _, day := range days {
		entries = append(entries, workDay(day, "08:00", "16:30", "12:00", "12:30"))
	}
	entries[1] = workDay(days[1], "17:00", "09:00", "", "")          // end before start
	entries[2] = workDay(days[2], "05:30", "14:00", "12:00", "12:30") // before the working window
	entries[6] = workDay(days[6], "08:00", "16:30", "12:00", "12:15") // lunch too short
	entries = append(entries[:9], entries[10:]...)                    // last Friday missing
	return h.storeEntries(ctx, "emp-ken", entries)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) createPolicyFromJSON(ctx context.Context, jsonStr string) error {
	policy, err := h.PolicyFactory.ParsePolicy(jsonStr)
	if err != nil {
		return err
	}
	return h.Store.SavePolicy(ctx, policy)
}

func (h *Handler) createEmployee(ctx context.Context, id, name, email string) error {
	return h.Store.SaveEmployee(ctx, timesheet.Employee{
		ID:        generic.EmployeeID(id),
		Name:      name,
		Email:     email,
		PolicyID:  scenarioPolicyID,
		CreatedAt: time.Now().UTC(),
	})
}

// storeEntries writes entries without validating them, so broken data can
// be demonstrated.
func (h *Handler) storeEntries(ctx context.Context, employeeID string, ejs []factory.TimeEntryJSON) error {
	entries, err := factory.ParseEntries(ejs)
	if err != nil {
		return err
	}
	return h.Store.SaveEntries(ctx, generic.EmployeeID(employeeID), entries)
}

// scenarioWorkdays returns the ten workdays of the scenario pay period.
func scenarioWorkdays() []generic.TimePoint {
	start, _ := generic.ParseDate(ScenarioPeriodStart)
	return generic.NewPeriod(start, 14).Workdays()
}

func workDay(day generic.TimePoint, start, end, lunchStart, lunchEnd string) factory.TimeEntryJSON {
	return factory.TimeEntryJSON{
		Date:           day.String(),
		DayType:        string(timesheet.DayRegular),
		StartTime:      start,
		EndTime:        end,
		LunchStartTime: lunchStart,
		LunchEndTime:   lunchEnd,
	}
}

func decimalPtr(s string) *decimal.Decimal {
	d := generic.MustParseDecimal(s)
	return &d
}

func absence(day generic.TimePoint, dt timesheet.DayType) factory.TimeEntryJSON {
	return factory.TimeEntryJSON{Date: day.String(), DayType: string(dt)}
}
