/*
scenarios_test.go - Tests for demo scenario loading

Each scenario is loaded through the API and its first pay period computed,
so the demos stay in line with the engine's rules.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/factory"
)

func TestScenarios_ListAndCurrent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), len(scenarios))

	// Nothing loaded yet
	rec = s.do(t, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "null", trimNewline(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"standard-fortnight"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "standard-fortnight", decode[ScenarioDTO](t, rec).ID)
}

func TestScenarios_UnknownScenario(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarios_Totals(t *testing.T) {
	tests := []struct {
		scenario string
		employee string
		want     factory.TotalsJSON
	}{
		{
			scenario: "standard-fortnight",
			employee: "emp-ada",
			want: factory.TotalsJSON{
				RegularHours: "80.00", OvertimeHours: "0.00", DoubleTimeHours: "0.00", TotalHours: "80.00",
				VacationHours: "0.00", SickHours: "0.00", HolidayHours: "0.00",
			},
		},
		{
			scenario: "overtime-week",
			employee: "emp-grace",
			want: factory.TotalsJSON{
				RegularHours: "80.00", OvertimeHours: "8.00", DoubleTimeHours: "2.00", TotalHours: "90.00",
				VacationHours: "0.00", SickHours: "0.00", HolidayHours: "0.00",
			},
		},
		{
			scenario: "holidays-and-leave",
			employee: "emp-linus",
			want: factory.TotalsJSON{
				RegularHours: "76.00", OvertimeHours: "0.00", DoubleTimeHours: "0.00", TotalHours: "76.00",
				VacationHours: "24.00", SickHours: "8.00", HolidayHours: "8.00",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			s := newTestServer(t)

			// GIVEN: the scenario is loaded
			rec := s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"`+tt.scenario+`"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			// WHEN: its pay period is computed
			rec = s.do(t, http.MethodGet, "/api/employees/"+tt.employee+"/periods/"+ScenarioPeriodStart, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			// THEN: the stored snapshot carries the expected totals
			rec = s.do(t, http.MethodGet, "/api/employees/"+tt.employee+"/snapshots", "")
			snaps := decode[[]SnapshotDTO](t, rec)
			require.Len(t, snaps, 1)
			assert.Equal(t, tt.want, snaps[0].Totals)
		})
	}
}

func TestScenarios_HolidayWorkIsRateEligible(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"holidays-and-leave"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/employees/emp-linus/periods/2025-01-06", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pp := decode[factory.PayPeriodJSON](t, rec)

	foundersDay := pp.Weeks[0].Days[2]
	assert.Equal(t, "HOLIDAY", foundersDay.DayType)
	assert.Equal(t, "Founders Day", foundersDay.HolidayName)
	assert.True(t, foundersDay.HolidayRateEligible)

	companyDay := pp.Weeks[1].Days[2]
	assert.Equal(t, "REGULAR", companyDay.DayType)
	assert.Equal(t, "4.00", companyDay.Hours)
	assert.True(t, companyDay.HolidayRateEligible)
	assert.Equal(t, "Company Day", companyDay.HolidayName)
}

func TestScenarios_LoadReplacesPrevious(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"standard-fortnight"}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"overtime-week"}`).Code)

	rec := s.do(t, http.MethodGet, "/api/employees", "")
	employees := decode[[]EmployeeDTO](t, rec)
	require.Len(t, employees, 1)
	assert.Equal(t, "emp-grace", employees[0].ID)

	// Reset clears everything
	rec = s.do(t, http.MethodPost, "/api/scenarios/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/employees", "")
	assert.Empty(t, decode[[]EmployeeDTO](t, rec))
	rec = s.do(t, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "null", trimNewline(rec.Body.String()))
}

func trimNewline(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
