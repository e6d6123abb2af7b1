/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Policy, entry and
  result shapes are shared with the tsctl CLI and live in package factory;
  this file only adds the envelopes specific to HTTP.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Entries:
    SubmitEntriesRequest, SubmitEntriesResponse, EntriesResponse

  Computation:
    ComputeRequest, ValidateResponse, SnapshotDTO, PeriodDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go, factory/entry.go, factory/result.go: shared JSON types
*/
package api

import (
	"time"

	"github.com/warp/timesheet-engine/factory"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	PolicyID  string    `json:"policy_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateEmployeeRequest is the request body for creating an employee.
// ID is generated when empty.
type CreateEmployeeRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	PolicyID string `json:"policy_id"`
}

// SubmitEntriesRequest carries dated entries for one employee.
type SubmitEntriesRequest struct {
	Entries []factory.TimeEntryJSON `json:"entries"`
}

// SubmitEntriesResponse reports how many entries were stored and why the
// others were rejected.
type SubmitEntriesResponse struct {
	Saved    int                       `json:"saved"`
	Rejected []factory.ErrorDetailJSON `json:"rejected"`
}

// EntriesResponse lists stored entries of a date range.
type EntriesResponse struct {
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Entries   []factory.TimeEntryJSON `json:"entries"`
}

// PeriodDTO is a pay period's date range.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SnapshotDTO is a stored pay period computation.
type SnapshotDTO struct {
	ID         string             `json:"id"`
	EmployeeID string             `json:"employee_id"`
	PolicyID   string             `json:"policy_id"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Totals     factory.TotalsJSON `json:"totals"`
	ComputedAt time.Time          `json:"computed_at"`
}

// ComputeRequest is the body of the stateless /api/compute endpoints.
// Exactly one of PolicyID and Policy selects the policy. Which of the other
// fields are read depends on the endpoint:
//
//	validate, day: Entry
//	week:          Entries (five, Monday first)
//	period:        StartDate plus Weeks, or StartDate plus dated Entries
type ComputeRequest struct {
	PolicyID  string                    `json:"policy_id,omitempty"`
	Policy    *factory.PolicyJSON       `json:"policy,omitempty"`
	Entry     *factory.TimeEntryJSON    `json:"entry,omitempty"`
	Entries   []factory.TimeEntryJSON   `json:"entries,omitempty"`
	Weeks     [][]factory.TimeEntryJSON `json:"weeks,omitempty"`
	StartDate string                    `json:"start_date,omitempty"`
}

// ValidateResponse is returned by /api/compute/validate.
type ValidateResponse struct {
	Valid  bool                      `json:"valid"`
	Errors []factory.ErrorDetailJSON `json:"errors"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request body for loading a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an error in API responses. Details lists every
// rule violation when the request failed on timesheet rules.
type ErrorResponse struct {
	Error   string                    `json:"error"`
	Code    string                    `json:"code,omitempty"`
	Details []factory.ErrorDetailJSON `json:"details,omitempty"`
}
