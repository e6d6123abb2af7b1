/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet engine via REST API. Handles HTTP request/response
  and JSON serialization, and delegates to the timesheet Service (stored
  data) or straight to the engine (stateless compute endpoints).

ENDPOINTS:
  Policies:
    GET    /api/policies                          List all policies
    POST   /api/policies                          Create or update policy from JSON
    GET    /api/policies/{id}                     Policy with its holidays merged
    GET    /api/policies/{id}/holidays            List stored holidays
    POST   /api/policies/{id}/holidays            Add holiday
    DELETE /api/policies/{id}/holidays/{holidayID}

  Employees:
    GET    /api/employees                         List all employees
    POST   /api/employees                         Create employee
    GET    /api/employees/{id}                    Get employee details
    PUT    /api/employees/{id}/entries            Submit dated time entries
    GET    /api/employees/{id}/entries?from=&to=  Stored entries (default: current period)
    GET    /api/employees/{id}/periods/current    Current pay period range
    GET    /api/employees/{id}/periods/{start}    Compute a pay period (?policy_id=)
    GET    /api/employees/{id}/snapshots          Stored computations

  Stateless compute (policy by id or inline):
    POST   /api/compute/validate                  Validate one entry
    POST   /api/compute/day                       Daily hours
    POST   /api/compute/week                      Weekly aggregate
    POST   /api/compute/period                    Pay period

  Scenarios:
    GET    /api/scenarios                         List demo scenarios
    POST   /api/scenarios/load                    Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, bad dates or clock times, invalid policy
  - 404: Resource not found
  - 422: Timesheet rule violations; details lists every one of them
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/logging"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         timesheet.Store
	Service       *timesheet.Service
	PolicyFactory *factory.PolicyFactory
	Logger        logging.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store timesheet.Store, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		Store:         store,
		Service:       timesheet.NewService(store, logger),
		PolicyFactory: factory.NewPolicyFactory(),
		Logger:        logger,
	}
}

// errBadRequest marks request-shape problems that are not timesheet rules.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// =============================================================================
// POLICY HANDLERS
// =============================================================================

// ListPolicies returns all stored policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Store.ListPolicies(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list policies", err)
		return
	}

	dtos := make([]factory.PolicyJSON, len(policies))
	for i, p := range policies {
		dtos[i] = h.PolicyFactory.ToJSON(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePolicy validates a policy JSON and stores it. Posting an existing
// id replaces the policy and bumps its version.
func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var pj factory.PolicyJSON
	if err := decodeBody(r, &pj); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return
	}
	if pj.ID == "" {
		h.writeDomainError(w, r, "Invalid policy", badRequest("id is required"))
		return
	}

	policy, err := h.PolicyFactory.FromJSON(pj)
	if err != nil {
		h.writeDomainError(w, r, "Invalid policy", err)
		return
	}
	if err := h.Store.SavePolicy(r.Context(), policy); err != nil {
		h.writeDomainError(w, r, "Failed to save policy", err)
		return
	}
	saved, err := h.Store.GetPolicy(r.Context(), policy.ID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load policy", err)
		return
	}

	h.Logger.Info(r.Context(), "policy saved", "policy_id", saved.ID, "version", saved.Version)
	writeJSON(w, http.StatusCreated, h.PolicyFactory.ToJSON(saved))
}

// GetPolicy returns a policy with its stored holidays merged in.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Service.Policy(r.Context(), generic.PolicyID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, r, "Failed to load policy", err)
		return
	}
	writeJSON(w, http.StatusOK, h.PolicyFactory.ToJSON(policy))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holidays stored for a policy.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context(), generic.PolicyID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, r, "Failed to list holidays", err)
		return
	}

	dtos := make([]factory.HolidayJSON, len(holidays))
	for i, hol := range holidays {
		dtos[i] = h.PolicyFactory.HolidayToJSON(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to a policy.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	policyID := generic.PolicyID(chi.URLParam(r, "id"))

	var hj factory.HolidayJSON
	if err := decodeBody(r, &hj); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return
	}
	holiday, err := h.PolicyFactory.HolidayFromJSON(hj)
	if err != nil {
		h.writeDomainError(w, r, "Invalid holiday", err)
		return
	}
	if err := h.Store.SaveHoliday(r.Context(), policyID, holiday); err != nil {
		h.writeDomainError(w, r, "Failed to save holiday", err)
		return
	}

	h.Logger.Info(r.Context(), "holiday saved", "policy_id", policyID, "holiday_id", holiday.ID, "date", holiday.Date.String())
	writeJSON(w, http.StatusCreated, h.PolicyFactory.HolidayToJSON(holiday))
}

// DeleteHoliday removes a holiday from a policy.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	policyID := generic.PolicyID(chi.URLParam(r, "id"))
	holidayID := chi.URLParam(r, "holidayID")

	if err := h.Store.DeleteHoliday(r.Context(), policyID, holidayID); err != nil {
		h.writeDomainError(w, r, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates an employee assigned to an existing policy.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		h.writeDomainError(w, r, "Invalid employee", badRequest("name is required"))
		return
	}
	if req.PolicyID == "" {
		h.writeDomainError(w, r, "Invalid employee", badRequest("policy_id is required"))
		return
	}
	if _, err := h.Store.GetPolicy(r.Context(), generic.PolicyID(req.PolicyID)); err != nil {
		h.writeDomainError(w, r, "Unknown policy", err)
		return
	}

	emp := timesheet.Employee{
		ID:        generic.EmployeeID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		PolicyID:  generic.PolicyID(req.PolicyID),
		CreatedAt: time.Now().UTC(),
	}
	if emp.ID == "" {
		emp.ID = generic.EmployeeID(uuid.NewString())
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, r, "Failed to create employee", err)
		return
	}

	h.Logger.Info(r.Context(), "employee saved", "employee_id", emp.ID, "policy_id", emp.PolicyID)
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), generic.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, r, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

func toEmployeeDTO(e timesheet.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        string(e.ID),
		Name:      e.Name,
		Email:     e.Email,
		PolicyID:  string(e.PolicyID),
		CreatedAt: e.CreatedAt,
	}
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// SubmitEntries stores the valid entries and reports the rejected ones.
// Malformed input (bad date or clock syntax, unknown day type) rejects the
// whole request.
func (h *Handler) SubmitEntries(w http.ResponseWriter, r *http.Request) {
	employeeID := generic.EmployeeID(chi.URLParam(r, "id"))

	var req SubmitEntriesRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return
	}
	entries, err := factory.ParseEntries(req.Entries)
	if err != nil {
		h.writeDomainError(w, r, "Invalid entries", err)
		return
	}
	for i, e := range entries {
		if e.Date.IsZero() {
			h.writeDomainError(w, r, "Invalid entries", badRequest("entry %d: date is required", i))
			return
		}
	}

	rejected, err := h.Service.SubmitEntries(r.Context(), employeeID, entries)
	if err != nil {
		h.writeDomainError(w, r, "Failed to submit entries", err)
		return
	}

	resp := SubmitEntriesResponse{
		Saved:    len(entries) - len(rejected),
		Rejected: []factory.ErrorDetailJSON{},
	}
	for _, rej := range rejected {
		resp.Rejected = append(resp.Rejected, factory.ErrorDetails(rej)...)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListEntries returns stored entries between from and to (inclusive). Both
// default to the employee's current pay period.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := generic.EmployeeID(chi.URLParam(r, "id"))

	period, err := h.Service.CurrentPeriod(ctx, employeeID, generic.Today())
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve pay period", err)
		return
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if period.Start, err = generic.ParseDate(from); err != nil {
			h.writeDomainError(w, r, "Invalid from date", badRequest("%v", err))
			return
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if period.End, err = generic.ParseDate(to); err != nil {
			h.writeDomainError(w, r, "Invalid to date", badRequest("%v", err))
			return
		}
	}
	if err := period.Validate(); err != nil {
		h.writeDomainError(w, r, "Invalid date range", badRequest("%v", err))
		return
	}

	entries, err := h.Store.LoadEntries(ctx, employeeID, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load entries", err)
		return
	}

	resp := EntriesResponse{
		StartDate: period.Start.String(),
		EndDate:   period.End.String(),
		Entries:   make([]factory.TimeEntryJSON, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = factory.EntryToJSON(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// PAY PERIOD HANDLERS
// =============================================================================

// GetCurrentPeriod returns the pay period containing ?as_of= (default today).
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	asOf := generic.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		var err error
		if asOf, err = generic.ParseDate(s); err != nil {
			h.writeDomainError(w, r, "Invalid as_of date", badRequest("%v", err))
			return
		}
	}

	period, err := h.Service.CurrentPeriod(r.Context(), generic.EmployeeID(chi.URLParam(r, "id")), asOf)
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve pay period", err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodDTO{StartDate: period.Start.String(), EndDate: period.End.String()})
}

// ComputePeriod aggregates the stored entries of the pay period starting at
// {start} and records a snapshot.
func (h *Handler) ComputePeriod(w http.ResponseWriter, r *http.Request) {
	start, err := generic.ParseDate(chi.URLParam(r, "start"))
	if err != nil {
		h.writeDomainError(w, r, "Invalid start date", badRequest("%v", err))
		return
	}

	pp, err := h.Service.ComputePeriod(r.Context(),
		generic.EmployeeID(chi.URLParam(r, "id")),
		generic.PolicyID(r.URL.Query().Get("policy_id")),
		start)
	if err != nil {
		h.writeDomainError(w, r, "Pay period could not be computed", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.PeriodToJSON(pp))
}

// ListSnapshots returns stored pay period computations.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	employeeID := generic.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeDomainError(w, r, "Failed to load employee", err)
		return
	}
	snaps, err := h.Store.ListSnapshots(r.Context(), employeeID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list snapshots", err)
		return
	}

	dtos := make([]SnapshotDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = SnapshotDTO{
			ID:         s.ID,
			EmployeeID: string(s.EmployeeID),
			PolicyID:   string(s.PolicyID),
			StartDate:  s.Period.Start.String(),
			EndDate:    s.Period.End.String(),
			Totals:     factory.TotalsToJSON(s.Totals),
			ComputedAt: s.ComputedAt,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// STATELESS COMPUTE HANDLERS
// =============================================================================

// resolvePolicy returns the inline policy of req, or the stored one it names.
func (h *Handler) resolvePolicy(r *http.Request, req ComputeRequest) (timesheet.Policy, error) {
	switch {
	case req.Policy != nil && req.PolicyID != "":
		return timesheet.Policy{}, badRequest("set either policy or policy_id, not both")
	case req.Policy != nil:
		return h.PolicyFactory.FromJSON(*req.Policy)
	case req.PolicyID != "":
		return h.Service.Policy(r.Context(), generic.PolicyID(req.PolicyID))
	default:
		return timesheet.Policy{}, badRequest("policy or policy_id is required")
	}
}

// decodeCompute reads a ComputeRequest and resolves its policy.
func (h *Handler) decodeCompute(w http.ResponseWriter, r *http.Request) (ComputeRequest, timesheet.Policy, bool) {
	var req ComputeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDomainError(w, r, "Invalid request body", err)
		return req, timesheet.Policy{}, false
	}
	policy, err := h.resolvePolicy(r, req)
	if err != nil {
		h.writeDomainError(w, r, "Invalid policy", err)
		return req, timesheet.Policy{}, false
	}
	return req, policy, true
}

// singleEntry parses req.Entry.
func singleEntry(req ComputeRequest) (timesheet.TimeEntry, error) {
	if req.Entry == nil {
		return timesheet.TimeEntry{}, badRequest("entry is required")
	}
	return factory.ParseEntry(*req.Entry)
}

// ValidateEntry checks one entry. Rule violations are reported in the body
// with status 200; only malformed requests fail.
func (h *Handler) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := h.decodeCompute(w, r)
	if !ok {
		return
	}
	entry, err := singleEntry(req)
	if err != nil {
		h.writeDomainError(w, r, "Invalid entry", err)
		return
	}

	err = timesheet.Validate(entry, policy)
	if err != nil && !timesheet.IsValidation(err) {
		h.writeDomainError(w, r, "Entry could not be validated", err)
		return
	}
	resp := ValidateResponse{Valid: err == nil, Errors: []factory.ErrorDetailJSON{}}
	if err != nil {
		resp.Errors = factory.ErrorDetails(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ComputeDay returns the daily hours of one entry.
func (h *Handler) ComputeDay(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := h.decodeCompute(w, r)
	if !ok {
		return
	}
	entry, err := singleEntry(req)
	if err != nil {
		h.writeDomainError(w, r, "Invalid entry", err)
		return
	}

	day, err := timesheet.ComputeDailyHours(entry, policy)
	if err != nil {
		h.writeDomainError(w, r, "Daily hours could not be computed", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.DailyToJSON(day))
}

// ComputeWeek aggregates five entries, Monday first.
func (h *Handler) ComputeWeek(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := h.decodeCompute(w, r)
	if !ok {
		return
	}
	entries, err := factory.ParseEntries(req.Entries)
	if err != nil {
		h.writeDomainError(w, r, "Invalid entries", err)
		return
	}

	week, err := timesheet.AggregateWeek(entries, policy)
	if err != nil {
		h.writeDomainError(w, r, "Week could not be aggregated", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.WeekToJSON(week))
}

// ComputePayPeriod generates a pay period from explicit week slots, or from
// dated entries arranged into slots.
func (h *Handler) ComputePayPeriod(w http.ResponseWriter, r *http.Request) {
	req, policy, ok := h.decodeCompute(w, r)
	if !ok {
		return
	}
	if req.StartDate == "" {
		h.writeDomainError(w, r, "Invalid request", badRequest("start_date is required"))
		return
	}
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		h.writeDomainError(w, r, "Invalid start date", badRequest("%v", err))
		return
	}

	var weeks [][]timesheet.TimeEntry
	switch {
	case len(req.Weeks) > 0 && len(req.Entries) > 0:
		err = badRequest("set either weeks or entries, not both")
	case len(req.Weeks) > 0:
		weeks, err = factory.ParseWeeks(req.Weeks)
	default:
		var entries []timesheet.TimeEntry
		if entries, err = factory.ParseEntries(req.Entries); err == nil {
			weeks, err = timesheet.ArrangeEntries(start, policy, entries)
		}
	}
	if err != nil {
		h.writeDomainError(w, r, "Invalid entries", err)
		return
	}

	pp, err := timesheet.GeneratePeriod(start, weeks, policy)
	if err != nil {
		h.writeDomainError(w, r, "Pay period could not be computed", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.PeriodToJSON(pp))
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("%v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Code = errorCode(err)
		resp.Details = []factory.ErrorDetailJSON{{Code: resp.Code, Message: err.Error()}}
	}
	writeJSON(w, status, resp)
}

func errorCode(err error) string {
	if errors.Is(err, errBadRequest) {
		return "bad_request"
	}
	return timesheet.ErrorCode(err)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), timesheet.IsConfiguration(err):
		return http.StatusBadRequest
	case timesheet.IsValidation(err), timesheet.IsComputation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError writes err with the status statusFor picks. Rule
// violations list every leaf error in details.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		h.Logger.Error(r.Context(), message, "error", err, "path", r.URL.Path)
		writeError(w, status, message, nil)
	case http.StatusUnprocessableEntity:
		writeJSON(w, status, ErrorResponse{
			Error:   message,
			Code:    timesheet.ErrorCode(err),
			Details: factory.ErrorDetails(err),
		})
	case http.StatusNotFound:
		writeJSON(w, status, ErrorResponse{
			Error:   message,
			Code:    "not_found",
			Details: []factory.ErrorDetailJSON{{Code: "not_found", Message: err.Error()}},
		})
	default:
		writeError(w, status, message, err)
	}
}
