package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/logging"
)

// =============================================================================
// SERVICE - Store-backed orchestration around the pure engine
// =============================================================================

// Service loads policy and entries from a Store, runs the engine and records
// the outcome. It adds no business rules of its own.
type Service struct {
	Store  Store
	Logger logging.Logger

	// Now is overridable in tests.
	Now func() time.Time
}

func NewService(store Store, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{Store: store, Logger: logger, Now: time.Now}
}

// Policy loads a policy, merges its stored holidays and validates it.
func (s *Service) Policy(ctx context.Context, id generic.PolicyID) (Policy, error) {
	p, err := s.Store.GetPolicy(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	extra, err := s.Store.ListHolidays(ctx, id)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to load holidays for %s: %w", id, err)
	}
	p = p.WithHolidays(extra...)
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// policyFor resolves the policy to use for an employee; an empty override
// means the employee's assigned policy.
func (s *Service) policyFor(ctx context.Context, employeeID generic.EmployeeID, override generic.PolicyID) (Employee, Policy, error) {
	emp, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, Policy{}, err
	}
	id := emp.PolicyID
	if override != "" {
		id = override
	}
	p, err := s.Policy(ctx, id)
	return emp, p, err
}

// CurrentPeriod returns the pay period of the employee's policy covering asOf.
func (s *Service) CurrentPeriod(ctx context.Context, employeeID generic.EmployeeID, asOf generic.TimePoint) (generic.Period, error) {
	_, p, err := s.policyFor(ctx, employeeID, "")
	if err != nil {
		return generic.Period{}, err
	}
	return p.PeriodContaining(asOf), nil
}

// ComputePeriod aggregates the stored entries of one pay period and stores a
// snapshot of the totals.
func (s *Service) ComputePeriod(ctx context.Context, employeeID generic.EmployeeID, policyID generic.PolicyID, start generic.TimePoint) (*PayPeriod, error) {
	emp, policy, err := s.policyFor(ctx, employeeID, policyID)
	if err != nil {
		return nil, err
	}
	log := s.Logger.With("employee_id", emp.ID, "policy_id", policy.ID, "period_start", start.String())

	period := generic.NewPeriod(start, policy.PayPeriodLength)
	entries, err := s.Store.LoadEntries(ctx, emp.ID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	weeks, err := ArrangeEntries(start, policy, entries)
	if err != nil {
		log.Warn(ctx, "entries rejected", "code", ErrorCode(err), "errors", len(Flatten(err)))
		return nil, err
	}
	pp, err := GeneratePeriod(start, weeks, policy)
	if err != nil {
		log.Warn(ctx, "pay period rejected", "code", ErrorCode(err), "errors", len(Flatten(err)))
		return nil, err
	}

	snap := Snapshot{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		PolicyID:   policy.ID,
		Period:     pp.Period,
		Totals:     pp.Totals(),
		ComputedAt: s.Now().UTC(),
	}
	if err := s.Store.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Info(ctx, "pay period computed",
		"total_hours", pp.TotalHours.String(),
		"extra_hours", pp.ExtraHours.String(),
		"vacation_hours", pp.VacationHours.String())
	return pp, nil
}

// SubmitEntries validates entries against the employee's policy and stores
// the valid ones. Undated and weekend entries are rejected since no pay
// period could collect them. Every invalid entry is reported; valid entries are saved
// even when others fail.
func (s *Service) SubmitEntries(ctx context.Context, employeeID generic.EmployeeID, entries []TimeEntry) ([]error, error) {
	emp, policy, err := s.policyFor(ctx, employeeID, "")
	if err != nil {
		return nil, err
	}

	var valid []TimeEntry
	var rejected []error
	for _, e := range entries {
		if err := CheckCollectable(e); err != nil {
			rejected = append(rejected, err)
			continue
		}
		if _, err := ComputeDailyHours(e, policy); err != nil {
			if IsConfiguration(err) {
				return nil, err
			}
			rejected = append(rejected, err)
			continue
		}
		valid = append(valid, e)
	}

	if len(valid) > 0 {
		if err := s.Store.SaveEntries(ctx, emp.ID, valid); err != nil {
			return nil, fmt.Errorf("failed to save entries: %w", err)
		}
	}
	s.Logger.Info(ctx, "entries submitted", "employee_id", emp.ID, "saved", len(valid), "rejected", len(rejected))
	return rejected, nil
}
