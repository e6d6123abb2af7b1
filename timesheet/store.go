/*
store.go - Persistence interface used by the timesheet service

PURPOSE:
  The engine itself never persists anything. The surrounding service keeps
  policies, holidays, employees, raw time entries and computed period
  snapshots behind this interface.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (WAL, auto-migrated schema)
  - timesheet/store/memory.go: In-memory for tests

SEMANTICS:
  - Entries are keyed by (employee, date); SaveEntries upserts.
  - Holidays belong to a policy and are merged into it by the Service.
  - Snapshots are append-only audit records of computed pay periods.

SEE ALSO:
  - service.go: Uses Store
*/
package timesheet

import (
	"context"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// RECORDS
// =============================================================================

// Employee is the person whose entries are aggregated.
type Employee struct {
	ID        generic.EmployeeID
	Name      string
	Email     string
	PolicyID  generic.PolicyID
	CreatedAt time.Time
}

// Snapshot records the totals of a computed pay period.
type Snapshot struct {
	ID         string
	EmployeeID generic.EmployeeID
	PolicyID   generic.PolicyID
	Period     generic.Period
	Totals     PeriodTotals
	ComputedAt time.Time
}

// PeriodTotals are the headline figures of a PayPeriod.
type PeriodTotals struct {
	RegularHours    generic.Amount
	OvertimeHours   generic.Amount
	DoubleTimeHours generic.Amount
	TotalHours      generic.Amount
	VacationHours   generic.Amount
	SickHours       generic.Amount
	HolidayHours    generic.Amount
}

// Totals extracts the headline figures.
func (p *PayPeriod) Totals() PeriodTotals {
	return PeriodTotals{
		RegularHours:    p.RegularHours,
		OvertimeHours:   p.OvertimeHours,
		DoubleTimeHours: p.DoubleTimeHours,
		TotalHours:      p.TotalHours,
		VacationHours:   p.VacationHours,
		SickHours:       p.SickHours,
		HolidayHours:    p.HolidayHours,
	}
}

// =============================================================================
// STORE
// =============================================================================

type PolicyStore interface {
	SavePolicy(ctx context.Context, p Policy) error
	GetPolicy(ctx context.Context, id generic.PolicyID) (Policy, error)
	ListPolicies(ctx context.Context) ([]Policy, error)
}

type HolidayStore interface {
	SaveHoliday(ctx context.Context, policyID generic.PolicyID, h generic.Holiday) error
	DeleteHoliday(ctx context.Context, policyID generic.PolicyID, holidayID string) error
	ListHolidays(ctx context.Context, policyID generic.PolicyID) ([]generic.Holiday, error)
}

type EmployeeStore interface {
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id generic.EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type EntryStore interface {
	// SaveEntries upserts entries by (employee, date) atomically.
	SaveEntries(ctx context.Context, employeeID generic.EmployeeID, entries []TimeEntry) error

	// LoadEntries returns entries dated within period, ordered by date.
	LoadEntries(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]TimeEntry, error)
}

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	ListSnapshots(ctx context.Context, employeeID generic.EmployeeID) ([]Snapshot, error)
}

// Store bundles everything the Service needs.
type Store interface {
	PolicyStore
	HolidayStore
	EmployeeStore
	EntryStore
	SnapshotStore
}
