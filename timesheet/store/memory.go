// Package store provides an in-memory timesheet.Store.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory does not enforce references between records; SQLite does.
type Memory struct {
	mu        sync.RWMutex
	policies  map[generic.PolicyID]timesheet.Policy
	holidays  map[generic.PolicyID][]generic.Holiday
	employees map[generic.EmployeeID]timesheet.Employee
	entries   map[generic.EmployeeID]map[string]timesheet.TimeEntry
	snapshots map[generic.EmployeeID][]timesheet.Snapshot
}

var _ timesheet.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		policies:  make(map[generic.PolicyID]timesheet.Policy),
		holidays:  make(map[generic.PolicyID][]generic.Holiday),
		employees: make(map[generic.EmployeeID]timesheet.Employee),
		entries:   make(map[generic.EmployeeID]map[string]timesheet.TimeEntry),
		snapshots: make(map[generic.EmployeeID][]timesheet.Snapshot),
	}
}

// =============================================================================
// POLICIES
// =============================================================================

func (m *Memory) SavePolicy(_ context.Context, p timesheet.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.policies[p.ID]; ok {
		p.Version = prev.Version + 1
	} else if p.Version == 0 {
		p.Version = 1
	}
	m.policies[p.ID] = p
	return nil
}

func (m *Memory) GetPolicy(_ context.Context, id generic.PolicyID) (timesheet.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[id]
	if !ok {
		return timesheet.Policy{}, &generic.NotFoundError{Kind: generic.ErrPolicyNotFound, ID: string(id)}
	}
	return p, nil
}

func (m *Memory) ListPolicies(_ context.Context) ([]timesheet.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]timesheet.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, policyID generic.PolicyID, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.holidays[policyID]
	for i, existing := range list {
		if existing.ID == h.ID {
			list[i] = h
			return nil
		}
	}
	m.holidays[policyID] = append(list, h)
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, policyID generic.PolicyID, holidayID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.holidays[policyID]
	for i, h := range list {
		if h.ID == holidayID {
			m.holidays[policyID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return &generic.NotFoundError{Kind: generic.ErrHolidayNotFound, ID: holidayID}
}

func (m *Memory) ListHolidays(_ context.Context, policyID generic.PolicyID) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := append([]generic.Holiday{}, m.holidays[policyID]...)
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e timesheet.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id generic.EmployeeID) (timesheet.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return timesheet.Employee{}, &generic.NotFoundError{Kind: generic.ErrEmployeeNotFound, ID: string(id)}
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]timesheet.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]timesheet.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// ENTRIES
// =============================================================================

// SaveEntries upserts by date. All entries are written under one lock.
func (m *Memory) SaveEntries(_ context.Context, employeeID generic.EmployeeID, entries []timesheet.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byDate := m.entries[employeeID]
	if byDate == nil {
		byDate = make(map[string]timesheet.TimeEntry)
		m.entries[employeeID] = byDate
	}
	for _, e := range entries {
		byDate[e.Date.String()] = e
	}
	return nil
}

func (m *Memory) LoadEntries(_ context.Context, employeeID generic.EmployeeID, period generic.Period) ([]timesheet.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []timesheet.TimeEntry
	for _, e := range m.entries[employeeID] {
		if period.Contains(e.Date) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

func (m *Memory) SaveSnapshot(_ context.Context, s timesheet.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.EmployeeID] = append(m.snapshots[s.EmployeeID], s)
	return nil
}

func (m *Memory) ListSnapshots(_ context.Context, employeeID generic.EmployeeID) ([]timesheet.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]timesheet.Snapshot{}, m.snapshots[employeeID]...), nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	fresh := NewMemory()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies = fresh.policies
	m.holidays = fresh.holidays
	m.employees = fresh.employees
	m.entries = fresh.entries
	m.snapshots = fresh.snapshots
	return nil
}
