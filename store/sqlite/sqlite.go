/*
Package sqlite provides a SQLite-backed implementation of timesheet.Store.

PURPOSE:
  Persists everything the timesheet service needs around the pure engine:
  policies, per-policy holidays, employees, raw time entries and computed
  pay-period snapshots. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  timesheet.PolicyStore:   Policy definitions (config stored as JSON)
  timesheet.HolidayStore:  Company holidays per policy
  timesheet.EmployeeStore: Employee records
  timesheet.EntryStore:    Raw time entries, one per employee and day
  timesheet.SnapshotStore: Computed pay-period totals (append-only)

KEY TABLES:
  policies:     Policy definitions (versioned, config_json via factory)
  holidays:     Company holidays, cascade-deleted with their policy
  employees:    Employee records with their assigned policy
  time_entries: Clock times in minutes from midnight, NULL when absent
  snapshots:    Audit trail of computed pay periods

INDEXES:
  - time_entries primary key (employee_id, date): upsert and range scans
  - idx_snapshots_employee: snapshot history per employee

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := timesheet.NewService(store, logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timesheet/store.go: Interface definitions
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

// Store implements timesheet.Store using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.PolicyFactory
}

var _ timesheet.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, factory: factory.NewPolicyFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Policies
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Company holidays, owned by a policy
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		policy_id TEXT NOT NULL REFERENCES policies(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		pay_rate TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_policy_date
		ON holidays(policy_id, date);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		policy_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Raw time entries, one per employee and day
	CREATE TABLE IF NOT EXISTS time_entries (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		day_type TEXT NOT NULL,
		start_time INTEGER,
		end_time INTEGER,
		lunch_start_time INTEGER,
		lunch_end_time INTEGER,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	-- Computed pay periods (append-only)
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		policy_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		totals_json TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_employee
		ON snapshots(employee_id, period_start);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICY STORE
// =============================================================================

// SavePolicy upserts a policy. The version is bumped on every update.
func (s *Store) SavePolicy(ctx context.Context, policy timesheet.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := json.Marshal(s.factory.ToJSON(policy))
	if err != nil {
		return fmt.Errorf("failed to encode policy %s: %w", policy.ID, err)
	}

	query := `
		INSERT INTO policies (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = policies.version + 1,
			updated_at = excluded.updated_at
	`

	version := policy.Version
	if version == 0 {
		version = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, string(policy.ID), policy.Name, string(config), version, now, now)
	return err
}

// GetPolicy retrieves a policy by ID. Stored holidays are not merged in; see
// ListHolidays.
func (s *Store) GetPolicy(ctx context.Context, id generic.PolicyID) (timesheet.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var config string
	var version int
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json, version FROM policies WHERE id = ?", string(id),
	).Scan(&config, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Policy{}, &generic.NotFoundError{Kind: generic.ErrPolicyNotFound, ID: string(id)}
	}
	if err != nil {
		return timesheet.Policy{}, err
	}
	return s.decodePolicy(config, version)
}

// ListPolicies returns all policies ordered by name.
func (s *Store) ListPolicies(ctx context.Context) ([]timesheet.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT config_json, version FROM policies ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []timesheet.Policy
	for rows.Next() {
		var config string
		var version int
		if err := rows.Scan(&config, &version); err != nil {
			return nil, err
		}
		p, err := s.decodePolicy(config, version)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) decodePolicy(config string, version int) (timesheet.Policy, error) {
	p, err := s.factory.ParsePolicy(config)
	if err != nil {
		return timesheet.Policy{}, fmt.Errorf("stored policy is invalid: %w", err)
	}
	p.Version = version
	return p, nil
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday upserts a holiday of a policy.
func (s *Store) SaveHoliday(ctx context.Context, policyID generic.PolicyID, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, policy_id, date, name, pay_rate, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			pay_rate = excluded.pay_rate,
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		string(policyID),
		h.Date.String(),
		h.Name,
		h.PayRate.Value.String(),
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return &generic.NotFoundError{Kind: generic.ErrPolicyNotFound, ID: string(policyID)}
	}
	return err
}

// DeleteHoliday deletes a holiday of a policy by ID.
func (s *Store) DeleteHoliday(ctx context.Context, policyID generic.PolicyID, holidayID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ? AND policy_id = ?", holidayID, string(policyID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: generic.ErrHolidayNotFound, ID: holidayID}
	}
	return nil
}

// ListHolidays returns the holidays of a policy ordered by date.
func (s *Store) ListHolidays(ctx context.Context, policyID generic.PolicyID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, pay_rate, recurring
		FROM holidays
		WHERE policy_id = ?
		ORDER BY date ASC
	`, string(policyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr, payRate string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &payRate, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		h.PayRate = generic.Amount{Value: generic.MustParseDecimal(payRate)}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp timesheet.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, policy_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			policy_id = excluded.policy_id
	`

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		string(emp.ID), emp.Name, nullString(emp.Email), string(emp.PolicyID),
		createdAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (timesheet.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, policy_id, created_at FROM employees WHERE id = ?", string(id))
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timesheet.Employee{}, &generic.NotFoundError{Kind: generic.ErrEmployeeNotFound, ID: string(id)}
	}
	return emp, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]timesheet.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, policy_id, created_at FROM employees ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []timesheet.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (timesheet.Employee, error) {
	var emp timesheet.Employee
	var id, policyID, createdAt string
	var email sql.NullString
	if err := row.Scan(&id, &emp.Name, &email, &policyID, &createdAt); err != nil {
		return timesheet.Employee{}, err
	}
	emp.ID = generic.EmployeeID(id)
	emp.PolicyID = generic.PolicyID(policyID)
	emp.Email = email.String
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// ENTRY STORE
// =============================================================================

// SaveEntries upserts entries by (employee, date) in one transaction.
func (s *Store) SaveEntries(ctx context.Context, employeeID generic.EmployeeID, entries []timesheet.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO time_entries (employee_id, date, day_type, start_time, end_time, lunch_start_time, lunch_end_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			day_type = excluded.day_type,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			lunch_start_time = excluded.lunch_start_time,
			lunch_end_time = excluded.lunch_end_time,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		if e.Date.IsZero() {
			return fmt.Errorf("cannot store an undated %s entry", e.DayType)
		}
		_, err := tx.ExecContext(ctx, query,
			string(employeeID), e.Date.String(), string(e.DayType),
			nullClock(e.StartTime), nullClock(e.EndTime),
			nullClock(e.LunchStartTime), nullClock(e.LunchEndTime),
			now,
		)
		if isForeignKeyError(err) {
			return &generic.NotFoundError{Kind: generic.ErrEmployeeNotFound, ID: string(employeeID)}
		}
		if err != nil {
			return fmt.Errorf("failed to save entry %s: %w", e.Date, err)
		}
	}

	return tx.Commit()
}

// LoadEntries returns the entries dated within period, ordered by date.
func (s *Store) LoadEntries(ctx context.Context, employeeID generic.EmployeeID, period generic.Period) ([]timesheet.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, day_type, start_time, end_time, lunch_start_time, lunch_end_time
		FROM time_entries
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, string(employeeID), period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var dateStr, dayType string
		var start, end, lunchStart, lunchEnd sql.NullInt64
		if err := rows.Scan(&dateStr, &dayType, &start, &end, &lunchStart, &lunchEnd); err != nil {
			return nil, err
		}
		date, err := generic.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, timesheet.TimeEntry{
			Date:           date,
			DayType:        timesheet.DayType(dayType),
			StartTime:      clockFromNull(start),
			EndTime:        clockFromNull(end),
			LunchStartTime: clockFromNull(lunchStart),
			LunchEndTime:   clockFromNull(lunchEnd),
		})
	}
	return entries, rows.Err()
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SaveSnapshot appends a computed pay period.
func (s *Store) SaveSnapshot(ctx context.Context, snap timesheet.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals, err := json.Marshal(factory.TotalsToJSON(snap.Totals))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot totals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, employee_id, policy_id, period_start, period_end, totals_json, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID, string(snap.EmployeeID), string(snap.PolicyID),
		snap.Period.Start.String(), snap.Period.End.String(),
		string(totals),
		snap.ComputedAt.UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return &generic.NotFoundError{Kind: generic.ErrEmployeeNotFound, ID: string(snap.EmployeeID)}
	}
	return err
}

// ListSnapshots returns an employee's snapshots, oldest computation first.
func (s *Store) ListSnapshots(ctx context.Context, employeeID generic.EmployeeID) ([]timesheet.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, policy_id, period_start, period_end, totals_json, computed_at
		FROM snapshots
		WHERE employee_id = ?
		ORDER BY computed_at ASC, rowid ASC
	`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []timesheet.Snapshot
	for rows.Next() {
		snap := timesheet.Snapshot{EmployeeID: employeeID}
		var policyID, start, end, totalsJSON, computedAt string
		if err := rows.Scan(&snap.ID, &policyID, &start, &end, &totalsJSON, &computedAt); err != nil {
			return nil, err
		}
		snap.PolicyID = generic.PolicyID(policyID)
		if snap.Period.Start, err = generic.ParseDate(start); err != nil {
			return nil, err
		}
		if snap.Period.End, err = generic.ParseDate(end); err != nil {
			return nil, err
		}
		var tj factory.TotalsJSON
		if err := json.Unmarshal([]byte(totalsJSON), &tj); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
		}
		if snap.Totals, err = factory.TotalsFromJSON(tj); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snap.ID, err)
		}
		snap.ComputedAt, _ = time.Parse(time.RFC3339, computedAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"snapshots", "time_entries", "employees", "holidays", "policies"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullClock(c *timesheet.ClockTime) sql.NullInt64 {
	if c == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*c), Valid: true}
}

func clockFromNull(v sql.NullInt64) *timesheet.ClockTime {
	if !v.Valid {
		return nil
	}
	return timesheet.ClockTime(v.Int64).Ptr()
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
