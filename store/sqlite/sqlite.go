/*
Package sqlite provides SQLite-backed persistence for the payroll service.

PURPOSE:
  The engine is pure; this package holds what surrounds it: the employee
  snapshots it is fed from, the rate tables it was configured with, and the
  results it produced for each pay period.

KEY TABLES:
  employees:        One row per employee; the full snapshot as JSON
  rate_tables:      Versioned rate table documents (uuid ids)
  payroll_records:  One computed result per employee and period

UPSERT SEMANTICS:
  payroll_records is keyed by (employee_id, month, year). Recomputing a
  period replaces the stored result and keeps the record id, so a period
  never has two payslips.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows a single writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - factory/input.go: the snapshot JSON stored in employees
  - factory/rates.go: the document stored in rate_tables
  - api/handlers.go: the only caller
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// Store persists employees, rate tables and payroll records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
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
	-- Employee snapshots
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		snapshot_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Rate tables (versioned per name)
	CREATE TABLE IF NOT EXISTS rate_tables (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(name, version)
	);

	CREATE INDEX IF NOT EXISTS idx_rate_tables_name
		ON rate_tables(name, version DESC);

	-- Payroll records (one per employee and period)
	CREATE TABLE IF NOT EXISTS payroll_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		rate_table TEXT NOT NULL,
		gross_salary TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		net_salary TEXT NOT NULL,
		employer_cost TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(employee_id, month, year)
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_records_period
		ON payroll_records(year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// EmployeeRecord is a stored employee snapshot.
type EmployeeRecord struct {
	ID           string
	FirstName    string
	LastName     string
	SnapshotJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaveEmployee inserts or replaces an employee snapshot.
func (s *Store) SaveEmployee(ctx context.Context, emp EmployeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, first_name, last_name, snapshot_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.SnapshotJSON, now, now,
	)
	return err
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var emp EmployeeRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, snapshot_json, created_at, updated_at FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.SnapshotJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", payroll.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	emp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &emp, nil
}

// ListEmployees returns all employees.
func (s *Store) ListEmployees(ctx context.Context) ([]EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, first_name, last_name, snapshot_json, created_at, updated_at FROM employees ORDER BY last_name, first_name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []EmployeeRecord
	for rows.Next() {
		var emp EmployeeRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.SnapshotJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		emp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee and, by cascade, their payroll records.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", payroll.ErrEmployeeNotFound, id)
	}
	return nil
}

// =============================================================================
// RATE TABLE STORE
// =============================================================================

// RateTableRecord is a stored rate table document.
type RateTableRecord struct {
	ID         string
	Name       string
	Version    int
	ConfigJSON string
	CreatedAt  time.Time
}

// SaveRateTable stores a new version of the named table and returns the
// stored record with its id and version filled in.
func (s *Store) SaveRateTable(ctx context.Context, name, configJSON string) (*RateTableRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM rate_tables WHERE name = ?", name,
	).Scan(&current); err != nil {
		return nil, err
	}

	rec := RateTableRecord{
		ID:         uuid.New().String(),
		Name:       name,
		Version:    current + 1,
		ConfigJSON: configJSON,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO rate_tables (id, name, version, config_json, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Name, rec.Version, rec.ConfigJSON, rec.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRateTable returns the latest version of the named table, or nil.
func (s *Store) GetRateTable(ctx context.Context, name string) (*RateTableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec RateTableRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, version, config_json, created_at FROM rate_tables WHERE name = ? ORDER BY version DESC LIMIT 1",
		name,
	).Scan(&rec.ID, &rec.Name, &rec.Version, &rec.ConfigJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

// =============================================================================
// PAYROLL RECORD STORE
// =============================================================================

// PayrollRecord is one computed result for an employee and period.
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	Month           int
	Year            int
	RateTable       string
	GrossSalary     money.Amount
	TotalDeductions money.Amount
	NetSalary       money.Amount
	EmployerCost    money.Amount
	ResultJSON      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UpsertPayrollRecord stores the result for (employee, month, year),
// replacing any earlier result for the same period. The returned record
// carries the id that is stored, which is stable across recomputations.
func (s *Store) UpsertPayrollRecord(ctx context.Context, rec PayrollRecord) (*PayrollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payroll_records (
			id, employee_id, month, year, rate_table,
			gross_salary, total_deductions, net_salary, employer_cost,
			result_json, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, month, year) DO UPDATE SET
			rate_table = excluded.rate_table,
			gross_salary = excluded.gross_salary,
			total_deductions = excluded.total_deductions,
			net_salary = excluded.net_salary,
			employer_cost = excluded.employer_cost,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), rec.EmployeeID, rec.Month, rec.Year, rec.RateTable,
		rec.GrossSalary.Value.String(), rec.TotalDeductions.Value.String(),
		rec.NetSalary.Value.String(), rec.EmployerCost.Value.String(),
		rec.ResultJSON, now, now,
	)
	if err != nil {
		return nil, err
	}

	return s.getPayrollRecord(ctx, rec.EmployeeID, rec.Month, rec.Year)
}

// GetPayrollRecord retrieves the record for one employee and period.
func (s *Store) GetPayrollRecord(ctx context.Context, employeeID string, month, year int) (*PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getPayrollRecord(ctx, employeeID, month, year)
}

const payrollColumns = `id, employee_id, month, year, rate_table,
	gross_salary, total_deductions, net_salary, employer_cost,
	result_json, created_at, updated_at`

func (s *Store) getPayrollRecord(ctx context.Context, employeeID string, month, year int) (*PayrollRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+payrollColumns+" FROM payroll_records WHERE employee_id = ? AND month = ? AND year = ?",
		employeeID, month, year,
	)
	rec, err := scanPayrollRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s %04d-%02d", payroll.ErrRecordNotFound, employeeID, year, month)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListPayrollRecords returns an employee's records, most recent period first.
func (s *Store) ListPayrollRecords(ctx context.Context, employeeID string) ([]PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+payrollColumns+" FROM payroll_records WHERE employee_id = ? ORDER BY year DESC, month DESC",
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayrollRecord(row scanner) (PayrollRecord, error) {
	var rec PayrollRecord
	var gross, deductions, net, cost, createdAt, updatedAt string

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Month, &rec.Year, &rec.RateTable,
		&gross, &deductions, &net, &cost,
		&rec.ResultJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return PayrollRecord{}, err
	}

	amounts := []struct {
		raw string
		dst *money.Amount
	}{
		{gross, &rec.GrossSalary},
		{deductions, &rec.TotalDeductions},
		{net, &rec.NetSalary},
		{cost, &rec.EmployerCost},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return PayrollRecord{}, fmt.Errorf("corrupt amount %q in payroll record %s: %w", a.raw, rec.ID, err)
		}
		*a.dst = money.New(d)
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"payroll_records", "rate_tables", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
