/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence interface the engine declares (legal.Store,
  contract.Store, payroll.Store, sickleave.Store, vacation.Store) on a
  single SQLite file. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

STORAGE MODEL:
  Each domain record is stored whole as a JSON payload next to the columns
  queries filter or sort on (employee, year, state). The JSON payload is
  the source of truth; the columns are denormalized search keys written on
  every save. Monetary values travel as decimal strings inside the payload,
  never as floats.

KEY TABLES:
  legal_parameters: One row per year, at most one flagged active
  contracts:        Employment contracts, terminated rows kept forever
  payroll_records:  One row per employee per month (enforced by index)
  sick_leaves:      Incapacidad records with prorogation links
  vacations:        Vacation requests and balances

ACTIVATION:
  Activating a legal parameter set clears every other active flag and sets
  the new one inside a single transaction, so readers can never observe
  two active rows through this store.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/nomina.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  resolver := legal.NewResolver(store.Legal())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/payroll"
	"github.com/silvagro/nomina-engine/sickleave"
	"github.com/silvagro/nomina-engine/vacation"
)

// Store owns the database handle. Domain-facing stores are views over it.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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

// Typed views implementing the domain store interfaces.
func (s *Store) Legal() *LegalStore          { return &LegalStore{s} }
func (s *Store) Contracts() *ContractStore   { return &ContractStore{s} }
func (s *Store) Payroll() *PayrollStore      { return &PayrollStore{s} }
func (s *Store) SickLeaves() *SickLeaveStore { return &SickLeaveStore{s} }
func (s *Store) Vacations() *VacationStore   { return &VacationStore{s} }

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Legal parameter sets (one per year, at most one active)
	CREATE TABLE IF NOT EXISTS legal_parameters (
		id TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_legal_parameters_year
		ON legal_parameters(year);
	CREATE INDEX IF NOT EXISTS idx_legal_parameters_active
		ON legal_parameters(active) WHERE active;

	-- Employment contracts (never deleted; termination is a state change)
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		start_date TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_employee
		ON contracts(employee_id);
	CREATE INDEX IF NOT EXISTS idx_contracts_employee_status
		ON contracts(employee_id, status);

	-- Payroll records: one per employee per month
	CREATE TABLE IF NOT EXISTS payroll_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		status TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_payroll_period
		ON payroll_records(employee_id, year, month);

	-- Sick leaves with prorogation links
	CREATE TABLE IF NOT EXISTS sick_leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		state TEXT NOT NULL,
		start_date TEXT NOT NULL,
		predecessor_id TEXT,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sick_leaves_employee
		ON sick_leaves(employee_id);
	CREATE INDEX IF NOT EXISTS idx_sick_leaves_predecessor
		ON sick_leaves(predecessor_id) WHERE predecessor_id IS NOT NULL;

	-- Vacation requests
	CREATE TABLE IF NOT EXISTS vacations (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		accrual_year INTEGER NOT NULL,
		status TEXT NOT NULL,
		start_date TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vacations_employee
		ON vacations(employee_id);
	CREATE INDEX IF NOT EXISTS idx_vacations_employee_year
		ON vacations(employee_id, accrual_year);
	`

	_, err := s.db.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// LEGAL PARAMETER STORE (legal.Store)
// =============================================================================

type LegalStore struct{ s *Store }

func (l *LegalStore) Save(ctx context.Context, set legal.ParameterSet) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode parameter set: %w", err)
	}

	query := `
		INSERT INTO legal_parameters (id, year, active, payload_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			year = excluded.year,
			active = excluded.active,
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`
	_, err = l.s.db.ExecContext(ctx, query, set.ID, set.Year, set.Active, string(payload), now())
	if err != nil {
		return fmt.Errorf("failed to save parameter set: %w", err)
	}
	return nil
}

func (l *LegalStore) Get(ctx context.Context, id string) (legal.ParameterSet, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	var payload string
	err := l.s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM legal_parameters WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return legal.ParameterSet{}, legal.ErrNotFound
	}
	if err != nil {
		return legal.ParameterSet{}, fmt.Errorf("failed to load parameter set: %w", err)
	}
	return decodeParameterSet(payload)
}

func (l *LegalStore) List(ctx context.Context) ([]legal.ParameterSet, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	return l.query(ctx,
		"SELECT payload_json FROM legal_parameters ORDER BY year ASC")
}

func (l *LegalStore) ActiveSets(ctx context.Context) ([]legal.ParameterSet, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	return l.query(ctx,
		"SELECT payload_json FROM legal_parameters WHERE active ORDER BY year ASC")
}

// Activate flips the active flag to the given set in one transaction.
func (l *LegalStore) Activate(ctx context.Context, id string) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	tx, err := l.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE legal_parameters
		SET active = TRUE,
		    payload_json = json_set(payload_json, '$.active', json('true')),
		    updated_at = ?
		WHERE id = ?`, now(), id)
	if err != nil {
		return fmt.Errorf("failed to activate parameter set: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return legal.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE legal_parameters
		SET active = FALSE,
		    payload_json = json_set(payload_json, '$.active', json('false')),
		    updated_at = ?
		WHERE active AND id != ?`, now(), id); err != nil {
		return fmt.Errorf("failed to deactivate previous sets: %w", err)
	}

	return tx.Commit()
}

func (l *LegalStore) query(ctx context.Context, query string, args ...any) ([]legal.ParameterSet, error) {
	rows, err := l.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameter sets: %w", err)
	}
	defer rows.Close()

	var sets []legal.ParameterSet
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan parameter set: %w", err)
		}
		set, err := decodeParameterSet(payload)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

func decodeParameterSet(payload string) (legal.ParameterSet, error) {
	var set legal.ParameterSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return legal.ParameterSet{}, fmt.Errorf("failed to decode parameter set: %w", err)
	}
	return set, nil
}

// =============================================================================
// CONTRACT STORE (contract.Store)
// =============================================================================

type ContractStore struct{ s *Store }

func (c *ContractStore) Save(ctx context.Context, ct contract.Contract) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	payload, err := json.Marshal(ct)
	if err != nil {
		return fmt.Errorf("failed to encode contract: %w", err)
	}

	query := `
		INSERT INTO contracts (id, employee_id, status, start_date, payload_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			status = excluded.status,
			start_date = excluded.start_date,
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`
	_, err = c.s.db.ExecContext(ctx, query,
		ct.ID, ct.EmployeeID, string(ct.Status), ct.StartDate.String(), string(payload), now())
	if err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

func (c *ContractStore) Get(ctx context.Context, id string) (contract.Contract, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var payload string
	err := c.s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM contracts WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return contract.Contract{}, contract.ErrNotFound
	}
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to load contract: %w", err)
	}
	return decodeContract(payload)
}

func (c *ContractStore) ActiveByEmployee(ctx context.Context, employeeID string) (contract.Contract, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var payload string
	err := c.s.db.QueryRowContext(ctx, `
		SELECT payload_json FROM contracts
		WHERE employee_id = ? AND status = ?
		ORDER BY start_date DESC LIMIT 1`,
		employeeID, string(contract.StatusActive),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return contract.Contract{}, contract.ErrNotFound
	}
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to load active contract: %w", err)
	}
	return decodeContract(payload)
}

func (c *ContractStore) ListByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	rows, err := c.s.db.QueryContext(ctx, `
		SELECT payload_json FROM contracts
		WHERE employee_id = ?
		ORDER BY start_date ASC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		ct, err := decodeContract(payload)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, ct)
	}
	return contracts, rows.Err()
}

func decodeContract(payload string) (contract.Contract, error) {
	var ct contract.Contract
	if err := json.Unmarshal([]byte(payload), &ct); err != nil {
		return contract.Contract{}, fmt.Errorf("failed to decode contract: %w", err)
	}
	return ct, nil
}

// =============================================================================
// PAYROLL STORE (payroll.Store)
// =============================================================================

type PayrollStore struct{ s *Store }

func (p *PayrollStore) Save(ctx context.Context, r payroll.Record) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode payroll record: %w", err)
	}

	// A recompute for the same period replaces the previous record.
	query := `
		INSERT INTO payroll_records (id, employee_id, year, month, status, payload_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			id = excluded.id,
			status = excluded.status,
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`
	_, err = p.s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.Year, int(r.Month), string(r.Status), string(payload), now())
	if err != nil {
		return fmt.Errorf("failed to save payroll record: %w", err)
	}
	return nil
}

func (p *PayrollStore) Get(ctx context.Context, id string) (payroll.Record, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var payload string
	err := p.s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM payroll_records WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return payroll.Record{}, payroll.ErrNotFound
	}
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to load payroll record: %w", err)
	}
	return decodePayroll(payload)
}

func (p *PayrollStore) GetPeriod(ctx context.Context, employeeID string, year int, month time.Month) (payroll.Record, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var payload string
	err := p.s.db.QueryRowContext(ctx, `
		SELECT payload_json FROM payroll_records
		WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, int(month),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return payroll.Record{}, payroll.ErrNotFound
	}
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to load payroll record: %w", err)
	}
	return decodePayroll(payload)
}

func (p *PayrollStore) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Record, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	rows, err := p.s.db.QueryContext(ctx, `
		SELECT payload_json FROM payroll_records
		WHERE employee_id = ?
		ORDER BY year ASC, month ASC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		r, err := decodePayroll(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func decodePayroll(payload string) (payroll.Record, error) {
	var r payroll.Record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return payroll.Record{}, fmt.Errorf("failed to decode payroll record: %w", err)
	}
	return r, nil
}

// =============================================================================
// SICK LEAVE STORE (sickleave.Store)
// =============================================================================

type SickLeaveStore struct{ s *Store }

func (sl *SickLeaveStore) Save(ctx context.Context, r sickleave.Record) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode sick leave: %w", err)
	}

	query := `
		INSERT INTO sick_leaves (id, employee_id, state, start_date, predecessor_id, payload_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			start_date = excluded.start_date,
			predecessor_id = excluded.predecessor_id,
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`
	_, err = sl.s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, string(r.State), r.StartDate.String(),
		nullString(r.PredecessorID), string(payload), now())
	if err != nil {
		return fmt.Errorf("failed to save sick leave: %w", err)
	}
	return nil
}

func (sl *SickLeaveStore) Get(ctx context.Context, id string) (sickleave.Record, error) {
	sl.s.mu.RLock()
	defer sl.s.mu.RUnlock()

	var payload string
	err := sl.s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM sick_leaves WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return sickleave.Record{}, sickleave.ErrNotFound
	}
	if err != nil {
		return sickleave.Record{}, fmt.Errorf("failed to load sick leave: %w", err)
	}
	return decodeSickLeave(payload)
}

func (sl *SickLeaveStore) Successors(ctx context.Context, id string) ([]sickleave.Record, error) {
	sl.s.mu.RLock()
	defer sl.s.mu.RUnlock()

	return sl.query(ctx, `
		SELECT payload_json FROM sick_leaves
		WHERE predecessor_id = ?
		ORDER BY start_date ASC`, id)
}

func (sl *SickLeaveStore) ListByEmployee(ctx context.Context, employeeID string) ([]sickleave.Record, error) {
	sl.s.mu.RLock()
	defer sl.s.mu.RUnlock()

	return sl.query(ctx, `
		SELECT payload_json FROM sick_leaves
		WHERE employee_id = ?
		ORDER BY start_date ASC`, employeeID)
}

func (sl *SickLeaveStore) query(ctx context.Context, query string, args ...any) ([]sickleave.Record, error) {
	rows, err := sl.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sick leaves: %w", err)
	}
	defer rows.Close()

	var records []sickleave.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan sick leave: %w", err)
		}
		r, err := decodeSickLeave(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func decodeSickLeave(payload string) (sickleave.Record, error) {
	var r sickleave.Record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return sickleave.Record{}, fmt.Errorf("failed to decode sick leave: %w", err)
	}
	return r, nil
}

// =============================================================================
// VACATION STORE (vacation.Store)
// =============================================================================

type VacationStore struct{ s *Store }

func (v *VacationStore) Save(ctx context.Context, r vacation.Record) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode vacation: %w", err)
	}

	query := `
		INSERT INTO vacations (id, employee_id, accrual_year, status, start_date, payload_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			accrual_year = excluded.accrual_year,
			status = excluded.status,
			start_date = excluded.start_date,
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`
	_, err = v.s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, r.AccrualYear, string(r.Status), r.StartDate.String(),
		string(payload), now())
	if err != nil {
		return fmt.Errorf("failed to save vacation: %w", err)
	}
	return nil
}

func (v *VacationStore) Get(ctx context.Context, id string) (vacation.Record, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var payload string
	err := v.s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM vacations WHERE id = ?", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return vacation.Record{}, vacation.ErrNotFound
	}
	if err != nil {
		return vacation.Record{}, fmt.Errorf("failed to load vacation: %w", err)
	}
	return decodeVacation(payload)
}

func (v *VacationStore) ListByEmployee(ctx context.Context, employeeID string) ([]vacation.Record, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	rows, err := v.s.db.QueryContext(ctx, `
		SELECT payload_json FROM vacations
		WHERE employee_id = ?
		ORDER BY start_date ASC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}
	defer rows.Close()

	var records []vacation.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		r, err := decodeVacation(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func decodeVacation(payload string) (vacation.Record, error) {
	var r vacation.Record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return vacation.Record{}, fmt.Errorf("failed to decode vacation: %w", err)
	}
	return r, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
