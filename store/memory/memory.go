/*
Package memory provides in-memory implementations of the storage
interfaces for tests and local development.

Each store guards its maps with a sync.RWMutex and hands out copies, so a
caller can never mutate stored state through a returned value. Activation
of a legal parameter set flips the flags under a single lock, preserving
the at-most-one-active invariant the resolver checks.
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/payroll"
	"github.com/silvagro/nomina-engine/sickleave"
	"github.com/silvagro/nomina-engine/vacation"
)

// =============================================================================
// LEGAL PARAMETER STORE (legal.Store)
// =============================================================================

type LegalStore struct {
	mu   sync.RWMutex
	sets map[string]legal.ParameterSet
}

func NewLegalStore() *LegalStore {
	return &LegalStore{sets: make(map[string]legal.ParameterSet)}
}

func (s *LegalStore) Save(_ context.Context, set legal.ParameterSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.ID] = set
	return nil
}

func (s *LegalStore) Get(_ context.Context, id string) (legal.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return legal.ParameterSet{}, legal.ErrNotFound
	}
	return set, nil
}

func (s *LegalStore) List(_ context.Context) ([]legal.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]legal.ParameterSet, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, set)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *LegalStore) ActiveSets(_ context.Context) ([]legal.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []legal.ParameterSet
	for _, set := range s.sets {
		if set.Active {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *LegalStore) Activate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.sets[id]
	if !ok {
		return legal.ErrNotFound
	}

	for key, set := range s.sets {
		if set.Active {
			set.Active = false
			s.sets[key] = set
		}
	}
	target.Active = true
	s.sets[id] = target
	return nil
}

// Corrupt force-activates a set without clearing the others. Test hook for
// exercising the invariant-violation path; never call it from real code.
func (s *LegalStore) Corrupt(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.sets[id]; ok {
		set.Active = true
		s.sets[id] = set
	}
}

// =============================================================================
// CONTRACT STORE (contract.Store)
// =============================================================================

type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]contract.Contract
}

func NewContractStore() *ContractStore {
	return &ContractStore{contracts: make(map[string]contract.Contract)}
}

func (s *ContractStore) Save(_ context.Context, c contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
	return nil
}

func (s *ContractStore) Get(_ context.Context, id string) (contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrNotFound
	}
	return c, nil
}

func (s *ContractStore) ActiveByEmployee(_ context.Context, employeeID string) (contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contracts {
		if c.EmployeeID == employeeID && c.IsActive() {
			return c, nil
		}
	}
	return contract.Contract{}, contract.ErrNotFound
}

func (s *ContractStore) ListByEmployee(_ context.Context, employeeID string) ([]contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []contract.Contract
	for _, c := range s.contracts {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// =============================================================================
// PAYROLL STORE (payroll.Store)
// =============================================================================

type PayrollStore struct {
	mu      sync.RWMutex
	records map[string]payroll.Record
}

func NewPayrollStore() *PayrollStore {
	return &PayrollStore{records: make(map[string]payroll.Record)}
}

func (s *PayrollStore) Save(_ context.Context, r payroll.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

func (s *PayrollStore) Get(_ context.Context, id string) (payroll.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrNotFound
	}
	return r, nil
}

func (s *PayrollStore) GetPeriod(_ context.Context, employeeID string, year int, month time.Month) (payroll.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.EmployeeID == employeeID && r.Year == year && r.Month == month {
			return r, nil
		}
	}
	return payroll.Record{}, payroll.ErrNotFound
}

func (s *PayrollStore) ListByEmployee(_ context.Context, employeeID string) ([]payroll.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payroll.Record
	for _, r := range s.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

// =============================================================================
// SICK LEAVE STORE (sickleave.Store)
// =============================================================================

type SickLeaveStore struct {
	mu      sync.RWMutex
	records map[string]sickleave.Record
}

func NewSickLeaveStore() *SickLeaveStore {
	return &SickLeaveStore{records: make(map[string]sickleave.Record)}
}

func (s *SickLeaveStore) Save(_ context.Context, r sickleave.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

func (s *SickLeaveStore) Get(_ context.Context, id string) (sickleave.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return sickleave.Record{}, sickleave.ErrNotFound
	}
	return r, nil
}

func (s *SickLeaveStore) Successors(_ context.Context, id string) ([]sickleave.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []sickleave.Record
	for _, r := range s.records {
		if r.PredecessorID == id {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *SickLeaveStore) ListByEmployee(_ context.Context, employeeID string) ([]sickleave.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []sickleave.Record
	for _, r := range s.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// =============================================================================
// VACATION STORE (vacation.Store)
// =============================================================================

type VacationStore struct {
	mu      sync.RWMutex
	records map[string]vacation.Record
}

func NewVacationStore() *VacationStore {
	return &VacationStore{records: make(map[string]vacation.Record)}
}

func (s *VacationStore) Save(_ context.Context, r vacation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

func (s *VacationStore) Get(_ context.Context, id string) (vacation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return vacation.Record{}, vacation.ErrNotFound
	}
	return r, nil
}

func (s *VacationStore) ListByEmployee(_ context.Context, employeeID string) ([]vacation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []vacation.Record
	for _, r := range s.records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}
