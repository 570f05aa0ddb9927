/*
service.go - Workflow transitions and prorogation-chain aggregates

Transitions mutate a copy and return it; the orchestrating layer persists
the result after success. The service reads the store only to resolve
predecessors and descendants. It never writes.
*/
package sickleave

import (
	"context"

	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/money"
)

// Store is the read contract the service needs. Implementations live in
// store/memory and store/sqlite.
type Store interface {
	// Get returns a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Successors returns the records whose PredecessorID equals id.
	Successors(ctx context.Context, id string) ([]Record, error)

	// ListByEmployee returns all records for an employee.
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)

	// Save inserts or replaces a record. Used by the orchestration layer
	// after a successful transition, not by the service itself.
	Save(ctx context.Context, r Record) error
}

// chainGuard bounds predecessor traversal; a longer chain means a cycle.
const chainGuard = 1000

// Service runs workflow transitions and chain queries.
type Service struct {
	store Store
}

// NewService builds a sick-leave service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Transcribe files the record with the insurer. Requires Active.
func (s *Service) Transcribe(r Record, number string, at dates.Date) (Record, error) {
	if r.State != StateActive {
		return Record{}, &TransitionError{From: r.State, Action: "transcribe"}
	}
	r.State = StateTranscribed
	r.TranscriptionNumber = number
	r.TranscribedAt = &at
	return r, nil
}

// Collect registers the insurer payment. Requires a prior transcription.
func (s *Service) Collect(r Record, amount money.Money, at dates.Date) (Record, error) {
	if r.State != StateTranscribed {
		return Record{}, &TransitionError{From: r.State, Action: "collect"}
	}
	r.State = StateCollected
	r.CollectedAmount = amount
	r.CollectedAt = &at
	return r, nil
}

// Finalize closes a record that has nothing to collect. Requires Active and
// no open prorogation descendant.
func (s *Service) Finalize(ctx context.Context, r Record) (Record, error) {
	if r.State != StateActive {
		return Record{}, &TransitionError{From: r.State, Action: "finalize"}
	}

	open, err := s.hasOpenDescendant(ctx, r.ID)
	if err != nil {
		return Record{}, err
	}
	if open {
		return Record{}, ErrActiveProrogation
	}

	r.State = StateFinalized
	return r, nil
}

// Cancel voids a record. Requires a reason; blocked once collected.
func (s *Service) Cancel(r Record, reason string) (Record, error) {
	if reason == "" {
		return Record{}, ErrCancelReasonRequired
	}
	if r.State == StateCollected || r.State == StateCancelled {
		return Record{}, &TransitionError{From: r.State, Action: "cancel"}
	}
	r.State = StateCancelled
	r.CancelReason = reason
	return r, nil
}

// =============================================================================
// PROROGATION CHAINS
// =============================================================================

// ChainRoot walks predecessor pointers up to the first record of the chain.
func (s *Service) ChainRoot(ctx context.Context, id string) (Record, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	for steps := 0; current.IsProrogation(); steps++ {
		if steps >= chainGuard {
			return Record{}, ErrProrogationCycle
		}
		current, err = s.store.Get(ctx, current.PredecessorID)
		if err != nil {
			return Record{}, err
		}
	}
	return current, nil
}

// CumulativeDays sums TotalDays across a chain starting at the given record,
// following successor links iteratively. Cancelled records do not count.
func (s *Service) CumulativeDays(ctx context.Context, rootID string) (int, error) {
	root, err := s.store.Get(ctx, rootID)
	if err != nil {
		return 0, err
	}

	total := 0
	visited := map[string]bool{}
	queue := []Record{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.ID] {
			return 0, ErrProrogationCycle
		}
		visited[current.ID] = true

		if current.State != StateCancelled {
			total += current.TotalDays
		}

		successors, err := s.store.Successors(ctx, current.ID)
		if err != nil {
			return 0, err
		}
		queue = append(queue, successors...)
	}

	return total, nil
}

func (s *Service) hasOpenDescendant(ctx context.Context, id string) (bool, error) {
	visited := map[string]bool{}
	queue := []string{id}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			return false, ErrProrogationCycle
		}
		visited[currentID] = true

		successors, err := s.store.Successors(ctx, currentID)
		if err != nil {
			return false, err
		}
		for _, succ := range successors {
			if succ.Open() {
				return true, nil
			}
			queue = append(queue, succ.ID)
		}
	}
	return false, nil
}
