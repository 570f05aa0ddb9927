/*
Package contract models employment contracts and their lifecycle.

A contract is created on hire, mutated on renewal or termination, and never
physically deleted; termination is a soft state change. Payroll validates
periods against it and severance liquidation derives tenure and indemnity
from it.
*/
package contract

import (
	"context"
	"errors"

	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/money"
)

// Type is the contract modality under the labor code.
type Type string

const (
	TypeIndefinite     Type = "indefinite"
	TypeFixedTerm      Type = "fixed_term"
	TypeWorkOrLabor    Type = "work_or_labor"
	TypeApprenticeship Type = "apprenticeship"
)

// Status is the contract lifecycle state.
type Status string

const (
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
)

// TerminationMotive is why a contract ended. Indemnity applies only to
// dismissal without just cause and to worker resignation for employer fault.
type TerminationMotive string

const (
	MotiveDismissalWithoutJustCause TerminationMotive = "dismissal_without_just_cause"
	MotiveResignationEmployerFault  TerminationMotive = "resignation_employer_fault"
	MotiveDismissalWithJustCause    TerminationMotive = "dismissal_with_just_cause"
	MotiveResignation               TerminationMotive = "resignation"
	MotiveMutualAgreement           TerminationMotive = "mutual_agreement"
	MotiveExpiration                TerminationMotive = "expiration"
)

// Indemnified reports whether the motive triggers the art. 64 indemnity.
func (m TerminationMotive) Indemnified() bool {
	return m == MotiveDismissalWithoutJustCause || m == MotiveResignationEmployerFault
}

// ErrAlreadyTerminated is returned when terminating a non-active contract.
var ErrAlreadyTerminated = errors.New("contract already terminated")

// ErrNotFound is returned for an unknown contract id or an employee with no
// active contract.
var ErrNotFound = errors.New("contract not found")

// Store is the persistence contract for employment contracts.
type Store interface {
	Save(ctx context.Context, c Contract) error
	Get(ctx context.Context, id string) (Contract, error)

	// ActiveByEmployee returns the employee's active contract, or ErrNotFound.
	ActiveByEmployee(ctx context.Context, employeeID string) (Contract, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Contract, error)
}

// Contract is one employment contract.
type Contract struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       Type   `json:"type"`

	StartDate dates.Date  `json:"startDate"`
	EndDate   *dates.Date `json:"endDate,omitempty"` // fixed-term contracts only

	MonthlySalary money.Money `json:"monthlySalary"`

	// RiskClass is the ARL occupational-risk class, I-V.
	RiskClass int `json:"riskClass"`

	Status            Status            `json:"status"`
	TerminationDate   *dates.Date       `json:"terminationDate,omitempty"`
	TerminationMotive TerminationMotive `json:"terminationMotive,omitempty"`
}

// IsActive reports whether the contract is still in force.
func (c Contract) IsActive() bool {
	return c.Status == StatusActive
}

// TenureDays is the day count from start to the given date.
func (c Contract) TenureDays(asOf dates.Date) int {
	return dates.DaysBetween(c.StartDate, asOf)
}

// Terminate marks the contract terminated. The change is in-memory; the
// caller persists it after the dependent computations succeed.
func (c *Contract) Terminate(date dates.Date, motive TerminationMotive) error {
	if !c.IsActive() {
		return ErrAlreadyTerminated
	}
	c.Status = StatusTerminated
	c.TerminationDate = &date
	c.TerminationMotive = motive
	return nil
}

// ActiveSpan returns the inclusive period the contract was in force as of
// the given date: start through termination date, contractual end date, or
// the reference date, whichever comes first.
func (c Contract) ActiveSpan(asOf dates.Date) dates.Period {
	end := asOf
	if c.TerminationDate != nil && c.TerminationDate.Before(end) {
		end = *c.TerminationDate
	}
	if c.EndDate != nil && c.EndDate.Before(end) {
		end = *c.EndDate
	}
	if end.Before(c.StartDate) {
		end = c.StartDate
	}
	return dates.Period{Start: c.StartDate, End: end}
}
