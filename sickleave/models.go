/*
Package sickleave computes the employer/insurer cost split of certified sick
leave (incapacidad) and manages the record workflow.

PURPOSE:
  Who pays which days of a sick leave depends on its type:

    general illness        employer pays min(2, totalDays), insurer the rest;
                           insurer reimburses 66.67% up to 90 days, 50% after
    work accident /
    occupational disease   ARL pays every day at 100%
    maternity / paternity  EPS pays every day at 100%

  Leaves extend through prorogation chains: a record may reference its
  predecessor, and chain aggregates are computed by iterative traversal of
  the parent pointers (never by recursive object graphs).

WORKFLOW:
  Active -> Transcribed -> Collected     (filed with the insurer, then paid)
  Active -> Finalized                    (ran its course, nothing to collect)
  any non-Collected state -> Cancelled   (requires a reason)
*/
package sickleave

import (
	"fmt"

	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/money"
)

// Type classifies the sick leave and decides the cost split.
type Type string

const (
	TypeGeneralIllness      Type = "general_illness"
	TypeWorkAccident        Type = "work_accident"
	TypeOccupationalDisease Type = "occupational_disease"
	TypeMaternityLeave      Type = "maternity_leave"
	TypePaternityLeave      Type = "paternity_leave"
)

// Payer identifies who reimburses the insurer-paid days.
type Payer string

const (
	PayerEPS Payer = "eps"
	PayerARL Payer = "arl"
)

// InsurerPayer returns which insurer covers a leave type.
func (t Type) InsurerPayer() Payer {
	switch t {
	case TypeWorkAccident, TypeOccupationalDisease:
		return PayerARL
	default:
		return PayerEPS
	}
}

// State is the workflow state of a record.
type State string

const (
	StateActive      State = "active"
	StateTranscribed State = "transcribed"
	StateCollected   State = "collected"
	StateFinalized   State = "finalized"
	StateCancelled   State = "cancelled"
)

// Record is one certified sick leave.
type Record struct {
	ID         string `json:"id"`
	Number     string `json:"number,omitempty"` // e.g. INC-2026-0001
	EmployeeID string `json:"employeeId"`

	StartDate dates.Date `json:"startDate"`
	EndDate   dates.Date `json:"endDate"`
	TotalDays int        `json:"totalDays"`

	Diagnosis string `json:"diagnosis"`
	Type      Type   `json:"type"`

	// Cost split, filled by ClassifyDistribution.
	EmployerDays     int           `json:"employerDays"`
	InsurerDays      int           `json:"insurerDays"`
	ReimbursementPct money.Percent `json:"reimbursementPct"`

	// Reimbursement valuation, filled by Reimbursement.
	DailyBase          money.Money `json:"dailyBase"`
	ReimbursableAmount money.Money `json:"reimbursableAmount"`

	State State `json:"state"`

	// PredecessorID links a prorogation to the record it extends.
	PredecessorID string `json:"predecessorId,omitempty"`

	// LeaveRequestID references the leave-of-absence request that
	// originated this record, when there is one.
	LeaveRequestID string `json:"leaveRequestId,omitempty"`

	TranscriptionNumber string      `json:"transcriptionNumber,omitempty"`
	TranscribedAt       *dates.Date `json:"transcribedAt,omitempty"`
	CollectedAt         *dates.Date `json:"collectedAt,omitempty"`
	CollectedAmount     money.Money `json:"collectedAmount"`
	CancelReason        string      `json:"cancelReason,omitempty"`
}

// IsProrogation reports whether the record extends a previous one.
func (r Record) IsProrogation() bool {
	return r.PredecessorID != ""
}

// Open reports whether the record still counts as in-course for chain
// purposes (not finalized, collected or cancelled).
func (r Record) Open() bool {
	return r.State == StateActive || r.State == StateTranscribed
}

// Validate checks the structural invariants of a classified record.
func (r Record) Validate() error {
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: %s > %s", dates.ErrInvalidDateRange, r.StartDate, r.EndDate)
	}
	if span := (dates.Period{Start: r.StartDate, End: r.EndDate}).CalendarDays(); span != r.TotalDays {
		return fmt.Errorf("total days %d does not match date span of %d days", r.TotalDays, span)
	}
	if r.EmployerDays+r.InsurerDays != r.TotalDays {
		return fmt.Errorf("day split %d+%d does not cover total of %d",
			r.EmployerDays, r.InsurerDays, r.TotalDays)
	}
	return nil
}
