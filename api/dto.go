/*
dto.go - Request and response data structures

All dates cross the wire as "2006-01-02" strings (dates.Date marshals that
way), monetary amounts as decimal strings, hours as decimal numbers.
*/
package api

import (
	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
	"github.com/silvagro/nomina-engine/sickleave"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// LEGAL PARAMETERS
// =============================================================================

// CreateParameterSetRequest carries a new legal parameter set. Rates left
// at zero fall back to the statutory defaults for the year.
type CreateParameterSetRequest struct {
	Year               int    `json:"year"`
	MonthlyMinimumWage string `json:"monthlyMinimumWage"`
	TransportAllowance string `json:"transportAllowance"`
	Notes              string `json:"notes,omitempty"`
}

// =============================================================================
// CONTRACTS
// =============================================================================

type CreateContractRequest struct {
	EmployeeID    string `json:"employeeId"`
	Type          string `json:"type"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate,omitempty"` // fixed-term only
	MonthlySalary string `json:"monthlySalary"`
	RiskClass     int    `json:"riskClass"`
}

type TerminateContractRequest struct {
	TerminationDate string `json:"terminationDate"`
	Motive          string `json:"motive"`
}

// =============================================================================
// OVERTIME
// =============================================================================

type ClassifyShiftsRequest struct {
	EmployeeID string           `json:"employeeId"`
	Date       string           `json:"date"`
	Shifts     []overtime.Shift `json:"shifts"`
}

type ValuateHoursRequest struct {
	MonthlySalary string                 `json:"monthlySalary"`
	Records       []overtime.HoursRecord `json:"records"`
}

// =============================================================================
// PAYROLL
// =============================================================================

type ComputePayrollRequest struct {
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`

	HoursRecords []overtime.HoursRecord `json:"hoursRecords,omitempty"`

	Commissions   string `json:"commissions,omitempty"`
	Bonuses       string `json:"bonuses,omitempty"`
	OtherEarnings string `json:"otherEarnings,omitempty"`

	Withholding     string `json:"withholding,omitempty"`
	Loans           string `json:"loans,omitempty"`
	Garnishments    string `json:"garnishments,omitempty"`
	OtherDeductions string `json:"otherDeductions,omitempty"`
}

// =============================================================================
// SICK LEAVE
// =============================================================================

type RegisterSickLeaveRequest struct {
	EmployeeID    string `json:"employeeId"`
	Number        string `json:"number,omitempty"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	Type          string `json:"type"`
	PredecessorID string `json:"predecessorId,omitempty"`
}

type TranscribeSickLeaveRequest struct {
	TranscriptionNumber string `json:"transcriptionNumber"`
	Date                string `json:"date"`
}

type CollectSickLeaveRequest struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type CancelSickLeaveRequest struct {
	Reason string `json:"reason"`
}

// SickLeaveResponse decorates a record with its computed chain totals.
type SickLeaveResponse struct {
	sickleave.Record
	CumulativeDays int `json:"cumulativeDays,omitempty"`
}

// =============================================================================
// VACATIONS
// =============================================================================

type RequestVacationRequest struct {
	EmployeeID  string `json:"employeeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	AccrualYear int    `json:"accrualYear"`
	Notes       string `json:"notes,omitempty"`
}

type VacationBalanceResponse struct {
	EmployeeID  string `json:"employeeId"`
	AccrualYear int    `json:"accrualYear"`
	Entitlement int    `json:"entitlement"`
	Available   int    `json:"available"`
	Earned      int    `json:"earned"`
}

type BusinessDaysResponse struct {
	From         dates.Date `json:"from"`
	To           dates.Date `json:"to"`
	BusinessDays int        `json:"businessDays"`
}

// =============================================================================
// LIQUIDATION
// =============================================================================

type LiquidateRequest struct {
	EmployeeID      string `json:"employeeId"`
	TerminationDate string `json:"terminationDate"`
	Motive          string `json:"motive"`

	PendingVacationDays int    `json:"pendingVacationDays,omitempty"`
	Deductions          string `json:"deductions,omitempty"`

	// DryRun computes the settlement without terminating the contract.
	DryRun bool `json:"dryRun,omitempty"`
}

// =============================================================================
// PARSE HELPERS
// =============================================================================

func parseMoney(s string) (money.Money, error) {
	if s == "" {
		return money.Zero, nil
	}
	return money.Parse(s)
}

func parseDate(s string) (dates.Date, error) {
	return dates.ParseISO(s)
}

func parseMotive(s string) (contract.TerminationMotive, bool) {
	m := contract.TerminationMotive(s)
	switch m {
	case contract.MotiveDismissalWithoutJustCause,
		contract.MotiveResignationEmployerFault,
		contract.MotiveDismissalWithJustCause,
		contract.MotiveResignation,
		contract.MotiveMutualAgreement,
		contract.MotiveExpiration:
		return m, true
	}
	return "", false
}

func parseLeaveType(s string) (sickleave.Type, bool) {
	t := sickleave.Type(s)
	switch t {
	case sickleave.TypeGeneralIllness,
		sickleave.TypeWorkAccident,
		sickleave.TypeOccupationalDisease,
		sickleave.TypeMaternityLeave,
		sickleave.TypePaternityLeave:
		return t, true
	}
	return "", false
}

func parseContractType(s string) (contract.Type, bool) {
	t := contract.Type(s)
	switch t {
	case contract.TypeIndefinite, contract.TypeFixedTerm,
		contract.TypeWorkOrLabor, contract.TypeApprenticeship:
		return t, true
	}
	return "", false
}
