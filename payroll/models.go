package payroll

import (
	"context"
	"time"

	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
)

// Status is the payroll record lifecycle. Approved records are immutable;
// a recompute always produces a fresh Calculated record.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusCalculated Status = "calculated"
	StatusApproved   Status = "approved"
)

// Earnings itemizes everything the employee is paid for the period.
type Earnings struct {
	BaseSalary         money.Money `json:"baseSalary"` // prorated for partial periods
	TransportAllowance money.Money `json:"transportAllowance"`

	// Valuated overtime buckets (surcharge values, see package overtime)
	NightSurcharge     money.Money `json:"nightSurcharge"`
	ExtraDay           money.Money `json:"extraDay"`
	ExtraNight         money.Money `json:"extraNight"`
	SundayHoliday      money.Money `json:"sundayHoliday"`
	SundayHolidayExtra money.Money `json:"sundayHolidayExtra"`

	Commissions money.Money `json:"commissions"`
	Bonuses     money.Money `json:"bonuses"`
	Other       money.Money `json:"other"`
}

// Total sums every earning item (the gross).
func (e Earnings) Total() money.Money {
	return money.Sum(
		e.BaseSalary, e.TransportAllowance,
		e.NightSurcharge, e.ExtraDay, e.ExtraNight, e.SundayHoliday, e.SundayHolidayExtra,
		e.Commissions, e.Bonuses, e.Other,
	)
}

// Deductions itemizes what is withheld from the employee.
type Deductions struct {
	Health  money.Money `json:"health"`  // 4% of base salary
	Pension money.Money `json:"pension"` // 4% of base salary

	// Withholding is the income-tax retention, a pass-through value the
	// caller supplies; the engine does not derive it.
	Withholding money.Money `json:"withholding"`

	Loans        money.Money `json:"loans"`
	Garnishments money.Money `json:"garnishments"`
	Other        money.Money `json:"other"`
}

// Total sums every deduction item.
func (d Deductions) Total() money.Money {
	return money.Sum(d.Health, d.Pension, d.Withholding, d.Loans, d.Garnishments, d.Other)
}

// EmployerContributions are paid by the employer on top of the payroll;
// nothing here is deducted from the employee.
type EmployerContributions struct {
	Health        money.Money `json:"health"`        // 8.5%
	Pension       money.Money `json:"pension"`       // 12%
	ARL           money.Money `json:"arl"`           // by risk class
	FamilyFund    money.Money `json:"familyFund"`    // 4%
	ChildcareFund money.Money `json:"childcareFund"` // 3%
	TrainingFund  money.Money `json:"trainingFund"`  // 2%
}

// Total sums every employer contribution.
func (c EmployerContributions) Total() money.Money {
	return money.Sum(c.Health, c.Pension, c.ARL, c.FamilyFund, c.ChildcareFund, c.TrainingFund)
}

// Record is one employee's payroll for one month.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`

	Earnings      Earnings              `json:"earnings"`
	Deductions    Deductions            `json:"deductions"`
	Contributions EmployerContributions `json:"contributions"`

	// Computed totals
	Gross           money.Money `json:"gross"`
	TotalDeductions money.Money `json:"totalDeductions"`
	NetPay          money.Money `json:"netPay"`
	EmployerCost    money.Money `json:"employerCost"` // net pay + contributions

	// Days the base salary was prorated over (30 for a full month).
	WorkedDays int `json:"workedDays"`

	Status Status `json:"status"`

	// Non-fatal rule breaches surfaced during computation (overtime caps).
	Warnings []overtime.Warning `json:"warnings,omitempty"`
}

// Store is the persistence contract for payroll records.
type Store interface {
	Save(ctx context.Context, r Record) error

	// Get returns a record by id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// GetPeriod returns the employee's record for a month, or ErrNotFound.
	GetPeriod(ctx context.Context, employeeID string, year int, month time.Month) (Record, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
}

// Approve transitions Calculated -> Approved. Any other source state fails.
func (r *Record) Approve() error {
	if r.Status != StatusCalculated {
		return ErrNotApprovable
	}
	r.Status = StatusApproved
	return nil
}
