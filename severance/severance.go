/*
Package severance computes social benefits and final settlements.

PURPOSE:
  Colombian employers owe four accrued benefits at any point in a contract
  and a possible indemnity on termination:

    - cesantías             severance savings, base x days/360
    - intereses a cesantías 12% annual interest on the cesantías balance
    - prima de servicios    semester bonus, base x days/360 per semester
    - vacaciones            proportional compensation, base x days/720

  The benefit base includes the transport allowance when the salary is
  below twice the monthly minimum wage; the vacation compensation base
  never includes it. All pro-rations use the statutory 360-day year.

  Liquidation is a read-only computation: it never mutates the contract.
  The caller terminates the contract separately once the settlement is
  accepted.
*/
package severance

import (
	"context"
	"errors"
	"time"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
)

// ErrContractNotActive is returned when liquidating a terminated contract.
var ErrContractNotActive = errors.New("contract is not active")

// Statutory day counts for benefit pro-ration.
const (
	benefitYearDays   = 360
	vacationYearDays  = 720
	indemnityBaseDays = 30
	indemnityYearDays = 20
)

// =============================================================================
// BENEFIT FORMULAS
// =============================================================================

// Cesantias returns base x days / 360.
func Cesantias(base money.Money, days int) money.Money {
	return base.MulInt(int64(days)).DivInt(benefitYearDays).Round2()
}

// InteresesCesantias returns cesantias x days x rate / 360, the annual
// interest prorated to the days worked.
func InteresesCesantias(cesantias money.Money, days int, rate money.Percent) money.Money {
	return cesantias.
		MulInt(int64(days)).
		Mul(rate.Fraction()).
		DivInt(benefitYearDays).
		Round2()
}

// PrimaServicios returns base x daysInSemester / 360.
func PrimaServicios(base money.Money, daysInSemester int) money.Money {
	return base.MulInt(int64(daysInSemester)).DivInt(benefitYearDays).Round2()
}

// VacacionesProporcionales returns base x days / 720. The base excludes
// the transport allowance.
func VacacionesProporcionales(base money.Money, days int) money.Money {
	return base.MulInt(int64(days)).DivInt(vacationYearDays).Round2()
}

// =============================================================================
// INDEMNITY
// =============================================================================

// IndemnityDays returns the indemnifiable days for an unjustified
// termination of an indefinite-term contract: 30 days for less than one
// full year of service, plus 20 days for each full year worked.
func IndemnityDays(daysWorked int) int {
	fullYears := daysWorked / 365
	if fullYears < 1 {
		return indemnityBaseDays
	}
	return indemnityBaseDays + indemnityYearDays*fullYears
}

// Indemnizacion values the art. 64 indemnity for a contract terminated on
// the given date. It is zero when the motive carries no indemnity or the
// contract is an apprenticeship.
func Indemnizacion(c contract.Contract, terminationDate dates.Date, motive contract.TerminationMotive) (days int, amount money.Money) {
	if !motive.Indemnified() || c.Type == contract.TypeApprenticeship {
		return 0, money.Zero
	}

	daily := legal.DailyWage(c.MonthlySalary)

	if c.Type == contract.TypeFixedTerm && c.EndDate != nil {
		// Fixed term: wages for the remainder of the agreed term.
		remaining := dates.DaysBetween(terminationDate, *c.EndDate)
		if remaining < 0 {
			remaining = 0
		}
		return remaining, daily.MulInt(int64(remaining)).Round2()
	}

	days = IndemnityDays(c.TenureDays(terminationDate))
	return days, daily.MulInt(int64(days)).Round2()
}

// =============================================================================
// FINAL SETTLEMENT
// =============================================================================

// Settlement is the full liquidation of a contract at termination.
type Settlement struct {
	ContractID      string                     `json:"contractId"`
	EmployeeID      string                     `json:"employeeId"`
	TerminationDate dates.Date                 `json:"terminationDate"`
	Motive          contract.TerminationMotive `json:"motive"`

	// BenefitBase is the monthly salary plus transport allowance when the
	// salary qualifies.
	BenefitBase money.Money `json:"benefitBase"`

	TenureDays      int `json:"tenureDays"`
	SemesterDays    int `json:"semesterDays"`
	PendingVacation int `json:"pendingVacationDays"`

	Cesantias          money.Money `json:"cesantias"`
	InteresesCesantias money.Money `json:"interesesCesantias"`
	PrimaServicios     money.Money `json:"primaServicios"`
	Vacaciones         money.Money `json:"vacaciones"`
	IndemnityDays      int         `json:"indemnityDays"`
	Indemnizacion      money.Money `json:"indemnizacion"`

	Deductions money.Money `json:"deductions"`
	Total      money.Money `json:"total"`
}

// LiquidationInput carries the caller-supplied pieces of a settlement.
type LiquidationInput struct {
	Contract        contract.Contract
	TerminationDate dates.Date
	Motive          contract.TerminationMotive

	// PendingVacationDays are untaken accrued vacation days, valued at the
	// daily wage on top of the proportional fraction.
	PendingVacationDays int

	// Deductions are outstanding loans or advances withheld from the total.
	Deductions money.Money
}

// Liquidator computes final settlements against the active legal parameters.
type Liquidator struct {
	resolver *legal.Resolver
}

// NewLiquidator builds a liquidator.
func NewLiquidator(resolver *legal.Resolver) *Liquidator {
	return &Liquidator{resolver: resolver}
}

// Liquidate computes the final settlement for an active contract.
func (l *Liquidator) Liquidate(ctx context.Context, in LiquidationInput) (Settlement, error) {
	params, err := l.resolver.ActiveForYear(ctx, in.TerminationDate.Year())
	if err != nil {
		return Settlement{}, err
	}
	return LiquidateWithParams(in, params)
}

// LiquidateWithParams is the pure settlement computation.
func LiquidateWithParams(in LiquidationInput, params legal.ParameterSet) (Settlement, error) {
	c := in.Contract
	if !c.IsActive() {
		return Settlement{}, ErrContractNotActive
	}

	base := params.BenefitBaseSalary(c.MonthlySalary)
	tenure := c.TenureDays(in.TerminationDate)
	if tenure < 0 {
		tenure = 0
	}

	// Cesantías accrue over the current benefit year; on liquidation the
	// whole outstanding tenure since the last consignment is owed. The
	// engine computes from contract start: consigned balances are settled
	// through the fund and netted out by the caller via Deductions.
	cesantias := Cesantias(base, tenure)
	intereses := InteresesCesantias(cesantias, tenure, params.SeveranceInterestPct)

	semesterDays := daysInCurrentSemester(in.TerminationDate, c.StartDate)
	prima := PrimaServicios(base, semesterDays)

	// Pending whole vacation days at the daily wage, plus the proportional
	// fraction for the running accrual period.
	daily := legal.DailyWage(c.MonthlySalary)
	pendingValue := daily.MulInt(int64(in.PendingVacationDays))
	proportional := VacacionesProporcionales(c.MonthlySalary, tenure%365)
	vacaciones := pendingValue.Add(proportional).Round2()

	indemnityDays, indemnity := Indemnizacion(c, in.TerminationDate, in.Motive)

	total := money.Sum(cesantias, intereses, prima, vacaciones, indemnity).
		Sub(in.Deductions).
		Round2()

	return Settlement{
		ContractID:         c.ID,
		EmployeeID:         c.EmployeeID,
		TerminationDate:    in.TerminationDate,
		Motive:             in.Motive,
		BenefitBase:        base,
		TenureDays:         tenure,
		SemesterDays:       semesterDays,
		PendingVacation:    in.PendingVacationDays,
		Cesantias:          cesantias,
		InteresesCesantias: intereses,
		PrimaServicios:     prima,
		Vacaciones:         vacaciones,
		IndemnityDays:      indemnityDays,
		Indemnizacion:      indemnity,
		Deductions:         in.Deductions,
		Total:              total,
	}, nil
}

// daysInCurrentSemester counts days worked inside the semester containing
// the termination date (Jan-Jun or Jul-Dec), clamped to the contract start.
func daysInCurrentSemester(terminationDate, contractStart dates.Date) int {
	semesterStart := dates.New(terminationDate.Year(), time.January, 1)
	if terminationDate.Month() >= time.July {
		semesterStart = dates.New(terminationDate.Year(), time.July, 1)
	}
	if contractStart.After(semesterStart) {
		semesterStart = contractStart
	}
	if semesterStart.After(terminationDate) {
		return 0
	}
	return dates.DaysBetween(semesterStart, terminationDate) + 1
}
