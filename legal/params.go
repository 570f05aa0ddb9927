/*
Package legal resolves the legal parameter set every other engine prices
against: minimum wage, contribution percentages, surcharge rates and the
working-time limits of the Colombian labor code.

PURPOSE:
  The many small percentages the law fixes (4%, 8.5%, 66.67%, ...) live in
  exactly one place: the active ParameterSet for the year. Calculators never
  hard-code a rate; a new legal year only needs a new parameter record.

INVARIANT:
  At most one ParameterSet is active at any time. Activation is a single
  serialized read-modify-write owned by the Resolver (resolver.go); finding
  two active sets means upstream data corruption and is surfaced as an
  invariant violation, never silently repaired.
*/
package legal

import (
	"github.com/silvagro/nomina-engine/money"
)

// ParameterSet holds the statutory values in force for one year.
type ParameterSet struct {
	ID   string `json:"id"`
	Year int    `json:"year"`

	// Wages
	MonthlyMinimumWage money.Money `json:"monthlyMinimumWage"` // SMLMV
	TransportAllowance money.Money `json:"transportAllowance"`

	// Social security contributions (employee-deducted vs employer-paid)
	HealthEmployeePct  money.Percent `json:"healthEmployeePct"`  // 4%
	HealthEmployerPct  money.Percent `json:"healthEmployerPct"`  // 8.5%
	PensionEmployeePct money.Percent `json:"pensionEmployeePct"` // 4%
	PensionEmployerPct money.Percent `json:"pensionEmployerPct"` // 12%

	// Occupational risk (ARL), bounded by risk class I-V
	ARLMinPct money.Percent `json:"arlMinPct"` // class I, 0.522%
	ARLMaxPct money.Percent `json:"arlMaxPct"` // class V, 6.96%

	// Parafiscal funds
	FamilyFundPct    money.Percent `json:"familyFundPct"`    // caja de compensación, 4%
	ChildcareFundPct money.Percent `json:"childcareFundPct"` // ICBF, 3%
	TrainingFundPct  money.Percent `json:"trainingFundPct"`  // SENA, 2%

	// Severance
	SeveranceInterestPct money.Percent `json:"severanceInterestPct"` // 12% annual

	// Overtime surcharges
	NightSurchargePct         money.Percent `json:"nightSurchargePct"`         // 35%
	ExtraDaySurchargePct      money.Percent `json:"extraDaySurchargePct"`      // 25%
	ExtraNightSurchargePct    money.Percent `json:"extraNightSurchargePct"`    // 75%
	SundayHolidaySurchargePct money.Percent `json:"sundayHolidaySurchargePct"` // 75%

	// Working time
	WeeklyHours int `json:"weeklyHours"` // 48
	DailyHours  int `json:"dailyHours"`  // 8

	// Vacation entitlement in business days per year of service
	VacationDaysPerYear int `json:"vacationDaysPerYear"` // 15

	MinimumWorkingAge int    `json:"minimumWorkingAge"` // 18
	Notes             string `json:"notes,omitempty"`
	Active            bool   `json:"active"`
}

// Defaults returns a ParameterSet with the statutory rates that rarely change
// year to year. Wage figures must still be set per year.
func Defaults(year int) ParameterSet {
	return ParameterSet{
		Year:                      year,
		HealthEmployeePct:         money.NewPercent(4),
		HealthEmployerPct:         money.NewPercent(8.5),
		PensionEmployeePct:        money.NewPercent(4),
		PensionEmployerPct:        money.NewPercent(12),
		ARLMinPct:                 money.NewPercent(0.522),
		ARLMaxPct:                 money.NewPercent(6.96),
		FamilyFundPct:             money.NewPercent(4),
		ChildcareFundPct:          money.NewPercent(3),
		TrainingFundPct:           money.NewPercent(2),
		SeveranceInterestPct:      money.NewPercent(12),
		NightSurchargePct:         money.NewPercent(35),
		ExtraDaySurchargePct:      money.NewPercent(25),
		ExtraNightSurchargePct:    money.NewPercent(75),
		SundayHolidaySurchargePct: money.NewPercent(75),
		WeeklyHours:               48,
		DailyHours:                8,
		VacationDaysPerYear:       15,
		MinimumWorkingAge:         18,
	}
}

// =============================================================================
// DERIVED WAGES - computed on demand, never stored
// =============================================================================

// DailyWage is the statutory monthly-to-daily conversion (30-day month).
func DailyWage(monthly money.Money) money.Money {
	return monthly.DivInt(30)
}

// HourlyWage is the statutory monthly-to-hourly conversion (30 days x 8 hours).
func HourlyWage(monthly money.Money) money.Money {
	return monthly.DivInt(240)
}

// DailyMinimumWage derives the daily SMLMV.
func (p ParameterSet) DailyMinimumWage() money.Money {
	return DailyWage(p.MonthlyMinimumWage)
}

// HourlyMinimumWage derives the hourly SMLMV.
func (p ParameterSet) HourlyMinimumWage() money.Money {
	return HourlyWage(p.MonthlyMinimumWage)
}

// QualifiesForTransportAllowance reports whether a salary is below the
// two-SMLMV threshold that grants the transport allowance.
func (p ParameterSet) QualifiesForTransportAllowance(monthlySalary money.Money) bool {
	return monthlySalary.LessThan(p.MonthlyMinimumWage.MulInt(2))
}

// TransportAllowanceFor returns the allowance owed for a salary, or zero.
func (p ParameterSet) TransportAllowanceFor(monthlySalary money.Money) money.Money {
	if p.QualifiesForTransportAllowance(monthlySalary) {
		return p.TransportAllowance
	}
	return money.Zero
}

// BenefitBaseSalary returns the base used for cesantías, intereses and prima:
// the salary plus the transport allowance when the employee qualifies.
func (p ParameterSet) BenefitBaseSalary(monthlySalary money.Money) money.Money {
	return monthlySalary.Add(p.TransportAllowanceFor(monthlySalary))
}

// arlClassRates are the published intermediate rates for risk classes II-IV.
// Classes I and V come from the configured min/max so a tariff change only
// needs a new parameter record.
var arlClassRates = map[int]money.Percent{
	2: money.NewPercent(1.044),
	3: money.NewPercent(2.436),
	4: money.NewPercent(4.350),
}

// ARLRateForClass returns the occupational-risk rate for a risk class,
// clamped to the I-V range.
func (p ParameterSet) ARLRateForClass(class int) money.Percent {
	if class <= 1 {
		return p.ARLMinPct
	}
	if class >= 5 {
		return p.ARLMaxPct
	}
	return arlClassRates[class]
}
