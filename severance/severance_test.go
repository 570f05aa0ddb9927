package severance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
)

func assertMoney(t *testing.T, expected float64, got money.Money) {
	t.Helper()
	assert.True(t, got.Equal(money.NewFromFloat(expected)), "expected %v, got %s", expected, got)
}

// params2024 returns the 2024 legal figures the settlement math reads.
func params2024() legal.ParameterSet {
	p := legal.Defaults(2024)
	p.MonthlyMinimumWage = money.New(1_300_000)
	p.TransportAllowance = money.New(162_000)
	return p
}

// =============================================================================
// BENEFIT FORMULAS
// =============================================================================

func TestCesantiasFullYear(t *testing.T) {
	// A full 360-day benefit year accrues one monthly base.
	assertMoney(t, 1_000_000, Cesantias(money.New(1_000_000), 360))
}

func TestCesantiasHalfYear(t *testing.T) {
	assertMoney(t, 500_000, Cesantias(money.New(1_000_000), 180))
}

func TestInteresesCesantiasFullYear(t *testing.T) {
	// 12% annual interest on a full-year balance.
	cesantias := Cesantias(money.New(1_000_000), 360)
	got := InteresesCesantias(cesantias, 360, legal.Defaults(2024).SeveranceInterestPct)
	assertMoney(t, 120_000, got)
}

func TestInteresesCesantiasProrated(t *testing.T) {
	// Half a year: 500,000 x 180 x 12% / 360 = 30,000.
	cesantias := Cesantias(money.New(1_000_000), 180)
	got := InteresesCesantias(cesantias, 180, legal.Defaults(2024).SeveranceInterestPct)
	assertMoney(t, 30_000, got)
}

func TestPrimaServicios(t *testing.T) {
	// A full semester pays half a monthly base.
	assertMoney(t, 500_000, PrimaServicios(money.New(1_000_000), 180))
	assertMoney(t, 250_000, PrimaServicios(money.New(1_000_000), 90))
}

func TestVacacionesProporcionales(t *testing.T) {
	// A full year accrues half a month of salary.
	assertMoney(t, 500_000, VacacionesProporcionales(money.New(1_000_000), 360))
}

// =============================================================================
// INDEMNITY
// =============================================================================

func TestIndemnityDays(t *testing.T) {
	tests := []struct {
		name       string
		daysWorked int
		want       int
	}{
		{"six months", 182, 30},
		{"just under a year", 364, 30},
		{"exactly one year", 365, 50},
		{"two and a half years", 912, 70},
		{"five years", 1825, 130},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IndemnityDays(tc.daysWorked))
		})
	}
}

func TestIndemnizacionIndefinite(t *testing.T) {
	// GIVEN an indefinite contract with 2.5 years of service
	c := contract.Contract{
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2022, time.January, 1),
		MonthlySalary: money.New(1_500_000),
		Status:        contract.StatusActive,
	}

	// WHEN dismissed without just cause mid-2024
	days, amount := Indemnizacion(c, dates.New(2024, time.July, 1), contract.MotiveDismissalWithoutJustCause)

	// THEN 30 + 20x2 = 70 days at the daily wage
	assert.Equal(t, 70, days)
	assertMoney(t, 3_500_000, amount) // 50,000/day x 70
}

func TestIndemnizacionFixedTermRemainder(t *testing.T) {
	end := dates.New(2024, time.December, 31)
	c := contract.Contract{
		Type:          contract.TypeFixedTerm,
		StartDate:     dates.New(2024, time.January, 1),
		EndDate:       &end,
		MonthlySalary: money.New(1_500_000),
		Status:        contract.StatusActive,
	}

	// Terminated Oct 1 with 91 days left on the term.
	days, amount := Indemnizacion(c, dates.New(2024, time.October, 1), contract.MotiveDismissalWithoutJustCause)
	assert.Equal(t, 91, days)
	assertMoney(t, 4_550_000, amount)
}

func TestIndemnizacionNotOwed(t *testing.T) {
	c := contract.Contract{
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2022, time.January, 1),
		MonthlySalary: money.New(1_500_000),
		Status:        contract.StatusActive,
	}

	for _, motive := range []contract.TerminationMotive{
		contract.MotiveResignation,
		contract.MotiveDismissalWithJustCause,
		contract.MotiveMutualAgreement,
		contract.MotiveExpiration,
	} {
		days, amount := Indemnizacion(c, dates.New(2024, time.July, 1), motive)
		assert.Equal(t, 0, days, "motive %s", motive)
		assert.True(t, amount.IsZero(), "motive %s", motive)
	}

	// Apprenticeships carry no indemnity even on unjust dismissal.
	c.Type = contract.TypeApprenticeship
	days, amount := Indemnizacion(c, dates.New(2024, time.July, 1), contract.MotiveDismissalWithoutJustCause)
	assert.Equal(t, 0, days)
	assert.True(t, amount.IsZero())
}

// =============================================================================
// FINAL SETTLEMENT
// =============================================================================

func TestLiquidateWithParamsRejectsTerminatedContract(t *testing.T) {
	c := contract.Contract{Status: contract.StatusTerminated}
	_, err := LiquidateWithParams(LiquidationInput{Contract: c}, params2024())
	assert.ErrorIs(t, err, ErrContractNotActive)
}

func TestLiquidateWithParams(t *testing.T) {
	params := params2024()

	// GIVEN a high-salary contract (no transport allowance) spanning
	// exactly the first semester of 2024
	c := contract.Contract{
		ID:            "ctr-1",
		EmployeeID:    "emp-1",
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2024, time.January, 1),
		MonthlySalary: money.New(3_000_000),
		Status:        contract.StatusActive,
	}
	termination := dates.New(2024, time.June, 30)

	// WHEN liquidated for a resignation
	s, err := LiquidateWithParams(LiquidationInput{
		Contract:        c,
		TerminationDate: termination,
		Motive:          contract.MotiveResignation,
	}, params)
	require.NoError(t, err)

	// THEN tenure is 181 calendar days and the semester spans all of them
	assert.Equal(t, 181, s.TenureDays)
	assert.Equal(t, 182, s.SemesterDays) // inclusive of both endpoints
	assert.True(t, s.BenefitBase.Equal(c.MonthlySalary))

	assertMoney(t, 1_508_333.33, s.Cesantias) // 3M x 181/360
	assertMoney(t, 91_002.78, s.InteresesCesantias) // 1,508,333.33 x 181 x 12% / 360
	assertMoney(t, 1_516_666.67, s.PrimaServicios) // 3M x 182/360
	assertMoney(t, 754_166.67, s.Vacaciones)       // 3M x 181/720
	assert.Equal(t, 0, s.IndemnityDays)
	assert.True(t, s.Indemnizacion.IsZero())

	expectedTotal := money.Sum(s.Cesantias, s.InteresesCesantias, s.PrimaServicios, s.Vacaciones)
	assert.True(t, s.Total.Equal(expectedTotal.Round2()))
}

func TestLiquidateBenefitBaseIncludesTransportAllowance(t *testing.T) {
	params := params2024()

	// GIVEN a salary below twice the minimum wage
	c := contract.Contract{
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2024, time.January, 1),
		MonthlySalary: params.MonthlyMinimumWage,
		Status:        contract.StatusActive,
	}

	s, err := LiquidateWithParams(LiquidationInput{
		Contract:        c,
		TerminationDate: dates.New(2024, time.June, 30),
		Motive:          contract.MotiveResignation,
	}, params)
	require.NoError(t, err)

	// THEN the benefit base carries the transport allowance, while the
	// vacation base does not
	expectedBase := params.MonthlyMinimumWage.Add(params.TransportAllowance)
	assert.True(t, s.BenefitBase.Equal(expectedBase))

	expectedVacaciones := c.MonthlySalary.MulInt(181).DivInt(720).Round2()
	assert.True(t, s.Vacaciones.Equal(expectedVacaciones))
}

func TestLiquidateDeductsPendingObligations(t *testing.T) {
	params := params2024()
	c := contract.Contract{
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2024, time.January, 1),
		MonthlySalary: money.New(3_000_000),
		Status:        contract.StatusActive,
	}

	with, err := LiquidateWithParams(LiquidationInput{
		Contract:        c,
		TerminationDate: dates.New(2024, time.June, 30),
		Motive:          contract.MotiveResignation,
		Deductions:      money.New(200_000),
	}, params)
	require.NoError(t, err)

	without, err := LiquidateWithParams(LiquidationInput{
		Contract:        c,
		TerminationDate: dates.New(2024, time.June, 30),
		Motive:          contract.MotiveResignation,
	}, params)
	require.NoError(t, err)

	assert.True(t, with.Total.Equal(without.Total.Sub(money.New(200_000))))
}
