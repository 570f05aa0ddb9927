/*
calc.go - Monthly payroll assembly

PURPOSE:
  Assembles a full payroll record for one employee and one month: itemized
  earnings, employee deductions, employer contributions and totals.

RULES (all rates come from the active legal parameter set):
  - Base salary prorates over a statutory 30-day month when the contract
    covers only part of the period.
  - Transport allowance applies only below the two-SMLMV salary threshold.
  - Health 4% and pension 4% deduct from BASE SALARY, not gross.
  - Employer contributions are computed on base salary as well; the
    transport allowance is excluded from the contribution base.
  - Net = gross - deductions; employer cost = net + contributions.

DETERMINISM:
  Compute is a pure function of its inputs plus the resolved parameter set;
  recomputing with identical inputs yields identical totals.
*/
package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
)

// statutoryMonthDays is the 30-day month every monthly formula uses.
const statutoryMonthDays = 30

// Input carries everything Compute needs. Hour records must already be
// classified (see overtime.Classifier); pass-through amounts (commissions,
// withholding, loans...) arrive resolved by the caller.
type Input struct {
	Contract contract.Contract
	Year     int
	Month    time.Month

	HoursRecords []overtime.HoursRecord

	Commissions   money.Money
	Bonuses       money.Money
	OtherEarnings money.Money

	Withholding     money.Money
	Loans           money.Money
	Garnishments    money.Money
	OtherDeductions money.Money
}

// Calculator computes payroll records against the active legal parameters.
type Calculator struct {
	resolver *legal.Resolver
}

// NewCalculator builds a payroll calculator.
func NewCalculator(resolver *legal.Resolver) *Calculator {
	return &Calculator{resolver: resolver}
}

// Compute assembles the payroll record for one employee-month.
func (c *Calculator) Compute(ctx context.Context, in Input) (Record, error) {
	period := dates.MonthPeriod(in.Year, in.Month)

	params, err := c.resolver.Active(ctx, period.Start)
	if err != nil {
		if errors.Is(err, legal.ErrConfigurationNotFound) {
			return Record{}, fmt.Errorf("%w: %v", ErrMissingLegalConfiguration, err)
		}
		return Record{}, err
	}

	return ComputeWithParams(in, params)
}

// ComputeWithParams is the pure core of Compute for callers that already
// hold the parameter set.
func ComputeWithParams(in Input, params legal.ParameterSet) (Record, error) {
	period := dates.MonthPeriod(in.Year, in.Month)
	ct := in.Contract

	workedDays, err := workedDaysInPeriod(ct, period)
	if err != nil {
		return Record{}, err
	}

	salary := ct.MonthlySalary

	// Earnings
	base := prorated(salary, workedDays)
	allowance := money.Zero
	if params.QualifiesForTransportAllowance(salary) {
		allowance = prorated(params.TransportAllowance, workedDays)
	}

	valuation := overtime.Valuate(in.HoursRecords, legal.HourlyWage(salary), params)

	earnings := Earnings{
		BaseSalary:         base,
		TransportAllowance: allowance,
		NightSurcharge:     valuation.Value(overtime.BucketOrdinaryNight),
		ExtraDay:           valuation.Value(overtime.BucketExtraDay),
		ExtraNight:         valuation.Value(overtime.BucketExtraNight),
		SundayHoliday:      valuation.Value(overtime.BucketSundayHolidayOrdinary),
		SundayHolidayExtra: valuation.Value(overtime.BucketSundayHolidayExtra),
		Commissions:        in.Commissions,
		Bonuses:            in.Bonuses,
		Other:              in.OtherEarnings,
	}

	// Deductions and employer contributions run on the prorated base
	// salary, never on gross and never including the transport allowance.
	contributionBase := base

	deductions := Deductions{
		Health:       params.HealthEmployeePct.Of(contributionBase).Round2(),
		Pension:      params.PensionEmployeePct.Of(contributionBase).Round2(),
		Withholding:  in.Withholding,
		Loans:        in.Loans,
		Garnishments: in.Garnishments,
		Other:        in.OtherDeductions,
	}

	contributions := EmployerContributions{
		Health:        params.HealthEmployerPct.Of(contributionBase).Round2(),
		Pension:       params.PensionEmployerPct.Of(contributionBase).Round2(),
		ARL:           params.ARLRateForClass(ct.RiskClass).Of(contributionBase).Round2(),
		FamilyFund:    params.FamilyFundPct.Of(contributionBase).Round2(),
		ChildcareFund: params.ChildcareFundPct.Of(contributionBase).Round2(),
		TrainingFund:  params.TrainingFundPct.Of(contributionBase).Round2(),
	}

	gross := earnings.Total()
	totalDeductions := deductions.Total()
	net := gross.Sub(totalDeductions)

	return Record{
		EmployeeID:      ct.EmployeeID,
		Year:            in.Year,
		Month:           in.Month,
		Earnings:        earnings,
		Deductions:      deductions,
		Contributions:   contributions,
		Gross:           gross,
		TotalDeductions: totalDeductions,
		NetPay:          net,
		EmployerCost:    net.Add(contributions.Total()),
		WorkedDays:      workedDays,
		Status:          StatusCalculated,
		Warnings:        valuation.Warnings,
	}, nil
}

// workedDaysInPeriod intersects the contract's active span with the payroll
// month and maps it onto the statutory 30-day month.
func workedDaysInPeriod(ct contract.Contract, period dates.Period) (int, error) {
	if period.End.Before(ct.StartDate) {
		return 0, &InvalidPeriodError{Reason: fmt.Sprintf(
			"period %s predates contract start %s", period, ct.StartDate)}
	}
	if ct.TerminationDate != nil && period.Start.After(*ct.TerminationDate) {
		return 0, &InvalidPeriodError{Reason: fmt.Sprintf(
			"period %s postdates contract termination %s", period, *ct.TerminationDate)}
	}

	start := period.Start
	if ct.StartDate.After(start) {
		start = ct.StartDate
	}
	end := period.End
	if ct.TerminationDate != nil && ct.TerminationDate.Before(end) {
		end = *ct.TerminationDate
	}

	// Full month: the statutory 30 days regardless of calendar length.
	if start.Equal(period.Start) && end.Equal(period.End) {
		return statutoryMonthDays, nil
	}

	worked := dates.DaysBetween(start, end) + 1
	if worked > statutoryMonthDays {
		worked = statutoryMonthDays
	}
	return worked, nil
}

func prorated(monthly money.Money, workedDays int) money.Money {
	if workedDays >= statutoryMonthDays {
		return monthly
	}
	factor := decimal.NewFromInt(int64(workedDays)).Div(decimal.NewFromInt(statutoryMonthDays))
	return monthly.Mul(factor).Round2()
}
