/*
calc.go - Cost-split classification and reimbursement valuation

The employer's 2-day share for general illness applies per individual
record: a prorogation gets its own 2 employer-paid days. The reimbursement
percentage switches from 66.67% to 50% when a single record exceeds 90 days.
*/
package sickleave

import (
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
)

// Statutory general-illness parameters.
const (
	employerPaidDaysCap    = 2
	reimbursementThreshold = 90 // days; above it the percentage drops
)

var (
	pctStandard = money.NewPercent(66.67)
	pctLongTerm = money.NewPercent(50)
	pctFull     = money.NewPercent(100)
)

// Distribution is the computed cost split for a record.
type Distribution struct {
	EmployerDays     int           `json:"employerDays"`
	InsurerDays      int           `json:"insurerDays"`
	ReimbursementPct money.Percent `json:"reimbursementPct"`
	Payer            Payer         `json:"payer"`
}

// ClassifyDistribution computes who pays which days of a record.
func ClassifyDistribution(leaveType Type, totalDays int) Distribution {
	switch leaveType {
	case TypeGeneralIllness:
		employer := totalDays
		if employer > employerPaidDaysCap {
			employer = employerPaidDaysCap
		}
		pct := pctStandard
		if totalDays > reimbursementThreshold {
			pct = pctLongTerm
		}
		return Distribution{
			EmployerDays:     employer,
			InsurerDays:      totalDays - employer,
			ReimbursementPct: pct,
			Payer:            PayerEPS,
		}

	default:
		// Work accident, occupational disease, maternity and paternity:
		// the insurer pays from day one at 100%.
		return Distribution{
			EmployerDays:     0,
			InsurerDays:      totalDays,
			ReimbursementPct: pctFull,
			Payer:            leaveType.InsurerPayer(),
		}
	}
}

// Classify applies the computed distribution to a record and returns it.
func Classify(r Record) Record {
	d := ClassifyDistribution(r.Type, r.TotalDays)
	r.EmployerDays = d.EmployerDays
	r.InsurerDays = d.InsurerDays
	r.ReimbursementPct = d.ReimbursementPct
	return r
}

// Reimbursement values the insurer-owed amount for a classified record:
// insurerDays x (monthlySalary/30) x pct.
func Reimbursement(r Record, monthlySalary money.Money) (dailyBase, amount money.Money) {
	dailyBase = legal.DailyWage(monthlySalary)
	amount = r.ReimbursementPct.Of(dailyBase.MulInt(int64(r.InsurerDays))).Round2()
	return dailyBase.Round2(), amount
}
