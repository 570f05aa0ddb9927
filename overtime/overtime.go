/*
Package overtime classifies worked hours into the legal surcharge buckets and
prices them.

PURPOSE:
  Colombian law prices an hour of work by calendar context (weekday, Sunday,
  holiday) and clock window (day 06:00-21:00, night 21:00-06:00). Six
  buckets result:

    ordinary day            1.00x  (already covered by base salary)
    ordinary night          0.35x  (premium only; the base hour is in salary)
    extra day               1.25x
    extra night             1.75x
    Sunday/holiday ordinary 1.75x
    Sunday/holiday extra    2.00x  (75% Sunday surcharge + 25% extra)

  Rates come exclusively from the active legal parameter set; the multipliers
  above are the statutory defaults, never hard-coded here.

LEGAL CAPS:
  Extra hours beyond 2/day or 12/week breach the legal cap. That is a
  warning attached to the valuation, not a failure: the caller decides
  whether to block or just flag.
*/
package overtime

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
)

// Bucket identifies one of the six legal hour classes.
type Bucket string

const (
	BucketOrdinaryDay           Bucket = "ordinary_day"
	BucketOrdinaryNight         Bucket = "ordinary_night"
	BucketExtraDay              Bucket = "extra_day"
	BucketExtraNight            Bucket = "extra_night"
	BucketSundayHolidayOrdinary Bucket = "sunday_holiday_ordinary"
	BucketSundayHolidayExtra    Bucket = "sunday_holiday_extra"
)

// Buckets lists all buckets in presentation order.
var Buckets = []Bucket{
	BucketOrdinaryDay,
	BucketOrdinaryNight,
	BucketExtraDay,
	BucketExtraNight,
	BucketSundayHolidayOrdinary,
	BucketSundayHolidayExtra,
}

// HoursRecord is one day of worked hours already broken down by bucket.
type HoursRecord struct {
	EmployeeID string     `json:"employeeId"`
	Date       dates.Date `json:"date"`

	OrdinaryDay        decimal.Decimal `json:"ordinaryDay"`
	OrdinaryNight      decimal.Decimal `json:"ordinaryNight"`
	ExtraDay           decimal.Decimal `json:"extraDay"`
	ExtraNight         decimal.Decimal `json:"extraNight"`
	SundayHoliday      decimal.Decimal `json:"sundayHoliday"`
	SundayHolidayExtra decimal.Decimal `json:"sundayHolidayExtra"`
}

// Hours returns the hours recorded for a bucket.
func (r HoursRecord) Hours(b Bucket) decimal.Decimal {
	switch b {
	case BucketOrdinaryDay:
		return r.OrdinaryDay
	case BucketOrdinaryNight:
		return r.OrdinaryNight
	case BucketExtraDay:
		return r.ExtraDay
	case BucketExtraNight:
		return r.ExtraNight
	case BucketSundayHolidayOrdinary:
		return r.SundayHoliday
	case BucketSundayHolidayExtra:
		return r.SundayHolidayExtra
	default:
		return decimal.Zero
	}
}

// ExtraHours returns the hours that count against the legal overtime caps.
func (r HoursRecord) ExtraHours() decimal.Decimal {
	return r.ExtraDay.Add(r.ExtraNight).Add(r.SundayHolidayExtra)
}

// TotalHours sums every bucket.
func (r HoursRecord) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, b := range Buckets {
		total = total.Add(r.Hours(b))
	}
	return total
}

// =============================================================================
// VALUATION
// =============================================================================

// BucketValue is the priced outcome for one bucket across a period.
type BucketValue struct {
	Bucket Bucket          `json:"bucket"`
	Hours  decimal.Decimal `json:"hours"`
	Value  money.Money     `json:"value"`
}

// Valuation is the monetary result for a set of hour records.
type Valuation struct {
	Buckets []BucketValue `json:"buckets"`

	// SurchargeTotal excludes ordinary-day hours, which base salary already
	// remunerates. This is the amount payroll adds on top of salary.
	SurchargeTotal money.Money `json:"surchargeTotal"`

	// Total prices every bucket, ordinary-day included.
	Total money.Money `json:"total"`

	Warnings []Warning `json:"warnings,omitempty"`
}

// Value returns the priced amount for one bucket.
func (v Valuation) Value(b Bucket) money.Money {
	for _, bv := range v.Buckets {
		if bv.Bucket == b {
			return bv.Value
		}
	}
	return money.Zero
}

// multiplier returns the pay factor for a bucket from the legal parameters.
// Ordinary night pays only the premium because the base hour is already in
// the monthly salary; the extra buckets pay the full hour plus surcharge.
func multiplier(b Bucket, params legal.ParameterSet) decimal.Decimal {
	one := decimal.NewFromInt(1)
	switch b {
	case BucketOrdinaryDay:
		return one
	case BucketOrdinaryNight:
		return params.NightSurchargePct.Fraction()
	case BucketExtraDay:
		return params.ExtraDaySurchargePct.Surcharge()
	case BucketExtraNight:
		return params.ExtraNightSurchargePct.Surcharge()
	case BucketSundayHolidayOrdinary:
		return params.SundayHolidaySurchargePct.Surcharge()
	case BucketSundayHolidayExtra:
		return params.SundayHolidaySurchargePct.Surcharge().Add(params.ExtraDaySurchargePct.Fraction())
	default:
		return decimal.Zero
	}
}

// Valuate prices a period's hour records at the given hourly wage and flags
// legal cap breaches. Warnings never fail the valuation.
func Valuate(records []HoursRecord, hourlyWage money.Money, params legal.ParameterSet) Valuation {
	hours := make(map[Bucket]decimal.Decimal, len(Buckets))
	for _, r := range records {
		for _, b := range Buckets {
			hours[b] = hours[b].Add(r.Hours(b))
		}
	}

	v := Valuation{}
	for _, b := range Buckets {
		value := hourlyWage.Mul(hours[b]).Mul(multiplier(b, params)).Round2()
		v.Buckets = append(v.Buckets, BucketValue{Bucket: b, Hours: hours[b], Value: value})
		v.Total = v.Total.Add(value)
		if b != BucketOrdinaryDay {
			v.SurchargeTotal = v.SurchargeTotal.Add(value)
		}
	}

	v.Warnings = capWarnings(records)
	return v
}

// =============================================================================
// LEGAL CAP WARNINGS
// =============================================================================

// MaxExtraHoursPerDay and MaxExtraHoursPerWeek are the statutory overtime
// caps (Law 6 of 1981 kept them at 2/day and 12/week).
const (
	MaxExtraHoursPerDay  = 2
	MaxExtraHoursPerWeek = 12
)

// Warning flags a non-fatal rule breach attached to a valuation.
type Warning struct {
	Code       string     `json:"code"`
	EmployeeID string     `json:"employeeId"`
	Date       dates.Date `json:"date"`
	Message    string     `json:"message"`
}

// WarningLegalLimitExceeded marks extra hours beyond the daily or weekly cap.
const WarningLegalLimitExceeded = "legal_limit_exceeded"

func capWarnings(records []HoursRecord) []Warning {
	var warnings []Warning

	dailyCap := decimal.NewFromInt(MaxExtraHoursPerDay)
	weeklyCap := decimal.NewFromInt(MaxExtraHoursPerWeek)

	type weekKey struct {
		employee string
		year     int
		week     int
	}
	weekly := map[weekKey]decimal.Decimal{}
	weekStart := map[weekKey]dates.Date{}

	for _, r := range records {
		extra := r.ExtraHours()
		if extra.GreaterThan(dailyCap) {
			warnings = append(warnings, Warning{
				Code:       WarningLegalLimitExceeded,
				EmployeeID: r.EmployeeID,
				Date:       r.Date,
				Message: fmt.Sprintf("%s extra hours on %s exceed the daily cap of %d",
					extra, r.Date, MaxExtraHoursPerDay),
			})
		}

		year, week := r.Date.Time().ISOWeek()
		k := weekKey{employee: r.EmployeeID, year: year, week: week}
		weekly[k] = weekly[k].Add(extra)
		if weekStart[k].IsZero() || r.Date.Before(weekStart[k]) {
			weekStart[k] = r.Date
		}
	}

	// Map order is random; emit weekly warnings in a fixed order so two
	// computations of the same input produce identical records.
	keys := make([]weekKey, 0, len(weekly))
	for k := range weekly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.employee != b.employee {
			return a.employee < b.employee
		}
		if a.year != b.year {
			return a.year < b.year
		}
		return a.week < b.week
	})

	for _, k := range keys {
		if total := weekly[k]; total.GreaterThan(weeklyCap) {
			warnings = append(warnings, Warning{
				Code:       WarningLegalLimitExceeded,
				EmployeeID: k.employee,
				Date:       weekStart[k],
				Message: fmt.Sprintf("%s extra hours in ISO week %d-%d exceed the weekly cap of %d",
					total, k.year, k.week, MaxExtraHoursPerWeek),
			})
		}
	}

	return warnings
}
