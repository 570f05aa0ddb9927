/*
Package vacation accounts for vacation days: entitlement earned per accrual
year, days available versus taken, business-day spans and overlap conflicts.

PURPOSE:
  Colombian law grants 15 business days of paid vacation per year of
  service (Labor Code art. 186). The engine answers three questions the
  surrounding workflow needs:

    - how many days has an employee earned for an accrual year so far
    - how many are still available given what is taken or scheduled
    - does a requested range collide with an existing one

  All functions are pure over caller-supplied records; business-day math
  delegates to the holiday calendar.
*/
package vacation

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silvagro/nomina-engine/calendar"
	"github.com/silvagro/nomina-engine/dates"
)

// DefaultAnnualEntitlement is the statutory vacation grant in business days.
const DefaultAnnualEntitlement = 15

// ErrNotFound is returned for an unknown vacation record.
var ErrNotFound = errors.New("vacation record not found")

// Status is the approval state of a vacation record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Record is one vacation request/leave span.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	StartDate  dates.Date `json:"startDate"`
	EndDate    dates.Date `json:"endDate"`

	// DaysTaken are the business days the span consumes.
	DaysTaken int `json:"daysTaken"`

	// AccrualYear is the entitlement year the days charge against.
	AccrualYear int `json:"accrualYear"`

	// AvailableSnapshot records the balance seen when the request was made.
	AvailableSnapshot int `json:"availableSnapshot"`

	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// CountsAgainstBalance reports whether the record consumes or reserves days.
func (r Record) CountsAgainstBalance() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// Period returns the record's inclusive date range.
func (r Record) Period() dates.Period {
	return dates.Period{Start: r.StartDate, End: r.EndDate}
}

// Store is the persistence contract collaborators implement.
type Store interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
}

// Engine answers vacation accounting questions.
type Engine struct {
	cal *calendar.Service

	// AnnualEntitlement overrides the statutory default when positive.
	AnnualEntitlement int
}

// NewEngine builds an engine with the statutory entitlement.
func NewEngine(cal *calendar.Service) *Engine {
	return &Engine{cal: cal, AnnualEntitlement: DefaultAnnualEntitlement}
}

func (e *Engine) entitlement() int {
	if e.AnnualEntitlement > 0 {
		return e.AnnualEntitlement
	}
	return DefaultAnnualEntitlement
}

// AvailableDays returns the entitlement minus days already taken or
// scheduled against the accrual year.
func (e *Engine) AvailableDays(records []Record, accrualYear int) int {
	taken := 0
	for _, r := range records {
		if r.AccrualYear == accrualYear && r.CountsAgainstBalance() {
			taken += r.DaysTaken
		}
	}
	available := e.entitlement() - taken
	if available < 0 {
		available = 0
	}
	return available
}

// HasOverlap reports whether [start, end] intersects any counting record,
// optionally excluding one record id (for updates to an existing request).
func (e *Engine) HasOverlap(records []Record, start, end dates.Date, excludeID string) (bool, error) {
	requested, err := dates.NewPeriod(start, end)
	if err != nil {
		return false, err
	}

	for _, r := range records {
		if r.ID == excludeID || !r.CountsAgainstBalance() {
			continue
		}
		if requested.Overlaps(r.Period()) {
			return true, nil
		}
	}
	return false, nil
}

// BusinessDays counts the business days a span consumes (weekends and
// holidays excluded), delegating to the holiday calendar.
func (e *Engine) BusinessDays(start, end dates.Date) (int, error) {
	return e.cal.BusinessDaysBetween(start, end)
}

// EarnedDays returns the vacation days accrued for a year of service as of
// a date: 1.25 days per month worked (15/12), day-proportional within
// months, floored, capped at the annual entitlement.
func (e *Engine) EarnedDays(hireDate dates.Date, accrualYear int, asOf dates.Date) int {
	months := monthsWorkedInYear(hireDate, accrualYear, asOf)
	perMonth := decimal.NewFromInt(int64(e.entitlement())).Div(decimal.NewFromInt(12))
	earned := int(months.Mul(perMonth).IntPart())
	if cap := e.entitlement(); earned > cap {
		return cap
	}
	return earned
}

// monthsWorkedInYear measures worked months inside one calendar year with
// day-level proportionality at both ends.
func monthsWorkedInYear(hireDate dates.Date, year int, asOf dates.Date) decimal.Decimal {
	start := dates.New(year, time.January, 1)
	end := dates.New(year, time.December, 31)

	if hireDate.After(start) {
		start = hireDate
	}
	if asOf.Before(end) {
		end = asOf
	}
	if start.After(end) {
		return decimal.Zero
	}

	daysInStartMonth := daysInMonth(start.Year(), start.Month())
	if start.Year() == end.Year() && start.Month() == end.Month() {
		worked := end.Day() - start.Day() + 1
		return decimal.NewFromInt(int64(worked)).Div(decimal.NewFromInt(int64(daysInStartMonth)))
	}

	wholeMonths := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())

	startFraction := decimal.NewFromInt(int64(daysInStartMonth - start.Day() + 1)).
		Div(decimal.NewFromInt(int64(daysInStartMonth)))

	daysInEndMonth := daysInMonth(end.Year(), end.Month())
	endFraction := decimal.NewFromInt(int64(end.Day())).
		Div(decimal.NewFromInt(int64(daysInEndMonth)))

	inner := wholeMonths - 1
	if inner < 0 {
		inner = 0
	}
	return decimal.NewFromInt(int64(inner)).Add(startFraction).Add(endFraction)
}

func daysInMonth(year int, month time.Month) int {
	return dates.New(year, month, 1).AddMonths(1).AddDays(-1).Day()
}
