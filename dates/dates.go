/*
Package dates provides the day-granularity date and period types shared by
every engine.

PURPOSE:
  Labor-law arithmetic works on calendar days: contract tenure, sick-leave
  spans, vacation ranges, payroll periods. Date strips the clock and zone
  out of time.Time so two dates compare by calendar day only, and Period
  models the inclusive [Start, End] ranges the legislation uses.

DESIGN PRINCIPLES:
  1. Day granularity: a Date is a year/month/day triple, always UTC.
  2. Inclusive ranges: Period bounds are both included, matching how the
     statutes count (a one-day leave has Start == End).
  3. No hidden now(): everything takes explicit dates, keeping the engines
     deterministic and trivially testable.
*/
package dates

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDateRange is returned when a range ends before it starts.
var ErrInvalidDateRange = errors.New("invalid date range: end before start")

// =============================================================================
// DATE - Calendar day, no clock, no zone
// =============================================================================

// Date is a calendar day. The zero value is the zero date.
type Date struct {
	t time.Time
}

// New builds a Date from its components.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// ParseISO parses a "2006-01-02" string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }
func (d Date) IsZero() bool              { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return FromTime(d.t.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return FromTime(d.t.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return FromTime(d.t.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time       { return d.t }

// IsWeekend reports Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// MarshalJSON encodes as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes from "2006-01-02".
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	parsed, err := ParseISO(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the signed number of days from a to b (exclusive of a,
// so DaysBetween(d, d.AddDays(1)) == 1). Contract tenure and severance
// formulas use this count.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}

// =============================================================================
// PERIOD - Inclusive [Start, End] range
// =============================================================================

// Period is an inclusive date range.
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// NewPeriod validates and builds an inclusive range.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// MonthPeriod returns the full calendar month containing the given year/month.
func MonthPeriod(year int, month time.Month) Period {
	start := New(year, month, 1)
	return Period{Start: start, End: start.AddMonths(1).AddDays(-1)}
}

// YearPeriod returns January 1 through December 31 of the year.
func YearPeriod(year int) Period {
	return Period{Start: New(year, time.January, 1), End: New(year, time.December, 31)}
}

// Contains reports whether the date falls inside the period.
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether two inclusive ranges intersect:
// startA <= endB && endA >= startB.
func (p Period) Overlaps(o Period) bool {
	return p.Start.BeforeOrEqual(o.End) && p.End.AfterOrEqual(o.Start)
}

// CalendarDays returns the inclusive day count (a single-day period is 1).
func (p Period) CalendarDays() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Days iterates every day in the period.
func (p Period) Days() []Date {
	var days []Date
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
