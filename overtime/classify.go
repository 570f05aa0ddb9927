/*
classify.go - Bucket classification of raw worked shifts

PURPOSE:
  Turns a raw clock shift ("worked 14:00-23:00 on July 20") into an
  HoursRecord with hours in the right legal buckets. Classification needs
  two inputs the shift itself does not carry:

    calendar context: Sunday or holiday (HolidayCalendar) vs. weekday
    clock window:     day 06:00-21:00 vs. night, configurable

  The first N ordinary hours of the day (N = daily hours from the legal
  parameters, default 8) are ordinary; everything beyond is extra.
*/
package overtime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
)

// HolidayCalendar is the calendar dependency; *calendar.Service satisfies it.
type HolidayCalendar interface {
	IsHoliday(d dates.Date) bool
}

// Shift is a worked clock span on a single day, in whole hours on the 0-24
// clock. A span may not cross midnight; record the next day separately.
type Shift struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Classifier buckets shifts. The zero value is not usable; use NewClassifier.
type Classifier struct {
	cal HolidayCalendar

	// Day window boundaries on the 0-24 clock. Hours in [DayStart, DayEnd)
	// are day hours; the rest are night.
	DayStart int
	DayEnd   int
}

// Statutory day window (Labor Code art. 160 as amended by Law 2101).
const (
	DefaultDayStart = 6
	DefaultDayEnd   = 21
)

// NewClassifier builds a classifier with the default day window.
func NewClassifier(cal HolidayCalendar) *Classifier {
	return &Classifier{cal: cal, DayStart: DefaultDayStart, DayEnd: DefaultDayEnd}
}

// Classify buckets the worked shifts of one employee-day. Hours worked past
// the ordinary daily limit count as extra.
func (c *Classifier) Classify(employeeID string, day dates.Date, shifts []Shift, params legal.ParameterSet) (HoursRecord, error) {
	rec := HoursRecord{EmployeeID: employeeID, Date: day}

	sundayOrHoliday := day.Weekday() == time.Sunday || c.cal.IsHoliday(day)
	ordinaryLimit := params.DailyHours
	if ordinaryLimit <= 0 {
		ordinaryLimit = 8
	}

	one := decimal.NewFromInt(1)
	worked := 0

	for _, s := range shifts {
		if s.Start < 0 || s.End > 24 || s.End <= s.Start {
			return HoursRecord{}, fmt.Errorf("invalid shift %d:00-%d:00 on %s", s.Start, s.End, day)
		}

		for hour := s.Start; hour < s.End; hour++ {
			night := hour < c.DayStart || hour >= c.DayEnd
			extra := worked >= ordinaryLimit

			switch {
			case sundayOrHoliday && extra:
				rec.SundayHolidayExtra = rec.SundayHolidayExtra.Add(one)
			case sundayOrHoliday:
				rec.SundayHoliday = rec.SundayHoliday.Add(one)
			case extra && night:
				rec.ExtraNight = rec.ExtraNight.Add(one)
			case extra:
				rec.ExtraDay = rec.ExtraDay.Add(one)
			case night:
				rec.OrdinaryNight = rec.OrdinaryNight.Add(one)
			default:
				rec.OrdinaryDay = rec.OrdinaryDay.Add(one)
			}
			worked++
		}
	}

	return rec, nil
}
