/*
Package calendar computes and validates the Colombian holiday calendar.

PURPOSE:
  Day-count rules all over the engine (business days for vacations, holiday
  surcharges in overtime, prima semesters) depend on knowing exactly which
  days are holidays. Colombia's calendar mixes three kinds:

    1. Fixed civil/national dates (New Year, Labor Day, Independence, ...)
    2. Fixed-origin religious dates shifted to Monday by Law 51 of 1983
       ("Ley Emiliani"): Epiphany, St. Joseph, St. Peter & Paul, Assumption,
       Columbus Day, All Saints, Independence of Cartagena
    3. Easter-relative dates from the Gregorian computus: Maundy Thursday and
       Good Friday (never shifted), Ascension, Corpus Christi and Sacred
       Heart (shifted)

EMILIANI RULE:
  A shiftable holiday not already falling on Monday is observed the next
  Monday; the original date is retained on the entry. Christmas and Good
  Friday are exempt and never move. When two shifts land on the same Monday
  (2025, 2030) the calendar carries one merged entry for that date.

CACHING:
  Calendars are deterministic per year, so computed years are cached behind
  a RWMutex and shared by concurrent callers.
*/
package calendar

import (
	"sort"
	"sync"
	"time"

	"github.com/silvagro/nomina-engine/dates"
)

// Category classifies a holiday.
type Category string

const (
	CategoryReligious Category = "religious"
	CategoryCivil     Category = "civil"
	CategoryNational  Category = "national"
)

// Holiday is one observed holiday entry for a year.
type Holiday struct {
	Date     dates.Date `json:"date"` // observed date (post-shift)
	Name     string     `json:"name"`
	Category Category   `json:"category"`
	Year     int        `json:"year"`

	// FixedDate marks holidays whose origin date never depends on Easter.
	FixedDate bool `json:"fixedDate"`

	// ShiftedByEmilianiRule is true when the observed date was moved to the
	// following Monday. OriginalDate then holds the pre-shift date.
	ShiftedByEmilianiRule bool        `json:"shiftedByEmilianiRule"`
	OriginalDate          *dates.Date `json:"originalDate,omitempty"`
}

// Service computes holiday calendars. Safe for concurrent use.
type Service struct {
	mu    sync.RWMutex
	cache map[int][]Holiday
}

// NewService builds an empty calendar service.
func NewService() *Service {
	return &Service{cache: make(map[int][]Holiday)}
}

// ForYear returns the full observed holiday list for a year, sorted by date.
func (s *Service) ForYear(year int) []Holiday {
	s.mu.RLock()
	cached, ok := s.cache[year]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	computed := computeYear(year)

	s.mu.Lock()
	s.cache[year] = computed
	s.mu.Unlock()
	return computed
}

// IsHoliday reports whether the date is an observed holiday.
func (s *Service) IsHoliday(d dates.Date) bool {
	for _, h := range s.ForYear(d.Year()) {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// CountHolidaysInRange counts observed holidays inside [start, end].
func (s *Service) CountHolidaysInRange(start, end dates.Date) (int, error) {
	period, err := dates.NewPeriod(start, end)
	if err != nil {
		return 0, err
	}

	count := 0
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range s.ForYear(year) {
			if period.Contains(h.Date) {
				count++
			}
		}
	}
	return count, nil
}

// IsBusinessDay reports whether the date is neither a weekend nor a holiday.
func (s *Service) IsBusinessDay(d dates.Date) bool {
	return !d.IsWeekend() && !s.IsHoliday(d)
}

// BusinessDaysBetween counts business days inside [start, end], excluding
// Saturdays, Sundays and observed holidays.
func (s *Service) BusinessDaysBetween(start, end dates.Date) (int, error) {
	period, err := dates.NewPeriod(start, end)
	if err != nil {
		return 0, err
	}

	count := 0
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if s.IsBusinessDay(d) {
			count++
		}
	}
	return count, nil
}

// =============================================================================
// CALENDAR CONSTRUCTION
// =============================================================================

func computeYear(year int) []Holiday {
	var hs []Holiday

	// Fixed dates, never shifted.
	hs = append(hs,
		fixed(year, time.January, 1, "Año Nuevo", CategoryCivil),
		fixed(year, time.May, 1, "Día del Trabajo", CategoryCivil),
		fixed(year, time.July, 20, "Día de la Independencia", CategoryNational),
		fixed(year, time.August, 7, "Batalla de Boyacá", CategoryNational),
		fixed(year, time.December, 8, "Inmaculada Concepción", CategoryReligious),
		fixed(year, time.December, 25, "Navidad", CategoryReligious),
	)

	// Fixed-origin religious/national dates shifted to Monday.
	hs = append(hs,
		shifted(dates.New(year, time.January, 6), "Reyes Magos", CategoryReligious, true),
		shifted(dates.New(year, time.March, 19), "San José", CategoryReligious, true),
		shifted(dates.New(year, time.June, 29), "San Pedro y San Pablo", CategoryReligious, true),
		shifted(dates.New(year, time.August, 15), "Asunción de la Virgen", CategoryReligious, true),
		shifted(dates.New(year, time.October, 12), "Día de la Raza", CategoryNational, true),
		shifted(dates.New(year, time.November, 1), "Todos los Santos", CategoryReligious, true),
		shifted(dates.New(year, time.November, 11), "Independencia de Cartagena", CategoryNational, true),
	)

	// Easter-relative dates. Maundy Thursday and Good Friday never shift.
	easter := EasterSunday(year)
	hs = append(hs,
		Holiday{Date: easter.AddDays(-3), Name: "Jueves Santo", Category: CategoryReligious, Year: year},
		Holiday{Date: easter.AddDays(-2), Name: "Viernes Santo", Category: CategoryReligious, Year: year},
		shifted(easter.AddDays(39), "Ascensión del Señor", CategoryReligious, false),
		shifted(easter.AddDays(60), "Corpus Christi", CategoryReligious, false),
		shifted(easter.AddDays(68), "Sagrado Corazón", CategoryReligious, false),
	)

	sortByDate(hs)
	return mergeCoincident(hs)
}

// mergeCoincident collapses holidays observed on the same date into a single
// entry. Law 51 can land two shiftable holidays on one Monday: in 2025 both
// Sagrado Corazón (Fri Jun 27) and San Pedro y San Pablo (Sun Jun 29) observe
// Monday Jun 30. The observed calendar has one holiday that day; the merged
// entry keeps both names and the earliest origin.
func mergeCoincident(hs []Holiday) []Holiday {
	out := make([]Holiday, 0, len(hs))
	for _, h := range hs {
		n := len(out)
		if n == 0 || !out[n-1].Date.Equal(h.Date) {
			out = append(out, h)
			continue
		}

		prev := &out[n-1]
		prev.Name += " / " + h.Name
		prev.FixedDate = prev.FixedDate && h.FixedDate
		if h.ShiftedByEmilianiRule {
			prev.ShiftedByEmilianiRule = true
			if prev.OriginalDate == nil || h.OriginalDate.Before(*prev.OriginalDate) {
				prev.OriginalDate = h.OriginalDate
			}
		}
	}
	return out
}

func fixed(year int, month time.Month, day int, name string, cat Category) Holiday {
	return Holiday{
		Date:      dates.New(year, month, day),
		Name:      name,
		Category:  cat,
		Year:      year,
		FixedDate: true,
	}
}

// shifted applies the Emiliani rule to an origin date.
func shifted(origin dates.Date, name string, cat Category, fixedDate bool) Holiday {
	observed := NextMonday(origin)
	h := Holiday{
		Date:      observed,
		Name:      name,
		Category:  cat,
		Year:      origin.Year(),
		FixedDate: fixedDate,
	}
	if !observed.Equal(origin) {
		o := origin
		h.ShiftedByEmilianiRule = true
		h.OriginalDate = &o
	}
	return h
}

// NextMonday returns the date unchanged if it already falls on Monday,
// otherwise the following Monday.
func NextMonday(d dates.Date) dates.Date {
	if d.Weekday() == time.Monday {
		return d
	}
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return d.AddDays(offset)
}

// EasterSunday computes Easter for a year with the anonymous Gregorian
// computus.
func EasterSunday(year int) dates.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return dates.New(year, time.Month(month), day)
}

// sortByDate orders by observed date, then name, so coincident entries merge
// in a stable order.
func sortByDate(hs []Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		if !hs[i].Date.Equal(hs[j].Date) {
			return hs[i].Date.Before(hs[j].Date)
		}
		return hs[i].Name < hs[j].Name
	})
}
