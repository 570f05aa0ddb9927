package overtime_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvagro/nomina-engine/calendar"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
)

func testParams() legal.ParameterSet {
	p := legal.Defaults(2024)
	p.MonthlyMinimumWage = money.New(1_300_000)
	p.TransportAllowance = money.New(162_000)
	return p
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestValuate_BucketRates(t *testing.T) {
	// Hourly wage of 5000 makes the statutory multipliers easy to read:
	// night premium 35% -> 1750/h, extra day 1.25x -> 6250/h,
	// extra night 1.75x -> 8750/h, Sunday 1.75x -> 8750/h,
	// Sunday extra 2.00x -> 10000/h.
	params := testParams()
	hourly := money.New(5000)
	monday := dates.New(2024, time.July, 1)

	records := []overtime.HoursRecord{{
		EmployeeID:         "emp-1",
		Date:               monday,
		OrdinaryDay:        dec(8),
		OrdinaryNight:      dec(2),
		ExtraDay:           dec(1),
		ExtraNight:         dec(1),
		SundayHoliday:      dec(4),
		SundayHolidayExtra: dec(2),
	}}

	v := overtime.Valuate(records, hourly, params)

	assert.Equal(t, "40000", v.Value(overtime.BucketOrdinaryDay).String())
	assert.Equal(t, "3500", v.Value(overtime.BucketOrdinaryNight).String(), "night pays the premium only")
	assert.Equal(t, "6250", v.Value(overtime.BucketExtraDay).String())
	assert.Equal(t, "8750", v.Value(overtime.BucketExtraNight).String())
	assert.Equal(t, "35000", v.Value(overtime.BucketSundayHolidayOrdinary).String())
	assert.Equal(t, "20000", v.Value(overtime.BucketSundayHolidayExtra).String())

	assert.Equal(t, "73500", v.SurchargeTotal.String())
	assert.Equal(t, "113500", v.Total.String())
}

func TestValuate_DailyCapWarning(t *testing.T) {
	// GIVEN 3 extra hours on one day (cap is 2)
	// THEN the valuation completes but carries a warning.
	params := testParams()

	records := []overtime.HoursRecord{{
		EmployeeID:  "emp-1",
		Date:        dates.New(2024, time.July, 2),
		OrdinaryDay: dec(8),
		ExtraDay:    dec(3),
	}}

	v := overtime.Valuate(records, money.New(5000), params)

	require.Len(t, v.Warnings, 1)
	assert.Equal(t, overtime.WarningLegalLimitExceeded, v.Warnings[0].Code)
	assert.Equal(t, "emp-1", v.Warnings[0].EmployeeID)
	assert.False(t, v.Value(overtime.BucketExtraDay).IsZero(), "computation still completes")
}

func TestValuate_WeeklyCapWarning(t *testing.T) {
	// Two extra hours a day stays under the daily cap, but seven such days
	// in one ISO week total 14 and breach the weekly cap of 12.
	params := testParams()

	var records []overtime.HoursRecord
	start := dates.New(2024, time.July, 1) // Monday
	for i := 0; i < 7; i++ {
		records = append(records, overtime.HoursRecord{
			EmployeeID:  "emp-1",
			Date:        start.AddDays(i),
			OrdinaryDay: dec(8),
			ExtraDay:    dec(2),
		})
	}

	v := overtime.Valuate(records, money.New(5000), params)

	require.Len(t, v.Warnings, 1)
	assert.Equal(t, overtime.WarningLegalLimitExceeded, v.Warnings[0].Code)
	assert.Contains(t, v.Warnings[0].Message, "weekly")
}

func TestValuate_WeeklyWarningsInStableOrder(t *testing.T) {
	// Several breached weeks across two employees must warn in the same
	// order on every valuation of the same input.
	params := testParams()

	var records []overtime.HoursRecord
	for week := 0; week < 3; week++ {
		start := dates.New(2024, time.July, 1).AddDays(7 * week) // Mondays
		for i := 0; i < 7; i++ {
			for _, emp := range []string{"emp-b", "emp-a"} {
				records = append(records, overtime.HoursRecord{
					EmployeeID:  emp,
					Date:        start.AddDays(i),
					OrdinaryDay: dec(8),
					ExtraDay:    dec(2),
				})
			}
		}
	}

	first := overtime.Valuate(records, money.New(5000), params)
	require.Len(t, first.Warnings, 6)

	// emp-a's weeks come before emp-b's, each in week order.
	for i := 0; i < 3; i++ {
		assert.Equal(t, "emp-a", first.Warnings[i].EmployeeID)
		assert.Equal(t, "emp-b", first.Warnings[i+3].EmployeeID)
	}

	for run := 0; run < 5; run++ {
		again := overtime.Valuate(records, money.New(5000), params)
		assert.Equal(t, first.Warnings, again.Warnings, "run %d", run)
	}
}

func TestValuate_NoWarningsAtTheCap(t *testing.T) {
	params := testParams()

	records := []overtime.HoursRecord{{
		EmployeeID:  "emp-1",
		Date:        dates.New(2024, time.July, 2),
		OrdinaryDay: dec(8),
		ExtraDay:    dec(2),
	}}

	v := overtime.Valuate(records, money.New(5000), params)
	assert.Empty(t, v.Warnings, "exactly at the cap is legal")
}

func TestClassify_WeekdayWithNightAndExtra(t *testing.T) {
	// Shift 13:00-24:00 on a Tuesday: 8 ordinary hours 13:00-21:00, of which
	// none are night; then 3 extra hours 21:00-24:00, all night.
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	rec, err := c.Classify("emp-1", dates.New(2024, time.July, 2), []overtime.Shift{{Start: 13, End: 24}}, params)
	require.NoError(t, err)

	assert.True(t, rec.OrdinaryDay.Equal(dec(8)), "ordinary day, got %s", rec.OrdinaryDay)
	assert.True(t, rec.ExtraNight.Equal(dec(3)), "extra night, got %s", rec.ExtraNight)
	assert.True(t, rec.ExtraDay.IsZero())
	assert.True(t, rec.OrdinaryNight.IsZero())
}

func TestClassify_EarlyMorningIsNight(t *testing.T) {
	// 04:00-10:00 on a weekday: 2 night hours before 06:00, 4 day hours.
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	rec, err := c.Classify("emp-1", dates.New(2024, time.July, 3), []overtime.Shift{{Start: 4, End: 10}}, params)
	require.NoError(t, err)

	assert.True(t, rec.OrdinaryNight.Equal(dec(2)))
	assert.True(t, rec.OrdinaryDay.Equal(dec(4)))
}

func TestClassify_HolidayBucketsEverything(t *testing.T) {
	// July 20 2024 (Independence Day, a Saturday... and a holiday): 10 hours
	// worked land in Sunday/holiday buckets, the last 2 as holiday extra.
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	rec, err := c.Classify("emp-1", dates.New(2024, time.July, 20), []overtime.Shift{{Start: 7, End: 17}}, params)
	require.NoError(t, err)

	assert.True(t, rec.SundayHoliday.Equal(dec(8)))
	assert.True(t, rec.SundayHolidayExtra.Equal(dec(2)))
	assert.True(t, rec.OrdinaryDay.IsZero())
}

func TestClassify_SundayWithoutHoliday(t *testing.T) {
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	rec, err := c.Classify("emp-1", dates.New(2024, time.July, 7), []overtime.Shift{{Start: 8, End: 12}}, params)
	require.NoError(t, err)

	assert.True(t, rec.SundayHoliday.Equal(dec(4)))
}

func TestClassify_RejectsInvalidShift(t *testing.T) {
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	_, err := c.Classify("emp-1", dates.New(2024, time.July, 2), []overtime.Shift{{Start: 10, End: 9}}, params)
	assert.Error(t, err)

	_, err = c.Classify("emp-1", dates.New(2024, time.July, 2), []overtime.Shift{{Start: 20, End: 25}}, params)
	assert.Error(t, err)
}

func TestClassify_SplitShifts(t *testing.T) {
	// Two spans on the same day share the ordinary-hours budget.
	params := testParams()
	c := overtime.NewClassifier(calendar.NewService())

	rec, err := c.Classify("emp-1", dates.New(2024, time.July, 2),
		[]overtime.Shift{{Start: 6, End: 12}, {Start: 14, End: 18}}, params)
	require.NoError(t, err)

	assert.True(t, rec.OrdinaryDay.Equal(dec(8)))
	assert.True(t, rec.ExtraDay.Equal(dec(2)))
}
