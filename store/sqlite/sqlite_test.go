package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/payroll"
	"github.com/silvagro/nomina-engine/sickleave"
	"github.com/silvagro/nomina-engine/vacation"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLegalRoundTripAndActivation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).Legal()

	p2023 := legal.Defaults(2023)
	p2023.ID = "p2023"
	p2023.MonthlyMinimumWage = money.New(1_160_000)

	p2024 := legal.Defaults(2024)
	p2024.ID = "p2024"
	p2024.MonthlyMinimumWage = money.New(1_300_000)
	p2024.TransportAllowance = money.New(162_000)

	require.NoError(t, store.Save(ctx, p2023))
	require.NoError(t, store.Save(ctx, p2024))

	// Monetary values survive the round trip exactly.
	got, err := store.Get(ctx, "p2024")
	require.NoError(t, err)
	assert.True(t, got.MonthlyMinimumWage.Equal(money.New(1_300_000)))
	assert.True(t, got.HealthEmployerPct.Equal(money.NewPercent(8.5)))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, legal.ErrNotFound)

	// Activation flips atomically: never more than one active row.
	require.NoError(t, store.Activate(ctx, "p2023"))
	require.NoError(t, store.Activate(ctx, "p2024"))

	active, err := store.ActiveSets(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "p2024", active[0].ID)
	assert.True(t, active[0].Active)

	assert.ErrorIs(t, store.Activate(ctx, "missing"), legal.ErrNotFound)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2023, all[0].Year)
	assert.False(t, all[0].Active)
}

func TestContractRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).Contracts()

	old := contract.Contract{
		ID:            "ctr-old",
		EmployeeID:    "emp-1",
		Type:          contract.TypeFixedTerm,
		StartDate:     dates.New(2022, time.January, 1),
		MonthlySalary: money.New(1_800_000),
		RiskClass:     2,
		Status:        contract.StatusTerminated,
	}
	current := contract.Contract{
		ID:            "ctr-new",
		EmployeeID:    "emp-1",
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2023, time.February, 1),
		MonthlySalary: money.New(2_000_000),
		RiskClass:     2,
		Status:        contract.StatusActive,
	}
	require.NoError(t, store.Save(ctx, old))
	require.NoError(t, store.Save(ctx, current))

	active, err := store.ActiveByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "ctr-new", active.ID)
	assert.True(t, active.MonthlySalary.Equal(money.New(2_000_000)))

	_, err = store.ActiveByEmployee(ctx, "emp-2")
	assert.ErrorIs(t, err, contract.ErrNotFound)

	list, err := store.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ctr-old", list[0].ID) // start-date order
}

func TestPayrollOneRecordPerPeriod(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).Payroll()

	first := payroll.Record{
		ID:         "pr-1",
		EmployeeID: "emp-1",
		Year:       2024,
		Month:      time.March,
		Status:     payroll.StatusCalculated,
		NetPay:     money.New(1_000_000),
	}
	require.NoError(t, store.Save(ctx, first))

	// A recompute for the same period replaces the row.
	second := first
	second.ID = "pr-2"
	second.NetPay = money.New(1_100_000)
	require.NoError(t, store.Save(ctx, second))

	got, err := store.GetPeriod(ctx, "emp-1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "pr-2", got.ID)
	assert.True(t, got.NetPay.Equal(money.New(1_100_000)))

	_, err = store.Get(ctx, "pr-1")
	assert.ErrorIs(t, err, payroll.ErrNotFound)

	list, err := store.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSickLeaveSuccessors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).SickLeaves()

	root := sickleave.Record{
		ID:         "sl-1",
		EmployeeID: "emp-1",
		StartDate:  dates.New(2024, time.March, 1),
		EndDate:    dates.New(2024, time.March, 2),
		TotalDays:  2,
		Type:       sickleave.TypeGeneralIllness,
		State:      sickleave.StateActive,
	}
	ext := sickleave.Record{
		ID:            "sl-2",
		EmployeeID:    "emp-1",
		StartDate:     dates.New(2024, time.March, 3),
		EndDate:       dates.New(2024, time.March, 7),
		TotalDays:     5,
		Type:          sickleave.TypeGeneralIllness,
		State:         sickleave.StateActive,
		PredecessorID: "sl-1",
	}
	require.NoError(t, store.Save(ctx, root))
	require.NoError(t, store.Save(ctx, ext))

	successors, err := store.Successors(ctx, "sl-1")
	require.NoError(t, err)
	require.Len(t, successors, 1)
	assert.Equal(t, "sl-2", successors[0].ID)

	// The root has no predecessor; it must not match the empty-string id.
	none, err := store.Successors(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	list, err := store.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestVacationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).Vacations()

	r := vacation.Record{
		ID:          "vac-1",
		EmployeeID:  "emp-1",
		StartDate:   dates.New(2024, time.June, 3),
		EndDate:     dates.New(2024, time.June, 14),
		DaysTaken:   10,
		AccrualYear: 2024,
		Status:      vacation.StatusApproved,
	}
	require.NoError(t, store.Save(ctx, r))

	got, err := store.Get(ctx, "vac-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.DaysTaken)
	assert.Equal(t, vacation.StatusApproved, got.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, vacation.ErrNotFound)
}
