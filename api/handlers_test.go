/*
handlers_test.go - HTTP-level tests for the API

Exercises the router end to end over in-memory stores: legal parameter
lifecycle, hiring and payroll computation, the sick-leave state machine,
vacation overlap checks, and liquidation dry runs.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
	"github.com/silvagro/nomina-engine/payroll"
	"github.com/silvagro/nomina-engine/severance"
	"github.com/silvagro/nomina-engine/sickleave"
	"github.com/silvagro/nomina-engine/store/memory"
	"github.com/silvagro/nomina-engine/vacation"
)

type testEnv struct {
	stores Stores
	srv    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stores := Stores{
		Legal:      memory.NewLegalStore(),
		Contracts:  memory.NewContractStore(),
		Payroll:    memory.NewPayrollStore(),
		SickLeaves: memory.NewSickLeaveStore(),
		Vacations:  memory.NewVacationStore(),
	}
	return &testEnv{stores: stores, srv: NewRouter(NewHandler(stores))}
}

// seedLegal2024 stores and activates a parameter set with the 2024 wages.
func (e *testEnv) seedLegal2024(t *testing.T) {
	t.Helper()
	set := legal.Defaults(2024)
	set.ID = "set-2024"
	set.MonthlyMinimumWage = money.New(1_300_000)
	set.TransportAllowance = money.New(162_000)
	require.NoError(t, e.stores.Legal.Save(context.Background(), set))
	require.NoError(t, e.stores.Legal.Activate(context.Background(), set.ID))
}

func (e *testEnv) seedContract(t *testing.T, employeeID string, salary int64) contract.Contract {
	t.Helper()
	ct := contract.Contract{
		ID:            "ct-" + employeeID,
		EmployeeID:    employeeID,
		Type:          contract.TypeIndefinite,
		StartDate:     dates.New(2023, 2, 1),
		MonthlySalary: money.New(salary),
		RiskClass:     1,
		Status:        contract.StatusActive,
	}
	require.NoError(t, e.stores.Contracts.Save(context.Background(), ct))
	return ct
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestGetHolidaysEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// WHEN: Fetching the 2024 calendar
	rec := env.do(t, http.MethodGet, "/api/calendar/2024", nil)

	// THEN: Colombia observes 18 holidays
	require.Equal(t, http.StatusOK, rec.Code)
	holidays := decode[[]map[string]any](t, rec)
	assert.Len(t, holidays, 18)
}

func TestBusinessDaysEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet,
		"/api/calendar/business-days?from=2024-12-23&to=2025-01-03", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[BusinessDaysResponse](t, rec)
	assert.Equal(t, 8, resp.BusinessDays)
}

func TestBusinessDaysRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet,
		"/api/calendar/business-days?from=2024-06-30&to=2024-06-01", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// LEGAL PARAMETERS
// =============================================================================

func TestLegalLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	// GIVEN: A created parameter set
	rec := env.do(t, http.MethodPost, "/api/legal", CreateParameterSetRequest{
		Year:               2024,
		MonthlyMinimumWage: "1300000",
		TransportAllowance: "162000",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[legal.ParameterSet](t, rec)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.Active)

	// Nothing is active yet
	rec = env.do(t, http.MethodGet, "/api/legal/active?year=2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// WHEN: Activating it
	rec = env.do(t, http.MethodPost, "/api/legal/"+created.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: It resolves as the active configuration
	rec = env.do(t, http.MethodGet, "/api/legal/active?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[legal.ParameterSet](t, rec)
	assert.Equal(t, created.ID, active.ID)
	assert.True(t, active.Active)
}

func TestActivateUnknownSetIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/legal/nope/activate", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// CONTRACTS
// =============================================================================

func TestContractCreateAndTerminate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contracts", CreateContractRequest{
		EmployeeID:    "emp-1",
		Type:          "indefinite",
		StartDate:     "2023-02-01",
		MonthlySalary: "3000000",
		RiskClass:     1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	ct := decode[contract.Contract](t, rec)
	assert.Equal(t, contract.StatusActive, ct.Status)

	rec = env.do(t, http.MethodPost, "/api/contracts/"+ct.ID+"/terminate",
		TerminateContractRequest{TerminationDate: "2024-06-30", Motive: "resignation"})
	require.Equal(t, http.StatusOK, rec.Code)
	terminated := decode[contract.Contract](t, rec)
	assert.Equal(t, contract.StatusTerminated, terminated.Status)

	// Terminating twice conflicts
	rec = env.do(t, http.MethodPost, "/api/contracts/"+ct.ID+"/terminate",
		TerminateContractRequest{TerminationDate: "2024-07-31", Motive: "resignation"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestContractRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contracts", CreateContractRequest{
		EmployeeID:    "emp-1",
		Type:          "gig",
		StartDate:     "2023-02-01",
		MonthlySalary: "3000000",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PAYROLL
// =============================================================================

func TestComputePayrollOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	env.seedContract(t, "emp-1", 3_000_000)

	// WHEN: Computing June 2024
	rec := env.do(t, http.MethodPost, "/api/payroll/compute", ComputePayrollRequest{
		EmployeeID: "emp-1",
		Year:       2024,
		Month:      6,
	})

	// THEN: Net pay is gross minus the 8% employee contributions
	require.Equal(t, http.StatusCreated, rec.Code)
	record := decode[payroll.Record](t, rec)
	assert.Equal(t, "2760000", record.NetPay.String())
	assert.Equal(t, payroll.StatusCalculated, record.Status)

	// Approving freezes it
	rec = env.do(t, http.MethodPost, "/api/payroll/"+record.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	approved := decode[payroll.Record](t, rec)
	assert.Equal(t, payroll.StatusApproved, approved.Status)

	// History lists it
	rec = env.do(t, http.MethodGet, "/api/employees/emp-1/payroll", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]payroll.Record](t, rec)
	assert.Len(t, history, 1)
}

func TestComputePayrollWithoutConfigurationIs400(t *testing.T) {
	env := newTestEnv(t)
	env.seedContract(t, "emp-1", 3_000_000)

	rec := env.do(t, http.MethodPost, "/api/payroll/compute", ComputePayrollRequest{
		EmployeeID: "emp-1",
		Year:       2024,
		Month:      6,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputePayrollWithoutContractIs404(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)

	rec := env.do(t, http.MethodPost, "/api/payroll/compute", ComputePayrollRequest{
		EmployeeID: "ghost",
		Year:       2024,
		Month:      6,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// OVERTIME
// =============================================================================

func TestClassifyShiftsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)

	// GIVEN: A Tuesday worked 8:00-19:00 (11h, 3 of them extra)
	rec := env.do(t, http.MethodPost, "/api/overtime/classify", map[string]any{
		"employeeId": "emp-1",
		"date":       "2024-06-04",
		"shifts":     []map[string]int{{"start": 8, "end": 19}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[overtime.HoursRecord](t, rec)
	assert.Equal(t, "8", out.OrdinaryDay.String())
	assert.Equal(t, "3", out.ExtraDay.String())
}

// =============================================================================
// SICK LEAVES
// =============================================================================

func TestSickLeaveLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	env.seedContract(t, "emp-1", 1_500_000)

	// GIVEN: A registered 5-day general illness
	rec := env.do(t, http.MethodPost, "/api/sick-leaves", RegisterSickLeaveRequest{
		EmployeeID: "emp-1",
		Number:     "INC-001",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-05",
		Type:       "general_illness",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	leave := decode[sickleave.Record](t, rec)
	assert.Equal(t, 2, leave.EmployerDays)
	assert.Equal(t, 3, leave.InsurerDays)
	assert.Equal(t, "100005", leave.ReimbursableAmount.String())

	// WHEN: Transcribing and collecting
	rec = env.do(t, http.MethodPost, "/api/sick-leaves/"+leave.ID+"/transcribe",
		TranscribeSickLeaveRequest{TranscriptionNumber: "TR-9", Date: "2024-03-10"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/sick-leaves/"+leave.ID+"/collect",
		CollectSickLeaveRequest{Amount: "100005", Date: "2024-04-01"})
	require.Equal(t, http.StatusOK, rec.Code)
	collected := decode[sickleave.Record](t, rec)
	assert.Equal(t, sickleave.StateCollected, collected.State)

	// THEN: A collected record cannot be cancelled
	rec = env.do(t, http.MethodPost, "/api/sick-leaves/"+leave.ID+"/cancel",
		CancelSickLeaveRequest{Reason: "typo"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSickLeaveCancelRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	env.seedContract(t, "emp-1", 1_500_000)

	rec := env.do(t, http.MethodPost, "/api/sick-leaves", RegisterSickLeaveRequest{
		EmployeeID: "emp-1",
		StartDate:  "2024-03-01",
		EndDate:    "2024-03-03",
		Type:       "general_illness",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	leave := decode[sickleave.Record](t, rec)

	rec = env.do(t, http.MethodPost, "/api/sick-leaves/"+leave.ID+"/cancel",
		CancelSickLeaveRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSickLeaveProrogationChainOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	env.seedContract(t, "emp-1", 1_500_000)

	first := decode[sickleave.Record](t, env.do(t, http.MethodPost, "/api/sick-leaves",
		RegisterSickLeaveRequest{
			EmployeeID: "emp-1",
			StartDate:  "2024-03-01",
			EndDate:    "2024-03-05",
			Type:       "general_illness",
		}))

	rec := env.do(t, http.MethodPost, "/api/sick-leaves", RegisterSickLeaveRequest{
		EmployeeID:    "emp-1",
		StartDate:     "2024-03-06",
		EndDate:       "2024-03-15",
		Type:          "general_illness",
		PredecessorID: first.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[sickleave.Record](t, rec)

	// The extension accumulates the whole chain: 5 + 10 days
	rec = env.do(t, http.MethodGet, "/api/sick-leaves/"+second.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detailed := decode[SickLeaveResponse](t, rec)
	assert.Equal(t, 15, detailed.CumulativeDays)

	// Finalizing the root is blocked while the extension is open
	rec = env.do(t, http.MethodPost, "/api/sick-leaves/"+first.ID+"/finalize", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterSickLeaveWithUnknownPredecessorIs404(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	env.seedContract(t, "emp-1", 1_500_000)

	rec := env.do(t, http.MethodPost, "/api/sick-leaves", RegisterSickLeaveRequest{
		EmployeeID:    "emp-1",
		StartDate:     "2024-03-06",
		EndDate:       "2024-03-15",
		Type:          "general_illness",
		PredecessorID: "missing",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// VACATIONS
// =============================================================================

func TestVacationRequestAndBalanceOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedContract(t, "emp-1", 3_000_000)

	// GIVEN: A first request over a holiday-free week (Mon Jun 17 - Fri Jun 21)
	rec := env.do(t, http.MethodPost, "/api/vacations", RequestVacationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2024-06-17",
		EndDate:    "2024-06-21",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[vacation.Record](t, rec)
	assert.Equal(t, 5, first.DaysTaken)
	assert.Equal(t, 2024, first.AccrualYear)
	assert.Equal(t, vacation.StatusPending, first.Status)

	// An overlapping request conflicts
	rec = env.do(t, http.MethodPost, "/api/vacations", RequestVacationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2024-06-19",
		EndDate:    "2024-06-25",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Balance reflects the pending request
	rec = env.do(t, http.MethodGet, "/api/employees/emp-1/vacations/balance?year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	balance := decode[VacationBalanceResponse](t, rec)
	assert.Equal(t, 15, balance.Entitlement)
	assert.Equal(t, 10, balance.Available)
}

func TestVacationRequestExceedingBalanceConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seedContract(t, "emp-1", 3_000_000)

	// 2024-06-03 to 2024-07-05 spans 22 business days, over the 15-day entitlement
	rec := env.do(t, http.MethodPost, "/api/vacations", RequestVacationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2024-06-03",
		EndDate:    "2024-07-05",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// =============================================================================
// LIQUIDATION
// =============================================================================

func TestLiquidateOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedLegal2024(t)
	ct := env.seedContract(t, "emp-1", 3_000_000)

	// WHEN: A dry run
	rec := env.do(t, http.MethodPost, "/api/liquidations", LiquidateRequest{
		EmployeeID:      "emp-1",
		TerminationDate: "2024-06-30",
		Motive:          "resignation",
		DryRun:          true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	dry := decode[severance.Settlement](t, rec)
	assert.True(t, dry.Total.IsPositive())

	// THEN: The contract stays active
	stored, err := env.stores.Contracts.Get(context.Background(), ct.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusActive, stored.Status)

	// A real run terminates it
	rec = env.do(t, http.MethodPost, "/api/liquidations", LiquidateRequest{
		EmployeeID:      "emp-1",
		TerminationDate: "2024-06-30",
		Motive:          "resignation",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = env.stores.Contracts.Get(context.Background(), ct.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusTerminated, stored.Status)
	require.NotNil(t, stored.TerminationDate)
	assert.Equal(t, "2024-06-30", fmt.Sprint(*stored.TerminationDate))

	// With no active contract left, liquidating again is a 404
	rec = env.do(t, http.MethodPost, "/api/liquidations", LiquidateRequest{
		EmployeeID:      "emp-1",
		TerminationDate: "2024-07-31",
		Motive:          "resignation",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
