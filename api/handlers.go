/*
handlers.go - HTTP API handlers for the payroll compliance engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calendar:
    GET    /api/calendar/{year}          Holidays of a year
    GET    /api/calendar/business-days   Business-day count for a range

  Legal parameters:
    GET    /api/legal                    List parameter sets
    POST   /api/legal                    Create a parameter set
    GET    /api/legal/active             Resolve the active set
    POST   /api/legal/{id}/activate      Switch the active set

  Contracts:
    POST   /api/contracts                Hire (create contract)
    GET    /api/contracts/{id}           Contract details
    POST   /api/contracts/{id}/terminate Terminate

  Overtime:
    POST   /api/overtime/classify        Bucket one day's shifts
    POST   /api/overtime/valuate         Price classified hour records

  Payroll:
    POST   /api/payroll/compute          Compute one employee-month
    GET    /api/payroll/{id}             Payroll record
    POST   /api/payroll/{id}/approve     Freeze a calculated record
    GET    /api/employees/{id}/payroll   Payroll history

  Sick leaves:
    POST   /api/sick-leaves                  Register (auto cost split)
    GET    /api/sick-leaves/{id}             Record with chain totals
    POST   /api/sick-leaves/{id}/transcribe  File with the insurer
    POST   /api/sick-leaves/{id}/collect     Register insurer payment
    POST   /api/sick-leaves/{id}/finalize    Close without collection
    POST   /api/sick-leaves/{id}/cancel      Void (reason required)
    GET    /api/employees/{id}/sick-leaves   History

  Vacations:
    POST   /api/vacations                       Request (overlap-checked)
    GET    /api/employees/{id}/vacations        History
    GET    /api/employees/{id}/vacations/balance Balance for a year

  Liquidation:
    POST   /api/liquidations             Final settlement (optionally dry-run)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, missing configuration
  - 404: Resource not found
  - 409: Conflict (illegal state transition, overlap)
  - 500: Internal errors, invariant violations

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/silvagro/nomina-engine/calendar"
	"github.com/silvagro/nomina-engine/contract"
	"github.com/silvagro/nomina-engine/dates"
	"github.com/silvagro/nomina-engine/legal"
	"github.com/silvagro/nomina-engine/money"
	"github.com/silvagro/nomina-engine/overtime"
	"github.com/silvagro/nomina-engine/payroll"
	"github.com/silvagro/nomina-engine/severance"
	"github.com/silvagro/nomina-engine/sickleave"
	"github.com/silvagro/nomina-engine/vacation"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Stores bundles the persistence interfaces the handlers need.
type Stores struct {
	Legal      legal.Store
	Contracts  contract.Store
	Payroll    payroll.Store
	SickLeaves sickleave.Store
	Vacations  vacation.Store
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	stores Stores

	calendar   *calendar.Service
	resolver   *legal.Resolver
	classifier *overtime.Classifier
	calculator *payroll.Calculator
	sickSvc    *sickleave.Service
	vacations  *vacation.Engine
	liquidator *severance.Liquidator
}

// NewHandler wires the engine services over the given stores.
func NewHandler(stores Stores) *Handler {
	cal := calendar.NewService()
	resolver := legal.NewResolver(stores.Legal)

	return &Handler{
		stores:     stores,
		calendar:   cal,
		resolver:   resolver,
		classifier: overtime.NewClassifier(cal),
		calculator: payroll.NewCalculator(resolver),
		sickSvc:    sickleave.NewService(stores.SickLeaves),
		vacations:  vacation.NewEngine(cal),
		liquidator: severance.NewLiquidator(resolver),
	}
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetHolidays returns the holidays of a year.
// GET /api/calendar/{year}
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	writeJSON(w, http.StatusOK, h.calendar.ForYear(year))
}

// GetBusinessDays counts business days in an inclusive range.
// GET /api/calendar/business-days?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetBusinessDays(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	n, err := h.calendar.BusinessDaysBetween(from, to)
	if err != nil {
		writeDomainError(w, "Failed to count business days", err)
		return
	}
	writeJSON(w, http.StatusOK, BusinessDaysResponse{From: from, To: to, BusinessDays: n})
}

// =============================================================================
// LEGAL PARAMETERS
// =============================================================================

// ListParameterSets returns every stored parameter set.
// GET /api/legal
func (h *Handler) ListParameterSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.stores.Legal.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list parameter sets", err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// CreateParameterSet stores a new parameter set (inactive until activated).
// POST /api/legal
func (h *Handler) CreateParameterSet(w http.ResponseWriter, r *http.Request) {
	var req CreateParameterSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year < 1 {
		writeError(w, http.StatusBadRequest, "Year is required", nil)
		return
	}

	wage, err := parseMoney(req.MonthlyMinimumWage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monthlyMinimumWage", err)
		return
	}
	allowance, err := parseMoney(req.TransportAllowance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transportAllowance", err)
		return
	}

	set := legal.Defaults(req.Year)
	set.ID = uuid.NewString()
	set.MonthlyMinimumWage = wage
	set.TransportAllowance = allowance
	set.Notes = req.Notes

	if err := h.stores.Legal.Save(r.Context(), set); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save parameter set", err)
		return
	}
	writeJSON(w, http.StatusCreated, set)
}

// GetActiveParameters resolves the active set, optionally for a given year.
// GET /api/legal/active?year=2024
func (h *Handler) GetActiveParameters(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}

	set, err := h.resolver.ActiveForYear(r.Context(), year)
	if err != nil {
		writeDomainError(w, "Failed to resolve active configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// ActivateParameterSet switches the single active set.
// POST /api/legal/{id}/activate
func (h *Handler) ActivateParameterSet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.resolver.Activate(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to activate parameter set", err)
		return
	}
	set, err := h.stores.Legal.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load activated set", err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// =============================================================================
// CONTRACTS
// =============================================================================

// CreateContract registers a hire.
// POST /api/contracts
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required", nil)
		return
	}

	ctype, ok := parseContractType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid contract type", nil)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate", err)
		return
	}
	salary, err := parseMoney(req.MonthlySalary)
	if err != nil || !salary.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid monthlySalary", err)
		return
	}

	ct := contract.Contract{
		ID:            uuid.NewString(),
		EmployeeID:    req.EmployeeID,
		Type:          ctype,
		StartDate:     start,
		MonthlySalary: salary,
		RiskClass:     req.RiskClass,
		Status:        contract.StatusActive,
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate", err)
			return
		}
		ct.EndDate = &end
	}

	if err := h.stores.Contracts.Save(r.Context(), ct); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, ct)
}

// GetContract returns one contract.
// GET /api/contracts/{id}
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	ct, err := h.stores.Contracts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load contract", err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// TerminateContract ends a contract.
// POST /api/contracts/{id}/terminate
func (h *Handler) TerminateContract(w http.ResponseWriter, r *http.Request) {
	var req TerminateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := parseDate(req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid terminationDate", err)
		return
	}
	motive, ok := parseMotive(req.Motive)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid termination motive", nil)
		return
	}

	ct, err := h.stores.Contracts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load contract", err)
		return
	}
	if err := ct.Terminate(date, motive); err != nil {
		writeDomainError(w, "Failed to terminate contract", err)
		return
	}
	if err := h.stores.Contracts.Save(r.Context(), ct); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// =============================================================================
// OVERTIME
// =============================================================================

// ClassifyShifts buckets one day's worked shifts.
// POST /api/overtime/classify
func (h *Handler) ClassifyShifts(w http.ResponseWriter, r *http.Request) {
	var req ClassifyShiftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	params, err := h.resolver.Active(r.Context(), day)
	if err != nil {
		writeDomainError(w, "Failed to resolve active configuration", err)
		return
	}

	rec, err := h.classifier.Classify(req.EmployeeID, day, req.Shifts, params)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to classify shifts", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ValuateHours prices classified hour records at a salary's hourly wage.
// POST /api/overtime/valuate
func (h *Handler) ValuateHours(w http.ResponseWriter, r *http.Request) {
	var req ValuateHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	salary, err := parseMoney(req.MonthlySalary)
	if err != nil || !salary.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid monthlySalary", err)
		return
	}

	params, err := h.resolver.ActiveForYear(r.Context(), time.Now().Year())
	if err != nil {
		writeDomainError(w, "Failed to resolve active configuration", err)
		return
	}

	writeJSON(w, http.StatusOK,
		overtime.Valuate(req.Records, legal.HourlyWage(salary), params))
}

// =============================================================================
// PAYROLL
// =============================================================================

// ComputePayroll computes and stores one employee-month.
// POST /api/payroll/compute
func (h *Handler) ComputePayroll(w http.ResponseWriter, r *http.Request) {
	var req ComputePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", nil)
		return
	}

	ct, err := h.stores.Contracts.ActiveByEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to load active contract", err)
		return
	}

	in := payroll.Input{
		Contract:     ct,
		Year:         req.Year,
		Month:        time.Month(req.Month),
		HoursRecords: req.HoursRecords,
	}
	fields := []struct {
		raw string
		dst *money.Money
	}{
		{req.Commissions, &in.Commissions},
		{req.Bonuses, &in.Bonuses},
		{req.OtherEarnings, &in.OtherEarnings},
		{req.Withholding, &in.Withholding},
		{req.Loans, &in.Loans},
		{req.Garnishments, &in.Garnishments},
		{req.OtherDeductions, &in.OtherDeductions},
	}
	for _, f := range fields {
		amount, err := parseMoney(f.raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monetary amount", err)
			return
		}
		*f.dst = amount
	}

	record, err := h.calculator.Compute(r.Context(), in)
	if err != nil {
		writeDomainError(w, "Failed to compute payroll", err)
		return
	}
	record.ID = uuid.NewString()

	if err := h.stores.Payroll.Save(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payroll record", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// GetPayroll returns one payroll record.
// GET /api/payroll/{id}
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	record, err := h.stores.Payroll.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load payroll record", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ApprovePayroll freezes a calculated record.
// POST /api/payroll/{id}/approve
func (h *Handler) ApprovePayroll(w http.ResponseWriter, r *http.Request) {
	record, err := h.stores.Payroll.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load payroll record", err)
		return
	}
	if err := record.Approve(); err != nil {
		writeDomainError(w, "Failed to approve payroll record", err)
		return
	}
	if err := h.stores.Payroll.Save(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payroll record", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ListPayroll returns an employee's payroll history.
// GET /api/employees/{id}/payroll
func (h *Handler) ListPayroll(w http.ResponseWriter, r *http.Request) {
	records, err := h.stores.Payroll.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payroll records", err)
		return
	}
	if records == nil {
		records = []payroll.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// =============================================================================
// SICK LEAVES
// =============================================================================

// RegisterSickLeave stores a new incapacidad with its computed cost split.
// POST /api/sick-leaves
func (h *Handler) RegisterSickLeave(w http.ResponseWriter, r *http.Request) {
	var req RegisterSickLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	leaveType, ok := parseLeaveType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid leave type", nil)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate", err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate", err)
		return
	}
	span, err := dates.NewPeriod(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate precedes startDate", err)
		return
	}

	ct, err := h.stores.Contracts.ActiveByEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to load active contract", err)
		return
	}

	if req.PredecessorID != "" {
		if _, err := h.stores.SickLeaves.Get(r.Context(), req.PredecessorID); err != nil {
			writeDomainError(w, "Failed to load predecessor", err)
			return
		}
	}

	rec := sickleave.Record{
		ID:            uuid.NewString(),
		Number:        req.Number,
		EmployeeID:    req.EmployeeID,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     span.CalendarDays(),
		Diagnosis:     req.Diagnosis,
		Type:          leaveType,
		State:         sickleave.StateActive,
		PredecessorID: req.PredecessorID,
	}
	rec = sickleave.Classify(rec)
	rec.DailyBase, rec.ReimbursableAmount = sickleave.Reimbursement(rec, ct.MonthlySalary)

	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sick leave", err)
		return
	}
	if err := h.stores.SickLeaves.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sick leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GetSickLeave returns a record decorated with its chain's cumulative days.
// GET /api/sick-leaves/{id}
func (h *Handler) GetSickLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.stores.SickLeaves.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load sick leave", err)
		return
	}

	root, err := h.sickSvc.ChainRoot(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to resolve prorogation chain", err)
		return
	}
	cumulative, err := h.sickSvc.CumulativeDays(r.Context(), root.ID)
	if err != nil {
		writeDomainError(w, "Failed to sum prorogation chain", err)
		return
	}

	writeJSON(w, http.StatusOK, SickLeaveResponse{Record: rec, CumulativeDays: cumulative})
}

// sickLeaveTransition loads, transitions and persists one record.
func (h *Handler) sickLeaveTransition(w http.ResponseWriter, r *http.Request,
	transition func(sickleave.Record) (sickleave.Record, error)) {

	rec, err := h.stores.SickLeaves.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to load sick leave", err)
		return
	}

	updated, err := transition(rec)
	if err != nil {
		writeDomainError(w, "Transition rejected", err)
		return
	}
	if err := h.stores.SickLeaves.Save(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save sick leave", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// TranscribeSickLeave files the record with the insurer.
// POST /api/sick-leaves/{id}/transcribe
func (h *Handler) TranscribeSickLeave(w http.ResponseWriter, r *http.Request) {
	var req TranscribeSickLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	at, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	h.sickLeaveTransition(w, r, func(rec sickleave.Record) (sickleave.Record, error) {
		return h.sickSvc.Transcribe(rec, req.TranscriptionNumber, at)
	})
}

// CollectSickLeave registers the insurer payment.
// POST /api/sick-leaves/{id}/collect
func (h *Handler) CollectSickLeave(w http.ResponseWriter, r *http.Request) {
	var req CollectSickLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	at, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	h.sickLeaveTransition(w, r, func(rec sickleave.Record) (sickleave.Record, error) {
		return h.sickSvc.Collect(rec, amount, at)
	})
}

// FinalizeSickLeave closes a record with nothing to collect.
// POST /api/sick-leaves/{id}/finalize
func (h *Handler) FinalizeSickLeave(w http.ResponseWriter, r *http.Request) {
	h.sickLeaveTransition(w, r, func(rec sickleave.Record) (sickleave.Record, error) {
		return h.sickSvc.Finalize(r.Context(), rec)
	})
}

// CancelSickLeave voids a record.
// POST /api/sick-leaves/{id}/cancel
func (h *Handler) CancelSickLeave(w http.ResponseWriter, r *http.Request) {
	var req CancelSickLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.sickLeaveTransition(w, r, func(rec sickleave.Record) (sickleave.Record, error) {
		return h.sickSvc.Cancel(rec, req.Reason)
	})
}

// ListSickLeaves returns an employee's incapacidad history.
// GET /api/employees/{id}/sick-leaves
func (h *Handler) ListSickLeaves(w http.ResponseWriter, r *http.Request) {
	records, err := h.stores.SickLeaves.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sick leaves", err)
		return
	}
	if records == nil {
		records = []sickleave.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// =============================================================================
// VACATIONS
// =============================================================================

// RequestVacation validates availability and overlap, then stores a request.
// POST /api/vacations
func (h *Handler) RequestVacation(w http.ResponseWriter, r *http.Request) {
	var req RequestVacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate", err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate", err)
		return
	}
	accrualYear := req.AccrualYear
	if accrualYear == 0 {
		accrualYear = start.Year()
	}

	existing, err := h.stores.Vacations.ListByEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vacations", err)
		return
	}

	overlap, err := h.vacations.HasOverlap(existing, start, end, "")
	if err != nil {
		writeDomainError(w, "Invalid vacation range", err)
		return
	}
	if overlap {
		writeError(w, http.StatusConflict, "Range overlaps an existing vacation", nil)
		return
	}

	days, err := h.vacations.BusinessDays(start, end)
	if err != nil {
		writeDomainError(w, "Failed to count business days", err)
		return
	}
	available := h.vacations.AvailableDays(existing, accrualYear)
	if days > available {
		writeError(w, http.StatusConflict, "Insufficient vacation balance", nil)
		return
	}

	rec := vacation.Record{
		ID:                uuid.NewString(),
		EmployeeID:        req.EmployeeID,
		StartDate:         start,
		EndDate:           end,
		DaysTaken:         days,
		AccrualYear:       accrualYear,
		AvailableSnapshot: available,
		Status:            vacation.StatusPending,
		Notes:             req.Notes,
	}
	if err := h.stores.Vacations.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// ListVacations returns an employee's vacation history.
// GET /api/employees/{id}/vacations
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	records, err := h.stores.Vacations.ListByEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vacations", err)
		return
	}
	if records == nil {
		records = []vacation.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetVacationBalance returns the balance for an accrual year.
// GET /api/employees/{id}/vacations/balance?year=2024
func (h *Handler) GetVacationBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	year := time.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed
	}

	ct, err := h.stores.Contracts.ActiveByEmployee(r.Context(), employeeID)
	if err != nil {
		writeDomainError(w, "Failed to load active contract", err)
		return
	}
	records, err := h.stores.Vacations.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vacations", err)
		return
	}

	writeJSON(w, http.StatusOK, VacationBalanceResponse{
		EmployeeID:  employeeID,
		AccrualYear: year,
		Entitlement: vacation.DefaultAnnualEntitlement,
		Available:   h.vacations.AvailableDays(records, year),
		Earned:      h.vacations.EarnedDays(ct.StartDate, year, dates.Today()),
	})
}

// =============================================================================
// LIQUIDATION
// =============================================================================

// Liquidate computes the final settlement for an employee's active contract
// and, unless dryRun is set, terminates the contract.
// POST /api/liquidations
func (h *Handler) Liquidate(w http.ResponseWriter, r *http.Request) {
	var req LiquidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := parseDate(req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid terminationDate", err)
		return
	}
	motive, ok := parseMotive(req.Motive)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid termination motive", nil)
		return
	}
	deductions, err := parseMoney(req.Deductions)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deductions", err)
		return
	}

	ct, err := h.stores.Contracts.ActiveByEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeDomainError(w, "Failed to load active contract", err)
		return
	}

	settlement, err := h.liquidator.Liquidate(r.Context(), severance.LiquidationInput{
		Contract:            ct,
		TerminationDate:     date,
		Motive:              motive,
		PendingVacationDays: req.PendingVacationDays,
		Deductions:          deductions,
	})
	if err != nil {
		writeDomainError(w, "Failed to liquidate contract", err)
		return
	}

	if !req.DryRun {
		if err := ct.Terminate(date, motive); err != nil {
			writeDomainError(w, "Failed to terminate contract", err)
			return
		}
		if err := h.stores.Contracts.Save(r.Context(), ct); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, settlement)
}

// =============================================================================
// ERROR MAPPING AND JSON HELPERS
// =============================================================================

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, legal.ErrNotFound),
		errors.Is(err, contract.ErrNotFound),
		errors.Is(err, payroll.ErrNotFound),
		errors.Is(err, sickleave.ErrNotFound),
		errors.Is(err, vacation.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)

	case errors.Is(err, sickleave.ErrInvalidTransition),
		errors.Is(err, sickleave.ErrActiveProrogation),
		errors.Is(err, payroll.ErrNotApprovable),
		errors.Is(err, contract.ErrAlreadyTerminated),
		errors.Is(err, severance.ErrContractNotActive):
		writeError(w, http.StatusConflict, message, err)

	case errors.Is(err, legal.ErrConfigurationNotFound),
		errors.Is(err, payroll.ErrMissingLegalConfiguration),
		errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, sickleave.ErrCancelReasonRequired),
		errors.Is(err, dates.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, message, err)

	default:
		// Includes legal.ErrInvariantViolation and sickleave.ErrProrogationCycle:
		// data corruption, not caller error.
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
