/*
handlers.go - HTTP API handlers for the payroll service

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and the store.

ENDPOINTS:
  Payroll:
    POST   /api/payroll/calculate                  Compute a payslip from a snapshot in the body
    POST   /api/payroll/run?month=&year=           Compute and store the period for every employee

  Employees:
    GET    /api/employees                          List stored snapshots
    POST   /api/employees                          Create or replace a snapshot
    GET    /api/employees/{id}                     Get one snapshot
    DELETE /api/employees/{id}                     Delete a snapshot and its records
    POST   /api/employees/{id}/payroll?month=&year= Compute and store one period
    GET    /api/employees/{id}/payroll             List stored records, most recent first
    GET    /api/employees/{id}/payroll/{year}/{month} Get one stored payslip

  Rates:
    GET    /api/rates                              The active rate table

  Scenarios:
    GET    /api/scenarios                          List demo scenarios
    POST   /api/scenarios/load                     Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Engine: the payroll engine and its rate table
  - Rates: RateTableFactory for the rate table view
  - Logger: fallback when no request logger is in the context

REQUEST FLOW:
  1. Parse HTTP request (factory.InputJSON)
  2. Convert and validate (ToInput, payroll.Validate)
  3. Calculate
  4. Serialize response (factory.ResultToJSON)
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or record not found
  - 500: Internal errors (logged)

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *payroll.Engine
	Rates  *factory.RateTableFactory
	Logger *zap.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. A nil logger discards logs.
func NewHandler(store *sqlite.Store, engine *payroll.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:  store,
		Engine: engine,
		Rates:  factory.NewRateTableFactory(),
		Logger: logger,
	}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// Calculate computes a payslip from the snapshot in the request body.
// Nothing is stored.
// POST /api/payroll/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var ij factory.InputJSON
	if err := json.NewDecoder(r.Body).Decode(&ij); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := h.toValidInput(ij)
	if err != nil {
		h.respondError(w, r, "Invalid payroll input", err)
		return
	}

	result := h.Engine.Calculate(in)
	LoggerFrom(r.Context(), h.Logger).Debug("payroll calculated", zap.String("summary", result.Summary()))

	writeJSON(w, http.StatusOK, factory.ResultToJSON(result))
}

// RunPayroll computes and stores the given period for every stored
// employee. Employees are processed one after another; a failing snapshot
// is reported in its item and does not stop the run.
// POST /api/payroll/run?month=&year=
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r, payroll.Period{})
	if err != nil {
		h.respondError(w, r, "Invalid period", err)
		return
	}
	if period.Month == 0 || period.Year == 0 {
		h.respondError(w, r, "Invalid period", &payroll.FieldError{Field: "period", Message: "month and year are required"})
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.respondError(w, r, "Failed to list employees", err)
		return
	}

	logger := LoggerFrom(r.Context(), h.Logger)
	resp := BatchRunResponse{
		Month: int(period.Month),
		Year:  period.Year,
		Items: make([]BatchItemDTO, 0, len(employees)),
	}

	for _, emp := range employees {
		item := BatchItemDTO{EmployeeID: emp.ID}

		rec, result, err := h.computeAndStore(r.Context(), emp, period)
		if err != nil {
			logger.Warn("payroll run failed for employee",
				zap.String("employee_id", emp.ID),
				zap.Error(err),
			)
			item.Error = err.Error()
			resp.Failed++
		} else {
			net := rec.NetSalary.Round()
			item.RecordID = rec.ID
			item.NetSalary = &net
			item.Warnings = len(result.Warnings)
			resp.Processed++
		}
		resp.Items = append(resp.Items, item)
	}

	logger.Info("payroll run completed",
		zap.Int("month", resp.Month),
		zap.Int("year", resp.Year),
		zap.Int("processed", resp.Processed),
		zap.Int("failed", resp.Failed),
	)
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all stored snapshots.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.respondError(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dto, err := toEmployeeDTO(e)
		if err != nil {
			h.respondError(w, r, "Corrupt employee snapshot", fmt.Errorf("employee %s: %w", e.ID, err))
			return
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee stores a snapshot, replacing any earlier one with the same
// id. The snapshot is validated against the active rate table first.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var ij factory.InputJSON
	if err := json.NewDecoder(r.Body).Decode(&ij); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if ij.Employee.ID == "" {
		h.respondError(w, r, "Invalid employee", &payroll.FieldError{Field: "employee.id", Message: "is required"})
		return
	}
	if _, err := h.toValidInput(ij); err != nil {
		h.respondError(w, r, "Invalid employee snapshot", err)
		return
	}

	if err := h.saveSnapshot(r.Context(), ij); err != nil {
		h.respondError(w, r, "Failed to save employee", err)
		return
	}

	rec, err := h.Store.GetEmployee(r.Context(), ij.Employee.ID)
	if err != nil {
		h.respondError(w, r, "Failed to load employee", err)
		return
	}
	dto, err := toEmployeeDTO(*rec)
	if err != nil {
		h.respondError(w, r, "Corrupt employee snapshot", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// GetEmployee returns one snapshot.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "Employee not found", err)
		return
	}
	dto, err := toEmployeeDTO(*rec)
	if err != nil {
		h.respondError(w, r, "Corrupt employee snapshot", err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// DeleteEmployee removes a snapshot and its payroll records.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		h.respondError(w, r, "Failed to delete employee", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RunEmployeePayroll computes one period from the stored snapshot and
// stores the result. The query period overrides the snapshot's own.
// POST /api/employees/{id}/payroll?month=&year=
func (h *Handler) RunEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "Employee not found", err)
		return
	}

	period, err := periodFromQuery(r, payroll.Period{})
	if err != nil {
		h.respondError(w, r, "Invalid period", err)
		return
	}

	rec, _, err := h.computeAndStore(r.Context(), *emp, period)
	if err != nil {
		h.respondError(w, r, "Failed to run payroll", err)
		return
	}

	writeJSON(w, http.StatusOK, toPayrollRecordDTO(*rec, true))
}

// ListEmployeePayroll returns an employee's stored records without the
// full payslip.
// GET /api/employees/{id}/payroll
func (h *Handler) ListEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.respondError(w, r, "Employee not found", err)
		return
	}

	records, err := h.Store.ListPayrollRecords(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "Failed to list payroll records", err)
		return
	}

	dtos := make([]PayrollRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toPayrollRecordDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeePayroll returns one stored payslip.
// GET /api/employees/{id}/payroll/{year}/{month}
func (h *Handler) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.respondError(w, r, "Invalid year", &payroll.FieldError{Field: "year", Message: "must be a number"})
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		h.respondError(w, r, "Invalid month", &payroll.FieldError{Field: "month", Message: "must be a number"})
		return
	}

	rec, err := h.Store.GetPayrollRecord(r.Context(), id, month, year)
	if err != nil {
		h.respondError(w, r, "Payroll record not found", err)
		return
	}

	writeJSON(w, http.StatusOK, toPayrollRecordDTO(*rec, true))
}

// =============================================================================
// RATE TABLE HANDLERS
// =============================================================================

// GetRates returns the rate table the engine is running with.
// GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	table := h.Engine.Rates
	dto := RateTableDTO{
		Name:   table.Name,
		Config: h.Rates.ToJSON(table),
	}

	stored, err := h.Store.GetRateTable(r.Context(), table.Name)
	if err != nil {
		h.respondError(w, r, "Failed to load rate table", err)
		return
	}
	if stored != nil {
		dto.Version = stored.Version
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// toValidInput converts a snapshot against the engine's table and rejects
// it if any field is out of range.
func (h *Handler) toValidInput(ij factory.InputJSON) (payroll.Input, error) {
	in, err := ij.ToInput(h.Engine.Rates)
	if err != nil {
		return payroll.Input{}, err
	}
	if err := payroll.Validate(in); err != nil {
		return payroll.Input{}, err
	}
	return in, nil
}

func (h *Handler) saveSnapshot(ctx context.Context, ij factory.InputJSON) error {
	data, err := json.Marshal(ij)
	if err != nil {
		return err
	}
	return h.Store.SaveEmployee(ctx, sqlite.EmployeeRecord{
		ID:           ij.Employee.ID,
		FirstName:    ij.Employee.FirstName,
		LastName:     ij.Employee.LastName,
		SnapshotJSON: string(data),
	})
}

// computeAndStore runs the engine over a stored snapshot for the given
// period (zero fields fall back to the snapshot's) and upserts the record.
func (h *Handler) computeAndStore(ctx context.Context, emp sqlite.EmployeeRecord, period payroll.Period) (*sqlite.PayrollRecord, payroll.Result, error) {
	var ij factory.InputJSON
	if err := json.Unmarshal([]byte(emp.SnapshotJSON), &ij); err != nil {
		return nil, payroll.Result{}, fmt.Errorf("corrupt snapshot for employee %s: %w", emp.ID, err)
	}
	if period.Month != 0 {
		ij.Month = int(period.Month)
	}
	if period.Year != 0 {
		ij.Year = period.Year
	}
	if ij.Month == 0 || ij.Year == 0 {
		return nil, payroll.Result{}, &payroll.FieldError{Field: "period", Message: "month and year are required"}
	}
	// The stored id is authoritative.
	ij.Employee.ID = emp.ID

	in, err := h.toValidInput(ij)
	if err != nil {
		return nil, payroll.Result{}, err
	}

	result := h.Engine.Calculate(in)
	resultJSON, err := json.Marshal(factory.ResultToJSON(result))
	if err != nil {
		return nil, payroll.Result{}, err
	}

	rec, err := h.Store.UpsertPayrollRecord(ctx, sqlite.PayrollRecord{
		EmployeeID:      emp.ID,
		Month:           ij.Month,
		Year:            ij.Year,
		RateTable:       h.Engine.Rates.Name,
		GrossSalary:     result.GrossSalary,
		TotalDeductions: result.TotalDeductions,
		NetSalary:       result.NetSalaryPayable,
		EmployerCost:    result.TotalEmployerCost,
		ResultJSON:      string(resultJSON),
	})
	if err != nil {
		return nil, payroll.Result{}, err
	}
	return rec, result, nil
}

// periodFromQuery reads ?month=&year=. Absent parameters keep the fallback.
func periodFromQuery(r *http.Request, fallback payroll.Period) (payroll.Period, error) {
	period := fallback
	q := r.URL.Query()

	if s := q.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return payroll.Period{}, &payroll.FieldError{Field: "month", Message: fmt.Sprintf("%q is not a month", s)}
		}
		period.Month = time.Month(m)
	}
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 {
			return payroll.Period{}, &payroll.FieldError{Field: "year", Message: fmt.Sprintf("%q is not a year", s)}
		}
		period.Year = y
	}
	return period, nil
}

// respondError maps domain errors to HTTP statuses. Unexpected errors are
// logged with the request logger.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case payroll.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		LoggerFrom(r.Context(), h.Logger).Error(message, zap.Error(err))
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
