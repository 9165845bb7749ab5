/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with employee
	snapshots for demos. Each scenario stores one or more snapshots that
	exercise a specific part of the calculation.

AVAILABLE SCENARIOS:

	base-case:         One salaried employee, fully subject, no extras
	exempt-employee:   Exempt from the pension and health schemes
	variable-elements: Overtime and an absence on top of the base case
	credit-holder:     Mortgage interest relief and two installments
	full-team:         All of the above as four employees

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Record the active rate table
 3. Parse and validate each snapshot via factory
 4. Store the snapshots

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "full-team"}

	POST /api/payroll/run?month=3&year=2025

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its snapshots to scenarioSnapshots

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: RunPayroll, RunEmployeePayroll
  - factory/input.go: Snapshot JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "base-case",
		Name:        "Base Case",
		Description: "40,000 base, 5 years seniority, fully subject",
	},
	{
		ID:          "exempt-employee",
		Name:        "Exempt Employee",
		Description: "Same pay, exempt from NSSF and SHIF",
	},
	{
		ID:          "variable-elements",
		Name:        "Variable Elements",
		Description: "3,000 overtime and a 1,500 absence",
	},
	{
		ID:          "credit-holder",
		Name:        "Credit Holder",
		Description: "Mortgage interest relief, mortgage and consumer credit installments",
	},
	{
		ID:          "full-team",
		Name:        "Full Team",
		Description: "All scenarios above as four employees",
	},
}

const (
	baseCaseSnapshot = `{
		"employee": {"id": "emp-001", "firstName": "Wanjiru", "lastName": "Kamau",
			"maritalStatus": "single", "dateOfBirth": "1990-04-12", "hireDate": "2020-01-06"},
		"month": 3, "year": 2025, "seniority": 5, "baseSalary": "40000"
	}`

	exemptSnapshot = `{
		"employee": {"id": "emp-002", "firstName": "Otieno", "lastName": "Odhiambo",
			"maritalStatus": "married", "dateOfBirth": "1985-09-30", "hireDate": "2019-06-03"},
		"month": 3, "year": 2025, "seniority": 5, "baseSalary": "40000",
		"subjectToNssf": false, "subjectToShif": false
	}`

	variableSnapshot = `{
		"employee": {"id": "emp-003", "firstName": "Achieng", "lastName": "Mwangi",
			"maritalStatus": "single", "dateOfBirth": "1994-01-21", "hireDate": "2020-02-10"},
		"month": 3, "year": 2025, "seniority": 5, "baseSalary": "40000",
		"variableElements": [
			{"type": "overtime", "amount": "3000", "label": "Month-end close"},
			{"type": "absence", "amount": "-1500", "label": "Unpaid leave"}
		]
	}`

	creditSnapshot = `{
		"employee": {"id": "emp-004", "firstName": "Kipchoge", "lastName": "Ruto",
			"maritalStatus": "married", "dateOfBirth": "1982-11-02", "hireDate": "2012-04-16"},
		"month": 3, "year": 2025, "seniority": 12, "baseSalary": "65000",
		"housingAllowance": "5000", "transportAllowance": "3000",
		"deductionUnits": 1,
		"mortgageCredit": {"monthlyAmount": "3000", "deductibleInterest": "10000"},
		"consumerCredit": {"monthlyAmount": "2500"}
	}`
)

var scenarioSnapshots = map[string][]string{
	"base-case":         {baseCaseSnapshot},
	"exempt-employee":   {exemptSnapshot},
	"variable-elements": {variableSnapshot},
	"credit-holder":     {creditSnapshot},
	"full-team":         {baseCaseSnapshot, exemptSnapshot, variableSnapshot, creditSnapshot},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snapshots, ok := scenarioSnapshots[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		h.respondError(w, r, "Failed to reset database", err)
		return
	}

	for _, snapshot := range snapshots {
		if err := h.loadSnapshot(ctx, snapshot); err != nil {
			h.respondError(w, r, fmt.Sprintf("Failed to load scenario: %v", err), err)
			return
		}
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data. The active rate table is recorded again.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		h.respondError(w, r, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// RecordRateTable stores the engine's rate table as a new version so
// records can be traced back to the configuration that produced them.
func (h *Handler) RecordRateTable(ctx context.Context) error {
	data, err := json.Marshal(h.Rates.ToJSON(h.Engine.Rates))
	if err != nil {
		return err
	}
	_, err = h.Store.SaveRateTable(ctx, h.Engine.Rates.Name, string(data))
	return err
}

func (h *Handler) reset(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return h.RecordRateTable(ctx)
}

func (h *Handler) loadSnapshot(ctx context.Context, snapshot string) error {
	var ij factory.InputJSON
	if err := json.Unmarshal([]byte(snapshot), &ij); err != nil {
		return err
	}
	if _, err := h.toValidInput(ij); err != nil {
		return err
	}
	return h.saveSnapshot(ctx, ij)
}
