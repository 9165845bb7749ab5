/*
handlers_test.go - Tests for API handlers

Tests for:
- Stateless calculation (Calculate)
- Snapshot management (CreateEmployee, GetEmployee, DeleteEmployee)
- Stored payslips (RunEmployeePayroll, ListEmployeePayroll, GetEmployeePayroll)
- Period runs over scenarios (LoadScenario, RunPayroll)
- Request logging
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T, logger *zap.Logger) (*Handler, http.Handler) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, payroll.NewEngine(statutory.Kenya2025(), logger), logger)
	require.NoError(t, h.RecordRateTable(context.Background()))
	return h, NewRouter(h)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestCalculate_BaseCase(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodPost, "/api/payroll/calculate", baseCaseSnapshot)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "emp-001", body["employeeId"])
	assert.Equal(t, "44000", body["grossSalary"])
	assert.Equal(t, "8342.35", body["totalDeductions"])
	assert.Equal(t, "35657.65", body["netSalaryPayable"])
	assert.Equal(t, "49830", body["totalEmployerCost"])
	assert.Nil(t, body["warnings"])
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	_, router := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		details string
	}{
		{"malformed body", `{"employee":`, ""},
		{"negative base salary", `{"employee": {"id": "e"}, "baseSalary": "-1"}`, "baseSalary"},
		{"negative worked days", `{"employee": {"id": "e"}, "baseSalary": "1", "workedDays": -3}`, "workedDays"},
		{"bad date", `{"employee": {"id": "e", "hireDate": "yesterday"}, "baseSalary": "1"}`, "employee.hireDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/payroll/calculate", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.details != "" {
				assert.Contains(t, body["details"], tt.details)
			}
		})
	}
}

func TestCalculate_NegativeNetIsReported(t *testing.T) {
	_, router := newTestServer(t, nil)
	doc := `{"employee": {"id": "e"}, "baseSalary": "1000",
		"consumerCredit": {"monthlyAmount": "5000"}}`

	rec := do(t, router, http.MethodPost, "/api/payroll/calculate", doc)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["negativeNet"])
	assert.Equal(t, "-4107.5", body["netSalaryPayable"])
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployees_CreateGetDelete(t *testing.T) {
	_, router := newTestServer(t, nil)

	// GIVEN: A stored snapshot
	rec := do(t, router, http.MethodPost, "/api/employees", baseCaseSnapshot)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "emp-001", created["id"])
	assert.Equal(t, "Kamau", created["lastName"])

	// WHEN: Reading it back
	rec = do(t, router, http.MethodGet, "/api/employees/emp-001", "")

	// THEN: The snapshot survives the store
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode(t, rec)["snapshot"].(map[string]any)
	assert.Equal(t, "40000", snapshot["baseSalary"])

	// AND: The list has one entry
	rec = do(t, router, http.MethodGet, "/api/employees", "")
	var list []EmployeeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// AND: Delete removes it
	rec = do(t, router, http.MethodDelete, "/api/employees/emp-001", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/employees/emp-001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/employees/emp-001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployees_CreateRequiresID(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodPost, "/api/employees", `{"employee": {}, "baseSalary": "40000"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "employee.id")
}

func TestEmployees_ListIsEmptyArray(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodGet, "/api/employees", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// =============================================================================
// STORED PAYSLIPS
// =============================================================================

func TestRunEmployeePayroll_UpsertsOnePerPeriod(t *testing.T) {
	_, router := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", baseCaseSnapshot).Code)

	// WHEN: Running April twice
	first := do(t, router, http.MethodPost, "/api/employees/emp-001/payroll?month=4&year=2025", "")
	second := do(t, router, http.MethodPost, "/api/employees/emp-001/payroll?month=4&year=2025", "")

	// THEN: The query period overrides the snapshot's and the id is stable
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	require.Equal(t, http.StatusOK, second.Code)
	a, b := decode(t, first), decode(t, second)
	assert.Equal(t, float64(4), a["month"])
	assert.Equal(t, "KE-2025", a["rateTable"])
	assert.Equal(t, "35657.65", a["netSalary"])
	assert.Equal(t, a["id"], b["id"])

	result := a["result"].(map[string]any)
	assert.Equal(t, "35657.65", result["netSalaryPayable"])

	// AND: One record is listed
	rec := do(t, router, http.MethodGet, "/api/employees/emp-001/payroll", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []PayrollRecordDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Result)

	// AND: The full payslip is retrievable by period
	rec = do(t, router, http.MethodGet, "/api/employees/emp-001/payroll/2025/4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode(t, rec)["result"])

	rec = do(t, router, http.MethodGet, "/api/employees/emp-001/payroll/2025/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunEmployeePayroll_Errors(t *testing.T) {
	_, router := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/employees", baseCaseSnapshot).Code)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown employee", "/api/employees/ghost/payroll?month=3&year=2025", http.StatusNotFound},
		{"month out of range", "/api/employees/emp-001/payroll?month=13&year=2025", http.StatusBadRequest},
		{"month not a number", "/api/employees/emp-001/payroll?month=march&year=2025", http.StatusBadRequest},
		{"year not a number", "/api/employees/emp-001/payroll?month=3&year=last", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestListEmployeePayroll_UnknownEmployee(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodGet, "/api/employees/ghost/payroll", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SCENARIOS AND PERIOD RUNS
// =============================================================================

func TestRunPayroll_FullTeam(t *testing.T) {
	// GIVEN: The four-employee scenario
	h, router := newTestServer(t, nil)
	rec := do(t, router, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "full-team"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: Running March 2025
	rec = do(t, router, http.MethodPost, "/api/payroll/run?month=3&year=2025", "")

	// THEN: Every employee is processed
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp BatchRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Processed)
	assert.Equal(t, 0, resp.Failed)

	nets := make(map[string]string)
	for _, item := range resp.Items {
		require.NotNil(t, item.NetSalary, item.EmployeeID)
		nets[item.EmployeeID] = item.NetSalary.Value.String()
	}
	assert.Equal(t, "35657.65", nets["emp-001"])
	assert.Equal(t, "38352.65", nets["emp-002"])
	assert.Equal(t, "37518.4", nets["emp-003"])

	// AND: The records are stored
	stored, err := h.Store.GetPayrollRecord(context.Background(), "emp-002", 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, "38352.65", stored.NetSalary.Value.String())
}

func TestRunPayroll_RequiresPeriod(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodPost, "/api/payroll/run?month=3", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarios_ListLoadCurrent(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodGet, "/api/scenarios", "")
	var list []ScenarioDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, len(scenarioSnapshots))

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "exempt-employee"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "exempt-employee", decode(t, rec)["id"])

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarios_AllSnapshotsAreValid(t *testing.T) {
	h, _ := newTestServer(t, nil)

	for id, snapshots := range scenarioSnapshots {
		for i, s := range snapshots {
			err := h.loadSnapshot(context.Background(), s)
			assert.NoError(t, err, "scenario %s snapshot %d", id, i)
		}
	}
}

// =============================================================================
// RATES
// =============================================================================

func TestGetRates(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodGet, "/api/rates", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "KE-2025", body["name"])
	assert.Equal(t, float64(1), body["version"])
	config := body["config"].(map[string]any)
	assert.Len(t, config["tax_brackets"], 5)
}

func TestGetRates_VersionSurvivesReset(t *testing.T) {
	_, router := newTestServer(t, nil)

	rec := do(t, router, http.MethodPost, "/api/scenarios/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/rates", "")
	assert.Equal(t, float64(1), decode(t, rec)["version"])
}

// =============================================================================
// LOGGING
// =============================================================================

func TestRequestLogger_ScopesRequestID(t *testing.T) {
	// GIVEN: An observed logger
	core, logs := observer.New(zapcore.InfoLevel)
	_, router := newTestServer(t, zap.New(core))

	// WHEN: Serving a request
	rec := do(t, router, http.MethodGet, "/api/scenarios", "")

	// THEN: One access line carries the request id echoed to the client
	rid := rec.Header().Get("X-Request-ID")
	require.NotEmpty(t, rid)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, rid, fields["request_id"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "/api/scenarios", fields["path"])
}
