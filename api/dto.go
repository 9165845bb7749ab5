/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The snapshot and
  payslip bodies are the factory types (factory.InputJSON,
  factory.ResultJSON); this file only adds the envelopes around them.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:
    EmployeeDTO

  Payroll:
    PayrollRecordDTO, BatchRunResponse, BatchItemDTO

  Rates:
    RateTableDTO (wraps factory.RateTableJSON)

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers (payroll.Validate), not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/input.go, factory/result.go: snapshot and payslip bodies
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents a stored employee snapshot.
type EmployeeDTO struct {
	ID        string            `json:"id"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Snapshot  factory.InputJSON `json:"snapshot"`
	CreatedAt string            `json:"createdAt,omitempty"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// PayrollRecordDTO represents a stored payroll result.
type PayrollRecordDTO struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employeeId"`
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
	RateTable       string              `json:"rateTable"`
	GrossSalary     money.Amount        `json:"grossSalary"`
	TotalDeductions money.Amount        `json:"totalDeductions"`
	NetSalary       money.Amount        `json:"netSalary"`
	EmployerCost    money.Amount        `json:"employerCost"`
	Result          *factory.ResultJSON `json:"result,omitempty"`
	UpdatedAt       string              `json:"updatedAt,omitempty"`
}

// BatchRunResponse summarizes a payroll run over all stored employees.
type BatchRunResponse struct {
	Month     int            `json:"month"`
	Year      int            `json:"year"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	Items     []BatchItemDTO `json:"items"`
}

// BatchItemDTO is one employee's outcome within a batch run.
type BatchItemDTO struct {
	EmployeeID string        `json:"employeeId"`
	RecordID   string        `json:"recordId,omitempty"`
	NetSalary  *money.Amount `json:"netSalary,omitempty"`
	Warnings   int           `json:"warnings,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// RateTableDTO is the active rate table.
type RateTableDTO struct {
	Name    string                `json:"name"`
	Version int                   `json:"version,omitempty"`
	Config  factory.RateTableJSON `json:"config"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(rec sqlite.EmployeeRecord) (EmployeeDTO, error) {
	dto := EmployeeDTO{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
	if err := json.Unmarshal([]byte(rec.SnapshotJSON), &dto.Snapshot); err != nil {
		return EmployeeDTO{}, err
	}
	return dto, nil
}

func toPayrollRecordDTO(rec sqlite.PayrollRecord, withResult bool) PayrollRecordDTO {
	dto := PayrollRecordDTO{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		Month:           rec.Month,
		Year:            rec.Year,
		RateTable:       rec.RateTable,
		GrossSalary:     rec.GrossSalary.Round(),
		TotalDeductions: rec.TotalDeductions.Round(),
		NetSalary:       rec.NetSalary.Round(),
		EmployerCost:    rec.EmployerCost.Round(),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
	if withResult {
		var result factory.ResultJSON
		if err := json.Unmarshal([]byte(rec.ResultJSON), &result); err == nil {
			dto.Result = &result
		}
	}
	return dto
}
