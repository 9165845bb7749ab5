/*
engine.go - Payroll assembler

PURPOSE:
  Runs the calculators in order and assembles the Result:

    totalDeductions   = employee contributions + income tax + other deductions
    netSalaryPayable  = gross - totalDeductions
    totalEmployerCost = gross + employer contributions

NEGATIVE NET:
  Net pay is not clamped. A negative value is a valid outcome the caller
  must surface (hard error, carried-forward debt ...); see Result.NegativeNet.

CONCURRENCY:
  An Engine only reads its RateTable, so one Engine can serve any number of
  goroutines. Each Calculate call is independent.

EXAMPLE:
  engine := payroll.NewEngine(statutory.Kenya2025(), logger)
  result := engine.Calculate(input)
  fmt.Println(result.NetSalaryPayable.Round())

SEE ALSO:
  - types.go: Input and Result
  - validate.go: boundary checks to run before Calculate
*/
package payroll

import (
	"fmt"

	"go.uber.org/zap"
)

// Engine computes payroll results against one RateTable.
type Engine struct {
	Rates  RateTable
	Logger *zap.Logger
}

// NewEngine builds an engine. A nil logger discards warnings.
func NewEngine(rates RateTable, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Rates: rates, Logger: logger}
}

// Calculate is the single logical operation of the engine. It is pure:
// the same input always yields the same result.
func (e *Engine) Calculate(in Input) Result {
	variable := AggregateElements(in.Elements)

	var warnings []Warning
	for _, ignored := range variable.Ignored {
		warnings = append(warnings, Warning{
			Code:    WarningUnknownElement,
			Message: fmt.Sprintf("variable element type %q ignored", ignored.Type),
		})
	}

	earnings, w := CalculateEarnings(in, variable, e.Rates)
	warnings = append(warnings, w...)

	employee, employer := CalculateContributions(in, earnings.TaxableGrossSalary, e.Rates)

	tax, w := CalculateIncomeTax(in, earnings.TaxableGrossSalary, employee, e.Rates)
	warnings = append(warnings, w...)

	other := CalculateOtherDeductions(in.Liabilities)

	gross := earnings.GrossSalary
	totalDeductions := employee.Total().Add(tax.IncomeTax).Add(other.Total())

	result := Result{
		EmployeeID:            in.Employee.ID,
		Period:                in.Period,
		Earnings:              earnings,
		EmployeeContributions: employee,
		EmployerContributions: employer,
		Tax:                   tax,
		OtherDeductions:       other,
		GrossSalary:           gross,
		TaxableGrossSalary:    earnings.TaxableGrossSalary,
		TotalDeductions:       totalDeductions,
		NetSalaryPayable:      gross.Sub(totalDeductions),
		TotalEmployerCost:     gross.Add(employer.Total()),
		Warnings:              warnings,
	}

	e.logWarnings(result)
	return result
}

func (e *Engine) logWarnings(r Result) {
	if e.Logger == nil {
		return
	}
	for _, w := range r.Warnings {
		e.Logger.Warn("payroll configuration warning",
			zap.String("employee_id", string(r.EmployeeID)),
			zap.String("code", string(w.Code)),
			zap.String("detail", w.Message),
			zap.String("rate_table", e.Rates.Name),
		)
	}
	if r.NegativeNet() {
		e.Logger.Info("negative net salary",
			zap.String("employee_id", string(r.EmployeeID)),
			zap.Stringer("net", r.NetSalaryPayable),
		)
	}
}

// Summary is a one-line description for logs.
func (r Result) Summary() string {
	return fmt.Sprintf("employee=%s period=%d-%02d gross=%s deductions=%s net=%s employer_cost=%s",
		r.EmployeeID, r.Period.Year, int(r.Period.Month),
		r.GrossSalary.Round(), r.TotalDeductions.Round(),
		r.NetSalaryPayable.Round(), r.TotalEmployerCost.Round())
}
