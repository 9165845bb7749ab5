/*
Package payroll provides the payroll calculation engine.

PURPOSE:
  Given one employee's contractual and statutory attributes for one pay
  period, the engine derives gross pay, every statutory employee and
  employer contribution, progressive income tax and net pay. The
  computation is a pure function: no I/O, no shared mutable state, the
  same Input always produces the same Result.

PIPELINE (strictly one-directional):
  Input
    -> AggregateElements       (elements.go)      variable pay folded into buckets
    -> CalculateEarnings       (earnings.go)      gross and taxable-gross
    -> CalculateContributions  (contributions.go) employee / employer lines
    -> CalculateIncomeTax      (tax.go)           taxable net, brackets, relief
    -> CalculateOtherDeductions(deductions.go)    credits and advances
    -> Engine.Calculate        (engine.go)        totals, net, employer cost

KEY CONCEPTS IN THIS FILE (types.go):
  - Input: immutable employee/period snapshot supplied by the caller
  - Result: fully derived output, never mutated after construction

DESIGN PRINCIPLES:
  1. Purity: the engine emits no I/O; logging of configuration warnings is
     the only side channel and it is optional
  2. Precision: money.Amount (decimal) so conservation holds exactly
  3. Explicit configuration: rates come from a RateTable passed in, never
     from package-level globals
  4. No internal rounding: callers round once, at presentation time

SEE ALSO:
  - rates.go: RateTable definition and lookups
  - policy.go: compute-or-default contribution policies
  - statutory/: preset rate tables
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// Employee carries identity data. The engine never reads it; it is echoed
// so callers can key the result.
type Employee struct {
	ID            EmployeeID
	FirstName     string
	LastName      string
	NationalID    string
	PensionNumber string
	MaritalStatus MaritalStatus
	DateOfBirth   time.Time
	HireDate      time.Time
}

// =============================================================================
// INPUT - Employee/period snapshot
// =============================================================================

// Period identifies the pay month.
type Period struct {
	Month time.Month
	Year  int
}

// Allowances are the requested allowance amounts before ceilings.
type Allowances struct {
	Housing        money.Amount
	Meal           money.Amount
	Transport      money.Amount
	Representation money.Amount
}

// Insurances are the three optional personal insurance riders.
type Insurances struct {
	Life            bool
	Disability      bool
	CriticalIllness bool
}

// MortgageCredit is a home loan whose interest is partly tax deductible.
type MortgageCredit struct {
	MonthlyAmount      money.Amount
	DeductibleInterest money.Amount
}

type ConsumerCredit struct {
	MonthlyAmount money.Amount
}

type SalaryAdvance struct {
	MonthlyAmount money.Amount
}

// Liabilities are optional; nil means the employee has none.
type Liabilities struct {
	Mortgage       *MortgageCredit
	ConsumerCredit *ConsumerCredit
	SalaryAdvance  *SalaryAdvance
}

// Subjection records whether the employee is statutorily subject to the
// schemes that allow exemption.
type Subjection struct {
	Retirement  bool
	Health      bool
	HousingLevy bool
}

// FullySubject is the common case: every exemptable scheme applies.
func FullySubject() Subjection {
	return Subjection{Retirement: true, Health: true, HousingLevy: true}
}

// Input is everything the engine needs for one employee and one period.
type Input struct {
	Employee Employee
	Period   Period

	// Seniority in fractional years.
	Seniority decimal.Decimal

	// Contractual workdays in the period; drives tax pro-ration against
	// RateTable.ReferenceDays. Zero means a full period.
	WorkedDays int

	// Number of dependents for personal relief.
	DeductionUnits int

	BaseSalary  money.Amount
	Allowances  Allowances
	Insurances  Insurances
	Liabilities Liabilities
	Elements    []VariableElement

	Subjection Subjection
	Policies   Policies
}

// =============================================================================
// RESULT - Fully derived output
// =============================================================================

// Earnings is the breakdown behind gross pay.
type Earnings struct {
	BaseSalary              money.Amount
	SeniorityBonus          money.Amount
	SeniorityRate           decimal.Decimal
	HousingAllowance        money.Amount
	MealAllowance           money.Amount
	TransportAllowance      money.Amount
	RepresentationAllowance money.Amount
	OvertimePay             money.Amount
	ExceptionalBonuses      money.Amount
	OtherEarnings           money.Amount
	Variable                VariableTotals
	GrossSalary             money.Amount
	TaxableGrossSalary      money.Amount
}

// TaxCalculation shows every intermediate step of the income tax.
type TaxCalculation struct {
	ProfessionalExpenses money.Amount
	TaxableNet           money.Amount
	DeductibleInterest   money.Amount
	AppliedDeduction     money.Amount
	NetTaxable           money.Amount
	BracketFound         bool
	BracketRate          decimal.Decimal
	BracketDeduction     money.Amount
	MonthlyTax           money.Amount
	TheoreticalTax       money.Amount
	PersonalRelief       money.Amount
	IncomeTax            money.Amount
}

// OtherDeductions are non-statutory deductions taken from net pay.
type OtherDeductions struct {
	MortgageCredit money.Amount
	ConsumerCredit money.Amount
	SalaryAdvance  money.Amount
}

// Total sums the three lines.
func (o OtherDeductions) Total() money.Amount {
	return money.Sum(o.MortgageCredit, o.ConsumerCredit, o.SalaryAdvance)
}

// Result is the complete payroll computation for one employee and period.
type Result struct {
	EmployeeID EmployeeID
	Period     Period

	Earnings              Earnings
	EmployeeContributions EmployeeContributions
	EmployerContributions EmployerContributions
	Tax                   TaxCalculation
	OtherDeductions       OtherDeductions

	GrossSalary        money.Amount
	TaxableGrossSalary money.Amount
	TotalDeductions    money.Amount
	NetSalaryPayable   money.Amount
	TotalEmployerCost  money.Amount

	// Configuration-integrity warnings raised while computing.
	Warnings []Warning
}

// =============================================================================
// WARNINGS
// =============================================================================

type WarningCode string

const (
	WarningSeniorityMiss  WarningCode = "seniority_band_miss"
	WarningBracketMiss    WarningCode = "tax_bracket_miss"
	WarningUnknownElement WarningCode = "unknown_element_type"
)

// Warning is a non-fatal anomaly. Bracket and band misses point at an
// incomplete RateTable; the engine degrades them to zero.
type Warning struct {
	Code    WarningCode
	Message string
}

// NegativeNet reports a valid but unusual outcome the caller must surface.
func (r Result) NegativeNet() bool {
	return r.NetSalaryPayable.IsNegative()
}
