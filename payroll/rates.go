/*
rates.go - Statutory rate, ceiling and bracket tables

PURPOSE:
  A RateTable is pure data: every percentage, ceiling, bracket and default
  the engine needs. It is loaded once (statutory presets or factory JSON/YAML)
  and passed to the Engine explicitly, so alternate tables (next year's
  rates, test tables) never require global mutation.

KEY CONCEPTS:
  - SeniorityBand:   [Min, Max) years of service -> bonus rate
  - AllowanceCeiling: min(base x MaxPercentage, AbsoluteCeiling)
  - SchemeRates:     employee/employer rates for one contribution scheme
  - TaxBracket:      [Min, Max) net taxable -> rate and deduction

BRACKET INVARIANT:
  Tax brackets partition [0, +inf): the first starts at zero, each one starts
  where the previous ended, and only the last is open-ended. Validate()
  enforces this so exactly one bracket matches any non-negative value.

SEE ALSO:
  - statutory/kenya.go: the default table
  - factory/rates.go: JSON/YAML loading
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// SENIORITY SCALE
// =============================================================================

// SeniorityBand is a half-open interval of years of service.
// A nil Max means the band is open-ended.
type SeniorityBand struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
}

func (b SeniorityBand) Contains(years decimal.Decimal) bool {
	if years.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || years.LessThan(*b.Max)
}

// =============================================================================
// ALLOWANCE CEILINGS
// =============================================================================

type AllowanceCeiling struct {
	MaxPercentage   decimal.Decimal
	AbsoluteCeiling money.Amount
}

// Cap returns the effective ceiling for a base salary.
func (c AllowanceCeiling) Cap(base money.Amount) money.Amount {
	return base.MulRate(c.MaxPercentage).Min(c.AbsoluteCeiling)
}

// Apply clamps a requested allowance to its ceiling.
func (c AllowanceCeiling) Apply(requested, base money.Amount) money.Amount {
	return requested.Min(c.Cap(base))
}

// =============================================================================
// CONTRIBUTION SCHEMES
// =============================================================================

// SchemeRates configures one contribution scheme.
type SchemeRates struct {
	EmployeeRate decimal.Decimal
	EmployerRate decimal.Decimal

	// BaseCeiling caps the base before the rate is applied (both sides).
	BaseCeiling *money.Amount

	// EmployeeCap caps the employee contribution after the rate.
	EmployeeCap *money.Amount

	// Threshold zeroes the scheme when taxable-gross is below it.
	Threshold *money.Amount

	// Fixed amounts substituted under a FixedDefault policy.
	DefaultEmployee money.Amount
	DefaultEmployer money.Amount
}

// Default returns the configured fixed default for a side.
func (s SchemeRates) Default(side Side) money.Amount {
	if side == SideEmployer {
		return s.DefaultEmployer
	}
	return s.DefaultEmployee
}

func (s SchemeRates) rate(side Side) decimal.Decimal {
	if side == SideEmployer {
		return s.EmployerRate
	}
	return s.EmployeeRate
}

// InsuranceRates holds the rate of each optional personal rider.
type InsuranceRates struct {
	Life            decimal.Decimal
	Disability      decimal.Decimal
	CriticalIllness decimal.Decimal
}

// ProfessionalExpenses is the flat allowance deducted before income tax:
// min(taxableGross x Rate, Ceiling).
type ProfessionalExpenses struct {
	Rate    decimal.Decimal
	Ceiling money.Amount
}

// =============================================================================
// TAX BRACKETS
// =============================================================================

// TaxBracket is a half-open interval of net taxable income. Tax inside the
// bracket is netTaxable x Rate - Deduction.
type TaxBracket struct {
	Min       money.Amount
	Max       *money.Amount
	Rate      decimal.Decimal
	Deduction money.Amount
}

func (b TaxBracket) Contains(v money.Amount) bool {
	if v.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || v.LessThan(*b.Max)
}

// =============================================================================
// RATE TABLE
// =============================================================================

type RateTable struct {
	Name string

	SeniorityScale []SeniorityBand

	HousingCeiling        AllowanceCeiling
	RepresentationCeiling AllowanceCeiling

	Schemes                 map[Scheme]SchemeRates
	HealthParticipationRate decimal.Decimal
	Insurances              InsuranceRates

	ProfessionalExpenses   ProfessionalExpenses
	DeductibleInterestRate decimal.Decimal
	ReferenceDays          int
	PersonalReliefPerUnit  money.Amount
	TaxBrackets            []TaxBracket
}

// Scheme returns the rates for a scheme; an unconfigured scheme is all zero.
func (t RateTable) Scheme(s Scheme) SchemeRates {
	return t.Schemes[s]
}

// SeniorityRate finds the band containing the given seniority.
// ok is false when no band matches (below the first band or a gap).
func (t RateTable) SeniorityRate(years decimal.Decimal) (rate decimal.Decimal, ok bool) {
	for _, band := range t.SeniorityScale {
		if band.Contains(years) {
			return band.Rate, true
		}
	}
	return decimal.Zero, false
}

// BracketFor returns the unique bracket containing v.
func (t RateTable) BracketFor(v money.Amount) (TaxBracket, bool) {
	for _, b := range t.TaxBrackets {
		if b.Contains(v) {
			return b, true
		}
	}
	return TaxBracket{}, false
}

// Validate checks the structural invariants of the table.
func (t RateTable) Validate() error {
	if len(t.TaxBrackets) == 0 {
		return &RateTableError{Table: t.Name, Reason: "no tax brackets"}
	}
	if !t.TaxBrackets[0].Min.IsZero() {
		return &RateTableError{Table: t.Name, Reason: "first tax bracket must start at 0", cause: ErrBracketGap}
	}
	for i, b := range t.TaxBrackets {
		last := i == len(t.TaxBrackets)-1
		if b.Rate.IsNegative() {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("tax bracket %d has a negative rate", i)}
		}
		if b.Max == nil {
			if !last {
				return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("tax bracket %d is open-ended but not last", i), cause: ErrBracketOverlap}
			}
			continue
		}
		if last {
			return &RateTableError{Table: t.Name, Reason: "last tax bracket must be open-ended", cause: ErrBracketGap}
		}
		if !b.Max.GreaterThan(b.Min) {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("tax bracket %d is empty", i), cause: ErrBracketOverlap}
		}
		next := t.TaxBrackets[i+1].Min
		switch {
		case next.GreaterThan(*b.Max):
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("gap between tax brackets %d and %d", i, i+1), cause: ErrBracketGap}
		case next.LessThan(*b.Max):
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("tax brackets %d and %d overlap", i, i+1), cause: ErrBracketOverlap}
		}
	}

	for i, band := range t.SeniorityScale {
		if band.Rate.IsNegative() {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("seniority band %d has a negative rate", i)}
		}
		if band.Max != nil && !band.Max.GreaterThan(band.Min) {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("seniority band %d is empty", i)}
		}
		if i == 0 {
			continue
		}
		prev := t.SeniorityScale[i-1]
		if prev.Max == nil || band.Min.LessThan(*prev.Max) {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("seniority bands %d and %d overlap or are unsorted", i-1, i)}
		}
	}

	for scheme, s := range t.Schemes {
		if s.EmployeeRate.IsNegative() || s.EmployerRate.IsNegative() {
			return &RateTableError{Table: t.Name, Reason: fmt.Sprintf("scheme %s has a negative rate", scheme)}
		}
	}

	if t.ReferenceDays <= 0 {
		return &RateTableError{Table: t.Name, Reason: "reference days must be positive"}
	}
	return nil
}
