package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// EARNINGS CALCULATOR
// =============================================================================

// CalculateEarnings derives gross and taxable-gross salary.
//
// Order of operations:
//  1. seniority bonus = base x rate(band containing seniority)
//  2. housing allowance clamped to min(base x pct, ceiling)
//  3. representation allowance clamped the same way
//  4. meal and transport pass through
//  5. gross = base + bonus + allowances + overtime + bonuses + other earnings
//  6. taxable-gross = gross - transport - representation
//
// Clamped allowances are reduced to their ceiling, never dropped.
func CalculateEarnings(in Input, variable VariableTotals, rates RateTable) (Earnings, []Warning) {
	var warnings []Warning
	base := in.BaseSalary

	seniorityRate, ok := rates.SeniorityRate(in.Seniority)
	if !ok && len(rates.SeniorityScale) > 0 && !belowScale(rates.SeniorityScale, in.Seniority) {
		warnings = append(warnings, Warning{
			Code:    WarningSeniorityMiss,
			Message: fmt.Sprintf("no seniority band contains %s years; bonus set to zero", in.Seniority),
		})
	}
	seniorityBonus := base.MulRate(seniorityRate)

	housing := rates.HousingCeiling.Apply(in.Allowances.Housing, base)
	representation := rates.RepresentationCeiling.Apply(in.Allowances.Representation, base)
	meal := in.Allowances.Meal
	transport := in.Allowances.Transport

	gross := money.Sum(
		base,
		seniorityBonus,
		housing,
		meal,
		transport,
		representation,
		variable.OvertimePay,
		variable.ExceptionalBonuses,
		variable.OtherEarnings,
	)
	taxableGross := gross.Sub(transport).Sub(representation)

	return Earnings{
		BaseSalary:              base,
		SeniorityBonus:          seniorityBonus,
		SeniorityRate:           seniorityRate,
		HousingAllowance:        housing,
		MealAllowance:           meal,
		TransportAllowance:      transport,
		RepresentationAllowance: representation,
		OvertimePay:             variable.OvertimePay,
		ExceptionalBonuses:      variable.ExceptionalBonuses,
		OtherEarnings:           variable.OtherEarnings,
		Variable:                variable,
		GrossSalary:             gross,
		TaxableGrossSalary:      taxableGross,
	}, warnings
}

// belowScale is the one legitimate miss: seniority below the first band.
func belowScale(scale []SeniorityBand, years decimal.Decimal) bool {
	return len(scale) > 0 && years.LessThan(scale[0].Min)
}
