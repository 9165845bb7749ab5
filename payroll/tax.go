/*
tax.go - Income tax calculator

PURPOSE:
  Derives the income tax payable for the period from taxable-gross salary
  and the employee contributions already computed.

STEPS:
  1. professional expenses  = min(taxableGross x rate, ceiling)
  2. taxable net            = taxableGross - retirement - health
                              - supplementary pension - professional expenses
                              - diversified insurance
     (insurance riders and the housing levy are not deducted)
  3. applied deduction      = min(mortgage interest, taxableNet x 10%)
  4. net taxable            = taxable net - applied deduction
  5. monthly tax            = max(0, netTaxable x rate - bracket deduction)
  6. theoretical tax        = monthly tax x workedDays / referenceDays
  7. personal relief        = relief per unit x (1 + deduction units)
  8. income tax             = max(0, theoretical tax - personal relief)

BRACKET MISS:
  A validated table is closed at +inf, so every non-negative value has a
  bracket. Should a lookup still miss (negative net taxable, or a table
  that skipped Validate) the result is zero tax and zero relief, plus a
  WarningBracketMiss. This is a fallback, not a tax rule.
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// CalculateIncomeTax runs steps 1-8 above.
func CalculateIncomeTax(in Input, taxableGross money.Amount, employee EmployeeContributions, rates RateTable) (TaxCalculation, []Warning) {
	profExpenses := taxableGross.
		MulRate(rates.ProfessionalExpenses.Rate).
		Min(rates.ProfessionalExpenses.Ceiling).
		FloorZero()

	taxableNet := taxableGross.
		Sub(employee.Retirement).
		Sub(employee.Health).
		Sub(employee.SupplementaryPension).
		Sub(profExpenses).
		Sub(employee.DiversifiedInsurance)

	interest := money.Zero()
	if in.Liabilities.Mortgage != nil {
		interest = in.Liabilities.Mortgage.DeductibleInterest
	}
	applied := ApplyInterestCap(interest, taxableNet, rates.DeductibleInterestRate)
	netTaxable := taxableNet.Sub(applied)

	calc := TaxCalculation{
		ProfessionalExpenses: profExpenses,
		TaxableNet:           taxableNet,
		DeductibleInterest:   interest,
		AppliedDeduction:     applied,
		NetTaxable:           netTaxable,
		BracketRate:          decimal.Zero,
		BracketDeduction:     money.Zero(),
		MonthlyTax:           money.Zero(),
		TheoreticalTax:       money.Zero(),
		PersonalRelief:       money.Zero(),
		IncomeTax:            money.Zero(),
	}

	bracket, ok := rates.BracketFor(netTaxable)
	if !ok {
		return calc, []Warning{{
			Code:    WarningBracketMiss,
			Message: fmt.Sprintf("no tax bracket contains net taxable %s; tax set to zero", netTaxable),
		}}
	}

	calc.BracketFound = true
	calc.BracketRate = bracket.Rate
	calc.BracketDeduction = bracket.Deduction
	calc.MonthlyTax = netTaxable.MulRate(bracket.Rate).Sub(bracket.Deduction).FloorZero()
	calc.TheoreticalTax = prorate(calc.MonthlyTax, in.WorkedDays, rates.ReferenceDays)
	calc.PersonalRelief = rates.PersonalReliefPerUnit.Mul(decimal.NewFromInt(int64(1 + in.DeductionUnits)))
	calc.IncomeTax = calc.TheoreticalTax.Sub(calc.PersonalRelief).FloorZero()

	return calc, nil
}

// ApplyInterestCap returns min(interest, taxableNet x rate), never negative.
func ApplyInterestCap(interest, taxableNet money.Amount, rate decimal.Decimal) money.Amount {
	limit := taxableNet.MulRate(rate).FloorZero()
	return interest.FloorZero().Min(limit)
}

// prorate scales a monthly figure by days/referenceDays. Non-positive days
// mean a full period.
func prorate(monthly money.Amount, days, referenceDays int) money.Amount {
	if days <= 0 || days == referenceDays || referenceDays <= 0 {
		return monthly
	}
	return monthly.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(referenceDays)))
}
