package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
)

func baseEmployeeContributions(t *testing.T, in payroll.Input, taxableGross money.Amount) payroll.EmployeeContributions {
	t.Helper()
	employee, _ := payroll.CalculateContributions(in, taxableGross, statutory.Kenya2025())
	return employee
}

// =============================================================================
// INCOME TAX STEPS
// =============================================================================

func TestCalculateIncomeTax_BaseCase(t *testing.T) {
	// GIVEN: Taxable-gross 44,000 with standard contributions
	in := baseInput()
	tg := kes("44000")

	// WHEN: Computing income tax
	calc, warnings := payroll.CalculateIncomeTax(in, tg, baseEmployeeContributions(t, in, tg), statutory.Kenya2025())

	// THEN: 44000 - 2640 - 1210 - 0 - 2500 - 220 = 37430 falls in the 30% band
	assert.Empty(t, warnings)
	assert.True(t, calc.BracketFound)
	assertAmount(t, "2500", calc.ProfessionalExpenses)
	assertAmount(t, "37430", calc.TaxableNet)
	assertAmount(t, "0", calc.AppliedDeduction)
	assertAmount(t, "37430", calc.NetTaxable)
	assert.True(t, calc.BracketRate.Equal(money.Rate("0.30")))
	assertAmount(t, "6012.35", calc.MonthlyTax)
	assertAmount(t, "6012.35", calc.TheoreticalTax)
	assertAmount(t, "2400", calc.PersonalRelief)
	assertAmount(t, "3612.35", calc.IncomeTax)
}

func TestCalculateIncomeTax_ProfessionalExpensesBelowCeiling(t *testing.T) {
	in := baseInput()
	tg := kes("10000")

	calc, _ := payroll.CalculateIncomeTax(in, tg, payroll.EmployeeContributions{}, statutory.Kenya2025())

	assertAmount(t, "2000", calc.ProfessionalExpenses)
}

func TestCalculateIncomeTax_MortgageInterestCapped(t *testing.T) {
	// GIVEN: Mortgage interest of 10,000 against a taxable net of 37,430
	in := baseInput()
	in.Liabilities.Mortgage = &payroll.MortgageCredit{
		MonthlyAmount:      kes("3000"),
		DeductibleInterest: kes("10000"),
	}
	tg := kes("44000")

	// WHEN: Computing income tax
	calc, _ := payroll.CalculateIncomeTax(in, tg, baseEmployeeContributions(t, in, tg), statutory.Kenya2025())

	// THEN: Only 10% of taxable net is deductible
	assertAmount(t, "10000", calc.DeductibleInterest)
	assertAmount(t, "3743", calc.AppliedDeduction)
	assertAmount(t, "33687", calc.NetTaxable)
	// 33687 x 0.30 - 5216.65
	assertAmount(t, "4889.45", calc.MonthlyTax)
	assertAmount(t, "2489.45", calc.IncomeTax)
}

func TestCalculateIncomeTax_ProratedByWorkedDays(t *testing.T) {
	in := baseInput()
	in.WorkedDays = 15
	tg := kes("44000")

	calc, _ := payroll.CalculateIncomeTax(in, tg, baseEmployeeContributions(t, in, tg), statutory.Kenya2025())

	assertAmount(t, "6012.35", calc.MonthlyTax)
	assertAmount(t, "3006.175", calc.TheoreticalTax)
	assertAmount(t, "606.175", calc.IncomeTax)
}

func TestCalculateIncomeTax_ReliefNeverMakesTaxNegative(t *testing.T) {
	// GIVEN: Two dependents, relief 2400 x 3 = 7200 exceeds the monthly tax
	in := baseInput()
	in.DeductionUnits = 2
	tg := kes("44000")

	calc, _ := payroll.CalculateIncomeTax(in, tg, baseEmployeeContributions(t, in, tg), statutory.Kenya2025())

	assertAmount(t, "7200", calc.PersonalRelief)
	assertAmount(t, "0", calc.IncomeTax)
}

func TestCalculateIncomeTax_BracketMiss_ZeroWithWarning(t *testing.T) {
	// GIVEN: A table whose brackets stop at 1,000
	rates := statutory.Kenya2025()
	upper := kes("1000")
	rates.TaxBrackets = []payroll.TaxBracket{{Min: money.Zero(), Max: &upper, Rate: money.Rate("0.10")}}
	in := baseInput()
	tg := kes("44000")

	// WHEN: Computing income tax
	calc, warnings := payroll.CalculateIncomeTax(in, tg, baseEmployeeContributions(t, in, tg), rates)

	// THEN: Tax and relief are zero and the miss is reported
	assert.False(t, calc.BracketFound)
	assert.True(t, calc.IncomeTax.IsZero())
	assert.True(t, calc.PersonalRelief.IsZero())
	require.Len(t, warnings, 1)
	assert.Equal(t, payroll.WarningBracketMiss, warnings[0].Code)
}

// =============================================================================
// INTEREST CAP
// =============================================================================

func TestApplyInterestCap(t *testing.T) {
	rate := money.Rate("0.10")

	tests := []struct {
		name       string
		interest   string
		taxableNet string
		want       string
	}{
		{"cap binds", "10000", "50000", "5000"},
		{"interest below cap", "3000", "50000", "3000"},
		{"exactly at cap", "5000", "50000", "5000"},
		{"no interest", "0", "50000", "0"},
		{"negative taxable net", "1000", "-200", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.ApplyInterestCap(kes(tt.interest), kes(tt.taxableNet), rate)
			assertAmount(t, tt.want, got)
		})
	}
}
