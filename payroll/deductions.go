package payroll

import "github.com/warp/payroll-engine/money"

// CalculateOtherDeductions sums the monthly credit and advance installments
// attached to the input. Absent records count as zero. Eligibility and caps
// are the caller's concern.
func CalculateOtherDeductions(l Liabilities) OtherDeductions {
	out := OtherDeductions{
		MortgageCredit: money.Zero(),
		ConsumerCredit: money.Zero(),
		SalaryAdvance:  money.Zero(),
	}
	if l.Mortgage != nil {
		out.MortgageCredit = l.Mortgage.MonthlyAmount
	}
	if l.ConsumerCredit != nil {
		out.ConsumerCredit = l.ConsumerCredit.MonthlyAmount
	}
	if l.SalaryAdvance != nil {
		out.SalaryAdvance = l.SalaryAdvance.MonthlyAmount
	}
	return out
}
