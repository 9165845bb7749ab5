package factory

import (
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// ResultJSON is the payslip view of a payroll.Result. Amounts are rounded to
// cents here and nowhere earlier.
type ResultJSON struct {
	EmployeeID string `json:"employeeId"`
	Month      int    `json:"month,omitempty"`
	Year       int    `json:"year,omitempty"`

	Earnings              EarningsJSON            `json:"earnings"`
	EmployeeContributions map[string]money.Amount `json:"employeeContributions"`
	EmployerContributions map[string]money.Amount `json:"employerContributions"`
	Tax                   TaxJSON                 `json:"tax"`
	OtherDeductions       map[string]money.Amount `json:"otherDeductions"`

	GrossSalary        money.Amount `json:"grossSalary"`
	TaxableGrossSalary money.Amount `json:"taxableGrossSalary"`
	TotalDeductions    money.Amount `json:"totalDeductions"`
	NetSalaryPayable   money.Amount `json:"netSalaryPayable"`
	TotalEmployerCost  money.Amount `json:"totalEmployerCost"`
	NegativeNet        bool         `json:"negativeNet,omitempty"`

	Warnings []WarningJSON `json:"warnings,omitempty"`
}

type EarningsJSON struct {
	BaseSalary              money.Amount `json:"baseSalary"`
	SeniorityBonus          money.Amount `json:"seniorityBonus"`
	SeniorityRate           string       `json:"seniorityRate"`
	HousingAllowance        money.Amount `json:"housingAllowance"`
	MealAllowance           money.Amount `json:"mealAllowance"`
	TransportAllowance      money.Amount `json:"transportAllowance"`
	RepresentationAllowance money.Amount `json:"representationAllowance"`
	OvertimePay             money.Amount `json:"overtimePay"`
	ExceptionalBonuses      money.Amount `json:"exceptionalBonuses"`
	OtherEarnings           money.Amount `json:"otherEarnings"`
	Absences                money.Amount `json:"absences"`
	Lateness                money.Amount `json:"lateness"`
	VariableAdvances        money.Amount `json:"variableAdvances"`
	VariableDeductions      money.Amount `json:"variableDeductions"`
}

type TaxJSON struct {
	ProfessionalExpenses money.Amount `json:"professionalExpenses"`
	TaxableNet           money.Amount `json:"taxableNet"`
	AppliedDeduction     money.Amount `json:"appliedDeduction"`
	NetTaxable           money.Amount `json:"netTaxable"`
	BracketRate          string       `json:"bracketRate"`
	MonthlyTax           money.Amount `json:"monthlyTax"`
	TheoreticalTax       money.Amount `json:"theoreticalTax"`
	PersonalRelief       money.Amount `json:"personalRelief"`
	IncomeTax            money.Amount `json:"incomeTax"`
}

type WarningJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResultToJSON converts a Result to its payslip view.
func ResultToJSON(r payroll.Result) ResultJSON {
	e := r.Earnings
	emp := r.EmployeeContributions
	er := r.EmployerContributions

	out := ResultJSON{
		EmployeeID: string(r.EmployeeID),
		Month:      int(r.Period.Month),
		Year:       r.Period.Year,
		Earnings: EarningsJSON{
			BaseSalary:              e.BaseSalary.Round(),
			SeniorityBonus:          e.SeniorityBonus.Round(),
			SeniorityRate:           e.SeniorityRate.String(),
			HousingAllowance:        e.HousingAllowance.Round(),
			MealAllowance:           e.MealAllowance.Round(),
			TransportAllowance:      e.TransportAllowance.Round(),
			RepresentationAllowance: e.RepresentationAllowance.Round(),
			OvertimePay:             e.OvertimePay.Round(),
			ExceptionalBonuses:      e.ExceptionalBonuses.Round(),
			OtherEarnings:           e.OtherEarnings.Round(),
			Absences:                e.Variable.Absences.Round(),
			Lateness:                e.Variable.Lateness.Round(),
			VariableAdvances:        e.Variable.VariableAdvances.Round(),
			VariableDeductions:      e.Variable.OtherDeductions.Round(),
		},
		EmployeeContributions: roundAll(map[string]money.Amount{
			string(payroll.SchemeRetirement):           emp.Retirement,
			string(payroll.SchemeHealth):               emp.Health,
			string(payroll.SchemeHousingLevy):          emp.HousingLevy,
			string(payroll.SchemeSupplementaryPension): emp.SupplementaryPension,
			string(payroll.SchemeDiversifiedInsurance): emp.DiversifiedInsurance,
			"life_insurance":                           emp.LifeInsurance,
			"disability_insurance":                     emp.DisabilityInsurance,
			"critical_illness_insurance":               emp.CriticalIllnessInsurance,
			"total":                                    emp.Total(),
		}),
		EmployerContributions: roundAll(map[string]money.Amount{
			string(payroll.SchemeRetirement):           er.Retirement,
			string(payroll.SchemeHealth):               er.Health,
			"health_participation":                     er.HealthParticipation,
			string(payroll.SchemeHousingLevy):          er.HousingLevy,
			string(payroll.SchemeTrainingLevy):         er.TrainingLevy,
			string(payroll.SchemeSupplementaryPension): er.SupplementaryPension,
			string(payroll.SchemeDiversifiedInsurance): er.DiversifiedInsurance,
			string(payroll.SchemeWorkInjury):           er.WorkInjury,
			"total":                                    er.Total(),
		}),
		Tax: TaxJSON{
			ProfessionalExpenses: r.Tax.ProfessionalExpenses.Round(),
			TaxableNet:           r.Tax.TaxableNet.Round(),
			AppliedDeduction:     r.Tax.AppliedDeduction.Round(),
			NetTaxable:           r.Tax.NetTaxable.Round(),
			BracketRate:          r.Tax.BracketRate.String(),
			MonthlyTax:           r.Tax.MonthlyTax.Round(),
			TheoreticalTax:       r.Tax.TheoreticalTax.Round(),
			PersonalRelief:       r.Tax.PersonalRelief.Round(),
			IncomeTax:            r.Tax.IncomeTax.Round(),
		},
		OtherDeductions: roundAll(map[string]money.Amount{
			"mortgage_credit": r.OtherDeductions.MortgageCredit,
			"consumer_credit": r.OtherDeductions.ConsumerCredit,
			"salary_advance":  r.OtherDeductions.SalaryAdvance,
			"total":           r.OtherDeductions.Total(),
		}),
		GrossSalary:        r.GrossSalary.Round(),
		TaxableGrossSalary: r.TaxableGrossSalary.Round(),
		TotalDeductions:    r.TotalDeductions.Round(),
		NetSalaryPayable:   r.NetSalaryPayable.Round(),
		TotalEmployerCost:  r.TotalEmployerCost.Round(),
		NegativeNet:        r.NegativeNet(),
	}

	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, WarningJSON{Code: string(w.Code), Message: w.Message})
	}
	return out
}

func roundAll(m map[string]money.Amount) map[string]money.Amount {
	for k, v := range m {
		m[k] = v.Round()
	}
	return m
}
