/*
Package statutory provides preset rate tables.

PURPOSE:
  A RateTable is pure data; this package is where the default figures live.
  Callers get a fresh table on each call, so mutating one never affects
  another engine.

TABLES:
  Kenya2025: the default table used by the server when no rates file is
  configured.

    Seniority bonus      0-2y 0%, 2-5y 5%, 5-12y 10%, 12-20y 15%,
                         20-25y 20%, 25y+ 25%
    Housing allowance    15% of base, ceiling 15,000
    Representation       10% of base, ceiling 10,000
    Retirement (NSSF)    6% / 6%, pensionable base ceiling 72,000,
                         employee contribution cap 4,320
    Health (SHIF)        2.75% / 2.75%, employee cap 5,000,
                         employer participation 1%
    Housing levy         1.5% / 1.5%
    Training levy        employer 1%
    Supplementary        3% / 3% from a taxable-gross of 50,000
    Diversified ins.     0.5% / 0.5%
    Work injury          employer 0.5%
    Riders               life 0.5%, disability 0.3%, critical illness 0.2%
    Professional exp.    20% capped at 2,500
    Interest deduction   10% of taxable net
    Personal relief      2,400 per unit
    PAYE bands           10% / 25% / 30% / 32.5% / 35%

SEE ALSO:
  - payroll/rates.go: RateTable
  - factory/rates.go: loading tables from JSON or YAML instead
*/
package statutory

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// Kenya2025 returns the default statutory table.
func Kenya2025() payroll.RateTable {
	return payroll.RateTable{
		Name: "KE-2025",

		SeniorityScale: []payroll.SeniorityBand{
			band(0, 2, "0"),
			band(2, 5, "0.05"),
			band(5, 12, "0.10"),
			band(12, 20, "0.15"),
			band(20, 25, "0.20"),
			{Min: decimal.NewFromInt(25), Rate: money.Rate("0.25")},
		},

		HousingCeiling: payroll.AllowanceCeiling{
			MaxPercentage:   money.Rate("0.15"),
			AbsoluteCeiling: money.FromInt(15000),
		},
		RepresentationCeiling: payroll.AllowanceCeiling{
			MaxPercentage:   money.Rate("0.10"),
			AbsoluteCeiling: money.FromInt(10000),
		},

		Schemes: map[payroll.Scheme]payroll.SchemeRates{
			payroll.SchemeRetirement: {
				EmployeeRate:    money.Rate("0.06"),
				EmployerRate:    money.Rate("0.06"),
				BaseCeiling:     kes(72000),
				EmployeeCap:     kes(4320),
				DefaultEmployee: money.FromInt(2160),
				DefaultEmployer: money.FromInt(2160),
			},
			payroll.SchemeHealth: {
				EmployeeRate:    money.Rate("0.0275"),
				EmployerRate:    money.Rate("0.0275"),
				EmployeeCap:     kes(5000),
				DefaultEmployee: money.FromInt(300),
				DefaultEmployer: money.FromInt(300),
			},
			payroll.SchemeHousingLevy: {
				EmployeeRate:    money.Rate("0.015"),
				EmployerRate:    money.Rate("0.015"),
				DefaultEmployee: money.FromInt(500),
				DefaultEmployer: money.FromInt(500),
			},
			payroll.SchemeTrainingLevy: {
				EmployerRate:    money.Rate("0.01"),
				DefaultEmployee: money.Zero(),
				DefaultEmployer: money.FromInt(50),
			},
			payroll.SchemeSupplementaryPension: {
				EmployeeRate:    money.Rate("0.03"),
				EmployerRate:    money.Rate("0.03"),
				Threshold:       kes(50000),
				DefaultEmployee: money.Zero(),
				DefaultEmployer: money.Zero(),
			},
			payroll.SchemeDiversifiedInsurance: {
				EmployeeRate:    money.Rate("0.005"),
				EmployerRate:    money.Rate("0.005"),
				DefaultEmployee: money.Zero(),
				DefaultEmployer: money.Zero(),
			},
			payroll.SchemeWorkInjury: {
				EmployerRate:    money.Rate("0.005"),
				DefaultEmployee: money.Zero(),
				DefaultEmployer: money.Zero(),
			},
		},
		HealthParticipationRate: money.Rate("0.01"),

		Insurances: payroll.InsuranceRates{
			Life:            money.Rate("0.005"),
			Disability:      money.Rate("0.003"),
			CriticalIllness: money.Rate("0.002"),
		},

		ProfessionalExpenses: payroll.ProfessionalExpenses{
			Rate:    money.Rate("0.20"),
			Ceiling: money.FromInt(2500),
		},
		DeductibleInterestRate: money.Rate("0.10"),
		ReferenceDays:          30,
		PersonalReliefPerUnit:  money.FromInt(2400),

		// Deductions keep the bands continuous: d(n) = d(n-1) + min(n) x (r(n) - r(n-1)).
		TaxBrackets: []payroll.TaxBracket{
			bracket("0", "24000", "0.10", "0"),
			bracket("24000", "32333", "0.25", "3600"),
			bracket("32333", "500000", "0.30", "5216.65"),
			bracket("500000", "800000", "0.325", "17716.65"),
			{Min: money.MustParse("800000"), Rate: money.Rate("0.35"), Deduction: money.MustParse("37716.65")},
		},
	}
}

func band(min, max int64, rate string) payroll.SeniorityBand {
	upper := decimal.NewFromInt(max)
	return payroll.SeniorityBand{Min: decimal.NewFromInt(min), Max: &upper, Rate: money.Rate(rate)}
}

func bracket(min, max, rate, deduction string) payroll.TaxBracket {
	upper := money.MustParse(max)
	return payroll.TaxBracket{
		Min:       money.MustParse(min),
		Max:       &upper,
		Rate:      money.Rate(rate),
		Deduction: money.MustParse(deduction),
	}
}

func kes(v int64) *money.Amount {
	a := money.FromInt(v)
	return &a
}
