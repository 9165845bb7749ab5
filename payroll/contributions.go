/*
contributions.go - Statutory contributions calculator

PURPOSE:
  Computes the employee-side and employer-side contribution lines from
  taxable-gross salary.

PER SCHEME, PER SIDE:
  1. Not subject to the scheme (exemptable schemes only) -> 0
  2. Policy FixedDefault(x)                               -> x
  3. Policy Computed:
       below Threshold                                     -> 0
       base = min(taxableGross, BaseCeiling)
       amount = base x side rate
       employee side: amount = min(amount, EmployeeCap)

SCHEMES:
  Both sides:     retirement, health, housing levy, supplementary pension,
                  diversified insurance
  Employer only:  training levy, work injury, health participation sub-levy
  Employee only:  the three optional insurance riders (no policy, no mirror)

Totals are methods so they are always recomputed from the lines.
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// CONTRIBUTION LINES
// =============================================================================

type EmployeeContributions struct {
	Retirement               money.Amount
	Health                   money.Amount
	HousingLevy              money.Amount
	SupplementaryPension     money.Amount
	DiversifiedInsurance     money.Amount
	LifeInsurance            money.Amount
	DisabilityInsurance      money.Amount
	CriticalIllnessInsurance money.Amount
}

func (c EmployeeContributions) Total() money.Amount {
	return money.Sum(
		c.Retirement,
		c.Health,
		c.HousingLevy,
		c.SupplementaryPension,
		c.DiversifiedInsurance,
		c.LifeInsurance,
		c.DisabilityInsurance,
		c.CriticalIllnessInsurance,
	)
}

type EmployerContributions struct {
	Retirement           money.Amount
	Health               money.Amount
	HealthParticipation  money.Amount
	HousingLevy          money.Amount
	TrainingLevy         money.Amount
	SupplementaryPension money.Amount
	DiversifiedInsurance money.Amount
	WorkInjury           money.Amount
}

func (c EmployerContributions) Total() money.Amount {
	return money.Sum(
		c.Retirement,
		c.Health,
		c.HealthParticipation,
		c.HousingLevy,
		c.TrainingLevy,
		c.SupplementaryPension,
		c.DiversifiedInsurance,
		c.WorkInjury,
	)
}

// =============================================================================
// CALCULATOR
// =============================================================================

// CalculateContributions computes both sides from taxable-gross salary.
func CalculateContributions(in Input, taxableGross money.Amount, rates RateTable) (EmployeeContributions, EmployerContributions) {
	line := func(scheme Scheme, side Side, subject bool) money.Amount {
		return contribution(rates.Scheme(scheme), side, in.Policies.For(scheme, side), subject, taxableGross)
	}
	subj := in.Subjection

	employee := EmployeeContributions{
		Retirement:               line(SchemeRetirement, SideEmployee, subj.Retirement),
		Health:                   line(SchemeHealth, SideEmployee, subj.Health),
		HousingLevy:              line(SchemeHousingLevy, SideEmployee, subj.HousingLevy),
		SupplementaryPension:     line(SchemeSupplementaryPension, SideEmployee, true),
		DiversifiedInsurance:     line(SchemeDiversifiedInsurance, SideEmployee, true),
		LifeInsurance:            rider(in.Insurances.Life, taxableGross, rates.Insurances.Life),
		DisabilityInsurance:      rider(in.Insurances.Disability, taxableGross, rates.Insurances.Disability),
		CriticalIllnessInsurance: rider(in.Insurances.CriticalIllness, taxableGross, rates.Insurances.CriticalIllness),
	}

	participation := money.Zero()
	if subj.Health {
		participation = taxableGross.MulRate(rates.HealthParticipationRate)
	}

	employer := EmployerContributions{
		Retirement:           line(SchemeRetirement, SideEmployer, subj.Retirement),
		Health:               line(SchemeHealth, SideEmployer, subj.Health),
		HealthParticipation:  participation,
		HousingLevy:          line(SchemeHousingLevy, SideEmployer, subj.HousingLevy),
		TrainingLevy:         line(SchemeTrainingLevy, SideEmployer, true),
		SupplementaryPension: line(SchemeSupplementaryPension, SideEmployer, true),
		DiversifiedInsurance: line(SchemeDiversifiedInsurance, SideEmployer, true),
		WorkInjury:           line(SchemeWorkInjury, SideEmployer, true),
	}

	return employee, employer
}

func contribution(s SchemeRates, side Side, policy ContributionPolicy, subject bool, taxableGross money.Amount) money.Amount {
	if !subject {
		return money.Zero()
	}
	if p, ok := policy.(FixedDefault); ok {
		return p.Amount
	}
	return computeScheme(s, side, taxableGross)
}

func computeScheme(s SchemeRates, side Side, taxableGross money.Amount) money.Amount {
	if s.Threshold != nil && taxableGross.LessThan(*s.Threshold) {
		return money.Zero()
	}

	base := taxableGross
	if s.BaseCeiling != nil {
		base = base.Min(*s.BaseCeiling)
	}

	amount := base.MulRate(s.rate(side))
	if side == SideEmployee && s.EmployeeCap != nil {
		amount = amount.Min(*s.EmployeeCap)
	}
	return amount
}

func rider(enabled bool, taxableGross money.Amount, rate decimal.Decimal) money.Amount {
	if !enabled {
		return money.Zero()
	}
	return taxableGross.MulRate(rate)
}
