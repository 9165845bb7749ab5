/*
policy.go - Compute-or-default contribution policies

PURPOSE:
  For every contribution scheme and every side (employee, employer) the
  caller picks one of two behaviours:

    Computed          rate x taxable-gross, with the scheme's ceilings
    FixedDefault(x)   a fixed amount x substituted for the computation

  The choice is a tagged variant resolved in exactly one place
  (Policies.For). A scheme/side with no entry is Computed.

EXAMPLE:
  policies := payroll.Policies{}.
      With(payroll.SchemeHealth, payroll.SideEmployee, payroll.FixedDefault{Amount: money.KES(300)})

  policies.For(payroll.SchemeHealth, payroll.SideEmployee)   // FixedDefault{300}
  policies.For(payroll.SchemeHealth, payroll.SideEmployer)   // Computed{}

SEE ALSO:
  - contributions.go: consumes the resolved policy
  - factory/input.go: converts legacy useXEmployee/useXEmployer flags
*/
package payroll

import "github.com/warp/payroll-engine/money"

// =============================================================================
// SCHEMES AND SIDES
// =============================================================================

type Scheme string

const (
	SchemeRetirement           Scheme = "retirement"
	SchemeHealth               Scheme = "health"
	SchemeHousingLevy          Scheme = "housing_levy"
	SchemeTrainingLevy         Scheme = "training_levy"
	SchemeSupplementaryPension Scheme = "supplementary_pension"
	SchemeDiversifiedInsurance Scheme = "diversified_insurance"
	SchemeWorkInjury           Scheme = "work_injury"
)

// Schemes lists every scheme in payslip order.
func Schemes() []Scheme {
	return []Scheme{
		SchemeRetirement,
		SchemeHealth,
		SchemeHousingLevy,
		SchemeTrainingLevy,
		SchemeSupplementaryPension,
		SchemeDiversifiedInsurance,
		SchemeWorkInjury,
	}
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool {
	for _, known := range Schemes() {
		if s == known {
			return true
		}
	}
	return false
}

type Side string

const (
	SideEmployee Side = "employee"
	SideEmployer Side = "employer"
)

// =============================================================================
// CONTRIBUTION POLICY - Computed | FixedDefault
// =============================================================================

// ContributionPolicy is a closed variant: Computed or FixedDefault.
type ContributionPolicy interface {
	contributionPolicy()
}

// Computed applies the scheme rate and ceilings.
type Computed struct{}

// FixedDefault substitutes Amount for the computed contribution.
type FixedDefault struct {
	Amount money.Amount
}

func (Computed) contributionPolicy()     {}
func (FixedDefault) contributionPolicy() {}

type policyKey struct {
	Scheme Scheme
	Side   Side
}

// Policies maps scheme/side pairs to a policy. The zero value is all Computed.
type Policies struct {
	m map[policyKey]ContributionPolicy
}

// With returns a copy of p with the policy for scheme/side set.
func (p Policies) With(scheme Scheme, side Side, policy ContributionPolicy) Policies {
	m := make(map[policyKey]ContributionPolicy, len(p.m)+1)
	for k, v := range p.m {
		m[k] = v
	}
	m[policyKey{Scheme: scheme, Side: side}] = policy
	return Policies{m: m}
}

// For resolves the policy for scheme/side, defaulting to Computed.
func (p Policies) For(scheme Scheme, side Side) ContributionPolicy {
	if policy, ok := p.m[policyKey{Scheme: scheme, Side: side}]; ok && policy != nil {
		return policy
	}
	return Computed{}
}

// Len is the number of explicitly set policies.
func (p Policies) Len() int { return len(p.m) }
