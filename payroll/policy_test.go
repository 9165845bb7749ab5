package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/payroll"
)

func TestPolicies_ZeroValueIsComputed(t *testing.T) {
	var p payroll.Policies

	for _, scheme := range payroll.Schemes() {
		assert.Equal(t, payroll.Computed{}, p.For(scheme, payroll.SideEmployee))
		assert.Equal(t, payroll.Computed{}, p.For(scheme, payroll.SideEmployer))
	}
	assert.Equal(t, 0, p.Len())
}

func TestPolicies_WithReturnsCopy(t *testing.T) {
	// GIVEN: A policy set with one entry
	original := payroll.Policies{}.
		With(payroll.SchemeRetirement, payroll.SideEmployee, payroll.FixedDefault{Amount: kes("2160")})

	// WHEN: Deriving a new set from it
	derived := original.With(payroll.SchemeHealth, payroll.SideEmployer, payroll.FixedDefault{Amount: kes("300")})

	// THEN: The original is unchanged
	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, derived.Len())
	assert.Equal(t, payroll.Computed{}, original.For(payroll.SchemeHealth, payroll.SideEmployer))

	fixed, ok := derived.For(payroll.SchemeHealth, payroll.SideEmployer).(payroll.FixedDefault)
	assert.True(t, ok)
	assertAmount(t, "300", fixed.Amount)
}

func TestPolicies_NilPolicyFallsBackToComputed(t *testing.T) {
	p := payroll.Policies{}.With(payroll.SchemeHealth, payroll.SideEmployee, nil)

	assert.Equal(t, payroll.Computed{}, p.For(payroll.SchemeHealth, payroll.SideEmployee))
}

func TestScheme_Valid(t *testing.T) {
	assert.True(t, payroll.SchemeWorkInjury.Valid())
	assert.False(t, payroll.Scheme("pension").Valid())
}
