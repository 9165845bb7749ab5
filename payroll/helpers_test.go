package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) *payroll.Engine {
	t.Helper()
	return payroll.NewEngine(statutory.Kenya2025(), nil)
}

// baseInput is a 40,000 KES employee with five years of service, subject to
// every scheme and working the full period.
func baseInput() payroll.Input {
	return payroll.Input{
		Employee: payroll.Employee{
			ID:            "emp-001",
			FirstName:     "Wanjiru",
			LastName:      "Kamau",
			MaritalStatus: payroll.MaritalSingle,
			DateOfBirth:   time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
			HireDate:      time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
		},
		Period:     payroll.Period{Month: time.March, Year: 2025},
		Seniority:  decimal.NewFromInt(5),
		BaseSalary: money.FromInt(40000),
		Subjection: payroll.FullySubject(),
	}
}

func years(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func kes(v string) money.Amount {
	return money.MustParse(v)
}

func assertAmount(t *testing.T, expected string, actual money.Amount, msgAndArgs ...interface{}) {
	t.Helper()
	want := money.MustParse(expected)
	if !assert.True(t, want.Equal(actual), msgAndArgs...) {
		t.Logf("expected %s, got %s", want, actual)
	}
}
