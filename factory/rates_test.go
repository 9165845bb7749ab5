package factory_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
)

func TestRateTableFactory_LoadYAMLFile(t *testing.T) {
	// GIVEN: The default table written out as YAML
	f := factory.NewRateTableFactory()

	// WHEN: Loading it
	table, err := f.LoadFile("testdata/ke-2025.yaml")
	require.NoError(t, err)

	// THEN: It is the same table as the Go preset
	assert.Equal(t, "KE-2025-file", table.Name)
	assert.Len(t, table.SeniorityScale, 6)
	assert.Len(t, table.TaxBrackets, 5)
	assert.Nil(t, table.TaxBrackets[4].Max)
	assert.Equal(t, 30, table.ReferenceDays)

	retirement := table.Scheme(payroll.SchemeRetirement)
	require.NotNil(t, retirement.BaseCeiling)
	assert.True(t, retirement.BaseCeiling.Equal(money.FromInt(72000)))
	assert.True(t, retirement.EmployeeRate.Equal(money.Rate("0.06")))

	// AND: Produces identical payroll results
	in := payroll.Input{
		BaseSalary: money.FromInt(40000),
		Seniority:  money.Rate("5"),
		Subjection: payroll.FullySubject(),
	}
	fromFile := payroll.NewEngine(table, nil).Calculate(in)
	fromCode := payroll.NewEngine(statutory.Kenya2025(), nil).Calculate(in)
	assert.True(t, fromFile.NetSalaryPayable.Equal(fromCode.NetSalaryPayable))
	assert.True(t, fromFile.NetSalaryPayable.Equal(money.MustParse("35657.65")))
}

func TestRateTableFactory_JSONRoundTrip(t *testing.T) {
	f := factory.NewRateTableFactory()

	data, err := json.Marshal(f.ToJSON(statutory.Kenya2025()))
	require.NoError(t, err)

	table, err := f.ParseJSON(data)
	require.NoError(t, err)

	want := statutory.Kenya2025()
	assert.Equal(t, want.Name, table.Name)
	assert.Len(t, table.Schemes, len(want.Schemes))
	for i, b := range want.TaxBrackets {
		assert.True(t, b.Min.Equal(table.TaxBrackets[i].Min), "bracket %d min", i)
		assert.True(t, b.Deduction.Equal(table.TaxBrackets[i].Deduction), "bracket %d deduction", i)
	}
	supp := table.Scheme(payroll.SchemeSupplementaryPension)
	require.NotNil(t, supp.Threshold)
	assert.True(t, supp.Threshold.Equal(money.FromInt(50000)))
}

func TestRateTableFactory_BareNumbersAccepted(t *testing.T) {
	doc := `{
		"name": "tiny",
		"reference_days": 30,
		"personal_relief_per_unit": 100,
		"tax_brackets": [
			{"min": 0, "max": "1000", "rate": 0.1, "deduction": 0},
			{"min": 1000, "rate": "0.2", "deduction": 100}
		]
	}`

	table, err := factory.NewRateTableFactory().ParseJSON([]byte(doc))

	require.NoError(t, err)
	assert.True(t, table.TaxBrackets[0].Max.Equal(money.FromInt(1000)))
	assert.True(t, table.TaxBrackets[1].Rate.Equal(money.Rate("0.2")))
}

func TestRateTableFactory_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{
			name: "unknown scheme",
			doc: `{"reference_days": 30, "schemes": {"pension": {}},
				"tax_brackets": [{"min": 0, "rate": 0.1}]}`,
			is: payroll.ErrInvalidRateTable,
		},
		{
			name: "bracket gap",
			doc: `{"reference_days": 30, "tax_brackets": [
				{"min": 0, "max": 100, "rate": 0.1},
				{"min": 200, "rate": 0.2}]}`,
			is: payroll.ErrBracketGap,
		},
		{
			name: "bracket overlap",
			doc: `{"reference_days": 30, "tax_brackets": [
				{"min": 0, "max": 300, "rate": 0.1},
				{"min": 200, "rate": 0.2}]}`,
			is: payroll.ErrBracketOverlap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.NewRateTableFactory().ParseJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), "got %v", err)
		})
	}
}

func TestRateTableFactory_MalformedDocuments(t *testing.T) {
	f := factory.NewRateTableFactory()

	_, err := f.ParseJSON([]byte(`{"tax_brackets": [`))
	assert.Error(t, err)

	_, err = f.ParseYAML([]byte("tax_brackets: [\n  - {min: 0"))
	assert.Error(t, err)

	_, err = f.LoadFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}
