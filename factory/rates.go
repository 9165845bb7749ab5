/*
Package factory converts JSON and YAML documents into payroll types.

PURPOSE:
  Rate tables change every fiscal year and employee snapshots arrive over
  HTTP. The factory turns both into the Go structs the engine consumes, so
  a new table is a new file, not a code change.

RATE TABLE SCHEMA (JSON; YAML uses the same keys):
  {
    "name": "KE-2025",
    "seniority_scale": [
      {"min": 0, "max": 2, "rate": 0},
      {"min": 2, "max": 5, "rate": 0.05},
      {"min": 25, "rate": 0.25}
    ],
    "housing_ceiling": {"max_percentage": 0.15, "absolute_ceiling": 15000},
    "representation_ceiling": {"max_percentage": 0.10, "absolute_ceiling": 10000},
    "schemes": {
      "retirement": {
        "employee_rate": 0.06, "employer_rate": 0.06,
        "base_ceiling": 72000, "employee_cap": 4320,
        "default_employee": 2160, "default_employer": 2160
      }
    },
    "health_participation_rate": 0.01,
    "insurances": {"life": 0.005, "disability": 0.003, "critical_illness": 0.002},
    "professional_expenses": {"rate": 0.20, "ceiling": 2500},
    "deductible_interest_rate": 0.10,
    "reference_days": 30,
    "personal_relief_per_unit": 2400,
    "tax_brackets": [
      {"min": 0, "max": 24000, "rate": 0.10, "deduction": 0},
      {"min": 800000, "rate": 0.35, "deduction": 37716.65}
    ]
  }

  A missing "max" means open-ended. Numbers may be written quoted or bare;
  they are read as decimals, never as float64.

KEY FEATURES:
  - Rejects unknown scheme names
  - Validates the resulting table (bracket partition, seniority bands)
  - ToJSON round-trips a table for GET /api/rates and the rate_tables store

USAGE:
  f := factory.NewRateTableFactory()
  table, err := f.LoadFile("rates/ke-2025.yaml")
  engine := payroll.NewEngine(table, logger)

SEE ALSO:
  - payroll/rates.go: RateTable type definition
  - statutory/kenya.go: the same table as Go code
  - factory/input.go: employee snapshot DTO
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SCHEMA TYPES
// =============================================================================

// RateTableJSON is the document form of a payroll.RateTable.
type RateTableJSON struct {
	Name                    string                `json:"name" yaml:"name"`
	SeniorityScale          []SeniorityBandJSON   `json:"seniority_scale" yaml:"seniority_scale"`
	HousingCeiling          CeilingJSON           `json:"housing_ceiling" yaml:"housing_ceiling"`
	RepresentationCeiling   CeilingJSON           `json:"representation_ceiling" yaml:"representation_ceiling"`
	Schemes                 map[string]SchemeJSON `json:"schemes" yaml:"schemes"`
	HealthParticipationRate decimal.Decimal       `json:"health_participation_rate" yaml:"health_participation_rate"`
	Insurances              InsurancesJSON        `json:"insurances" yaml:"insurances"`
	ProfessionalExpenses    ProfessionalJSON      `json:"professional_expenses" yaml:"professional_expenses"`
	DeductibleInterestRate  decimal.Decimal       `json:"deductible_interest_rate" yaml:"deductible_interest_rate"`
	ReferenceDays           int                   `json:"reference_days" yaml:"reference_days"`
	PersonalReliefPerUnit   decimal.Decimal       `json:"personal_relief_per_unit" yaml:"personal_relief_per_unit"`
	TaxBrackets             []TaxBracketJSON      `json:"tax_brackets" yaml:"tax_brackets"`
}

type SeniorityBandJSON struct {
	Min  decimal.Decimal  `json:"min" yaml:"min"`
	Max  *decimal.Decimal `json:"max,omitempty" yaml:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate" yaml:"rate"`
}

type CeilingJSON struct {
	MaxPercentage   decimal.Decimal `json:"max_percentage" yaml:"max_percentage"`
	AbsoluteCeiling decimal.Decimal `json:"absolute_ceiling" yaml:"absolute_ceiling"`
}

type SchemeJSON struct {
	EmployeeRate    decimal.Decimal  `json:"employee_rate" yaml:"employee_rate"`
	EmployerRate    decimal.Decimal  `json:"employer_rate" yaml:"employer_rate"`
	BaseCeiling     *decimal.Decimal `json:"base_ceiling,omitempty" yaml:"base_ceiling,omitempty"`
	EmployeeCap     *decimal.Decimal `json:"employee_cap,omitempty" yaml:"employee_cap,omitempty"`
	Threshold       *decimal.Decimal `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	DefaultEmployee decimal.Decimal  `json:"default_employee" yaml:"default_employee"`
	DefaultEmployer decimal.Decimal  `json:"default_employer" yaml:"default_employer"`
}

type InsurancesJSON struct {
	Life            decimal.Decimal `json:"life" yaml:"life"`
	Disability      decimal.Decimal `json:"disability" yaml:"disability"`
	CriticalIllness decimal.Decimal `json:"critical_illness" yaml:"critical_illness"`
}

type ProfessionalJSON struct {
	Rate    decimal.Decimal `json:"rate" yaml:"rate"`
	Ceiling decimal.Decimal `json:"ceiling" yaml:"ceiling"`
}

type TaxBracketJSON struct {
	Min       decimal.Decimal  `json:"min" yaml:"min"`
	Max       *decimal.Decimal `json:"max,omitempty" yaml:"max,omitempty"`
	Rate      decimal.Decimal  `json:"rate" yaml:"rate"`
	Deduction decimal.Decimal  `json:"deduction" yaml:"deduction"`
}

// =============================================================================
// RATE TABLE FACTORY
// =============================================================================

// RateTableFactory converts rate table documents to payroll.RateTable.
type RateTableFactory struct{}

// NewRateTableFactory creates a new rate table factory.
func NewRateTableFactory() *RateTableFactory {
	return &RateTableFactory{}
}

// ParseJSON parses and validates a JSON rate table.
func (f *RateTableFactory) ParseJSON(data []byte) (payroll.RateTable, error) {
	var rj RateTableJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return payroll.RateTable{}, fmt.Errorf("failed to parse rate table JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// ParseYAML parses and validates a YAML rate table.
func (f *RateTableFactory) ParseYAML(data []byte) (payroll.RateTable, error) {
	var rj RateTableJSON
	if err := yaml.Unmarshal(data, &rj); err != nil {
		return payroll.RateTable{}, fmt.Errorf("failed to parse rate table YAML: %w", err)
	}
	return f.FromJSON(rj)
}

// LoadFile reads a rate table from disk, choosing the format by extension.
func (f *RateTableFactory) LoadFile(path string) (payroll.RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return payroll.RateTable{}, fmt.Errorf("failed to read rate table: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return f.ParseYAML(data)
	default:
		return f.ParseJSON(data)
	}
}

// FromJSON converts RateTableJSON to a validated payroll.RateTable.
func (f *RateTableFactory) FromJSON(rj RateTableJSON) (payroll.RateTable, error) {
	table := payroll.RateTable{
		Name: rj.Name,
		HousingCeiling: payroll.AllowanceCeiling{
			MaxPercentage:   rj.HousingCeiling.MaxPercentage,
			AbsoluteCeiling: money.New(rj.HousingCeiling.AbsoluteCeiling),
		},
		RepresentationCeiling: payroll.AllowanceCeiling{
			MaxPercentage:   rj.RepresentationCeiling.MaxPercentage,
			AbsoluteCeiling: money.New(rj.RepresentationCeiling.AbsoluteCeiling),
		},
		Schemes:                 make(map[payroll.Scheme]payroll.SchemeRates, len(rj.Schemes)),
		HealthParticipationRate: rj.HealthParticipationRate,
		Insurances: payroll.InsuranceRates{
			Life:            rj.Insurances.Life,
			Disability:      rj.Insurances.Disability,
			CriticalIllness: rj.Insurances.CriticalIllness,
		},
		ProfessionalExpenses: payroll.ProfessionalExpenses{
			Rate:    rj.ProfessionalExpenses.Rate,
			Ceiling: money.New(rj.ProfessionalExpenses.Ceiling),
		},
		DeductibleInterestRate: rj.DeductibleInterestRate,
		ReferenceDays:          rj.ReferenceDays,
		PersonalReliefPerUnit:  money.New(rj.PersonalReliefPerUnit),
	}

	for _, bj := range rj.SeniorityScale {
		table.SeniorityScale = append(table.SeniorityScale, payroll.SeniorityBand{
			Min:  bj.Min,
			Max:  bj.Max,
			Rate: bj.Rate,
		})
	}

	for name, sj := range rj.Schemes {
		scheme := payroll.Scheme(name)
		if !scheme.Valid() {
			return payroll.RateTable{}, &payroll.RateTableError{Table: rj.Name, Reason: fmt.Sprintf("unknown scheme %q", name)}
		}
		table.Schemes[scheme] = payroll.SchemeRates{
			EmployeeRate:    sj.EmployeeRate,
			EmployerRate:    sj.EmployerRate,
			BaseCeiling:     optionalAmount(sj.BaseCeiling),
			EmployeeCap:     optionalAmount(sj.EmployeeCap),
			Threshold:       optionalAmount(sj.Threshold),
			DefaultEmployee: money.New(sj.DefaultEmployee),
			DefaultEmployer: money.New(sj.DefaultEmployer),
		}
	}

	for _, bj := range rj.TaxBrackets {
		table.TaxBrackets = append(table.TaxBrackets, payroll.TaxBracket{
			Min:       money.New(bj.Min),
			Max:       optionalAmount(bj.Max),
			Rate:      bj.Rate,
			Deduction: money.New(bj.Deduction),
		})
	}

	if err := table.Validate(); err != nil {
		return payroll.RateTable{}, err
	}
	return table, nil
}

// ToJSON converts a RateTable to RateTableJSON.
func (f *RateTableFactory) ToJSON(table payroll.RateTable) RateTableJSON {
	rj := RateTableJSON{
		Name: table.Name,
		HousingCeiling: CeilingJSON{
			MaxPercentage:   table.HousingCeiling.MaxPercentage,
			AbsoluteCeiling: table.HousingCeiling.AbsoluteCeiling.Value,
		},
		RepresentationCeiling: CeilingJSON{
			MaxPercentage:   table.RepresentationCeiling.MaxPercentage,
			AbsoluteCeiling: table.RepresentationCeiling.AbsoluteCeiling.Value,
		},
		Schemes:                 make(map[string]SchemeJSON, len(table.Schemes)),
		HealthParticipationRate: table.HealthParticipationRate,
		Insurances: InsurancesJSON{
			Life:            table.Insurances.Life,
			Disability:      table.Insurances.Disability,
			CriticalIllness: table.Insurances.CriticalIllness,
		},
		ProfessionalExpenses: ProfessionalJSON{
			Rate:    table.ProfessionalExpenses.Rate,
			Ceiling: table.ProfessionalExpenses.Ceiling.Value,
		},
		DeductibleInterestRate: table.DeductibleInterestRate,
		ReferenceDays:          table.ReferenceDays,
		PersonalReliefPerUnit:  table.PersonalReliefPerUnit.Value,
	}

	for _, band := range table.SeniorityScale {
		rj.SeniorityScale = append(rj.SeniorityScale, SeniorityBandJSON{Min: band.Min, Max: band.Max, Rate: band.Rate})
	}
	for scheme, s := range table.Schemes {
		rj.Schemes[string(scheme)] = SchemeJSON{
			EmployeeRate:    s.EmployeeRate,
			EmployerRate:    s.EmployerRate,
			BaseCeiling:     optionalDecimal(s.BaseCeiling),
			EmployeeCap:     optionalDecimal(s.EmployeeCap),
			Threshold:       optionalDecimal(s.Threshold),
			DefaultEmployee: s.DefaultEmployee.Value,
			DefaultEmployer: s.DefaultEmployer.Value,
		}
	}
	for _, b := range table.TaxBrackets {
		rj.TaxBrackets = append(rj.TaxBrackets, TaxBracketJSON{
			Min:       b.Min.Value,
			Max:       optionalDecimal(b.Max),
			Rate:      b.Rate,
			Deduction: b.Deduction.Value,
		})
	}
	return rj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func optionalAmount(d *decimal.Decimal) *money.Amount {
	if d == nil {
		return nil
	}
	a := money.New(*d)
	return &a
}

func optionalDecimal(a *money.Amount) *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Value
	return &d
}
