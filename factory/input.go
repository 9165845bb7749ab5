package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

const dateLayout = "2006-01-02"

// =============================================================================
// SNAPSHOT SCHEMA
// =============================================================================

// InputJSON is the wire form of an employee/period snapshot. It keeps the
// flat flag layout payroll clients already send: subjectToX flags default to
// true, useXEmployee/useXEmployer default to true (computed). A false use
// flag selects the table's fixed default for that scheme and side.
type InputJSON struct {
	Employee EmployeeJSON `json:"employee"`
	Month    int          `json:"month,omitempty"`
	Year     int          `json:"year,omitempty"`

	Seniority      decimal.Decimal `json:"seniority"`
	WorkedDays     int             `json:"workedDays,omitempty"`
	DeductionUnits int             `json:"deductionUnits,omitempty"`

	BaseSalary              decimal.Decimal `json:"baseSalary"`
	HousingAllowance        decimal.Decimal `json:"housingAllowance"`
	MealAllowance           decimal.Decimal `json:"mealAllowance"`
	TransportAllowance      decimal.Decimal `json:"transportAllowance"`
	RepresentationAllowance decimal.Decimal `json:"representationAllowance"`

	LifeInsurance            bool `json:"lifeInsurance,omitempty"`
	DisabilityInsurance      bool `json:"disabilityInsurance,omitempty"`
	CriticalIllnessInsurance bool `json:"criticalIllnessInsurance,omitempty"`

	MortgageCredit *MortgageJSON    `json:"mortgageCredit,omitempty"`
	ConsumerCredit *InstallmentJSON `json:"consumerCredit,omitempty"`
	SalaryAdvance  *InstallmentJSON `json:"salaryAdvance,omitempty"`

	Elements []ElementJSON `json:"variableElements,omitempty"`

	SubjectToNssf        *bool `json:"subjectToNssf,omitempty"`
	SubjectToShif        *bool `json:"subjectToShif,omitempty"`
	SubjectToHousingLevy *bool `json:"subjectToHousingLevy,omitempty"`

	UseNssfEmployee                 *bool `json:"useNssfEmployee,omitempty"`
	UseNssfEmployer                 *bool `json:"useNssfEmployer,omitempty"`
	UseShifEmployee                 *bool `json:"useShifEmployee,omitempty"`
	UseShifEmployer                 *bool `json:"useShifEmployer,omitempty"`
	UseHousingLevyEmployee          *bool `json:"useHousingLevyEmployee,omitempty"`
	UseHousingLevyEmployer          *bool `json:"useHousingLevyEmployer,omitempty"`
	UseTrainingLevyEmployer         *bool `json:"useTrainingLevyEmployer,omitempty"`
	UseSupplementaryPensionEmployee *bool `json:"useSupplementaryPensionEmployee,omitempty"`
	UseSupplementaryPensionEmployer *bool `json:"useSupplementaryPensionEmployer,omitempty"`
	UseDiversifiedInsuranceEmployee *bool `json:"useDiversifiedInsuranceEmployee,omitempty"`
	UseDiversifiedInsuranceEmployer *bool `json:"useDiversifiedInsuranceEmployer,omitempty"`
	UseWorkInjuryEmployer           *bool `json:"useWorkInjuryEmployer,omitempty"`
}

type EmployeeJSON struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	NationalID    string `json:"nationalId,omitempty"`
	PensionNumber string `json:"pensionNumber,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	HireDate      string `json:"hireDate,omitempty"`    // YYYY-MM-DD
}

type MortgageJSON struct {
	MonthlyAmount      decimal.Decimal `json:"monthlyAmount"`
	DeductibleInterest decimal.Decimal `json:"deductibleInterest"`
}

type InstallmentJSON struct {
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
}

type ElementJSON struct {
	Type   string           `json:"type"`
	Amount decimal.Decimal  `json:"amount"`
	Hours  *decimal.Decimal `json:"hours,omitempty"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
	Label  string           `json:"label,omitempty"`
}

// =============================================================================
// INPUT FACTORY
// =============================================================================

// ParseInput parses a JSON snapshot and converts it against the given table.
func ParseInput(data []byte, rates payroll.RateTable) (payroll.Input, error) {
	var ij InputJSON
	if err := json.Unmarshal(data, &ij); err != nil {
		return payroll.Input{}, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return ij.ToInput(rates)
}

// ToInput converts the snapshot. The rate table supplies the fixed default
// amounts for any scheme whose use flag is false. Element types outside the
// known set are carried through unchanged; the engine reports them.
func (ij InputJSON) ToInput(rates payroll.RateTable) (payroll.Input, error) {
	employee, err := ij.Employee.toEmployee()
	if err != nil {
		return payroll.Input{}, err
	}

	in := payroll.Input{
		Employee:       employee,
		Period:         payroll.Period{Month: time.Month(ij.Month), Year: ij.Year},
		Seniority:      ij.Seniority,
		WorkedDays:     ij.WorkedDays,
		DeductionUnits: ij.DeductionUnits,
		BaseSalary:     money.New(ij.BaseSalary),
		Allowances: payroll.Allowances{
			Housing:        money.New(ij.HousingAllowance),
			Meal:           money.New(ij.MealAllowance),
			Transport:      money.New(ij.TransportAllowance),
			Representation: money.New(ij.RepresentationAllowance),
		},
		Insurances: payroll.Insurances{
			Life:            ij.LifeInsurance,
			Disability:      ij.DisabilityInsurance,
			CriticalIllness: ij.CriticalIllnessInsurance,
		},
		Subjection: payroll.Subjection{
			Retirement:  flag(ij.SubjectToNssf),
			Health:      flag(ij.SubjectToShif),
			HousingLevy: flag(ij.SubjectToHousingLevy),
		},
	}

	if m := ij.MortgageCredit; m != nil {
		in.Liabilities.Mortgage = &payroll.MortgageCredit{
			MonthlyAmount:      money.New(m.MonthlyAmount),
			DeductibleInterest: money.New(m.DeductibleInterest),
		}
	}
	if c := ij.ConsumerCredit; c != nil {
		in.Liabilities.ConsumerCredit = &payroll.ConsumerCredit{MonthlyAmount: money.New(c.MonthlyAmount)}
	}
	if a := ij.SalaryAdvance; a != nil {
		in.Liabilities.SalaryAdvance = &payroll.SalaryAdvance{MonthlyAmount: money.New(a.MonthlyAmount)}
	}

	for _, ej := range ij.Elements {
		in.Elements = append(in.Elements, ej.toElement())
	}

	in.Policies = ij.policies(rates)
	return in, nil
}

// policies turns the use flags into explicit policy variants.
func (ij InputJSON) policies(rates payroll.RateTable) payroll.Policies {
	flags := []struct {
		use    *bool
		scheme payroll.Scheme
		side   payroll.Side
	}{
		{ij.UseNssfEmployee, payroll.SchemeRetirement, payroll.SideEmployee},
		{ij.UseNssfEmployer, payroll.SchemeRetirement, payroll.SideEmployer},
		{ij.UseShifEmployee, payroll.SchemeHealth, payroll.SideEmployee},
		{ij.UseShifEmployer, payroll.SchemeHealth, payroll.SideEmployer},
		{ij.UseHousingLevyEmployee, payroll.SchemeHousingLevy, payroll.SideEmployee},
		{ij.UseHousingLevyEmployer, payroll.SchemeHousingLevy, payroll.SideEmployer},
		{ij.UseTrainingLevyEmployer, payroll.SchemeTrainingLevy, payroll.SideEmployer},
		{ij.UseSupplementaryPensionEmployee, payroll.SchemeSupplementaryPension, payroll.SideEmployee},
		{ij.UseSupplementaryPensionEmployer, payroll.SchemeSupplementaryPension, payroll.SideEmployer},
		{ij.UseDiversifiedInsuranceEmployee, payroll.SchemeDiversifiedInsurance, payroll.SideEmployee},
		{ij.UseDiversifiedInsuranceEmployer, payroll.SchemeDiversifiedInsurance, payroll.SideEmployer},
		{ij.UseWorkInjuryEmployer, payroll.SchemeWorkInjury, payroll.SideEmployer},
	}

	var p payroll.Policies
	for _, f := range flags {
		if flag(f.use) {
			continue
		}
		p = p.With(f.scheme, f.side, payroll.FixedDefault{Amount: rates.Scheme(f.scheme).Default(f.side)})
	}
	return p
}

func (ej EmployeeJSON) toEmployee() (payroll.Employee, error) {
	e := payroll.Employee{
		ID:            payroll.EmployeeID(ej.ID),
		FirstName:     ej.FirstName,
		LastName:      ej.LastName,
		NationalID:    ej.NationalID,
		PensionNumber: ej.PensionNumber,
		MaritalStatus: payroll.MaritalStatus(ej.MaritalStatus),
	}
	var err error
	if e.DateOfBirth, err = parseDate("employee.dateOfBirth", ej.DateOfBirth); err != nil {
		return payroll.Employee{}, err
	}
	if e.HireDate, err = parseDate("employee.hireDate", ej.HireDate); err != nil {
		return payroll.Employee{}, err
	}
	return e, nil
}

func (ej ElementJSON) toElement() payroll.VariableElement {
	t, ok := payroll.ParseElementType(ej.Type)
	if !ok {
		// Keep the caller's spelling so the warning names what was sent.
		t = payroll.ElementType(ej.Type)
	}
	el := payroll.VariableElement{
		Type:   t,
		Amount: money.New(ej.Amount),
		Hours:  ej.Hours,
		Label:  ej.Label,
	}
	if ej.Rate != nil {
		r := money.New(*ej.Rate)
		el.Rate = &r
	}
	return el
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &payroll.FieldError{Field: field, Message: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func flag(b *bool) bool {
	return b == nil || *b
}
