package payroll

import (
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/money"
)

// Validate checks an Input at the boundary, before it reaches the engine.
// The engine itself stays permissive; callers that accept untrusted data
// (the HTTP API, the snapshot store) call this and fail fast instead.
// All violations are joined into one error.
func Validate(in Input) error {
	var errs []error
	nonNegative := func(field string, a money.Amount) {
		if a.IsNegative() {
			errs = append(errs, &FieldError{Field: field, Message: "must not be negative"})
		}
	}

	nonNegative("baseSalary", in.BaseSalary)
	nonNegative("allowances.housing", in.Allowances.Housing)
	nonNegative("allowances.meal", in.Allowances.Meal)
	nonNegative("allowances.transport", in.Allowances.Transport)
	nonNegative("allowances.representation", in.Allowances.Representation)

	if in.Seniority.IsNegative() {
		errs = append(errs, &FieldError{Field: "seniority", Message: "must not be negative"})
	}
	if in.WorkedDays < 0 {
		errs = append(errs, &FieldError{Field: "workedDays", Message: "must not be negative"})
	}
	if in.DeductionUnits < 0 {
		errs = append(errs, &FieldError{Field: "deductionUnits", Message: "must not be negative"})
	}

	if in.Period.Month != 0 && (in.Period.Month < 1 || in.Period.Month > 12) {
		errs = append(errs, &FieldError{Field: "period.month", Message: fmt.Sprintf("%d is not a month", in.Period.Month)})
	}

	if m := in.Liabilities.Mortgage; m != nil {
		nonNegative("mortgage.monthlyAmount", m.MonthlyAmount)
		nonNegative("mortgage.deductibleInterest", m.DeductibleInterest)
	}
	if c := in.Liabilities.ConsumerCredit; c != nil {
		nonNegative("consumerCredit.monthlyAmount", c.MonthlyAmount)
	}
	if a := in.Liabilities.SalaryAdvance; a != nil {
		nonNegative("salaryAdvance.monthlyAmount", a.MonthlyAmount)
	}

	for i, e := range in.Elements {
		if e.Hours != nil && e.Hours.IsNegative() {
			errs = append(errs, &FieldError{Field: fmt.Sprintf("elements[%d].hours", i), Message: "must not be negative"})
		}
		if e.Rate != nil && e.Rate.IsNegative() {
			errs = append(errs, &FieldError{Field: fmt.Sprintf("elements[%d].rate", i), Message: "must not be negative"})
		}
	}

	if !in.Employee.DateOfBirth.IsZero() && !in.Employee.HireDate.IsZero() &&
		in.Employee.HireDate.Before(in.Employee.DateOfBirth) {
		errs = append(errs, &FieldError{Field: "employee.hireDate", Message: "is before date of birth"})
	}

	return errors.Join(errs...)
}
