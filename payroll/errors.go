/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  The engine itself never fails: it is a total function over a valid Input
  and degrades lookup misses to zero. Errors exist at the boundaries:
  validating an Input before it reaches the engine, validating a RateTable
  when it is loaded, and the persistence collaborators.

ERROR CATEGORIES:
  1. Input errors - negative or missing amounts, bad periods
  2. Rate table errors - gaps/overlaps in brackets, negative rates
  3. Lookup errors - snapshots or records that do not exist

USAGE:
    if err := payroll.Validate(in); err != nil {
        var fe *payroll.FieldError
        if errors.As(err, &fe) { ... fe.Field ... }
    }

SEE ALSO:
  - validate.go: produces FieldError
  - rates.go: produces RateTableError
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is wrapped by every FieldError.
	ErrInvalidInput = errors.New("invalid payroll input")

	// ErrInvalidRateTable is wrapped by every RateTableError.
	ErrInvalidRateTable = errors.New("invalid rate table")

	// ErrBracketGap means some non-negative value matches no tax bracket.
	ErrBracketGap = errors.New("tax brackets leave a gap")

	// ErrBracketOverlap means some value matches more than one tax bracket.
	ErrBracketOverlap = errors.New("tax brackets overlap")

	// ErrEmployeeNotFound is returned by snapshot stores.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRecordNotFound is returned when no payroll record exists for a period.
	ErrRecordNotFound = errors.New("payroll record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// RateTableError describes a structural problem in a RateTable.
type RateTableError struct {
	Table  string
	Reason string
	cause  error
}

func (e *RateTableError) Error() string {
	if e.Table == "" {
		return "rate table: " + e.Reason
	}
	return fmt.Sprintf("rate table %q: %s", e.Table, e.Reason)
}

// Unwrap exposes both ErrInvalidRateTable and the specific cause, if any.
func (e *RateTableError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidRateTable}
	}
	return []error{ErrInvalidRateTable, e.cause}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidRateTable)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}
