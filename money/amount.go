/*
Package money provides the currency amount used by the payroll engine.

PURPOSE:
  Every figure the engine produces (gross pay, contributions, tax, net pay)
  is an Amount. Amounts are backed by decimal.Decimal so that the
  conservation rules (net + deductions == gross) hold exactly instead of
  approximately, which is what floating-point would give us.

ROUNDING:
  The engine never rounds mid-pipeline. Round() exists for the presentation
  layer (payslips, API responses) and must be applied once, at the edge.

USAGE:
  base := money.KES(40000)
  bonus := base.MulRate(money.Rate("0.10"))   // 4000.00 KES
  gross := base.Add(bonus)

SEE ALSO:
  - payroll/rates.go: rate tables expressed as decimal rates
  - payroll/engine.go: the pipeline that combines amounts
*/
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY
// =============================================================================

type Currency string

// CurrencyKES is the only currency the engine supports.
const CurrencyKES Currency = "KES"

// =============================================================================
// AMOUNT - Quantity of money in a currency
// =============================================================================

type Amount struct {
	Value    decimal.Decimal
	Currency Currency
}

func New(value decimal.Decimal) Amount {
	return Amount{Value: value, Currency: CurrencyKES}
}

// KES builds an amount from a float literal. Use for tests and presets only;
// request data should go through Parse so no binary rounding leaks in.
func KES(value float64) Amount {
	return New(decimal.NewFromFloat(value))
}

func FromInt(value int64) Amount {
	return New(decimal.NewFromInt(value))
}

// Zero returns a zero KES amount.
func Zero() Amount {
	return New(decimal.Zero)
}

// Parse reads a decimal string such as "40000.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return New(d), nil
}

// MustParse is Parse for literals that are known to be valid.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Rate parses a decimal rate literal ("0.0275"). Invalid literals become zero,
// the same fallback generic.MustParseDecimal used.
func Rate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) currency() Currency {
	if a.Currency == "" {
		return CurrencyKES
	}
	return a.Currency
}

func (a Amount) Add(b Amount) Amount             { return Amount{Value: a.Value.Add(b.Value), Currency: a.currency()} }
func (a Amount) Sub(b Amount) Amount             { return Amount{Value: a.Value.Sub(b.Value), Currency: a.currency()} }
func (a Amount) Mul(s decimal.Decimal) Amount    { return Amount{Value: a.Value.Mul(s), Currency: a.currency()} }
func (a Amount) MulRate(r decimal.Decimal) Amount { return a.Mul(r) }
func (a Amount) Div(s decimal.Decimal) Amount    { return Amount{Value: a.Value.Div(s), Currency: a.currency()} }
func (a Amount) Neg() Amount                     { return Amount{Value: a.Value.Neg(), Currency: a.currency()} }
func (a Amount) Abs() Amount                     { return Amount{Value: a.Value.Abs(), Currency: a.currency()} }
func (a Amount) IsNegative() bool                { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                    { return a.Value.IsZero() }
func (a Amount) IsPositive() bool                { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool             { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool       { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool          { return a.Value.LessThan(b.Value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.Value.GreaterThanOrEqual(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func (a Amount) FloorZero() Amount {
	if a.IsNegative() {
		return Amount{Value: decimal.Zero, Currency: a.currency()}
	}
	return a
}

// Round rounds half away from zero to cents. Presentation only.
func (a Amount) Round() Amount {
	return Amount{Value: a.Value.Round(2), Currency: a.currency()}
}

// Float64 is for DTOs that still speak float.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string {
	return a.Value.StringFixed(2) + " " + string(a.currency())
}

// Sum adds amounts together. Sum() is zero.
func Sum(amounts ...Amount) Amount {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// JSON - amounts travel as decimal strings
// =============================================================================

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = New(d)
	return nil
}
