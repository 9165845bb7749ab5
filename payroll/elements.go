/*
elements.go - Variable element aggregation

PURPOSE:
  Folds the period's variable adjustments (overtime, bonuses, absences,
  lateness, advances, leave, other) into non-negative bucket totals that
  the earnings calculator consumes.

SIGN RULES:
  OVERTIME, BONUS, EXCEPTIONAL_BONUS, ABSENCE, LATENESS, ADVANCE:
    the bucket is fixed by the type; the magnitude |amount| is added.
  LEAVE, OTHER:
    amount >= 0 goes to OtherEarnings, amount < 0 to OtherDeductions.

UNKNOWN TYPES:
  Element types outside the enum are ignored without error. They are kept
  in VariableTotals.Ignored so callers (and the engine's logger) can see
  them instead of having them vanish.

ABSENCES AND LATENESS:
  Absences, Lateness and VariableAdvances are tracked but are NOT taken out
  of gross pay by the engine. Only OvertimePay, ExceptionalBonuses and
  OtherEarnings flow into gross.
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// ELEMENT TYPES
// =============================================================================

type ElementType string

const (
	ElementOvertime         ElementType = "OVERTIME"
	ElementAbsence          ElementType = "ABSENCE"
	ElementBonus            ElementType = "BONUS"
	ElementExceptionalBonus ElementType = "EXCEPTIONAL_BONUS"
	ElementLeave            ElementType = "LEAVE"
	ElementLateness         ElementType = "LATENESS"
	ElementAdvance          ElementType = "ADVANCE"
	ElementOther            ElementType = "OTHER"
)

// ElementTypes lists every known element type.
func ElementTypes() []ElementType {
	return []ElementType{
		ElementOvertime, ElementAbsence, ElementBonus, ElementExceptionalBonus,
		ElementLeave, ElementLateness, ElementAdvance, ElementOther,
	}
}

// ParseElementType maps a case-insensitive name to an ElementType.
// ok is false for names outside the enum.
func ParseElementType(s string) (ElementType, bool) {
	t := ElementType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ElementTypes() {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// VariableElement is one tagged adjustment for the period.
type VariableElement struct {
	Type   ElementType
	Amount money.Amount
	Hours  *decimal.Decimal
	Rate   *money.Amount
	Label  string
}

// EffectiveAmount is Amount, or Hours x Rate when Amount is zero and both are set.
func (e VariableElement) EffectiveAmount() money.Amount {
	if e.Amount.IsZero() && e.Hours != nil && e.Rate != nil {
		return e.Rate.Mul(*e.Hours)
	}
	return e.Amount
}

// =============================================================================
// AGGREGATION
// =============================================================================

// VariableTotals are the folded buckets, all non-negative.
type VariableTotals struct {
	OvertimePay        money.Amount
	ExceptionalBonuses money.Amount
	Absences           money.Amount
	Lateness           money.Amount
	VariableAdvances   money.Amount
	OtherEarnings      money.Amount
	OtherDeductions    money.Amount

	// Elements whose type is not in the enum.
	Ignored []VariableElement
}

func zeroTotals() VariableTotals {
	return VariableTotals{
		OvertimePay:        money.Zero(),
		ExceptionalBonuses: money.Zero(),
		Absences:           money.Zero(),
		Lateness:           money.Zero(),
		VariableAdvances:   money.Zero(),
		OtherEarnings:      money.Zero(),
		OtherDeductions:    money.Zero(),
	}
}

// AggregateElements folds elements into VariableTotals. An empty list
// yields all zeros.
func AggregateElements(elements []VariableElement) VariableTotals {
	totals := zeroTotals()
	for _, e := range elements {
		amount := e.EffectiveAmount()
		magnitude := amount.Abs()

		switch e.Type {
		case ElementOvertime:
			totals.OvertimePay = totals.OvertimePay.Add(magnitude)
		case ElementBonus, ElementExceptionalBonus:
			totals.ExceptionalBonuses = totals.ExceptionalBonuses.Add(magnitude)
		case ElementAbsence:
			totals.Absences = totals.Absences.Add(magnitude)
		case ElementLateness:
			totals.Lateness = totals.Lateness.Add(magnitude)
		case ElementAdvance:
			totals.VariableAdvances = totals.VariableAdvances.Add(magnitude)
		case ElementLeave, ElementOther:
			if amount.IsNegative() {
				totals.OtherDeductions = totals.OtherDeductions.Add(magnitude)
			} else {
				totals.OtherEarnings = totals.OtherEarnings.Add(amount)
			}
		default:
			totals.Ignored = append(totals.Ignored, e)
		}
	}
	return totals
}
