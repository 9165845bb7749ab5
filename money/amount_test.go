package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/money"
)

func TestAmount_ArithmeticIsExact(t *testing.T) {
	// GIVEN: values that drift under float64 (0.1 + 0.2)
	// WHEN: adding them as amounts
	// THEN: the result is exactly 0.3

	a := money.MustParse("0.1").Add(money.MustParse("0.2"))
	assert.True(t, a.Equal(money.MustParse("0.3")), "got %s", a)
}

func TestAmount_SubThenAddRestoresOriginal(t *testing.T) {
	gross := money.MustParse("44000")
	deductions := money.MustParse("8342.35")

	net := gross.Sub(deductions)
	assert.True(t, net.Add(deductions).Equal(gross))
}

func TestAmount_MinMaxFloorZero(t *testing.T) {
	a := money.KES(100)
	b := money.KES(250)

	assert.True(t, a.Min(b).Equal(a))
	assert.True(t, a.Max(b).Equal(b))
	assert.True(t, a.Sub(b).FloorZero().IsZero())
	assert.True(t, b.Sub(a).FloorZero().Equal(money.KES(150)))
}

func TestAmount_RoundIsPresentationOnly(t *testing.T) {
	a := money.MustParse("10.005")

	assert.Equal(t, "10.01", a.Round().Value.String())
	assert.Equal(t, "10.005", a.Value.String(), "Round must not mutate the receiver")
}

func TestAmount_MulRate(t *testing.T) {
	base := money.KES(44000)
	got := base.MulRate(money.Rate("0.0275"))
	assert.True(t, got.Equal(money.KES(1210)), "got %s", got)
}

func TestRate_InvalidLiteralIsZero(t *testing.T) {
	assert.True(t, money.Rate("not-a-rate").Equal(decimal.Zero))
}

func TestParse_Invalid(t *testing.T) {
	_, err := money.Parse("12,5")
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	assert.True(t, money.Sum().IsZero())
	assert.True(t, money.Sum(money.KES(1), money.KES(2), money.KES(3.5)).Equal(money.KES(6.5)))
}

func TestAmount_JSON(t *testing.T) {
	a := money.MustParse("1234.56")
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(data))

	var back money.Amount
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(a))
	assert.Equal(t, money.CurrencyKES, back.Currency)

	// bare numbers are accepted too
	require.NoError(t, json.Unmarshal([]byte(`40000`), &back))
	assert.True(t, back.Equal(money.KES(40000)))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "40000.00 KES", money.KES(40000).String())
	assert.Equal(t, "0.00 KES", money.Amount{}.String())
}
