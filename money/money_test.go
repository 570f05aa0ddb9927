package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvagro/nomina-engine/money"
)

func TestMoney_Arithmetic(t *testing.T) {
	salary := money.New(1_300_000)

	daily := salary.DivInt(30)
	assert.True(t, daily.MulInt(30).Equal(salary), "daily*30 should reconstruct the salary")

	hourly := salary.DivInt(240)
	assert.Equal(t, "5416.67", hourly.Round2().String())
}

func TestPercent_Of(t *testing.T) {
	base := money.New(1_000_000)

	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"health employee", 4, "40000"},
		{"health employer", 8.5, "85000"},
		{"pension employer", 12, "120000"},
		{"arl class one", 0.522, "5220"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.NewPercent(tt.rate).Of(base).Round2()
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPercent_Surcharge(t *testing.T) {
	// A 25% surcharge on an hour worth 5000 pays 6250.
	hour := money.New(5000)
	paid := hour.Mul(money.NewPercent(25).Surcharge())
	assert.Equal(t, "6250", paid.String())
}

func TestMoney_Round2_HalfUp(t *testing.T) {
	m := money.NewFromDecimal(decimal.RequireFromString("100.005"))
	assert.Equal(t, "100.01", m.Round2().String())
}

func TestParse(t *testing.T) {
	m, err := money.Parse("162000.50")
	require.NoError(t, err)
	assert.Equal(t, "162000.5", m.String())

	_, err = money.Parse("not-a-number")
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	total := money.Sum(money.New(100), money.New(200), money.New(50).Neg())
	assert.Equal(t, "250", total.String())
}
