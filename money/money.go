/*
Package money provides the monetary type used by every calculator.

PURPOSE:
  All payroll, sick-leave and severance math runs on Colombian pesos with
  two-decimal settlement amounts. Floating point is never acceptable for
  money, so everything is backed by decimal.Decimal.

KEY CONCEPTS:
  - Money: a COP amount (no multi-currency; the system is single-currency)
  - Percent: a rate expressed the way the legal tables publish it,
    e.g. 8.5 means 8.5%, not 0.085

ROUNDING:
  Settlement amounts round half-up to 2 decimals via Round2, matching the
  rounding the legal formulas prescribe. Intermediate math is NOT rounded;
  only values that land on a payslip or settlement are.
*/
package money

import "github.com/shopspring/decimal"

// Money is an amount of Colombian pesos.
type Money struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// New builds a Money from an int64 peso amount.
func New(v int64) Money {
	return Money{value: decimal.NewFromInt(v)}
}

// NewFromFloat builds a Money from a float. Use only at the input boundary.
func NewFromFloat(v float64) Money {
	return Money{value: decimal.NewFromFloat(v)}
}

// NewFromDecimal wraps an existing decimal.
func NewFromDecimal(d decimal.Decimal) Money {
	return Money{value: d}
}

// Parse builds a Money from its string form, e.g. "1300000" or "162000.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, err
	}
	return Money{value: d}, nil
}

func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) String() string           { return m.value.String() }
func (m Money) Float64() float64         { f, _ := m.value.Float64(); return f }

// Arithmetic
func (m Money) Add(o Money) Money           { return Money{value: m.value.Add(o.value)} }
func (m Money) Sub(o Money) Money           { return Money{value: m.value.Sub(o.value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{value: m.value.Mul(s)} }
func (m Money) MulInt(n int64) Money        { return Money{value: m.value.Mul(decimal.NewFromInt(n))} }
func (m Money) Div(s decimal.Decimal) Money { return Money{value: m.value.Div(s)} }
func (m Money) DivInt(n int64) Money        { return Money{value: m.value.Div(decimal.NewFromInt(n))} }
func (m Money) Neg() Money                  { return Money{value: m.value.Neg()} }

// Comparison
func (m Money) Equal(o Money) bool       { return m.value.Equal(o.value) }
func (m Money) GreaterThan(o Money) bool { return m.value.GreaterThan(o.value) }
func (m Money) LessThan(o Money) bool    { return m.value.LessThan(o.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }

// Round2 rounds half-up to 2 decimal places. Apply to settlement amounts,
// never to intermediate factors.
func (m Money) Round2() Money {
	return Money{value: m.value.Round(2)}
}

// MarshalJSON encodes the amount as a JSON number string, e.g. "1300000".
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON accepts both quoted and bare decimal numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}

// Sum adds any number of amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// PERCENT - Legal rates as published (4.0 == 4%)
// =============================================================================

// Percent is a rate in the 0-100 scale used by the legal parameter tables.
type Percent struct {
	value decimal.Decimal
}

// NewPercent builds a Percent from a float, e.g. NewPercent(8.5) for 8.5%.
func NewPercent(v float64) Percent {
	return Percent{value: decimal.NewFromFloat(v)}
}

// NewPercentFromDecimal wraps an existing decimal rate.
func NewPercentFromDecimal(d decimal.Decimal) Percent {
	return Percent{value: d}
}

func (p Percent) Decimal() decimal.Decimal { return p.value }
func (p Percent) String() string           { return p.value.String() }
func (p Percent) Float64() float64         { f, _ := p.value.Float64(); return f }
func (p Percent) IsZero() bool             { return p.value.IsZero() }
func (p Percent) Equal(o Percent) bool     { return p.value.Equal(o.value) }

// MarshalJSON encodes the rate on the 0-100 scale, e.g. "8.5".
func (p Percent) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

// UnmarshalJSON accepts both quoted and bare decimal rates.
func (p *Percent) UnmarshalJSON(data []byte) error {
	return p.value.UnmarshalJSON(data)
}

// Fraction returns the rate on the 0-1 scale (8.5% -> 0.085).
func (p Percent) Fraction() decimal.Decimal {
	return p.value.Div(decimal.NewFromInt(100))
}

// Of applies the rate to an amount: NewPercent(4).Of(base) == 4% of base.
func (p Percent) Of(m Money) Money {
	return m.Mul(p.Fraction())
}

// Surcharge returns the 1+rate multiplier, e.g. a 25% surcharge -> 1.25.
func (p Percent) Surcharge() decimal.Decimal {
	return decimal.NewFromInt(1).Add(p.Fraction())
}
