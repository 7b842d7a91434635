package coinfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a price or a monetary value in the reporting currency.
//
// The portfolio is valued in a single currency, so Money carries no currency of
// its own: the currency code only matters when formatting.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M creates a Money.
func M[T float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses a decimal string like "40000.15".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d}, nil
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value)} }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) String() string                  { return m.value.String() }
func (m Money) MarshalJSON() ([]byte, error)    { return m.value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error   { return m.value.UnmarshalJSON(b) }
func (m Money) Round(places int32) Money        { return Money{value: m.value.Round(places)} }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }

// Ratio returns m/n as a percentage, or 0 when n is not positive.
func (m Money) Ratio(n Money) Percent {
	if !n.IsPositive() {
		return 0
	}
	return Percent(m.value.Div(n.value).Mul(decimal.NewFromInt(100)).InexactFloat64())
}

// Format returns the value formatted for the given ISO currency code
// (e.g. "$40,000.00" for USD). Unknown codes fall back to the plain decimal.
func (m Money) Format(code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return m.value.StringFixed(2)
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedFormat is Format with an explicit sign; 0 is represented as "-".
func (m Money) SignedFormat(code string) string {
	if m.value.Round(2).IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.Format(code)
	}
	return m.Format(code)
}
