// Package decimal holds display helpers for full-precision engine amounts.
// The engine never rounds; presentation code goes through Money.
package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount prepared for display
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a new Money instance from a string
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds to cents, half away from zero
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the amount with exactly two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as currency with thousands separators: $1,234.50
func (m Money) Format() string {
	return m.format("")
}

// FormatSigned is Format with an explicit sign, for deltas: +$10.00, -$3.25
func (m Money) FormatSigned() string {
	if m.Round().IsPositive() {
		return m.format("+")
	}
	return m.format("")
}

func (m Money) format(plus string) string {
	s := m.Round().Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	sign := plus
	if m.Round().IsNegative() {
		sign = "-"
	}
	return sign + "$" + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
