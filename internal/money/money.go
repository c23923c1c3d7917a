package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a currency amount in minor units (cents for USD/EUR).
// The zero value is "no amount" in the zero currency; callers that need
// "price missing" semantics use *Money.
type Money struct {
	Amount   int64  `json:"amount" db:"amount"`
	Currency string `json:"currency" db:"currency"`
}

func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Mul scales the amount by a unit count.
func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount * int64(n), Currency: m.Currency}
}

// Add returns m+o; the currencies must match.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount + o.Amount, Currency: m.Currency}, nil
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Format renders the amount for display, e.g. "$129.99" or "SEK 45.00".
func (m Money) Format() string {
	d := decimal.New(m.Amount, -2)
	if sym, ok := symbols[m.Currency]; ok {
		return sym + d.StringFixed(2)
	}
	return m.Currency + " " + d.StringFixed(2)
}

// DecimalString renders the bare decimal amount for form inputs ("129.99").
func (m Money) DecimalString() string {
	return decimal.New(m.Amount, -2).StringFixed(2)
}

// ParseSubunits converts a decimal text amount ("12.50") into minor units.
// Total: malformed or negative input reports false, never panics or rounds
// fractions of a subunit silently into existence.
func ParseSubunits(s string) (int64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	sub := d.Shift(2)
	if !sub.IsInteger() || sub.IsNegative() {
		return 0, false
	}
	return sub.IntPart(), true
}
