// Package pricing holds the money arithmetic shared by the cart and the order service.
// All amounts are exact decimals; only tax is rounded, to whole cents, before it is summed.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")

	// DeliveryFee is charged once per non-empty order.
	DeliveryFee = decimal.RequireFromString("3.99")

	// MaxAmount is the largest amount the NUMERIC(10,2) money columns hold.
	MaxAmount = decimal.RequireFromString("99999999.99")
)

// ErrInvalidPrice is returned for prices a money column cannot hold exactly.
var ErrInvalidPrice = errors.New("invalid price")

// Line is a single priced quantity.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals is the derived money breakdown of a set of lines.
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// ParsePrice parses a decimal price string such as "8.99".
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidPrice, s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w %q: must not be negative", ErrInvalidPrice, s)
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("%w %q: more than two fractional digits", ErrInvalidPrice, s)
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w %q: exceeds %s", ErrInvalidPrice, s, Format(MaxAmount))
	}
	return d, nil
}

// NormalizePrice parses s and returns it with exactly two fractional digits.
func NormalizePrice(s string) (string, error) {
	d, err := ParsePrice(s)
	if err != nil {
		return "", err
	}
	return Format(d), nil
}

// Subtotal returns the sum of price times quantity over lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax returns the tax on subtotal rounded to cents, half away from zero.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Fee returns the delivery fee for an order with the given number of lines.
func Fee(lineCount int) decimal.Decimal {
	if lineCount == 0 {
		return decimal.Zero
	}
	return DeliveryFee
}

// Compute derives the full breakdown for lines.
func Compute(lines []Line) Totals {
	subtotal := Subtotal(lines)
	tax := Tax(subtotal)
	fee := Fee(len(lines))
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
	}
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Storable reports whether every amount fits the money columns.
func (t Totals) Storable() bool {
	return !t.Total.GreaterThan(MaxAmount)
}

// Strings is the wire form of Totals.
type Strings struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"deliveryFee"`
	Total       string `json:"total"`
}

// Strings formats every amount for the wire.
func (t Totals) Strings() Strings {
	return Strings{
		Subtotal:    Format(t.Subtotal),
		Tax:         Format(t.Tax),
		DeliveryFee: Format(t.DeliveryFee),
		Total:       Format(t.Total),
	}
}
