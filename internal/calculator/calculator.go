// Package calculator computes per-person share amounts for bill splits.
//
// All arithmetic is done in exact decimal math on whole minor currency units
// (cents), so shares always sum back to the split total without floating-point
// drift.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// centsIn is the scale of the minor currency unit.
const centsIn = 2

// EqualSplit divides total equally among n participants.
//
// When the division is not exact at the cent, the leftover cents are assigned
// one each to the first participants in input order, so 100.00 split three
// ways yields 33.34, 33.33, 33.33. The returned shares always sum to total
// exactly.
func EqualSplit(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("total cannot be negative")
	}
	cents, err := toCents(total)
	if err != nil {
		return nil, err
	}

	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[i] = decimal.New(c, -centsIn)
	}
	return shares, nil
}

// CustomSplit produces n shares from caller-provided amounts, by position.
// A missing amount defaults to zero. Provided values are never mutated or
// rescaled; the calculator does not check that they sum to any particular
// total (see CheckTotal).
func CustomSplit(amounts []decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if len(amounts) > n {
		return nil, fmt.Errorf("got %d amounts for %d participants", len(amounts), n)
	}

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		if i < len(amounts) {
			if amounts[i].IsNegative() {
				return nil, fmt.Errorf("amount %s at position %d cannot be negative", amounts[i], i)
			}
			shares[i] = amounts[i]
		} else {
			shares[i] = decimal.Zero
		}
	}
	return shares, nil
}

// Sum adds up a list of share amounts.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// CheckTotal verifies that shares sum to total within one minor currency
// unit. The tolerance exists because an equal split of a total carrying
// sub-cent precision cannot always land exactly.
func CheckTotal(total decimal.Decimal, shares []decimal.Decimal) error {
	diff := Sum(shares).Sub(total).Abs()
	if diff.GreaterThan(decimal.New(1, -centsIn)) {
		return fmt.Errorf("shares sum to %s, want %s", Sum(shares), total)
	}
	return nil
}

// toCents converts a monetary amount to whole cents, rejecting values with
// sub-cent precision.
func toCents(amount decimal.Decimal) (int64, error) {
	scaled := amount.Shift(centsIn)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", amount)
	}
	return scaled.IntPart(), nil
}
