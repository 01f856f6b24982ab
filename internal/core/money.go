// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from raw form
// text and rendering them back with a currency symbol.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts outside the float64 range are not representable by a number input:
// larger ones overflow to infinity and smaller ones collapse to zero.
const (
	maxAmountMagnitude = 309
	minAmountMagnitude = -323
)

// ParseAmount converts raw amount text to a positive decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and the
// exponent form a number input submits (1e3). The value is kept exactly as
// entered: no rounding is applied here.
// Returns ErrInvalidAmount for empty or malformed text and for values <= 0.
//
// Examples:
//
//	ParseAmount("4.50") -> 4.5, nil
//	ParseAmount("4,50") -> 4.5, nil
//	ParseAmount("1e3")  -> 1000, nil
//	ParseAmount("0")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if mag := int64(d.NumDigits()) + int64(d.Exponent()); mag > maxAmountMagnitude || mag < minAmountMagnitude {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals behind the currency symbol.
func FormatAmount(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// FormattedAmount is FormatAmount applied to the record's amount.
func (e Expense) FormattedAmount(symbol string) string {
	return FormatAmount(symbol, e.Amount)
}
