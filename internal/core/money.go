// Package core implements the financial allocation and derived-metrics
// engine: entry construction with reserve splits, aggregation over entry
// sets, fuel metrics, maintenance predictions and weekly grouping. Every
// function is a pure computation over its inputs.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied monetary string to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// requires a strictly positive value. Returns ErrInvalidAmount for anything
// else: empty input, signs, multiple separators, non-digits, zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseKm converts a user-supplied distance string to kilometers. Comma
// decimals are accepted the same way ParseAmount accepts them.
func ParseKm(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidKm
	}
	km, err := strconv.ParseFloat(s, 64)
	if err != nil || km <= 0 {
		return 0, ErrInvalidKm
	}
	return km, nil
}
