package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (cents). All arithmetic on
// prices and totals happens on integers; rounding occurs exactly once,
// when user input is parsed.
type Money int64

// ErrBadAmount reports unparseable or negative money input.
var ErrBadAmount = errors.New("invalid amount")

// ParseMoney converts decimal text like "25.50" into minor units.
// At most two fraction digits are kept; a third digit rounds half-up.
// Negative amounts are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrBadAmount
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrBadAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || (fracPart != "" && !allDigits(fracPart)) {
		return 0, ErrBadAmount
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrBadAmount
	}

	cents := int64(0)
	switch {
	case len(fracPart) == 1:
		cents = int64(fracPart[0]-'0') * 10
	case len(fracPart) >= 2:
		cents = int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
		if len(fracPart) > 2 && fracPart[2] >= '5' {
			cents++
		}
	}

	total := units*100 + cents
	if total < 0 {
		return 0, ErrBadAmount
	}
	return Money(total), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mul multiplies a unit price by a quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// String renders the amount with two decimals, e.g. "61.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
