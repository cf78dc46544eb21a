package ledger

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("amount must be a non-negative decimal number")

// maxAmountLen bounds the normalized amount text.
const maxAmountLen = 32

// ParseAmount parses user-entered amount text. It accepts a decimal comma or
// point and an optional "R$" prefix. When both separators appear the
// right-most one marks the decimals and the other must group thousands
// ("1.234,56", "1,234.56"). Signs and exponents are rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" || len(s) > maxAmountLen {
		return 0, errInvalidAmount
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, errInvalidAmount
		}
	}

	normalized, ok := normalizeSeparators(s)
	if !ok {
		return 0, errInvalidAmount
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, errInvalidAmount
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errInvalidAmount
	}
	return f, nil
}

// normalizeSeparators rewrites s with a single '.' decimal point and no
// grouping separators. s holds only digits, '.' and ','.
func normalizeSeparators(s string) (string, bool) {
	dot, comma := strings.LastIndexByte(s, '.'), strings.LastIndexByte(s, ',')
	switch {
	case dot < 0 && comma < 0:
		return s, true
	case dot >= 0 && comma >= 0:
		decimalSep, groupSep := byte('.'), byte(',')
		if comma > dot {
			decimalSep, groupSep = ',', '.'
		}
		i := strings.LastIndexByte(s, decimalSep)
		whole, frac := s[:i], s[i+1:]
		if strings.IndexByte(frac, groupSep) >= 0 || strings.IndexByte(whole, decimalSep) >= 0 {
			return "", false
		}
		digits, ok := ungroup(whole, groupSep)
		if !ok || frac == "" {
			return "", false
		}
		return digits + "." + frac, true
	default:
		sep := byte('.')
		if comma >= 0 {
			sep = ','
		}
		if strings.Count(s, string(sep)) == 1 {
			whole, frac, _ := strings.Cut(s, string(sep))
			if whole == "" || frac == "" {
				return "", false
			}
			return whole + "." + frac, true
		}
		return ungroup(s, sep)
	}
}

// ungroup strips sep from s when it separates groups of three digits after a
// leading group of one to three.
func ungroup(s string, sep byte) (string, bool) {
	groups := strings.Split(s, string(sep))
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// sum adds amounts in decimal arithmetic.
func sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}
