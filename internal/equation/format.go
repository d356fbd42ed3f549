// Package equation renders coefficient vectors as signed-term strings with
// superscript exponents, wraps them for the module screen and parses them
// back.
package equation

import (
	"strconv"
	"strings"
)

// Variable is the unknown's symbol.
const Variable = "x"

var superDigits = [10]rune{'⁰', '¹', '²', '³', '⁴', '⁵', '⁶', '⁷', '⁸', '⁹'}

// Superscript writes n with superscript digit glyphs.
func Superscript(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		if r == '-' {
			b.WriteRune('⁻')
			continue
		}
		b.WriteRune(superDigits[r-'0'])
	}
	return b.String()
}

// Format renders coefficients from the highest degree down. Zero terms are
// skipped; magnitude-one coefficients are implicit except on the constant.
func Format(coeffs []int) string {
	var b strings.Builder
	first := true
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		deg := len(coeffs) - 1 - i
		b.WriteString(coefficient(c, deg, first))
		switch {
		case deg == 1:
			b.WriteString(Variable)
		case deg > 1:
			b.WriteString(Variable + Superscript(deg))
		}
		first = false
	}
	return b.String()
}

func coefficient(c, deg int, leading bool) string {
	if deg == 0 {
		if c > 0 && !leading {
			return "+" + strconv.Itoa(c)
		}
		return strconv.Itoa(c)
	}
	switch {
	case c == 1 && leading:
		return ""
	case c == 1:
		return "+"
	case c == -1:
		return "-"
	case c > 1 && !leading:
		return "+" + strconv.Itoa(c)
	default:
		return strconv.Itoa(c)
	}
}
