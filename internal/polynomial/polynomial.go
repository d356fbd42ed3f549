// Package polynomial multiplies out root factors into dense integer
// coefficients. Index 0 of a coefficient slice is the highest degree.
package polynomial

import (
	"slices"

	"svw.info/indices/internal/domain"
)

// Multiply convolves a and b: out[i+j] += a[i]*b[j].
// An empty operand is the multiplicative identity, so the result is a copy
// of the other operand.
func Multiply(a, b []int) []int {
	if len(a) == 0 {
		return slices.Clone(b)
	}
	if len(b) == 0 {
		return slices.Clone(a)
	}
	out := make([]int, len(a)+len(b)-1)
	for j, bv := range b {
		for i, av := range a {
			out[i+j] += av * bv
		}
	}
	return out
}

// Binomial is the factor (d·x − n) whose root is r.
func Binomial(r domain.Root) []int {
	return []int{r.Den, -r.Num}
}

// Expand multiplies in each root's binomial mult[i] times, in root order
// then repeat order. Expand of no roots is the empty slice.
func Expand(roots []domain.Root, mult []int) []int {
	out := []int{}
	for i, r := range roots {
		f := Binomial(r)
		for range mult[i] {
			out = Multiply(out, f)
		}
	}
	return out
}

// Monic reports whether the leading coefficient is 1.
func Monic(c []int) bool { return len(c) > 0 && c[0] == 1 }

// IsRoot reports whether c vanishes at r. It evaluates d^deg·P(n/d)
// so the check stays in integers.
func IsRoot(c []int, r domain.Root) bool {
	if len(c) == 0 {
		return false
	}
	deg := len(c) - 1
	sum, npow := 0, 1
	dpow := make([]int, deg+1)
	dpow[0] = 1
	for i := 1; i <= deg; i++ {
		dpow[i] = dpow[i-1] * r.Den
	}
	// term for c[i] is c[i]·n^(deg-i)·d^i; walk from the constant upwards
	for i := deg; i >= 0; i-- {
		sum += c[i] * npow * dpow[i]
		npow *= r.Num
	}
	return sum == 0
}
