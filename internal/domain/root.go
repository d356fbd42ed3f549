package domain

import (
	"fmt"
	"strconv"
)

// Root is a rational root n/d in lowest terms with d >= 1.
// Integer roots have Den == 1.
type Root struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

// Int returns the integer root v.
func Int(v int) Root { return Root{Num: v, Den: 1} }

// NewRoot reduces n/d and moves the sign to the numerator.
func NewRoot(n, d int) (Root, error) {
	if d == 0 {
		return Root{}, ErrZeroDenominator
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := GCD(Abs(n), d)
	return Root{Num: n / g, Den: d / g}, nil
}

// IsReduced reports whether n/d is already in lowest terms with a positive
// denominator. 0/1 is the only reduced form of zero.
func IsReduced(n, d int) bool {
	return d >= 1 && GCD(Abs(n), d) == 1
}

func (r Root) IsInteger() bool { return r.Den == 1 }

// Less orders roots by value, breaking ties by denominator.
func (r Root) Less(o Root) bool {
	l, rr := r.Num*o.Den, o.Num*r.Den
	if l != rr {
		return l < rr
	}
	return r.Den < o.Den
}

func (r Root) String() string {
	if r.Den == 1 {
		return strconv.Itoa(r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// GCD is Euclid's algorithm on non-negative operands; GCD(0, b) == b.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
