package equation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed indicates text that is not a signed-term sequence.
	ErrMalformed = errors.New("malformed equation")
	// ErrZeroTerm indicates an explicit 0 coefficient.
	ErrZeroTerm = errors.New("zero term")
	// ErrDuplicateDegree indicates two terms of the same degree.
	ErrDuplicateDegree = errors.New("duplicate degree")
)

func superValue(r rune) (int, bool) {
	for i, s := range superDigits {
		if s == r {
			return i, true
		}
	}
	return 0, false
}

// Parse reads a formatted (optionally wrapped) equation back into dense
// coefficients. Missing degrees are zero.
func Parse(s string) ([]int, error) {
	rs := []rune(strings.ReplaceAll(s, "\n", ""))
	if len(rs) == 0 {
		return []int{}, nil
	}
	terms := map[int]int{}
	maxDeg := -1
	for i := 0; i < len(rs); {
		start := i
		sign := 1
		switch rs[i] {
		case '+':
			i++
		case '-':
			sign = -1
			i++
		}
		switch {
		case start == 0 && i > start && sign == 1:
			return nil, fmt.Errorf("%w: leading '+'", ErrMalformed)
		case start > 0 && i == start:
			return nil, fmt.Errorf("%w: missing sign at %d", ErrMalformed, start)
		}
		coef, digits := 0, false
		for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
			coef = coef*10 + int(rs[i]-'0')
			digits = true
			i++
		}
		deg := 0
		if i < len(rs) && string(rs[i]) == Variable {
			i++
			deg = 1
			if i < len(rs) {
				if _, ok := superValue(rs[i]); ok {
					deg = 0
					for i < len(rs) {
						v, ok := superValue(rs[i])
						if !ok {
							break
						}
						deg = deg*10 + v
						i++
					}
				}
			}
			if !digits {
				coef = 1
			}
		} else if !digits {
			return nil, fmt.Errorf("%w: empty term at %d", ErrMalformed, start)
		}
		if coef == 0 {
			return nil, fmt.Errorf("%w at %d", ErrZeroTerm, start)
		}
		if _, dup := terms[deg]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDegree, deg)
		}
		terms[deg] = sign * coef
		maxDeg = max(maxDeg, deg)
	}
	out := make([]int, maxDeg+1)
	for deg, c := range terms {
		out[maxDeg-deg] = c
	}
	return out, nil
}
