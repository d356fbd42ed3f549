package solver

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/ports"
)

// ErrZeroPolynomial indicates there is nothing to factor.
var ErrZeroPolynomial = errors.New("zero polynomial has no finite root set")

// RationalSolver recovers the rational roots of an integer polynomial by the
// rational root theorem, deflating with exact synthetic division.
type RationalSolver struct{}

func New() *RationalSolver { return &RationalSolver{} }

// Roots returns the distinct rational roots in ascending order with their
// multiplicities. Irreducible factors of degree > 1 are left unreported.
func (s *RationalSolver) Roots(ctx context.Context, coeffs []int) ([]domain.Root, []int, ports.Stats, error) {
	start := time.Now()
	c := trimLeading(coeffs)
	if len(c) == 0 {
		return nil, nil, ports.Stats{}, ErrZeroPolynomial
	}

	var roots []domain.Root
	var mult []int
	zeros := 0
	for len(c) > 1 && c[len(c)-1] == 0 {
		c = c[:len(c)-1]
		zeros++
	}
	if zeros > 0 {
		roots = append(roots, domain.Int(0))
		mult = append(mult, zeros)
	}

	attempts := 0
	for _, cand := range candidates(c[len(c)-1], c[0]) {
		if err := ctx.Err(); err != nil {
			return nil, nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, err
		}
		m := 0
		for len(c) > 1 {
			attempts++
			q, ok := deflate(c, cand)
			if !ok {
				break
			}
			c = q
			m++
		}
		if m > 0 {
			roots = append(roots, cand)
			mult = append(mult, m)
		}
	}

	idx := make([]int, len(roots))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return roots[idx[a]].Less(roots[idx[b]]) })
	outR := make([]domain.Root, len(roots))
	outM := make([]int, len(roots))
	for i, j := range idx {
		outR[i], outM[i] = roots[j], mult[j]
	}
	return outR, outM, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, nil
}

func trimLeading(c []int) []int {
	for i, v := range c {
		if v != 0 {
			out := make([]int, len(c)-i)
			copy(out, c[i:])
			return out
		}
	}
	return nil
}

// candidates lists ±p/q for p | constant and q | leading, reduced and
// deduplicated, in ascending order.
func candidates(constant, leading int) []domain.Root {
	seen := map[domain.Root]bool{}
	var out []domain.Root
	for _, p := range divisors(domain.Abs(constant)) {
		for _, q := range divisors(domain.Abs(leading)) {
			for _, n := range [2]int{-p, p} {
				r, _ := domain.NewRoot(n, q)
				if !seen[r] {
					seen[r] = true
					out = append(out, r)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func divisors(n int) []int {
	var small, large []int
	for i := 1; i*i <= n; i++ {
		if n%i != 0 {
			continue
		}
		small = append(small, i)
		if i != n/i {
			large = append(large, n/i)
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

// mulAdd returns c + p*b, or false when the result would leave
// [-MaxInt/2, MaxInt/2].
func mulAdd(c, p, b int) (int, bool) {
	const limit = math.MaxInt / 2
	if b != 0 && domain.Abs(p) > limit/domain.Abs(b) {
		return 0, false
	}
	v := c + p*b
	if domain.Abs(c) > limit || domain.Abs(v) > limit {
		return 0, false
	}
	return v, true
}

// deflate divides c by (q·x − p) when the division is exact.
func deflate(c []int, r domain.Root) ([]int, bool) {
	p, q := r.Num, r.Den
	n := len(c) - 1
	b := make([]int, n)
	if c[0]%q != 0 {
		return nil, false
	}
	b[0] = c[0] / q
	for i := 1; i < n; i++ {
		v, ok := mulAdd(c[i], p, b[i-1])
		if !ok || v%q != 0 {
			return nil, false
		}
		b[i] = v / q
	}
	v, ok := mulAdd(c[n], p, b[n-1])
	return b, ok && v == 0
}
