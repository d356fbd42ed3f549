package generator

import (
	"errors"
	"slices"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/ports"
)

const (
	maxRationalBatches = 200 // whole-batch restarts before giving up
	maxDrawsPerRoot    = 64  // gcd and duplicate rejections per batch slot
)

// ErrSamplingExhausted indicates the bounded retries could not produce a
// root set. Validated configs make this practically unreachable.
var ErrSamplingExhausted = errors.New("root sampling retries exhausted")

// SampleIntegers draws count integers from [low, high]. Distinct draws are
// made without replacement by a partial Fisher-Yates shuffle; the result
// keeps draw order.
func SampleIntegers(rng ports.RNG, low, high, count int, distinct bool) ([]domain.Root, error) {
	size := high - low + 1
	if count < 0 || size < 1 || (distinct && count > size) {
		return nil, ErrSamplingExhausted
	}
	out := make([]domain.Root, count)
	if !distinct {
		for i := range out {
			out[i] = domain.Int(rng.Intn(low, high))
		}
		return out, nil
	}
	pool := make([]int, size)
	for i := range pool {
		pool[i] = low + i
	}
	for i := range count {
		j := rng.Intn(i, size-1)
		pool[i], pool[j] = pool[j], pool[i]
		out[i] = domain.Int(pool[i])
	}
	return out, nil
}

// SampleRationals draws count distinct reduced roots ±n/d with n, d in
// [1, high]. A batch made only of integers is thrown away and redrawn, so
// at least one proper fraction appears. The second return value counts
// rejected draws.
func SampleRationals(rng ports.RNG, high, count int) ([]domain.Root, int, error) {
	rejected := 0
	for range maxRationalBatches {
		roots, n, ok := rationalBatch(rng, high, count)
		rejected += n
		if !ok {
			continue
		}
		if slices.ContainsFunc(roots, func(r domain.Root) bool { return !r.IsInteger() }) {
			return roots, rejected, nil
		}
		rejected += count
	}
	return nil, rejected, ErrSamplingExhausted
}

func rationalBatch(rng ports.RNG, high, count int) ([]domain.Root, int, bool) {
	roots := make([]domain.Root, 0, count)
	rejected := 0
	for draws := 0; len(roots) < count; draws++ {
		if draws >= maxDrawsPerRoot*count {
			return nil, rejected, false
		}
		d, n := rng.Intn(1, high), rng.Intn(1, high)
		if domain.GCD(d, n) != 1 {
			rejected++
			continue
		}
		if rng.Intn(0, 1) == 1 {
			n = -n
		}
		r := domain.Root{Num: n, Den: d}
		if slices.Contains(roots, r) {
			rejected++
			continue
		}
		roots = append(roots, r)
	}
	return roots, rejected, true
}

// AssignMultiplicity starts every root at 1 and spreads extra increments
// uniformly over them.
func AssignMultiplicity(rng ports.RNG, n, extra int) []int {
	mult := make([]int, n)
	for i := range mult {
		mult[i] = 1
	}
	if n == 0 {
		return mult
	}
	for range extra {
		mult[rng.Intn(0, n-1)]++
	}
	return mult
}

// Collapse merges repeated draws into distinct roots (first-seen order)
// with multiplicities.
func Collapse(draws []domain.Root) ([]domain.Root, []int) {
	var roots []domain.Root
	var mult []int
	for _, r := range draws {
		if i := slices.Index(roots, r); i >= 0 {
			mult[i]++
			continue
		}
		roots = append(roots, r)
		mult = append(mult, 1)
	}
	return roots, mult
}

// Decoys draws count distinct integers from [low, high] that are not in
// exclude.
func Decoys(rng ports.RNG, low, high int, exclude []domain.Root, count int) ([]domain.Root, error) {
	var pool []int
	for v := low; v <= high; v++ {
		if !slices.Contains(exclude, domain.Int(v)) {
			pool = append(pool, v)
		}
	}
	if count > len(pool) {
		return nil, ErrSamplingExhausted
	}
	out := make([]domain.Root, count)
	for i := range count {
		j := rng.Intn(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
		out[i] = domain.Int(pool[i])
	}
	return out, nil
}

// Shuffle permutes s in place with rng (Fisher-Yates).
func Shuffle[T any](rng ports.RNG, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(0, i)
		s[i], s[j] = s[j], s[i]
	}
}
