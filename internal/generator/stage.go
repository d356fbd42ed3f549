package generator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/equation"
	"svw.info/indices/internal/polynomial"
	"svw.info/indices/internal/ports"
)

// ErrSelfCheck indicates the solved polynomial disagrees with the sampled roots.
var ErrSelfCheck = errors.New("synthesized polynomial does not factor back to its roots")

// Generate samples the stage's roots, expands and formats the polynomial and
// lays out the candidate buttons.
func (g *StageGenerator) Generate(ctx context.Context, cfg domain.Config, index int) (*domain.Stage, ports.Stats, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, ports.Stats{}, err
	}
	if index < 0 || index >= cfg.StageCount {
		return nil, ports.Stats{}, fmt.Errorf("%w: stage %d of %d", domain.ErrInvalidConfig, index, cfg.StageCount)
	}

	// 1) roots and multiplicities
	roots, mult, attempts, err := g.sampleRoots(cfg, index)
	if err != nil {
		return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, err
	}

	// 2) polynomial and display text
	coeffs := polynomial.Expand(roots, mult)
	eq := equation.Format(coeffs)
	st := &domain.Stage{
		Index:        index,
		Roots:        roots,
		Multiplicity: mult,
		Coefficients: coeffs,
		Equation:     eq,
		Display:      equation.Wrap(eq),
		Rational:     cfg.RationalStage(index),
	}

	// 3) buttons
	if cfg.CandidatePoolSize == domain.PoolButtons {
		st.Candidates, err = g.candidates(cfg, roots)
		if err != nil {
			return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, err
		}
	}

	// 4) self-check: every root vanishes and integral stages stay monic
	for _, r := range roots {
		if !polynomial.IsRoot(coeffs, r) {
			return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, fmt.Errorf("%w: %s at %s", ErrSelfCheck, eq, r)
		}
	}
	if !st.Rational && !polynomial.Monic(coeffs) {
		return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, fmt.Errorf("%w: %s is not monic", ErrSelfCheck, eq)
	}

	// 5) the solver recovers the same factors
	if g.Finder != nil {
		found, fm, fst, err := g.Finder.Roots(ctx, coeffs)
		attempts += fst.Attempts
		if err != nil {
			return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, err
		}
		if !sameFactors(roots, mult, found, fm) {
			return nil, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, fmt.Errorf("%w: %s", ErrSelfCheck, eq)
		}
	}
	return st, ports.Stats{Attempts: attempts, Duration: time.Since(start)}, nil
}

func (g *StageGenerator) sampleRoots(cfg domain.Config, index int) ([]domain.Root, []int, int, error) {
	count := cfg.RootsForStage(index)
	switch {
	case cfg.RationalStage(index):
		roots, rejected, err := SampleRationals(g.RNG, cfg.MaxRoot, count)
		if err != nil {
			return nil, nil, rejected, err
		}
		return roots, AssignMultiplicity(g.RNG, len(roots), cfg.ExtraMultiplicity), rejected, nil
	case cfg.WithReplacement:
		draws, err := SampleIntegers(g.RNG, cfg.MinRoot, cfg.MaxRoot, count, false)
		if err != nil {
			return nil, nil, 0, err
		}
		roots, mult := Collapse(draws)
		return roots, mult, 0, nil
	default:
		roots, err := SampleIntegers(g.RNG, cfg.MinRoot, cfg.MaxRoot, count, true)
		if err != nil {
			return nil, nil, 0, err
		}
		return roots, AssignMultiplicity(g.RNG, len(roots), cfg.ExtraMultiplicity), 0, nil
	}
}

// candidates returns the fixed sorted range when it holds exactly the pool
// size, otherwise the correct roots plus decoys in shuffled order.
func (g *StageGenerator) candidates(cfg domain.Config, roots []domain.Root) ([]domain.Candidate, error) {
	var values []domain.Root
	if cfg.RangeSize() == domain.PoolButtons {
		for v := cfg.MinRoot; v <= cfg.MaxRoot; v++ {
			values = append(values, domain.Int(v))
		}
	} else {
		decoys, err := Decoys(g.RNG, cfg.MinRoot, cfg.MaxRoot, roots, domain.PoolButtons-len(roots))
		if err != nil {
			return nil, err
		}
		values = append(slices.Clone(roots), decoys...)
		Shuffle(g.RNG, values)
	}
	out := make([]domain.Candidate, len(values))
	for i, v := range values {
		out[i] = domain.Candidate{Label: v.String(), Value: v, Correct: slices.Contains(roots, v)}
	}
	return out, nil
}

func sameFactors(roots []domain.Root, mult []int, found []domain.Root, fm []int) bool {
	if len(roots) != len(found) {
		return false
	}
	for i, r := range roots {
		j := slices.Index(found, r)
		if j < 0 || fm[j] != mult[i] {
			return false
		}
	}
	return true
}
