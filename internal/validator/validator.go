package validator

import (
	"errors"
	"fmt"

	"svw.info/indices/internal/domain"
)

var (
	// ErrBadDenominator indicates a denominator below 1.
	ErrBadDenominator = errors.New("denominator must be at least 1")
	// ErrNotReduced indicates a fraction that is not in lowest terms, such as 4/8 or 0/9.
	ErrNotReduced = errors.New("fraction is not in lowest terms")
	// ErrFractionNotAllowed indicates a fraction on an integral stage.
	ErrFractionNotAllowed = errors.New("fractions are not accepted on this stage")
	// ErrNoSuchButton indicates an index or label that matches no candidate.
	ErrNoSuchButton = errors.New("no such button")
)

// GuessValidator maps raw guesses to reduced roots without judging them.
type GuessValidator struct{}

func New() *GuessValidator { return &GuessValidator{} }

// Validate returns the root a guess names on the stage. Errors are
// invalid-input conditions; they never cost a strike.
func (v *GuessValidator) Validate(stage *domain.Stage, g domain.Guess) (domain.Root, error) {
	if g.ByIndex {
		if g.Index < 0 || g.Index >= len(stage.Candidates) {
			return domain.Root{}, fmt.Errorf("%w: index %d", ErrNoSuchButton, g.Index)
		}
		return stage.Candidates[g.Index].Value, nil
	}

	if g.Denominator < 1 {
		return domain.Root{}, fmt.Errorf("%w: %d", ErrBadDenominator, g.Denominator)
	}
	if g.Numerator == 0 && g.Denominator > 1 {
		return domain.Root{}, fmt.Errorf("%w: 0/%d", ErrNotReduced, g.Denominator)
	}
	if !domain.IsReduced(g.Numerator, g.Denominator) {
		return domain.Root{}, fmt.Errorf("%w: %d/%d", ErrNotReduced, g.Numerator, g.Denominator)
	}
	r := domain.Root{Num: g.Numerator, Den: g.Denominator}
	if !r.IsInteger() && !stage.Rational {
		return domain.Root{}, fmt.Errorf("%w: %s", ErrFractionNotAllowed, r)
	}

	// on button variants a typed value must name a label
	if len(stage.Candidates) > 0 {
		for _, c := range stage.Candidates {
			if c.Value == r {
				return r, nil
			}
		}
		return domain.Root{}, fmt.Errorf("%w: label %s", ErrNoSuchButton, r)
	}
	return r, nil
}
