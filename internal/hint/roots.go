package hint

import (
	"context"
	"fmt"
	"slices"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/equation"
	"svw.info/indices/internal/ports"
)

// Roots implements a Hinter that reads the displayed equation back into
// coefficients and factors it, so it only ever sees what the player sees.
type Roots struct {
	Finder ports.RootFinder
}

func NewRoots(finder ports.RootFinder) *Roots { return &Roots{Finder: finder} }

// Hint returns the smallest root not yet confirmed. It reports false when the
// puzzle is not accepting guesses or every root is already confirmed.
func (h *Roots) Hint(ctx context.Context, snap domain.Snapshot) (domain.Hint, bool, error) {
	if snap.State != domain.StateInProgress {
		return domain.Hint{}, false, nil
	}
	coeffs, err := equation.Parse(snap.Equation)
	if err != nil {
		return domain.Hint{}, false, fmt.Errorf("read equation %q: %w", snap.Equation, err)
	}
	roots, mult, _, err := h.Finder.Roots(ctx, coeffs)
	if err != nil {
		return domain.Hint{}, false, err
	}
	for i, r := range roots {
		if slices.Contains(snap.Confirmed, r.String()) {
			continue
		}
		msg := fmt.Sprintf("(%s) divides the equation", factor(r))
		if mult[i] > 1 {
			msg = fmt.Sprintf("(%s)%s divides the equation", factor(r), equation.Superscript(mult[i]))
		}
		return domain.Hint{Root: r, Message: msg}, true, nil
	}
	return domain.Hint{}, false, nil
}

// factor renders the linear factor a root comes from, e.g. "x-3" or "2x+1".
func factor(r domain.Root) string {
	lead := equation.Variable
	if r.Den != 1 {
		lead = fmt.Sprint(r.Den) + equation.Variable
	}
	switch {
	case r.Num == 0:
		return lead
	case r.Num > 0:
		return fmt.Sprintf("%s-%d", lead, r.Num)
	default:
		return fmt.Sprintf("%s+%d", lead, -r.Num)
	}
}
