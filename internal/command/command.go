// Package command parses the scripted text surface:
//
//	press <label> [<label>...]
//	submit <n>[/<d>] [<n>[/<d>]...]
//
// Verbs are case-insensitive. Parsing never touches a puzzle; callers apply
// the resulting guesses in order.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"svw.info/indices/internal/domain"
)

var (
	// ErrUnknownCommand indicates a verb other than press or submit.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrMalformed indicates a known verb with unusable arguments.
	ErrMalformed = errors.New("malformed command")
	// ErrUnknownLabel indicates a press naming no displayed button.
	ErrUnknownLabel = errors.New("no button with that label")
)

// Verb names the command kind.
type Verb string

const (
	VerbPress  Verb = "press"
	VerbSubmit Verb = "submit"
)

var (
	labelRe = regexp.MustCompile(`^-?[0-9]+$`)
	valueRe = regexp.MustCompile(`^(-?[0-9]+)(?:/([0-9]+))?$`)
)

// Command is one parsed line. Press keeps raw labels until Resolve maps them
// onto the current buttons; submit carries typed values as given.
type Command struct {
	Verb    Verb
	Labels  []string
	Guesses []domain.Guess
}

// Parse reads one command line.
func Parse(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrMalformed)
	}
	verb := Verb(strings.ToLower(fields[0]))
	args := fields[1:]
	switch verb {
	case VerbPress, VerbSubmit:
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: %s needs at least one argument", ErrMalformed, verb)
	}

	cmd := Command{Verb: verb}
	for _, a := range args {
		if verb == VerbPress {
			if !labelRe.MatchString(a) {
				return Command{}, fmt.Errorf("%w: label %q", ErrMalformed, a)
			}
			cmd.Labels = append(cmd.Labels, a)
			continue
		}
		g, err := parseValue(a)
		if err != nil {
			return Command{}, err
		}
		cmd.Guesses = append(cmd.Guesses, g)
	}
	return cmd, nil
}

func parseValue(s string) (domain.Guess, error) {
	m := valueRe.FindStringSubmatch(s)
	if m == nil {
		return domain.Guess{}, fmt.Errorf("%w: value %q", ErrMalformed, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.Guess{}, fmt.Errorf("%w: value %q: %v", ErrMalformed, s, err)
	}
	d := 1
	if m[2] != "" {
		if d, err = strconv.Atoi(m[2]); err != nil {
			return domain.Guess{}, fmt.Errorf("%w: value %q: %v", ErrMalformed, s, err)
		}
	}
	return domain.GuessFraction(n, d), nil
}

// HasFraction reports whether any submitted value has a denominator other than 1.
func (c Command) HasFraction() bool {
	for _, g := range c.Guesses {
		if !g.ByIndex && g.Denominator != 1 {
			return true
		}
	}
	return false
}

// Resolve turns the command into guesses against the displayed labels.
// Every press label must exist before any guess is produced.
func (c Command) Resolve(labels []string) ([]domain.Guess, error) {
	if c.Verb != VerbPress {
		return c.Guesses, nil
	}
	out := make([]domain.Guess, 0, len(c.Labels))
	for _, l := range c.Labels {
		idx := -1
		for i, have := range labels {
			if have == normalizeLabel(l) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLabel, l)
		}
		out = append(out, domain.GuessButton(idx))
	}
	return out, nil
}

// normalizeLabel drops leading zeros and a negative zero so "-0" and "04"
// match the rendered labels "0" and "4".
func normalizeLabel(l string) string {
	v, err := strconv.Atoi(l)
	if err != nil {
		return l
	}
	return strconv.Itoa(v)
}
