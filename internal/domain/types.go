package domain

import (
	"slices"
	"time"
)

// Guess is one raw user input. Value guesses carry an unreduced pair as
// typed; button guesses carry a zero-based candidate index.
type Guess struct {
	Numerator   int  `json:"numerator"`
	Denominator int  `json:"denominator"`
	Index       int  `json:"index"`
	ByIndex     bool `json:"byIndex,omitempty"`
}

// GuessInt is a typed integer guess.
func GuessInt(v int) Guess { return Guess{Numerator: v, Denominator: 1} }

// GuessFraction is a typed n/d guess.
func GuessFraction(n, d int) Guess { return Guess{Numerator: n, Denominator: d} }

// GuessButton presses the candidate at index i.
func GuessButton(i int) Guess { return Guess{Index: i, ByIndex: true} }

// Candidate is one labelled button.
type Candidate struct {
	Label   string `json:"label"`
	Value   Root   `json:"value"`
	Correct bool   `json:"-"`
}

// Stage is one round: the hidden roots and everything derived from them.
type Stage struct {
	Index        int
	Roots        []Root // distinct, draw order
	Multiplicity []int  // parallel to Roots
	Coefficients []int  // index 0 is the highest degree
	Equation     string
	Display      string // Equation wrapped for the module screen
	Candidates   []Candidate
	Rational     bool // fraction guesses accepted
}

func (s *Stage) Degree() int { return len(s.Coefficients) - 1 }

func (s *Stage) Contains(r Root) bool { return slices.Contains(s.Roots, r) }

// Labels returns candidate labels in display order.
func (s *Stage) Labels() []string {
	if len(s.Candidates) == 0 {
		return nil
	}
	out := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		out[i] = c.Label
	}
	return out
}

// Result is what SubmitGuess reports. Events lists every emitted outcome
// in order; Outcome is the last of them.
type Result struct {
	Outcome     Outcome       `json:"outcome"`
	Events      []Outcome     `json:"events,omitempty"`
	Root        *Root         `json:"root,omitempty"`
	Stage       int           `json:"stage"`
	State       State         `json:"state"`
	Reason      string        `json:"reason,omitempty"`
	ResumeAfter time.Duration `json:"resumeAfter,omitempty"`
}

// CandidateView is a button as the presentation layer sees it.
type CandidateView struct {
	Label     string `json:"label"`
	Confirmed bool   `json:"confirmed"`
}

// Snapshot is the public view of a puzzle. It never exposes hidden roots.
type Snapshot struct {
	ID          string          `json:"id"`
	Variant     string          `json:"variant"`
	DisplayName string          `json:"displayName"`
	State       State           `json:"state"`
	Stage       int             `json:"stage"`
	StageCount  int             `json:"stageCount"`
	Equation    string          `json:"equation"`
	Display     string          `json:"display"`
	Candidates  []CandidateView `json:"candidates,omitempty"`
	Confirmed   []string        `json:"confirmed"`
	Remaining   int             `json:"remaining"`
	Fractions   bool            `json:"fractions"`
	Strikes     int             `json:"strikes"`
}

// Hint proposes the next root to enter.
type Hint struct {
	Root    Root   `json:"root"`
	Message string `json:"message,omitempty"`
}

// SessionMeta is a lightweight listing entry.
type SessionMeta struct {
	ID        string `json:"id"`
	Variant   string `json:"variant"`
	State     State  `json:"state"`
	Stage     int    `json:"stage"`
	CreatedAt int64  `json:"createdAt"`
}
