package domain

import "fmt"

// State is the lifecycle position of one puzzle instance.
type State int

const (
	StateInProgress State = iota // accepting guesses
	StateLocked                  // waiting for Resume after a strike or stage clear
	StateSolved                  // terminal
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateLocked:
		return "locked"
	case StateSolved:
		return "solved"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome is the signal emitted for one submitted guess.
type Outcome int

const (
	OutcomeNone             Outcome = iota // guess ignored, nothing emitted
	OutcomeInvalidInput                    // malformed or unreduced guess
	OutcomeCorrectPartial                  // new correct root confirmed
	OutcomeAlreadyConfirmed                // correct root, pressed before
	OutcomeStrike                          // wrong root
	OutcomeStageComplete                   // every distinct root of the stage confirmed
	OutcomeModuleSolved                    // final stage complete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeCorrectPartial:
		return "correct_partial"
	case OutcomeAlreadyConfirmed:
		return "already_confirmed"
	case OutcomeStrike:
		return "strike"
	case OutcomeStageComplete:
		return "stage_complete"
	case OutcomeModuleSolved:
		return "module_solved"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Locks reports whether the outcome moves the engine out of InProgress.
func (o Outcome) Locks() bool {
	return o == OutcomeStrike || o == OutcomeStageComplete || o == OutcomeModuleSolved
}
