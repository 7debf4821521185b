package pipeline

import (
	"fmt"

	"swap-supply/pkg/types"
)

// State is a step of the swap-and-supply run
type State int

const (
	Idle State = iota
	AuthorizingInput
	Swapping
	AuthorizingOutput
	Depositing
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AuthorizingInput:
		return "authorizing_input"
	case Swapping:
		return "swapping"
	case AuthorizingOutput:
		return "authorizing_output"
	case Depositing:
		return "depositing"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can leave s
func (s State) Terminal() bool {
	return s == Complete || s == Failed
}

// next returns the successor of s on the success path
func (s State) next() State {
	if s.Terminal() {
		return s
	}
	return s + 1
}

// Event describes one state transition
type Event struct {
	RunID string
	From  State
	To    State
	// Quantity carried into To; zero value when the transition carries nothing
	Quantity types.Quantity
	// Receipt of the transaction confirmed while leaving From, if any
	Receipt *types.TransactionReceipt
	Err     error
}

// Reporter observes run progress
type Reporter interface {
	Transition(Event)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(Event)

func (f ReporterFunc) Transition(e Event) {
	f(e)
}

// MultiReporter fans events out to several reporters in order
type MultiReporter []Reporter

func (m MultiReporter) Transition(e Event) {
	for _, r := range m {
		if r != nil {
			r.Transition(e)
		}
	}
}

// RunError is returned when a run ends in Failed
type RunError struct {
	RunID string
	// State the run was in when the failure happened
	State State
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed while %s: %v", e.RunID, e.State, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
