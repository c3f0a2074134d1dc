package form

import (
	"errors"
	"fmt"
)

// State is a step of the submission state machine.
type State int

const (
	Idle State = iota
	Validating
	Rejected
	Submitting
	Succeeded
)

var stateNames = [...]string{
	Idle:       "idle",
	Validating: "validating",
	Rejected:   "rejected",
	Submitting: "submitting",
	Succeeded:  "succeeded",
}

func (s State) String() string {
	if s < Idle || s > Succeeded {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrSubmitInFlight is returned when a submit arrives while the previous
	// one has not resolved.
	ErrSubmitInFlight    = errors.New("submission already in flight")
	ErrInvalidTransition = errors.New("invalid state transition")
)

var transitions = map[State][]State{
	Idle:       {Validating},
	Validating: {Rejected, Submitting},
	Rejected:   {Validating},
	Submitting: {Succeeded, Rejected},
	Succeeded:  {Validating},
}

// Machine tracks one page's submission state. It is not safe for concurrent
// use; controllers guard it with their own lock.
type Machine struct {
	state State
}

func (m *Machine) State() State { return m.state }

// Busy reports whether the submit control is disabled.
func (m *Machine) Busy() bool { return m.state == Submitting }

func (m *Machine) to(next State) error {
	for _, s := range transitions[m.state] {
		if s == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
}

// Begin starts validation for a new submit.
func (m *Machine) Begin() error {
	if m.state == Submitting || m.state == Validating {
		return ErrSubmitInFlight
	}
	return m.to(Validating)
}

func (m *Machine) Reject() error  { return m.to(Rejected) }
func (m *Machine) Submit() error  { return m.to(Submitting) }
func (m *Machine) Succeed() error { return m.to(Succeeded) }

// Fail moves a submission that the backend refused back to Rejected.
func (m *Machine) Fail() error {
	if m.state != Submitting {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, Rejected)
	}
	m.state = Rejected
	return nil
}

// Reset returns to Idle unless a submission is outstanding, which always
// runs to completion.
func (m *Machine) Reset() {
	if m.state != Submitting {
		m.state = Idle
	}
}
