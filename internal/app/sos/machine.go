// Package sos implements the emergency overlay: a short cancellable
// countdown followed by a broadcast that can only be dismissed.
package sos

import "fmt"

// DefaultCountdown is the number of seconds before the broadcast starts.
const DefaultCountdown = 5

type Phase int

const (
	PhaseCountingDown Phase = iota
	PhaseBroadcasting
	// PhaseClosed is terminal: the overlay was cancelled or dismissed.
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseCountingDown:
		return "counting-down"
	case PhaseBroadcasting:
		return "broadcasting"
	case PhaseClosed:
		return "closed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type State struct {
	Phase            Phase
	SecondsRemaining int
	Cancellable      bool
}

// Machine is the pure countdown state machine. It is not safe for
// concurrent use; Overlay serializes access.
type Machine struct {
	phase     Phase
	remaining int
}

// NewMachine starts counting down from n seconds. n <= 0 broadcasts at once.
func NewMachine(n int) *Machine {
	m := &Machine{phase: PhaseCountingDown, remaining: n}
	if n <= 0 {
		m.Force()
	}
	return m
}

// Tick advances one second. It reports whether the state changed.
func (m *Machine) Tick() bool {
	if m.phase != PhaseCountingDown {
		return false
	}
	m.remaining--
	if m.remaining <= 0 {
		m.Force()
	}
	return true
}

// Force skips the rest of the countdown.
func (m *Machine) Force() bool {
	if m.phase != PhaseCountingDown {
		return false
	}
	m.phase = PhaseBroadcasting
	m.remaining = 0
	return true
}

// Cancel closes the overlay during the countdown. Once broadcasting it is
// ignored and reports false.
func (m *Machine) Cancel() bool {
	if m.phase != PhaseCountingDown {
		return false
	}
	m.phase = PhaseClosed
	return true
}

// Dismiss closes the overlay while broadcasting.
func (m *Machine) Dismiss() bool {
	if m.phase != PhaseBroadcasting {
		return false
	}
	m.phase = PhaseClosed
	return true
}

func (m *Machine) State() State {
	return State{
		Phase:            m.phase,
		SecondsRemaining: m.remaining,
		Cancellable:      m.phase == PhaseCountingDown,
	}
}
