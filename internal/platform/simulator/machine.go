// Package simulator runs the backend's synthetic data seed and tracks its
// progress per analyst session.
package simulator

import (
	"errors"
	"fmt"
)

// State is the simulator indicator.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// ErrInvalidTransition is returned for a transition the machine does not allow.
var ErrInvalidTransition = errors.New("invalid simulator transition")

// Machine enforces idle -> loading -> success | error, and error -> idle.
// Success is terminal.
type Machine struct {
	state   State
	message string
}

// NewMachine returns a machine in the idle state
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Message() string {
	return m.message
}

func (m *Machine) transition(from, to State, message string) error {
	if m.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
	}
	m.state = to
	m.message = message
	return nil
}

// Start moves idle to loading.
func (m *Machine) Start() error {
	return m.transition(StateIdle, StateLoading, "Ejecutando seed_data en el servidor...")
}

// Succeed moves loading to success.
func (m *Machine) Succeed(message string) error {
	if message == "" {
		message = "Simulación completada con éxito."
	}
	return m.transition(StateLoading, StateSuccess, message)
}

// Fail moves loading to error.
func (m *Machine) Fail(message string) error {
	return m.transition(StateLoading, StateError, "Error en la simulación: "+message)
}

// Retry moves error back to idle.
func (m *Machine) Retry() error {
	return m.transition(StateError, StateIdle, "")
}
