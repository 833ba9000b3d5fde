// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package steer

// MockOutput is an in-memory Output recording every pulse write, for
// deterministic tests without PWM hardware.
type MockOutput struct {
	Pulses   []float64
	Disabled bool

	// FailWith, when set, is returned by SetPulse to simulate a
	// transient hardware fault.
	FailWith error
}

// NewMockOutput returns an empty recording output.
func NewMockOutput() *MockOutput {
	return &MockOutput{}
}

// LastPulse returns the most recent pulse width written, or 0 if none.
func (m *MockOutput) LastPulse() float64 {
	if len(m.Pulses) == 0 {
		return 0
	}
	return m.Pulses[len(m.Pulses)-1]
}

// SetPulse implements Output.
func (m *MockOutput) SetPulse(us float64) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Pulses = append(m.Pulses, us)
	return nil
}

// Disable implements Output.
func (m *MockOutput) Disable() error {
	m.Disabled = true
	return nil
}
