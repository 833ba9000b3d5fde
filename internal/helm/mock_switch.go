// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package helm

// MockSwitch is an in-memory Switch for tests and bench setups: the level
// is injected directly instead of read from GPIO.
type MockSwitch struct {
	position SwitchPosition
}

// NewMockSwitch returns a MockSwitch resting in Neutral.
func NewMockSwitch() *MockSwitch {
	return &MockSwitch{position: Neutral}
}

// Set injects the instantaneous toggle position.
func (m *MockSwitch) Set(p SwitchPosition) { m.position = p }

// Position implements Switch.
func (m *MockSwitch) Position() SwitchPosition { return m.position }
