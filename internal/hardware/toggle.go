// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package hardware provides the real periph.io backends for the helm's
// capability interfaces: the pilot toggle, the rudder servo and the
// fallback compass.
package hardware

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/openmarine/tillerpilot/internal/helm"
)

// Toggle reads the 3-position pilot switch from two GPIO lines with
// pull-ups, active low. Implements helm.Switch.
type Toggle struct {
	left  gpio.PinIO
	right gpio.PinIO
}

// NewToggle acquires the two lines and waits for them to settle so the
// first poll after construction reads a stable level.
func NewToggle(leftPin, rightPin string, settle time.Duration) (*Toggle, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	left := gpioreg.ByName(leftPin)
	if left == nil {
		return nil, fmt.Errorf("toggle left pin %q not found", leftPin)
	}
	right := gpioreg.ByName(rightPin)
	if right == nil {
		return nil, fmt.Errorf("toggle right pin %q not found", rightPin)
	}

	if err := left.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("toggle left pin %q: %w", leftPin, err)
	}
	if err := right.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("toggle right pin %q: %w", rightPin, err)
	}

	time.Sleep(settle)

	return &Toggle{left: left, right: right}, nil
}

// Position implements helm.Switch. Both lines active (a mid-travel bounce
// on some switches) reads as Neutral.
func (t *Toggle) Position() helm.SwitchPosition {
	leftActive := t.left.Read() == gpio.Low
	rightActive := t.right.Read() == gpio.Low

	switch {
	case leftActive && !rightActive:
		return helm.Left
	case rightActive && !leftActive:
		return helm.Right
	default:
		return helm.Neutral
	}
}
