// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package helm turns pilot toggle input and the live GPS course into a
// target heading for the steering loop.
package helm

import (
	"log"

	"github.com/openmarine/tillerpilot/internal/compass"
)

// SwitchPosition is the instantaneous state of the 3-way toggle.
type SwitchPosition int

const (
	Neutral SwitchPosition = iota
	Left
	Right
)

func (p SwitchPosition) String() string {
	switch p {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Neutral"
	}
}

// Switch supplies the toggle's instantaneous position on request. The
// hardware layer is expected to have settled before polling starts.
type Switch interface {
	Position() SwitchPosition
}

// Command combines the live GPS course with a pilot-adjustable offset to
// produce the steering target. The offset is relative to the GPS course,
// so the target follows course changes while holding the commanded
// deflection. Owned by the control loop; not safe for concurrent use.
type Command struct {
	sw Switch

	stepDeg   float64 // per-edge adjustment, positive
	maxOffset float64 // clamp bound, matches servo deflection limit

	offset       float64
	gpsHeading   float64
	haveGPS      bool
	lastPosition SwitchPosition
}

// NewCommand returns a Command with offset 0 and no GPS reference yet.
// stepDeg is the magnitude applied per toggle edge; maxOffset bounds the
// standing offset so it can never request rudder travel beyond the servo.
func NewCommand(sw Switch, stepDeg, maxOffset float64) *Command {
	return &Command{
		sw:           sw,
		stepDeg:      stepDeg,
		maxOffset:    maxOffset,
		lastPosition: Neutral,
	}
}

// UpdateGPSHeading normalizes and stores the live GPS course reference.
// The pilot offset is untouched, so with no adjustments the target tracks
// the course 1:1.
func (c *Command) UpdateGPSHeading(deg float64) {
	c.gpsHeading = compass.Normalize(deg)
	c.haveGPS = true
}

// TargetHeading returns normalize(gps heading + offset), or false until a
// first GPS heading has been observed.
func (c *Command) TargetHeading() (float64, bool) {
	if !c.haveGPS {
		return 0, false
	}
	return compass.Normalize(c.gpsHeading + c.offset), true
}

// Offset returns the current pilot offset in degrees.
func (c *Command) Offset() float64 {
	return c.offset
}

// LastPosition returns the last observed toggle position.
func (c *Command) LastPosition() SwitchPosition {
	return c.lastPosition
}

// AdjustOffset adds delta to the offset. If the result would exceed the
// maximum deflection it is clamped to ±max and false is returned so the
// caller can surface operator feedback; otherwise true.
func (c *Command) AdjustOffset(delta float64) bool {
	candidate := c.offset + delta
	if candidate > c.maxOffset {
		c.offset = c.maxOffset
		return false
	}
	if candidate < -c.maxOffset {
		c.offset = -c.maxOffset
		return false
	}
	c.offset = candidate
	return true
}

// Poll reads the toggle and applies edge-triggered offset adjustments:
// an edge into Left steps the offset by -stepDeg, into Right by +stepDeg,
// into Neutral nothing. Holding a side does not repeat; a new adjustment
// requires a fresh edge. Returns true only if an edge occurred and a GPS
// heading has already been observed. Edges before the first course fix
// are absorbed without touching the offset.
func (c *Command) Poll() bool {
	position := c.sw.Position()
	changed := position != c.lastPosition
	c.lastPosition = position

	if !changed {
		return false
	}

	if !c.haveGPS {
		if position != Neutral {
			log.Printf("helm: toggle %v ignored, waiting for first GPS course", position)
		}
		return false
	}

	switch position {
	case Left:
		if !c.AdjustOffset(-c.stepDeg) {
			log.Printf("helm: offset clamped at %.1f°", c.offset)
		}
	case Right:
		if !c.AdjustOffset(c.stepDeg) {
			log.Printf("helm: offset clamped at %.1f°", c.offset)
		}
	case Neutral:
		// Confirmation only; the offset holds.
	}

	return true
}
