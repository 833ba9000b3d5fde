// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package track holds the vehicle's last-known GPS state, shared between
// the fix-ingestion goroutine and the helm control loop.
package track

import (
	"sync"

	"github.com/openmarine/tillerpilot/internal/geo"
)

// HeadingSensor is a fallback heading source (typically a magnetometer),
// consulted only when no GPS course is available.
type HeadingSensor interface {
	ReadHeading() (float64, error)
}

// Tracker aggregates the most recent valid GPS samples. Each field is
// independently optional: unset until the first valid fix, then
// overwritten on every subsequent one, never cleared. All access goes
// through the internal mutex; critical sections are field copies only.
type Tracker struct {
	mu sync.Mutex

	position      geo.Position
	havePosition  bool
	heading       float64
	haveHeading   bool
	speedKnots    float64
	haveSpeed     bool
	numSatellites int
	haveSats      bool
	hdop          float64
	haveHdop      bool
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// UpdatePosition overwrites the current position. Range validity is the
// fix source's responsibility.
func (t *Tracker) UpdatePosition(lat, lon float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = geo.NewPosition(lat, lon)
	t.havePosition = true
}

// UpdateHeading overwrites the current course-over-ground in degrees.
func (t *Tracker) UpdateHeading(deg float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.heading = deg
	t.haveHeading = true
}

// UpdateSpeed overwrites the current speed over ground in knots.
func (t *Tracker) UpdateSpeed(knots float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speedKnots = knots
	t.haveSpeed = true
}

// UpdateSatellites overwrites the satellites-in-use count.
func (t *Tracker) UpdateSatellites(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.numSatellites = n
	t.haveSats = true
}

// UpdateHdop overwrites the horizontal dilution of precision.
func (t *Tracker) UpdateHdop(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hdop = v
	t.haveHdop = true
}

// Position returns the last-known position, if any.
func (t *Tracker) Position() (geo.Position, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position, t.havePosition
}

// Heading returns the last-known GPS course in degrees, if any. The source
// omits course when it cannot compute one (e.g. moving too slowly), so
// this stays absent until the vehicle has actually moved.
func (t *Tracker) Heading() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heading, t.haveHeading
}

// Speed returns the last-known speed over ground in knots, if any.
func (t *Tracker) Speed() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speedKnots, t.haveSpeed
}

// Satellites returns the last-known satellites-in-use count, if any.
func (t *Tracker) Satellites() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numSatellites, t.haveSats
}

// Hdop returns the last-known HDOP, if any.
func (t *Tracker) Hdop() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hdop, t.haveHdop
}

// ForwardVector returns a vector from the current position along the
// current heading, or false if either is unset.
func (t *Tracker) ForwardVector(distance float64) (geo.Vector, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.havePosition || !t.haveHeading {
		return geo.Vector{}, false
	}
	return geo.NewVector(t.position, t.heading, distance), true
}

// VectorToHeading returns a vector from the current position along an
// arbitrary heading, or false if the position is unset.
func (t *Tracker) VectorToHeading(heading, distance float64) (geo.Vector, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.havePosition {
		return geo.Vector{}, false
	}
	return geo.NewVector(t.position, heading, distance), true
}

// HeadingWithFallback prefers the GPS course and falls back to the given
// sensor when the course is absent (e.g. stationary). Returns false if
// neither source can supply a heading.
func (t *Tracker) HeadingWithFallback(sensor HeadingSensor) (float64, bool) {
	if h, ok := t.Heading(); ok {
		return h, true
	}
	if sensor == nil {
		return 0, false
	}
	h, err := sensor.ReadHeading()
	if err != nil {
		return 0, false
	}
	return h, true
}
