// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geo

import "fmt"

// Vector is a directed great-circle segment: an origin, a heading in
// degrees (0 = true north) and a distance in meters. Vectors are computed
// on demand and never persisted.
type Vector struct {
	Start    Position
	Heading  float64
	Distance float64
}

// NewVector returns a Vector from start along heading for distance meters.
func NewVector(start Position, heading, distance float64) Vector {
	return Vector{Start: start, Heading: heading, Distance: distance}
}

// End returns the projected end position of the vector.
func (v Vector) End() Position {
	return v.Start.Project(v.Heading, v.Distance)
}

func (v Vector) String() string {
	return fmt.Sprintf("%v -> %v (heading: %.1f°, distance: %.1fm)",
		v.Start, v.End(), v.Heading, v.Distance)
}
