// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package compass maps continuous headings onto discrete compass roses.
package compass

import "math"

// Azimuth is one of the 16 points of the compass rose.
type Azimuth int

const (
	N Azimuth = iota
	NNE
	NE
	ENE
	E
	ESE
	SE
	SSE
	S
	SSW
	SW
	WSW
	W
	WNW
	NW
	NNW
)

var azimuthNames = [16]string{
	"North", "North-NorthEast", "North-East", "East-NorthEast",
	"East", "East-SouthEast", "South-East", "South-SouthEast",
	"South", "South-SouthWest", "South-West", "West-SouthWest",
	"West", "West-NorthWest", "North-West", "North-NorthWest",
}

var azimuthAbbrevs = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Name returns the full name of the azimuth, e.g. "North-NorthEast".
func (a Azimuth) Name() string {
	if a < N || a > NNW {
		return "Unknown"
	}
	return azimuthNames[a]
}

// Abbreviation returns the short form, e.g. "NNE".
func (a Azimuth) Abbreviation() string {
	if a < N || a > NNW {
		return "?"
	}
	return azimuthAbbrevs[a]
}

func (a Azimuth) String() string { return a.Abbreviation() }

// Normalize maps any heading into [0, 360).
func Normalize(heading float64) float64 {
	return math.Mod(math.Mod(heading, 360.0)+360.0, 360.0)
}

// Azimuth16 classifies a heading on the 16-point rose. Each point spans
// 22.5° centered on its nominal direction; the upper bound of each span is
// exclusive, so exactly 11.25° is NNE, not N. Returns the point and the
// normalized heading used to classify it.
func Azimuth16(heading float64) (Azimuth, float64) {
	normalized := Normalize(heading)

	// N wraps around zero: [348.75, 360) ∪ [0, 11.25).
	if normalized >= 348.75 || normalized < 11.25 {
		return N, normalized
	}
	idx := int((normalized + 11.25) / 22.5)
	return Azimuth(idx % 16), normalized
}

// Azimuth8 classifies a heading on the 8-point rose (45° spans).
func Azimuth8(heading float64) (Azimuth, float64) {
	normalized := Normalize(heading)

	if normalized >= 337.5 || normalized < 22.5 {
		return N, normalized
	}
	idx := int((normalized + 22.5) / 45.0)
	return Azimuth((idx * 2) % 16), normalized
}

// Azimuth4 classifies a heading on the 4-point rose (90° spans).
func Azimuth4(heading float64) (Azimuth, float64) {
	normalized := Normalize(heading)

	if normalized >= 315.0 || normalized < 45.0 {
		return N, normalized
	}
	idx := int((normalized + 45.0) / 90.0)
	return Azimuth((idx * 4) % 16), normalized
}
