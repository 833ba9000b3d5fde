// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package geo provides spherical-earth position math: bearings, distances
// and forward projections between latitude/longitude points.
package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean earth radius in meters.
const EarthRadius = 6371000.0

// Position is a WGS84-ish latitude/longitude pair in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// NewPosition returns a Position from decimal degrees.
func NewPosition(lat, lon float64) Position {
	return Position{Latitude: lat, Longitude: lon}
}

func (p Position) String() string {
	return fmt.Sprintf("(%.6f°, %.6f°)", p.Latitude, p.Longitude)
}

// BearingTo returns the initial great-circle bearing from p to other in
// degrees, normalized to [0, 360) with 0 = true north.
func (p Position) BearingTo(other Position) float64 {
	latFrom := radians(p.Latitude)
	latTo := radians(other.Latitude)
	deltaLon := radians(other.Longitude - p.Longitude)

	y := math.Sin(deltaLon) * math.Cos(latTo)
	x := math.Cos(latFrom)*math.Sin(latTo) - math.Sin(latFrom)*math.Cos(latTo)*math.Cos(deltaLon)

	bearing := degrees(math.Atan2(y, x))
	return math.Mod(bearing+360.0, 360.0)
}

// DistanceTo returns the haversine great-circle distance from p to other
// in meters.
func (p Position) DistanceTo(other Position) float64 {
	latFrom := radians(p.Latitude)
	latTo := radians(other.Latitude)
	deltaLat := radians(other.Latitude - p.Latitude)
	deltaLon := radians(other.Longitude - p.Longitude)

	sinLat := math.Sin(deltaLat / 2)
	sinLon := math.Sin(deltaLon / 2)
	a := sinLat*sinLat + math.Cos(latFrom)*math.Cos(latTo)*sinLon*sinLon

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadius * c
}

// Project returns the position reached by travelling distance meters from p
// along the given bearing (spherical direct formula). The resulting
// longitude is normalized to (-180, 180].
func (p Position) Project(bearing, distance float64) Position {
	lat1 := radians(p.Latitude)
	lon1 := radians(p.Longitude)
	brng := radians(bearing)
	angular := distance / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(brng))

	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2))

	// Go's Mod keeps the dividend's sign, so a single Mod leaves
	// westward antimeridian crossings below -180.
	lon2Deg := math.Mod(math.Mod(degrees(lon2)+180.0, 360.0)+360.0, 360.0) - 180.0
	if lon2Deg == -180.0 {
		lon2Deg = 180.0
	}

	return Position{Latitude: degrees(lat2), Longitude: lon2Deg}
}

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }
