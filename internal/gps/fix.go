// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gps defines the GPS fix wire format published over MQTT.
package gps

// Fix is one combined GPS fix. Pointer fields are absent until the
// receiver has supplied them; a nil course is how "too slow to steer by
// GPS" shows up downstream.
type Fix struct {
	Time       string   `json:"time"` // e.g. "12:34:56"
	Latitude   float64  `json:"lat"`  // decimal degrees
	Longitude  float64  `json:"lon"`  // decimal degrees
	SpeedKnots *float64 `json:"speed_knots,omitempty"`
	CourseDeg  *float64 `json:"course_deg,omitempty"`
	Satellites *int     `json:"satellites,omitempty"`
	Hdop       *float64 `json:"hdop,omitempty"`
	Validity   string   `json:"validity"` // "A" (valid) / "V" (void)
}
