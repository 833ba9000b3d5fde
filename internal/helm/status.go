// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package helm

// Status is the steering snapshot published to MQTT once per status
// interval and rendered by the console, web and display surfaces.
// Pointer fields are absent until the underlying sample exists.
type Status struct {
	Time string `json:"time"` // RFC3339

	Latitude   *float64 `json:"lat,omitempty"`
	Longitude  *float64 `json:"lon,omitempty"`
	SpeedKnots *float64 `json:"speed_knots,omitempty"`
	Satellites *int     `json:"satellites,omitempty"`
	Hdop       *float64 `json:"hdop,omitempty"`

	HeadingDeg *float64 `json:"heading_deg,omitempty"`
	// HeadingSource is "gps" or "compass" (magnetometer fallback while
	// the GPS course is absent).
	HeadingSource string `json:"heading_source,omitempty"`
	TargetDeg  *float64 `json:"target_deg,omitempty"`
	OffsetDeg  float64  `json:"offset_deg"`
	RudderDeg  float64  `json:"rudder_deg"`
	Azimuth    string   `json:"azimuth,omitempty"` // 16-point label for HeadingDeg

	Toggle string `json:"toggle"`
	// Steering is false when the servo could not be acquired and the
	// loop is running monitor-only.
	Steering bool `json:"steering"`
}
