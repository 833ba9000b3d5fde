// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package steer closes the heading loop: a PID controller over
// wraparound-safe heading error drives a rate-limited rudder servo angle.
package steer

import (
	"fmt"
	"math"
)

// Output is the actuator driver boundary: it accepts a pulse width in
// microseconds and a disable call. The real backend is a PWM channel;
// tests inject a recording double.
type Output interface {
	SetPulse(us float64) error
	Disable() error
}

// Config carries the controller tuning and servo geometry. Defaults match
// a standard 1000–2000 µs rudder servo with pure proportional control.
type Config struct {
	Kp float64
	Ki float64
	Kd float64

	// DeadbandDeg is the error magnitude below which no correction is
	// applied, to avoid chatter from fix-to-fix course noise.
	DeadbandDeg float64

	// MaxAngleDeg bounds the commanded rudder angle to the servo's
	// physical travel (±MaxAngleDeg).
	MaxAngleDeg float64

	// MaxRateDegPerSec caps per-cycle angle change so a sudden large
	// heading error cannot slam the rudder.
	MaxRateDegPerSec float64

	MinPulseUs    float64
	CenterPulseUs float64
	MaxPulseUs    float64
}

// DefaultConfig returns the documented tuning defaults.
func DefaultConfig() Config {
	return Config{
		Kp:               1.0,
		Ki:               0.0,
		Kd:               0.0,
		DeadbandDeg:      2.0,
		MaxAngleDeg:      90.0,
		MaxRateDegPerSec: 40.0,
		MinPulseUs:       1000.0,
		CenterPulseUs:    1500.0,
		MaxPulseUs:       2000.0,
	}
}

// Actuator holds the controller state. Owned by the control loop; the
// integral, last error and commanded angle persist for the process
// lifetime and are reset only at construction.
type Actuator struct {
	out Output
	cfg Config

	integral     float64
	lastError    float64
	currentAngle float64
}

// NewActuator centers the servo and returns a ready controller. A failed
// center write is a construction fault: the caller decides whether to run
// without steering.
func NewActuator(out Output, cfg Config) (*Actuator, error) {
	a := &Actuator{out: out, cfg: cfg}
	if err := a.Center(); err != nil {
		return nil, fmt.Errorf("center servo: %w", err)
	}
	return a, nil
}

// HeadingError returns current − target mapped into (−180, 180]. The sign
// convention is deliberate: positive rudder pushes the stern opposite the
// bow's required turn, so the error is current-relative, not
// target-relative. Reversing it inverts the whole control direction.
func HeadingError(target, current float64) float64 {
	err := current - target
	if err > 180.0 {
		err -= 360.0
	} else if err <= -180.0 {
		err += 360.0
	}
	return err
}

// Correct computes the raw PID correction angle for one cycle.
//
// Errors inside the deadband return 0 and leave the integral and
// derivative state untouched, so noise cannot wind up the integrator.
// A non-positive dt is treated the same way (no state, no output).
// The result is clamped to ±MaxAngleDeg.
func (a *Actuator) Correct(target, current, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	err := HeadingError(target, current)
	if math.Abs(err) < a.cfg.DeadbandDeg {
		return 0
	}

	p := a.cfg.Kp * err

	a.integral += err * dt
	i := a.cfg.Ki * a.integral

	d := a.cfg.Kd * (err - a.lastError) / dt
	a.lastError = err

	return clamp(p+i+d, -a.cfg.MaxAngleDeg, a.cfg.MaxAngleDeg)
}

// AutoSteer runs one control cycle: compute the PID correction, limit the
// angle change to MaxRateDegPerSec·dt, and drive the servo. Returns the
// angle actually applied; the internal angle tracks that applied value so
// the limiter slews from reality, not from the request.
func (a *Actuator) AutoSteer(target, current, dt float64) (float64, error) {
	if dt <= 0 {
		return a.currentAngle, nil
	}

	desired := a.Correct(target, current, dt)

	maxStep := a.cfg.MaxRateDegPerSec * dt
	diff := desired - a.currentAngle

	applied := desired
	if math.Abs(diff) > maxStep {
		applied = a.currentAngle + math.Copysign(maxStep, diff)
	}

	if err := a.SetAngle(applied); err != nil {
		return a.currentAngle, err
	}
	return applied, nil
}

// SetAngle clamps the angle to the servo range, maps it to a pulse width
// and writes it. The commanded angle is tracked only when the hardware
// write succeeds, so a failed cycle retries naturally from the old angle.
func (a *Actuator) SetAngle(angle float64) error {
	clamped := clamp(angle, -a.cfg.MaxAngleDeg, a.cfg.MaxAngleDeg)
	if err := a.out.SetPulse(a.PulseForAngle(clamped)); err != nil {
		return err
	}
	a.currentAngle = clamped
	return nil
}

// Center moves the servo to the neutral position.
func (a *Actuator) Center() error {
	return a.SetAngle(0)
}

// CurrentAngle returns the last angle actually applied to the servo.
func (a *Actuator) CurrentAngle() float64 {
	return a.currentAngle
}

// PulseForAngle maps an angle in [−MaxAngleDeg, +MaxAngleDeg] linearly to
// [MinPulseUs, MaxPulseUs] with the center pulse at 0°. Input is clamped
// to the angle range first, as a second clamp at the hardware boundary.
func (a *Actuator) PulseForAngle(angle float64) float64 {
	clamped := clamp(angle, -a.cfg.MaxAngleDeg, a.cfg.MaxAngleDeg)
	if clamped >= 0 {
		return a.cfg.CenterPulseUs + (clamped/a.cfg.MaxAngleDeg)*(a.cfg.MaxPulseUs-a.cfg.CenterPulseUs)
	}
	return a.cfg.CenterPulseUs + (clamped/a.cfg.MaxAngleDeg)*(a.cfg.CenterPulseUs-a.cfg.MinPulseUs)
}

// Close returns the rudder to neutral and disables the output. Called on
// shutdown so the servo is not left holding a deflection.
func (a *Actuator) Close() error {
	centerErr := a.Center()
	if err := a.out.Disable(); err != nil {
		return err
	}
	return centerErr
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
