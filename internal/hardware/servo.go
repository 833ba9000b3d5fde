// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// pca9685 counts a 12-bit tick space per PWM period.
const pwmTicks = 4096.0

// Servo drives the rudder servo through one channel of a PCA9685 PWM
// board. Implements steer.Output.
type Servo struct {
	bus     i2c.BusCloser
	dev     *pca9685.Dev
	channel int
	freqHz  float64
}

// NewServo opens the I2C bus, brings up the PCA9685 and programs the PWM
// frequency. busName "" picks the platform's default bus.
func NewServo(busName string, addr uint16, channel, freqHz int) (*Servo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("pca9685 at 0x%02X: %w", addr, err)
	}

	if err := dev.SetPwmFreq(physic.Frequency(freqHz) * physic.Hertz); err != nil {
		bus.Close()
		return nil, fmt.Errorf("pca9685 set frequency: %w", err)
	}

	return &Servo{bus: bus, dev: dev, channel: channel, freqHz: float64(freqHz)}, nil
}

// SetPulse implements steer.Output: converts a pulse width in
// microseconds to on-ticks within the PWM period.
func (s *Servo) SetPulse(us float64) error {
	periodUs := 1e6 / s.freqHz
	ticks := gpio.Duty(us / periodUs * pwmTicks)
	if err := s.dev.SetPwm(s.channel, 0, ticks); err != nil {
		return fmt.Errorf("pca9685 set pwm: %w", err)
	}
	return nil
}

// Disable implements steer.Output: zero the channel so the servo stops
// holding torque, then release the bus.
func (s *Servo) Disable() error {
	if err := s.dev.SetFullOff(s.channel); err != nil {
		return fmt.Errorf("pca9685 disable: %w", err)
	}
	return s.bus.Close()
}
