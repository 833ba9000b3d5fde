// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hardware

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// LIS3MDL register addresses.
const (
	lisWhoAmI   = 0x0F
	lisCtrlReg1 = 0x20
	lisCtrlReg2 = 0x21
	lisCtrlReg3 = 0x22
	lisCtrlReg4 = 0x23
	lisCtrlReg5 = 0x24
	lisStatus   = 0x27
	lisOutXL    = 0x28

	lisChipID = 0x3D
	// MSB of the sub-address enables register auto-increment.
	lisAutoInc = 0x80
)

// LIS3MDL is the magnetometer used as a heading fallback when the vehicle
// is too slow for a GPS course. Implements track.HeadingSensor.
type LIS3MDL struct {
	bus i2c.BusCloser
	dev i2c.Dev

	// Hard-iron calibration and mounting correction, from config.
	xOffset          float64
	yOffset          float64
	headingOffsetDeg float64
}

// NewLIS3MDL probes the chip, configures continuous conversion at 80 Hz
// and verifies that samples are flowing.
func NewLIS3MDL(busName string, addr uint16, xOffset, yOffset, headingOffsetDeg float64) (*LIS3MDL, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	m := &LIS3MDL{
		bus:              bus,
		dev:              i2c.Dev{Bus: bus, Addr: addr},
		xOffset:          xOffset,
		yOffset:          yOffset,
		headingOffsetDeg: headingOffsetDeg,
	}

	var id [1]byte
	if err := m.dev.Tx([]byte{lisWhoAmI}, id[:]); err != nil {
		bus.Close()
		return nil, fmt.Errorf("lis3mdl who_am_i: %w", err)
	}
	if id[0] != lisChipID {
		bus.Close()
		return nil, fmt.Errorf("lis3mdl wrong device ID 0x%02X, expected 0x%02X", id[0], lisChipID)
	}

	// Ultra-high performance X/Y at 80 Hz, ±4 gauss, continuous
	// conversion, ultra-high performance Z, block data update.
	setup := [][2]byte{
		{lisCtrlReg1, 0xFC},
		{lisCtrlReg2, 0x00},
		{lisCtrlReg3, 0x00},
		{lisCtrlReg4, 0x0C},
		{lisCtrlReg5, 0x40},
	}
	for _, w := range setup {
		if err := m.dev.Tx(w[:], nil); err != nil {
			bus.Close()
			return nil, fmt.Errorf("lis3mdl write reg 0x%02X: %w", w[0], err)
		}
	}

	time.Sleep(100 * time.Millisecond)

	var status [1]byte
	if err := m.dev.Tx([]byte{lisStatus}, status[:]); err != nil {
		bus.Close()
		return nil, fmt.Errorf("lis3mdl status: %w", err)
	}
	if status[0] == 0 {
		bus.Close()
		return nil, fmt.Errorf("lis3mdl not producing data")
	}

	return m, nil
}

// ReadHeading implements track.HeadingSensor: one calibrated heading in
// [0, 360), or an error when no fresh sample is ready.
func (m *LIS3MDL) ReadHeading() (float64, error) {
	x, y, err := m.readRaw()
	if err != nil {
		return 0, err
	}

	heading := math.Atan2(y-m.yOffset, x-m.xOffset) * 180.0 / math.Pi
	heading += m.headingOffsetDeg

	return math.Mod(math.Mod(heading, 360.0)+360.0, 360.0), nil
}

func (m *LIS3MDL) readRaw() (x, y float64, err error) {
	var status [1]byte
	if err := m.dev.Tx([]byte{lisStatus}, status[:]); err != nil {
		return 0, 0, fmt.Errorf("lis3mdl status: %w", err)
	}
	if status[0]&0x08 == 0 {
		return 0, 0, fmt.Errorf("lis3mdl data not ready")
	}

	var out [6]byte
	if err := m.dev.Tx([]byte{lisOutXL | lisAutoInc}, out[:]); err != nil {
		return 0, 0, fmt.Errorf("lis3mdl read: %w", err)
	}

	xRaw := int16(binary.LittleEndian.Uint16(out[0:2]))
	yRaw := int16(binary.LittleEndian.Uint16(out[2:4]))
	return float64(xRaw), float64(yRaw), nil
}

// Close releases the I2C bus.
func (m *LIS3MDL) Close() error {
	return m.bus.Close()
}
