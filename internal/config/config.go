// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package config loads the tillerpilot YAML configuration. Every value
// has a documented default so an empty (or missing) file yields a
// runnable configuration for the reference hardware.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS     GPSConfig     `yaml:"gps"`
	Toggle  ToggleConfig  `yaml:"toggle"`
	Servo   ServoConfig   `yaml:"servo"`
	Helm    HelmConfig    `yaml:"helm"`
	Compass CompassConfig `yaml:"compass"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Web     WebConfig     `yaml:"web"`
	Display DisplayConfig `yaml:"display"`
}

type GPSConfig struct {
	SerialPort string `yaml:"serial_port"`
	BaudRate   uint   `yaml:"baud_rate"`
}

type ToggleConfig struct {
	// Pull-up inputs, active low. Left/right name the GPIO lines by
	// periph convention, e.g. "GPIO23".
	LeftPin  string `yaml:"left_pin"`
	RightPin string `yaml:"right_pin"`
	// SettleMs is the post-construction settle delay before the first
	// poll is trusted.
	SettleMs int `yaml:"settle_ms"`
}

type ServoConfig struct {
	// Rudder servo hangs off a PCA9685 PWM board.
	I2CBus        string  `yaml:"i2c_bus"`
	I2CAddr       uint16  `yaml:"i2c_addr"`
	Channel       int     `yaml:"channel"`
	FrequencyHz   int     `yaml:"frequency_hz"`
	MinPulseUs    float64 `yaml:"min_pulse_us"`
	CenterPulseUs float64 `yaml:"center_pulse_us"`
	MaxPulseUs    float64 `yaml:"max_pulse_us"`
	MaxAngleDeg   float64 `yaml:"max_angle_deg"`
}

type HelmConfig struct {
	Kp               float64 `yaml:"kp"`
	Ki               float64 `yaml:"ki"`
	Kd               float64 `yaml:"kd"`
	DeadbandDeg      float64 `yaml:"deadband_deg"`
	MaxRateDegPerSec float64 `yaml:"max_rate_deg_per_sec"`
	// StepDeg is the offset change per toggle edge.
	StepDeg          float64 `yaml:"step_deg"`
	LoopIntervalMs   int     `yaml:"loop_interval_ms"`
	StatusIntervalMs int     `yaml:"status_interval_ms"`
	LookaheadM       float64 `yaml:"lookahead_m"`
}

type CompassConfig struct {
	Enable  bool   `yaml:"enable"`
	I2CBus  string `yaml:"i2c_bus"`
	I2CAddr uint16 `yaml:"i2c_addr"`
	// Hard-iron calibration: (min+max)/2 per axis from a 360° swing,
	// plus an overall mounting correction. Producing these numbers is a
	// bench procedure outside this program.
	XOffset          float64 `yaml:"x_offset"`
	YOffset          float64 `yaml:"y_offset"`
	HeadingOffsetDeg float64 `yaml:"heading_offset_deg"`
}

type MQTTConfig struct {
	Broker        string `yaml:"broker"`
	ClientID      string `yaml:"client_id"`
	TopicFix      string `yaml:"topic_fix"`
	TopicStatus   string `yaml:"topic_status"`
	RetainLastFix bool   `yaml:"retain_last_fix"`
}

type WebConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type DisplayConfig struct {
	// SSD1306 OLED on the fixed address 0x3C.
	Enable           bool   `yaml:"enable"`
	I2CBus           string `yaml:"i2c_bus"`
	UpdateIntervalMs int    `yaml:"update_interval_ms"`
}

// Default returns the documented defaults for the reference hardware
// (Pi GPS hat on /dev/serial0, toggle on GPIO23/24, servo on PCA9685
// channel 0, LIS3MDL compass).
func Default() Config {
	return Config{
		GPS: GPSConfig{
			SerialPort: "/dev/serial0",
			BaudRate:   9600,
		},
		Toggle: ToggleConfig{
			LeftPin:  "GPIO23",
			RightPin: "GPIO24",
			SettleMs: 100,
		},
		Servo: ServoConfig{
			I2CBus:        "",
			I2CAddr:       0x40,
			Channel:       0,
			FrequencyHz:   50,
			MinPulseUs:    1000.0,
			CenterPulseUs: 1500.0,
			MaxPulseUs:    2000.0,
			MaxAngleDeg:   90.0,
		},
		Helm: HelmConfig{
			Kp:               1.0,
			Ki:               0.0,
			Kd:               0.0,
			DeadbandDeg:      2.0,
			MaxRateDegPerSec: 40.0,
			StepDeg:          5.0,
			LoopIntervalMs:   100,
			StatusIntervalMs: 1000,
			LookaheadM:       100.0,
		},
		Compass: CompassConfig{
			Enable:  false,
			I2CBus:  "",
			I2CAddr: 0x1C,
		},
		MQTT: MQTTConfig{
			Broker:        "tcp://localhost:1883",
			ClientID:      "tillerpilot",
			TopicFix:      "tiller/gps",
			TopicStatus:   "tiller/helm",
			RetainLastFix: true,
		},
		Web: WebConfig{
			Addr:      ":8080",
			StaticDir: "web",
		},
		Display: DisplayConfig{
			Enable:           false,
			I2CBus:           "",
			UpdateIntervalMs: 250,
		},
	}
}

// Load reads path and overlays it on the defaults. A missing file is not
// an error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GPS.SerialPort == "" {
		return fmt.Errorf("gps.serial_port is required")
	}
	if c.GPS.BaudRate == 0 {
		return fmt.Errorf("gps.baud_rate must be > 0")
	}
	if c.Servo.MaxAngleDeg <= 0 {
		return fmt.Errorf("servo.max_angle_deg must be > 0")
	}
	if c.Servo.MinPulseUs >= c.Servo.MaxPulseUs {
		return fmt.Errorf("servo.min_pulse_us must be below servo.max_pulse_us")
	}
	if c.Servo.CenterPulseUs < c.Servo.MinPulseUs || c.Servo.CenterPulseUs > c.Servo.MaxPulseUs {
		return fmt.Errorf("servo.center_pulse_us must lie within the pulse range")
	}
	if c.Helm.DeadbandDeg < 0 {
		return fmt.Errorf("helm.deadband_deg must be >= 0")
	}
	if c.Helm.MaxRateDegPerSec <= 0 {
		return fmt.Errorf("helm.max_rate_deg_per_sec must be > 0")
	}
	if c.Helm.StepDeg <= 0 {
		return fmt.Errorf("helm.step_deg must be > 0")
	}
	if c.Helm.LoopIntervalMs <= 0 {
		return fmt.Errorf("helm.loop_interval_ms must be > 0")
	}
	return nil
}
