package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("missing file should yield defaults")
	}
	if cfg.Helm.Kp != 1.0 || cfg.Helm.Ki != 0.0 || cfg.Helm.Kd != 0.0 {
		t.Fatalf("unexpected default gains: %+v", cfg.Helm)
	}
	if cfg.Servo.MaxAngleDeg != 90.0 || cfg.Helm.DeadbandDeg != 2.0 {
		t.Fatalf("unexpected default limits: %+v", cfg)
	}
	if cfg.Helm.MaxRateDegPerSec != 40.0 {
		t.Fatalf("unexpected default rate: %g", cfg.Helm.MaxRateDegPerSec)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tillerpilot.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
gps:
  serial_port: /dev/ttyUSB0
helm:
  kp: 1.5
  step_deg: 2.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GPS.SerialPort != "/dev/ttyUSB0" {
		t.Fatalf("serial port = %q", cfg.GPS.SerialPort)
	}
	if cfg.Helm.Kp != 1.5 || cfg.Helm.StepDeg != 2.5 {
		t.Fatalf("helm overrides not applied: %+v", cfg.Helm)
	}
	// Untouched values keep their defaults.
	if cfg.GPS.BaudRate != 9600 || cfg.Servo.CenterPulseUs != 1500.0 {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"gps:\n  serial_port: \"\"\n",
		"servo:\n  max_angle_deg: -5\n",
		"servo:\n  min_pulse_us: 2500\n",
		"servo:\n  center_pulse_us: 900\n",
		"helm:\n  max_rate_deg_per_sec: 0\n",
		"helm:\n  step_deg: -1\n",
		"helm:\n  loop_interval_ms: 0\n",
	}
	for _, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("expected validation error for %q", body)
		}
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "gps: [not a map\n")); err == nil {
		t.Fatalf("expected parse error")
	}
}
