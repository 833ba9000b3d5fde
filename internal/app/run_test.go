// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/openmarine/tillerpilot/internal/config"
)

func TestOpenGPSDegradesWhenPortMissing(t *testing.T) {
	gcfg := config.Default().GPS
	gcfg.SerialPort = "/dev/nonexistent-gps-port"

	// A dead GPS port must not be fatal: the pilot runs without the
	// ingest task instead.
	if port := openGPS(gcfg); port != nil {
		port.Close()
		t.Fatal("expected nil port for a missing serial device")
	}
}
