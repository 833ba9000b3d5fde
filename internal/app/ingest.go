// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package app wires the tillerpilot tasks together: fix ingestion, the
// helm control loop, and the telemetry surfaces.
package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/gps"
	"github.com/openmarine/tillerpilot/internal/track"
)

// Below this speed a GPS course is receiver noise, not steerage way;
// the tracker's course field stays at its last good value instead.
const minCourseSpeedKnots = 0.5

// OpenGPSPort opens the configured GPS serial port.
func OpenGPSPort(cfg config.GPSConfig) (io.ReadCloser, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        cfg.SerialPort,
		BaudRate:        cfg.BaudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return nil, fmt.Errorf("open GPS port %s: %w", cfg.SerialPort, err)
	}
	log.Printf("ingest: GPS serial port opened on %s at %d baud", cfg.SerialPort, cfg.BaudRate)
	return port, nil
}

// RunIngest reads NMEA sentences from r until EOF or a read error,
// updating the shared tracker and publishing one fix per RMC to MQTT.
// client may be nil (no telemetry). Runs for the process lifetime on a
// live serial port.
func RunIngest(r io.Reader, tracker *track.Tracker, client mqtt.Client, mcfg config.MQTTConfig) error {
	reader := bufio.NewReader(r)

	var current gps.Fix

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("GPS read: %w", err)
		}

		if ApplySentence(line, tracker, &current) {
			publishFix(client, mcfg, current)
		}
	}
}

// ApplySentence parses one raw NMEA line and applies whatever fields it
// carries to the tracker. Unparseable or irrelevant lines are skipped
// (noisy receivers emit partial sentences constantly). Returns true when
// the accumulated fix is ready to publish (one RMC = one fix event).
func ApplySentence(line string, tracker *track.Tracker, current *gps.Fix) bool {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return false
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return false
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		current.Time = m.Time.String()
		current.Validity = string(m.Validity)
		if m.Validity != "A" {
			return false
		}

		tracker.UpdatePosition(m.Latitude, m.Longitude)
		current.Latitude = m.Latitude
		current.Longitude = m.Longitude

		speed := m.Speed
		tracker.UpdateSpeed(speed)
		current.SpeedKnots = &speed

		// The receiver repeats a stale course below steerage way;
		// only a moving fix updates the heading.
		if m.Speed >= minCourseSpeedKnots {
			course := m.Course
			tracker.UpdateHeading(course)
			current.CourseDeg = &course
		}
		return true

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		if m.FixQuality == "0" {
			return false
		}
		tracker.UpdatePosition(m.Latitude, m.Longitude)

		sats := int(m.NumSatellites)
		tracker.UpdateSatellites(sats)
		current.Satellites = &sats

		if m.HDOP > 0 {
			hdop := m.HDOP
			tracker.UpdateHdop(hdop)
			current.Hdop = &hdop
		}
		return false

	case nmea.TypeGSA:
		m := sentence.(nmea.GSA)
		if m.HDOP > 0 {
			hdop := m.HDOP
			tracker.UpdateHdop(hdop)
			current.Hdop = &hdop
		}
		return false
	}

	return false
}

func publishFix(client mqtt.Client, mcfg config.MQTTConfig, fix gps.Fix) {
	if client == nil {
		return
	}
	payload, err := json.Marshal(fix)
	if err != nil {
		log.Printf("ingest: fix marshal error: %v", err)
		return
	}
	token := client.Publish(mcfg.TopicFix, 0, mcfg.RetainLastFix, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("ingest: fix publish error: %v", token.Error())
	}
}
