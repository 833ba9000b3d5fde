// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openmarine/tillerpilot/internal/compass"
	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/helm"
	"github.com/openmarine/tillerpilot/internal/steer"
	"github.com/openmarine/tillerpilot/internal/track"
)

// RunHelm is the control task: on a fixed cycle it polls the pilot
// toggle, refreshes the heading reference from the tracker, and drives
// the rudder through the rate-limited PID. act may be nil (monitor-only
// mode after a servo construction fault); client may be nil (no
// telemetry); sensor may be nil (no compass fallback).
func RunHelm(cfg config.Config, tracker *track.Tracker, cmd *helm.Command, act *steer.Actuator, sensor track.HeadingSensor, client mqtt.Client) error {
	ticker := time.NewTicker(time.Duration(cfg.Helm.LoopIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	statusEvery := cfg.Helm.StatusIntervalMs / cfg.Helm.LoopIntervalMs
	if statusEvery < 1 {
		statusEvery = 1
	}

	if act == nil {
		log.Println("helm: no servo, running monitor-only")
	}
	log.Printf("helm: control loop started at %dms", cfg.Helm.LoopIntervalMs)

	lastCycle := time.Now()
	cycle := 0

	for range ticker.C {
		now := time.Now()
		dt := now.Sub(lastCycle).Seconds()
		lastCycle = now

		if cmd.Poll() {
			if target, ok := cmd.TargetHeading(); ok {
				log.Printf("helm: toggle %v, offset %.1f°, target %.1f°",
					cmd.LastPosition(), cmd.Offset(), target)
			}
		}

		heading, haveHeading := tracker.HeadingWithFallback(sensor)
		if haveHeading {
			cmd.UpdateGPSHeading(heading)
		}

		if act != nil && haveHeading {
			if target, ok := cmd.TargetHeading(); ok {
				if _, err := act.AutoSteer(target, heading, dt); err != nil {
					// Transient actuator fault: the controller state is
					// untouched and the next cycle retries.
					log.Printf("helm: steer error: %v", err)
				}
			}
		}

		cycle++
		if cycle%statusEvery == 0 {
			status := BuildStatus(now, tracker, cmd, act, heading, haveHeading)
			logStatus(cfg, tracker, status)
			publishStatus(client, cfg.MQTT, status)
		}
	}
	return nil
}

// BuildStatus assembles the steering snapshot for telemetry. heading is
// the value the loop is actually steering by this cycle, which may come
// from the compass fallback rather than the tracker's GPS course.
func BuildStatus(now time.Time, tracker *track.Tracker, cmd *helm.Command, act *steer.Actuator, heading float64, haveHeading bool) helm.Status {
	status := helm.Status{
		Time:      now.UTC().Format(time.RFC3339),
		OffsetDeg: cmd.Offset(),
		Toggle:    cmd.LastPosition().String(),
		Steering:  act != nil,
	}

	if pos, ok := tracker.Position(); ok {
		lat, lon := pos.Latitude, pos.Longitude
		status.Latitude = &lat
		status.Longitude = &lon
	}
	if speed, ok := tracker.Speed(); ok {
		status.SpeedKnots = &speed
	}
	if sats, ok := tracker.Satellites(); ok {
		status.Satellites = &sats
	}
	if hdop, ok := tracker.Hdop(); ok {
		status.Hdop = &hdop
	}
	if haveHeading {
		h := heading
		status.HeadingDeg = &h
		az, _ := compass.Azimuth16(h)
		status.Azimuth = az.Abbreviation()
		if _, gps := tracker.Heading(); gps {
			status.HeadingSource = "gps"
		} else {
			status.HeadingSource = "compass"
		}
	}
	if target, ok := cmd.TargetHeading(); ok {
		status.TargetDeg = &target
	}
	if act != nil {
		status.RudderDeg = act.CurrentAngle()
	}
	return status
}

func logStatus(cfg config.Config, tracker *track.Tracker, status helm.Status) {
	if status.HeadingDeg == nil {
		log.Println("helm: no heading source, waiting for GPS course")
		return
	}
	if v, ok := tracker.ForwardVector(cfg.Helm.LookaheadM); ok {
		log.Printf("helm: %s %.1f° target %.1f° offset %.1f° rudder %.1f° ahead %v",
			status.Azimuth, *status.HeadingDeg, deref(status.TargetDeg),
			status.OffsetDeg, status.RudderDeg, v.End())
	} else {
		log.Printf("helm: %s %.1f° target %.1f° offset %.1f° rudder %.1f°",
			status.Azimuth, *status.HeadingDeg, deref(status.TargetDeg),
			status.OffsetDeg, status.RudderDeg)
	}
}

func publishStatus(client mqtt.Client, mcfg config.MQTTConfig, status helm.Status) {
	if client == nil {
		return
	}
	payload, err := json.Marshal(status)
	if err != nil {
		log.Printf("helm: status marshal error: %v", err)
		return
	}
	token := client.Publish(mcfg.TopicStatus, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("helm: status publish error: %v", token.Error())
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
