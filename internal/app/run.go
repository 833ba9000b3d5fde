// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/hardware"
	"github.com/openmarine/tillerpilot/internal/helm"
	"github.com/openmarine/tillerpilot/internal/steer"
	"github.com/openmarine/tillerpilot/internal/track"
)

// RunPilot wires the whole autopilot together and blocks until a
// shutdown signal. Every peripheral is optional: a construction fault
// logs, degrades that capability, and the rest of the pilot keeps
// running. Even a dead GPS port only kills the ingest task; with the
// compass enabled the loop can still hold a heading.
func RunPilot(cfg config.Config) error {
	port := openGPS(cfg.GPS)
	if port != nil {
		defer port.Close()
	}

	tracker := track.New()

	client := connectMQTT(cfg.MQTT)

	sw := openToggle(cfg.Toggle)
	cmd := helm.NewCommand(sw, cfg.Helm.StepDeg, cfg.Servo.MaxAngleDeg)

	act := openActuator(cfg)
	sensor := openCompass(cfg.Compass)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("pilot: received %v, centering rudder and exiting", sig)
		if act != nil {
			if err := act.Close(); err != nil {
				log.Printf("pilot: actuator shutdown error: %v", err)
			}
		}
		if client != nil {
			client.Disconnect(250)
		}
		os.Exit(0)
	}()

	if port != nil {
		go func() {
			err := RunIngest(port, tracker, client, cfg.MQTT)
			// Never leave the rudder deflected on a dead GPS stream.
			if act != nil {
				act.Close()
			}
			if err != nil {
				log.Fatalf("pilot: GPS ingest stopped: %v", err)
			}
			log.Fatal("pilot: GPS stream ended")
		}()
	}

	if cfg.Web.Addr != "" {
		go func() {
			if err := RunWeb(cfg); err != nil {
				log.Printf("pilot: web server stopped: %v", err)
			}
		}()
	}

	if cfg.Display.Enable {
		go func() {
			if err := RunDisplay(cfg); err != nil {
				log.Printf("pilot: display stopped: %v", err)
			}
		}()
	}

	return RunHelm(cfg, tracker, cmd, act, sensor, client)
}

func openGPS(gcfg config.GPSConfig) io.ReadCloser {
	port, err := OpenGPSPort(gcfg)
	if err != nil {
		log.Printf("pilot: GPS unavailable, no fix ingest: %v", err)
		return nil
	}
	return port
}

func connectMQTT(mcfg config.MQTTConfig) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(mcfg.Broker).
		SetClientID(mcfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("pilot: MQTT broker unavailable, running without telemetry: %v", token.Error())
		return nil
	}
	log.Printf("pilot: connected to MQTT broker at %s", mcfg.Broker)
	return client
}

func openToggle(tcfg config.ToggleConfig) helm.Switch {
	toggle, err := hardware.NewToggle(tcfg.LeftPin, tcfg.RightPin, time.Duration(tcfg.SettleMs)*time.Millisecond)
	if err != nil {
		// An inert switch: the pilot holds the raw GPS course.
		log.Printf("pilot: toggle unavailable, offset fixed at 0: %v", err)
		return helm.NewMockSwitch()
	}
	log.Printf("pilot: toggle on %s/%s", tcfg.LeftPin, tcfg.RightPin)
	return toggle
}

func openActuator(cfg config.Config) *steer.Actuator {
	servo, err := hardware.NewServo(cfg.Servo.I2CBus, cfg.Servo.I2CAddr, cfg.Servo.Channel, cfg.Servo.FrequencyHz)
	if err != nil {
		log.Printf("pilot: servo unavailable, running monitor-only: %v", err)
		return nil
	}

	act, err := steer.NewActuator(servo, steer.Config{
		Kp:               cfg.Helm.Kp,
		Ki:               cfg.Helm.Ki,
		Kd:               cfg.Helm.Kd,
		DeadbandDeg:      cfg.Helm.DeadbandDeg,
		MaxAngleDeg:      cfg.Servo.MaxAngleDeg,
		MaxRateDegPerSec: cfg.Helm.MaxRateDegPerSec,
		MinPulseUs:       cfg.Servo.MinPulseUs,
		CenterPulseUs:    cfg.Servo.CenterPulseUs,
		MaxPulseUs:       cfg.Servo.MaxPulseUs,
	})
	if err != nil {
		log.Printf("pilot: actuator unavailable, running monitor-only: %v", err)
		servo.Disable()
		return nil
	}
	log.Printf("pilot: rudder servo on channel %d, centered", cfg.Servo.Channel)
	return act
}

func openCompass(ccfg config.CompassConfig) track.HeadingSensor {
	if !ccfg.Enable {
		return nil
	}
	mag, err := hardware.NewLIS3MDL(ccfg.I2CBus, ccfg.I2CAddr, ccfg.XOffset, ccfg.YOffset, ccfg.HeadingOffsetDeg)
	if err != nil {
		log.Printf("pilot: compass unavailable, GPS course only: %v", err)
		return nil
	}
	log.Printf("pilot: LIS3MDL compass at 0x%02X", ccfg.I2CAddr)
	return mag
}
