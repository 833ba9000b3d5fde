// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/gps"
	"github.com/openmarine/tillerpilot/internal/helm"
)

// RunConsole subscribes to the fix and status topics and prints them to
// stdout, one line per message. Handy over SSH when the boat is out of
// wifi range of the dashboard.
func RunConsole(cfg config.Config) error {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTT.Broker)

	fixToken := client.Subscribe(cfg.MQTT.TopicFix, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: fix unmarshal error: %v", err)
			return
		}

		line := fmt.Sprintf("[GPS ] time=%s lat=%.6f lon=%.6f", f.Time, f.Latitude, f.Longitude)
		if f.SpeedKnots != nil {
			line += fmt.Sprintf(" speed=%.1fkn", *f.SpeedKnots)
		}
		if f.CourseDeg != nil {
			line += fmt.Sprintf(" course=%.1f°", *f.CourseDeg)
		}
		if f.Satellites != nil {
			line += fmt.Sprintf(" sats=%d", *f.Satellites)
		}
		if f.Hdop != nil {
			line += fmt.Sprintf(" hdop=%.1f", *f.Hdop)
		}
		fmt.Println(line)
	})
	fixToken.Wait()
	if fixToken.Error() != nil {
		return fixToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.MQTT.TopicFix)

	statusToken := client.Subscribe(cfg.MQTT.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s helm.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}

		if s.HeadingDeg == nil {
			fmt.Printf("[HELM] toggle=%s offset=%+.1f° waiting for GPS course\n", s.Toggle, s.OffsetDeg)
			return
		}
		line := fmt.Sprintf("[HELM] %s hdg=%.1f°", s.Azimuth, *s.HeadingDeg)
		if s.TargetDeg != nil {
			line += fmt.Sprintf(" tgt=%.1f°", *s.TargetDeg)
		}
		line += fmt.Sprintf(" offset=%+.1f° toggle=%s", s.OffsetDeg, s.Toggle)
		if s.Steering {
			line += fmt.Sprintf(" rudder=%+.1f°", s.RudderDeg)
		} else {
			line += " (monitor-only)"
		}
		fmt.Println(line)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.MQTT.TopicStatus)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
