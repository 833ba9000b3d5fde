// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/openmarine/tillerpilot/internal/config"
	"github.com/openmarine/tillerpilot/internal/helm"
)

// RunDisplay drives the cockpit OLED: heading, target, offset and rudder
// angle from the MQTT status stream.
func RunDisplay(cfg config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.Display.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	// The controller answers at the fixed SSD1306 address 0x3C.
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	var (
		mu         sync.RWMutex
		lastStatus helm.Status
		haveStatus bool
	)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID + "-display")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTT.Broker)

	token := client.Subscribe(cfg.MQTT.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s helm.Status
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("display: status unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastStatus = s
		haveStatus = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.MQTT.TopicStatus)

	ticker := time.NewTicker(time.Duration(cfg.Display.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		mu.RLock()
		status := lastStatus
		ok := haveStatus
		mu.RUnlock()

		if err := drawStatus(dev, status, ok); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
	return nil
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawStatus(dev *ssd1306.Dev, status helm.Status, haveData bool) error {
	img, drawer := newFrame()

	if !haveData || status.HeadingDeg == nil {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Helm"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting for GPS..."))
		return dev.Draw(dev.Bounds(), img, image.Point{})
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawBytes([]byte(fmt.Sprintf("HDG %5.1f %s", *status.HeadingDeg, status.Azimuth)))

	drawer.Dot = fixed.P(0, 26)
	if status.TargetDeg != nil {
		drawer.DrawBytes([]byte(fmt.Sprintf("TGT %5.1f", *status.TargetDeg)))
	} else {
		drawer.DrawBytes([]byte("TGT  ---"))
	}

	drawer.Dot = fixed.P(0, 39)
	drawer.DrawBytes([]byte(fmt.Sprintf("OFS %+5.1f", status.OffsetDeg)))

	drawer.Dot = fixed.P(0, 52)
	if status.Steering {
		drawer.DrawBytes([]byte(fmt.Sprintf("RUD %+5.1f", status.RudderDeg)))
	} else {
		drawer.DrawBytes([]byte("RUD  off"))
	}

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev *ssd1306.Dev) error {
	img, drawer := newFrame()

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("tillerpilot"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Looking for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("sats"))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}
