// Copyright (c) 2026 OpenMarine
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/openmarine/tillerpilot/internal/app"
	"github.com/openmarine/tillerpilot/internal/config"
)

func main() {
	configPath := flag.String("config", "tillerpilot.yaml", "path to configuration file")
	flag.Parse()

	log.Println("starting tillerpilot (GPS heading hold)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunPilot(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
