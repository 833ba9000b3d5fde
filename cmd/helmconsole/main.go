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

	log.Println("starting tillerpilot console (MQTT subscriber)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
