// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/places_compass/internal/app"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/logging"
)

func main() {
	configPath := flag.String("config", "./compass_config.txt", "path to configuration file")
	flag.Parse()

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New("compass", config.Get().LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting places-compass engine (MQTT sensors → bearing)")

	if err := app.RunCompass(logger); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}
