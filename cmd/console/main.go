// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/places_compass/internal/app"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/logging"
)

func main() {
	configPath := flag.String("config", "./compass_config.txt", "path to configuration file")
	startFlag := flag.String("start", "", "current location as lat,lon")
	targetFlag := flag.String("target", "", "target location as lat,lon (overrides TARGET_LAT/TARGET_LON)")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	logger, err := logging.New("console", cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	var start, target *gps.GeoPoint
	if *startFlag != "" {
		p, err := gps.ParseGeoPoint(*startFlag)
		if err != nil {
			logger.Fatalf("-start: %v", err)
		}
		start = &p
	}
	if *targetFlag != "" {
		p, err := gps.ParseGeoPoint(*targetFlag)
		if err != nil {
			logger.Fatalf("-target: %v", err)
		}
		target = &p
	} else if cfg.HasTarget {
		target = &gps.GeoPoint{Lat: cfg.TargetLat, Lon: cfg.TargetLon}
	}

	logger.Info("starting places-compass (mock console)")

	if err := app.RunMockConsole(logger, start, target); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}
