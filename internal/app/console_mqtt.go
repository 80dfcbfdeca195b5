// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/compass"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
)

// formatBearingLine renders one console line for a bearing.
func formatBearingLine(b compass.Bearing) string {
	if b.DistanceMeters == nil {
		return fmt.Sprintf("[BEAR] NORTH=%3d°  (no target)", b.TrueNorthDegrees)
	}
	return fmt.Sprintf("[BEAR] NORTH=%3d°  TARGET=%3d°  DIST=%s",
		b.TrueNorthDegrees, b.LocationDegrees, compass.FormatDistance(*b.DistanceMeters))
}

// RunConsoleMQTT prints bearings, GPS fixes and target changes as they
// arrive on MQTT.
func RunConsoleMQTT(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole, logger)
	if err != nil {
		return err
	}

	err = subscribe(client, cfg.TopicBearing, func(payload []byte) {
		var b compass.Bearing
		if err := json.Unmarshal(payload, &b); err != nil {
			logger.Warnf("console: bearing unmarshal error: %v", err)
			return
		}
		fmt.Println(formatBearingLine(b))
	}, logger)
	if err != nil {
		return err
	}

	err = subscribe(client, cfg.TopicGPS, func(payload []byte) {
		var f gps.Fix
		if err := json.Unmarshal(payload, &f); err != nil {
			logger.Warnf("console: gps unmarshal error: %v", err)
			return
		}
		fmt.Printf(
			"[GPS ] time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° validity=%s\n",
			f.Time, f.Date, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.Validity,
		)
	}, logger)
	if err != nil {
		return err
	}

	err = subscribe(client, cfg.TopicTarget, func(payload []byte) {
		fmt.Printf("[TGT ] %s\n", payload)
	}, logger)
	if err != nil {
		return err
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("console: shutting down")
	client.Disconnect(250)
	return nil
}
