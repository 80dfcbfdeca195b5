// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/orientation"
)

// RunMockProducer publishes synthetic accelerometer and magnetometer
// samples for a slowly turning device to the sensor topic.
func RunMockProducer(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := orientation.NewMockSource(cfg.MockRotationDegPerSec, cfg.MockNoise)
	samples := make(chan imu.Sample, sampleQueueSize)
	go produceSamples(ctx, src, time.Duration(cfg.MockSampleInterval)*time.Millisecond, samples, logger)

	logger.Infof("publishing mock samples every %dms to %s (%.1f°/s)",
		cfg.MockSampleInterval, cfg.TopicSensor, cfg.MockRotationDegPerSec)

	var published uint64
	for s := range samples {
		if err := publishJSON(client, cfg.TopicSensor, false, s); err != nil {
			logger.Warnf("%v", err)
			continue
		}
		published++
		if published%500 == 0 {
			logger.Debugf("%d mock samples published, last %s %v", published, s.Channel, s.Vector)
		}
	}
	logger.Info("mock producer: shutting down")
	return nil
}
