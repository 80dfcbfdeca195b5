// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/compass"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/orientation"
	"github.com/relabs-tech/places_compass/internal/throttle"
)

// RunMockConsole runs the whole pipeline in-process against the mock
// sample source and prints throttled bearings. No broker is needed.
func RunMockConsole(logger *zap.SugaredLogger, start, end *gps.GeoPoint) error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := compass.New(cfg.SmoothingAlpha, logger.Named("compass"))
	if start != nil {
		c.SetStart(*start)
	}
	if end != nil {
		c.SetEnd(*end)
	}

	interval := time.Duration(cfg.ThrottleInterval) * time.Millisecond
	thr := throttle.New(clock.New(), interval, func(b compass.Bearing) {
		fmt.Println(formatBearingLine(b))
	})
	c.SetListener(compass.ListenerFunc(thr.Emit))

	samples := make(chan imu.Sample, sampleQueueSize)
	src := orientation.NewMockSource(cfg.MockRotationDegPerSec, cfg.MockNoise)
	go produceSamples(ctx, src, time.Duration(cfg.MockSampleInterval)*time.Millisecond, samples, logger)

	if err := c.Run(ctx, samples); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// produceSamples polls src on every tick and forwards the samples until
// ctx is done. The channel is closed on return.
func produceSamples(ctx context.Context, src imu.SampleSource, every time.Duration, out chan<- imu.Sample, logger *zap.SugaredLogger) {
	defer close(out)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			samples, err := src.Next()
			if err != nil {
				logger.Warnf("error from sample source: %v", err)
				continue
			}
			for _, s := range samples {
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
