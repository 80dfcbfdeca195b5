// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/compass"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/throttle"
)

const sampleQueueSize = 256

// compassBridge turns MQTT payloads into compass inputs. Samples are
// queued for the compass's consumer loop; locations go straight in.
type compassBridge struct {
	cfg     *config.Config
	compass *compass.Compass
	samples chan imu.Sample
	clk     clock.Clock
	logger  *zap.SugaredLogger
	dropped atomic.Uint64
}

func newCompassBridge(cfg *config.Config, c *compass.Compass, clk clock.Clock, logger *zap.SugaredLogger) *compassBridge {
	return &compassBridge{
		cfg:     cfg,
		compass: c,
		samples: make(chan imu.Sample, sampleQueueSize),
		clk:     clk,
		logger:  logger,
	}
}

// enqueue never blocks the MQTT callback goroutine; when the compass
// falls behind, samples are dropped.
func (b *compassBridge) enqueue(s imu.Sample) {
	if s.Time.IsZero() {
		s.Time = b.clk.Now()
	}
	select {
	case b.samples <- s:
	default:
		if n := b.dropped.Add(1); n%100 == 1 {
			b.logger.Warnf("compass: sample queue full, %d dropped", n)
		}
	}
}

func (b *compassBridge) handleSensor(payload []byte) {
	var s imu.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		b.logger.Warnf("sensor unmarshal error: %v", err)
		return
	}
	if !s.Channel.Valid() {
		b.logger.Warnf("sensor sample on unknown channel %q", s.Channel)
		return
	}
	b.enqueue(s)
}

func (b *compassBridge) handleIMU(payload []byte) {
	var raw imu.IMURaw
	if err := json.Unmarshal(payload, &raw); err != nil {
		b.logger.Warnf("imu unmarshal error: %v", err)
		return
	}
	for _, s := range raw.Samples(b.cfg.AccelScale, b.cfg.MagScale, b.clk.Now()) {
		b.enqueue(s)
	}
}

func (b *compassBridge) handleGPS(payload []byte) {
	var f gps.Fix
	if err := json.Unmarshal(payload, &f); err != nil {
		b.logger.Warnf("gps unmarshal error: %v", err)
		return
	}
	if !f.Valid() {
		b.logger.Debugf("ignoring GPS fix with validity %q", f.Validity)
		return
	}
	b.compass.SetStart(f.Point())
}

func (b *compassBridge) handleTarget(payload []byte) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		b.compass.ClearEnd()
		return
	}
	var p gps.GeoPoint
	if err := json.Unmarshal(payload, &p); err != nil {
		b.logger.Warnf("target unmarshal error: %v", err)
		return
	}
	if !p.Valid() {
		b.logger.Warnf("target out of range: %+v", p)
		return
	}
	b.compass.SetEnd(p)
}

// RunCompass runs the compass engine: it subscribes to sensor, GPS and
// target topics and publishes throttled bearings until interrupted.
func RunCompass(logger *zap.SugaredLogger) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDCompass, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	clk := clock.New()
	c := compass.New(cfg.SmoothingAlpha, logger.Named("compass"))
	if cfg.HasTarget {
		c.SetEnd(gps.GeoPoint{Lat: cfg.TargetLat, Lon: cfg.TargetLon})
	}

	interval := time.Duration(cfg.ThrottleInterval) * time.Millisecond
	thr := throttle.New(clk, interval, func(b compass.Bearing) {
		if err := publishJSON(client, cfg.TopicBearing, true, b); err != nil {
			logger.Warnf("%v", err)
			return
		}
		logger.Debugf("published bearing: %s", b)
	})
	c.SetListener(compass.ListenerFunc(thr.Emit))

	bridge := newCompassBridge(cfg, c, clk, logger)
	if err := subscribe(client, cfg.TopicSensor, bridge.handleSensor, logger); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicIMU, bridge.handleIMU, logger); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicGPS, bridge.handleGPS, logger); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicTarget, bridge.handleTarget, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("compass running: alpha=%.3f throttle=%s, publishing to %s",
		cfg.SmoothingAlpha, interval, cfg.TopicBearing)

	if err := c.Run(ctx, bridge.samples); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("compass: shutting down")
	return nil
}
