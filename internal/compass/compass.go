// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package compass fuses smoothed accelerometer and magnetometer readings
// into a heading and a bearing towards an optional target location.
package compass

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/orientation"
)

// Listener receives every resolved bearing.
type Listener interface {
	OnBearing(Bearing)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Bearing)

// OnBearing calls f(b).
func (f ListenerFunc) OnBearing(b Bearing) { f(b) }

// Compass is one sensing session. Sample updates, resolution and
// listener notification happen inside a single critical section, so the
// listener is called with the lock held and must not block or call back
// into the Compass. A throttle.Throttle's Emit is a suitable listener.
type Compass struct {
	logger *zap.SugaredLogger

	mu       sync.Mutex
	smoother *imu.Smoother
	start    *gps.GeoPoint
	end      *gps.GeoPoint
	listener Listener
	pose     orientation.Pose
	havePose bool
	skipped  uint64
}

// New creates a compass session with smoothing factor alpha.
func New(alpha float64, logger *zap.SugaredLogger) *Compass {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Compass{
		logger:   logger,
		smoother: imu.NewSmoother(alpha),
	}
}

// SetListener replaces the listener. A nil listener drops bearings.
func (c *Compass) SetListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = l
}

// SetStart sets the device's current location.
func (c *Compass) SetStart(p gps.GeoPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = &p
}

// SetEnd sets the target location.
func (c *Compass) SetEnd(p gps.GeoPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.end = &p
	c.logger.Infof("compass: target set to %.6f,%.6f", p.Lat, p.Lon)
}

// ClearEnd forgets the target; bearings fall back to true north.
func (c *Compass) ClearEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.end = nil
	c.logger.Info("compass: target cleared")
}

// Start returns the current location, if known.
func (c *Compass) Start() (gps.GeoPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.start == nil {
		return gps.GeoPoint{}, false
	}
	return *c.start, true
}

// End returns the target location, if set.
func (c *Compass) End() (gps.GeoPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.end == nil {
		return gps.GeoPoint{}, false
	}
	return *c.end, true
}

// Pose returns the most recent full orientation.
func (c *Compass) Pose() (orientation.Pose, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose, c.havePose
}

// Skipped returns how many cycles produced no bearing because the
// smoothed vectors were degenerate.
func (c *Compass) Skipped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipped
}

// Update folds one raw sample into the smoothing state and tries to
// resolve a bearing. On success the listener is notified and the bearing
// returned; ok is false while there is not enough data for a heading.
func (c *Compass) Update(s imu.Sample) (b Bearing, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.smoother.Update(s.Channel, s.Vector)
	if !c.smoother.Ready() {
		return Bearing{}, false
	}

	pose, ok := orientation.Resolve(c.smoother.Gravity(), c.smoother.Magnetic())
	if !ok {
		c.skipped++
		if c.skipped%500 == 1 {
			c.logger.Debugf("compass: no rotation for gravity=%v magnetic=%v (%d skipped)",
				c.smoother.Gravity(), c.smoother.Magnetic(), c.skipped)
		}
		return Bearing{}, false
	}
	c.pose = pose
	c.havePose = true

	b = resolveAzimuth(pose.Yaw, c.start, c.end)
	if c.listener != nil {
		c.listener.OnBearing(b)
	}
	return b, true
}

// Run consumes samples until ctx is cancelled or the channel is closed.
func (c *Compass) Run(ctx context.Context, samples <-chan imu.Sample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			if !s.Channel.Valid() {
				c.logger.Warnf("compass: dropping sample on unknown channel %q", s.Channel)
				continue
			}
			c.Update(s)
		}
	}
}
