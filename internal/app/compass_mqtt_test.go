// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/relabs-tech/places_compass/internal/compass"
	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/imu"
)

func newTestBridge(t *testing.T) (*compassBridge, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	logger := zaptest.NewLogger(t).Sugar()
	c := compass.New(imu.DefaultAlpha, logger)
	return newCompassBridge(config.Default(), c, clk, logger), clk
}

func TestBridgeHandleSensor(t *testing.T) {
	b, clk := newTestBridge(t)

	b.handleSensor([]byte(`{"channel":"magnetometer","vector":{"x":1,"y":20,"z":-44}}`))
	require.Len(t, b.samples, 1)

	s := <-b.samples
	assert.Equal(t, imu.ChannelMagnetometer, s.Channel)
	assert.Equal(t, imu.Vector3{X: 1, Y: 20, Z: -44}, s.Vector)
	assert.Equal(t, clk.Now(), s.Time, "missing time is stamped on arrival")
}

func TestBridgeHandleSensorRejectsBadPayloads(t *testing.T) {
	b, _ := newTestBridge(t)

	b.handleSensor([]byte(`not json`))
	b.handleSensor([]byte(`{"channel":"gyroscope","vector":{"x":1}}`))
	b.handleSensor([]byte(`{"vector":{"x":1}}`))

	assert.Len(t, b.samples, 0)
}

func TestBridgeHandleIMU(t *testing.T) {
	b, _ := newTestBridge(t)

	b.handleIMU([]byte(`{"source":"left","ax":0,"ay":0,"az":16384,"mx":0,"my":100,"mz":-300}`))
	require.Len(t, b.samples, 2)

	acc := <-b.samples
	mag := <-b.samples
	assert.Equal(t, imu.ChannelAccelerometer, acc.Channel)
	assert.InDelta(t, 9.80665, acc.Vector.Z, 1e-9)
	assert.Equal(t, imu.ChannelMagnetometer, mag.Channel)
	assert.InDelta(t, 15.0, mag.Vector.Y, 1e-9)

	b.handleIMU([]byte(`{`))
	assert.Len(t, b.samples, 0)
}

func TestBridgeQueueDropsWhenFull(t *testing.T) {
	b, _ := newTestBridge(t)

	for i := 0; i < sampleQueueSize+5; i++ {
		b.enqueue(imu.Sample{Channel: imu.ChannelAccelerometer})
	}
	assert.Len(t, b.samples, sampleQueueSize)
	assert.Equal(t, uint64(5), b.dropped.Load())
}

func TestBridgeHandleGPS(t *testing.T) {
	b, _ := newTestBridge(t)

	b.handleGPS([]byte(`{"lat":51.5,"lon":-0.12,"validity":"V"}`))
	_, ok := b.compass.Start()
	assert.False(t, ok, "void fix is ignored")

	b.handleGPS([]byte(`{"lat":51.5,"lon":-0.12,"validity":"A"}`))
	start, ok := b.compass.Start()
	require.True(t, ok)
	assert.Equal(t, gps.GeoPoint{Lat: 51.5, Lon: -0.12}, start)

	b.handleGPS([]byte(`garbage`))
	start, _ = b.compass.Start()
	assert.Equal(t, gps.GeoPoint{Lat: 51.5, Lon: -0.12}, start)
}

func TestBridgeHandleTarget(t *testing.T) {
	b, _ := newTestBridge(t)

	b.handleTarget([]byte(`{"lat":48.8566,"lon":2.3522}`))
	end, ok := b.compass.End()
	require.True(t, ok)
	assert.Equal(t, gps.GeoPoint{Lat: 48.8566, Lon: 2.3522}, end)

	// out of range keeps the previous target
	b.handleTarget([]byte(`{"lat":123,"lon":2}`))
	end, _ = b.compass.End()
	assert.Equal(t, 48.8566, end.Lat)

	b.handleTarget([]byte(" null \n"))
	_, ok = b.compass.End()
	assert.False(t, ok)

	b.handleTarget([]byte(`{"lat":1,"lon":2}`))
	b.handleTarget(nil)
	_, ok = b.compass.End()
	assert.False(t, ok)
}

func TestBridgeEndToEnd(t *testing.T) {
	b, _ := newTestBridge(t)

	var got []compass.Bearing
	b.compass.SetListener(compass.ListenerFunc(func(bb compass.Bearing) {
		got = append(got, bb)
	}))
	b.handleGPS([]byte(`{"lat":52,"lon":4,"validity":"A"}`))
	b.handleTarget([]byte(`{"lat":52,"lon":5}`))

	// facing north, flat
	for i := 0; i < 100; i++ {
		b.handleSensor([]byte(`{"channel":"accelerometer","vector":{"x":0,"y":0,"z":9.80665}}`))
		b.handleSensor([]byte(`{"channel":"magnetometer","vector":{"x":0,"y":20,"z":-44}}`))
		for len(b.samples) > 0 {
			b.compass.Update(<-b.samples)
		}
	}

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, 0, last.TrueNorthDegrees)
	assert.Equal(t, 90, last.LocationDegrees)
	require.NotNil(t, last.DistanceMeters)
	assert.InDelta(t, 68458, *last.DistanceMeters, 100)
}
