// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"math/rand"
	"time"

	"github.com/relabs-tech/places_compass/internal/imu"
)

// Typical mid-latitude geomagnetic field, µT.
const (
	mockFieldHorizontal = 20.0
	mockFieldVertical   = 44.0
)

type mockSource struct {
	start     time.Time
	now       func() time.Time
	degPerSec float64
	noise     float64
	rng       *rand.Rand
}

// NewMockSource creates a mock sample source for a device lying flat and
// turning clockwise at degPerSec. noise is the amplitude of uniform noise
// added to every axis.
func NewMockSource(degPerSec, noise float64) imu.SampleSource {
	return newMockSource(time.Now, degPerSec, noise)
}

func newMockSource(now func() time.Time, degPerSec, noise float64) *mockSource {
	return &mockSource{
		start:     now(),
		now:       now,
		degPerSec: degPerSec,
		noise:     noise,
		rng:       rand.New(rand.NewSource(1)),
	}
}

// Heading returns the true heading of the simulated device at t.
func (m *mockSource) Heading(t time.Time) float64 {
	return math.Mod(t.Sub(m.start).Seconds()*m.degPerSec, 360)
}

// Next returns one accelerometer and one magnetometer sample.
func (m *mockSource) Next() ([]imu.Sample, error) {
	t := m.now()
	psi := m.Heading(t) * math.Pi / 180.0

	acc := imu.Vector3{X: m.jitter(), Y: m.jitter(), Z: StandardGravity + m.jitter()}
	mag := imu.Vector3{
		X: -mockFieldHorizontal*math.Sin(psi) + m.jitter(),
		Y: mockFieldHorizontal*math.Cos(psi) + m.jitter(),
		Z: -mockFieldVertical + m.jitter(),
	}

	return []imu.Sample{
		{Channel: imu.ChannelAccelerometer, Vector: acc, Time: t},
		{Channel: imu.ChannelMagnetometer, Vector: mag, Time: t},
	}, nil
}

func (m *mockSource) jitter() float64 {
	if m.noise == 0 {
		return 0
	}
	return (m.rng.Float64()*2 - 1) * m.noise
}
