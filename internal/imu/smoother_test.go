// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSmootherFirstUpdateBlendsFromZero(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	s.Update(ChannelAccelerometer, Vector3{X: 1, Y: 2, Z: 3})

	got := s.Value(ChannelAccelerometer)
	assert.InDelta(t, 0.03, got.X, 1e-12)
	assert.InDelta(t, 0.06, got.Y, 1e-12)
	assert.InDelta(t, 0.09, got.Z, 1e-12)

	// magnetometer channel is untouched
	assert.Equal(t, Vector3{}, s.Magnetic())
}

func TestSmootherConvergesWithoutReaching(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	target := Vector3{X: 10, Y: -5, Z: 2}

	s.Update(ChannelMagnetometer, target)
	assert.NotEqual(t, target, s.Magnetic())

	prevErr := 10.0
	for i := 0; i < 500; i++ {
		s.Update(ChannelMagnetometer, target)
		errX := target.X - s.Magnetic().X
		assert.LessOrEqual(t, errX, prevErr)
		prevErr = errX
	}
	assert.InDelta(t, target.X, s.Magnetic().X, 1e-3)
	assert.InDelta(t, target.Y, s.Magnetic().Y, 1e-3)
	assert.InDelta(t, target.Z, s.Magnetic().Z, 1e-3)
}

func TestSmootherAlphaZeroTracksInput(t *testing.T) {
	s := NewSmoother(0)
	v := Vector3{X: 4, Y: 5, Z: 6}
	s.Update(ChannelAccelerometer, v)
	assert.Equal(t, v, s.Gravity())
}

func TestSmootherReadyNeedsBothChannels(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	assert.False(t, s.Ready())

	s.Update(ChannelAccelerometer, Vector3{})
	assert.False(t, s.Ready())

	s.Update(ChannelMagnetometer, Vector3{})
	assert.True(t, s.Ready())
}

func TestSmootherIgnoresUnknownChannel(t *testing.T) {
	s := NewSmoother(DefaultAlpha)
	s.Update(Channel("gyro"), Vector3{X: 1})
	assert.False(t, s.Ready())
	assert.Equal(t, Vector3{}, s.Value(Channel("gyro")))
}

func TestIMURawSamples(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := IMURaw{Source: "left", Ax: 100, Ay: -200, Az: 16384, Mx: 10, My: 20, Mz: -30}

	got := raw.Samples(9.80665/16384, 0.15, now)

	assert.Equal(t, ChannelAccelerometer, got[0].Channel)
	assert.InDelta(t, 9.80665, got[0].Vector.Z, 1e-9)
	assert.InDelta(t, -200*9.80665/16384, got[0].Vector.Y, 1e-9)
	assert.Equal(t, ChannelMagnetometer, got[1].Channel)
	assert.InDelta(t, 3.0, got[1].Vector.Y, 1e-9)
	assert.InDelta(t, -4.5, got[1].Vector.Z, 1e-9)
	assert.Equal(t, now, got[1].Time)
}
