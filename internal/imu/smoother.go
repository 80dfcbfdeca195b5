// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// DefaultAlpha is the weight kept from the previous smoothed value.
const DefaultAlpha = 0.97

// Smoother is a single-pole exponential low-pass filter applied per
// component, independently for each channel.
//
// Smoother is not safe for concurrent use; callers that update from one
// goroutine and read from another must hold a lock across both.
type Smoother struct {
	alpha    float64
	gravity  Vector3
	magnetic Vector3
	seenAcc  bool
	seenMag  bool
}

// NewSmoother creates a smoother with the given alpha. Both channels
// start at the zero vector.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: alpha}
}

// Alpha returns the smoothing factor.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}

// Update folds a new sample into the channel's state:
//
//	smoothed = alpha*smoothed + (1-alpha)*sample
//
// Samples on unknown channels are ignored.
func (s *Smoother) Update(ch Channel, v Vector3) {
	switch ch {
	case ChannelAccelerometer:
		s.gravity = s.blend(s.gravity, v)
		s.seenAcc = true
	case ChannelMagnetometer:
		s.magnetic = s.blend(s.magnetic, v)
		s.seenMag = true
	}
}

func (s *Smoother) blend(prev, v Vector3) Vector3 {
	a := s.alpha
	return Vector3{
		X: a*prev.X + (1-a)*v.X,
		Y: a*prev.Y + (1-a)*v.Y,
		Z: a*prev.Z + (1-a)*v.Z,
	}
}

// Value returns the current smoothed vector for a channel.
func (s *Smoother) Value(ch Channel) Vector3 {
	switch ch {
	case ChannelAccelerometer:
		return s.gravity
	case ChannelMagnetometer:
		return s.magnetic
	}
	return Vector3{}
}

// Gravity returns the smoothed accelerometer vector.
func (s *Smoother) Gravity() Vector3 { return s.gravity }

// Magnetic returns the smoothed magnetometer vector.
func (s *Smoother) Magnetic() Vector3 { return s.magnetic }

// Ready reports whether both channels have received at least one sample.
func (s *Smoother) Ready() bool {
	return s.seenAcc && s.seenMag
}
