// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/places_compass/internal/imu"
)

// StandardGravity in m/s².
const StandardGravity = 9.80665

const (
	// below this |gravity|² the device is treated as free falling
	freeFallGravitySquared = 0.01 * StandardGravity * StandardGravity
	// |E x A| below this means the field and gravity are (near) parallel
	minHorizontalNorm = 0.1
)

// Pose is the canonical representation of orientation for the app.
// Yaw is the azimuth: clockwise from magnetic north.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

// Matrix is a row-major 3x3 rotation matrix mapping device coordinates
// to the world frame (East, North, Up).
type Matrix [9]float64

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) float64 {
	return m[i*3+j]
}

// RotationMatrix derives the device rotation from a gravity vector and a
// geomagnetic vector, both in device coordinates. It returns false when
// the inputs are degenerate: free fall, a zero field, or a field parallel
// to gravity.
func RotationMatrix(gravity, magnetic imu.Vector3) (Matrix, bool) {
	a := gravity.Vec()
	e := magnetic.Vec()

	if r3.Norm2(a) < freeFallGravitySquared {
		return Matrix{}, false
	}

	h := r3.Cross(e, a)
	normH := r3.Norm(h)
	if normH < minHorizontalNorm {
		return Matrix{}, false
	}
	h = r3.Scale(1/normH, h)
	a = r3.Unit(a)
	m := r3.Cross(a, h)

	return Matrix{
		h.X, h.Y, h.Z,
		m.X, m.Y, m.Z,
		a.X, a.Y, a.Z,
	}, true
}

// FromMatrix extracts azimuth, pitch and roll (degrees) from a rotation
// matrix.
func FromMatrix(r Matrix) Pose {
	azimuth := math.Atan2(r[1], r[4])
	pitch := math.Asin(clamp(-r[7], -1, 1))
	roll := math.Atan2(-r[6], r[8])

	return Pose{
		Roll:  roll * 180.0 / math.Pi,
		Pitch: pitch * 180.0 / math.Pi,
		Yaw:   azimuth * 180.0 / math.Pi,
	}
}

// Heading returns the azimuth in degrees, in (-180, 180], for the given
// smoothed gravity and geomagnetic vectors. ok is false when no rotation
// can be derived; callers skip the cycle.
func Heading(gravity, magnetic imu.Vector3) (azimuth float64, ok bool) {
	p, ok := Resolve(gravity, magnetic)
	if !ok {
		return 0, false
	}
	return p.Yaw, true
}

// Resolve derives the full pose from gravity and geomagnetic vectors.
func Resolve(gravity, magnetic imu.Vector3) (Pose, bool) {
	r, ok := RotationMatrix(gravity, magnetic)
	if !ok {
		return Pose{}, false
	}
	return FromMatrix(r), true
}

// NormalizeBearing rounds an angle to whole degrees and wraps it into
// [0, 360). Halves round away from zero.
func NormalizeBearing(deg float64) int {
	n := int(math.Round(deg+360)) % 360
	if n < 0 {
		n += 360
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
