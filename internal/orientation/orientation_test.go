// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/places_compass/internal/imu"
)

var flat = imu.Vector3{Z: StandardGravity}

func TestNormalizeBearing(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-30, 330},
		{725, 5},
		{359.4, 359},
		{359.6, 0},
		{-0.4, 0},
		{90.5, 91},
		{-180, 180},
		{180, 180},
		{-400, 320},
		{1e6, 280},
	}
	for _, tt := range tests {
		got := NormalizeBearing(tt.in)
		assert.Equal(t, tt.want, got, "NormalizeBearing(%v)", tt.in)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 360)
	}
}

func TestHeadingFlatDevice(t *testing.T) {
	tests := []struct {
		name string
		mag  imu.Vector3
		want float64
	}{
		{"facing north", imu.Vector3{Y: 20, Z: -44}, 0},
		{"facing east", imu.Vector3{X: -20, Z: -44}, 90},
		{"facing west", imu.Vector3{X: 20, Z: -44}, -90},
		{"facing south", imu.Vector3{Y: -20, Z: -44}, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, ok := Heading(flat, tt.mag)
			require.True(t, ok)
			// ±180 are the same heading
			assert.Equal(t, NormalizeBearing(tt.want), NormalizeBearing(az))
			assert.InDelta(t, 0, angleDiff(tt.want, az), 1e-9)
		})
	}
}

func TestRotationMatrixIsOrthonormal(t *testing.T) {
	r, ok := RotationMatrix(imu.Vector3{X: 1, Y: 2, Z: 9}, imu.Vector3{X: 5, Y: 18, Z: -40})
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := r.At(i, 0)*r.At(j, 0) + r.At(i, 1)*r.At(j, 1) + r.At(i, 2)*r.At(j, 2)
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-9, "row %d . row %d", i, j)
		}
	}
}

func TestResolveTiltedDevice(t *testing.T) {
	// device pitched nose-up: gravity shows along +Y
	p, ok := Resolve(imu.Vector3{Y: StandardGravity}, imu.Vector3{Y: -44, Z: 20})
	require.True(t, ok)
	assert.InDelta(t, -90, p.Pitch, 1e-9)
}

func TestRotationMatrixDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		gravity imu.Vector3
		mag     imu.Vector3
	}{
		{"zero magnetic field", flat, imu.Vector3{}},
		{"zero gravity", imu.Vector3{}, imu.Vector3{Y: 20, Z: -44}},
		{"free fall", imu.Vector3{Z: 0.5}, imu.Vector3{Y: 20, Z: -44}},
		{"field parallel to gravity", flat, imu.Vector3{Z: -50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := RotationMatrix(tt.gravity, tt.mag)
			assert.False(t, ok)
			_, ok = Heading(tt.gravity, tt.mag)
			assert.False(t, ok)
		})
	}
}

func TestMockSourceTracksHeading(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	src := newMockSource(func() time.Time { return now }, 30, 0)

	for _, sec := range []int{0, 1, 3, 5, 11} {
		now = base.Add(time.Duration(sec) * time.Second)
		samples, err := src.Next()
		require.NoError(t, err)
		require.Len(t, samples, 2)

		az, ok := Heading(samples[0].Vector, samples[1].Vector)
		require.True(t, ok)
		want := float64(sec * 30)
		assert.Equal(t, NormalizeBearing(want), NormalizeBearing(az), "t=%ds", sec)
	}
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}
