// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"fmt"

	"github.com/relabs-tech/places_compass/internal/gps"
	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/orientation"
)

// Bearing is one resolved compass reading.
//
// LocationDegrees is the clockwise turn from the device heading towards
// the target; without a target it equals TrueNorthDegrees. DistanceMeters
// is nil unless both the current location and the target are known.
type Bearing struct {
	LocationDegrees  int      `json:"location_degrees"`
	TrueNorthDegrees int      `json:"true_north_degrees"`
	DistanceMeters   *float32 `json:"distance_meters,omitempty"`
}

// HasTarget reports whether the bearing points at a target.
func (b Bearing) HasTarget() bool {
	return b.DistanceMeters != nil
}

func (b Bearing) String() string {
	if b.DistanceMeters == nil {
		return fmt.Sprintf("north=%3d°", b.TrueNorthDegrees)
	}
	return fmt.Sprintf("target=%3d° north=%3d° dist=%s",
		b.LocationDegrees, b.TrueNorthDegrees, FormatDistance(*b.DistanceMeters))
}

// FormatDistance renders a distance for display: whole meters below one
// kilometer, kilometers with one decimal above.
func FormatDistance(meters float32) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// Resolve turns smoothed gravity and geomagnetic vectors plus the optional
// start and end points into a Bearing. ok is false when no heading can be
// derived from the vectors; the cycle should be skipped.
func Resolve(gravity, magnetic imu.Vector3, start, end *gps.GeoPoint) (Bearing, bool) {
	azimuth, ok := orientation.Heading(gravity, magnetic)
	if !ok {
		return Bearing{}, false
	}
	return resolveAzimuth(azimuth, start, end), true
}

func resolveAzimuth(azimuth float64, start, end *gps.GeoPoint) Bearing {
	north := orientation.NormalizeBearing(azimuth)
	if start == nil || end == nil {
		return Bearing{LocationDegrees: north, TrueNorthDegrees: north}
	}

	distance, initial := gps.GreatCircle(*start, *end)
	return Bearing{
		LocationDegrees:  orientation.NormalizeBearing(initial - azimuth),
		TrueNorthDegrees: north,
		DistanceMeters:   &distance,
	}
}
