// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	geo "github.com/kellydunn/golang-geo"
)

// GreatCircle returns the distance in meters and the initial bearing in
// degrees (clockwise from true north, in [-180, 180]) along the great
// circle from start to end.
func GreatCircle(start, end GeoPoint) (distanceMeters float32, initialBearing float64) {
	from := geo.NewPoint(start.Lat, start.Lon)
	to := geo.NewPoint(end.Lat, end.Lon)

	// golang-geo reports kilometers
	distanceMeters = float32(from.GreatCircleDistance(to) * 1000)
	initialBearing = from.BearingTo(to)
	return distanceMeters, initialBearing
}
