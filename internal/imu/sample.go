// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Channel identifies which sensor a sample came from.
type Channel string

const (
	ChannelAccelerometer Channel = "accelerometer" // gravity + linear acceleration, m/s²
	ChannelMagnetometer  Channel = "magnetometer"  // geomagnetic field, µT
)

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c == ChannelAccelerometer || c == ChannelMagnetometer
}

// Vector3 is a three-axis reading in device coordinates.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec returns v as a gonum vector for algebra.
func (v Vector3) Vec() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Sample is one timestamped reading from a single channel.
type Sample struct {
	Channel Channel   `json:"channel"`
	Vector  Vector3   `json:"vector"`
	Time    time.Time `json:"time"`
}

// SampleSource is anything that can provide samples over time.
type SampleSource interface {
	Next() ([]Sample, error)
}
