// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import "time"

// IMURaw represents a single raw IMU+mag sample as published by the
// inertial producers (counts, not physical units).
type IMURaw struct {
	Source string `json:"source"` // "left" or "right"

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`

	Mx int16 `json:"mx"` // magnetometer
	My int16 `json:"my"`
	Mz int16 `json:"mz"`
}

// Samples splits a raw reading into an accelerometer and a magnetometer
// sample. accelScale converts counts to m/s², magScale converts counts to µT.
// Gyro counts are not used for heading and are dropped.
func (r IMURaw) Samples(accelScale, magScale float64, t time.Time) [2]Sample {
	return [2]Sample{
		{
			Channel: ChannelAccelerometer,
			Vector: Vector3{
				X: float64(r.Ax) * accelScale,
				Y: float64(r.Ay) * accelScale,
				Z: float64(r.Az) * accelScale,
			},
			Time: t,
		},
		{
			Channel: ChannelMagnetometer,
			Vector: Vector3{
				X: float64(r.Mx) * magScale,
				Y: float64(r.My) * magScale,
				Z: float64(r.Mz) * magScale,
			},
			Time: t,
		},
	}
}
