// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// FixBuilder accumulates NMEA sentences into a Fix. RMC completes a fix;
// GGA refines position and adds quality and satellite count.
type FixBuilder struct {
	current Fix
}

// Current returns the fix assembled so far.
func (b *FixBuilder) Current() Fix {
	return b.current
}

// Feed parses one NMEA line. complete is true when the line closed a fix
// (an RMC sentence) and the fix should be published. Lines that are not
// sentences are ignored without error.
func (b *FixBuilder) Feed(line string) (fix Fix, complete bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, "$") {
		return b.current, false, nil
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return b.current, false, fmt.Errorf("nmea parse: %w", err)
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		b.current.Time = m.Time.String()
		b.current.Date = m.Date.String()
		b.current.Latitude = m.Latitude
		b.current.Longitude = m.Longitude
		b.current.SpeedKnots = m.Speed
		b.current.CourseDeg = m.Course
		b.current.Validity = m.Validity
		return b.current, true, nil

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		b.current.Quality = m.FixQuality
		b.current.Satellites = m.NumSatellites
		if m.FixQuality != nmea.Invalid {
			b.current.Latitude = m.Latitude
			b.current.Longitude = m.Longitude
		}
	}
	return b.current, false, nil
}
