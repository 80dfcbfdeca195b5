// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/relabs-tech/places_compass/internal/gps"
)

const nmeaLog = "garbage from the receiver\r\n" +
	"$GPGGA,092750.000,5321.6802,N,00630.3372,W,1,8,1.03,61.7,M,55.2,M,,*76\r\n" +
	"$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*00\r\n" +
	"$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70\r\n" +
	"$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70"

func TestStreamFixes(t *testing.T) {
	var fixes []gps.Fix
	err := streamFixes(strings.NewReader(nmeaLog), func(f gps.Fix) error {
		fixes = append(fixes, f)
		return nil
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	// bad checksum dropped; last line has no newline but still counts
	require.Len(t, fixes, 2)
	f := fixes[0]
	assert.True(t, f.Valid())
	assert.InDelta(t, 51.5637, f.Latitude, 1e-4)
	assert.InDelta(t, -0.704, f.Longitude, 1e-4)
	assert.Equal(t, int64(8), f.Satellites)
	assert.InDelta(t, 231.8, f.CourseDeg, 1e-9)
}

func TestStreamFixesStopsOnPublishError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := streamFixes(strings.NewReader(nmeaLog), func(gps.Fix) error {
		calls++
		return boom
	}, zaptest.NewLogger(t).Sugar())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
