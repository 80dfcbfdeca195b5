// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/imu"
	"github.com/relabs-tech/places_compass/internal/orientation"
)

type flakySource struct {
	calls int
}

func (f *flakySource) Next() ([]imu.Sample, error) {
	f.calls++
	if f.calls%2 == 1 {
		return nil, errors.New("bus busy")
	}
	return []imu.Sample{{Channel: imu.ChannelAccelerometer, Vector: imu.Vector3{Z: 9.8}}}, nil
}

func TestProduceSamplesForwardsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan imu.Sample)
	src := orientation.NewMockSource(90, 0)

	go produceSamples(ctx, src, time.Millisecond, out, zap.NewNop().Sugar())

	var got []imu.Sample
	for len(got) < 6 {
		got = append(got, <-out)
	}
	cancel()

	assert.Equal(t, imu.ChannelAccelerometer, got[0].Channel)
	assert.Equal(t, imu.ChannelMagnetometer, got[1].Channel)

	// drains and closes after cancel
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-out:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestProduceSamplesSkipsSourceErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan imu.Sample, 4)

	go produceSamples(ctx, &flakySource{}, time.Millisecond, out, zap.NewNop().Sugar())

	for i := 0; i < 3; i++ {
		s := <-out
		assert.Equal(t, imu.ChannelAccelerometer, s.Channel)
	}
}
