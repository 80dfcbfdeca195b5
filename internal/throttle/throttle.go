// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package throttle coalesces a fast stream of values into at most one
// delivery per interval, always delivering the freshest value.
//
// The first Emit after an idle period arms a timer; values emitted while
// the timer is armed replace the pending value without re-arming it. When
// the timer fires the latest pending value is handed to the listener and
// the throttle goes back to idle.
package throttle

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultInterval is the delivery window used when none is configured.
const DefaultInterval = 300 * time.Millisecond

// Throttle is a trailing throttle. It is safe for concurrent use.
type Throttle[T any] struct {
	clk      clock.Clock
	interval time.Duration
	listener func(T)

	mu        sync.Mutex
	pending   T
	scheduled bool
	delivered uint64
}

// New creates a throttle delivering to listener at most once per interval.
// A nil clock uses the wall clock.
func New[T any](clk clock.Clock, interval time.Duration, listener func(T)) *Throttle[T] {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle[T]{
		clk:      clk,
		interval: interval,
		listener: listener,
	}
}

// Interval returns the delivery window.
func (t *Throttle[T]) Interval() time.Duration {
	return t.interval
}

// Emit records v as the latest value and arms a delivery if none is
// scheduled. It never blocks on the listener.
func (t *Throttle[T]) Emit(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = v
	if t.scheduled {
		return
	}
	t.scheduled = true
	t.clk.AfterFunc(t.interval, t.fire)
}

func (t *Throttle[T]) fire() {
	t.mu.Lock()
	v := t.pending
	var zero T
	t.pending = zero
	t.scheduled = false
	t.delivered++
	t.mu.Unlock()

	if t.listener != nil {
		t.listener(v)
	}
}

// Pending reports whether a delivery is currently scheduled.
func (t *Throttle[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduled
}

// Delivered returns how many deliveries have fired so far.
func (t *Throttle[T]) Delivered() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delivered
}
