// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestEventStartsCleared(t *testing.T) {
	e := NewEvent("test")
	assert.Equal(t, EventCleared, e.State())
	assert.False(t, e.IsSignaled())
	assert.False(t, e.IsCanceled())
	assert.Equal(t, "test", e.Name())
}

func TestEventWithInitialState(t *testing.T) {
	e := NewEventWithState("test", EventSignaled)
	assert.True(t, e.IsSignaled())
}

func TestEventSignalIsTerminal(t *testing.T) {
	e := NewEvent("test")
	e.Signal()
	assert.Equal(t, EventSignaled, e.State())

	e.Cancel()
	assert.Equal(t, EventSignaled, e.State())
	e.Signal()
	assert.Equal(t, EventSignaled, e.State())
}

func TestEventCancelIsTerminal(t *testing.T) {
	e := NewEvent("test")
	e.Cancel()
	assert.Equal(t, EventCanceled, e.State())

	e.Signal()
	assert.Equal(t, EventCanceled, e.State())
	e.Cancel()
	assert.Equal(t, EventCanceled, e.State())
}

func TestEventClearRearms(t *testing.T) {
	e := NewEvent("test")
	e.Signal()
	e.Clear()
	assert.Equal(t, EventCleared, e.State())

	e.Cancel()
	assert.Equal(t, EventCanceled, e.State())
}

func TestEventSignalCancelRaceHasOneWinner(t *testing.T) {
	for i := 0; i < 100; i++ {
		e := NewEvent("test")
		var g errgroup.Group
		g.Go(func() error { e.Signal(); return nil })
		g.Go(func() error { e.Cancel(); return nil })
		assert.NoError(t, g.Wait())

		first := e.State()
		assert.Contains(t, []EventState{EventSignaled, EventCanceled}, first)

		e.Signal()
		e.Cancel()
		assert.Equal(t, first, e.State())
	}
}

func TestEventConcurrentSignalers(t *testing.T) {
	e := NewEvent("test")
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error { e.Signal(); return nil })
	}
	assert.NoError(t, g.Wait())
	assert.True(t, e.IsSignaled())
}

func TestEventSetCallbackClearsFirst(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	e := NewEvent("test")
	e.Signal()
	e.SetCallback(d, func() {})
	assert.Equal(t, EventCleared, e.State())
	assert.True(t, e.hasCallback())
}

func TestEventString(t *testing.T) {
	e := NewEvent("test")
	assert.Equal(t, "(test=CLEARED)", e.String())
	e.Signal()
	assert.Equal(t, "(test=SIGNALED)", e.String())
}

func TestEventStateString(t *testing.T) {
	assert.Equal(t, "CLEARED", EventCleared.String())
	assert.Equal(t, "SIGNALED", EventSignaled.String())
	assert.Equal(t, "CANCELED", EventCanceled.String())
}

func BenchmarkEventSignal(b *testing.B) {
	for n := 0; n < b.N; n++ {
		e := NewEvent("bench")
		e.Signal()
	}
}
