// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRegisterTwice(t *testing.T) {
	d := NewDispatcher("test")
	assert.True(t, d.Register())
	assert.False(t, d.Register())
	assert.True(t, d.Registered())
}

func TestDispatcherUnregisterWithoutRegister(t *testing.T) {
	d := NewDispatcher("test")
	assert.False(t, d.Unregister())

	assert.True(t, d.Register())
	assert.True(t, d.Unregister())
	assert.False(t, d.Unregister())
}

func TestDispatcherAttachRequiresRegistration(t *testing.T) {
	d := NewDispatcher("test")
	e := NewEvent("test")

	e.SetCallback(d, func() { t.Fatal("callback must not be attached") })
	assert.Equal(t, 0, d.Pending())
	assert.False(t, e.hasCallback())

	e.Signal()
	d.Drain()
}

func TestDispatcherDrainInvokesCallback(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	fired := 0
	e := NewEvent("test")
	e.SetCallback(d, func() { fired++ })
	assert.Equal(t, 1, d.Pending())

	d.Drain()
	assert.Equal(t, 0, fired, "cleared event must not dispatch")

	e.Signal()
	d.Drain()
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, d.Pending())

	d.Drain()
	assert.Equal(t, 1, fired, "dispatch happens exactly once per arm")
}

func TestDispatcherDrainDispatchesCanceled(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	fired := false
	e := NewEvent("test")
	e.SetCallback(d, func() { fired = true })
	e.Cancel()

	d.Drain()
	assert.True(t, fired)
}

func TestDispatcherNilCallbackDetaches(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	e := NewEvent("test")
	e.SetCallback(d, func() { t.Fatal("detached callback must not run") })
	assert.Equal(t, 1, d.Pending())

	e.SetCallback(d, nil)
	assert.Equal(t, 0, d.Pending())

	e.Signal()
	d.Drain()
}

func TestDispatcherReattachReplacesCallback(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	e := NewEvent("test")
	e.SetCallback(d, func() { t.Fatal("replaced callback must not run") })

	fired := false
	e.SetCallback(d, func() { fired = true })
	assert.Equal(t, 1, d.Pending(), "re-attachment must not duplicate the entry")

	e.Signal()
	d.Drain()
	assert.True(t, fired)
}

func TestDispatcherRearmDuringDrain(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	e := NewEvent("test")
	first, second := 0, 0
	e.SetCallback(d, func() {
		first++
		e.SetCallback(d, func() { second++ })
		e.Signal()
	})
	e.Signal()

	// The re-attachment appends past the scan, so the chained callback runs
	// on the next drain, not this one.
	d.Drain()
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
	assert.Equal(t, 1, d.Pending())

	d.Drain()
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcherDrainLeavesPendingEvents(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()
	defer d.Unregister()

	fired := map[string]bool{}
	a := NewEvent("a")
	b := NewEvent("b")
	c := NewEvent("c")
	a.SetCallback(d, func() { fired["a"] = true })
	b.SetCallback(d, func() { fired["b"] = true })
	c.SetCallback(d, func() { fired["c"] = true })

	b.Signal()
	d.Drain()
	assert.Equal(t, map[string]bool{"b": true}, fired)
	assert.Equal(t, 2, d.Pending())

	a.Cancel()
	c.Signal()
	d.Drain()
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, fired)
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcherUnregisterDropsAttachments(t *testing.T) {
	d := NewDispatcher("test")
	d.Register()

	e := NewEvent("test")
	e.SetCallback(d, func() {})
	assert.Equal(t, 1, d.Pending())

	d.Unregister()
	assert.Equal(t, 0, d.Pending())
}
