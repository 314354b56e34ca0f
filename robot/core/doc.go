// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the synchronization and scheduling primitives every
subsystem in the library is built on.

# Events

Event is a tri-state completion token used instead of blocking waits. An
asynchronous operation is handed a cleared event and moves it to exactly one
of two terminal states:

	[caller]    ev := core.NewEvent("arm.raise")
	[caller]    arm.RaiseTo(pos, ev)
	[caller]    // poll ev.IsSignaled()/ev.IsCanceled() from the caller's loop

Signal and Cancel race safely from any goroutine; the first terminal
transition wins and later ones are no-ops until Clear.

# Dispatchers

A Dispatcher is owned by a cooperative loop and holds the events that loop
has been asked to service. Attaching a callback to an event routes the
completion back onto the owning loop:

	[loop]      d.Register()
	[caller]    ev.SetCallback(d, func() { ... })  // runs on the loop
	[loop]      for { ...; d.Drain(); ... }
	[loop]      d.Unregister()

Callback bodies therefore never race against each other for a given loop,
and may re-arm and re-attach the same event to chain operations.

# Ownership

OwnershipArbiter serializes access to a shared subsystem across competing
callers. One caller may hold the subsystem; one more may queue behind it and
receives a hand-off event that is signaled when the holder releases.

# Timers

Timer fires a deadline at most once per arm, signaling an Event or invoking
a callback. Combined with an event callback it expresses "do this on my loop
after d elapses" without blocking anything.
*/
package core
