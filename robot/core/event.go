// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// EventState is one of the three states an Event can be in.
type EventState int32

const (
	// EventCleared is the state an event must be in before starting an
	// asynchronous operation. It is the default state of a new event.
	EventCleared EventState = iota
	// EventSignaled is the state set when the operation completes.
	EventSignaled
	// EventCanceled is the state set when the operation is canceled.
	EventCanceled
)

func (s EventState) String() string {
	switch s {
	case EventCleared:
		return "CLEARED"
	case EventSignaled:
		return "SIGNALED"
	case EventCanceled:
		return "CANCELED"
	default:
		return fmt.Sprintf("EventState(%d)", int32(s))
	}
}

// Event is a tri-state completion token. Signal, Cancel, Clear and the state
// reads are safe to call from any goroutine; a transition out of EventCleared
// happens exactly once per arm, so a signal/cancel race has a single winner
// and neither can overwrite the other.
type Event struct {
	name  string
	state int32

	mu       sync.Mutex
	callback func()
}

// NewEvent returns a cleared event. The name is used for diagnostics only.
func NewEvent(name string) *Event {
	return NewEventWithState(name, EventCleared)
}

// NewEventWithState returns an event starting in the given state.
func NewEventWithState(name string, state EventState) *Event {
	return &Event{name: name, state: int32(state)}
}

// Name returns the diagnostic name of the event.
func (e *Event) Name() string {
	return e.name
}

func (e *Event) String() string {
	return fmt.Sprintf("(%s=%s)", e.name, e.State())
}

// State returns the current state of the event.
func (e *Event) State() EventState {
	return EventState(atomic.LoadInt32(&e.state))
}

// Clear unconditionally resets the event to EventCleared.
func (e *Event) Clear() {
	atomic.StoreInt32(&e.state, int32(EventCleared))
}

// Signal moves a cleared event to EventSignaled. It is a no-op if the event
// is already signaled or canceled.
func (e *Event) Signal() {
	atomic.CompareAndSwapInt32(&e.state, int32(EventCleared), int32(EventSignaled))
}

// Cancel moves a cleared event to EventCanceled. It is a no-op if the event
// is already signaled or canceled.
func (e *Event) Cancel() {
	atomic.CompareAndSwapInt32(&e.state, int32(EventCleared), int32(EventCanceled))
}

// IsSignaled reports whether the event is signaled.
func (e *Event) IsSignaled() bool {
	return e.State() == EventSignaled
}

// IsCanceled reports whether the event is canceled.
func (e *Event) IsCanceled() bool {
	return e.State() == EventCanceled
}

// SetCallback arms the event and attaches a callback to be invoked on the
// loop owning d the next time the event is found signaled or canceled during
// a drain. The event is forced to EventCleared first so the arm is always
// fresh. A nil callback detaches any previous attachment.
//
// Attaching to a dispatcher that is not registered is a usage error: it is
// logged and the event is left unattached.
func (e *Event) SetCallback(d *Dispatcher, callback func()) {
	e.Clear()
	d.attach(e, callback)
}

// takeCallback detaches and returns the attached callback. The dispatcher
// calls this before invoking the callback so the body may re-attach the same
// event.
func (e *Event) takeCallback() func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	callback := e.callback
	e.callback = nil
	return callback
}

func (e *Event) setCallbackFunc(callback func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callback = callback
}

func (e *Event) hasCallback() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callback != nil
}
