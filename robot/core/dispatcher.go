// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Dispatcher holds the ordered set of events a cooperative loop has been
// asked to service. Each loop owns exactly one dispatcher; attaching a
// callback to an event through SetCallback routes the completion back onto
// that loop, so callback bodies never race against each other.
//
// Every method degrades to a logged no-op on misuse. Drain runs inside a hot
// control loop and must never panic or block on anything but the registry
// lock.
type Dispatcher struct {
	name string

	mu         sync.Mutex
	registered bool
	events     []*Event
}

// NewDispatcher returns an unregistered dispatcher. The owning loop must
// call Register before events can be attached and Unregister at teardown.
func NewDispatcher(name string) *Dispatcher {
	return &Dispatcher{name: name}
}

// Name returns the diagnostic name of the dispatcher.
func (d *Dispatcher) Name() string {
	return d.name
}

// Register creates the dispatcher's event list. It returns false if the
// dispatcher is already registered, in which case the existing list is left
// untouched.
func (d *Dispatcher) Register() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registered {
		log.Warnf("core: dispatcher %s is already registered", d.name)
		log.Debugf("core: registration stack:\n%s", debug.Stack())
		return false
	}
	d.registered = true
	d.events = nil
	return true
}

// Unregister discards the dispatcher's event list. It returns false if the
// dispatcher was never registered.
func (d *Dispatcher) Unregister() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.registered {
		log.Warnf("core: dispatcher %s was never registered", d.name)
		log.Debugf("core: unregistration stack:\n%s", debug.Stack())
		return false
	}
	d.registered = false
	d.events = nil
	return true
}

// Registered reports whether the dispatcher is currently registered.
func (d *Dispatcher) Registered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registered
}

// Pending returns the number of events awaiting a callback.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

// attach records the callback on the event and adds the event to the service
// list, or removes it when the callback is nil.
func (d *Dispatcher) attach(e *Event, callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.registered {
		log.Warnf("core: dispatcher %s is not registered, dropping callback for %s", d.name, e.Name())
		log.Debugf("core: attach stack:\n%s", debug.Stack())
		return
	}

	inList := d.indexLocked(e) >= 0
	e.setCallbackFunc(callback)
	if callback != nil && !inList {
		d.events = append(d.events, e)
	} else if callback == nil && inList {
		d.removeLocked(e)
	}
}

// Drain is called once per iteration of the owning loop. Events found
// signaled or canceled are removed from the list and their callback is
// invoked on the calling goroutine, with the callback detached first so the
// body may legally re-arm and re-attach the same event.
//
// The list is scanned in reverse so a re-attachment during the scan (which
// appends) is not revisited in the same drain.
func (d *Dispatcher) Drain() {
	d.mu.Lock()
	if !d.registered {
		d.mu.Unlock()
		log.Warnf("core: dispatcher %s is not registered, nothing to drain", d.name)
		log.Debugf("core: drain stack:\n%s", debug.Stack())
		return
	}
	n := len(d.events)
	d.mu.Unlock()

	for i := n - 1; i >= 0; i-- {
		d.mu.Lock()
		if i >= len(d.events) {
			// a callback removed entries behind us
			d.mu.Unlock()
			continue
		}
		e := d.events[i]
		if !e.IsSignaled() && !e.IsCanceled() {
			d.mu.Unlock()
			continue
		}
		d.events = append(d.events[:i], d.events[i+1:]...)
		d.mu.Unlock()

		if callback := e.takeCallback(); callback != nil {
			log.Debugf("core: dispatching callback for %s on %s", e, d.name)
			callback()
		}
	}
}

func (d *Dispatcher) indexLocked(e *Event) int {
	for i, ev := range d.events {
		if ev == e {
			return i
		}
	}
	return -1
}

func (d *Dispatcher) removeLocked(e *Event) {
	if i := d.indexLocked(e); i >= 0 {
		d.events = append(d.events[:i], d.events[i+1:]...)
	}
}
