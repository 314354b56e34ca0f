// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Timer is a one-shot deadline collaborator. Each arm fires at most once,
// either signaling an event or invoking a callback on the runtime timer
// goroutine. Re-arming an active timer cancels the previous arm first.
type Timer struct {
	name string

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	event      *Event
}

// NewTimer returns an idle timer. The name is used for diagnostics only.
func NewTimer(name string) *Timer {
	return &Timer{name: name}
}

// Set arms the timer to signal e after d. The event is typically armed with
// a callback first so the expiry lands on the caller's loop.
func (t *Timer) Set(d time.Duration, e *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.generation++
	gen := t.generation
	t.event = e
	t.timer = time.AfterFunc(d, func() { t.fire(gen) })
	log.Debugf("core: timer %s armed for %s -> %s", t.name, d, e.Name())
}

// SetFunc arms the timer to invoke fn after d. fn runs on the runtime timer
// goroutine; route through an event callback when loop affinity matters.
func (t *Timer) SetFunc(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.generation++
	gen := t.generation
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if gen != t.generation {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
	log.Debugf("core: timer %s armed for %s -> func", t.name, d)
}

// Cancel stops a pending arm. If the arm targeted an event, the event is
// canceled so a waiter still observes a terminal state.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Active reports whether an arm is pending.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Timer) cancelLocked() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.event != nil {
		t.event.Cancel()
		t.event = nil
	}
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return
	}
	e := t.event
	t.event = nil
	t.timer = nil
	t.mu.Unlock()

	if e != nil {
		log.Debugf("core: timer %s expired, signaling %s", t.name, e.Name())
		e.Signal()
	}
}
