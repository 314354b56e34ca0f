// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrLoopAlreadyRunning is returned by Start on a loop that is running.
var ErrLoopAlreadyRunning = errors.New("ErrLoopAlreadyRunning")

// Loop is a cooperative thread of control. It owns a Dispatcher, registers
// it on start, drains it once per period, and unregisters it on stop. All
// callbacks attached to the loop's dispatcher run on the loop goroutine.
type Loop struct {
	name       string
	period     time.Duration
	dispatcher *Dispatcher

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewLoop returns a stopped loop draining its dispatcher every period.
func NewLoop(name string, period time.Duration) *Loop {
	return &Loop{
		name:       name,
		period:     period,
		dispatcher: NewDispatcher(name),
	}
}

// Dispatcher returns the loop's dispatcher for event callback attachment.
func (l *Loop) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// Name returns the loop name.
func (l *Loop) Name() string {
	return l.name
}

// Start launches the loop goroutine. It returns ErrLoopAlreadyRunning if
// the loop is already started.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrLoopAlreadyRunning
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(l.stop, l.done)
	return nil
}

// Stop terminates the loop and waits for the goroutine to exit. Stopping a
// stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Loop) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	l.dispatcher.Register()
	defer l.dispatcher.Unregister()
	log.Debugf("core: loop %s started, period %s", l.name, l.period)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Debugf("core: loop %s stopped", l.name)
			return
		case <-ticker.C:
			l.dispatcher.Drain()
		}
	}
}
