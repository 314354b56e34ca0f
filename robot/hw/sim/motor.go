// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package sim provides in-memory hardware implementations used by tests,
// benches, and the robotbench binary. Simulated devices are safe for
// concurrent use from sensor-feeder goroutines and control loops alike.
package sim

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pitlane-robotics/robocore/robot/core"
)

// Motor is a simulated power-driven actuator. Power is clamped to
// [-1.0, 1.0]. It implements hw.TimedActuator.
type Motor struct {
	name  string
	timer *core.Timer

	mu      sync.Mutex
	power   float64
	pending *core.Event
}

// NewMotor returns a stopped simulated motor.
func NewMotor(name string) *Motor {
	return &Motor{
		name:  name,
		timer: core.NewTimer(name + ".motor"),
	}
}

// Name returns the motor name.
func (m *Motor) Name() string {
	return m.name
}

// SetPower applies power immediately, preempting any timed command in
// flight. The preempted command's completion event is canceled.
func (m *Motor) SetPower(power float64) {
	m.timer.Cancel()

	m.mu.Lock()
	if m.pending != nil {
		m.pending.Cancel()
		m.pending = nil
	}
	m.setPowerLocked(power)
	m.mu.Unlock()
}

// Power returns the currently applied power.
func (m *Motor) Power() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.power
}

// SetPowerFor waits delay, applies power for duration, then stops the motor
// and signals completion. A zero duration leaves power applied indefinitely
// and completion unsignaled. A new command preempts a pending one, canceling
// its completion event.
func (m *Motor) SetPowerFor(delay time.Duration, power float64, duration time.Duration, completion *core.Event) {
	m.mu.Lock()
	if m.pending != nil {
		m.pending.Cancel()
	}
	m.pending = completion
	m.mu.Unlock()

	apply := func() {
		m.mu.Lock()
		m.setPowerLocked(power)
		m.mu.Unlock()

		if duration > 0 {
			m.timer.SetFunc(duration, func() {
				m.mu.Lock()
				m.setPowerLocked(0)
				done := m.pending
				m.pending = nil
				m.mu.Unlock()
				if done != nil {
					done.Signal()
				}
			})
		}
	}

	if delay > 0 {
		m.timer.SetFunc(delay, apply)
	} else {
		apply()
	}
}

func (m *Motor) setPowerLocked(power float64) {
	if power > 1.0 {
		power = 1.0
	} else if power < -1.0 {
		power = -1.0
	}
	if power != m.power {
		log.Debugf("sim: motor %s power %.3f -> %.3f", m.name, m.power, power)
	}
	m.power = power
}
