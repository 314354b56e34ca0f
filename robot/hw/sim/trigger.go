// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// DigitalTrigger is a simulated digital sensor. Set flips the sensed state
// and, while the trigger is enabled, notifies the registered callback on
// every change. It implements hw.Trigger.
type DigitalTrigger struct {
	name string

	mu       sync.Mutex
	state    bool
	callback func()
}

// NewDigitalTrigger returns a trigger with the given initial state.
func NewDigitalTrigger(name string, state bool) *DigitalTrigger {
	return &DigitalTrigger{name: name, state: state}
}

// EnableTrigger registers the state-change callback.
func (t *DigitalTrigger) EnableTrigger(callback func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = callback
}

// DisableTrigger removes the state-change callback.
func (t *DigitalTrigger) DisableTrigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = nil
}

// SensorState returns the sensed digital state.
func (t *DigitalTrigger) SensorState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SensorValue returns 0; the sensor is digital.
func (t *DigitalTrigger) SensorValue() float64 {
	return 0
}

// Set changes the sensed state, firing the callback on a change while
// enabled. It may be called from any goroutine.
func (t *DigitalTrigger) Set(state bool) {
	t.mu.Lock()
	if t.state == state {
		t.mu.Unlock()
		return
	}
	t.state = state
	callback := t.callback
	t.mu.Unlock()

	log.Debugf("sim: trigger %s -> %t", t.name, state)
	if callback != nil {
		callback()
	}
}

// AnalogTrigger is a simulated analog sensor. Set changes the sensed value
// and, while enabled, notifies the registered callback on every change;
// threshold comparison is the consumer's concern. It implements hw.Trigger.
type AnalogTrigger struct {
	name string

	mu       sync.Mutex
	value    float64
	callback func()
}

// NewAnalogTrigger returns a trigger with the given initial value.
func NewAnalogTrigger(name string, value float64) *AnalogTrigger {
	return &AnalogTrigger{name: name, value: value}
}

// EnableTrigger registers the value-change callback.
func (t *AnalogTrigger) EnableTrigger(callback func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = callback
}

// DisableTrigger removes the value-change callback.
func (t *AnalogTrigger) DisableTrigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = nil
}

// SensorState returns false; the sensor is analog.
func (t *AnalogTrigger) SensorState() bool {
	return false
}

// SensorValue returns the sensed analog value.
func (t *AnalogTrigger) SensorValue() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Set changes the sensed value, firing the callback on a change while
// enabled. It may be called from any goroutine.
func (t *AnalogTrigger) Set(value float64) {
	t.mu.Lock()
	if t.value == value {
		t.mu.Unlock()
		return
	}
	t.value = value
	callback := t.callback
	t.mu.Unlock()

	log.Debugf("sim: trigger %s -> %.3f", t.name, value)
	if callback != nil {
		callback()
	}
}

// ServoDevice is a simulated positional servo implementing
// hw.PositionActuator.
type ServoDevice struct {
	name string

	mu       sync.Mutex
	position float64
}

// NewServoDevice returns a servo device at position 0.
func NewServoDevice(name string) *ServoDevice {
	return &ServoDevice{name: name}
}

// SetPosition records the commanded logical position.
func (s *ServoDevice) SetPosition(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = position
}

// Position returns the last commanded logical position.
func (s *ServoDevice) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}
