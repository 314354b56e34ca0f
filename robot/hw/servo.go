// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hw

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pitlane-robotics/robocore/robot/core"
)

// Servo wraps a PositionActuator with direction inversion and timed moves.
// Servo devices give no position feedback, so a move is considered complete
// when its allotted time elapses; SetPositionFor signals the caller's event
// through a Timer rather than a sensor.
type Servo struct {
	name   string
	device PositionActuator
	timer  *core.Timer

	mu       sync.Mutex
	inverted bool
}

// NewServo returns a servo wrapping the given device.
func NewServo(name string, device PositionActuator) *Servo {
	return &Servo{
		name:   name,
		device: device,
		timer:  core.NewTimer(name + ".servo"),
	}
}

// Name returns the servo name.
func (s *Servo) Name() string {
	return s.name
}

// SetInverted reverses the direction of the servo: logical 0.0 maps to the
// device's 1.0 and vice versa.
func (s *Servo) SetInverted(inverted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inverted = inverted
}

// Inverted reports whether the servo direction is inverted.
func (s *Servo) Inverted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inverted
}

// SetPosition commands the servo to the given logical position in [0.0, 1.0].
func (s *Servo) SetPosition(position float64) {
	if position < 0.0 {
		position = 0.0
	} else if position > 1.0 {
		position = 1.0
	}
	if s.Inverted() {
		position = 1.0 - position
	}
	log.Debugf("hw: servo %s -> %.3f", s.name, position)
	s.device.SetPosition(position)
}

// Position returns the logical position set by the last SetPosition call.
// Servos have no encoder; this is the commanded position, not a measurement.
func (s *Servo) Position() float64 {
	position := s.device.Position()
	if s.Inverted() {
		position = 1.0 - position
	}
	return position
}

// SetPositionFor commands the servo and signals completion after the move
// time elapses. Re-issuing before expiry cancels the previous completion.
func (s *Servo) SetPositionFor(position float64, moveTime time.Duration, completion *core.Event) {
	s.SetPosition(position)
	if completion != nil {
		s.timer.Set(moveTime, completion)
	}
}

// Cancel stops a pending timed move, canceling its completion event.
func (s *Servo) Cancel() {
	s.timer.Cancel()
}
