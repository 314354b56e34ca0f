// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package hw declares the narrow hardware collaborator interfaces the
// control library consumes. Physical drivers live outside this module;
// package sim provides in-memory implementations for tests and benches.
package hw

import (
	"time"

	"github.com/pitlane-robotics/robocore/robot/core"
)

// Actuator is a motor or continuous servo driven by a unitless power
// fraction in [-1.0, 1.0].
type Actuator interface {
	SetPower(power float64)
	Power() float64
}

// TimedActuator additionally supports a delayed, bounded power command:
// wait delay, apply power for duration, then stop and signal completion.
// A zero duration leaves the power applied indefinitely and the completion
// event unsignaled.
type TimedActuator interface {
	Actuator
	SetPowerFor(delay time.Duration, power float64, duration time.Duration, completion *core.Event)
}

// Trigger is a sensor abstraction that reports an active condition and can
// notify on state change. The library does not know the sensor's physical
// nature: digital sensors report through SensorState, analog sensors through
// SensorValue compared against a consumer-held threshold.
type Trigger interface {
	EnableTrigger(callback func())
	DisableTrigger()
	SensorState() bool
	SensorValue() float64
}

// PositionActuator is a positional servo device operating on a logical
// position in [0.0, 1.0].
type PositionActuator interface {
	SetPosition(position float64)
	Position() float64
}
