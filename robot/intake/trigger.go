// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"github.com/pitlane-robotics/robocore/robot/hw"
)

// TriggerConfig binds a sensor trigger to an intake side. For an analog
// sensor, AnalogThreshold selects the "object present" comparison level and
// AnalogInverted flips it (detection below the threshold instead of above).
// Callback, when set, is invoked after the trigger ends an auto-assist
// operation, on the subsystem's loop.
type TriggerConfig struct {
	Trigger         hw.Trigger
	Callback        func()
	AnalogThreshold *float64
	AnalogInverted  bool
}

// SensorState returns the digital sensor state, or false for an analog
// trigger.
func (c *TriggerConfig) SensorState() bool {
	if c.AnalogThreshold != nil {
		return false
	}
	return c.Trigger.SensorState()
}

// SensorValue returns the analog sensor value, or 0 for a digital trigger.
func (c *TriggerConfig) SensorValue() float64 {
	if c.AnalogThreshold == nil {
		return 0
	}
	return c.Trigger.SensorValue()
}

// Active reports whether the trigger sensor currently detects an object.
func (c *TriggerConfig) Active() bool {
	if c.AnalogThreshold != nil {
		active := c.Trigger.SensorValue() > *c.AnalogThreshold
		if c.AnalogInverted {
			active = !active
		}
		return active
	}
	return c.Trigger.SensorState()
}
