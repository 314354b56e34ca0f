// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitlane-robotics/robocore/robot/hw/sim"
)

func TestTriggerConfigDigital(t *testing.T) {
	trigger := sim.NewDigitalTrigger("test", false)
	c := &TriggerConfig{Trigger: trigger}

	assert.False(t, c.Active())
	assert.False(t, c.SensorState())
	assert.Equal(t, 0.0, c.SensorValue())

	trigger.Set(true)
	assert.True(t, c.Active())
	assert.True(t, c.SensorState())
}

func TestTriggerConfigAnalogThreshold(t *testing.T) {
	trigger := sim.NewAnalogTrigger("test", 0.0)
	threshold := 2.5
	c := &TriggerConfig{Trigger: trigger, AnalogThreshold: &threshold}

	assert.False(t, c.Active())
	assert.False(t, c.SensorState(), "analog trigger has no digital state")

	trigger.Set(3.0)
	assert.True(t, c.Active())
	assert.Equal(t, 3.0, c.SensorValue())

	trigger.Set(2.5)
	assert.False(t, c.Active(), "detection requires exceeding the threshold")
}

func TestTriggerConfigAnalogInverted(t *testing.T) {
	trigger := sim.NewAnalogTrigger("test", 5.0)
	threshold := 2.5
	c := &TriggerConfig{Trigger: trigger, AnalogThreshold: &threshold, AnalogInverted: true}

	assert.False(t, c.Active())

	trigger.Set(1.0)
	assert.True(t, c.Active())
}
