// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	SetLevel("warning")
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}

func TestSetOutput(t *testing.T) {
	previous := logrus.StandardLogger().Out
	defer SetOutput(previous)

	var buf bytes.Buffer
	SetOutput(&buf)

	logrus.Error("routed")
	assert.Contains(t, buf.String(), "routed")
}
