// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging configures the process loggers: the structured logrus
// logger every robot package logs through, and the standard library logger
// that third-party code may still write to.
package logging

import (
	"io"
	"log"

	"github.com/sirupsen/logrus"
)

// SetOutput routes both loggers to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
}

// SetLevel sets the level of the structured logger. Call it before any
// subsystem starts logging state transitions.
func SetLevel(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set log level. Valid log levels are:", logrus.AllLevels)
	}
	logrus.SetLevel(level)
}
