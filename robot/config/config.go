// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config parses robot configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds process-wide settings and the default intake tuning.
type Config struct {
	LogLevel   string        `env:"ROBOCORE_LOG_LEVEL" envDefault:"info"`
	DiagAddr   string        `env:"ROBOCORE_DIAG_ADDR" envDefault:"127.0.0.1:8787"`
	LoopPeriod time.Duration `env:"ROBOCORE_LOOP_PERIOD" envDefault:"10ms"`

	IntakePower   float64       `env:"ROBOCORE_INTAKE_POWER" envDefault:"0.75"`
	RetainPower   float64       `env:"ROBOCORE_RETAIN_POWER" envDefault:"0.15"`
	FinishDelay   time.Duration `env:"ROBOCORE_FINISH_DELAY" envDefault:"0s"`
	AssistTimeout time.Duration `env:"ROBOCORE_ASSIST_TIMEOUT" envDefault:"5s"`
}

// New parses and validates configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range values.
func (c *Config) Validate() error {
	if c.LoopPeriod <= 0 {
		return fmt.Errorf("loop period must be positive, got %s", c.LoopPeriod)
	}
	if c.IntakePower < -1.0 || c.IntakePower > 1.0 || c.IntakePower == 0 {
		return fmt.Errorf("intake power must be non-zero in [-1.0, 1.0], got %v", c.IntakePower)
	}
	if c.RetainPower < 0 || c.RetainPower > 1.0 {
		return fmt.Errorf("retain power must be in [0.0, 1.0], got %v", c.RetainPower)
	}
	if c.FinishDelay < 0 {
		return fmt.Errorf("finish delay must not be negative, got %s", c.FinishDelay)
	}
	if c.AssistTimeout < 0 {
		return fmt.Errorf("assist timeout must not be negative, got %s", c.AssistTimeout)
	}
	return nil
}
