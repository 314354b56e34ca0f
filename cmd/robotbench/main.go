// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// robotbench runs the control library against simulated hardware. It wires
// an auto-assist intake onto a cooperative loop, serves the diagnostics
// endpoint, and optionally plays a scripted set of capture/eject cycles.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/pitlane-robotics/robocore/robot/config"
	"github.com/pitlane-robotics/robocore/robot/core"
	"github.com/pitlane-robotics/robocore/robot/diag"
	"github.com/pitlane-robotics/robocore/robot/hw/sim"
	"github.com/pitlane-robotics/robocore/robot/intake"
	"github.com/pitlane-robotics/robocore/robot/logging"
)

type options struct {
	LogLevel string `long:"log-level" default:"info" description:"log level"`
	DiagAddr string `long:"diag-addr" default:"" description:"diagnostics listen address (overrides environment)"`
	Demo     bool   `long:"demo" description:"run the scripted demo cycles and exit"`
}

func main() {
	opts := getCLIArgs()
	logging.SetLevel(opts.LogLevel)

	cfg, err := config.New()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if opts.DiagAddr != "" {
		cfg.DiagAddr = opts.DiagAddr
	}

	motor := sim.NewMotor("intake")
	entry := sim.NewDigitalTrigger("intake.entry", false)
	exit := sim.NewDigitalTrigger("intake.exit", false)

	loop := core.NewLoop("intake", cfg.LoopPeriod)
	if err := loop.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start subsystem loop")
	}
	defer loop.Stop()

	in := intake.New("intake", motor,
		&intake.TriggerConfig{Trigger: entry},
		&intake.TriggerConfig{Trigger: exit},
		loop.Dispatcher())

	registry := diag.NewRegistry()
	registry.Add(in)

	go func() {
		log.Infof("diagnostics listening on %s", cfg.DiagAddr)
		if err := http.ListenAndServe(cfg.DiagAddr, diag.NewHTTPRouter(registry)); err != nil {
			log.WithError(err).Fatal("Diagnostics server failed")
		}
	}()

	if opts.Demo {
		runDemo(cfg, in, exit)
		return
	}
	select {}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(os.Args); err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

func runDemo(cfg *config.Config, in *intake.Intake, exit *sim.DigitalTrigger) {
	const owner core.Owner = "demo"

	// Cycle 1: capture, object reaches the exit sensor mid-run.
	done := core.NewEvent("demo.capture")
	if err := in.AutoAssistIntake(intake.AssistParams{
		Owner:       owner,
		Power:       cfg.IntakePower,
		RetainPower: cfg.RetainPower,
		FinishDelay: cfg.FinishDelay,
		Event:       done,
		Timeout:     cfg.AssistTimeout,
	}); err != nil {
		log.WithError(err).Fatal("Failed to start capture")
	}
	time.AfterFunc(400*time.Millisecond, func() { exit.Set(true) })
	awaitEvent(done)
	log.Infof("capture: signaled=%t hasObject=%t power=%.2f", done.IsSignaled(), in.HasObject(), in.Power())

	// Cycle 2: forward eject until the exit sensor clears.
	done = core.NewEvent("demo.eject")
	if err := in.AutoAssistEjectForward(intake.AssistParams{
		Owner:   owner,
		Power:   -cfg.IntakePower,
		Event:   done,
		Timeout: cfg.AssistTimeout,
	}); err != nil {
		log.WithError(err).Fatal("Failed to start eject")
	}
	time.AfterFunc(200*time.Millisecond, func() { exit.Set(false) })
	awaitEvent(done)
	log.Infof("eject: signaled=%t hasObject=%t power=%.2f", done.IsSignaled(), in.HasObject(), in.Power())

	// Cycle 3: capture with nothing arriving; the deadline gives up.
	done = core.NewEvent("demo.timeout")
	if err := in.AutoAssistIntake(intake.AssistParams{
		Owner:       owner,
		Power:       cfg.IntakePower,
		RetainPower: cfg.RetainPower,
		Event:       done,
		Timeout:     time.Second,
	}); err != nil {
		log.WithError(err).Fatal("Failed to start capture")
	}
	awaitEvent(done)
	log.Infof("timeout: canceled=%t hasObject=%t power=%.2f", done.IsCanceled(), in.HasObject(), in.Power())
}

// awaitEvent polls the event to a terminal state; the demo runs outside any
// cooperative loop, so polling is its only way to wait.
func awaitEvent(e *core.Event) {
	for !e.IsSignaled() && !e.IsCanceled() {
		time.Sleep(5 * time.Millisecond)
	}
}
