// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package intake implements a platform independent auto-assist intake
// subsystem: a motor or continuous servo plus optional entry and exit
// sensors that detect a captured object. A caller starts a capture or eject
// operation and the subsystem stops itself once the object is picked up or
// ejected, the timeout elapses, or the caller cancels. The subsystem also
// arbitrates exclusive access, so while one caller runs an operation nobody
// else can drive it.
package intake

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pitlane-robotics/robocore/robot/core"
	"github.com/pitlane-robotics/robocore/robot/hw"
	"github.com/pitlane-robotics/robocore/robot/statejson"
)

// ErrNoTrigger is returned when an auto-assist operation has no sensor
// trigger to terminate on.
var ErrNoTrigger = errors.New("ErrNoTrigger")

// ErrZeroPower is returned when an auto-assist operation is started with
// zero run power.
var ErrZeroPower = errors.New("ErrZeroPower")

// Operation is the auto-assist operation kind.
type Operation int

const (
	// OpCapture spins the intake until the exit sensor reports an object.
	OpCapture Operation = iota
	// OpEjectForward spins the intake forward until the exit sensor clears.
	OpEjectForward
	// OpEjectReverse spins the intake backward until the entry sensor clears.
	OpEjectReverse
)

func (op Operation) String() string {
	switch op {
	case OpCapture:
		return "Capture"
	case OpEjectForward:
		return "EjectForward"
	case OpEjectReverse:
		return "EjectReverse"
	default:
		return "Unknown"
	}
}

type assistState int

const (
	stateIdle assistState = iota
	statePending
	stateRunning
)

func (s assistState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case statePending:
		return "Pending"
	case stateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// AssistParams carries the parameters of one auto-assist operation.
type AssistParams struct {
	// Owner identifies the caller for exclusive access; core.NoOwner opts
	// out of arbitration.
	Owner core.Owner
	// Delay postpones driving the actuator after start.
	Delay time.Duration
	// Power is the run power in [-1.0, 1.0]. Must be non-zero.
	Power float64
	// RetainPower is applied after a successful capture to hold the object.
	RetainPower float64
	// FinishDelay keeps the intake running at Power for a grace period
	// before settling.
	FinishDelay time.Duration
	// Event, when non-nil, is signaled on completion or canceled on
	// timeout/cancellation.
	Event *core.Event
	// Timeout, when positive, gives up after the duration. The caller must
	// check HasObject to distinguish success from giving up.
	Timeout time.Duration
}

// actionParams is the state of one in-flight operation. Every deferred
// callback captures its action and re-checks identity before acting, so a
// stale timer or trigger dispatch against a finished operation is a no-op.
type actionParams struct {
	id          uuid.UUID
	op          Operation
	owner       core.Owner
	owned       bool
	power       float64
	retainPower float64
	finishDelay time.Duration
	timeout     time.Duration
	event       *core.Event
}

// Intake is the auto-assist intake subsystem. All state transitions run on
// the loop owning the dispatcher passed to New; only the event primitives
// underneath are touched from other goroutines.
type Intake struct {
	core.OwnershipArbiter

	name       string
	motor      hw.Actuator
	entry      *TriggerConfig
	exit       *TriggerConfig
	dispatcher *core.Dispatcher

	timer       *core.Timer
	timerEvent  *core.Event
	settleTimer *core.Timer
	entryEvent  *core.Event
	exitEvent   *core.Event

	mu           sync.Mutex
	state        assistState
	stateChanged time.Time
	action       *actionParams
}

// New returns an intake over the given motor and triggers. Either trigger
// may be nil when that side has no sensor. The dispatcher must belong to
// the loop that will service this subsystem.
func New(name string, motor hw.Actuator, entry, exit *TriggerConfig, dispatcher *core.Dispatcher) *Intake {
	return &Intake{
		OwnershipArbiter: core.NewOwnershipArbiter(name),
		name:             name,
		motor:            motor,
		entry:            entry,
		exit:             exit,
		dispatcher:       dispatcher,
		timer:            core.NewTimer(name),
		timerEvent:       core.NewEvent(name + ".timerEvent"),
		settleTimer:      core.NewTimer(name + ".settle"),
		entryEvent:       core.NewEvent(name + ".entryEvent"),
		exitEvent:        core.NewEvent(name + ".exitEvent"),
		stateChanged:     time.Now(),
	}
}

// Name returns the subsystem name.
func (in *Intake) Name() string {
	return in.name
}

// EntryTrigger returns the entry-side trigger configuration, or nil.
func (in *Intake) EntryTrigger() *TriggerConfig {
	return in.entry
}

// ExitTrigger returns the exit-side trigger configuration, or nil.
func (in *Intake) ExitTrigger() *TriggerConfig {
	return in.exit
}

// Power returns the current motor power.
func (in *Intake) Power() float64 {
	return in.motor.Power()
}

// SetPower drives the motor directly, outside any auto-assist operation. A
// settle pending from a finished operation is preempted.
func (in *Intake) SetPower(power float64) {
	in.settleTimer.Cancel()
	in.motor.SetPower(power)
}

// SetPowerFor drives the motor for a bounded time: wait delay, apply power
// for duration, stop and signal completion. It degrades to an immediate
// SetPower when the motor has no timed capability.
func (in *Intake) SetPowerFor(delay time.Duration, power float64, duration time.Duration, completion *core.Event) {
	if timed, ok := in.motor.(hw.TimedActuator); ok {
		timed.SetPowerFor(delay, power, duration, completion)
		return
	}
	log.Warnf("intake: %s motor has no timed capability, applying power immediately", in.name)
	in.motor.SetPower(power)
}

// HasObject reports whether the exit sensor currently detects an object.
func (in *Intake) HasObject() bool {
	if in.exit == nil {
		return false
	}
	return in.exit.Active()
}

// IsAutoAssistActive reports whether an auto-assist operation is in flight.
func (in *Intake) IsAutoAssistActive() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.action != nil
}

// AutoAssistIntake starts an auto-assist capture: the intake spins at the
// given power and stops itself once the exit sensor detects an object,
// signaling the caller's event.
func (in *Intake) AutoAssistIntake(p AssistParams) error {
	return in.autoAssist(OpCapture, p)
}

// AutoAssistEjectForward starts an auto-assist forward eject: the intake
// spins until the exit sensor no longer detects an object.
func (in *Intake) AutoAssistEjectForward(p AssistParams) error {
	p.RetainPower = 0
	return in.autoAssist(OpEjectForward, p)
}

// AutoAssistEjectReverse starts an auto-assist reverse eject: the intake
// spins until the entry sensor no longer detects an object.
func (in *Intake) AutoAssistEjectReverse(p AssistParams) error {
	p.RetainPower = 0
	return in.autoAssist(OpEjectReverse, p)
}

// AutoAssistCancel cancels an in-flight auto-assist operation, canceling
// the caller's event. On an idle subsystem it only stops a manually driven
// motor. The cancel is ignored when owner does not hold the subsystem.
func (in *Intake) AutoAssistCancel(owner core.Owner) {
	if !in.ValidateOwnership(owner) {
		log.Debugf("intake: %s cancel from %q ignored, owned by %q", in.name, owner, in.CurrentOwner())
		return
	}

	in.mu.Lock()
	action := in.action
	in.mu.Unlock()

	if action != nil {
		in.finish(action, true)
	} else if in.Power() != 0 {
		in.SetPower(0)
	}
}

func (in *Intake) autoAssist(op Operation, p AssistParams) error {
	if in.entry == nil && in.exit == nil {
		return ErrNoTrigger
	}
	if in.watchedTrigger(op) == nil {
		return ErrNoTrigger
	}
	if p.Power == 0 {
		return ErrZeroPower
	}

	if handoff := in.AcquireOwnership(p.Owner, p.Event); handoff != nil {
		log.Debugf("intake: %s owned by %q, dropped %s from %q (hand-off %s)",
			in.name, in.CurrentOwner(), op, p.Owner, handoff.Name())
		return nil
	}
	if !in.ValidateOwnership(p.Owner) {
		log.Debugf("intake: %s owned by %q, dropped %s from %q", in.name, in.CurrentOwner(), op, p.Owner)
		return nil
	}

	in.mu.Lock()
	if in.action != nil {
		in.mu.Unlock()
		log.Debugf("intake: %s already active, dropped %s from %q", in.name, op, p.Owner)
		return nil
	}
	action := &actionParams{
		id:          uuid.New(),
		op:          op,
		owner:       p.Owner,
		owned:       p.Owner != core.NoOwner,
		power:       p.Power,
		retainPower: p.RetainPower,
		finishDelay: p.FinishDelay,
		timeout:     p.Timeout,
		event:       p.Event,
	}
	in.action = action
	in.setStateLocked(statePending)
	in.mu.Unlock()

	// The previous operation's settle must not fire into this one.
	in.settleTimer.Cancel()

	log.Debugf("intake: %s op %s %s owner=%q power=%.2f timeout=%s",
		in.name, action.id, op, p.Owner, p.Power, p.Timeout)

	if p.Delay > 0 {
		in.timerEvent.SetCallback(in.dispatcher, func() { in.perform(action) })
		in.timer.Set(p.Delay, in.timerEvent)
	} else {
		in.perform(action)
	}
	return nil
}

// perform transitions a pending operation to running, or finishes it right
// away when the target condition already holds.
func (in *Intake) perform(action *actionParams) {
	in.mu.Lock()
	if in.action != action {
		in.mu.Unlock()
		return
	}
	captured := in.HasObject()

	if (action.op == OpCapture) != captured {
		// Capturing without an object yet, or ejecting while one is held.
		in.setStateLocked(stateRunning)
		in.mu.Unlock()

		in.motor.SetPower(action.power)

		watched := in.watchedTrigger(action.op)
		watchedEvent := in.exitEvent
		if watched == in.entry {
			watchedEvent = in.entryEvent
		}
		watchedEvent.SetCallback(in.dispatcher, func() { in.triggerFired(action, watched) })
		watched.Trigger.EnableTrigger(watchedEvent.Signal)

		if action.timeout > 0 {
			in.timerEvent.SetCallback(in.dispatcher, func() { in.timedOut(action) })
			in.timer.Set(action.timeout, in.timerEvent)
		}
	} else {
		in.mu.Unlock()
		log.Debugf("intake: %s op %s already satisfied, hasObject=%t", in.name, action.id, captured)
		in.finish(action, false)
	}
}

// watchedTrigger returns the trigger an operation terminates on: capture
// and forward eject watch the exit sensor, reverse eject watches the entry
// sensor.
func (in *Intake) watchedTrigger(op Operation) *TriggerConfig {
	if op == OpEjectReverse {
		return in.entry
	}
	return in.exit
}

func (in *Intake) triggerFired(action *actionParams, tc *TriggerConfig) {
	in.finish(action, false)
	if tc.Callback != nil {
		tc.Callback()
	}
}

func (in *Intake) timedOut(action *actionParams) {
	log.Debugf("intake: %s op %s timed out", in.name, action.id)
	in.finish(action, true)
}

// finish ends the given operation and cleans up. It is reachable from the
// trigger path, the timeout path, and an explicit cancel; whichever runs
// first wins and the rest no-op on the identity check.
func (in *Intake) finish(action *actionParams, canceled bool) {
	in.mu.Lock()
	if in.action != action {
		in.mu.Unlock()
		return
	}
	in.action = nil
	in.setStateLocked(stateIdle)
	in.mu.Unlock()

	retained := in.HasObject()
	power := 0.0
	if !canceled && retained {
		power = action.retainPower
	}
	if action.finishDelay > 0 {
		// Grace period: keep spinning at run power, then settle.
		in.settleTimer.SetFunc(action.finishDelay, func() { in.motor.SetPower(power) })
	} else {
		in.motor.SetPower(power)
	}

	in.timer.Cancel()
	if in.entry != nil {
		in.entry.Trigger.DisableTrigger()
	}
	if in.exit != nil {
		in.exit.Trigger.DisableTrigger()
	}

	if action.event != nil {
		if canceled {
			action.event.Cancel()
		} else {
			action.event.Signal()
		}
	}

	if action.owned {
		in.ReleaseOwnership(action.owner)
	}

	log.Debugf("intake: %s op %s finished canceled=%t hasObject=%t", in.name, action.id, canceled, retained)
}

func (in *Intake) setStateLocked(state assistState) {
	in.state = state
	in.stateChanged = time.Now()
}

// Describe returns a point-in-time snapshot for the diagnostics endpoint.
func (in *Intake) Describe() statejson.SubsystemDescription {
	in.mu.Lock()
	desc := statejson.SubsystemDescription{
		Name: in.name,
		State: statejson.StateDescription{
			Name:         in.state.String(),
			LastModified: in.stateChanged.UnixNano() / int64(time.Millisecond),
		},
	}
	if in.action != nil {
		desc.Operation = &statejson.OperationDescription{
			ID:          in.action.id.String(),
			Kind:        in.action.op.String(),
			Owner:       string(in.action.owner),
			Power:       in.action.power,
			RetainPower: in.action.retainPower,
			TimeoutMs:   in.action.timeout.Milliseconds(),
		}
	}
	in.mu.Unlock()

	desc.Owner = string(in.CurrentOwner())
	desc.Power = in.motor.Power()
	desc.HasObject = in.HasObject()
	return desc
}
