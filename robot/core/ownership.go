// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Owner identifies a caller competing for exclusive access to a subsystem.
type Owner string

// NoOwner opts out of arbitration entirely. Validation always passes for it
// and acquire/release are no-ops. Mixing NoOwner callers with identified
// owners on the same subsystem is the caller's responsibility and is not
// defined by this contract.
const NoOwner Owner = ""

// ExclusiveSubsystem is the capability a subsystem exposes to serialize
// access across competing callers.
type ExclusiveSubsystem interface {
	AcquireOwnership(owner Owner, completion *Event) *Event
	ValidateOwnership(owner Owner) bool
	ReleaseOwnership(owner Owner)
}

type pendingOwner struct {
	owner      Owner
	handoff    *Event
	completion *Event
}

// OwnershipArbiter implements ExclusiveSubsystem with a one-deep pending
// queue. It is designed to be embedded in a subsystem.
//
// Contention policy: a caller denied ownership may queue behind the current
// holder. It gets back a hand-off event that is signaled when the holder
// releases, at which point ownership has already been transferred to the
// queued caller and it may reissue its request. The caller's real completion
// event is never signaled or canceled by the arbiter. While one caller is
// queued, further contenders are rejected outright.
type OwnershipArbiter struct {
	mu           sync.Mutex
	name         string
	currentOwner Owner
	pending      *pendingOwner
}

// NewOwnershipArbiter returns an arbiter for the named subsystem.
func NewOwnershipArbiter(name string) OwnershipArbiter {
	return OwnershipArbiter{name: name}
}

// AcquireOwnership attempts to reserve the subsystem for owner. It returns
// nil when the caller should proceed with (or retry against) its own
// completion event: either the acquire succeeded, arbitration is disabled
// for this caller, or the pending slot was taken. A non-nil return is the
// hand-off event to wait on before retrying.
func (a *OwnershipArbiter) AcquireOwnership(owner Owner, completion *Event) *Event {
	if owner == NoOwner {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentOwner == NoOwner || a.currentOwner == owner {
		a.currentOwner = owner
		log.Debugf("core: %s acquired by %q", a.name, owner)
		return nil
	}

	if a.pending == nil {
		a.pending = &pendingOwner{
			owner:      owner,
			handoff:    NewEvent(a.name + ".handoff"),
			completion: completion,
		}
		log.Debugf("core: %s owned by %q, queued %q behind it", a.name, a.currentOwner, owner)
		return a.pending.handoff
	}

	log.Debugf("core: %s owned by %q with %q queued, rejecting %q",
		a.name, a.currentOwner, a.pending.owner, owner)
	return nil
}

// ValidateOwnership reports whether owner may operate the subsystem: always
// true for NoOwner, otherwise true only for the current owner.
func (a *OwnershipArbiter) ValidateOwnership(owner Owner) bool {
	if owner == NoOwner {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentOwner == owner
}

// ReleaseOwnership clears the current owner if it equals owner; it is a
// no-op otherwise. If a caller is queued, ownership transfers to it and its
// hand-off event is signaled.
func (a *OwnershipArbiter) ReleaseOwnership(owner Owner) {
	if owner == NoOwner {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentOwner != owner {
		return
	}

	if a.pending != nil {
		a.currentOwner = a.pending.owner
		log.Debugf("core: %s released by %q, handed off to %q", a.name, owner, a.currentOwner)
		a.pending.handoff.Signal()
		a.pending = nil
		return
	}

	log.Debugf("core: %s released by %q", a.name, owner)
	a.currentOwner = NoOwner
}

// CancelPending drops a queued hand-off, canceling its hand-off event. Used
// at subsystem teardown so a queued caller does not wait forever.
func (a *OwnershipArbiter) CancelPending() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending != nil {
		a.pending.handoff.Cancel()
		a.pending = nil
	}
}

// CurrentOwner returns the current owner, or NoOwner when free.
func (a *OwnershipArbiter) CurrentOwner() Owner {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentOwner
}
