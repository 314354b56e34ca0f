// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnershipNoOwnerBypassesArbitration(t *testing.T) {
	a := NewOwnershipArbiter("test")

	assert.Nil(t, a.AcquireOwnership(NoOwner, nil))
	assert.Equal(t, NoOwner, a.CurrentOwner())
	assert.True(t, a.ValidateOwnership(NoOwner))

	a.ReleaseOwnership(NoOwner)
	assert.Equal(t, NoOwner, a.CurrentOwner())
}

func TestOwnershipAcquireAndReacquire(t *testing.T) {
	a := NewOwnershipArbiter("test")

	assert.Nil(t, a.AcquireOwnership("alice", nil))
	assert.Equal(t, Owner("alice"), a.CurrentOwner())
	assert.True(t, a.ValidateOwnership("alice"))
	assert.False(t, a.ValidateOwnership("bob"))

	// Reacquire by the holder is a no-op success.
	assert.Nil(t, a.AcquireOwnership("alice", nil))
	assert.Equal(t, Owner("alice"), a.CurrentOwner())
}

func TestOwnershipReleaseByNonOwnerIgnored(t *testing.T) {
	a := NewOwnershipArbiter("test")
	a.AcquireOwnership("alice", nil)

	a.ReleaseOwnership("bob")
	assert.Equal(t, Owner("alice"), a.CurrentOwner())

	a.ReleaseOwnership("alice")
	assert.Equal(t, NoOwner, a.CurrentOwner())

	// Releasing again after the owner is gone is harmless.
	a.ReleaseOwnership("alice")
	assert.Equal(t, NoOwner, a.CurrentOwner())
}

func TestOwnershipContentionHandsOffOnRelease(t *testing.T) {
	a := NewOwnershipArbiter("test")
	completion := NewEvent("bob.completion")

	assert.Nil(t, a.AcquireOwnership("alice", nil))

	handoff := a.AcquireOwnership("bob", completion)
	assert.NotNil(t, handoff)
	assert.Equal(t, EventCleared, handoff.State())
	assert.Equal(t, Owner("alice"), a.CurrentOwner(), "queuing must not displace the holder")

	a.ReleaseOwnership("alice")
	assert.Equal(t, Owner("bob"), a.CurrentOwner())
	assert.True(t, handoff.IsSignaled())
	assert.Equal(t, EventCleared, completion.State(), "arbiter must never touch the caller's completion event")
}

func TestOwnershipSecondContenderRejected(t *testing.T) {
	a := NewOwnershipArbiter("test")
	a.AcquireOwnership("alice", nil)

	assert.NotNil(t, a.AcquireOwnership("bob", nil))
	assert.Nil(t, a.AcquireOwnership("carol", nil))
	assert.False(t, a.ValidateOwnership("carol"))

	a.ReleaseOwnership("alice")
	assert.Equal(t, Owner("bob"), a.CurrentOwner())
}

func TestOwnershipCancelPending(t *testing.T) {
	a := NewOwnershipArbiter("test")
	a.AcquireOwnership("alice", nil)

	handoff := a.AcquireOwnership("bob", nil)
	assert.NotNil(t, handoff)

	a.CancelPending()
	assert.True(t, handoff.IsCanceled())

	a.ReleaseOwnership("alice")
	assert.Equal(t, NoOwner, a.CurrentOwner(), "canceled queue entry must not receive ownership")
}
