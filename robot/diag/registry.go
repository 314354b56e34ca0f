// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package diag serves read-only subsystem state over HTTP for debugging.
// Subsystems register explicitly; nothing in the control path depends on
// this package.
package diag

import (
	"sort"
	"sync"

	"github.com/pitlane-robotics/robocore/robot/core"
	"github.com/pitlane-robotics/robocore/robot/statejson"
)

// Subsystem is anything that can describe itself for diagnostics.
type Subsystem interface {
	Name() string
	Describe() statejson.SubsystemDescription
}

// Cancelable is implemented by subsystems whose in-flight operation can be
// canceled from the diagnostics endpoint.
type Cancelable interface {
	AutoAssistCancel(owner core.Owner)
}

// Registry holds the subsystems exposed over the diagnostics endpoint.
type Registry struct {
	mu         sync.Mutex
	subsystems map[string]Subsystem
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{subsystems: map[string]Subsystem{}}
}

// Add registers a subsystem, replacing any previous one with the same name.
func (r *Registry) Add(s Subsystem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subsystems[s.Name()] = s
}

// Find returns the named subsystem.
func (r *Registry) Find(name string) (Subsystem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subsystems[name]
	return s, ok
}

// Describe snapshots every registered subsystem, ordered by name.
func (r *Registry) Describe() *statejson.InternalStateDescription {
	r.mu.Lock()
	names := make([]string, 0, len(r.subsystems))
	for name := range r.subsystems {
		names = append(names, name)
	}
	subsystems := make([]Subsystem, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		subsystems = append(subsystems, r.subsystems[name])
	}
	r.mu.Unlock()

	state := &statejson.InternalStateDescription{}
	for _, s := range subsystems {
		state.Subsystems = append(state.Subsystems, s.Describe())
	}
	return state
}
