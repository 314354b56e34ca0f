// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package statejson defines the JSON description objects served by the
// diagnostics endpoint. Descriptions are point-in-time snapshots for
// debugging; nothing in the control path depends on them.
package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// StateDescription ...
type StateDescription struct {
	Name         string `json:"name"`
	LastModified int64  `json:"lastModified"`
}

// OperationDescription describes an in-flight auto-assist operation.
type OperationDescription struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Owner       string  `json:"owner,omitempty"`
	Power       float64 `json:"power"`
	RetainPower float64 `json:"retainPower"`
	TimeoutMs   int64   `json:"timeoutMs,omitempty"`
}

// SubsystemDescription describes one subsystem instance.
type SubsystemDescription struct {
	Name      string                `json:"name"`
	State     StateDescription      `json:"state"`
	Owner     string                `json:"owner,omitempty"`
	Power     float64               `json:"power"`
	HasObject bool                  `json:"hasObject"`
	Operation *OperationDescription `json:"operation,omitempty"`
}

// InternalStateDescription describes every registered subsystem for
// debugging purposes.
type InternalStateDescription struct {
	Subsystems []SubsystemDescription `json:"subsystems"`
}

func (s *InternalStateDescription) AsJSON() []byte {
	bytes, err := json.Marshal(s)
	if err != nil {
		log.Panicf("Failed to marshal internal state: %s", err)
	}
	return bytes
}
