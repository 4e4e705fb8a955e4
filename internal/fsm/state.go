/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package fsm tracks the kiosk's top level application state against a
// fixed transition table.
package fsm

import (
	"fmt"
)

// State is one of the kiosk's top level application states.
type State int

const (
	// Idle runs the attract loop; no session is active.
	Idle State = iota
	// SessionSelecting means the idle timer fired and the next mode is
	// being chosen.
	SessionSelecting
	// SessionActive means one mode session owns input and rendering.
	SessionActive
	// Transitioning means a finished session is being torn down.
	Transitioning
)

var stateNames = map[State]string{
	Idle:             "Idle",
	SessionSelecting: "SessionSelecting",
	SessionActive:    "SessionActive",
	Transitioning:    "Transitioning",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return name
}
