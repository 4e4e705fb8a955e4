/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package modes hosts the kiosk's mode registry, the session manager,
// and the per session lifecycle contract.
package modes

// Phase is the lifecycle stage of a running session. Phases only move
// forward, with skips allowed; Active may re-enter itself for multi
// step interactions.
type Phase int

const (
	Intro Phase = iota
	Active
	Processing
	Result
	Outro
)

var phaseNames = map[Phase]string{
	Intro:      "Intro",
	Active:     "Active",
	Processing: "Processing",
	Result:     "Result",
	Outro:      "Outro",
}

func (p Phase) String() string {
	name, ok := phaseNames[p]
	if !ok {
		return "Phase(?)"
	}
	return name
}

// canAdvance reports whether a session may move from one phase to the
// next. Only Active self-loops.
func canAdvance(from, next Phase) bool {
	if next == from {
		return from == Active
	}
	return next > from && next <= Outro
}
