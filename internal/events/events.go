/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package events provides the kiosk's in-process publish/subscribe bus.
// Delivery is synchronous and ordered; see Bus for the contract.
package events

import (
	"time"
)

// Kind identifies a category of event on the bus. Subscriptions are
// per-kind.
type Kind string

const (
	// KindInput carries one normalized input event (button press,
	// keyboard, motion trigger). Payload keys: "action", plus action
	// specific fields such as "key" and "value".
	KindInput Kind = "input"

	// KindSessionStarted fires when a mode session becomes active.
	KindSessionStarted Kind = "session.started"

	// KindSessionPhase fires on every phase change within an active
	// session.
	KindSessionPhase Kind = "session.phase"

	// KindSessionCompleted fires after a session has finished and its
	// mode instance has been torn down.
	KindSessionCompleted Kind = "session.completed"

	// KindGenerationTask fires when a single generation task reaches a
	// terminal status.
	KindGenerationTask Kind = "generation.task"

	// KindGenerationDone fires once a whole generation batch has
	// finished.
	KindGenerationDone Kind = "generation.done"

	// KindOutputRequested asks the print pipeline to produce a physical
	// artifact for a completed session.
	KindOutputRequested Kind = "output.requested"

	// KindOutputDone and KindOutputFailed report the outcome of one
	// print job.
	KindOutputDone   Kind = "output.done"
	KindOutputFailed Kind = "output.failed"
)

// Event is a single bus message. Payload contents are owned by the
// publisher; handlers must not mutate them.
type Event struct {
	Kind    Kind
	Source  string
	Time    time.Time
	Payload map[string]any
}

// NewEvent stamps the current time onto a freshly built event.
func NewEvent(kind Kind, source string, payload map[string]any) Event {
	return Event{
		Kind:    kind,
		Source:  source,
		Time:    time.Now(),
		Payload: payload,
	}
}
