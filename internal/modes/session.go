/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"time"

	"github.com/mikeb26/midway/internal/events"
	"github.com/mikeb26/midway/internal/surface"
)

// SessionResult is what a finished session hands back to the manager.
type SessionResult struct {
	Success bool
	Summary string

	// EmitOutput asks the manager to publish an output request for
	// the print pipeline, with OutputPayload as the job content.
	EmitOutput    bool
	OutputPayload map[string]any
}

// Session is one live run of a mode. The manager drives every hook
// from the tick loop; hooks must not block. A panicking hook ends the
// session with a substituted failure result rather than crashing the
// kiosk.
//
// A session signals it is finished by calling Context.Complete, at the
// latest from inside OnExit; otherwise a failure result is recorded on
// its behalf.
type Session interface {
	OnEnter(sc *Context)
	OnUpdate(sc *Context, delta time.Duration)
	OnInput(sc *Context, ev events.Event) bool
	OnExit(sc *Context)
}

// Renderer is implemented by sessions that draw to surfaces. The
// manager calls it once per target after OnUpdate each tick.
type Renderer interface {
	RenderFrame(sc *Context, target surface.Target) surface.Frame
}

// PhaseListener is implemented by sessions that want a callback on
// every phase change, including Active re-entries.
type PhaseListener interface {
	OnPhaseChange(sc *Context, prev, next Phase)
}

// Factory builds a fresh Session for each activation.
type Factory func() Session

// Descriptor is a mode's registration record, immutable for the life
// of the process.
type Descriptor struct {
	ID          string
	Title       string
	Description string

	// RequiresCamera gates activation on a capture source being wired.
	RequiresCamera bool

	// RequiresService marks modes that call out to a generative
	// backend, for operator-facing listings.
	RequiresService bool

	// EstimatedDuration is how long a typical session runs, logged at
	// activation so an operator knows how long the booth will be busy.
	EstimatedDuration time.Duration
}
