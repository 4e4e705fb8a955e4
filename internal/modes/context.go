/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/midway/internal/anim"
	"github.com/mikeb26/midway/internal/capture"
	"github.com/mikeb26/midway/internal/events"
	"go.uber.org/zap"
)

// Context is a session's window onto the kiosk: logging, the event
// bus, frame capture, animation, phase tracking, and completion. One
// Context is built per activation and discarded with the session.
type Context struct {
	ModeID  string
	Log     *zap.Logger
	Bus     *events.Bus
	Capture capture.Source
	Anim    *anim.Driver

	id     string
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	phase        Phase
	phaseEntered time.Time
	startedAt    time.Time
	result       *SessionResult

	listener PhaseListener
}

func newContext(parent context.Context, modeID string, log *zap.Logger,
	bus *events.Bus, cap capture.Source, driver *anim.Driver) *Context {

	ctx, cancel := context.WithCancel(parent)
	now := time.Now()
	id := uuid.NewString()

	return &Context{
		ModeID: modeID,
		Log: log.With(zap.String("mode", modeID),
			zap.String("session_id", id)),
		Bus:          bus,
		Capture:      cap,
		Anim:         driver,
		id:           id,
		ctx:          ctx,
		cancel:       cancel,
		phase:        Intro,
		phaseEntered: now,
		startedAt:    now,
	}
}

// SessionID returns the activation's unique identifier. Every event
// the session's run publishes carries it, so one visitor's trip
// through the kiosk can be stitched together from the log and the
// event stream.
func (sc *Context) SessionID() string {
	return sc.id
}

// Ctx returns the session scoped context. It is canceled when the
// session is torn down, so generation batches started with it die with
// the session.
func (sc *Context) Ctx() context.Context {
	return sc.ctx
}

// Phase returns the session's current lifecycle phase.
func (sc *Context) Phase() Phase {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.phase
}

// PhaseElapsed reports how long the session has been in its current
// phase.
func (sc *Context) PhaseElapsed() time.Duration {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return time.Since(sc.phaseEntered)
}

// SessionElapsed reports how long the session has existed.
func (sc *Context) SessionElapsed() time.Duration {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return time.Since(sc.startedAt)
}

// ChangePhase advances the session to next, stamps the phase entry
// time, publishes a phase event, and notifies the session's phase
// listener if it has one. Backward moves are rejected.
func (sc *Context) ChangePhase(next Phase) error {
	sc.mu.Lock()
	prev := sc.phase
	if !canAdvance(prev, next) {
		sc.mu.Unlock()
		return fmt.Errorf("%w: %v -> %v", ErrPhaseOrder, prev, next)
	}
	sc.phase = next
	sc.phaseEntered = time.Now()
	listener := sc.listener
	sc.mu.Unlock()

	sc.Log.Info("phase change",
		zap.Stringer("from", prev),
		zap.Stringer("to", next))

	sc.Bus.Publish(events.NewEvent(events.KindSessionPhase, sc.ModeID,
		map[string]any{
			"mode":       sc.ModeID,
			"session_id": sc.id,
			"from":       prev.String(),
			"to":         next.String(),
		}))

	if listener != nil {
		listener.OnPhaseChange(sc, prev, next)
	}

	return nil
}

// Complete records the session's result. Only the first call counts;
// later calls are logged and ignored.
func (sc *Context) Complete(result SessionResult) {
	sc.mu.Lock()
	if sc.result != nil {
		sc.mu.Unlock()
		sc.Log.Warn("duplicate session completion ignored")
		return
	}
	sc.result = &result
	sc.mu.Unlock()
}

// Completed returns the recorded result, if any.
func (sc *Context) Completed() (SessionResult, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.result == nil {
		return SessionResult{}, false
	}
	return *sc.result, true
}
