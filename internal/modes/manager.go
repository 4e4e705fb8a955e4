/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikeb26/midway/internal/anim"
	"github.com/mikeb26/midway/internal/capture"
	"github.com/mikeb26/midway/internal/events"
	"github.com/mikeb26/midway/internal/fsm"
	"github.com/mikeb26/midway/internal/surface"
	"go.uber.org/zap"
)

const (
	// InputControlKey marks reserved control inputs in an input event's
	// payload.
	InputControlKey = "control"
	// InputControlNext is the reserved "start the next mode" control.
	// It is the only input honored while no session is active.
	InputControlNext = "next"
)

// Params collects the manager's dependencies.
type Params struct {
	Bus      *events.Bus
	Machine  *fsm.Machine
	Log      *zap.Logger
	Capture  capture.Source
	Anim     *anim.Driver
	Surfaces []surface.Target

	// IdleTimeout is how long the kiosk sits idle before starting a
	// session by itself. Zero disables idle auto start.
	IdleTimeout time.Duration

	// Rand, when set, drives idle mode selection randomly; when nil
	// the manager walks modes round robin.
	Rand *rand.Rand
}

type registration struct {
	desc    Descriptor
	factory Factory
}

type activeSession struct {
	id      string
	session Session
	sc      *Context
}

// Manager owns the mode registry and at most one live session. The
// tick loop drives it: buffered inputs are dispatched first, then the
// session updates, then it renders to every surface. All session hooks
// run behind a panic boundary; a faulted session is completed as a
// failure and torn down instead of crashing the kiosk.
type Manager struct {
	mu      sync.Mutex
	modes   map[string]registration
	order   []string
	active  *activeSession
	pending []events.Event
	idleFor time.Duration
	nextIdx int

	rootCtx     context.Context
	bus         *events.Bus
	machine     *fsm.Machine
	log         *zap.Logger
	capture     capture.Source
	anim        *anim.Driver
	surfaces    []surface.Target
	idleTimeout time.Duration
	rng         *rand.Rand

	faults atomic.Uint64
}

func NewManager(ctx context.Context, params Params) *Manager {
	m := &Manager{
		modes:       make(map[string]registration),
		rootCtx:     ctx,
		bus:         params.Bus,
		machine:     params.Machine,
		log:         params.Log,
		capture:     params.Capture,
		anim:        params.Anim,
		surfaces:    params.Surfaces,
		idleTimeout: params.IdleTimeout,
		rng:         params.Rand,
	}

	m.bus.Subscribe(events.KindInput, m.enqueueInput)

	return m
}

// Register adds a mode to the registry. IDs must be unique.
func (m *Manager) Register(desc Descriptor, factory Factory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.modes[desc.ID]; ok {
		return fmt.Errorf("%w: %v", ErrModeExists, desc.ID)
	}
	m.modes[desc.ID] = registration{desc: desc, factory: factory}
	m.order = append(m.order, desc.ID)

	return nil
}

// Modes lists the registered mode descriptors in registration order.
func (m *Manager) Modes() []Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	descs := make([]Descriptor, 0, len(m.order))
	for _, id := range m.order {
		descs = append(descs, m.modes[id].desc)
	}
	return descs
}

// Activate instantiates the given mode and runs its enter hook. It
// fails if any session is already active or the application state
// machine rejects entering SessionActive.
func (m *Manager) Activate(id string) error {
	m.mu.Lock()
	if m.active != nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %v already running", ErrSessionActive,
			m.active.id)
	}
	reg, ok := m.modes[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrModeNotFound, id)
	}
	if reg.desc.RequiresCamera && m.capture == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrCameraRequired, id)
	}
	if !m.machine.TransitionTo(fsm.SessionActive) {
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot start session from %v",
			ErrInvalidTransition, m.machine.Current())
	}

	session := reg.factory()
	sc := newContext(m.rootCtx, id, m.log, m.bus, m.capture, m.anim)
	sc.listener, _ = session.(PhaseListener)
	act := &activeSession{id: id, session: session, sc: sc}
	m.active = act
	m.idleFor = 0
	m.mu.Unlock()

	m.log.Info("session starting", zap.String("mode", id),
		zap.String("session_id", sc.id),
		zap.Duration("estimated", reg.desc.EstimatedDuration))
	m.bus.Publish(events.NewEvent(events.KindSessionStarted, id,
		map[string]any{"mode": id, "session_id": sc.id}))

	m.guardHook(sc, "enter", func() { session.OnEnter(sc) })
	m.finalizeIfComplete()

	return nil
}

// ActivateNext starts the next registered mode in round robin order.
func (m *Manager) ActivateNext() error {
	m.mu.Lock()
	if len(m.order) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: no modes registered", ErrModeNotFound)
	}
	id := m.order[m.nextIdx%len(m.order)]
	m.nextIdx++
	m.mu.Unlock()

	return m.Activate(id)
}

// DispatchInput routes one input event. With a session active every
// input goes to the session; with none, everything is dropped except
// the reserved select-next control, which starts the next mode.
func (m *Manager) DispatchInput(ev events.Event) {
	m.mu.Lock()
	act := m.active
	m.mu.Unlock()

	if act == nil {
		if isControlNext(ev) {
			err := m.ActivateNext()
			if err != nil {
				m.log.Warn("could not start next mode", zap.Error(err))
			}
		} else {
			m.log.Debug("dropping input with no session active",
				zap.String("source", ev.Source))
		}
		return
	}

	var handled bool
	m.guardHook(act.sc, "input", func() {
		handled = act.session.OnInput(act.sc, ev)
	})
	if !handled {
		act.sc.Log.Debug("input not handled",
			zap.String("source", ev.Source))
	}
	m.finalizeIfComplete()
}

// Tick advances the kiosk by one frame: buffered inputs first, then
// animation, then the session update, then rendering. With no session
// it accumulates idle time toward an automatic activation.
func (m *Manager) Tick(delta time.Duration) {
	for _, ev := range m.drainPending() {
		m.DispatchInput(ev)
	}

	if m.anim != nil {
		m.anim.Tick()
	}

	m.mu.Lock()
	act := m.active
	m.mu.Unlock()

	if act == nil {
		m.maybeIdleActivate(delta)
		return
	}

	m.guardHook(act.sc, "update", func() {
		act.session.OnUpdate(act.sc, delta)
	})
	if m.finalizeIfComplete() {
		return
	}

	renderer, ok := act.session.(Renderer)
	if !ok {
		return
	}
	for _, target := range m.surfaces {
		m.guardHook(act.sc, "render", func() {
			target.Show(renderer.RenderFrame(act.sc, target))
		})
	}
	m.finalizeIfComplete()
}

// ActiveMode reports the running mode's ID, if any.
func (m *Manager) ActiveMode() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return "", false
	}
	return m.active.id, true
}

// State exposes the application state machine's current state.
func (m *Manager) State() fsm.State {
	return m.machine.Current()
}

// SessionFaults reports how many session hook panics have been
// recovered since startup.
func (m *Manager) SessionFaults() uint64 {
	return m.faults.Load()
}

// Shutdown force-completes any active session and tears it down. The
// run loop calls this once on exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	act := m.active
	m.mu.Unlock()

	if act == nil {
		return
	}
	act.sc.Complete(SessionResult{Success: false, Summary: "kiosk shutting down"})
	m.teardown(act)
}

func (m *Manager) enqueueInput(ev events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, ev)
}

func (m *Manager) drainPending() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending := m.pending
	m.pending = nil
	return pending
}

func isControlNext(ev events.Event) bool {
	v, ok := ev.Payload[InputControlKey]
	return ok && v == InputControlNext
}

// guardHook runs one session hook behind a panic boundary. A panic is
// counted, logged, and converted into a failure completion so the
// session tears down cleanly.
func (m *Manager) guardHook(sc *Context, hook string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		m.faults.Add(1)
		sc.Log.Error("session hook panicked",
			zap.String("hook", hook),
			zap.Any("panic", r),
			zap.Stack("stack"))
		sc.Complete(SessionResult{
			Success: false,
			Summary: fmt.Sprintf("%s hook panicked", hook),
		})
	}()

	fn()
}

// finalizeIfComplete tears the active session down once it has a
// recorded result. It reports whether a teardown happened.
func (m *Manager) finalizeIfComplete() bool {
	m.mu.Lock()
	act := m.active
	m.mu.Unlock()

	if act == nil {
		return false
	}
	if _, ok := act.sc.Completed(); !ok {
		return false
	}

	m.teardown(act)
	return true
}

func (m *Manager) teardown(act *activeSession) {
	m.machine.TransitionTo(fsm.Transitioning)

	result, completed := act.sc.Completed()
	if completed && result.EmitOutput {
		m.bus.Publish(events.NewEvent(events.KindOutputRequested, act.id,
			outputPayload(act.id, act.sc.id, result)))
	}

	m.guardHook(act.sc, "exit", func() { act.session.OnExit(act.sc) })

	if !completed {
		// the exit hook was the session's last chance to complete
		result, completed = act.sc.Completed()
		if !completed {
			result = SessionResult{
				Success: false,
				Summary: "session ended without completing",
			}
		}
	}

	act.sc.cancel()
	if m.anim != nil {
		m.anim.Reset()
	}

	m.mu.Lock()
	m.active = nil
	m.idleFor = 0
	m.mu.Unlock()

	m.machine.TransitionTo(fsm.Idle)

	m.log.Info("session completed",
		zap.String("mode", act.id),
		zap.String("session_id", act.sc.id),
		zap.Bool("success", result.Success))

	payload := map[string]any{
		"mode":       act.id,
		"session_id": act.sc.id,
		"success":    result.Success,
	}
	if result.Summary != "" {
		payload["summary"] = result.Summary
	}
	m.bus.Publish(events.NewEvent(events.KindSessionCompleted, act.id,
		payload))
}

// outputPayload copies the session's payload and adds the correlation
// keys, without clobbering anything the session chose to set itself.
func outputPayload(id, sessionID string, result SessionResult) map[string]any {
	payload := make(map[string]any, len(result.OutputPayload)+2)
	for k, v := range result.OutputPayload {
		payload[k] = v
	}
	if _, ok := payload["mode"]; !ok {
		payload["mode"] = id
	}
	if _, ok := payload["session_id"]; !ok {
		payload["session_id"] = sessionID
	}
	return payload
}

func (m *Manager) maybeIdleActivate(delta time.Duration) {
	m.mu.Lock()
	if m.idleTimeout <= 0 || len(m.order) == 0 {
		m.mu.Unlock()
		return
	}
	m.idleFor += delta
	if m.idleFor < m.idleTimeout {
		m.mu.Unlock()
		return
	}
	m.idleFor = 0

	var id string
	if m.rng != nil {
		id = m.order[m.rng.Intn(len(m.order))]
	} else {
		id = m.order[m.nextIdx%len(m.order)]
		m.nextIdx++
	}
	m.mu.Unlock()

	if !m.machine.TransitionTo(fsm.SessionSelecting) {
		return
	}

	m.log.Info("idle timeout reached, starting attract session",
		zap.String("mode", id))
	err := m.Activate(id)
	if err != nil {
		m.log.Warn("idle activation failed", zap.Error(err))
		m.machine.TransitionTo(fsm.Idle)
	}
}
