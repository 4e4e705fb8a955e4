/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/mikeb26/midway/internal/anim"
	"github.com/mikeb26/midway/internal/capture"
	"github.com/mikeb26/midway/internal/events"
	"github.com/mikeb26/midway/internal/fsm"
	"github.com/mikeb26/midway/internal/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const tick = 16 * time.Millisecond

type fakeSession struct {
	entered int
	updates int
	inputs  []events.Event
	exits   int

	onEnter  func(sc *Context)
	onUpdate func(sc *Context, tickNum int)
	onInput  func(sc *Context, ev events.Event) bool
	onExit   func(sc *Context)
}

func (f *fakeSession) OnEnter(sc *Context) {
	f.entered++
	if f.onEnter != nil {
		f.onEnter(sc)
	}
}

func (f *fakeSession) OnUpdate(sc *Context, delta time.Duration) {
	f.updates++
	if f.onUpdate != nil {
		f.onUpdate(sc, f.updates)
	}
}

func (f *fakeSession) OnInput(sc *Context, ev events.Event) bool {
	f.inputs = append(f.inputs, ev)
	if f.onInput != nil {
		return f.onInput(sc, ev)
	}
	return true
}

func (f *fakeSession) OnExit(sc *Context) {
	f.exits++
	if f.onExit != nil {
		f.onExit(sc)
	}
}

type renderSession struct {
	fakeSession
	onRender func(sc *Context, target surface.Target) surface.Frame
}

func (r *renderSession) RenderFrame(sc *Context,
	target surface.Target) surface.Frame {

	if r.onRender != nil {
		return r.onRender(sc, target)
	}
	return surface.Frame{}
}

func newTestManager(t *testing.T, opts ...func(*Params)) (*Manager,
	*events.Bus) {

	log := zaptest.NewLogger(t)
	bus := events.NewBus(log)
	params := Params{
		Bus:     bus,
		Machine: fsm.NewKioskMachine(log),
		Log:     log,
		Anim:    anim.NewDriver(60),
	}
	for _, opt := range opts {
		opt(&params)
	}
	return NewManager(context.Background(), params), bus
}

func controlNextEvent() events.Event {
	return events.NewEvent(events.KindInput, "button",
		map[string]any{InputControlKey: InputControlNext})
}

func pressEvent() events.Event {
	return events.NewEvent(events.KindInput, "button",
		map[string]any{"action": "press"})
}

func TestActivationIsExclusive(t *testing.T) {
	mgr, _ := newTestManager(t)

	fortune := &fakeSession{}
	quiz := &fakeSession{}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fortune }))
	require.NoError(t, mgr.Register(Descriptor{ID: "quiz"},
		func() Session { return quiz }))

	require.NoError(t, mgr.Activate("fortune"))

	err := mgr.Activate("quiz")
	assert.ErrorIs(t, err, ErrSessionActive)
	assert.Zero(t, quiz.entered)

	id, ok := mgr.ActiveMode()
	require.True(t, ok)
	assert.Equal(t, "fortune", id)
	assert.Equal(t, fsm.SessionActive, mgr.State())
	assert.Equal(t, 1, fortune.entered)

	// once fortune finishes, quiz can start
	fortune.onUpdate = func(sc *Context, tickNum int) {
		sc.Complete(SessionResult{Success: true})
	}
	mgr.Tick(tick)
	assert.Equal(t, fsm.Idle, mgr.State())
	assert.Equal(t, 1, fortune.exits)

	require.NoError(t, mgr.Activate("quiz"))
	assert.Equal(t, 1, quiz.entered)
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	mgr, _ := newTestManager(t)

	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return &fakeSession{} }))

	err := mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return &fakeSession{} })
	assert.ErrorIs(t, err, ErrModeExists)

	assert.Len(t, mgr.Modes(), 1)
}

func TestActivateUnknownMode(t *testing.T) {
	mgr, _ := newTestManager(t)

	err := mgr.Activate("mystery")
	assert.ErrorIs(t, err, ErrModeNotFound)
	assert.Equal(t, fsm.Idle, mgr.State())
}

func TestActivateCameraModeNeedsCaptureSource(t *testing.T) {
	mgr, _ := newTestManager(t)

	fs := &fakeSession{}
	require.NoError(t, mgr.Register(
		Descriptor{ID: "photobooth", RequiresCamera: true},
		func() Session { return fs }))

	err := mgr.Activate("photobooth")
	assert.ErrorIs(t, err, ErrCameraRequired)
	assert.Equal(t, fsm.Idle, mgr.State())
	assert.Zero(t, fs.entered)

	// with a capture source wired the same mode starts fine
	mgr2, _ := newTestManager(t, func(p *Params) {
		p.Capture = capture.NewStaticSource()
	})
	require.NoError(t, mgr2.Register(
		Descriptor{ID: "photobooth", RequiresCamera: true},
		func() Session { return &fakeSession{} }))
	require.NoError(t, mgr2.Activate("photobooth"))
}

func TestUpdatePanicEndsSessionAsFailure(t *testing.T) {
	mgr, bus := newTestManager(t)

	var completions []events.Event
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		completions = append(completions, ev)
	})

	fs := &fakeSession{
		onUpdate: func(sc *Context, tickNum int) {
			if tickNum == 3 {
				panic("synthetic fault")
			}
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)
	mgr.Tick(tick)
	assert.Equal(t, fsm.SessionActive, mgr.State())

	mgr.Tick(tick)

	assert.Equal(t, fsm.Idle, mgr.State())
	_, ok := mgr.ActiveMode()
	assert.False(t, ok)
	assert.Equal(t, 1, fs.exits)
	assert.Equal(t, uint64(1), mgr.SessionFaults())

	require.Len(t, completions, 1)
	assert.Equal(t, false, completions[0].Payload["success"])

	// the kiosk keeps going: a fresh session starts cleanly
	require.NoError(t, mgr.Activate("fortune"))
	assert.Equal(t, fsm.SessionActive, mgr.State())
}

func TestTickOrderInputUpdateRender(t *testing.T) {
	var journal []string

	mem := surface.NewMemory("main", 800, 600)
	mgr, bus := newTestManager(t, func(p *Params) {
		p.Surfaces = []surface.Target{mem}
	})

	rs := &renderSession{}
	rs.onInput = func(sc *Context, ev events.Event) bool {
		journal = append(journal, "input")
		return true
	}
	rs.onUpdate = func(sc *Context, tickNum int) {
		journal = append(journal, "update")
	}
	rs.onRender = func(sc *Context, target surface.Target) surface.Frame {
		journal = append(journal, "render")
		return surface.Frame{Headline: "step right up"}
	}

	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return rs }))
	require.NoError(t, mgr.Activate("fortune"))

	bus.Publish(pressEvent())
	bus.Publish(pressEvent())
	mgr.Tick(tick)

	assert.Equal(t, []string{"input", "input", "update", "render"}, journal)

	frame, shown := mem.Last()
	assert.Equal(t, 1, shown)
	assert.Equal(t, "step right up", frame.Headline)
}

func TestInputDroppedWithoutSessionExceptControlNext(t *testing.T) {
	mgr, bus := newTestManager(t)

	fortune := &fakeSession{}
	quiz := &fakeSession{}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fortune }))
	require.NoError(t, mgr.Register(Descriptor{ID: "quiz"},
		func() Session { return quiz }))

	// ordinary input with no session active goes nowhere
	bus.Publish(pressEvent())
	mgr.Tick(tick)
	_, ok := mgr.ActiveMode()
	assert.False(t, ok)
	assert.Zero(t, fortune.entered)

	// the reserved control starts the next mode in order
	bus.Publish(controlNextEvent())
	mgr.Tick(tick)
	id, ok := mgr.ActiveMode()
	require.True(t, ok)
	assert.Equal(t, "fortune", id)

	// with a session active, the control routes to the session like
	// any other input
	bus.Publish(controlNextEvent())
	mgr.Tick(tick)
	id, _ = mgr.ActiveMode()
	assert.Equal(t, "fortune", id)
	require.Len(t, fortune.inputs, 1)
}

func TestIdleTimeoutStartsSessionsRoundRobin(t *testing.T) {
	mgr, _ := newTestManager(t, func(p *Params) {
		p.IdleTimeout = 100 * time.Millisecond
	})

	fortune := &fakeSession{}
	quiz := &fakeSession{}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fortune }))
	require.NoError(t, mgr.Register(Descriptor{ID: "quiz"},
		func() Session { return quiz }))

	mgr.Tick(60 * time.Millisecond)
	_, ok := mgr.ActiveMode()
	assert.False(t, ok)

	mgr.Tick(60 * time.Millisecond)
	id, ok := mgr.ActiveMode()
	require.True(t, ok)
	assert.Equal(t, "fortune", id)

	// finish it; the next idle activation picks the next mode
	fortune.onUpdate = func(sc *Context, tickNum int) {
		sc.Complete(SessionResult{Success: true})
	}
	mgr.Tick(tick)
	assert.Equal(t, fsm.Idle, mgr.State())

	mgr.Tick(120 * time.Millisecond)
	id, ok = mgr.ActiveMode()
	require.True(t, ok)
	assert.Equal(t, "quiz", id)
}

func TestIdleTimeoutRandomizedSelection(t *testing.T) {
	mgr, _ := newTestManager(t, func(p *Params) {
		p.IdleTimeout = 50 * time.Millisecond
		p.Rand = rand.New(rand.NewSource(7))
	})

	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return &fakeSession{} }))
	require.NoError(t, mgr.Register(Descriptor{ID: "quiz"},
		func() Session { return &fakeSession{} }))

	mgr.Tick(60 * time.Millisecond)

	id, ok := mgr.ActiveMode()
	require.True(t, ok)
	assert.Contains(t, []string{"fortune", "quiz"}, id)
	assert.Equal(t, fsm.SessionActive, mgr.State())
}

func TestDuplicateCompletionKeepsFirstResult(t *testing.T) {
	mgr, bus := newTestManager(t)

	var completions []events.Event
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		completions = append(completions, ev)
	})

	fs := &fakeSession{
		onUpdate: func(sc *Context, tickNum int) {
			sc.Complete(SessionResult{Success: true, Summary: "first"})
			sc.Complete(SessionResult{Success: false, Summary: "second"})
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)

	require.Len(t, completions, 1)
	assert.Equal(t, true, completions[0].Payload["success"])
	assert.Equal(t, "first", completions[0].Payload["summary"])
}

func TestCompletionDuringInputSkipsUpdate(t *testing.T) {
	mgr, bus := newTestManager(t)

	fs := &fakeSession{
		onInput: func(sc *Context, ev events.Event) bool {
			sc.Complete(SessionResult{Success: true})
			return true
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	bus.Publish(pressEvent())
	mgr.Tick(tick)

	assert.Zero(t, fs.updates)
	assert.Equal(t, 1, fs.exits)
	assert.Equal(t, fsm.Idle, mgr.State())
}

func TestOutputRequestedBeforeSessionCompleted(t *testing.T) {
	mgr, bus := newTestManager(t)

	var sequence []events.Event
	record := func(ev events.Event) { sequence = append(sequence, ev) }
	bus.Subscribe(events.KindOutputRequested, record)
	bus.Subscribe(events.KindSessionCompleted, record)

	fs := &fakeSession{
		onUpdate: func(sc *Context, tickNum int) {
			sc.Complete(SessionResult{
				Success:    true,
				EmitOutput: true,
				OutputPayload: map[string]any{
					"title": "Your Fortune",
					"body":  "A tall dark stranger approaches",
				},
			})
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)

	require.Len(t, sequence, 2)
	assert.Equal(t, events.KindOutputRequested, sequence[0].Kind)
	assert.Equal(t, "Your Fortune", sequence[0].Payload["title"])
	assert.Equal(t, "fortune", sequence[0].Payload["mode"])
	assert.Equal(t, events.KindSessionCompleted, sequence[1].Kind)

	// both events carry the same session correlation id
	sid := sequence[0].Payload["session_id"]
	assert.NotEmpty(t, sid)
	assert.Equal(t, sid, sequence[1].Payload["session_id"])
}

func TestNoOutputRequestedWithoutEmitFlag(t *testing.T) {
	mgr, bus := newTestManager(t)

	var outputs []events.Event
	bus.Subscribe(events.KindOutputRequested, func(ev events.Event) {
		outputs = append(outputs, ev)
	})

	fs := &fakeSession{
		onUpdate: func(sc *Context, tickNum int) {
			sc.Complete(SessionResult{Success: true})
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)

	assert.Empty(t, outputs)
}

func TestExitHookPanicKeepsEarlierResult(t *testing.T) {
	mgr, bus := newTestManager(t)

	var completions []events.Event
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		completions = append(completions, ev)
	})

	fs := &fakeSession{
		onUpdate: func(sc *Context, tickNum int) {
			sc.Complete(SessionResult{Success: true})
		},
		onExit: func(sc *Context) {
			panic("exit fault")
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)

	assert.Equal(t, fsm.Idle, mgr.State())
	assert.Equal(t, uint64(1), mgr.SessionFaults())
	require.Len(t, completions, 1)
	assert.Equal(t, true, completions[0].Payload["success"])
}

func TestCompleteDuringExitHook(t *testing.T) {
	mgr, bus := newTestManager(t)

	var completions []events.Event
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		completions = append(completions, ev)
	})

	fs := &fakeSession{
		onExit: func(sc *Context) {
			sc.Complete(SessionResult{Success: true, Summary: "late completion"})
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Shutdown()

	// Shutdown already recorded a failure; the exit hook's attempt is
	// the duplicate and loses
	require.Len(t, completions, 1)
	assert.Equal(t, false, completions[0].Payload["success"])
	assert.Equal(t, fsm.Idle, mgr.State())
}

func TestShutdownTearsDownActiveSession(t *testing.T) {
	mgr, bus := newTestManager(t)

	var completions []events.Event
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		completions = append(completions, ev)
	})

	fs := &fakeSession{}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return fs }))
	require.NoError(t, mgr.Activate("fortune"))

	sessionCtx := mgrActiveCtx(t, mgr)
	mgr.Shutdown()

	assert.Equal(t, fsm.Idle, mgr.State())
	assert.Equal(t, 1, fs.exits)
	require.Len(t, completions, 1)
	assert.Equal(t, false, completions[0].Payload["success"])

	select {
	case <-sessionCtx.Done():
	default:
		t.Fatal("session context should be canceled at teardown")
	}

	// idempotent
	mgr.Shutdown()
	require.Len(t, completions, 1)
}

func mgrActiveCtx(t *testing.T, mgr *Manager) context.Context {
	t.Helper()
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	require.NotNil(t, mgr.active)
	return mgr.active.sc.Ctx()
}

func TestRenderPanicEndsSession(t *testing.T) {
	mem := surface.NewMemory("main", 800, 600)
	mgr, _ := newTestManager(t, func(p *Params) {
		p.Surfaces = []surface.Target{mem}
	})

	rs := &renderSession{
		onRender: func(sc *Context, target surface.Target) surface.Frame {
			panic("render fault")
		},
	}
	require.NoError(t, mgr.Register(Descriptor{ID: "fortune"},
		func() Session { return rs }))
	require.NoError(t, mgr.Activate("fortune"))

	mgr.Tick(tick)

	assert.Equal(t, fsm.Idle, mgr.State())
	assert.Equal(t, uint64(1), mgr.SessionFaults())
	assert.Equal(t, 1, rs.exits)
}
