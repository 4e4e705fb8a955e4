/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikeb26/midway/internal/events"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 30 * time.Second

	// queuedFraction is the progress credited to a task that has not
	// started yet; runningCap is the most an unfinished task can claim.
	queuedFraction = 0.05
	runningCap     = 0.9
)

var ErrAlreadyStarted = errors.New("generation batch already started")

// Orchestrator runs one batch of tasks. Each task gets its own worker
// goroutine, a wall clock deadline, and a retry budget. The tick loop
// polls Progress and IsComplete; nothing here blocks the caller.
//
// An Orchestrator is single use: build one per batch.
type Orchestrator struct {
	lock    sync.Mutex
	tasks   []*task
	overall float64 // high-water mark so reported progress never regresses
	cancel  context.CancelFunc
	started bool

	bus *events.Bus
	log *zap.Logger
	wg  sync.WaitGroup
}

type task struct {
	spec     TaskSpec
	status   Status
	attempts int
	result   any
	err      error
	started  time.Time
	maxFrac  float64
}

func New(bus *events.Bus, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		bus: bus,
		log: log,
	}
}

// Start launches every task on its own goroutine and returns
// immediately. Tasks inherit cancellation from ctx.
func (o *Orchestrator) Start(ctx context.Context, specs []TaskSpec) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	if o.started {
		return ErrAlreadyStarted
	}
	o.started = true

	ctx, o.cancel = context.WithCancel(ctx)

	now := time.Now()
	o.tasks = make([]*task, len(specs))
	for i, spec := range specs {
		if spec.Timeout <= 0 {
			spec.Timeout = DefaultTimeout
		}
		o.tasks[i] = &task{
			spec:    spec,
			status:  Pending,
			started: now,
			maxFrac: queuedFraction,
		}
	}

	for i := range o.tasks {
		o.wg.Add(1)
		go o.runTask(ctx, i)
	}

	return nil
}

func (o *Orchestrator) runTask(ctx context.Context, idx int) {
	defer o.wg.Done()

	t := o.tasks[idx]
	taskCtx, cancelTask := context.WithDeadline(ctx,
		t.started.Add(t.spec.Timeout))
	defer cancelTask()

	o.markRunning(idx)

	var lastErr error
	for attempt := 0; attempt <= t.spec.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-taskCtx.Done():
				o.expire(idx, taskCtx, lastErr)
				return
			case <-time.After(t.spec.RetryDelay):
			}
		}

		o.bumpAttempts(idx)
		result, err := o.invokeOnce(taskCtx, t.spec)
		if err == nil {
			o.finish(idx, Done, result, nil)
			return
		}
		lastErr = err

		// a dead context means the attempt lost to the deadline or a
		// cancel, not an ordinary failure; never re-invoke after that
		if taskCtx.Err() != nil {
			o.expire(idx, taskCtx, lastErr)
			return
		}

		o.log.Warn("generation attempt failed",
			zap.String("kind", t.spec.Kind),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	o.finish(idx, Failed, t.spec.Fallback, lastErr)
}

// invokeOnce races the task's invoke against the task context so that
// an invoke which ignores cancellation cannot wedge the worker past
// its deadline.
func (o *Orchestrator) invokeOnce(ctx context.Context, spec TaskSpec) (any,
	error) {

	type outcome struct {
		result any
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("invoke panicked: %v", r)}
			}
		}()
		result, err := spec.Invoke(ctx)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// expire resolves a task whose context died: a passed deadline becomes
// TimedOut, a cancel becomes Failed. Both carry the fallback result.
func (o *Orchestrator) expire(idx int, ctx context.Context, lastErr error) {
	t := o.tasks[idx]

	status := TimedOut
	err := ctx.Err()
	if errors.Is(err, context.Canceled) {
		status = Failed
		if lastErr != nil && !errors.Is(lastErr, context.Canceled) {
			err = lastErr
		}
	}

	o.finish(idx, status, t.spec.Fallback, err)
}

func (o *Orchestrator) markRunning(idx int) {
	o.lock.Lock()
	defer o.lock.Unlock()

	t := o.tasks[idx]
	if t.status == Pending {
		t.status = Running
	}
}

func (o *Orchestrator) bumpAttempts(idx int) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.tasks[idx].attempts++
}

func (o *Orchestrator) finish(idx int, status Status, result any, err error) {
	o.lock.Lock()
	t := o.tasks[idx]
	if t.status.IsTerminal() {
		o.lock.Unlock()
		return
	}
	t.status = status
	t.result = result
	t.err = err
	t.maxFrac = 1.0

	allDone := true
	for _, other := range o.tasks {
		if !other.status.IsTerminal() {
			allDone = false
			break
		}
	}
	attempts := t.attempts
	o.lock.Unlock()

	o.log.Info("generation task finished",
		zap.String("kind", t.spec.Kind),
		zap.Stringer("status", status),
		zap.Int("attempts", attempts),
		zap.Error(err))

	payload := map[string]any{
		"kind":     t.spec.Kind,
		"status":   status.String(),
		"attempts": attempts,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	o.bus.Publish(events.NewEvent(events.KindGenerationTask, "generation",
		payload))

	if allDone {
		o.bus.Publish(events.NewEvent(events.KindGenerationDone, "generation",
			map[string]any{"tasks": len(o.tasks)}))
	}
}

// Progress reports overall batch progress in [0, 1] as the mean of the
// per task fractions. It never decreases, even while a task retries.
func (o *Orchestrator) Progress() float64 {
	o.lock.Lock()
	defer o.lock.Unlock()

	if len(o.tasks) == 0 {
		return 1.0
	}

	var sum float64
	for _, t := range o.tasks {
		sum += o.fractionLocked(t)
	}
	overall := sum / float64(len(o.tasks))
	if overall > o.overall {
		o.overall = overall
	}

	return o.overall
}

func (o *Orchestrator) fractionLocked(t *task) float64 {
	var frac float64
	switch {
	case t.status.IsTerminal():
		frac = 1.0
	case t.status == Pending:
		frac = queuedFraction
	default:
		elapsed := time.Since(t.started)
		frac = float64(elapsed) / float64(t.spec.Timeout)
		if frac < queuedFraction {
			frac = queuedFraction
		}
		if frac > runningCap {
			frac = runningCap
		}
	}

	if frac < t.maxFrac {
		frac = t.maxFrac
	} else {
		t.maxFrac = frac
	}

	return frac
}

// IsComplete reports whether every task in the batch has reached a
// terminal status. It is false before Start.
func (o *Orchestrator) IsComplete() bool {
	o.lock.Lock()
	defer o.lock.Unlock()

	for _, t := range o.tasks {
		if !t.status.IsTerminal() {
			return false
		}
	}

	return o.started
}

// Cancel asks all in flight work to stop. Already terminal tasks are
// untouched; live tasks resolve as Failed with their fallback.
func (o *Orchestrator) Cancel() {
	o.lock.Lock()
	cancel := o.cancel
	o.lock.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until every worker goroutine has exited. Mostly useful
// in tests and teardown paths; the tick loop polls instead.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Snapshot returns a point in time copy of every task's state, in the
// order the tasks were given to Start.
func (o *Orchestrator) Snapshot() []TaskView {
	o.lock.Lock()
	defer o.lock.Unlock()

	views := make([]TaskView, len(o.tasks))
	for i, t := range o.tasks {
		views[i] = TaskView{
			Kind:     t.spec.Kind,
			Status:   t.status,
			Attempts: t.attempts,
			Result:   t.result,
			Err:      t.err,
			Fraction: o.fractionLocked(t),
			Label:    t.status.Label(),
		}
	}

	return views
}

// ResultFor returns the result recorded for the first task of the
// given kind. Failed and timed out tasks carry their fallback, so ok
// is true whenever the task is terminal.
func (o *Orchestrator) ResultFor(kind string) (any, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()

	for _, t := range o.tasks {
		if t.spec.Kind == kind && t.status.IsTerminal() {
			return t.result, true
		}
	}

	return nil, false
}
