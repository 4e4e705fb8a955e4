/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package printq

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/midway/internal/events"
	"go.uber.org/zap"
)

const defaultBusyPoll = 250 * time.Millisecond

// Queue serializes output jobs onto one Device. Enqueue never blocks
// and never drops; the consumer goroutine owns the device connection
// and processes one job at a time.
type Queue struct {
	dev  Device
	fmtr Formatter
	bus  *events.Bus
	log  *zap.Logger

	mu   sync.Mutex
	jobs []Job

	wake chan struct{}
	done chan struct{}

	// connection state, touched only by the consumer goroutine
	connected bool
	dirty     bool

	busyPoll time.Duration
}

func New(dev Device, fmtr Formatter, bus *events.Bus,
	log *zap.Logger) *Queue {

	return &Queue{
		dev:      dev,
		fmtr:     fmtr,
		bus:      bus,
		log:      log,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		busyPoll: defaultBusyPoll,
	}
}

// Enqueue appends a job and wakes the consumer. Safe from any
// goroutine; returns the job's ID.
func (q *Queue) Enqueue(job Job) string {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Queued.IsZero() {
		job.Queued = time.Now()
	}

	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	depth := len(q.jobs)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	q.log.Info("output job queued",
		zap.String("job", job.ID),
		zap.String("origin", job.Origin),
		zap.Int("depth", depth))
	return job.ID
}

// Pending reports how many jobs are waiting, not counting one being
// printed right now.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Start launches the consumer. Call once; the consumer exits when ctx
// is canceled.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

// Wait blocks until the consumer goroutine has exited.
func (q *Queue) Wait() {
	<-q.done
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.done)

	for {
		select {
		case <-ctx.Done():
			q.shutdownDevice()
			return
		default:
		}

		job, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				q.shutdownDevice()
				return
			case <-q.wake:
			}
			continue
		}
		q.process(ctx, job)
	}
}

func (q *Queue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return Job{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

func (q *Queue) process(ctx context.Context, job Job) {
	art, err := q.fmtr.Format(ctx, job)
	if err != nil {
		q.fail(job, "format", err)
		return
	}

	if err := q.ensureConnected(ctx); err != nil {
		q.fail(job, "connect", err)
		return
	}
	if err := q.awaitReady(ctx); err != nil {
		q.dirty = true
		q.fail(job, "busy", err)
		return
	}
	if err := q.dev.Submit(ctx, job, art); err != nil {
		q.dirty = true
		q.fail(job, "submit", err)
		return
	}

	q.log.Info("output job printed",
		zap.String("job", job.ID),
		zap.String("origin", job.Origin),
		zap.Duration("waited", time.Since(job.Queued)))
	payload := map[string]any{
		"job_id": job.ID,
		"origin": job.Origin,
	}
	if job.SessionID != "" {
		payload["session_id"] = job.SessionID
	}
	q.bus.Publish(events.NewEvent(events.KindOutputDone, job.Origin,
		payload))
}

// ensureConnected tears down a connection that saw an error on its
// last job, then connects if needed.
func (q *Queue) ensureConnected(ctx context.Context) error {
	if q.dirty {
		if err := q.dev.Disconnect(); err != nil {
			q.log.Warn("printer disconnect failed", zap.Error(err))
		}
		q.connected = false
		q.dirty = false
	}
	if q.connected {
		return nil
	}
	if err := q.dev.Connect(ctx); err != nil {
		return err
	}
	q.connected = true
	q.log.Info("printer connected")
	return nil
}

func (q *Queue) awaitReady(ctx context.Context) error {
	for {
		busy, err := q.dev.Busy()
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(q.busyPoll):
		}
	}
}

func (q *Queue) fail(job Job, stage string, err error) {
	q.log.Warn("output job failed",
		zap.String("job", job.ID),
		zap.String("origin", job.Origin),
		zap.String("stage", stage),
		zap.Error(err))
	payload := map[string]any{
		"job_id": job.ID,
		"origin": job.Origin,
		"stage":  stage,
		"error":  err.Error(),
	}
	if job.SessionID != "" {
		payload["session_id"] = job.SessionID
	}
	q.bus.Publish(events.NewEvent(events.KindOutputFailed, job.Origin,
		payload))
}

func (q *Queue) shutdownDevice() {
	if !q.connected {
		return
	}
	if err := q.dev.Disconnect(); err != nil {
		q.log.Warn("printer disconnect failed", zap.Error(err))
	}
	q.connected = false
}
