/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package generation runs a session's slow generative work on worker
// goroutines and exposes poll friendly progress to the tick loop.
package generation

import (
	"context"
	"time"
)

// Status tracks one task through its life. Transitions are one
// directional; a terminal status never changes.
type Status int

const (
	Pending Status = iota
	Running
	Done
	Failed
	TimedOut
)

var statusNames = map[Status]string{
	Pending:  "Pending",
	Running:  "Running",
	Done:     "Done",
	Failed:   "Failed",
	TimedOut: "TimedOut",
}

func (s Status) String() string {
	name, ok := statusNames[s]
	if !ok {
		return "Unknown"
	}
	return name
}

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == Done || s == Failed || s == TimedOut
}

// Label is the short guest facing description shown in progress
// tickers.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "queued"
	case Running:
		return "generating"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

// InvokeFunc performs one attempt of a task's slow work. It should
// honor ctx; an invoke that ignores cancellation is abandoned once the
// task's deadline passes.
type InvokeFunc func(ctx context.Context) (any, error)

// TaskSpec describes one unit of generation work.
type TaskSpec struct {
	Kind   string
	Invoke InvokeFunc

	// Timeout is the wall clock budget for the task across all
	// attempts. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is how many times a failed (not timed out) attempt is
	// retried, after waiting RetryDelay each time.
	MaxRetries int
	RetryDelay time.Duration

	// Fallback is recorded as the task's result when it fails or times
	// out, so callers always have something to show.
	Fallback any
}

// TaskView is a point in time copy of one task's state.
type TaskView struct {
	Kind     string
	Status   Status
	Attempts int
	Result   any
	Err      error
	Fraction float64
	Label    string
}
