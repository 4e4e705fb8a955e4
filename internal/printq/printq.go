/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package printq feeds completed sessions to the souvenir printer. One
// consumer goroutine drains an unbounded queue so a slow or wedged
// printer can never stall the kiosk's render loop.
package printq

import (
	"context"
	"time"

	"github.com/mikeb26/midway/internal/events"
)

// Job is one queued output request. Jobs print strictly in arrival
// order; a job's submission finishes before the next job starts.
type Job struct {
	ID        string
	Origin    string // mode that requested the output
	SessionID string // activation that produced it
	Title     string
	Body      string
	Footer    string
	ArtPNG    []byte
	Queued    time.Time
}

// Artifact is a formatted, device-ready rendition of a Job.
type Artifact struct {
	MIME string
	Data []byte
}

// Formatter renders a Job into whatever the device consumes.
type Formatter interface {
	Format(ctx context.Context, job Job) (Artifact, error)
}

// Device abstracts the physical printer or its spool-dir stand-in. The
// queue connects lazily and reconnects after any submission error.
type Device interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Busy() (bool, error)
	Submit(ctx context.Context, job Job, art Artifact) error
}

// JobFromEvent builds a Job from an output request event's payload.
func JobFromEvent(ev events.Event) Job {
	job := Job{Origin: ev.Source}
	if mode, ok := ev.Payload["mode"].(string); ok && mode != "" {
		job.Origin = mode
	}
	job.SessionID, _ = ev.Payload["session_id"].(string)
	job.Title, _ = ev.Payload["title"].(string)
	job.Body, _ = ev.Payload["body"].(string)
	job.Footer, _ = ev.Payload["footer"].(string)
	job.ArtPNG, _ = ev.Payload["art_png"].([]byte)
	return job
}
