/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package anim drives spring based easing for on screen values such as
// progress bars and panel slides.
package anim

import (
	"sync"

	"github.com/charmbracelet/harmonica"
)

// Driver advances a set of named spring animated values at a fixed
// tick rate. Values ease toward their targets; Snap bypasses the
// easing.
type Driver struct {
	lock   sync.Mutex
	spring harmonica.Spring
	tracks map[string]*track
}

type track struct {
	pos    float64
	vel    float64
	target float64
}

// NewDriver builds a driver tuned for the given tick rate in frames
// per second.
func NewDriver(fps int) *Driver {
	return &Driver{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.9),
		tracks: make(map[string]*track),
	}
}

// Set eases the named value toward target over subsequent ticks. A
// name not seen before starts from zero.
func (d *Driver) Set(name string, target float64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	tr, ok := d.tracks[name]
	if !ok {
		tr = &track{}
		d.tracks[name] = tr
	}
	tr.target = target
}

// Snap moves the named value to target immediately, killing any in
// flight easing.
func (d *Driver) Snap(name string, target float64) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tracks[name] = &track{pos: target, target: target}
}

// Tick advances every track by one frame.
func (d *Driver) Tick() {
	d.lock.Lock()
	defer d.lock.Unlock()

	for _, tr := range d.tracks {
		tr.pos, tr.vel = d.spring.Update(tr.pos, tr.vel, tr.target)
	}
}

// Value reports the current eased value for name, or 0 if the name has
// never been set.
func (d *Driver) Value(name string) float64 {
	d.lock.Lock()
	defer d.lock.Unlock()

	tr, ok := d.tracks[name]
	if !ok {
		return 0
	}

	return tr.pos
}

// Reset drops all tracks. Sessions call this on exit so the next
// session starts from a clean slate.
func (d *Driver) Reset() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.tracks = make(map[string]*track)
}
