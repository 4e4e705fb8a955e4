/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package surface

import (
	"sync"
)

// Memory is an in process Target that retains the last frame shown.
// The run loop's status line reads from one, and tests use it to
// observe rendering.
type Memory struct {
	lock  sync.RWMutex
	name  string
	w, h  int
	last  Frame
	shown int
}

func NewMemory(name string, w, h int) *Memory {
	return &Memory{name: name, w: w, h: h}
}

func (m *Memory) Name() string {
	return m.name
}

func (m *Memory) Size() (int, int) {
	return m.w, m.h
}

func (m *Memory) Show(frame Frame) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.last = frame
	m.shown++
}

// Last returns the most recently shown frame and how many frames have
// been shown in total.
func (m *Memory) Last() (Frame, int) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.last, m.shown
}
