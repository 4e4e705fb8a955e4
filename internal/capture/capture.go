/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package capture provides immutable frame snapshots from a camera or
// other frame source.
package capture

import (
	"sync"
	"time"
)

// Snapshot is one captured frame. Data is owned by the snapshot and
// never mutated after publication; readers must treat it as read only.
type Snapshot struct {
	Seq     uint64
	TakenAt time.Time
	Data    []byte
}

// Source yields the most recent snapshot, if any.
type Source interface {
	Latest() (Snapshot, bool)
}

// StaticSource is a Source fed by hand. The run loop owns one and
// pushes frames into it; sessions only ever see settled copies.
type StaticSource struct {
	lock   sync.RWMutex
	seq    uint64
	latest Snapshot
	valid  bool
}

func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// SetFrame stores a copy of data as the newest snapshot and returns
// it. The caller keeps ownership of data.
func (s *StaticSource) SetFrame(data []byte) Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)

	s.seq++
	s.latest = Snapshot{
		Seq:     s.seq,
		TakenAt: time.Now(),
		Data:    buf,
	}
	s.valid = true

	return s.latest
}

// Latest returns the most recent snapshot. ok is false until the first
// frame arrives.
func (s *StaticSource) Latest() (Snapshot, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.latest, s.valid
}
