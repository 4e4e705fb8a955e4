/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package stats keeps per mode lifetime counters for the booth
// operator: how often each mode ran, how many sessions finished, and
// how the printer is holding up. Counters persist to a JSON file so
// they survive restarts.
package stats

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mikeb26/midway/internal/events"
)

// ModeStats aggregates one mode's lifetime counters.
type ModeStats struct {
	Runs        int `json:"runs"`
	Completed   int `json:"completed"` // sessions that ended successfully
	Abandoned   int `json:"abandoned"` // aborts, walkaways, and faults
	Prints      int `json:"prints"`
	PrintErrors int `json:"print_errors"`
}

// Store is a JSON-file-backed counter set. Mutations persist
// immediately; a failed persist keeps the in-memory counts.
type Store struct {
	mu   sync.RWMutex
	file string
	data map[string]*ModeStats
}

// NewStore loads existing counters from filename, or starts empty if
// the file does not exist. A file that exists but cannot be parsed is
// an error rather than silently discarded data.
func NewStore(filename string) (*Store, error) {
	if filename == "" {
		return nil, errors.New("stats store filename must not be empty")
	}

	store := &Store{
		file: filename,
		data: make(map[string]*ModeStats),
	}
	if err := store.loadFromFile(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) loadFromFile() error {
	info, err := os.Stat(s.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return errors.New("stats store path is a directory, want file")
	}

	f, err := os.Open(s.file)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var raw map[string]*ModeStats
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		raw = make(map[string]*ModeStats)
	}
	s.data = raw
	return nil
}

// persist writes the counters atomically via a temporary file plus
// rename.
func (s *Store) persist() error {
	encoded, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.file)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := s.file + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY,
		0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(encoded); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.file)
}

// Bind wires the store's counters to the kiosk event stream.
func (s *Store) Bind(bus *events.Bus) {
	bus.Subscribe(events.KindSessionStarted, func(ev events.Event) {
		s.bump(modeOf(ev), func(ms *ModeStats) { ms.Runs++ })
	})
	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		success, _ := ev.Payload["success"].(bool)
		s.bump(modeOf(ev), func(ms *ModeStats) {
			if success {
				ms.Completed++
			} else {
				ms.Abandoned++
			}
		})
	})
	bus.Subscribe(events.KindOutputDone, func(ev events.Event) {
		s.bump(originOf(ev), func(ms *ModeStats) { ms.Prints++ })
	})
	bus.Subscribe(events.KindOutputFailed, func(ev events.Event) {
		s.bump(originOf(ev), func(ms *ModeStats) { ms.PrintErrors++ })
	})
}

func modeOf(ev events.Event) string {
	if mode, ok := ev.Payload["mode"].(string); ok && mode != "" {
		return mode
	}
	return ev.Source
}

func originOf(ev events.Event) string {
	if origin, ok := ev.Payload["origin"].(string); ok && origin != "" {
		return origin
	}
	return ev.Source
}

func (s *Store) bump(mode string, apply func(*ModeStats)) {
	if mode == "" {
		mode = "unknown"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.data[mode]
	if !ok {
		ms = &ModeStats{}
		s.data[mode] = ms
	}
	apply(ms)
	_ = s.persist()
}

// For returns one mode's counters; zero counters for unseen modes.
func (s *Store) For(mode string) ModeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ms, ok := s.data[mode]; ok {
		return *ms
	}
	return ModeStats{}
}

// Snapshot copies every mode's counters.
func (s *Store) Snapshot() map[string]ModeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]ModeStats, len(s.data))
	for mode, ms := range s.data {
		out[mode] = *ms
	}
	return out
}
