/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package fsm

import (
	"sync"

	"go.uber.org/zap"
)

// Machine validates state changes against a fixed transition table.
// A requested transition not present in the table is rejected and
// leaves the current state unchanged. States missing from the table
// have no legal outbound transitions, so an unexpected state wedges
// rather than wanders.
type Machine struct {
	lock    sync.Mutex
	current State
	allowed map[State]map[State]struct{}

	log *zap.Logger
}

func NewMachine(initial State, table map[State][]State, log *zap.Logger) *Machine {
	allowed := make(map[State]map[State]struct{}, len(table))
	for from, tos := range table {
		set := make(map[State]struct{}, len(tos))
		for _, to := range tos {
			set[to] = struct{}{}
		}
		allowed[from] = set
	}

	return &Machine{
		current: initial,
		allowed: allowed,
		log:     log,
	}
}

func kioskTable() map[State][]State {
	return map[State][]State{
		Idle:             {SessionSelecting, SessionActive},
		SessionSelecting: {SessionActive, Idle},
		SessionActive:    {Transitioning},
		Transitioning:    {Idle},
	}
}

// NewKioskMachine builds a machine with the kiosk's transition table,
// starting in Idle.
func NewKioskMachine(log *zap.Logger) *Machine {
	return NewMachine(Idle, kioskTable(), log)
}

// TransitionTo attempts to move the machine into next and reports
// whether the transition was taken.
func (m *Machine) TransitionTo(next State) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	tos, ok := m.allowed[m.current]
	if ok {
		_, ok = tos[next]
	}
	if !ok {
		m.log.Warn("rejected state transition",
			zap.Stringer("from", m.current),
			zap.Stringer("to", next))
		return false
	}

	m.log.Debug("state transition",
		zap.Stringer("from", m.current),
		zap.Stringer("to", next))
	m.current = next

	return true
}

// Current returns the machine's current state.
func (m *Machine) Current() State {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.current
}
