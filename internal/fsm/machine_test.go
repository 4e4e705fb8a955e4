/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestKioskTransitionTable(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		want bool
	}{
		{"idle to selecting", Idle, SessionSelecting, true},
		{"idle straight to active", Idle, SessionActive, true},
		{"idle to transitioning", Idle, Transitioning, false},
		{"selecting to active", SessionSelecting, SessionActive, true},
		{"selecting back to idle", SessionSelecting, Idle, true},
		{"active to transitioning", SessionActive, Transitioning, true},
		{"active straight to idle", SessionActive, Idle, false},
		{"transitioning to idle", Transitioning, Idle, true},
		{"transitioning to active", Transitioning, SessionActive, false},
		{"idle self loop", Idle, Idle, false},
		{"active self loop", SessionActive, SessionActive, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(tc.from, kioskTable(), zaptest.NewLogger(t))

			assert.Equal(t, tc.want, m.TransitionTo(tc.to))
			if tc.want {
				assert.Equal(t, tc.to, m.Current())
			} else {
				assert.Equal(t, tc.from, m.Current())
			}
		})
	}
}

func TestRejectedTransitionLeavesStateUnchanged(t *testing.T) {
	m := NewKioskMachine(zaptest.NewLogger(t))

	assert.False(t, m.TransitionTo(Transitioning))
	assert.Equal(t, Idle, m.Current())

	assert.True(t, m.TransitionTo(SessionActive))
	assert.False(t, m.TransitionTo(SessionSelecting))
	assert.Equal(t, SessionActive, m.Current())
}

func TestUnknownStateFailsClosed(t *testing.T) {
	m := NewMachine(State(42), kioskTable(), zaptest.NewLogger(t))

	for _, to := range []State{Idle, SessionSelecting, SessionActive, Transitioning} {
		assert.False(t, m.TransitionTo(to))
	}
	assert.Equal(t, State(42), m.Current())

	m2 := NewKioskMachine(zaptest.NewLogger(t))
	assert.False(t, m2.TransitionTo(State(42)))
	assert.Equal(t, Idle, m2.Current())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "SessionActive", SessionActive.String())
	assert.Equal(t, "State(42)", State(42).String())
}
